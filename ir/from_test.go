package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/selectir/vocab"
)

func TestNewJoin(t *testing.T) {
	v := testVocab(t)
	matches := baseTable(t, v, "exact_matches")

	on, err := NewColumnCondition(qcol(t, v, "p", "product_id"), vocab.OpEq, qcol(t, v, "m", "product_id"))
	require.NoError(t, err)

	j, err := NewJoin(vocab.JoinInner, matches, "m", condGroup(t, vocab.CombineAnd, on))
	require.NoError(t, err)
	assert.Equal(t, "m", j.Alias)

	_, err = NewJoin("cross", matches, "m", condGroup(t, vocab.CombineAnd, on))
	require.Error(t, err)
	assert.True(t, vocab.IsVocabularyError(err))
}

func TestNewJoin_OnRestrictedToComparisons(t *testing.T) {
	v := testVocab(t)
	matches := baseTable(t, v, "exact_matches")

	between, err := NewBetween(qcol(t, v, "m", "confidence"), Number(0.5), Number(1))
	require.NoError(t, err)

	_, err = NewJoin(vocab.JoinLeft, matches, "m", condGroup(t, vocab.CombineAnd, between))
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
	assert.Contains(t, err.Error(), "value and column comparisons only")
}

func TestNewFrom(t *testing.T) {
	v := testVocab(t)
	offers := baseTable(t, v, "product_offers")

	f, err := NewFrom(offers, "p")
	require.NoError(t, err)
	assert.Equal(t, "p", f.Alias)
	assert.Nil(t, f.Derived)

	_, err = NewFrom(vocab.Table{}, "")
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
}

func TestNewFrom_WithJoins(t *testing.T) {
	v := testVocab(t)
	offers := baseTable(t, v, "product_offers")
	matches := baseTable(t, v, "exact_matches")
	competitors := baseTable(t, v, "competitor_offers")

	onMatch, err := NewColumnCondition(qcol(t, v, "p", "product_id"), vocab.OpEq, qcol(t, v, "m", "product_id"))
	require.NoError(t, err)
	j1, err := NewJoin(vocab.JoinInner, matches, "m", condGroup(t, vocab.CombineAnd, onMatch))
	require.NoError(t, err)

	onComp, err := NewColumnCondition(qcol(t, v, "m", "competitor_id"), vocab.OpEq, qcol(t, v, "c", "competitor_id"))
	require.NoError(t, err)
	j2, err := NewJoin(vocab.JoinLeft, competitors, "c", condGroup(t, vocab.CombineAnd, onComp))
	require.NoError(t, err)

	f, err := NewFrom(offers, "p", j1, j2)
	require.NoError(t, err)
	require.Len(t, f.Joins, 2)
	assert.Equal(t, vocab.JoinInner, f.Joins[0].Kind)
	assert.Equal(t, vocab.JoinLeft, f.Joins[1].Kind)
}

func TestNewDerivedTable(t *testing.T) {
	v := testVocab(t)
	competitors := baseTable(t, v, "competitor_offers")

	productID, err := NewColumnRef(qcol(t, v, "c", "product_id"), "")
	require.NoError(t, err)
	avgPrice, err := NewAggregate(vocab.AggAvg, qcol(t, v, "c", "price"), "avg_price")
	require.NoError(t, err)

	dt, err := NewDerivedTable(
		[]Expr{productID, avgPrice},
		competitors, "c",
		nil,
		[]QualifiedColumn{qcol(t, v, "c", "product_id")},
		"comp",
	)
	require.NoError(t, err)
	assert.Equal(t, "comp", dt.Alias)
}

func TestNewDerivedTable_AliasRequired(t *testing.T) {
	v := testVocab(t)
	competitors := baseTable(t, v, "competitor_offers")

	productID, err := NewColumnRef(qcol(t, v, "c", "product_id"), "")
	require.NoError(t, err)

	_, err = NewDerivedTable([]Expr{productID}, competitors, "c", nil, nil, "")
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
	assert.Contains(t, err.Error(), "alias is required")
}

func TestNewDerivedTable_CorrelationRejected(t *testing.T) {
	v := testVocab(t)
	competitors := baseTable(t, v, "competitor_offers")

	// Select list reaches for the outer alias "p".
	outer, err := NewColumnRef(qcol(t, v, "p", "product_id"), "")
	require.NoError(t, err)
	_, err = NewDerivedTable([]Expr{outer}, competitors, "c", nil, nil, "comp")
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
	assert.Contains(t, err.Error(), "reaches outside the derived table scope")

	// Same through the WHERE clause.
	own, err := NewColumnRef(qcol(t, v, "c", "product_id"), "")
	require.NoError(t, err)
	correlated, err := NewWhereL0(vocab.CombineAnd, condGroup(t, vocab.CombineAnd,
		valueCond(t, qcol(t, v, "p", "price"), vocab.OpGt, Number(10)),
	))
	require.NoError(t, err)
	_, err = NewDerivedTable([]Expr{own}, competitors, "c", &correlated, nil, "comp")
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
}

func TestNewFromDerived(t *testing.T) {
	v := testVocab(t)
	competitors := baseTable(t, v, "competitor_offers")

	productID, err := NewColumnRef(qcol(t, v, "c", "product_id"), "")
	require.NoError(t, err)
	dt, err := NewDerivedTable([]Expr{productID}, competitors, "c", nil, nil, "comp")
	require.NoError(t, err)

	f, err := NewFromDerived(dt)
	require.NoError(t, err)
	require.NotNil(t, f.Derived)
	assert.True(t, f.Table.IsZero())
}

func TestFromClause_TableAndDerivedExclusive(t *testing.T) {
	v := testVocab(t)
	offers := baseTable(t, v, "product_offers")
	competitors := baseTable(t, v, "competitor_offers")

	productID, err := NewColumnRef(qcol(t, v, "c", "product_id"), "")
	require.NoError(t, err)
	dt, err := NewDerivedTable([]Expr{productID}, competitors, "c", nil, nil, "comp")
	require.NoError(t, err)

	f := FromClause{Table: offers, Derived: &dt}
	err = f.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
