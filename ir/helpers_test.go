package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pricelens/selectir/vocab"
)

// testVocab builds the pricing vocabulary the ir tests share.
func testVocab(t *testing.T) *vocab.Vocabulary {
	t.Helper()
	v, err := vocab.New("2024-07", map[string][]string{
		"product_offers":    {"offer_id", "product_id", "category", "price", "rating", "stock_status", "is_bestseller"},
		"exact_matches":     {"match_id", "product_id", "competitor_id", "confidence"},
		"competitor_offers": {"competitor_offer_id", "competitor_id", "product_id", "price", "in_stock"},
	})
	require.NoError(t, err)
	return v
}

func qcol(t *testing.T, v *vocab.Vocabulary, table, column string) QualifiedColumn {
	t.Helper()
	c, err := v.Column(column)
	require.NoError(t, err)
	q, err := NewQualifiedColumn(table, c)
	require.NoError(t, err)
	return q
}

func valueCond(t *testing.T, col QualifiedColumn, op vocab.ComparisonOp, value Literal) ValueCondition {
	t.Helper()
	c, err := NewValueCondition(col, op, value)
	require.NoError(t, err)
	return c
}

func condGroup(t *testing.T, combine vocab.Combinator, conds ...Condition) ConditionGroup {
	t.Helper()
	g, err := NewConditionGroup(combine, conds...)
	require.NoError(t, err)
	return g
}

func baseTable(t *testing.T, v *vocab.Vocabulary, name string) vocab.Table {
	t.Helper()
	table, err := v.Table(name)
	require.NoError(t, err)
	return table
}
