package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pricelens/selectir/ir"
	"github.com/pricelens/selectir/vocab"
)

// testVocab builds the pricing vocabulary the sqlgen tests share.
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

func qc(t *testing.T, v *vocab.Vocabulary, table, column string) ir.QualifiedColumn {
	t.Helper()
	c, err := v.Column(column)
	require.NoError(t, err)
	q, err := ir.NewQualifiedColumn(table, c)
	require.NoError(t, err)
	return q
}

func colRef(t *testing.T, v *vocab.Vocabulary, table, column, alias string) ir.ColumnRef {
	t.Helper()
	ref, err := ir.NewColumnRef(qc(t, v, table, column), alias)
	require.NoError(t, err)
	return ref
}

func vcond(t *testing.T, v *vocab.Vocabulary, table, column string, op vocab.ComparisonOp, value ir.Literal) ir.ValueCondition {
	t.Helper()
	c, err := ir.NewValueCondition(qc(t, v, table, column), op, value)
	require.NoError(t, err)
	return c
}

func group(t *testing.T, combine vocab.Combinator, conds ...ir.Condition) ir.ConditionGroup {
	t.Helper()
	g, err := ir.NewConditionGroup(combine, conds...)
	require.NoError(t, err)
	return g
}

func baseTable(t *testing.T, v *vocab.Vocabulary, name string) vocab.Table {
	t.Helper()
	table, err := v.Table(name)
	require.NoError(t, err)
	return table
}

func fromTable(t *testing.T, v *vocab.Vocabulary, name, alias string, joins ...ir.JoinSpec) ir.FromClause {
	t.Helper()
	f, err := ir.NewFrom(baseTable(t, v, name), alias, joins...)
	require.NoError(t, err)
	return f
}

func query(t *testing.T, sel []ir.Expr, from ir.FromClause) ir.Query {
	t.Helper()
	q, err := ir.NewQuery(sel, from)
	require.NoError(t, err)
	return q
}

func withWhere(t *testing.T, q ir.Query, combine vocab.Combinator, groups []ir.ConditionGroup, subs []ir.SubqueryCondition) ir.Query {
	t.Helper()
	w, err := ir.NewWhereL1(combine, groups, subs)
	require.NoError(t, err)
	q2, err := q.WithWhere(w)
	require.NoError(t, err)
	return q2
}
