package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/selectir/ir"
	"github.com/pricelens/selectir/vocab"
)

func TestTranslate_Scenarios(t *testing.T) {
	v := testVocab(t)

	tests := []struct {
		name  string
		build func(t *testing.T) ir.Query
		want  string
	}{
		{
			name: "bare column",
			build: func(t *testing.T) ir.Query {
				return query(t, []ir.Expr{colRef(t, v, "", "category", "")}, fromTable(t, v, "product_offers", ""))
			},
			want: "SELECT category FROM product_offers",
		},
		{
			name: "aggregate with group by",
			build: func(t *testing.T) ir.Query {
				avg, err := ir.NewAggregate(vocab.AggAvg, qc(t, v, "", "price"), "avg_price")
				require.NoError(t, err)
				q := query(t, []ir.Expr{colRef(t, v, "", "category", ""), avg}, fromTable(t, v, "product_offers", ""))
				q, err = q.WithGroupBy(qc(t, v, "", "category"))
				require.NoError(t, err)
				return q
			},
			want: "SELECT category, AVG(price) AS avg_price FROM product_offers GROUP BY category",
		},
		{
			name: "single comparison stays bare",
			build: func(t *testing.T) ir.Query {
				q := query(t, []ir.Expr{colRef(t, v, "p", "category", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineAnd, []ir.ConditionGroup{
					group(t, vocab.CombineAnd, vcond(t, v, "p", "price", vocab.OpGte, ir.Number(25))),
				}, nil)
			},
			want: "SELECT p.category FROM product_offers AS p WHERE p.price >= 25",
		},
		{
			name: "lone group is not parenthesized",
			build: func(t *testing.T) ir.Query {
				q := query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineAnd, []ir.ConditionGroup{
					group(t, vocab.CombineAnd,
						vcond(t, v, "p", "price", vocab.OpGte, ir.Number(25)),
						vcond(t, v, "p", "rating", vocab.OpGt, ir.Number(4)),
					),
				}, nil)
			},
			want: "SELECT p.offer_id FROM product_offers AS p WHERE p.price >= 25 AND p.rating > 4",
		},
		{
			name: "multi-member group among units is parenthesized",
			build: func(t *testing.T) ir.Query {
				q := query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineAnd, []ir.ConditionGroup{
					group(t, vocab.CombineOr,
						vcond(t, v, "p", "price", vocab.OpLt, ir.Number(10)),
						vcond(t, v, "p", "price", vocab.OpGt, ir.Number(100)),
					),
					group(t, vocab.CombineAnd,
						vcond(t, v, "p", "stock_status", vocab.OpEq, ir.String("in_stock")),
					),
				}, nil)
			},
			want: "SELECT p.offer_id FROM product_offers AS p WHERE (p.price < 10 OR p.price > 100) AND p.stock_status = 'in_stock'",
		},
		{
			name: "membership and pattern operators",
			build: func(t *testing.T) ir.Query {
				list, err := ir.NewList(ir.String("electronics"), ir.String("books"))
				require.NoError(t, err)
				q := query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineOr, []ir.ConditionGroup{
					group(t, vocab.CombineAnd, vcond(t, v, "p", "category", vocab.OpIn, list)),
					group(t, vocab.CombineAnd, vcond(t, v, "p", "category", vocab.OpLike, ir.String("elec%"))),
				}, nil)
			},
			want: "SELECT p.offer_id FROM product_offers AS p WHERE p.category IN ('electronics', 'books') OR p.category LIKE 'elec%'",
		},
		{
			name: "not in and between",
			build: func(t *testing.T) ir.Query {
				list, err := ir.NewList(ir.String("refurbished"), ir.String("used"))
				require.NoError(t, err)
				between, err := ir.NewBetween(qc(t, v, "p", "rating"), ir.Number(3), ir.Number(5))
				require.NoError(t, err)
				q := query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineAnd, []ir.ConditionGroup{
					group(t, vocab.CombineAnd,
						vcond(t, v, "p", "stock_status", vocab.OpNotIn, list),
						between,
					),
				}, nil)
			},
			want: "SELECT p.offer_id FROM product_offers AS p WHERE p.stock_status NOT IN ('refurbished', 'used') AND p.rating BETWEEN 3 AND 5",
		},
		{
			name: "price above competitor average",
			build: func(t *testing.T) ir.Query {
				avg, err := ir.NewAggregate(vocab.AggAvg, qc(t, v, "c", "price"), "")
				require.NoError(t, err)
				inStock, err := ir.NewWhereL0(vocab.CombineAnd, group(t, vocab.CombineAnd,
					vcond(t, v, "c", "in_stock", vocab.OpEq, ir.Bool(true)),
				))
				require.NoError(t, err)
				sub, err := ir.NewScalarSubquery(avg, baseTable(t, v, "competitor_offers"), "c", &inStock)
				require.NoError(t, err)
				subCond, err := ir.NewSubqueryCondition(qc(t, v, "p", "price"), vocab.OpGt, sub)
				require.NoError(t, err)
				q := query(t, []ir.Expr{colRef(t, v, "p", "category", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineAnd, nil, []ir.SubqueryCondition{subCond})
			},
			want: "SELECT p.category FROM product_offers AS p WHERE p.price > (SELECT AVG(c.price) FROM competitor_offers AS c WHERE c.in_stock = TRUE)",
		},
		{
			name: "group and subquery share the clause",
			build: func(t *testing.T) ir.Query {
				avg, err := ir.NewAggregate(vocab.AggAvg, qc(t, v, "", "price"), "")
				require.NoError(t, err)
				sub, err := ir.NewScalarSubquery(avg, baseTable(t, v, "competitor_offers"), "", nil)
				require.NoError(t, err)
				subCond, err := ir.NewSubqueryCondition(qc(t, v, "p", "price"), vocab.OpGt, sub)
				require.NoError(t, err)
				q := query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineAnd, []ir.ConditionGroup{
					group(t, vocab.CombineOr,
						vcond(t, v, "p", "rating", vocab.OpGte, ir.Number(4)),
						vcond(t, v, "p", "is_bestseller", vocab.OpEq, ir.Bool(true)),
					),
				}, []ir.SubqueryCondition{subCond})
			},
			want: "SELECT p.offer_id FROM product_offers AS p WHERE (p.rating >= 4 OR p.is_bestseller = TRUE) AND p.price > (SELECT AVG(price) FROM competitor_offers)",
		},
		{
			name: "two joins render in order",
			build: func(t *testing.T) ir.Query {
				onMatch, err := ir.NewColumnCondition(qc(t, v, "p", "product_id"), vocab.OpEq, qc(t, v, "m", "product_id"))
				require.NoError(t, err)
				j1, err := ir.NewJoin(vocab.JoinInner, baseTable(t, v, "exact_matches"), "m", group(t, vocab.CombineAnd, onMatch))
				require.NoError(t, err)
				onComp, err := ir.NewColumnCondition(qc(t, v, "m", "competitor_id"), vocab.OpEq, qc(t, v, "c", "competitor_id"))
				require.NoError(t, err)
				j2, err := ir.NewJoin(vocab.JoinInner, baseTable(t, v, "competitor_offers"), "c", group(t, vocab.CombineAnd, onComp))
				require.NoError(t, err)
				return query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p", j1, j2))
			},
			want: "SELECT p.offer_id FROM product_offers AS p INNER JOIN exact_matches AS m ON p.product_id = m.product_id INNER JOIN competitor_offers AS c ON m.competitor_id = c.competitor_id",
		},
		{
			name: "left join with compound on clause",
			build: func(t *testing.T) ir.Query {
				onMatch, err := ir.NewColumnCondition(qc(t, v, "p", "product_id"), vocab.OpEq, qc(t, v, "m", "product_id"))
				require.NoError(t, err)
				confident := vcond(t, v, "m", "confidence", vocab.OpGte, ir.Number(0.9))
				j, err := ir.NewJoin(vocab.JoinLeft, baseTable(t, v, "exact_matches"), "m", group(t, vocab.CombineAnd, onMatch, confident))
				require.NoError(t, err)
				return query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p", j))
			},
			want: "SELECT p.offer_id FROM product_offers AS p LEFT JOIN exact_matches AS m ON p.product_id = m.product_id AND m.confidence >= 0.9",
		},
		{
			name: "case ladder preserves branch order",
			build: func(t *testing.T) ir.Query {
				var branches []ir.CaseBranch
				for _, step := range []struct {
					limit float64
					label string
				}{{25, "budget"}, {100, "mid"}, {500, "upper"}} {
					b, err := ir.NewCaseBranch(vcond(t, v, "p", "price", vocab.OpLt, ir.Number(step.limit)), ir.String(step.label))
					require.NoError(t, err)
					branches = append(branches, b)
				}
				c, err := ir.NewCase(branches, ir.String("premium"), "price_band")
				require.NoError(t, err)
				return query(t, []ir.Expr{c}, fromTable(t, v, "product_offers", "p"))
			},
			want: "SELECT CASE WHEN p.price < 25 THEN 'budget' WHEN p.price < 100 THEN 'mid' WHEN p.price < 500 THEN 'upper' ELSE 'premium' END AS price_band FROM product_offers AS p",
		},
		{
			name: "ranking window",
			build: func(t *testing.T) ir.Query {
				order, err := ir.NewOrderItem(qc(t, v, "p", "price"), vocab.Desc, "")
				require.NoError(t, err)
				rank, err := ir.NewRankingWindow(vocab.WinRank, []ir.QualifiedColumn{qc(t, v, "p", "category")}, []ir.OrderItem{order}, "price_rank")
				require.NoError(t, err)
				return query(t, []ir.Expr{colRef(t, v, "p", "offer_id", ""), rank}, fromTable(t, v, "product_offers", "p"))
			},
			want: "SELECT p.offer_id, RANK() OVER (PARTITION BY p.category ORDER BY p.price DESC) AS price_rank FROM product_offers AS p",
		},
		{
			name: "offset windows",
			build: func(t *testing.T) ir.Query {
				order, err := ir.NewOrderItem(qc(t, v, "p", "offer_id"), vocab.Asc, "")
				require.NoError(t, err)
				lag, err := ir.NewOffsetWindow(vocab.WinLag, qc(t, v, "p", "price"), 2, nil, []ir.OrderItem{order}, "prev_price")
				require.NoError(t, err)
				lead, err := ir.NewOffsetWindow(vocab.WinLead, qc(t, v, "p", "price"), 0, nil, []ir.OrderItem{order}, "next_price")
				require.NoError(t, err)
				return query(t, []ir.Expr{lag, lead}, fromTable(t, v, "product_offers", "p"))
			},
			want: "SELECT LAG(p.price, 2) OVER (ORDER BY p.offer_id ASC) AS prev_price, LEAD(p.price) OVER (ORDER BY p.offer_id ASC) AS next_price FROM product_offers AS p",
		},
		{
			name: "windowed aggregate and empty window",
			build: func(t *testing.T) ir.Query {
				total, err := ir.NewAggregateWindow(vocab.AggSum, qc(t, v, "p", "price"), []ir.QualifiedColumn{qc(t, v, "p", "category")}, nil, "category_total")
				require.NoError(t, err)
				rows, err := ir.NewAggregateWindow(vocab.AggCount, ir.QualifiedColumn{}, nil, nil, "total_rows")
				require.NoError(t, err)
				return query(t, []ir.Expr{total, rows}, fromTable(t, v, "product_offers", "p"))
			},
			want: "SELECT SUM(p.price) OVER (PARTITION BY p.category) AS category_total, COUNT(*) OVER () AS total_rows FROM product_offers AS p",
		},
		{
			name: "derived table source",
			build: func(t *testing.T) ir.Query {
				avg, err := ir.NewAggregate(vocab.AggAvg, qc(t, v, "c", "price"), "avg_price")
				require.NoError(t, err)
				dt, err := ir.NewDerivedTable(
					[]ir.Expr{colRef(t, v, "c", "product_id", ""), avg},
					baseTable(t, v, "competitor_offers"), "c",
					nil,
					[]ir.QualifiedColumn{qc(t, v, "c", "product_id")},
					"comp",
				)
				require.NoError(t, err)
				from, err := ir.NewFromDerived(dt)
				require.NoError(t, err)
				return query(t, []ir.Expr{colRef(t, v, "comp", "product_id", "")}, from)
			},
			want: "SELECT comp.product_id FROM (SELECT c.product_id, AVG(c.price) AS avg_price FROM competitor_offers AS c GROUP BY c.product_id) AS comp",
		},
		{
			name: "arithmetic projections",
			build: func(t *testing.T) ir.Query {
				discounted, err := ir.NewBinaryArith(qc(t, v, "p", "price"), vocab.OpMul, ir.Number(0.9), "discounted")
				require.NoError(t, err)
				margin, err := ir.NewCompoundArith(qc(t, v, "p", "price"), vocab.OpSub, qc(t, v, "p", "rating"), vocab.OpDiv, qc(t, v, "p", "price"), "margin_pct")
				require.NoError(t, err)
				return query(t, []ir.Expr{discounted, margin}, fromTable(t, v, "product_offers", "p"))
			},
			want: "SELECT p.price * 0.9 AS discounted, (p.price - p.rating) / p.price AS margin_pct FROM product_offers AS p",
		},
		{
			name: "count distinct",
			build: func(t *testing.T) ir.Query {
				distinct, err := ir.NewAggregate(vocab.AggCountDistinct, qc(t, v, "p", "category"), "categories")
				require.NoError(t, err)
				return query(t, []ir.Expr{distinct}, fromTable(t, v, "product_offers", "p"))
			},
			want: "SELECT COUNT(DISTINCT p.category) AS categories FROM product_offers AS p",
		},
		{
			name: "spread aggregates",
			build: func(t *testing.T) ir.Query {
				stddev, err := ir.NewAggregate(vocab.AggStdDev, qc(t, v, "", "price"), "price_spread")
				require.NoError(t, err)
				variance, err := ir.NewAggregate(vocab.AggVariance, qc(t, v, "", "price"), "price_var")
				require.NoError(t, err)
				return query(t, []ir.Expr{stddev, variance}, fromTable(t, v, "product_offers", ""))
			},
			want: "SELECT STDDEV(price) AS price_spread, VARIANCE(price) AS price_var FROM product_offers",
		},
		{
			name: "having order and limit",
			build: func(t *testing.T) ir.Query {
				count, err := ir.NewAggregate(vocab.AggCount, ir.QualifiedColumn{}, "")
				require.NoError(t, err)
				having, err := ir.NewHaving(count, vocab.OpGt, ir.Number(5))
				require.NoError(t, err)
				minPrice, err := ir.NewAggregate(vocab.AggMin, qc(t, v, "p", "price"), "")
				require.NoError(t, err)
				having2, err := ir.NewHaving(minPrice, vocab.OpGte, ir.Number(1))
				require.NoError(t, err)
				order, err := ir.NewOrderItem(qc(t, v, "p", "category"), vocab.Asc, vocab.NullsLast)
				require.NoError(t, err)
				limit, err := ir.NewLimit(10, 20)
				require.NoError(t, err)

				q := query(t, []ir.Expr{colRef(t, v, "p", "category", "")}, fromTable(t, v, "product_offers", "p"))
				q, err = q.WithGroupBy(qc(t, v, "p", "category"))
				require.NoError(t, err)
				q, err = q.WithHaving(having, having2)
				require.NoError(t, err)
				q, err = q.WithOrderBy(order)
				require.NoError(t, err)
				q, err = q.WithLimit(limit)
				require.NoError(t, err)
				return q
			},
			want: "SELECT p.category FROM product_offers AS p GROUP BY p.category HAVING COUNT(*) > 5 AND MIN(p.price) >= 1 ORDER BY p.category ASC NULLS LAST LIMIT 10 OFFSET 20",
		},
		{
			name: "limit without offset",
			build: func(t *testing.T) ir.Query {
				limit, err := ir.NewLimit(5, 0)
				require.NoError(t, err)
				q := query(t, []ir.Expr{colRef(t, v, "", "category", "")}, fromTable(t, v, "product_offers", ""))
				q, err = q.WithLimit(limit)
				require.NoError(t, err)
				return q
			},
			want: "SELECT category FROM product_offers LIMIT 5",
		},
		{
			name: "string literals escape quotes",
			build: func(t *testing.T) ir.Query {
				q := query(t, []ir.Expr{colRef(t, v, "p", "offer_id", "")}, fromTable(t, v, "product_offers", "p"))
				return withWhere(t, q, vocab.CombineAnd, []ir.ConditionGroup{
					group(t, vocab.CombineAnd, vcond(t, v, "p", "category", vocab.OpEq, ir.String("men's wear"))),
				}, nil)
			},
			want: "SELECT p.offer_id FROM product_offers AS p WHERE p.category = 'men''s wear'",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := Translate(tt.build(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestTranslate_Deterministic(t *testing.T) {
	v := testVocab(t)

	avg, err := ir.NewAggregate(vocab.AggAvg, qc(t, v, "p", "price"), "avg_price")
	require.NoError(t, err)
	q := query(t, []ir.Expr{colRef(t, v, "p", "category", ""), avg}, fromTable(t, v, "product_offers", "p"))
	q = withWhere(t, q, vocab.CombineAnd, []ir.ConditionGroup{
		group(t, vocab.CombineAnd, vcond(t, v, "p", "rating", vocab.OpGte, ir.Number(4))),
	}, nil)
	q, err = q.WithGroupBy(qc(t, v, "p", "category"))
	require.NoError(t, err)

	first, err := Translate(q)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Translate(q)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTranslate_ClauseOrderIndependentOfConstruction(t *testing.T) {
	v := testVocab(t)

	limit, err := ir.NewLimit(3, 0)
	require.NoError(t, err)
	order, err := ir.NewOrderItem(qc(t, v, "p", "price"), vocab.Desc, "")
	require.NoError(t, err)

	// Attach the tail clauses first; the output order must not change.
	q := query(t, []ir.Expr{colRef(t, v, "p", "category", "")}, fromTable(t, v, "product_offers", "p"))
	q, err = q.WithLimit(limit)
	require.NoError(t, err)
	q, err = q.WithOrderBy(order)
	require.NoError(t, err)
	q, err = q.WithGroupBy(qc(t, v, "p", "category"))
	require.NoError(t, err)

	sql, err := Translate(q)
	require.NoError(t, err)
	assert.Equal(t, "SELECT p.category FROM product_offers AS p GROUP BY p.category ORDER BY p.price DESC LIMIT 3", sql)
}

func TestTranslate_InvalidQueryRejected(t *testing.T) {
	_, err := Translate(ir.Query{})
	require.Error(t, err)
	assert.True(t, ir.IsShapeError(err))
}

func TestTranslate_NonEmptyOutput(t *testing.T) {
	v := testVocab(t)
	sql, err := Translate(query(t, []ir.Expr{colRef(t, v, "", "category", "")}, fromTable(t, v, "product_offers", "")))
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT")
	assert.Contains(t, sql, "FROM")
	assert.NotContains(t, sql, ";")
	assert.NotContains(t, sql, "\n")
}

func TestRender_UnreachableArms(t *testing.T) {
	// Constructed queries never hit these arms; call the renderers directly.
	_, err := renderExpr(nil)
	assert.True(t, IsTranslationError(err))

	_, err = renderCondition(nil)
	assert.True(t, IsTranslationError(err))

	_, err = renderLiteral(nil)
	assert.True(t, IsTranslationError(err))

	_, err = renderOperand(nil)
	assert.True(t, IsTranslationError(err))

	_, err = renderAggregate(ir.Aggregate{Func: "median"})
	assert.True(t, IsTranslationError(err))
}
