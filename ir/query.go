package ir

import (
	"fmt"

	"github.com/pricelens/selectir/vocab"
)

// OrderItem is one ORDER BY term: a column, a direction, and an
// optional nulls placement.
type OrderItem struct {
	Column QualifiedColumn
	Dir    vocab.Direction
	Nulls  vocab.NullsOrder
}

// NewOrderItem builds an ORDER BY term. Pass an empty NullsOrder to
// leave nulls placement to the database default.
func NewOrderItem(column QualifiedColumn, dir vocab.Direction, nulls vocab.NullsOrder) (OrderItem, error) {
	o := OrderItem{Column: column, Dir: dir, Nulls: nulls}
	if err := o.validate(); err != nil {
		return OrderItem{}, err
	}
	return o, nil
}

func (o OrderItem) validate() error {
	if err := o.Column.validate(); err != nil {
		return fmt.Errorf("order by column: %w", err)
	}
	if !o.Dir.Valid() {
		return &vocab.VocabularyError{
			Code:    vocab.ErrCodeUnknownToken,
			Message: "unknown direction",
			Value:   string(o.Dir),
		}
	}
	if o.Nulls != "" && !o.Nulls.Valid() {
		return &vocab.VocabularyError{
			Code:    vocab.ErrCodeUnknownToken,
			Message: "unknown nulls order",
			Value:   string(o.Nulls),
		}
	}
	return nil
}

// HavingCondition filters grouped rows by an aggregate value.
//
// Semantics: the aggregate carries no alias (HAVING compares the
// aggregate itself, not a named output column) and the operator must be
// an ordered comparison.
//
// Translates to SQL:
//
//	HAVING COUNT(*) > 5
type HavingCondition struct {
	Agg   Aggregate
	Op    vocab.ComparisonOp
	Value Literal
}

// NewHaving builds a HAVING condition.
func NewHaving(agg Aggregate, op vocab.ComparisonOp, value Literal) (HavingCondition, error) {
	h := HavingCondition{Agg: agg, Op: op, Value: value}
	if err := h.validate(); err != nil {
		return HavingCondition{}, err
	}
	return h, nil
}

func (h HavingCondition) validate() error {
	if err := h.Agg.validate(); err != nil {
		return fmt.Errorf("having aggregate: %w", err)
	}
	if h.Agg.Alias != "" {
		return &ShapeError{Node: "having", Field: "agg", Message: "aggregate alias has no effect in a having condition"}
	}
	if err := validateCompareOp(h.Op); err != nil {
		return err
	}
	if !h.Op.Ordered() {
		return &ShapeError{
			Node:    "having",
			Field:   "op",
			Message: "having conditions accept ordered comparisons only",
		}
	}
	return validateScalar("having", "value", h.Value)
}

// Limit caps the number of result rows, optionally skipping an offset.
type Limit struct {
	Count  int64
	Offset int64
}

// NewLimit builds a LIMIT clause. An offset of zero renders no OFFSET.
func NewLimit(count, offset int64) (Limit, error) {
	l := Limit{Count: count, Offset: offset}
	if err := l.validate(); err != nil {
		return Limit{}, err
	}
	return l, nil
}

func (l Limit) validate() error {
	if l.Count < 0 {
		return &ShapeError{Node: "limit", Field: "count", Message: "count must be non-negative"}
	}
	if l.Offset < 0 {
		return &ShapeError{Node: "limit", Field: "offset", Message: "offset must be non-negative"}
	}
	return nil
}

// Query is a complete SELECT statement. A Query obtained from NewQuery
// and the With* methods is valid by construction; DecodeQuery re-checks
// everything, so decoded queries hold the same guarantee.
type Query struct {
	Select  []Expr
	From    FromClause
	Where   *WhereL1
	GroupBy []QualifiedColumn
	Having  []HavingCondition
	OrderBy []OrderItem
	Limit   *Limit
}

// NewQuery builds the minimal query: a select list over a FROM clause.
// Optional clauses attach through the With* methods.
func NewQuery(sel []Expr, from FromClause) (Query, error) {
	q := Query{Select: sel, From: from}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// WithWhere returns a copy of the query with the given WHERE clause.
func (q Query) WithWhere(w WhereL1) (Query, error) {
	if err := w.validate(); err != nil {
		return Query{}, err
	}
	q.Where = &w
	return q, nil
}

// WithGroupBy returns a copy of the query grouped by the given columns.
func (q Query) WithGroupBy(cols ...QualifiedColumn) (Query, error) {
	if len(cols) == 0 {
		return Query{}, &ShapeError{Node: "query", Field: "group by", Message: "at least one column is required"}
	}
	for i, c := range cols {
		if err := c.validate(); err != nil {
			return Query{}, fmt.Errorf("group by %d: %w", i, err)
		}
	}
	q.GroupBy = cols
	return q, nil
}

// WithHaving returns a copy of the query filtered by the given HAVING
// conditions. Multiple conditions combine with AND.
func (q Query) WithHaving(conds ...HavingCondition) (Query, error) {
	if len(conds) == 0 {
		return Query{}, &ShapeError{Node: "query", Field: "having", Message: "at least one condition is required"}
	}
	for i, h := range conds {
		if err := h.validate(); err != nil {
			return Query{}, fmt.Errorf("having %d: %w", i, err)
		}
	}
	q.Having = conds
	return q, nil
}

// WithOrderBy returns a copy of the query ordered by the given items.
func (q Query) WithOrderBy(items ...OrderItem) (Query, error) {
	if len(items) == 0 {
		return Query{}, &ShapeError{Node: "query", Field: "order by", Message: "at least one order item is required"}
	}
	for i, o := range items {
		if err := o.validate(); err != nil {
			return Query{}, fmt.Errorf("order by %d: %w", i, err)
		}
	}
	q.OrderBy = items
	return q, nil
}

// WithLimit returns a copy of the query capped to the given limit.
func (q Query) WithLimit(l Limit) (Query, error) {
	if err := l.validate(); err != nil {
		return Query{}, err
	}
	q.Limit = &l
	return q, nil
}

// Validate re-checks the whole query. Values built through the
// constructors are already valid; this exists for callers that assemble
// a Query literal by hand and for the decoder.
func (q Query) Validate() error {
	if len(q.Select) == 0 {
		return &ShapeError{Node: "query", Field: "select", Message: "at least one expression is required"}
	}
	for i, e := range q.Select {
		if err := validateExpr(e); err != nil {
			return fmt.Errorf("select %d: %w", i, err)
		}
	}
	if err := q.From.validate(); err != nil {
		return fmt.Errorf("from: %w", err)
	}
	if q.Where != nil {
		if err := q.Where.validate(); err != nil {
			return fmt.Errorf("where: %w", err)
		}
	}
	for i, c := range q.GroupBy {
		if err := c.validate(); err != nil {
			return fmt.Errorf("group by %d: %w", i, err)
		}
	}
	for i, h := range q.Having {
		if err := h.validate(); err != nil {
			return fmt.Errorf("having %d: %w", i, err)
		}
	}
	for i, o := range q.OrderBy {
		if err := o.validate(); err != nil {
			return fmt.Errorf("order by %d: %w", i, err)
		}
	}
	if q.Limit != nil {
		if err := q.Limit.validate(); err != nil {
			return fmt.Errorf("limit: %w", err)
		}
	}
	return nil
}
