package ir

import (
	"fmt"

	"github.com/pricelens/selectir/vocab"
)

// WhereL0 is a WHERE clause that cannot contain subqueries. It is the
// only filter shape available inside a ScalarSubquery or a DerivedTable,
// which is what keeps nesting bounded: a subquery's WHERE has no field
// through which another subquery could be attached.
//
// Groups are joined by Combine; each group's internal combinator is its
// own.
type WhereL0 struct {
	Combine vocab.Combinator
	Groups  []ConditionGroup
}

// NewWhereL0 builds a subquery-free WHERE clause from one or more
// condition groups.
func NewWhereL0(combine vocab.Combinator, groups ...ConditionGroup) (WhereL0, error) {
	w := WhereL0{Combine: combine, Groups: groups}
	if err := w.validate(); err != nil {
		return WhereL0{}, err
	}
	return w, nil
}

func (w WhereL0) validate() error {
	if !w.Combine.Valid() {
		return &vocab.VocabularyError{
			Code:    vocab.ErrCodeUnknownToken,
			Message: "unknown combinator",
			Value:   string(w.Combine),
		}
	}
	if len(w.Groups) == 0 {
		return &ShapeError{Node: "where", Message: "at least one condition group is required"}
	}
	for i, g := range w.Groups {
		if err := g.validate(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

// ScalarSubquery is a single-value SELECT used as the right side of a
// SubqueryCondition. It aggregates one column from one table, optionally
// filtered by a subquery-free WHERE.
//
// Semantics: every column inside the subquery must resolve against the
// subquery's own table. A qualifier naming any other scope is rejected
// at construction, so correlated subqueries cannot be expressed.
//
// Translates to SQL:
//
//	(SELECT AVG(p.price) FROM product_offers AS p WHERE p.in_stock = TRUE)
type ScalarSubquery struct {
	Agg   Aggregate
	From  vocab.Table
	Alias string
	Where *WhereL0
}

// NewScalarSubquery builds a scalar subquery over a single table. The
// alias is optional; when empty, columns qualify by the table name.
func NewScalarSubquery(agg Aggregate, from vocab.Table, alias string, where *WhereL0) (ScalarSubquery, error) {
	s := ScalarSubquery{Agg: agg, From: from, Alias: alias, Where: where}
	if err := s.validate(); err != nil {
		return ScalarSubquery{}, err
	}
	return s, nil
}

func (s ScalarSubquery) validate() error {
	if err := s.Agg.validate(); err != nil {
		return fmt.Errorf("subquery aggregate: %w", err)
	}
	if s.Agg.Alias != "" {
		return &ShapeError{Node: "subquery", Field: "agg", Message: "aggregate alias has no effect inside a subquery"}
	}
	if s.From.IsZero() {
		return &ShapeError{Node: "subquery", Field: "from", Message: "table is required"}
	}
	if s.Alias != "" {
		if err := validateAlias("subquery", s.Alias); err != nil {
			return err
		}
	}
	if s.Where != nil {
		if err := s.Where.validate(); err != nil {
			return fmt.Errorf("subquery where: %w", err)
		}
	}
	return s.checkScope()
}

// checkScope rejects column qualifiers that reach outside the subquery.
// The only scope visible inside the subquery is its own table, named by
// the alias when one is set and by the table name otherwise.
func (s ScalarSubquery) checkScope() error {
	scope := s.Alias
	if scope == "" {
		scope = s.From.Name()
	}
	cols := exprColumns(s.Agg)
	if s.Where != nil {
		cols = append(cols, whereL0Columns(*s.Where)...)
	}
	for _, c := range cols {
		if c.Table != "" && c.Table != scope {
			return &ShapeError{
				Node:    "subquery",
				Message: fmt.Sprintf("column qualifier %q reaches outside the subquery scope %q", c.Table, scope),
			}
		}
	}
	return nil
}

// SubqueryCondition compares a column against the value of a scalar
// subquery. It is deliberately not a Condition: condition groups cannot
// hold it, so it can only appear at the top of a WhereL1 and never
// inside another subquery.
//
// Translates to SQL:
//
//	p.price > (SELECT AVG(c.price) FROM competitor_offers AS c)
type SubqueryCondition struct {
	Column QualifiedColumn
	Op     vocab.ComparisonOp
	Sub    ScalarSubquery
}

// NewSubqueryCondition builds a comparison between a column and a scalar
// subquery. Membership operators are rejected: a scalar subquery yields
// one value, not a set.
func NewSubqueryCondition(column QualifiedColumn, op vocab.ComparisonOp, sub ScalarSubquery) (SubqueryCondition, error) {
	c := SubqueryCondition{Column: column, Op: op, Sub: sub}
	if err := c.validate(); err != nil {
		return SubqueryCondition{}, err
	}
	return c, nil
}

func (c SubqueryCondition) validate() error {
	if err := c.Column.validate(); err != nil {
		return fmt.Errorf("subquery condition column: %w", err)
	}
	if err := validateCompareOp(c.Op); err != nil {
		return err
	}
	if c.Op.Membership() {
		return &ShapeError{
			Node:    "subquery condition",
			Field:   "op",
			Message: "membership operators compare against a list, not a scalar subquery",
		}
	}
	return c.Sub.validate()
}

// WhereL1 is the WHERE clause of a top-level query. It extends WhereL0
// with subquery comparisons; because SubqueryCondition holds a
// ScalarSubquery whose own WHERE is a WhereL0, this is the deepest the
// tree can go.
//
// Groups and Subqueries are all joined by Combine, groups first.
type WhereL1 struct {
	Combine    vocab.Combinator
	Groups     []ConditionGroup
	Subqueries []SubqueryCondition
}

// NewWhereL1 builds a top-level WHERE clause. At least one group or
// subquery comparison is required.
func NewWhereL1(combine vocab.Combinator, groups []ConditionGroup, subqueries []SubqueryCondition) (WhereL1, error) {
	w := WhereL1{Combine: combine, Groups: groups, Subqueries: subqueries}
	if err := w.validate(); err != nil {
		return WhereL1{}, err
	}
	return w, nil
}

func (w WhereL1) validate() error {
	if !w.Combine.Valid() {
		return &vocab.VocabularyError{
			Code:    vocab.ErrCodeUnknownToken,
			Message: "unknown combinator",
			Value:   string(w.Combine),
		}
	}
	if len(w.Groups) == 0 && len(w.Subqueries) == 0 {
		return &ShapeError{Node: "where", Message: "at least one condition group or subquery comparison is required"}
	}
	for i, g := range w.Groups {
		if err := g.validate(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	for i, s := range w.Subqueries {
		if err := s.validate(); err != nil {
			return fmt.Errorf("subquery comparison %d: %w", i, err)
		}
	}
	return nil
}
