package ir

import (
	"fmt"

	"github.com/pricelens/selectir/vocab"
)

// JoinSpec joins one table onto the FROM clause. The ON clause is a
// single condition group restricted to value and column comparisons;
// BETWEEN does not appear in join predicates.
//
// Translates to SQL:
//
//	INNER JOIN exact_matches AS m ON p.product_id = m.product_id
type JoinSpec struct {
	Kind  vocab.JoinKind
	Table vocab.Table
	Alias string
	On    ConditionGroup
}

// NewJoin builds a join against a vocabulary table.
func NewJoin(kind vocab.JoinKind, table vocab.Table, alias string, on ConditionGroup) (JoinSpec, error) {
	j := JoinSpec{Kind: kind, Table: table, Alias: alias, On: on}
	if err := j.validate(); err != nil {
		return JoinSpec{}, err
	}
	return j, nil
}

func (j JoinSpec) validate() error {
	if !j.Kind.Valid() {
		return &vocab.VocabularyError{
			Code:    vocab.ErrCodeUnknownToken,
			Message: "unknown join kind",
			Value:   string(j.Kind),
		}
	}
	if j.Table.IsZero() {
		return &ShapeError{Node: "join", Field: "table", Message: "table is required"}
	}
	if j.Alias != "" {
		if err := validateAlias("join", j.Alias); err != nil {
			return err
		}
	}
	if err := j.On.validate(); err != nil {
		return fmt.Errorf("join on: %w", err)
	}
	for _, c := range j.On.Conditions {
		switch c.(type) {
		case ValueCondition, *ValueCondition, ColumnCondition, *ColumnCondition:
		default:
			return &ShapeError{
				Node:    "join",
				Field:   "on",
				Message: "join conditions accept value and column comparisons only",
			}
		}
	}
	return nil
}

// DerivedTable is a subquery used as the FROM source of a query. Like
// ScalarSubquery it is self-contained: its WHERE is subquery-free and
// every column must resolve against its own table.
//
// Translates to SQL:
//
//	(SELECT c.product_id, AVG(c.price) AS avg_price
//	 FROM competitor_offers AS c
//	 GROUP BY c.product_id) AS comp
type DerivedTable struct {
	Select    []Expr
	From      vocab.Table
	FromAlias string
	Where     *WhereL0
	GroupBy   []QualifiedColumn
	Alias     string
}

// NewDerivedTable builds a derived table. The outer alias is required:
// it is the only name through which the enclosing query can address the
// derived columns.
func NewDerivedTable(sel []Expr, from vocab.Table, fromAlias string, where *WhereL0, groupBy []QualifiedColumn, alias string) (DerivedTable, error) {
	d := DerivedTable{Select: sel, From: from, FromAlias: fromAlias, Where: where, GroupBy: groupBy, Alias: alias}
	if err := d.validate(); err != nil {
		return DerivedTable{}, err
	}
	return d, nil
}

func (d DerivedTable) validate() error {
	if len(d.Select) == 0 {
		return &ShapeError{Node: "derived table", Field: "select", Message: "at least one expression is required"}
	}
	for i, e := range d.Select {
		if err := validateExpr(e); err != nil {
			return fmt.Errorf("derived select %d: %w", i, err)
		}
	}
	if d.From.IsZero() {
		return &ShapeError{Node: "derived table", Field: "from", Message: "table is required"}
	}
	if d.FromAlias != "" {
		if err := validateAlias("derived table", d.FromAlias); err != nil {
			return err
		}
	}
	if d.Where != nil {
		if err := d.Where.validate(); err != nil {
			return fmt.Errorf("derived where: %w", err)
		}
	}
	for i, c := range d.GroupBy {
		if err := c.validate(); err != nil {
			return fmt.Errorf("derived group by %d: %w", i, err)
		}
	}
	if d.Alias == "" {
		return &ShapeError{Node: "derived table", Field: "alias", Message: "alias is required"}
	}
	if err := validateAlias("derived table", d.Alias); err != nil {
		return err
	}
	return d.checkScope()
}

// checkScope rejects column qualifiers that reach outside the derived
// table's own source.
func (d DerivedTable) checkScope() error {
	scope := d.FromAlias
	if scope == "" {
		scope = d.From.Name()
	}
	var cols []QualifiedColumn
	for _, e := range d.Select {
		cols = append(cols, exprColumns(e)...)
	}
	if d.Where != nil {
		cols = append(cols, whereL0Columns(*d.Where)...)
	}
	cols = append(cols, d.GroupBy...)
	for _, c := range cols {
		if c.Table != "" && c.Table != scope {
			return &ShapeError{
				Node:    "derived table",
				Message: fmt.Sprintf("column qualifier %q reaches outside the derived table scope %q", c.Table, scope),
			}
		}
	}
	return nil
}

// FromClause names the source a query selects from: either a vocabulary
// table or a derived table, never both, plus any number of joins.
type FromClause struct {
	Table   vocab.Table
	Alias   string
	Derived *DerivedTable
	Joins   []JoinSpec
}

// NewFrom builds a FROM clause over a vocabulary table.
func NewFrom(table vocab.Table, alias string, joins ...JoinSpec) (FromClause, error) {
	f := FromClause{Table: table, Alias: alias, Joins: joins}
	if err := f.validate(); err != nil {
		return FromClause{}, err
	}
	return f, nil
}

// NewFromDerived builds a FROM clause over a derived table.
func NewFromDerived(derived DerivedTable, joins ...JoinSpec) (FromClause, error) {
	f := FromClause{Derived: &derived, Joins: joins}
	if err := f.validate(); err != nil {
		return FromClause{}, err
	}
	return f, nil
}

func (f FromClause) validate() error {
	switch {
	case f.Derived != nil:
		if !f.Table.IsZero() || f.Alias != "" {
			return &ShapeError{Node: "from", Message: "table and derived table are mutually exclusive"}
		}
		if err := f.Derived.validate(); err != nil {
			return err
		}
	case !f.Table.IsZero():
		if f.Alias != "" {
			if err := validateAlias("from", f.Alias); err != nil {
				return err
			}
		}
	default:
		return &ShapeError{Node: "from", Message: "a table or derived table is required"}
	}
	for i, j := range f.Joins {
		if err := j.validate(); err != nil {
			return fmt.Errorf("join %d: %w", i, err)
		}
	}
	return nil
}
