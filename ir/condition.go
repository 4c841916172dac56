package ir

import (
	"fmt"

	"github.com/pricelens/selectir/vocab"
)

// Condition is a sealed interface over the comparisons a condition group
// can hold.
//
// This is a sealed interface - only types in this package implement it.
//
// Condition types:
//   - ValueCondition: column against a literal
//   - ColumnCondition: column against another column
//   - BetweenCondition: column within an inclusive range
//
// Subquery comparisons are deliberately not conditions. They live in a
// separate list on the top-level WHERE shape (WhereL1.Subqueries), which
// is how the type system keeps subqueries out of subqueries; see where.go.
type Condition interface {
	conditionNode() // Marker method - seals interface to this package
}

// ValueCondition compares a column against a literal.
//
// Semantics:
//
//	<column> <op> <literal>
//
// Membership operators (in, not_in) require a list literal; like requires
// a string pattern; every other operator takes a scalar.
type ValueCondition struct {
	Column QualifiedColumn
	Op     vocab.ComparisonOp
	Value  Literal
}

func (ValueCondition) conditionNode() {}

// NewValueCondition builds a column-versus-literal comparison.
func NewValueCondition(col QualifiedColumn, op vocab.ComparisonOp, value Literal) (ValueCondition, error) {
	c := ValueCondition{Column: col, Op: op, Value: value}
	if err := c.validate(); err != nil {
		return ValueCondition{}, err
	}
	return c, nil
}

func (c ValueCondition) validate() error {
	if err := c.Column.validate(); err != nil {
		return err
	}
	if err := validateCompareOp(c.Op); err != nil {
		return err
	}
	if c.Op.Membership() {
		if _, ok := c.Value.(List); !ok {
			return &ShapeError{Node: "condition", Field: "value", Message: "in and not_in require a list literal"}
		}
		return validateLiteral("condition", "value", c.Value)
	}
	if c.Op == vocab.OpLike {
		if _, ok := c.Value.(String); !ok {
			return &ShapeError{Node: "condition", Field: "value", Message: "like requires a string pattern"}
		}
		return nil
	}
	return validateScalar("condition", "value", c.Value)
}

// ColumnCondition compares two columns.
//
// Semantics:
//
//	<left> <op> <right>
//
// Membership operators make no sense between two columns and are
// rejected.
type ColumnCondition struct {
	Left  QualifiedColumn
	Op    vocab.ComparisonOp
	Right QualifiedColumn
}

func (ColumnCondition) conditionNode() {}

// NewColumnCondition builds a column-versus-column comparison.
func NewColumnCondition(left QualifiedColumn, op vocab.ComparisonOp, right QualifiedColumn) (ColumnCondition, error) {
	c := ColumnCondition{Left: left, Op: op, Right: right}
	if err := c.validate(); err != nil {
		return ColumnCondition{}, err
	}
	return c, nil
}

func (c ColumnCondition) validate() error {
	if err := c.Left.validate(); err != nil {
		return err
	}
	if err := validateCompareOp(c.Op); err != nil {
		return err
	}
	if c.Op.Membership() {
		return &ShapeError{Node: "condition", Field: "op", Message: "membership operators require a list, not a column"}
	}
	return c.Right.validate()
}

// BetweenCondition is an inclusive range test.
//
// Semantics:
//
//	<column> BETWEEN <low> AND <high>
//
// Bounds must be two strings or two numbers.
type BetweenCondition struct {
	Column QualifiedColumn
	Low    Literal
	High   Literal
}

func (BetweenCondition) conditionNode() {}

// NewBetween builds an inclusive range condition.
func NewBetween(col QualifiedColumn, low, high Literal) (BetweenCondition, error) {
	c := BetweenCondition{Column: col, Low: low, High: high}
	if err := c.validate(); err != nil {
		return BetweenCondition{}, err
	}
	return c, nil
}

func (c BetweenCondition) validate() error {
	if err := c.Column.validate(); err != nil {
		return err
	}
	if err := validateScalar("between", "low", c.Low); err != nil {
		return err
	}
	if err := validateScalar("between", "high", c.High); err != nil {
		return err
	}
	switch c.Low.(type) {
	case String:
		if _, ok := c.High.(String); !ok {
			return &ShapeError{Node: "between", Field: "high", Message: "bounds must have the same type"}
		}
	case Number:
		if _, ok := c.High.(Number); !ok {
			return &ShapeError{Node: "between", Field: "high", Message: "bounds must have the same type"}
		}
	default:
		return &ShapeError{Node: "between", Field: "low", Message: "bounds must be strings or numbers"}
	}
	return nil
}

// ConditionGroup is an ordered set of conditions joined by one
// combinator.
//
// Semantics:
//
//	<cond1> <combine> <cond2> <combine> ...
//
// Groups cannot nest and carry exactly one combinator. The familiar
// two-level WHERE shape comes from joining whole groups with a second,
// independent combinator; see WhereL0 and WhereL1.
type ConditionGroup struct {
	Combine    vocab.Combinator
	Conditions []Condition
}

// NewConditionGroup builds a group from at least one condition.
func NewConditionGroup(combine vocab.Combinator, conds ...Condition) (ConditionGroup, error) {
	g := ConditionGroup{Combine: combine, Conditions: conds}
	if err := g.validate(); err != nil {
		return ConditionGroup{}, err
	}
	return g, nil
}

func (g ConditionGroup) validate() error {
	if !g.Combine.Valid() {
		return &vocab.VocabularyError{Code: vocab.ErrCodeUnknownToken, Message: "unknown combinator", Value: string(g.Combine)}
	}
	if len(g.Conditions) == 0 {
		return &ShapeError{Node: "condition group", Field: "conditions", Message: "at least one condition is required"}
	}
	for i, c := range g.Conditions {
		if err := validateCondition(c); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}
