package ir

import (
	"fmt"
	"math"

	"github.com/pricelens/selectir/vocab"
)

// validateAlias checks a user-chosen output alias. Aliases render into
// SQL verbatim, so they are held to the same lexical rule as vocabulary
// identifiers.
func validateAlias(node, alias string) error {
	if alias == "" {
		return nil
	}
	if !vocab.ValidIdentifier(alias) {
		return &ShapeError{Node: node, Field: "alias", Message: "alias is not a valid identifier"}
	}
	return nil
}

// validateLiteral checks a literal for use in a condition or expression.
func validateLiteral(node, field string, l Literal) error {
	switch v := l.(type) {
	case String, Bool:
		return nil
	case Number:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return &ShapeError{Node: node, Field: field, Message: "number must be finite"}
		}
		return nil
	case List:
		if len(v) == 0 {
			return &ShapeError{Node: node, Field: field, Message: "list must have at least one element"}
		}
		for _, elem := range v {
			if _, ok := elem.(List); ok {
				return &ShapeError{Node: node, Field: field, Message: "lists cannot nest"}
			}
			if err := validateLiteral(node, field, elem); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return &ShapeError{Node: node, Field: field, Message: "literal is required"}
	default:
		return &ShapeError{Node: node, Field: field, Message: fmt.Sprintf("unsupported literal type %T", l)}
	}
}

// validateScalar is validateLiteral restricted to non-list literals.
func validateScalar(node, field string, l Literal) error {
	if _, ok := l.(List); ok {
		return &ShapeError{Node: node, Field: field, Message: "list literal not allowed here"}
	}
	return validateLiteral(node, field, l)
}

// validateOperand checks an arithmetic operand.
func validateOperand(node, field string, o Operand) error {
	switch v := o.(type) {
	case QualifiedColumn:
		return v.validate()
	case *QualifiedColumn:
		return v.validate()
	case Number:
		return validateLiteral(node, field, v)
	case nil:
		return &ShapeError{Node: node, Field: field, Message: "operand is required"}
	default:
		return &ShapeError{Node: node, Field: field, Message: fmt.Sprintf("unsupported operand type %T", o)}
	}
}

// validateExpr dispatches over the sealed expression variants.
func validateExpr(e Expr) error {
	switch x := e.(type) {
	case ColumnRef:
		return x.validate()
	case *ColumnRef:
		return x.validate()
	case BinaryArith:
		return x.validate()
	case *BinaryArith:
		return x.validate()
	case CompoundArith:
		return x.validate()
	case *CompoundArith:
		return x.validate()
	case Aggregate:
		return x.validate()
	case *Aggregate:
		return x.validate()
	case Window:
		return x.validate()
	case *Window:
		return x.validate()
	case Case:
		return x.validate()
	case *Case:
		return x.validate()
	case nil:
		return &ShapeError{Node: "expression", Message: "expression is required"}
	default:
		return &ShapeError{Node: "expression", Message: fmt.Sprintf("unsupported expression type %T", e)}
	}
}

// validateCondition dispatches over the sealed condition variants.
func validateCondition(c Condition) error {
	switch x := c.(type) {
	case ValueCondition:
		return x.validate()
	case *ValueCondition:
		return x.validate()
	case ColumnCondition:
		return x.validate()
	case *ColumnCondition:
		return x.validate()
	case BetweenCondition:
		return x.validate()
	case *BetweenCondition:
		return x.validate()
	case nil:
		return &ShapeError{Node: "condition", Message: "condition is required"}
	default:
		return &ShapeError{Node: "condition", Message: fmt.Sprintf("unsupported condition type %T", c)}
	}
}

// validateArithOp rejects arithmetic operators outside the closed set.
func validateArithOp(op vocab.ArithmeticOp) error {
	if !op.Valid() {
		return &vocab.VocabularyError{Code: vocab.ErrCodeUnknownToken, Message: "unknown arithmetic operator", Value: string(op)}
	}
	return nil
}

// validateCompareOp rejects comparison operators outside the closed set.
func validateCompareOp(op vocab.ComparisonOp) error {
	if !op.Valid() {
		return &vocab.VocabularyError{Code: vocab.ErrCodeUnknownToken, Message: "unknown comparison operator", Value: string(op)}
	}
	return nil
}
