package ir

import (
	"github.com/pricelens/selectir/vocab"
)

// Expr is a sealed interface over the expressions a select list can hold.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the translator.
//
// Expression types:
//   - ColumnRef: direct column projection
//   - BinaryArith: arithmetic over exactly two operands
//   - CompoundArith: arithmetic over exactly three flat operands
//   - Aggregate: aggregate function call
//   - Window: window function call with an OVER clause
//   - Case: ordered CASE WHEN ladder
//
// Arithmetic is flat: operands are columns or numbers, never expressions,
// so arbitrarily deep formula trees are not representable.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// QualifiedColumn names a vocabulary column with an optional table
// qualifier. The qualifier is a table name or alias and renders as
// "table.column"; an empty qualifier renders the bare column.
type QualifiedColumn struct {
	Table  string // table name or alias, empty for unqualified
	Column vocab.Column
}

// NewQualifiedColumn builds a column reference, optionally qualified.
func NewQualifiedColumn(table string, col vocab.Column) (QualifiedColumn, error) {
	qc := QualifiedColumn{Table: table, Column: col}
	if err := qc.validate(); err != nil {
		return QualifiedColumn{}, err
	}
	return qc, nil
}

func (qc QualifiedColumn) validate() error {
	if qc.Column.IsZero() {
		return &ShapeError{Node: "qualified column", Field: "column", Message: "column is required"}
	}
	if qc.Table != "" && !vocab.ValidIdentifier(qc.Table) {
		return &ShapeError{Node: "qualified column", Field: "table", Message: "qualifier is not a valid identifier"}
	}
	return nil
}

// IsZero reports whether qc is the zero QualifiedColumn.
func (qc QualifiedColumn) IsZero() bool {
	return qc.Table == "" && qc.Column.IsZero()
}

// Operand is a sealed interface over arithmetic operands: a qualified
// column or a numeric literal. Nothing else can appear under arithmetic,
// which keeps formulas flat.
type Operand interface {
	operandNode() // Marker method - seals interface to this package
}

func (QualifiedColumn) operandNode() {}

func (Number) operandNode() {}

// ColumnRef projects a single column.
//
// Semantics:
//
//	SELECT <table>.<column> AS <alias>
type ColumnRef struct {
	Column QualifiedColumn
	Alias  string // output alias, empty for none
}

func (ColumnRef) exprNode() {}

// NewColumnRef builds a column projection.
func NewColumnRef(col QualifiedColumn, alias string) (ColumnRef, error) {
	e := ColumnRef{Column: col, Alias: alias}
	if err := e.validate(); err != nil {
		return ColumnRef{}, err
	}
	return e, nil
}

func (e ColumnRef) validate() error {
	if err := e.Column.validate(); err != nil {
		return err
	}
	return validateAlias("column ref", e.Alias)
}

// BinaryArith is arithmetic over exactly two operands.
//
// Semantics:
//
//	<left> <op> <right>
//
// Example:
//
//	BinaryArith{Left: price, Op: vocab.OpSub, Right: cost, Alias: "margin"}
//
// Translates to SQL:
//
//	price - cost AS margin
type BinaryArith struct {
	Left  Operand
	Op    vocab.ArithmeticOp
	Right Operand
	Alias string
}

func (BinaryArith) exprNode() {}

// NewBinaryArith builds a two-operand arithmetic expression.
func NewBinaryArith(left Operand, op vocab.ArithmeticOp, right Operand, alias string) (BinaryArith, error) {
	e := BinaryArith{Left: left, Op: op, Right: right, Alias: alias}
	if err := e.validate(); err != nil {
		return BinaryArith{}, err
	}
	return e, nil
}

func (e BinaryArith) validate() error {
	if err := validateOperand("arithmetic", "left", e.Left); err != nil {
		return err
	}
	if err := validateArithOp(e.Op); err != nil {
		return err
	}
	if err := validateOperand("arithmetic", "right", e.Right); err != nil {
		return err
	}
	return validateAlias("arithmetic", e.Alias)
}

// CompoundArith is arithmetic over exactly three flat operands.
//
// Semantics:
//
//	(<first> <op1> <second>) <op2> <third>
//
// The first pair always renders parenthesized, so evaluation order is
// explicit in the output. Three operands is the ceiling: a longer formula
// needs the database, not this representation.
//
// Example:
//
//	CompoundArith{First: price, Op1: vocab.OpSub, Second: cost,
//	              Op2: vocab.OpDiv, Third: price, Alias: "margin_pct"}
//
// Translates to SQL:
//
//	(price - cost) / price AS margin_pct
type CompoundArith struct {
	First  Operand
	Op1    vocab.ArithmeticOp
	Second Operand
	Op2    vocab.ArithmeticOp
	Third  Operand
	Alias  string
}

func (CompoundArith) exprNode() {}

// NewCompoundArith builds a three-operand arithmetic expression.
func NewCompoundArith(first Operand, op1 vocab.ArithmeticOp, second Operand, op2 vocab.ArithmeticOp, third Operand, alias string) (CompoundArith, error) {
	e := CompoundArith{First: first, Op1: op1, Second: second, Op2: op2, Third: third, Alias: alias}
	if err := e.validate(); err != nil {
		return CompoundArith{}, err
	}
	return e, nil
}

func (e CompoundArith) validate() error {
	if err := validateOperand("compound arithmetic", "first", e.First); err != nil {
		return err
	}
	if err := validateArithOp(e.Op1); err != nil {
		return err
	}
	if err := validateOperand("compound arithmetic", "second", e.Second); err != nil {
		return err
	}
	if err := validateArithOp(e.Op2); err != nil {
		return err
	}
	if err := validateOperand("compound arithmetic", "third", e.Third); err != nil {
		return err
	}
	return validateAlias("compound arithmetic", e.Alias)
}

// Aggregate is an aggregate function call.
//
// Semantics:
//
//	<FUNC>(<column>) AS <alias>
//
// A zero Column means "no argument" and renders COUNT(*); only count may
// omit its column. count_distinct renders COUNT(DISTINCT column) and
// therefore requires one.
type Aggregate struct {
	Func   vocab.AggregateFunc
	Column QualifiedColumn // zero means no argument (COUNT(*))
	Alias  string
}

func (Aggregate) exprNode() {}

// NewAggregate builds an aggregate call. Pass a zero QualifiedColumn for
// COUNT(*).
func NewAggregate(fn vocab.AggregateFunc, col QualifiedColumn, alias string) (Aggregate, error) {
	e := Aggregate{Func: fn, Column: col, Alias: alias}
	if err := e.validate(); err != nil {
		return Aggregate{}, err
	}
	return e, nil
}

func (e Aggregate) validate() error {
	if !e.Func.Valid() {
		return &vocab.VocabularyError{Code: vocab.ErrCodeUnknownToken, Message: "unknown aggregate function", Value: string(e.Func)}
	}
	if e.Column.IsZero() {
		if e.Func != vocab.AggCount {
			return &ShapeError{Node: "aggregate", Field: "column", Message: "only count may omit its column"}
		}
		return validateAlias("aggregate", e.Alias)
	}
	if err := e.Column.validate(); err != nil {
		return err
	}
	return validateAlias("aggregate", e.Alias)
}

// CaseBranch pairs one comparison with its result value.
type CaseBranch struct {
	When ValueCondition
	Then Literal
}

// NewCaseBranch builds one WHEN/THEN pair.
func NewCaseBranch(when ValueCondition, then Literal) (CaseBranch, error) {
	b := CaseBranch{When: when, Then: then}
	if err := b.validate(); err != nil {
		return CaseBranch{}, err
	}
	return b, nil
}

func (b CaseBranch) validate() error {
	if err := b.When.validate(); err != nil {
		return err
	}
	return validateScalar("case branch", "then", b.Then)
}

// Case is an ordered CASE WHEN ladder.
//
// Semantics:
//
//	CASE WHEN <cond1> THEN <val1> WHEN <cond2> THEN <val2> ... ELSE <else> END
//
// Branches evaluate in declaration order, which the translator preserves.
// Each branch condition is a single comparison, not a boolean expression,
// and the ELSE value is required so the ladder is total.
type Case struct {
	Branches []CaseBranch // evaluated in order
	Else     Literal
	Alias    string
}

func (Case) exprNode() {}

// NewCase builds a CASE expression.
func NewCase(branches []CaseBranch, elseValue Literal, alias string) (Case, error) {
	e := Case{Branches: branches, Else: elseValue, Alias: alias}
	if err := e.validate(); err != nil {
		return Case{}, err
	}
	return e, nil
}

func (e Case) validate() error {
	if len(e.Branches) == 0 {
		return &ShapeError{Node: "case", Field: "branches", Message: "at least one branch is required"}
	}
	for _, b := range e.Branches {
		if err := b.validate(); err != nil {
			return err
		}
	}
	if err := validateScalar("case", "else", e.Else); err != nil {
		return err
	}
	return validateAlias("case", e.Alias)
}
