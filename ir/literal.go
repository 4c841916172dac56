package ir

// Literal is a sealed interface over literal values.
//
// This is a sealed interface - only types in this package implement it.
//
// Literal types:
//   - String: text, rendered single-quoted with embedded quotes doubled
//   - Number: JSON number semantics (float64)
//   - Bool: rendered TRUE or FALSE
//   - List: flat list of scalars, for membership tests only
//
// There is no null literal. The comparison vocabulary has no null-aware
// operator, so a null would be a value nothing could ever test.
type Literal interface {
	literalNode() // Marker method - seals interface to this package
}

// String is a text literal.
type String string

func (String) literalNode() {}

// Number is a numeric literal. Values carry JSON number semantics: one
// float64 domain for integers and decimals alike.
type Number float64

func (Number) literalNode() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) literalNode() {}

// List is a flat list literal. Lists appear only as the right-hand side
// of membership conditions; members must be scalars.
type List []Literal

func (List) literalNode() {}

// NewList builds a List from scalar elements. Empty lists and nested
// lists are rejected: the former renders an empty IN () that no database
// accepts, the latter has no SQL meaning.
func NewList(elems ...Literal) (List, error) {
	l := List(elems)
	if err := validateLiteral("list", "elements", l); err != nil {
		return nil, err
	}
	return l, nil
}
