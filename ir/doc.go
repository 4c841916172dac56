// Package ir defines a correctness-by-construction representation of SQL
// SELECT queries.
//
// The representation targets producers that cannot emit or check free-form
// SQL and cannot reliably build unbounded recursive structures, such as
// LLM structured-output endpoints and UI query builders. Everything a
// query can say is spelled out as explicit node types; everything it must
// not say is unrepresentable.
//
// # Construction
//
// Every node has a validating constructor. A constructor either returns a
// fully valid node or an error, so no partial or malformed tree ever
// exists. Identifiers come from a vocab.Vocabulary, which is the only
// source of Table and Column values. Failures map onto a small taxonomy:
//
//   - vocab.VocabularyError: an identifier or token outside a closed set
//   - ShapeError: a structurally invalid combination of fields
//   - DepthViolation: serialized input asking for deeper subquery nesting
//     than the types can express (decode only)
//
// # Bounded nesting
//
// Subquery depth is bounded by the type system rather than by a runtime
// counter. The WHERE clause comes in two rungs: WhereL1, the top-level
// shape, is the only type that can hold subquery conditions, and the
// subqueries it holds filter with WhereL0, which has no subquery field at
// all. The chain
//
//	WhereL1 -> SubqueryCondition -> ScalarSubquery -> WhereL0
//
// has no edge back, so a query nesting subqueries two levels deep is not
// constructible. DepthViolation exists only for the decode path, where
// wire data can ask for shapes the types refuse.
//
// # Serialization
//
// DecodeQuery parses the JSON wire format produced by upstream builders,
// strictly: unknown fields, out-of-vocabulary identifiers, malformed
// shapes and depth probes are all rejected. EncodeQuery emits the same
// format, and decoding an encoded query yields a structurally equal value.
//
// Queries are immutable values with no identity beyond their contents.
// Construction never performs I/O and is safe for unlimited concurrent
// use.
package ir
