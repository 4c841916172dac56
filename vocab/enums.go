package vocab

// ComparisonOp identifies a comparison operator.
//
// This is a closed vocabulary - the constants below are the only valid
// values. Serialized queries carry the lowercase token; the translator
// owns the mapping to SQL operator text.
type ComparisonOp string

const (
	OpEq    ComparisonOp = "eq"
	OpNe    ComparisonOp = "ne"
	OpLt    ComparisonOp = "lt"
	OpLte   ComparisonOp = "lte"
	OpGt    ComparisonOp = "gt"
	OpGte   ComparisonOp = "gte"
	OpLike  ComparisonOp = "like"
	OpIn    ComparisonOp = "in"
	OpNotIn ComparisonOp = "not_in"
)

// Valid reports whether op is one of the closed comparison operators.
func (op ComparisonOp) Valid() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte, OpLike, OpIn, OpNotIn:
		return true
	}
	return false
}

// Membership reports whether op tests list membership.
// Membership operators require a list operand; everything else takes a scalar.
func (op ComparisonOp) Membership() bool {
	return op == OpIn || op == OpNotIn
}

// Ordered reports whether op is a plain ordered comparison (no pattern or
// membership semantics). HAVING conditions are restricted to these.
func (op ComparisonOp) Ordered() bool {
	switch op {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// ParseComparisonOp resolves a serialized operator token.
func ParseComparisonOp(s string) (ComparisonOp, error) {
	op := ComparisonOp(s)
	if !op.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown comparison operator", Value: s}
	}
	return op, nil
}

// ArithmeticOp identifies an arithmetic operator for derived expressions.
type ArithmeticOp string

const (
	OpAdd ArithmeticOp = "add"
	OpSub ArithmeticOp = "sub"
	OpMul ArithmeticOp = "mul"
	OpDiv ArithmeticOp = "div"
)

// Valid reports whether op is one of the closed arithmetic operators.
func (op ArithmeticOp) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

// ParseArithmeticOp resolves a serialized operator token.
func ParseArithmeticOp(s string) (ArithmeticOp, error) {
	op := ArithmeticOp(s)
	if !op.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown arithmetic operator", Value: s}
	}
	return op, nil
}

// AggregateFunc identifies an aggregate function.
type AggregateFunc string

const (
	AggCount         AggregateFunc = "count"
	AggCountDistinct AggregateFunc = "count_distinct"
	AggSum           AggregateFunc = "sum"
	AggAvg           AggregateFunc = "avg"
	AggMin           AggregateFunc = "min"
	AggMax           AggregateFunc = "max"
	AggStdDev        AggregateFunc = "stddev"
	AggVariance      AggregateFunc = "variance"
)

// Valid reports whether fn is one of the closed aggregate functions.
func (fn AggregateFunc) Valid() bool {
	switch fn {
	case AggCount, AggCountDistinct, AggSum, AggAvg, AggMin, AggMax, AggStdDev, AggVariance:
		return true
	}
	return false
}

// ParseAggregateFunc resolves a serialized function token.
func ParseAggregateFunc(s string) (AggregateFunc, error) {
	fn := AggregateFunc(s)
	if !fn.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown aggregate function", Value: s}
	}
	return fn, nil
}

// WindowFunc identifies a window function.
//
// WinAggregate marks a windowed aggregate: the window node carries the
// AggregateFunc being windowed alongside it.
type WindowFunc string

const (
	WinRank      WindowFunc = "rank"
	WinDenseRank WindowFunc = "dense_rank"
	WinRowNumber WindowFunc = "row_number"
	WinLag       WindowFunc = "lag"
	WinLead      WindowFunc = "lead"
	WinAggregate WindowFunc = "aggregate"
)

// Valid reports whether fn is one of the closed window functions.
func (fn WindowFunc) Valid() bool {
	switch fn {
	case WinRank, WinDenseRank, WinRowNumber, WinLag, WinLead, WinAggregate:
		return true
	}
	return false
}

// Ranking reports whether fn is a ranking function. Ranking functions take
// no argument.
func (fn WindowFunc) Ranking() bool {
	return fn == WinRank || fn == WinDenseRank || fn == WinRowNumber
}

// OffsetBased reports whether fn reads a neighboring row. Offset functions
// require a column argument and accept an optional row distance.
func (fn WindowFunc) OffsetBased() bool {
	return fn == WinLag || fn == WinLead
}

// ParseWindowFunc resolves a serialized function token.
func ParseWindowFunc(s string) (WindowFunc, error) {
	fn := WindowFunc(s)
	if !fn.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown window function", Value: s}
	}
	return fn, nil
}

// Direction is an ORDER BY sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is a sort direction.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// ParseDirection resolves a serialized direction token.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown sort direction", Value: s}
	}
	return d, nil
}

// NullsOrder places NULLs relative to non-NULL values in a sort.
// The empty string means unspecified and renders nothing.
type NullsOrder string

const (
	NullsFirst NullsOrder = "first"
	NullsLast  NullsOrder = "last"
)

// Valid reports whether n is an explicit NULLs placement.
func (n NullsOrder) Valid() bool {
	return n == NullsFirst || n == NullsLast
}

// ParseNullsOrder resolves a serialized placement token.
func ParseNullsOrder(s string) (NullsOrder, error) {
	n := NullsOrder(s)
	if !n.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown nulls placement", Value: s}
	}
	return n, nil
}

// JoinKind identifies a join type.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinRight JoinKind = "right"
	JoinFull  JoinKind = "full"
)

// Valid reports whether k is one of the closed join kinds.
func (k JoinKind) Valid() bool {
	switch k {
	case JoinInner, JoinLeft, JoinRight, JoinFull:
		return true
	}
	return false
}

// ParseJoinKind resolves a serialized join token.
func ParseJoinKind(s string) (JoinKind, error) {
	k := JoinKind(s)
	if !k.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown join kind", Value: s}
	}
	return k, nil
}

// Combinator joins conditions or condition groups.
type Combinator string

const (
	CombineAnd Combinator = "and"
	CombineOr  Combinator = "or"
)

// Valid reports whether c is a boolean combinator.
func (c Combinator) Valid() bool {
	return c == CombineAnd || c == CombineOr
}

// ParseCombinator resolves a serialized combinator token.
func ParseCombinator(s string) (Combinator, error) {
	c := Combinator(s)
	if !c.Valid() {
		return "", &VocabularyError{Code: ErrCodeUnknownToken, Message: "unknown combinator", Value: s}
	}
	return c, nil
}
