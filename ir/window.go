package ir

import (
	"github.com/pricelens/selectir/vocab"
)

// Window is a window function call.
//
// Semantics:
//
//	<func>(<args>) OVER (PARTITION BY <partition> ORDER BY <order>)
//
// Function arity is fixed per family:
//   - rank, dense_rank, row_number: no argument
//   - lag, lead: a column argument plus an optional row distance
//   - aggregate: an aggregate function windowed over a column argument
//
// An empty window specification renders OVER ().
//
// Example:
//
//	Window{Func: vocab.WinRank,
//	       PartitionBy: []QualifiedColumn{category},
//	       OrderBy: []OrderItem{{Column: price, Dir: vocab.Desc}},
//	       Alias: "price_rank"}
//
// Translates to SQL:
//
//	RANK() OVER (PARTITION BY category ORDER BY price DESC) AS price_rank
type Window struct {
	Func        vocab.WindowFunc
	Agg         vocab.AggregateFunc // set only when Func is aggregate
	Arg         QualifiedColumn     // zero means no argument
	Offset      int64               // lag/lead row distance, 0 renders the default
	PartitionBy []QualifiedColumn
	OrderBy     []OrderItem
	Alias       string
}

func (Window) exprNode() {}

// NewRankingWindow builds a rank, dense_rank or row_number call.
func NewRankingWindow(fn vocab.WindowFunc, partitionBy []QualifiedColumn, orderBy []OrderItem, alias string) (Window, error) {
	if fn.Valid() && !fn.Ranking() {
		return Window{}, &ShapeError{Node: "window", Field: "func", Message: "not a ranking function"}
	}
	e := Window{Func: fn, PartitionBy: partitionBy, OrderBy: orderBy, Alias: alias}
	if err := e.validate(); err != nil {
		return Window{}, err
	}
	return e, nil
}

// NewOffsetWindow builds a lag or lead call. A zero offset renders the
// database default distance of one row.
func NewOffsetWindow(fn vocab.WindowFunc, arg QualifiedColumn, offset int64, partitionBy []QualifiedColumn, orderBy []OrderItem, alias string) (Window, error) {
	if fn.Valid() && !fn.OffsetBased() {
		return Window{}, &ShapeError{Node: "window", Field: "func", Message: "not an offset function"}
	}
	e := Window{Func: fn, Arg: arg, Offset: offset, PartitionBy: partitionBy, OrderBy: orderBy, Alias: alias}
	if err := e.validate(); err != nil {
		return Window{}, err
	}
	return e, nil
}

// NewAggregateWindow builds a windowed aggregate. Pass a zero arg for a
// windowed COUNT(*).
func NewAggregateWindow(agg vocab.AggregateFunc, arg QualifiedColumn, partitionBy []QualifiedColumn, orderBy []OrderItem, alias string) (Window, error) {
	e := Window{Func: vocab.WinAggregate, Agg: agg, Arg: arg, PartitionBy: partitionBy, OrderBy: orderBy, Alias: alias}
	if err := e.validate(); err != nil {
		return Window{}, err
	}
	return e, nil
}

func (e Window) validate() error {
	if !e.Func.Valid() {
		return &vocab.VocabularyError{Code: vocab.ErrCodeUnknownToken, Message: "unknown window function", Value: string(e.Func)}
	}

	switch {
	case e.Func.Ranking():
		if !e.Arg.IsZero() {
			return &ShapeError{Node: "window", Field: "arg", Message: "ranking functions take no argument"}
		}
		if e.Offset != 0 {
			return &ShapeError{Node: "window", Field: "offset", Message: "only lag and lead take an offset"}
		}
		if e.Agg != "" {
			return &ShapeError{Node: "window", Field: "agg", Message: "only aggregate windows carry an aggregate function"}
		}

	case e.Func.OffsetBased():
		if e.Arg.IsZero() {
			return &ShapeError{Node: "window", Field: "arg", Message: "lag and lead require a column argument"}
		}
		if err := e.Arg.validate(); err != nil {
			return err
		}
		if e.Offset < 0 {
			return &ShapeError{Node: "window", Field: "offset", Message: "offset must be non-negative"}
		}
		if e.Agg != "" {
			return &ShapeError{Node: "window", Field: "agg", Message: "only aggregate windows carry an aggregate function"}
		}

	default: // vocab.WinAggregate
		if e.Agg == "" {
			return &ShapeError{Node: "window", Field: "agg", Message: "aggregate windows require an aggregate function"}
		}
		if !e.Agg.Valid() {
			return &vocab.VocabularyError{Code: vocab.ErrCodeUnknownToken, Message: "unknown aggregate function", Value: string(e.Agg)}
		}
		if e.Offset != 0 {
			return &ShapeError{Node: "window", Field: "offset", Message: "only lag and lead take an offset"}
		}
		if e.Arg.IsZero() {
			if e.Agg != vocab.AggCount {
				return &ShapeError{Node: "window", Field: "arg", Message: "only count may omit its column"}
			}
		} else if err := e.Arg.validate(); err != nil {
			return err
		}
	}

	for _, col := range e.PartitionBy {
		if err := col.validate(); err != nil {
			return err
		}
	}
	for _, item := range e.OrderBy {
		if err := item.validate(); err != nil {
			return err
		}
	}
	return validateAlias("window", e.Alias)
}
