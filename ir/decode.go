package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pricelens/selectir/vocab"
)

// Wire layout for serialized queries. Tagged unions carry a "type"
// discriminator; literals are bare JSON values; every identifier is a
// plain string resolved against the vocabulary at decode time.

type queryWire struct {
	Select  []json.RawMessage `json:"select"`
	From    json.RawMessage   `json:"from"`
	Where   json.RawMessage   `json:"where,omitempty"`
	GroupBy []qualifiedWire   `json:"group_by,omitempty"`
	Having  []havingWire      `json:"having,omitempty"`
	OrderBy []orderItemWire   `json:"order_by,omitempty"`
	Limit   *limitWire        `json:"limit,omitempty"`
}

type qualifiedWire struct {
	Table  string `json:"table,omitempty"`
	Column string `json:"column"`
}

type columnRefWire struct {
	Type   string `json:"type"`
	Table  string `json:"table,omitempty"`
	Column string `json:"column"`
	Alias  string `json:"alias,omitempty"`
}

type arithWire struct {
	Type  string          `json:"type"`
	Left  json.RawMessage `json:"left"`
	Op    string          `json:"op"`
	Right json.RawMessage `json:"right"`
	Alias string          `json:"alias,omitempty"`
}

type compoundWire struct {
	Type   string          `json:"type"`
	First  json.RawMessage `json:"first"`
	Op1    string          `json:"op1"`
	Second json.RawMessage `json:"second"`
	Op2    string          `json:"op2"`
	Third  json.RawMessage `json:"third"`
	Alias  string          `json:"alias,omitempty"`
}

type aggregateWire struct {
	Func   string `json:"func"`
	Table  string `json:"table,omitempty"`
	Column string `json:"column,omitempty"`
	Alias  string `json:"alias,omitempty"`
}

type aggregateExprWire struct {
	Type   string `json:"type"`
	Func   string `json:"func"`
	Table  string `json:"table,omitempty"`
	Column string `json:"column,omitempty"`
	Alias  string `json:"alias,omitempty"`
}

type windowWire struct {
	Type        string          `json:"type"`
	Func        string          `json:"func"`
	Agg         string          `json:"agg,omitempty"`
	Arg         *qualifiedWire  `json:"arg,omitempty"`
	Offset      int64           `json:"offset,omitempty"`
	PartitionBy []qualifiedWire `json:"partition_by,omitempty"`
	OrderBy     []orderItemWire `json:"order_by,omitempty"`
	Alias       string          `json:"alias,omitempty"`
}

type caseWire struct {
	Type     string           `json:"type"`
	Branches []caseBranchWire `json:"branches"`
	Else     json.RawMessage  `json:"else,omitempty"`
	Alias    string           `json:"alias,omitempty"`
}

type caseBranchWire struct {
	When json.RawMessage `json:"when"`
	Then json.RawMessage `json:"then"`
}

type valueCondWire struct {
	Type   string          `json:"type"`
	Table  string          `json:"table,omitempty"`
	Column string          `json:"column"`
	Op     string          `json:"op"`
	Value  json.RawMessage `json:"value"`
}

type columnCondWire struct {
	Type  string        `json:"type"`
	Left  qualifiedWire `json:"left"`
	Op    string        `json:"op"`
	Right qualifiedWire `json:"right"`
}

type betweenCondWire struct {
	Type   string          `json:"type"`
	Table  string          `json:"table,omitempty"`
	Column string          `json:"column"`
	Low    json.RawMessage `json:"low"`
	High   json.RawMessage `json:"high"`
}

type groupWire struct {
	Combine    string            `json:"combine"`
	Conditions []json.RawMessage `json:"conditions"`
}

type whereL0Wire struct {
	Combine string      `json:"combine"`
	Groups  []groupWire `json:"groups"`
}

type whereL1Wire struct {
	Combine    string             `json:"combine"`
	Groups     []groupWire        `json:"groups,omitempty"`
	Subqueries []subqueryCondWire `json:"subqueries,omitempty"`
}

type subqueryCondWire struct {
	Table    string        `json:"table,omitempty"`
	Column   string        `json:"column"`
	Op       string        `json:"op"`
	Subquery scalarSubWire `json:"subquery"`
}

type scalarSubWire struct {
	Agg   aggregateWire   `json:"agg"`
	From  string          `json:"from"`
	Alias string          `json:"alias,omitempty"`
	Where json.RawMessage `json:"where,omitempty"`
}

type fromWire struct {
	Table   string          `json:"table,omitempty"`
	Alias   string          `json:"alias,omitempty"`
	Derived json.RawMessage `json:"derived,omitempty"`
	Joins   []joinWire      `json:"joins,omitempty"`
}

type joinWire struct {
	Kind  string    `json:"kind"`
	Table string    `json:"table"`
	Alias string    `json:"alias,omitempty"`
	On    groupWire `json:"on"`
}

type derivedWire struct {
	Select    []json.RawMessage `json:"select"`
	From      string            `json:"from"`
	FromAlias string            `json:"from_alias,omitempty"`
	Where     json.RawMessage   `json:"where,omitempty"`
	GroupBy   []qualifiedWire   `json:"group_by,omitempty"`
	Alias     string            `json:"alias"`
}

type havingWire struct {
	Agg   aggregateWire   `json:"agg"`
	Op    string          `json:"op"`
	Value json.RawMessage `json:"value"`
}

type orderItemWire struct {
	Table  string `json:"table,omitempty"`
	Column string `json:"column"`
	Dir    string `json:"dir"`
	Nulls  string `json:"nulls,omitempty"`
}

type limitWire struct {
	Count  int64 `json:"count"`
	Offset int64 `json:"offset,omitempty"`
}

// DecodeQuery parses a serialized query and re-establishes every
// construction guarantee: unknown fields are rejected, identifiers are
// resolved against v, shapes are checked through the same validation
// the constructors run, and wire data that asks for subquery nesting
// beyond what the representation expresses fails with *DepthViolation.
func DecodeQuery(v *vocab.Vocabulary, data []byte) (Query, error) {
	if v == nil {
		return Query{}, &vocab.VocabularyError{
			Code:    vocab.ErrCodeNotInstalled,
			Message: "no vocabulary provided",
		}
	}
	var wire queryWire
	if err := strictUnmarshal(data, &wire); err != nil {
		return Query{}, fmt.Errorf("decode query: %w", err)
	}
	d := decoder{v: v}
	return d.query(wire)
}

// strictUnmarshal decodes one JSON value, rejecting unknown fields and
// trailing content.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("trailing content after JSON value")
	}
	return nil
}

// wrapPath prefixes an error with its location in the input document.
func wrapPath(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", path, err)
}

// decoder resolves wire values against one vocabulary.
type decoder struct {
	v *vocab.Vocabulary
}

func (d decoder) query(wire queryWire) (Query, error) {
	var q Query
	for i, raw := range wire.Select {
		e, err := d.expr(fmt.Sprintf("select[%d]", i), raw)
		if err != nil {
			return Query{}, err
		}
		q.Select = append(q.Select, e)
	}
	from, err := d.from("from", wire.From)
	if err != nil {
		return Query{}, err
	}
	q.From = from
	if len(wire.Where) > 0 {
		w, err := d.whereL1("where", wire.Where)
		if err != nil {
			return Query{}, err
		}
		q.Where = &w
	}
	for i, qw := range wire.GroupBy {
		c, err := d.qualified(qw)
		if err != nil {
			return Query{}, wrapPath(fmt.Sprintf("group_by[%d]", i), err)
		}
		q.GroupBy = append(q.GroupBy, c)
	}
	for i, hw := range wire.Having {
		h, err := d.having(hw)
		if err != nil {
			return Query{}, wrapPath(fmt.Sprintf("having[%d]", i), err)
		}
		q.Having = append(q.Having, h)
	}
	for i, ow := range wire.OrderBy {
		o, err := d.orderItem(ow)
		if err != nil {
			return Query{}, wrapPath(fmt.Sprintf("order_by[%d]", i), err)
		}
		q.OrderBy = append(q.OrderBy, o)
	}
	if wire.Limit != nil {
		q.Limit = &Limit{Count: wire.Limit.Count, Offset: wire.Limit.Offset}
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// typeOf leniently reads the "type" discriminator of a union value.
func typeOf(raw json.RawMessage) (string, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", err
	}
	return probe.Type, nil
}

func (d decoder) expr(path string, raw json.RawMessage) (Expr, error) {
	t, err := typeOf(raw)
	if err != nil {
		return nil, wrapPath(path, err)
	}
	switch t {
	case "column":
		var w columnRefWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		col, err := d.qualified(qualifiedWire{Table: w.Table, Column: w.Column})
		if err != nil {
			return nil, wrapPath(path, err)
		}
		e, err := NewColumnRef(col, w.Alias)
		return e, wrapPath(path, err)
	case "arith":
		var w arithWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		left, err := d.operand(w.Left)
		if err != nil {
			return nil, wrapPath(path+".left", err)
		}
		right, err := d.operand(w.Right)
		if err != nil {
			return nil, wrapPath(path+".right", err)
		}
		e, err := NewBinaryArith(left, vocab.ArithmeticOp(w.Op), right, w.Alias)
		return e, wrapPath(path, err)
	case "compound":
		var w compoundWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		first, err := d.operand(w.First)
		if err != nil {
			return nil, wrapPath(path+".first", err)
		}
		second, err := d.operand(w.Second)
		if err != nil {
			return nil, wrapPath(path+".second", err)
		}
		third, err := d.operand(w.Third)
		if err != nil {
			return nil, wrapPath(path+".third", err)
		}
		e, err := NewCompoundArith(first, vocab.ArithmeticOp(w.Op1), second, vocab.ArithmeticOp(w.Op2), third, w.Alias)
		return e, wrapPath(path, err)
	case "aggregate":
		var w aggregateExprWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		agg, err := d.aggregate(aggregateWire{Func: w.Func, Table: w.Table, Column: w.Column, Alias: w.Alias})
		return agg, wrapPath(path, err)
	case "window":
		var w windowWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		win, err := d.window(w)
		return win, wrapPath(path, err)
	case "case":
		var w caseWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		c, err := d.caseExpr(path, w)
		return c, err
	case "":
		return nil, wrapPath(path, &ShapeError{Node: "expression", Field: "type", Message: "discriminator is required"})
	default:
		return nil, wrapPath(path, &ShapeError{Node: "expression", Field: "type", Message: fmt.Sprintf("unknown expression type %q", t)})
	}
}

// operand accepts either a qualified column object or a bare number.
func (d decoder) operand(raw json.RawMessage) (Operand, error) {
	switch firstByte(raw) {
	case '{':
		var w qualifiedWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, err
		}
		return d.qualified(w)
	case '"', '[', 't', 'f', 'n':
		return nil, &ShapeError{Node: "operand", Message: "operand must be a column or a number"}
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return Number(f), nil
	}
}

// literal accepts a bare JSON scalar or a flat array of scalars.
func (d decoder) literal(raw json.RawMessage) (Literal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch firstByte(raw) {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return String(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case 'n':
		return nil, &ShapeError{Node: "literal", Message: "null is not a literal"}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, err
		}
		list := make([]Literal, 0, len(elems))
		for i, e := range elems {
			lit, err := d.literal(e)
			if err != nil {
				return nil, wrapPath(fmt.Sprintf("[%d]", i), err)
			}
			list = append(list, lit)
		}
		return NewList(list...)
	case '{':
		return nil, &ShapeError{Node: "literal", Message: "objects are not literals"}
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return Number(f), nil
	}
}

// firstByte returns the first non-whitespace byte of a raw value, or 0.
func firstByte(raw json.RawMessage) byte {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

func (d decoder) qualified(w qualifiedWire) (QualifiedColumn, error) {
	if w.Column == "" {
		return QualifiedColumn{}, &ShapeError{Node: "column reference", Field: "column", Message: "column is required"}
	}
	col, err := d.v.Column(w.Column)
	if err != nil {
		return QualifiedColumn{}, err
	}
	return NewQualifiedColumn(w.Table, col)
}

func (d decoder) aggregate(w aggregateWire) (Aggregate, error) {
	var col QualifiedColumn
	if w.Column != "" || w.Table != "" {
		c, err := d.qualified(qualifiedWire{Table: w.Table, Column: w.Column})
		if err != nil {
			return Aggregate{}, err
		}
		col = c
	}
	return NewAggregate(vocab.AggregateFunc(w.Func), col, w.Alias)
}

func (d decoder) window(w windowWire) (Window, error) {
	win := Window{
		Func:   vocab.WindowFunc(w.Func),
		Agg:    vocab.AggregateFunc(w.Agg),
		Offset: w.Offset,
		Alias:  w.Alias,
	}
	if w.Arg != nil {
		arg, err := d.qualified(*w.Arg)
		if err != nil {
			return Window{}, err
		}
		win.Arg = arg
	}
	for i, pw := range w.PartitionBy {
		c, err := d.qualified(pw)
		if err != nil {
			return Window{}, wrapPath(fmt.Sprintf("partition_by[%d]", i), err)
		}
		win.PartitionBy = append(win.PartitionBy, c)
	}
	for i, ow := range w.OrderBy {
		o, err := d.orderItem(ow)
		if err != nil {
			return Window{}, wrapPath(fmt.Sprintf("order_by[%d]", i), err)
		}
		win.OrderBy = append(win.OrderBy, o)
	}
	if err := win.validate(); err != nil {
		return Window{}, err
	}
	return win, nil
}

func (d decoder) caseExpr(path string, w caseWire) (Case, error) {
	var branches []CaseBranch
	for i, bw := range w.Branches {
		bpath := fmt.Sprintf("%s.branches[%d]", path, i)
		cond, err := d.condition(bpath+".when", bw.When)
		if err != nil {
			return Case{}, err
		}
		vc, ok := cond.(ValueCondition)
		if !ok {
			return Case{}, wrapPath(bpath, &ShapeError{Node: "case branch", Field: "when", Message: "a value condition is required"})
		}
		then, err := d.literal(bw.Then)
		if err != nil {
			return Case{}, wrapPath(bpath+".then", err)
		}
		b, err := NewCaseBranch(vc, then)
		if err != nil {
			return Case{}, wrapPath(bpath, err)
		}
		branches = append(branches, b)
	}
	elseValue, err := d.literal(w.Else)
	if err != nil {
		return Case{}, wrapPath(path+".else", err)
	}
	c, err := NewCase(branches, elseValue, w.Alias)
	return c, wrapPath(path, err)
}

func (d decoder) condition(path string, raw json.RawMessage) (Condition, error) {
	t, err := typeOf(raw)
	if err != nil {
		return nil, wrapPath(path, err)
	}
	switch t {
	case "value":
		var w valueCondWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		col, err := d.qualified(qualifiedWire{Table: w.Table, Column: w.Column})
		if err != nil {
			return nil, wrapPath(path, err)
		}
		value, err := d.literal(w.Value)
		if err != nil {
			return nil, wrapPath(path+".value", err)
		}
		c, err := NewValueCondition(col, vocab.ComparisonOp(w.Op), value)
		return c, wrapPath(path, err)
	case "column":
		var w columnCondWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		left, err := d.qualified(w.Left)
		if err != nil {
			return nil, wrapPath(path+".left", err)
		}
		right, err := d.qualified(w.Right)
		if err != nil {
			return nil, wrapPath(path+".right", err)
		}
		c, err := NewColumnCondition(left, vocab.ComparisonOp(w.Op), right)
		return c, wrapPath(path, err)
	case "between":
		var w betweenCondWire
		if err := strictUnmarshal(raw, &w); err != nil {
			return nil, wrapPath(path, err)
		}
		col, err := d.qualified(qualifiedWire{Table: w.Table, Column: w.Column})
		if err != nil {
			return nil, wrapPath(path, err)
		}
		low, err := d.literal(w.Low)
		if err != nil {
			return nil, wrapPath(path+".low", err)
		}
		high, err := d.literal(w.High)
		if err != nil {
			return nil, wrapPath(path+".high", err)
		}
		c, err := NewBetween(col, low, high)
		return c, wrapPath(path, err)
	case "subquery":
		// The wire asked for a subquery inside a condition group. No
		// rung of the ladder can hold that shape.
		return nil, &DepthViolation{Path: path}
	case "":
		return nil, wrapPath(path, &ShapeError{Node: "condition", Field: "type", Message: "discriminator is required"})
	default:
		return nil, wrapPath(path, &ShapeError{Node: "condition", Field: "type", Message: fmt.Sprintf("unknown condition type %q", t)})
	}
}

func (d decoder) group(path string, w groupWire) (ConditionGroup, error) {
	var conds []Condition
	for i, raw := range w.Conditions {
		c, err := d.condition(fmt.Sprintf("%s.conditions[%d]", path, i), raw)
		if err != nil {
			return ConditionGroup{}, err
		}
		conds = append(conds, c)
	}
	g, err := NewConditionGroup(vocab.Combinator(w.Combine), conds...)
	return g, wrapPath(path, err)
}

// whereL0 decodes a subquery-free WHERE. The raw value is probed before
// the strict pass so that a "subqueries" key fails as a depth violation
// rather than as an unknown field.
func (d decoder) whereL0(path string, raw json.RawMessage) (WhereL0, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return WhereL0{}, wrapPath(path, err)
	}
	if _, ok := probe["subqueries"]; ok {
		return WhereL0{}, &DepthViolation{Path: path + ".subqueries"}
	}
	var w whereL0Wire
	if err := strictUnmarshal(raw, &w); err != nil {
		return WhereL0{}, wrapPath(path, err)
	}
	var groups []ConditionGroup
	for i, gw := range w.Groups {
		g, err := d.group(fmt.Sprintf("%s.groups[%d]", path, i), gw)
		if err != nil {
			return WhereL0{}, err
		}
		groups = append(groups, g)
	}
	where, err := NewWhereL0(vocab.Combinator(w.Combine), groups...)
	return where, wrapPath(path, err)
}

func (d decoder) whereL1(path string, raw json.RawMessage) (WhereL1, error) {
	var w whereL1Wire
	if err := strictUnmarshal(raw, &w); err != nil {
		return WhereL1{}, wrapPath(path, err)
	}
	var groups []ConditionGroup
	for i, gw := range w.Groups {
		g, err := d.group(fmt.Sprintf("%s.groups[%d]", path, i), gw)
		if err != nil {
			return WhereL1{}, err
		}
		groups = append(groups, g)
	}
	var subs []SubqueryCondition
	for i, sw := range w.Subqueries {
		s, err := d.subqueryCondition(fmt.Sprintf("%s.subqueries[%d]", path, i), sw)
		if err != nil {
			return WhereL1{}, err
		}
		subs = append(subs, s)
	}
	where, err := NewWhereL1(vocab.Combinator(w.Combine), groups, subs)
	return where, wrapPath(path, err)
}

func (d decoder) subqueryCondition(path string, w subqueryCondWire) (SubqueryCondition, error) {
	col, err := d.qualified(qualifiedWire{Table: w.Table, Column: w.Column})
	if err != nil {
		return SubqueryCondition{}, wrapPath(path, err)
	}
	sub, err := d.scalarSubquery(path+".subquery", w.Subquery)
	if err != nil {
		return SubqueryCondition{}, err
	}
	c, err := NewSubqueryCondition(col, vocab.ComparisonOp(w.Op), sub)
	return c, wrapPath(path, err)
}

func (d decoder) scalarSubquery(path string, w scalarSubWire) (ScalarSubquery, error) {
	agg, err := d.aggregate(w.Agg)
	if err != nil {
		return ScalarSubquery{}, wrapPath(path+".agg", err)
	}
	if w.From == "" {
		return ScalarSubquery{}, wrapPath(path, &ShapeError{Node: "subquery", Field: "from", Message: "table is required"})
	}
	table, err := d.v.Table(w.From)
	if err != nil {
		return ScalarSubquery{}, wrapPath(path+".from", err)
	}
	var where *WhereL0
	if len(w.Where) > 0 {
		l0, err := d.whereL0(path+".where", w.Where)
		if err != nil {
			return ScalarSubquery{}, err
		}
		where = &l0
	}
	s, err := NewScalarSubquery(agg, table, w.Alias, where)
	return s, wrapPath(path, err)
}

func (d decoder) from(path string, raw json.RawMessage) (FromClause, error) {
	if len(raw) == 0 {
		return FromClause{}, wrapPath(path, &ShapeError{Node: "from", Message: "a table or derived table is required"})
	}
	var w fromWire
	if err := strictUnmarshal(raw, &w); err != nil {
		return FromClause{}, wrapPath(path, err)
	}
	var f FromClause
	if w.Table != "" {
		table, err := d.v.Table(w.Table)
		if err != nil {
			return FromClause{}, wrapPath(path+".table", err)
		}
		f.Table = table
		f.Alias = w.Alias
	} else {
		f.Alias = w.Alias
	}
	if len(w.Derived) > 0 {
		dt, err := d.derived(path+".derived", w.Derived)
		if err != nil {
			return FromClause{}, err
		}
		f.Derived = &dt
	}
	for i, jw := range w.Joins {
		j, err := d.join(fmt.Sprintf("%s.joins[%d]", path, i), jw)
		if err != nil {
			return FromClause{}, err
		}
		f.Joins = append(f.Joins, j)
	}
	if err := f.validate(); err != nil {
		return FromClause{}, wrapPath(path, err)
	}
	return f, nil
}

func (d decoder) derived(path string, raw json.RawMessage) (DerivedTable, error) {
	var w derivedWire
	if err := strictUnmarshal(raw, &w); err != nil {
		return DerivedTable{}, wrapPath(path, err)
	}
	var sel []Expr
	for i, er := range w.Select {
		e, err := d.expr(fmt.Sprintf("%s.select[%d]", path, i), er)
		if err != nil {
			return DerivedTable{}, err
		}
		sel = append(sel, e)
	}
	if w.From == "" {
		return DerivedTable{}, wrapPath(path, &ShapeError{Node: "derived table", Field: "from", Message: "table is required"})
	}
	table, err := d.v.Table(w.From)
	if err != nil {
		return DerivedTable{}, wrapPath(path+".from", err)
	}
	var where *WhereL0
	if len(w.Where) > 0 {
		l0, err := d.whereL0(path+".where", w.Where)
		if err != nil {
			return DerivedTable{}, err
		}
		where = &l0
	}
	var groupBy []QualifiedColumn
	for i, qw := range w.GroupBy {
		c, err := d.qualified(qw)
		if err != nil {
			return DerivedTable{}, wrapPath(fmt.Sprintf("%s.group_by[%d]", path, i), err)
		}
		groupBy = append(groupBy, c)
	}
	dt, err := NewDerivedTable(sel, table, w.FromAlias, where, groupBy, w.Alias)
	return dt, wrapPath(path, err)
}

func (d decoder) join(path string, w joinWire) (JoinSpec, error) {
	if w.Table == "" {
		return JoinSpec{}, wrapPath(path, &ShapeError{Node: "join", Field: "table", Message: "table is required"})
	}
	table, err := d.v.Table(w.Table)
	if err != nil {
		return JoinSpec{}, wrapPath(path+".table", err)
	}
	on, err := d.group(path+".on", w.On)
	if err != nil {
		return JoinSpec{}, err
	}
	j, err := NewJoin(vocab.JoinKind(w.Kind), table, w.Alias, on)
	return j, wrapPath(path, err)
}

func (d decoder) having(w havingWire) (HavingCondition, error) {
	agg, err := d.aggregate(w.Agg)
	if err != nil {
		return HavingCondition{}, err
	}
	value, err := d.literal(w.Value)
	if err != nil {
		return HavingCondition{}, err
	}
	return NewHaving(agg, vocab.ComparisonOp(w.Op), value)
}

func (d decoder) orderItem(w orderItemWire) (OrderItem, error) {
	col, err := d.qualified(qualifiedWire{Table: w.Table, Column: w.Column})
	if err != nil {
		return OrderItem{}, err
	}
	return NewOrderItem(col, vocab.Direction(w.Dir), vocab.NullsOrder(w.Nulls))
}
