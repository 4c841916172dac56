package ir

import (
	"encoding/json"
	"fmt"
)

// EncodeQuery serializes a query to the same wire format DecodeQuery
// reads. The query is validated first, so only well-formed documents
// are ever emitted; round-tripping through DecodeQuery reproduces the
// query structurally.
func EncodeQuery(q Query) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}
	wire := queryWire{
		GroupBy: encodeQualifieds(q.GroupBy),
		OrderBy: encodeOrderItems(q.OrderBy),
	}
	for _, e := range q.Select {
		raw, err := marshalRaw(e)
		if err != nil {
			return nil, err
		}
		wire.Select = append(wire.Select, raw)
	}
	from, err := marshalRaw(q.From)
	if err != nil {
		return nil, err
	}
	wire.From = from
	if q.Where != nil {
		where, err := marshalRaw(*q.Where)
		if err != nil {
			return nil, err
		}
		wire.Where = where
	}
	for _, h := range q.Having {
		hw, err := encodeHaving(h)
		if err != nil {
			return nil, err
		}
		wire.Having = append(wire.Having, hw)
	}
	if q.Limit != nil {
		wire.Limit = &limitWire{Count: q.Limit.Count, Offset: q.Limit.Offset}
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (q Query) MarshalJSON() ([]byte, error) {
	return EncodeQuery(q)
}

func marshalRaw(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func encodeQualifieds(cols []QualifiedColumn) []qualifiedWire {
	var out []qualifiedWire
	for _, c := range cols {
		out = append(out, qualifiedWire{Table: c.Table, Column: c.Column.Name()})
	}
	return out
}

func encodeOrderItems(items []OrderItem) []orderItemWire {
	var out []orderItemWire
	for _, o := range items {
		out = append(out, orderItemWire{
			Table:  o.Column.Table,
			Column: o.Column.Column.Name(),
			Dir:    string(o.Dir),
			Nulls:  string(o.Nulls),
		})
	}
	return out
}

func encodeBareAggregate(a Aggregate) aggregateWire {
	return aggregateWire{
		Func:   string(a.Func),
		Table:  a.Column.Table,
		Column: a.Column.Column.Name(),
		Alias:  a.Alias,
	}
}

func encodeGroup(g ConditionGroup) (groupWire, error) {
	wire := groupWire{Combine: string(g.Combine)}
	for _, c := range g.Conditions {
		raw, err := marshalRaw(c)
		if err != nil {
			return groupWire{}, err
		}
		wire.Conditions = append(wire.Conditions, raw)
	}
	return wire, nil
}

func encodeHaving(h HavingCondition) (havingWire, error) {
	value, err := marshalRaw(h.Value)
	if err != nil {
		return havingWire{}, err
	}
	return havingWire{Agg: encodeBareAggregate(h.Agg), Op: string(h.Op), Value: value}, nil
}

// MarshalJSON implements json.Marshaler.
func (q QualifiedColumn) MarshalJSON() ([]byte, error) {
	return json.Marshal(qualifiedWire{Table: q.Table, Column: q.Column.Name()})
}

// MarshalJSON implements json.Marshaler.
func (c ColumnRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(columnRefWire{
		Type:   "column",
		Table:  c.Column.Table,
		Column: c.Column.Column.Name(),
		Alias:  c.Alias,
	})
}

// MarshalJSON implements json.Marshaler.
func (b BinaryArith) MarshalJSON() ([]byte, error) {
	left, err := marshalRaw(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := marshalRaw(b.Right)
	if err != nil {
		return nil, err
	}
	return json.Marshal(arithWire{
		Type:  "arith",
		Left:  left,
		Op:    string(b.Op),
		Right: right,
		Alias: b.Alias,
	})
}

// MarshalJSON implements json.Marshaler.
func (c CompoundArith) MarshalJSON() ([]byte, error) {
	first, err := marshalRaw(c.First)
	if err != nil {
		return nil, err
	}
	second, err := marshalRaw(c.Second)
	if err != nil {
		return nil, err
	}
	third, err := marshalRaw(c.Third)
	if err != nil {
		return nil, err
	}
	return json.Marshal(compoundWire{
		Type:   "compound",
		First:  first,
		Op1:    string(c.Op1),
		Second: second,
		Op2:    string(c.Op2),
		Third:  third,
		Alias:  c.Alias,
	})
}

// MarshalJSON implements json.Marshaler.
func (a Aggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal(aggregateExprWire{
		Type:   "aggregate",
		Func:   string(a.Func),
		Table:  a.Column.Table,
		Column: a.Column.Column.Name(),
		Alias:  a.Alias,
	})
}

// MarshalJSON implements json.Marshaler.
func (w Window) MarshalJSON() ([]byte, error) {
	wire := windowWire{
		Type:        "window",
		Func:        string(w.Func),
		Agg:         string(w.Agg),
		Offset:      w.Offset,
		PartitionBy: encodeQualifieds(w.PartitionBy),
		OrderBy:     encodeOrderItems(w.OrderBy),
		Alias:       w.Alias,
	}
	if !w.Arg.IsZero() {
		wire.Arg = &qualifiedWire{Table: w.Arg.Table, Column: w.Arg.Column.Name()}
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (c Case) MarshalJSON() ([]byte, error) {
	wire := caseWire{Type: "case", Alias: c.Alias}
	for _, b := range c.Branches {
		when, err := marshalRaw(b.When)
		if err != nil {
			return nil, err
		}
		then, err := marshalRaw(b.Then)
		if err != nil {
			return nil, err
		}
		wire.Branches = append(wire.Branches, caseBranchWire{When: when, Then: then})
	}
	if c.Else != nil {
		elseValue, err := marshalRaw(c.Else)
		if err != nil {
			return nil, err
		}
		wire.Else = elseValue
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (c ValueCondition) MarshalJSON() ([]byte, error) {
	value, err := marshalRaw(c.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueCondWire{
		Type:   "value",
		Table:  c.Column.Table,
		Column: c.Column.Column.Name(),
		Op:     string(c.Op),
		Value:  value,
	})
}

// MarshalJSON implements json.Marshaler.
func (c ColumnCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(columnCondWire{
		Type:  "column",
		Left:  qualifiedWire{Table: c.Left.Table, Column: c.Left.Column.Name()},
		Op:    string(c.Op),
		Right: qualifiedWire{Table: c.Right.Table, Column: c.Right.Column.Name()},
	})
}

// MarshalJSON implements json.Marshaler.
func (c BetweenCondition) MarshalJSON() ([]byte, error) {
	low, err := marshalRaw(c.Low)
	if err != nil {
		return nil, err
	}
	high, err := marshalRaw(c.High)
	if err != nil {
		return nil, err
	}
	return json.Marshal(betweenCondWire{
		Type:   "between",
		Table:  c.Column.Table,
		Column: c.Column.Column.Name(),
		Low:    low,
		High:   high,
	})
}

// MarshalJSON implements json.Marshaler.
func (g ConditionGroup) MarshalJSON() ([]byte, error) {
	wire, err := encodeGroup(g)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (w WhereL0) MarshalJSON() ([]byte, error) {
	wire := whereL0Wire{Combine: string(w.Combine)}
	for _, g := range w.Groups {
		gw, err := encodeGroup(g)
		if err != nil {
			return nil, err
		}
		wire.Groups = append(wire.Groups, gw)
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (w WhereL1) MarshalJSON() ([]byte, error) {
	wire := whereL1Wire{Combine: string(w.Combine)}
	for _, g := range w.Groups {
		gw, err := encodeGroup(g)
		if err != nil {
			return nil, err
		}
		wire.Groups = append(wire.Groups, gw)
	}
	for _, s := range w.Subqueries {
		sw, err := encodeSubqueryCondition(s)
		if err != nil {
			return nil, err
		}
		wire.Subqueries = append(wire.Subqueries, sw)
	}
	return json.Marshal(wire)
}

func encodeSubqueryCondition(c SubqueryCondition) (subqueryCondWire, error) {
	sub, err := encodeScalarSubquery(c.Sub)
	if err != nil {
		return subqueryCondWire{}, err
	}
	return subqueryCondWire{
		Table:    c.Column.Table,
		Column:   c.Column.Column.Name(),
		Op:       string(c.Op),
		Subquery: sub,
	}, nil
}

func encodeScalarSubquery(s ScalarSubquery) (scalarSubWire, error) {
	wire := scalarSubWire{
		Agg:   encodeBareAggregate(s.Agg),
		From:  s.From.Name(),
		Alias: s.Alias,
	}
	if s.Where != nil {
		where, err := marshalRaw(*s.Where)
		if err != nil {
			return scalarSubWire{}, err
		}
		wire.Where = where
	}
	return wire, nil
}

// MarshalJSON implements json.Marshaler.
func (c SubqueryCondition) MarshalJSON() ([]byte, error) {
	wire, err := encodeSubqueryCondition(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (s ScalarSubquery) MarshalJSON() ([]byte, error) {
	wire, err := encodeScalarSubquery(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (f FromClause) MarshalJSON() ([]byte, error) {
	wire := fromWire{Alias: f.Alias}
	if !f.Table.IsZero() {
		wire.Table = f.Table.Name()
	}
	if f.Derived != nil {
		derived, err := marshalRaw(*f.Derived)
		if err != nil {
			return nil, err
		}
		wire.Derived = derived
	}
	for _, j := range f.Joins {
		on, err := encodeGroup(j.On)
		if err != nil {
			return nil, err
		}
		wire.Joins = append(wire.Joins, joinWire{
			Kind:  string(j.Kind),
			Table: j.Table.Name(),
			Alias: j.Alias,
			On:    on,
		})
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (j JoinSpec) MarshalJSON() ([]byte, error) {
	on, err := encodeGroup(j.On)
	if err != nil {
		return nil, err
	}
	return json.Marshal(joinWire{
		Kind:  string(j.Kind),
		Table: j.Table.Name(),
		Alias: j.Alias,
		On:    on,
	})
}

// MarshalJSON implements json.Marshaler.
func (d DerivedTable) MarshalJSON() ([]byte, error) {
	wire := derivedWire{
		From:      d.From.Name(),
		FromAlias: d.FromAlias,
		GroupBy:   encodeQualifieds(d.GroupBy),
		Alias:     d.Alias,
	}
	for _, e := range d.Select {
		raw, err := marshalRaw(e)
		if err != nil {
			return nil, err
		}
		wire.Select = append(wire.Select, raw)
	}
	if d.Where != nil {
		where, err := marshalRaw(*d.Where)
		if err != nil {
			return nil, err
		}
		wire.Where = where
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (o OrderItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderItemWire{
		Table:  o.Column.Table,
		Column: o.Column.Column.Name(),
		Dir:    string(o.Dir),
		Nulls:  string(o.Nulls),
	})
}

// MarshalJSON implements json.Marshaler.
func (h HavingCondition) MarshalJSON() ([]byte, error) {
	wire, err := encodeHaving(h)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

// MarshalJSON implements json.Marshaler.
func (l Limit) MarshalJSON() ([]byte, error) {
	return json.Marshal(limitWire{Count: l.Count, Offset: l.Offset})
}
