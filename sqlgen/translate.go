// Package sqlgen renders queries to SQL SELECT statements.
//
// Translation is pure and deterministic: the same query value always
// yields byte-identical output, clauses appear in a fixed order, and no
// state survives a call. Because every ir value is valid by
// construction, translation is total; *TranslationError exists only for
// values that bypassed construction.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pricelens/selectir/ir"
	"github.com/pricelens/selectir/vocab"
)

var comparisonSQL = map[vocab.ComparisonOp]string{
	vocab.OpEq:    "=",
	vocab.OpNe:    "<>",
	vocab.OpLt:    "<",
	vocab.OpLte:   "<=",
	vocab.OpGt:    ">",
	vocab.OpGte:   ">=",
	vocab.OpLike:  "LIKE",
	vocab.OpIn:    "IN",
	vocab.OpNotIn: "NOT IN",
}

var arithmeticSQL = map[vocab.ArithmeticOp]string{
	vocab.OpAdd: "+",
	vocab.OpSub: "-",
	vocab.OpMul: "*",
	vocab.OpDiv: "/",
}

var aggregateSQL = map[vocab.AggregateFunc]string{
	vocab.AggCount:         "COUNT",
	vocab.AggCountDistinct: "COUNT",
	vocab.AggSum:           "SUM",
	vocab.AggAvg:           "AVG",
	vocab.AggMin:           "MIN",
	vocab.AggMax:           "MAX",
	vocab.AggStdDev:        "STDDEV",
	vocab.AggVariance:      "VARIANCE",
}

var windowSQL = map[vocab.WindowFunc]string{
	vocab.WinRank:      "RANK",
	vocab.WinDenseRank: "DENSE_RANK",
	vocab.WinRowNumber: "ROW_NUMBER",
	vocab.WinLag:       "LAG",
	vocab.WinLead:      "LEAD",
}

var joinSQL = map[vocab.JoinKind]string{
	vocab.JoinInner: "INNER JOIN",
	vocab.JoinLeft:  "LEFT JOIN",
	vocab.JoinRight: "RIGHT JOIN",
	vocab.JoinFull:  "FULL JOIN",
}

var directionSQL = map[vocab.Direction]string{
	vocab.Asc:  "ASC",
	vocab.Desc: "DESC",
}

var nullsSQL = map[vocab.NullsOrder]string{
	vocab.NullsFirst: "NULLS FIRST",
	vocab.NullsLast:  "NULLS LAST",
}

var combineSQL = map[vocab.Combinator]string{
	vocab.CombineAnd: "AND",
	vocab.CombineOr:  "OR",
}

// Translate renders a query as one single-line SQL SELECT statement,
// with no trailing semicolon. Clauses always appear in SELECT, FROM,
// WHERE, GROUP BY, HAVING, ORDER BY, LIMIT order.
//
// The query is validated first, so a hand-assembled value fails here
// the same way it would fail construction.
func Translate(q ir.Query) (string, error) {
	if err := q.Validate(); err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	sel, err := renderSelectList(q.Select)
	if err != nil {
		return "", err
	}
	from, err := renderFrom(q.From)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(sel)
	b.WriteString(" FROM ")
	b.WriteString(from)

	if q.Where != nil {
		where, err := renderWhereL1(*q.Where)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if len(q.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(renderQualifiedList(q.GroupBy))
	}
	if len(q.Having) > 0 {
		having, err := renderHaving(q.Having)
		if err != nil {
			return "", err
		}
		b.WriteString(" HAVING ")
		b.WriteString(having)
	}
	if len(q.OrderBy) > 0 {
		order, err := renderOrderItems(q.OrderBy)
		if err != nil {
			return "", err
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	if q.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatInt(q.Limit.Count, 10))
		if q.Limit.Offset > 0 {
			b.WriteString(" OFFSET ")
			b.WriteString(strconv.FormatInt(q.Limit.Offset, 10))
		}
	}
	return b.String(), nil
}

func renderSelectList(exprs []ir.Expr) (string, error) {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		s, err := renderExpr(e)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}

func renderExpr(e ir.Expr) (string, error) {
	switch x := e.(type) {
	case ir.ColumnRef:
		return withAlias(renderQualified(x.Column), x.Alias), nil
	case *ir.ColumnRef:
		return renderExpr(*x)
	case ir.BinaryArith:
		left, err := renderOperand(x.Left)
		if err != nil {
			return "", err
		}
		right, err := renderOperand(x.Right)
		if err != nil {
			return "", err
		}
		op, ok := arithmeticSQL[x.Op]
		if !ok {
			return "", &TranslationError{Node: "arithmetic", Message: fmt.Sprintf("unknown operator %q", x.Op)}
		}
		return withAlias(left+" "+op+" "+right, x.Alias), nil
	case *ir.BinaryArith:
		return renderExpr(*x)
	case ir.CompoundArith:
		first, err := renderOperand(x.First)
		if err != nil {
			return "", err
		}
		second, err := renderOperand(x.Second)
		if err != nil {
			return "", err
		}
		third, err := renderOperand(x.Third)
		if err != nil {
			return "", err
		}
		op1, ok := arithmeticSQL[x.Op1]
		if !ok {
			return "", &TranslationError{Node: "arithmetic", Message: fmt.Sprintf("unknown operator %q", x.Op1)}
		}
		op2, ok := arithmeticSQL[x.Op2]
		if !ok {
			return "", &TranslationError{Node: "arithmetic", Message: fmt.Sprintf("unknown operator %q", x.Op2)}
		}
		// The first pair binds tighter, always.
		return withAlias("("+first+" "+op1+" "+second+") "+op2+" "+third, x.Alias), nil
	case *ir.CompoundArith:
		return renderExpr(*x)
	case ir.Aggregate:
		agg, err := renderAggregate(x)
		if err != nil {
			return "", err
		}
		return withAlias(agg, x.Alias), nil
	case *ir.Aggregate:
		return renderExpr(*x)
	case ir.Window:
		win, err := renderWindow(x)
		if err != nil {
			return "", err
		}
		return withAlias(win, x.Alias), nil
	case *ir.Window:
		return renderExpr(*x)
	case ir.Case:
		c, err := renderCase(x)
		if err != nil {
			return "", err
		}
		return withAlias(c, x.Alias), nil
	case *ir.Case:
		return renderExpr(*x)
	default:
		return "", &TranslationError{Node: "expression", Message: fmt.Sprintf("unsupported type %T", e)}
	}
}

func withAlias(sql, alias string) string {
	if alias == "" {
		return sql
	}
	return sql + " AS " + alias
}

func renderQualified(c ir.QualifiedColumn) string {
	if c.Table != "" {
		return c.Table + "." + c.Column.Name()
	}
	return c.Column.Name()
}

func renderQualifiedList(cols []ir.QualifiedColumn) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, renderQualified(c))
	}
	return strings.Join(parts, ", ")
}

func renderOperand(o ir.Operand) (string, error) {
	switch x := o.(type) {
	case ir.QualifiedColumn:
		return renderQualified(x), nil
	case *ir.QualifiedColumn:
		return renderQualified(*x), nil
	case ir.Number:
		return renderNumber(x), nil
	default:
		return "", &TranslationError{Node: "operand", Message: fmt.Sprintf("unsupported type %T", o)}
	}
}

func renderNumber(n ir.Number) string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func renderLiteral(l ir.Literal) (string, error) {
	switch v := l.(type) {
	case ir.String:
		return "'" + strings.ReplaceAll(string(v), "'", "''") + "'", nil
	case ir.Number:
		return renderNumber(v), nil
	case ir.Bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case ir.List:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			s, err := renderLiteral(elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	default:
		return "", &TranslationError{Node: "literal", Message: fmt.Sprintf("unsupported type %T", l)}
	}
}

// renderAggregate renders the aggregate call itself; the caller applies
// any alias.
func renderAggregate(a ir.Aggregate) (string, error) {
	name, ok := aggregateSQL[a.Func]
	if !ok {
		return "", &TranslationError{Node: "aggregate", Message: fmt.Sprintf("unknown function %q", a.Func)}
	}
	switch {
	case a.Column.IsZero():
		return name + "(*)", nil
	case a.Func == vocab.AggCountDistinct:
		return name + "(DISTINCT " + renderQualified(a.Column) + ")", nil
	default:
		return name + "(" + renderQualified(a.Column) + ")", nil
	}
}

func renderWindow(w ir.Window) (string, error) {
	var head string
	switch {
	case w.Func.Ranking():
		head = windowSQL[w.Func] + "()"
	case w.Func.OffsetBased():
		if w.Offset > 0 {
			head = fmt.Sprintf("%s(%s, %d)", windowSQL[w.Func], renderQualified(w.Arg), w.Offset)
		} else {
			head = windowSQL[w.Func] + "(" + renderQualified(w.Arg) + ")"
		}
	case w.Func == vocab.WinAggregate:
		agg, err := renderAggregate(ir.Aggregate{Func: w.Agg, Column: w.Arg})
		if err != nil {
			return "", err
		}
		head = agg
	default:
		return "", &TranslationError{Node: "window", Message: fmt.Sprintf("unknown function %q", w.Func)}
	}

	over, err := renderOverClause(w.PartitionBy, w.OrderBy)
	if err != nil {
		return "", err
	}
	return head + " " + over, nil
}

func renderOverClause(partitionBy []ir.QualifiedColumn, orderBy []ir.OrderItem) (string, error) {
	var parts []string
	if len(partitionBy) > 0 {
		parts = append(parts, "PARTITION BY "+renderQualifiedList(partitionBy))
	}
	if len(orderBy) > 0 {
		order, err := renderOrderItems(orderBy)
		if err != nil {
			return "", err
		}
		parts = append(parts, "ORDER BY "+order)
	}
	return "OVER (" + strings.Join(parts, " ") + ")", nil
}

func renderCase(c ir.Case) (string, error) {
	var b strings.Builder
	b.WriteString("CASE")
	for _, branch := range c.Branches {
		cond, err := renderCondition(branch.When)
		if err != nil {
			return "", err
		}
		then, err := renderLiteral(branch.Then)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHEN ")
		b.WriteString(cond)
		b.WriteString(" THEN ")
		b.WriteString(then)
	}
	elseSQL, err := renderLiteral(c.Else)
	if err != nil {
		return "", err
	}
	b.WriteString(" ELSE ")
	b.WriteString(elseSQL)
	b.WriteString(" END")
	return b.String(), nil
}

func renderCondition(c ir.Condition) (string, error) {
	switch x := c.(type) {
	case ir.ValueCondition:
		op, ok := comparisonSQL[x.Op]
		if !ok {
			return "", &TranslationError{Node: "condition", Message: fmt.Sprintf("unknown operator %q", x.Op)}
		}
		value, err := renderLiteral(x.Value)
		if err != nil {
			return "", err
		}
		return renderQualified(x.Column) + " " + op + " " + value, nil
	case *ir.ValueCondition:
		return renderCondition(*x)
	case ir.ColumnCondition:
		op, ok := comparisonSQL[x.Op]
		if !ok {
			return "", &TranslationError{Node: "condition", Message: fmt.Sprintf("unknown operator %q", x.Op)}
		}
		return renderQualified(x.Left) + " " + op + " " + renderQualified(x.Right), nil
	case *ir.ColumnCondition:
		return renderCondition(*x)
	case ir.BetweenCondition:
		low, err := renderLiteral(x.Low)
		if err != nil {
			return "", err
		}
		high, err := renderLiteral(x.High)
		if err != nil {
			return "", err
		}
		return renderQualified(x.Column) + " BETWEEN " + low + " AND " + high, nil
	case *ir.BetweenCondition:
		return renderCondition(*x)
	default:
		return "", &TranslationError{Node: "condition", Message: fmt.Sprintf("unsupported type %T", c)}
	}
}

// renderGroupMembers joins a group's conditions with its combinator,
// without parentheses; the caller decides whether to wrap.
func renderGroupMembers(g ir.ConditionGroup) (string, error) {
	combine, ok := combineSQL[g.Combine]
	if !ok {
		return "", &TranslationError{Node: "condition group", Message: fmt.Sprintf("unknown combinator %q", g.Combine)}
	}
	parts := make([]string, 0, len(g.Conditions))
	for _, c := range g.Conditions {
		s, err := renderCondition(c)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "+combine+" "), nil
}

// A group is parenthesized only when it has more than one member and
// shares the clause with other units; a lone group or a single
// comparison never needs the wrapping.
func renderGroupUnit(g ir.ConditionGroup, units int) (string, error) {
	members, err := renderGroupMembers(g)
	if err != nil {
		return "", err
	}
	if len(g.Conditions) > 1 && units > 1 {
		return "(" + members + ")", nil
	}
	return members, nil
}

func renderWhereL0(w ir.WhereL0) (string, error) {
	combine, ok := combineSQL[w.Combine]
	if !ok {
		return "", &TranslationError{Node: "where", Message: fmt.Sprintf("unknown combinator %q", w.Combine)}
	}
	units := len(w.Groups)
	parts := make([]string, 0, units)
	for _, g := range w.Groups {
		s, err := renderGroupUnit(g, units)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "+combine+" "), nil
}

func renderWhereL1(w ir.WhereL1) (string, error) {
	combine, ok := combineSQL[w.Combine]
	if !ok {
		return "", &TranslationError{Node: "where", Message: fmt.Sprintf("unknown combinator %q", w.Combine)}
	}
	units := len(w.Groups) + len(w.Subqueries)
	parts := make([]string, 0, units)
	for _, g := range w.Groups {
		s, err := renderGroupUnit(g, units)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	for _, sc := range w.Subqueries {
		s, err := renderSubqueryCondition(sc)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "+combine+" "), nil
}

func renderSubqueryCondition(c ir.SubqueryCondition) (string, error) {
	op, ok := comparisonSQL[c.Op]
	if !ok {
		return "", &TranslationError{Node: "subquery condition", Message: fmt.Sprintf("unknown operator %q", c.Op)}
	}
	sub, err := renderScalarSubquery(c.Sub)
	if err != nil {
		return "", err
	}
	return renderQualified(c.Column) + " " + op + " " + sub, nil
}

func renderScalarSubquery(s ir.ScalarSubquery) (string, error) {
	agg, err := renderAggregate(s.Agg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("(SELECT ")
	b.WriteString(agg)
	b.WriteString(" FROM ")
	b.WriteString(s.From.Name())
	if s.Alias != "" {
		b.WriteString(" AS ")
		b.WriteString(s.Alias)
	}
	if s.Where != nil {
		where, err := renderWhereL0(*s.Where)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	b.WriteString(")")
	return b.String(), nil
}

func renderFrom(f ir.FromClause) (string, error) {
	var b strings.Builder
	if f.Derived != nil {
		derived, err := renderDerived(*f.Derived)
		if err != nil {
			return "", err
		}
		b.WriteString(derived)
	} else {
		b.WriteString(f.Table.Name())
		if f.Alias != "" {
			b.WriteString(" AS ")
			b.WriteString(f.Alias)
		}
	}
	for _, j := range f.Joins {
		kind, ok := joinSQL[j.Kind]
		if !ok {
			return "", &TranslationError{Node: "join", Message: fmt.Sprintf("unknown kind %q", j.Kind)}
		}
		on, err := renderGroupMembers(j.On)
		if err != nil {
			return "", err
		}
		b.WriteString(" ")
		b.WriteString(kind)
		b.WriteString(" ")
		b.WriteString(j.Table.Name())
		if j.Alias != "" {
			b.WriteString(" AS ")
			b.WriteString(j.Alias)
		}
		b.WriteString(" ON ")
		b.WriteString(on)
	}
	return b.String(), nil
}

func renderDerived(d ir.DerivedTable) (string, error) {
	sel, err := renderSelectList(d.Select)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("(SELECT ")
	b.WriteString(sel)
	b.WriteString(" FROM ")
	b.WriteString(d.From.Name())
	if d.FromAlias != "" {
		b.WriteString(" AS ")
		b.WriteString(d.FromAlias)
	}
	if d.Where != nil {
		where, err := renderWhereL0(*d.Where)
		if err != nil {
			return "", err
		}
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if len(d.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(renderQualifiedList(d.GroupBy))
	}
	b.WriteString(") AS ")
	b.WriteString(d.Alias)
	return b.String(), nil
}

func renderHaving(conds []ir.HavingCondition) (string, error) {
	parts := make([]string, 0, len(conds))
	for _, h := range conds {
		agg, err := renderAggregate(h.Agg)
		if err != nil {
			return "", err
		}
		op, ok := comparisonSQL[h.Op]
		if !ok {
			return "", &TranslationError{Node: "having", Message: fmt.Sprintf("unknown operator %q", h.Op)}
		}
		value, err := renderLiteral(h.Value)
		if err != nil {
			return "", err
		}
		parts = append(parts, agg+" "+op+" "+value)
	}
	return strings.Join(parts, " AND "), nil
}

func renderOrderItems(items []ir.OrderItem) (string, error) {
	parts := make([]string, 0, len(items))
	for _, o := range items {
		dir, ok := directionSQL[o.Dir]
		if !ok {
			return "", &TranslationError{Node: "order by", Message: fmt.Sprintf("unknown direction %q", o.Dir)}
		}
		s := renderQualified(o.Column) + " " + dir
		if o.Nulls != "" {
			nulls, ok := nullsSQL[o.Nulls]
			if !ok {
				return "", &TranslationError{Node: "order by", Message: fmt.Sprintf("unknown nulls order %q", o.Nulls)}
			}
			s += " " + nulls
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", "), nil
}
