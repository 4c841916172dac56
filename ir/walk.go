package ir

// exprColumns collects every qualified column an expression references.
// Used by the scope checks that keep subqueries and derived tables
// self-contained.
func exprColumns(e Expr) []QualifiedColumn {
	switch x := e.(type) {
	case ColumnRef:
		return []QualifiedColumn{x.Column}
	case *ColumnRef:
		return exprColumns(*x)
	case BinaryArith:
		return append(operandColumns(x.Left), operandColumns(x.Right)...)
	case *BinaryArith:
		return exprColumns(*x)
	case CompoundArith:
		cols := operandColumns(x.First)
		cols = append(cols, operandColumns(x.Second)...)
		return append(cols, operandColumns(x.Third)...)
	case *CompoundArith:
		return exprColumns(*x)
	case Aggregate:
		if x.Column.IsZero() {
			return nil
		}
		return []QualifiedColumn{x.Column}
	case *Aggregate:
		return exprColumns(*x)
	case Window:
		var cols []QualifiedColumn
		if !x.Arg.IsZero() {
			cols = append(cols, x.Arg)
		}
		cols = append(cols, x.PartitionBy...)
		for _, item := range x.OrderBy {
			cols = append(cols, item.Column)
		}
		return cols
	case *Window:
		return exprColumns(*x)
	case Case:
		var cols []QualifiedColumn
		for _, b := range x.Branches {
			cols = append(cols, b.When.Column)
		}
		return cols
	case *Case:
		return exprColumns(*x)
	default:
		return nil
	}
}

// operandColumns returns the column behind an operand, if any.
func operandColumns(o Operand) []QualifiedColumn {
	switch x := o.(type) {
	case QualifiedColumn:
		return []QualifiedColumn{x}
	case *QualifiedColumn:
		return []QualifiedColumn{*x}
	default:
		return nil
	}
}

// conditionColumns collects every qualified column a condition references.
func conditionColumns(c Condition) []QualifiedColumn {
	switch x := c.(type) {
	case ValueCondition:
		return []QualifiedColumn{x.Column}
	case *ValueCondition:
		return conditionColumns(*x)
	case ColumnCondition:
		return []QualifiedColumn{x.Left, x.Right}
	case *ColumnCondition:
		return conditionColumns(*x)
	case BetweenCondition:
		return []QualifiedColumn{x.Column}
	case *BetweenCondition:
		return conditionColumns(*x)
	default:
		return nil
	}
}

// whereL0Columns collects every qualified column a subquery-free WHERE
// references.
func whereL0Columns(w WhereL0) []QualifiedColumn {
	var cols []QualifiedColumn
	for _, g := range w.Groups {
		for _, c := range g.Conditions {
			cols = append(cols, conditionColumns(c)...)
		}
	}
	return cols
}
