package qb

import "fmt"

func (b *Builder) GroupBy(groups ...any) *Builder {
	b.groups = append(b.groups, flatten(groups)...)
	return b
}

func (b *Builder) GroupByRaw(sql string, bindings ...any) *Builder {
	b.groups = append(b.groups, Raw(sql))
	return b.addBinding(BindingGroupBy, bindings...)
}

// Having adds a having condition joined with "and". It reads its arguments
// the same way Where does, a callback builds a nested group of havings.
func (b *Builder) Having(column any, args ...any) *Builder {
	return b.havingArgs(column, args, and)
}

func (b *Builder) OrHaving(column any, args ...any) *Builder {
	return b.havingArgs(column, args, or)
}

func (b *Builder) HavingCondition(c Condition) *Builder {
	return b.having(c, and)
}

func (b *Builder) havingArgs(column any, args []any, boolean string) *Builder {
	c, connector, err := conditionOf(column, args)
	if err != nil {
		return b.setErr(err)
	}
	return b.having(c, withConnector(boolean, connector))
}

func (b *Builder) having(c Condition, boolean string) *Builder {
	switch c := c.(type) {
	case Group:
		return b.havingNested(c, boolean)
	case Clauses:
		return b.havingNested(func(q *Builder) {
			for _, clause := range c {
				q.having(clause, and)
			}
		}, boolean)
	case Pairs:
		if boolean != and {
			return b.havingNested(func(q *Builder) { q.having(c, and) }, boolean)
		}
		for _, pair := range c {
			b.havingBasic(pair.Key, "=", pair.Value, and)
		}
		return b
	case Tuple:
		cond, connector, err := c.resolve()
		if err != nil {
			return b.setErr(err)
		}
		if connector == "" {
			connector = boolean
		}
		return b.having(cond, connector)
	case Is:
		return b.havingBasic(c.Column, "=", c.Value, boolean)
	case Compare:
		return b.havingBasic(c.Column, c.Operator, c.Value, boolean)
	default:
		return b.setErr(fmt.Errorf("unsupported condition %T", c))
	}
}

func (b *Builder) havingBasic(column any, operator string, value any, boolean string) *Builder {
	if operator == "" {
		operator = "="
	}
	if isQueryable(column) {
		sql, bindings, err := b.createSub(column)
		if err != nil {
			return b.setErr(err)
		}
		b.addBinding(BindingHaving, bindings...)
		column = Raw("(" + sql + ")")
	}
	if invalidOperator(operator) {
		value, operator = operator, "="
	}
	b.havings = append(b.havings, predicate{
		typ:      predicateBasic,
		boolean:  boolean,
		column:   column,
		operator: operator,
		value:    value,
	})
	return b.addBinding(BindingHaving, value)
}

func (b *Builder) HavingRaw(sql string, bindings ...any) *Builder {
	return b.havingRaw(sql, bindings, and)
}

func (b *Builder) OrHavingRaw(sql string, bindings ...any) *Builder {
	return b.havingRaw(sql, bindings, or)
}

func (b *Builder) havingRaw(sql string, bindings []any, boolean string) *Builder {
	b.havings = append(b.havings, predicate{typ: predicateRaw, sql: sql, boolean: boolean})
	return b.addBinding(BindingHaving, bindings...)
}

// HavingNested runs callback on a builder sharing the from target and adds
// its havings as one parenthesized group.
func (b *Builder) HavingNested(callback func(q *Builder)) *Builder {
	return b.havingNested(callback, and)
}

func (b *Builder) havingNested(callback func(q *Builder), boolean string) *Builder {
	q := b.forNestedWhere()
	callback(q)
	b.setErr(q.err)
	if len(q.havings) == 0 {
		return b
	}
	b.havings = append(b.havings, predicate{typ: predicateNested, query: q, boolean: boolean})
	return b.addBinding(BindingHaving, q.bindings[BindingHaving]...)
}

func (b *Builder) HavingNull(columns ...any) *Builder {
	return b.havingNull(and, false, columns)
}

func (b *Builder) HavingNotNull(columns ...any) *Builder {
	return b.havingNull(and, true, columns)
}

func (b *Builder) havingNull(boolean string, not bool, columns []any) *Builder {
	typ := predicateNull
	if not {
		typ = predicateNotNull
	}
	for _, column := range flatten(columns) {
		b.havings = append(b.havings, predicate{typ: typ, column: column, boolean: boolean})
	}
	return b
}

func (b *Builder) HavingBetween(column any, values []any) *Builder {
	return b.havingBetween(column, values, and, false)
}

func (b *Builder) HavingNotBetween(column any, values []any) *Builder {
	return b.havingBetween(column, values, and, true)
}

func (b *Builder) havingBetween(column any, values []any, boolean string, not bool) *Builder {
	bounds := betweenBounds(values)
	b.havings = append(b.havings, predicate{
		typ:     predicateBetween,
		column:  column,
		values:  bounds,
		boolean: boolean,
		not:     not,
	})
	return b.addBinding(BindingHaving, bounds...)
}
