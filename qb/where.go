package qb

import (
	"fmt"
	"reflect"
)

type predicateType int

const (
	predicateBasic predicateType = iota
	predicateColumn
	predicateRaw
	predicateIn
	predicateNotIn
	predicateNull
	predicateNotNull
	predicateBetween
	predicateBetweenColumns
	predicateNested
	predicateSub
	predicateExists
	predicateNotExists
)

// predicate is one condition of a where or having clause.
type predicate struct {
	typ predicateType
	// connector: "and", "or", "and not", "or not"
	boolean string

	column   any
	operator string
	value    any
	values   []any
	not      bool
	sql      string
	query    *Builder
	first    any
	second   any
}

const (
	and    = "and"
	or     = "or"
	andNot = "and not"
	orNot  = "or not"
)

// Where adds a condition joined with "and". The arguments are read as:
//
//	Where("age", 18)                  "age" = 18
//	Where("age", ">", 18)             "age" > 18
//	Where("age", ">", 18, "or")       or "age" > 18
//	Where("age")                      "age" is null
//	Where(func(q *Builder) {...})     nested group
//	Where(qb.Pairs{{"a", 1}})         "a" = 1 for every pair, maps and structs too
//	Where(qb.Clauses{...})            nested group of tuples
func (b *Builder) Where(column any, args ...any) *Builder {
	return b.whereArgs(column, args, and)
}

func (b *Builder) OrWhere(column any, args ...any) *Builder {
	return b.whereArgs(column, args, or)
}

func (b *Builder) WhereNot(column any, args ...any) *Builder {
	return b.whereArgs(column, args, andNot)
}

func (b *Builder) OrWhereNot(column any, args ...any) *Builder {
	return b.whereArgs(column, args, orNot)
}

func (b *Builder) WhereCondition(c Condition) *Builder {
	return b.where(c, and)
}

func (b *Builder) OrWhereCondition(c Condition) *Builder {
	return b.where(c, or)
}

func (b *Builder) whereArgs(column any, args []any, boolean string) *Builder {
	c, connector, err := conditionOf(column, args)
	if err != nil {
		return b.setErr(err)
	}
	return b.where(c, withConnector(boolean, connector))
}

func (b *Builder) where(c Condition, boolean string) *Builder {
	switch c := c.(type) {
	case Clauses:
		return b.addArrayOfWheres(c, boolean)
	case Pairs:
		if boolean != and {
			return b.whereNested(func(q *Builder) { q.where(c, and) }, boolean)
		}
		for _, pair := range c {
			b.where(Is{Column: pair.Key, Value: pair.Value}, and)
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
		return b.where(cond, connector)
	case Group:
		return b.whereNested(c, boolean)
	case Is:
		return b.whereCompare(c.Column, "=", c.Value, boolean)
	case Compare:
		return b.whereCompare(c.Column, c.Operator, c.Value, boolean)
	default:
		return b.setErr(fmt.Errorf("unsupported condition %T", c))
	}
}

func (b *Builder) addArrayOfWheres(clauses Clauses, boolean string) *Builder {
	return b.whereNested(func(q *Builder) {
		for _, c := range clauses {
			if t, ok := c.(Tuple); ok {
				cond, connector, err := t.resolve()
				if err != nil {
					q.setErr(err)
					continue
				}
				if connector == "" {
					connector = and
				}
				q.where(cond, connector)
				continue
			}
			q.where(c, and)
		}
	}, boolean)
}

func (b *Builder) whereCompare(column any, operator string, value any, boolean string) *Builder {
	if operator == "" {
		if fn, ok := callbackOf(column); ok && value == nil {
			return b.whereNested(fn, boolean)
		}
		operator = "="
	}
	if isQueryable(column) {
		sql, bindings, err := b.createSub(column)
		if err != nil {
			return b.setErr(err)
		}
		b.addBinding(BindingWhere, bindings...)
		column = Raw("(" + sql + ")")
	}

	if invalidOperator(operator) {
		value, operator = operator, "="
	}

	if fn, ok := callbackOf(value); ok {
		return b.whereSub(column, operator, fn, boolean)
	}

	if value == nil {
		return b.whereNull(boolean, operator != "=", column)
	}

	b.wheres = append(b.wheres, predicate{
		typ:      predicateBasic,
		boolean:  boolean,
		column:   column,
		operator: operator,
		value:    value,
	})
	return b.addBinding(BindingWhere, value)
}

// WhereColumn compares two columns: WhereColumn("a", "b") or
// WhereColumn("a", ">", "b").
func (b *Builder) WhereColumn(first any, args ...any) *Builder {
	return b.whereColumn(first, args, and)
}

func (b *Builder) OrWhereColumn(first any, args ...any) *Builder {
	return b.whereColumn(first, args, or)
}

func (b *Builder) whereColumn(first any, args []any, boolean string) *Builder {
	operator, second := "=", any(nil)
	switch len(args) {
	case 1:
		second = args[0]
	case 2:
		op, ok := args[0].(string)
		if ok && !invalidOperator(op) {
			operator, second = op, args[1]
		} else {
			second = args[0]
		}
	default:
		return b.setErr(fmt.Errorf("%w: where column expects 2 or 3 arguments got %d", ErrWhereArity, len(args)+1))
	}
	b.wheres = append(b.wheres, predicate{
		typ:      predicateColumn,
		boolean:  boolean,
		first:    first,
		operator: operator,
		second:   second,
	})
	return b
}

func (b *Builder) WhereRaw(sql string, bindings ...any) *Builder {
	return b.whereRaw(sql, bindings, and)
}

func (b *Builder) OrWhereRaw(sql string, bindings ...any) *Builder {
	return b.whereRaw(sql, bindings, or)
}

func (b *Builder) whereRaw(sql string, bindings []any, boolean string) *Builder {
	b.wheres = append(b.wheres, predicate{typ: predicateRaw, sql: sql, boolean: boolean})
	return b.addBinding(BindingWhere, bindings...)
}

// WhereIn accepts any slice, a *Builder or a callback building a subquery.
func (b *Builder) WhereIn(column any, values any) *Builder {
	return b.whereIn(column, values, and, false)
}

func (b *Builder) OrWhereIn(column any, values any) *Builder {
	return b.whereIn(column, values, or, false)
}

func (b *Builder) WhereNotIn(column any, values any) *Builder {
	return b.whereIn(column, values, and, true)
}

func (b *Builder) OrWhereNotIn(column any, values any) *Builder {
	return b.whereIn(column, values, or, true)
}

func (b *Builder) whereIn(column any, values any, boolean string, not bool) *Builder {
	typ := predicateIn
	if not {
		typ = predicateNotIn
	}

	var list []any
	if isQueryable(values) {
		sql, bindings, err := b.createSub(values)
		if err != nil {
			return b.setErr(err)
		}
		b.addBinding(BindingWhere, bindings...)
		list = []any{Raw(sql)}
	} else {
		list = toSlice(values)
	}

	b.wheres = append(b.wheres, predicate{typ: typ, column: column, values: list, boolean: boolean})
	return b.addBinding(BindingWhere, list...)
}

func callbackOf(v any) (func(*Builder), bool) {
	switch fn := v.(type) {
	case Group:
		return fn, true
	case func(*Builder):
		return fn, true
	}
	return nil, false
}

func toSlice(values any) []any {
	switch v := values.(type) {
	case nil:
		return nil
	case []any:
		return v
	case Expression:
		return []any{v}
	}
	rv := reflect.ValueOf(values)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{values}
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}

// WhereNull adds one "is null" condition per column.
func (b *Builder) WhereNull(columns ...any) *Builder {
	return b.whereNull(and, false, columns...)
}

func (b *Builder) OrWhereNull(columns ...any) *Builder {
	return b.whereNull(or, false, columns...)
}

func (b *Builder) WhereNotNull(columns ...any) *Builder {
	return b.whereNull(and, true, columns...)
}

func (b *Builder) OrWhereNotNull(columns ...any) *Builder {
	return b.whereNull(or, true, columns...)
}

func (b *Builder) whereNull(boolean string, not bool, columns ...any) *Builder {
	typ := predicateNull
	if not {
		typ = predicateNotNull
	}
	for _, column := range flatten(columns) {
		b.wheres = append(b.wheres, predicate{typ: typ, column: column, boolean: boolean})
	}
	return b
}

// WhereBetween uses the first two values as bounds.
func (b *Builder) WhereBetween(column any, values []any) *Builder {
	return b.whereBetween(column, values, and, false)
}

func (b *Builder) OrWhereBetween(column any, values []any) *Builder {
	return b.whereBetween(column, values, or, false)
}

func (b *Builder) WhereNotBetween(column any, values []any) *Builder {
	return b.whereBetween(column, values, and, true)
}

func (b *Builder) OrWhereNotBetween(column any, values []any) *Builder {
	return b.whereBetween(column, values, or, true)
}

func (b *Builder) whereBetween(column any, values []any, boolean string, not bool) *Builder {
	bounds := betweenBounds(values)
	b.wheres = append(b.wheres, predicate{
		typ:     predicateBetween,
		column:  column,
		values:  bounds,
		boolean: boolean,
		not:     not,
	})
	return b.addBinding(BindingWhere, bounds...)
}

func (b *Builder) WhereBetweenColumns(column any, columns []any) *Builder {
	return b.whereBetweenColumns(column, columns, and, false)
}

func (b *Builder) OrWhereBetweenColumns(column any, columns []any) *Builder {
	return b.whereBetweenColumns(column, columns, or, false)
}

func (b *Builder) WhereNotBetweenColumns(column any, columns []any) *Builder {
	return b.whereBetweenColumns(column, columns, and, true)
}

func (b *Builder) OrWhereNotBetweenColumns(column any, columns []any) *Builder {
	return b.whereBetweenColumns(column, columns, or, true)
}

func (b *Builder) whereBetweenColumns(column any, columns []any, boolean string, not bool) *Builder {
	b.wheres = append(b.wheres, predicate{
		typ:     predicateBetweenColumns,
		column:  column,
		values:  betweenBounds(columns),
		boolean: boolean,
		not:     not,
	})
	return b
}

// betweenBounds keeps the first two values, padding with nil.
func betweenBounds(values []any) []any {
	bounds := make([]any, 2)
	copy(bounds, values)
	return bounds
}

// WhereNested runs callback on a builder sharing the from target and adds its
// conditions as one parenthesized group.
func (b *Builder) WhereNested(callback func(q *Builder)) *Builder {
	return b.whereNested(callback, and)
}

func (b *Builder) whereNested(callback func(q *Builder), boolean string) *Builder {
	q := b.forNestedWhere()
	callback(q)
	return b.addNestedWhereQuery(q, boolean)
}

func (b *Builder) addNestedWhereQuery(q *Builder, boolean string) *Builder {
	b.setErr(q.err)
	if len(q.wheres) == 0 {
		return b
	}
	b.wheres = append(b.wheres, predicate{typ: predicateNested, query: q, boolean: boolean})
	return b.addBinding(BindingWhere, q.bindings[BindingWhere]...)
}

// WhereSub adds `column operator (subquery)`.
func (b *Builder) WhereSub(column any, operator string, callback func(q *Builder)) *Builder {
	return b.whereSub(column, operator, callback, and)
}

func (b *Builder) whereSub(column any, operator string, callback func(q *Builder), boolean string) *Builder {
	q := b.subQuery(callback)
	b.setErr(q.err)
	b.wheres = append(b.wheres, predicate{
		typ:      predicateSub,
		column:   column,
		operator: operator,
		query:    q,
		boolean:  boolean,
	})
	return b.addBinding(BindingWhere, q.GetBindings()...)
}

// WhereExists accepts a *Builder or a callback building the subquery.
func (b *Builder) WhereExists(query any) *Builder {
	return b.whereExists(query, and, false)
}

func (b *Builder) OrWhereExists(query any) *Builder {
	return b.whereExists(query, or, false)
}

func (b *Builder) WhereNotExists(query any) *Builder {
	return b.whereExists(query, and, true)
}

func (b *Builder) OrWhereNotExists(query any) *Builder {
	return b.whereExists(query, or, true)
}

func (b *Builder) whereExists(query any, boolean string, not bool) *Builder {
	var q *Builder
	if fn, ok := callbackOf(query); ok {
		q = b.subQuery(fn)
	} else if sub, ok := query.(*Builder); ok {
		q = sub
	} else {
		return b.setErr(fmt.Errorf("cannot use %T as an exists subquery", query))
	}
	b.setErr(q.err)

	typ := predicateExists
	if not {
		typ = predicateNotExists
	}
	b.wheres = append(b.wheres, predicate{typ: typ, query: q, boolean: boolean})
	return b.addBinding(BindingWhere, q.GetBindings()...)
}
