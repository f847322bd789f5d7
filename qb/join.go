package qb

import "fmt"

type join struct {
	kind     string
	table    any
	first    any
	operator string
	second   any
}

// Join adds `inner join table on first operator second`.
func (b *Builder) Join(table any, first any, operator string, second any) *Builder {
	return b.join("inner", table, first, operator, second)
}

func (b *Builder) LeftJoin(table any, first any, operator string, second any) *Builder {
	return b.join("left", table, first, operator, second)
}

func (b *Builder) RightJoin(table any, first any, operator string, second any) *Builder {
	return b.join("right", table, first, operator, second)
}

func (b *Builder) CrossJoin(table any) *Builder {
	b.joins = append(b.joins, join{kind: "cross", table: table})
	return b
}

// JoinSub joins on the result of query aliased as alias.
func (b *Builder) JoinSub(query any, alias string, first any, operator string, second any) *Builder {
	return b.joinSub("inner", query, alias, first, operator, second)
}

func (b *Builder) LeftJoinSub(query any, alias string, first any, operator string, second any) *Builder {
	return b.joinSub("left", query, alias, first, operator, second)
}

func (b *Builder) joinSub(kind string, query any, alias string, first any, operator string, second any) *Builder {
	sql, bindings, err := b.createSub(query)
	if err != nil {
		return b.setErr(err)
	}
	b.addBinding(BindingJoin, bindings...)
	table := Raw(fmt.Sprintf("(%s) as %s", sql, b.grammar.WrapTable(alias)))
	return b.join(kind, table, first, operator, second)
}

func (b *Builder) join(kind string, table any, first any, operator string, second any) *Builder {
	if invalidOperator(operator) {
		operator = "="
	}
	b.joins = append(b.joins, join{
		kind:     kind,
		table:    table,
		first:    first,
		operator: operator,
		second:   second,
	})
	return b
}
