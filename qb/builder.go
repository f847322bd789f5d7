package qb

import (
	"fmt"
)

type aggregate struct {
	function string
	column   string
}

// Builder accumulates the state of one query. Mutators return the receiver so
// calls can be chained; ToSql and the terminal calls never modify it.
//
// A Builder is not safe for concurrent use, use Clone to branch a query.
type Builder struct {
	connection Connection
	grammar    *Grammar

	bindings  Bindings
	aggregate *aggregate
	columns   []any
	distinct  bool
	from      any
	joins     []join
	wheres    []predicate
	groups    []any
	havings   []predicate
	orders    []order
	limit     int
	offset    int

	err error
}

// New creates a Builder executing its terminal calls on conn. conn may be nil
// when the builder is only used to compile SQL.
func New(conn Connection, opts ...func(b *Builder)) *Builder {
	b := &Builder{
		connection: conn,
		grammar:    NewGrammar(nil),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithGrammar makes the builder compile with a copy of g.
func WithGrammar(g *Grammar) func(b *Builder) {
	return func(b *Builder) {
		if g != nil {
			b.grammar = g.clone()
		}
	}
}

func (b *Builder) Connection() Connection {
	return b.connection
}

func (b *Builder) Grammar() *Grammar {
	return b.grammar
}

// Err returns the first usage error recorded while building the query.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) setErr(err error) *Builder {
	if b.err == nil && err != nil {
		b.err = err
	}
	return b
}

func (b *Builder) addBinding(typ BindingType, values ...any) *Builder {
	b.bindings.add(typ, values...)
	return b
}

// GetBindings returns every binding in placeholder order.
func (b *Builder) GetBindings() []any {
	return b.bindings.Flatten()
}

// GetRawBindings returns a copy of the binding buckets.
func (b *Builder) GetRawBindings() Bindings {
	return b.bindings.clone()
}

// Select replaces the selected columns, "*" when none are given.
func (b *Builder) Select(columns ...any) *Builder {
	b.columns = nil
	b.bindings.reset(BindingSelect)
	columns = flatten(columns)
	if len(columns) == 0 {
		columns = []any{"*"}
	}
	b.columns = columns
	return b
}

func (b *Builder) AddSelect(columns ...any) *Builder {
	b.columns = append(b.columns, flatten(columns)...)
	return b
}

func (b *Builder) SelectRaw(expression string, bindings ...any) *Builder {
	b.AddSelect(Raw(expression))
	return b.addBinding(BindingSelect, bindings...)
}

// SelectSub adds `(query) as alias` to the selected columns. query is a
// *Builder, a callback receiving a fresh builder, an Expression or raw SQL.
func (b *Builder) SelectSub(query any, alias string) *Builder {
	sql, bindings, err := b.createSub(query)
	if err != nil {
		return b.setErr(err)
	}
	return b.SelectRaw(fmt.Sprintf("(%s) as %s", sql, b.grammar.Wrap(alias)), bindings...)
}

func (b *Builder) Distinct() *Builder {
	b.distinct = true
	return b
}

func (b *Builder) From(table string) *Builder {
	b.bindings.reset(BindingFrom)
	b.from = table
	return b
}

func (b *Builder) FromAs(table string, alias string) *Builder {
	if alias == "" {
		return b.From(table)
	}
	return b.From(table + " as " + alias)
}

func (b *Builder) FromSub(query any, alias string) *Builder {
	sql, bindings, err := b.createSub(query)
	if err != nil {
		return b.setErr(err)
	}
	return b.FromRaw(fmt.Sprintf("(%s) as %s", sql, b.grammar.WrapTable(alias)), bindings...)
}

func (b *Builder) FromRaw(expression string, bindings ...any) *Builder {
	b.bindings.reset(BindingFrom)
	b.from = Raw(expression)
	return b.addBinding(BindingFrom, bindings...)
}

// Limit sets the maximum number of rows. A zero or negative value leaves the
// limit untouched.
func (b *Builder) Limit(n int) *Builder {
	if n > 0 {
		b.limit = n
	}
	return b
}

func (b *Builder) Take(n int) *Builder {
	return b.Limit(n)
}

func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		n = 0
	}
	b.offset = n
	return b
}

func (b *Builder) Skip(n int) *Builder {
	return b.Offset(n)
}

const defaultPerPage = 15

// ForPage sets limit and offset for the given 1-based page.
func (b *Builder) ForPage(page int, perPage int) *Builder {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return b.Offset((page - 1) * perPage).Limit(perPage)
}

// ToSql compiles the select query. It has no side effects.
func (b *Builder) ToSql() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.grammar.CompileSelect(b), nil
}

// NewQuery returns an empty builder on the same connection with a fresh grammar.
func (b *Builder) NewQuery() *Builder {
	return New(b.connection, WithGrammar(b.grammar))
}

func (b *Builder) ForSubQuery() *Builder {
	return b.NewQuery()
}

func (b *Builder) forNestedWhere() *Builder {
	q := b.NewQuery()
	q.from = b.from
	return q
}

// Clone copies the builder. Both builders can be mutated independently
// afterwards.
func (b *Builder) Clone() *Builder {
	c := b.NewQuery()
	c.bindings = b.bindings.clone()
	if b.aggregate != nil {
		agg := *b.aggregate
		c.aggregate = &agg
	}
	c.columns = append([]any(nil), b.columns...)
	c.distinct = b.distinct
	c.from = b.from
	c.joins = append([]join(nil), b.joins...)
	c.wheres = append([]predicate(nil), b.wheres...)
	c.groups = append([]any(nil), b.groups...)
	c.havings = append([]predicate(nil), b.havings...)
	c.orders = append([]order(nil), b.orders...)
	c.limit = b.limit
	c.offset = b.offset
	c.err = b.err
	return c
}

// createSub compiles query into SQL text and its bindings.
func (b *Builder) createSub(query any) (string, []any, error) {
	switch q := query.(type) {
	case *Builder:
		sql, err := q.ToSql()
		if err != nil {
			return "", nil, err
		}
		return sql, q.GetBindings(), nil
	case Group:
		return b.createSub(b.subQuery(q))
	case func(*Builder):
		return b.createSub(b.subQuery(q))
	case Expression:
		return q.Value(), nil, nil
	case string:
		return q, nil, nil
	default:
		return "", nil, fmt.Errorf("cannot use %T as a subquery", query)
	}
}

func (b *Builder) subQuery(callback func(*Builder)) *Builder {
	q := b.ForSubQuery()
	callback(q)
	return q
}

func isQueryable(v any) bool {
	switch v.(type) {
	case *Builder, Group, func(*Builder):
		return true
	}
	return false
}

// flatten expands string and any slices so callers can pass either
// Select("a", "b") or Select([]string{"a", "b"}).
func flatten(values []any) []any {
	var out []any
	for _, v := range values {
		switch v := v.(type) {
		case []string:
			for _, s := range v {
				out = append(out, s)
			}
		case []any:
			out = append(out, v...)
		default:
			out = append(out, v)
		}
	}
	return out
}
