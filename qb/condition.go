package qb

import (
	"fmt"
	"reflect"
	"strings"
)

// Condition is the closed set of inputs understood by the where and having
// families. Where, OrWhere, Having and friends turn their positional arguments
// into one of these; WhereCondition accepts one directly.
type Condition interface {
	condition()
}

// Is compares Column with Value using "=".
type Is struct {
	Column any
	Value  any
}

// Compare compares Column with Value using Operator.
type Compare struct {
	Column   any
	Operator string
	Value    any
}

// Tuple is a loosely typed (column, [operator], value, [connector]) clause,
// used inside Clauses.
type Tuple []any

// Clauses is a list of conditions compiled as one parenthesized group.
type Clauses []Condition

// Group is a callback building a nested group or a subquery on the given
// builder.
type Group func(q *Builder)

func (Is) condition()      {}
func (Compare) condition() {}
func (Tuple) condition()   {}
func (Clauses) condition() {}
func (Group) condition()   {}
func (Pairs) condition()   {}

// conditionOf converts the positional arguments of Where into a Condition and
// the connector given as fourth argument, empty when there is none.
func conditionOf(column any, args []any) (Condition, string, error) {
	if len(args) == 0 {
		switch c := column.(type) {
		case Condition:
			return c, "", nil
		case func(*Builder):
			return Group(c), "", nil
		case map[string]any:
			return pairsFromMap(c), "", nil
		}
		if c, ok, err := structuredCondition(column); ok {
			return c, "", err
		}
	}
	if fn, ok := column.(func(*Builder)); ok {
		column = Group(fn)
	}

	switch len(args) {
	case 0:
		return Is{Column: column}, "", nil
	case 1:
		return Is{Column: column, Value: args[0]}, "", nil
	case 2, 3:
		connector := ""
		if len(args) == 3 {
			s, ok := args[2].(string)
			if !ok {
				return nil, "", fmt.Errorf("%w: connector should be a string, got %T", ErrWhereArity, args[2])
			}
			connector = s
		}
		op, ok := args[0].(string)
		if !ok {
			// the operator slot holds a value, the third argument is dropped
			return Is{Column: column, Value: args[0]}, connector, nil
		}
		return Compare{Column: column, Operator: op, Value: args[1]}, connector, nil
	default:
		return nil, "", fmt.Errorf("%w: expected at most 4 got %d", ErrWhereArity, len(args)+1)
	}
}

// structuredCondition reads maps and structs as Pairs and slices as Clauses.
// ok is false for anything else, which is then used as a column.
func structuredCondition(v any) (c Condition, ok bool, err error) {
	switch v.(type) {
	case nil, string, Expression, *Builder:
		return nil, false, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		pairs, err := PairsOf(v)
		return pairs, true, err
	case reflect.Slice, reflect.Array:
		clauses := make(Clauses, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			clause, err := clauseOf(rv.Index(i).Interface())
			if err != nil {
				return nil, true, err
			}
			clauses = append(clauses, clause)
		}
		return clauses, true, nil
	}
	return nil, false, nil
}

// clauseOf converts one element of a where slice.
func clauseOf(v any) (Condition, error) {
	switch c := v.(type) {
	case Condition:
		return c, nil
	case []any:
		return Tuple(c), nil
	case map[string]any:
		return pairsFromMap(c), nil
	}
	c, ok, err := structuredCondition(v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: cannot use %T as a where clause", ErrWhereArity, v)
	}
	return c, nil
}

// withConnector applies a connector given to Where to the default boolean,
// keeping a "not" suffix.
func withConnector(boolean string, connector string) string {
	if connector == "" {
		return boolean
	}
	if strings.HasSuffix(boolean, " not") && !strings.HasSuffix(connector, " not") {
		return connector + " not"
	}
	return connector
}

// resolve turns a tuple into a condition and its connector. The connector is
// empty unless the tuple carries one.
func (t Tuple) resolve() (Condition, string, error) {
	switch len(t) {
	case 2:
		return Is{Column: t[0], Value: t[1]}, "", nil
	case 3, 4:
		op, ok := t[1].(string)
		if !ok {
			return nil, "", fmt.Errorf("%w: operator should be a string, got %T", ErrWhereArity, t[1])
		}
		boolean := ""
		if len(t) == 4 {
			b, ok := t[3].(string)
			if !ok {
				return nil, "", fmt.Errorf("%w: connector should be a string, got %T", ErrWhereArity, t[3])
			}
			boolean = b
		}
		return Compare{Column: t[0], Operator: op, Value: t[2]}, boolean, nil
	default:
		return nil, "", fmt.Errorf("%w: expected 2, 3 or 4 got %d", ErrWhereArity, len(t))
	}
}
