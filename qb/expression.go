package qb

import "fmt"

// Expression is a piece of SQL that is inlined into the compiled query as is.
// It is never sent to the engine as a binding.
type Expression struct {
	value string
}

// Raw wraps v into an Expression, v is formatted with fmt.Sprint.
func Raw(v any) Expression {
	return Expression{value: fmt.Sprint(v)}
}

func (e Expression) Value() string {
	return e.value
}

func (e Expression) String() string {
	return e.value
}

func isExpression(v any) bool {
	_, ok := v.(Expression)
	return ok
}
