package qb

import "errors"

var (
	// ErrWhereArity is returned when a where tuple or a Where call does not
	// have the shape (column, [operator], value, [connector]).
	ErrWhereArity = errors.New("wrong number of where arguments")
	// ErrUnsupported is returned by Paginate on grouped queries.
	ErrUnsupported = errors.New("operation not supported")
	// ErrNoValues is returned by insert and update calls without values.
	ErrNoValues = errors.New("no values given")
	// ErrNoConnection is returned by terminal calls on a Builder without a Connection.
	ErrNoConnection = errors.New("builder has no connection")
)
