package lite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golobby/lite/qb"
	"github.com/jedib0t/go-pretty/table"
)

// QueryLogEntry is one statement run by a Connection.
type QueryLogEntry struct {
	Query    string
	Bindings []any
	Duration time.Duration
	Err      error
}

// Connection runs compiled statements on a *sql.DB. It is safe for
// concurrent use.
type Connection struct {
	db      *sql.DB
	dialect *qb.Dialect
	logger  Logger

	mu         sync.Mutex
	pretending bool
	logQueries bool
	queryLog   []QueryLogEntry
}

var _ qb.Connection = (*Connection)(nil)

func newConnection(db *sql.DB, dialect *qb.Dialect, logger Logger) *Connection {
	return &Connection{db: db, dialect: dialect, logger: logger}
}

func (c *Connection) DB() *sql.DB {
	return c.db
}

func (c *Connection) Dialect() *qb.Dialect {
	return c.dialect
}

// Pretend turns pretend mode on or off. A pretending connection records and
// logs statements without running them: reads return no rows and writes
// affect nothing.
func (c *Connection) Pretend(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pretending = on
	if on {
		c.logQueries = true
	}
}

// Pretending runs fn in pretend mode and returns the statements it issued.
func (c *Connection) Pretending(fn func()) []QueryLogEntry {
	c.mu.Lock()
	wasPretending, wasLogging, saved := c.pretending, c.logQueries, c.queryLog
	c.pretending, c.logQueries, c.queryLog = true, true, nil
	c.mu.Unlock()

	fn()

	c.mu.Lock()
	defer c.mu.Unlock()
	log := c.queryLog
	c.pretending, c.logQueries, c.queryLog = wasPretending, wasLogging, saved
	return log
}

// EnableQueryLog makes the connection keep every statement it runs.
func (c *Connection) EnableQueryLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logQueries = true
}

func (c *Connection) DisableQueryLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logQueries = false
}

func (c *Connection) QueryLog() []QueryLogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]QueryLogEntry(nil), c.queryLog...)
}

func (c *Connection) FlushQueryLog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryLog = nil
}

// RenderQueryLog draws the query log as a text table.
func (c *Connection) RenderQueryLog() string {
	w := table.NewWriter()
	w.AppendHeader(table.Row{"#", "Query", "Bindings", "Time", "Error"})
	for i, entry := range c.QueryLog() {
		errText := ""
		if entry.Err != nil {
			errText = entry.Err.Error()
		}
		w.AppendRow(table.Row{i + 1, entry.Query, fmt.Sprint(entry.Bindings), entry.Duration.String(), errText})
	}
	return w.Render()
}

func (c *Connection) isPretending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pretending
}

// run rebinds query for the dialect, calls fn unless pretending, then logs
// the statement.
func (c *Connection) run(query string, bindings []any, fn func(query string) error) (pretended bool, err error) {
	pretended = c.isPretending()
	start := time.Now()
	if !pretended {
		err = fn(c.dialect.Rebind(query))
	}
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Errorf("%s %v: %v", query, bindings, err)
	} else {
		c.logger.Debugf("%s %v took %s", query, bindings, elapsed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logQueries {
		c.queryLog = append(c.queryLog, QueryLogEntry{Query: query, Bindings: bindings, Duration: elapsed, Err: err})
	}
	return pretended, err
}

// First returns the first row of query, nil when it matched nothing.
func (c *Connection) First(ctx context.Context, query string, bindings []any) (qb.Row, error) {
	var rows []qb.Row
	_, err := c.run(query, bindings, func(query string) error {
		var err error
		rows, err = c.queryRows(ctx, query, bindings, 1)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (c *Connection) Select(ctx context.Context, query string, bindings []any) ([]qb.Row, error) {
	rows := []qb.Row{}
	_, err := c.run(query, bindings, func(query string) error {
		var err error
		rows, err = c.queryRows(ctx, query, bindings, 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Connection) Insert(ctx context.Context, query string, bindings []any) (sql.Result, error) {
	return c.Exec(ctx, query, bindings...)
}

func (c *Connection) Update(ctx context.Context, query string, bindings []any) (sql.Result, error) {
	return c.Exec(ctx, query, bindings...)
}

func (c *Connection) Delete(ctx context.Context, query string, bindings []any) (sql.Result, error) {
	return c.Exec(ctx, query, bindings...)
}

// Exec runs a statement returning no rows, such as DDL.
func (c *Connection) Exec(ctx context.Context, query string, bindings ...any) (sql.Result, error) {
	var res sql.Result
	pretended, err := c.run(query, bindings, func(query string) error {
		var err error
		res, err = c.db.ExecContext(ctx, query, bindings...)
		return err
	})
	if err != nil {
		return nil, err
	}
	if pretended {
		return pretendResult{}, nil
	}
	return res, nil
}

// Raw runs query and returns the rows as positional values.
func (c *Connection) Raw(ctx context.Context, query string, bindings ...any) ([][]any, error) {
	out := [][]any{}
	_, err := c.run(query, bindings, func(query string) error {
		rows, err := c.db.QueryContext(ctx, query, bindings...)
		if err != nil {
			return err
		}
		defer rows.Close()
		columns, err := rows.Columns()
		if err != nil {
			return err
		}
		for rows.Next() {
			values, err := scanValues(rows, len(columns))
			if err != nil {
				return err
			}
			out = append(out, values)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// queryRows reads at most limit rows, every row when limit is 0.
func (c *Connection) queryRows(ctx context.Context, query string, bindings []any, limit int) ([]qb.Row, error) {
	rows, err := c.db.QueryContext(ctx, query, bindings...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []qb.Row{}
	for rows.Next() {
		values, err := scanValues(rows, len(columns))
		if err != nil {
			return nil, err
		}
		row := make(qb.Row, len(columns))
		for i, column := range columns {
			row[column] = values[i]
		}
		out = append(out, row)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, rows.Err()
}

// scanValues scans the current row. Text returned as []byte is converted to
// string.
func scanValues(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

type pretendResult struct{}

func (pretendResult) LastInsertId() (int64, error) { return 0, nil }
func (pretendResult) RowsAffected() (int64, error) { return 0, nil }
