package lite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/golobby/lite/qb"

	//Drivers
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var ErrUnknownDriver = errors.New("no dialect matched with driver")

type Config struct {
	// Name registers the database for Get when set through Initialize.
	Name string
	// Driver is one of mysql, postgres, sqlite or sqlite3.
	Driver string
	DSN    string
	// DB is used instead of opening a new pool when set. Dialect is then
	// taken from Dialect, or from Driver.
	DB      *sql.DB
	Dialect *qb.Dialect

	TablePrefix string
	LogLevel    LogLevel
	// Logger overrides the zap logger built from LogLevel.
	Logger   Logger
	Pretend  bool
	QueryLog bool
}

// DB is the entry point: it hands out query builders bound to one
// connection.
type DB struct {
	name    string
	conn    *Connection
	grammar *qb.Grammar
	logger  Logger
}

// Open connects to the database described by conf.
func Open(conf Config) (*DB, error) {
	dialect := conf.Dialect
	if dialect == nil {
		var err error
		dialect, err = getDialect(conf.Driver)
		if err != nil {
			return nil, err
		}
	}

	logger := conf.Logger
	if logger == nil {
		zl, err := newZapLogger(conf.LogLevel)
		if err != nil {
			return nil, err
		}
		logger = zl
	}

	db := conf.DB
	if db == nil {
		var err error
		db, err = sql.Open(dialect.DriverName, conf.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dialect.DriverName, err)
		}
	}

	conn := newConnection(db, dialect, logger)
	if conf.QueryLog {
		conn.EnableQueryLog()
	}
	if conf.Pretend {
		conn.Pretend(true)
	}
	return &DB{
		name:    conf.Name,
		conn:    conn,
		grammar: qb.NewGrammar(dialect).SetTablePrefix(conf.TablePrefix),
		logger:  logger,
	}, nil
}

func getDialect(driver string) (*qb.Dialect, error) {
	switch driver {
	case "mysql":
		return qb.Dialects.MySQL, nil
	case "sqlite", "sqlite3":
		return qb.Dialects.SQLite3, nil
	case "postgres":
		return qb.Dialects.PostgreSQL, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*DB{}
)

// Initialize opens every configuration and registers it under its name.
func Initialize(confs ...Config) error {
	for _, conf := range confs {
		db, err := Open(conf)
		if err != nil {
			return fmt.Errorf("initialize %q: %w", conf.Name, err)
		}
		registryMu.Lock()
		registry[conf.Name] = db
		registryMu.Unlock()
	}
	return nil
}

// Get returns a database registered by Initialize, nil if there is none.
func Get(name string) *DB {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[name]
}

func (db *DB) Name() string {
	return db.name
}

func (db *DB) Connection() *Connection {
	return db.conn
}

func (db *DB) Logger() Logger {
	return db.logger
}

func (db *DB) Close() error {
	return db.conn.db.Close()
}

// Query returns an empty builder.
func (db *DB) Query() *qb.Builder {
	return qb.New(db.conn, qb.WithGrammar(db.grammar))
}

// Table returns a builder selecting from table.
func (db *DB) Table(table string) *qb.Builder {
	return db.Query().From(table)
}

func (db *DB) TableAs(table string, alias string) *qb.Builder {
	return db.Query().FromAs(table, alias)
}

// For returns a builder on the table of entity, see TableOf.
func (db *DB) For(entity any) *qb.Builder {
	return db.Table(TableOf(entity))
}

// Insert inserts entities in one statement into the table of the first one.
func (db *DB) Insert(ctx context.Context, entities ...any) (sql.Result, error) {
	if len(entities) == 0 {
		return nil, qb.ErrNoValues
	}
	return db.For(entities[0]).Insert(ctx, entities...)
}

// Exec runs a statement that returns no rows, such as DDL.
func (db *DB) Exec(ctx context.Context, query string, bindings ...any) (sql.Result, error) {
	return db.conn.Exec(ctx, query, bindings...)
}
