// Package db is the live-connection boundary: connecting, schema
// inspection, reading whole tables and running insert batches, with the
// engine differences kept behind a Dialect.
package db

import (
	"database/sql"
	"errors"
	"fmt"

	"dbstash/store"
)

// Config holds the connection parameters for one side (backup source or
// restore destination).
type Config struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// ErrTableNotFound reports that a named table does not exist on the
// connection.
var ErrTableNotFound = errors.New("table not found")

// ErrorKind classifies insert-time failures. Only data and integrity errors
// are recoverable per row; everything else aborts the batch.
type ErrorKind int

const (
	KindFatal ErrorKind = iota
	KindData
	KindIntegrity
)

func (k ErrorKind) String() string {
	switch k {
	case KindData:
		return "data"
	case KindIntegrity:
		return "integrity"
	default:
		return "fatal"
	}
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Dialect captures what differs between supported engines.
type Dialect interface {
	Name() string
	DSN(cfg Config) string
	Quote(ident string) string
	Placeholder(n int) string
	ColumnsQuery() string
	ExistsQuery() string
	SetFKChecks(ex execer, on bool) error
	Classify(err error) ErrorKind

	// Per-row savepoint statements, for engines where a failed statement
	// aborts the surrounding transaction. All empty when the engine can
	// keep inserting after a failure.
	RowSavepoint() string
	RowRelease() string
	RowRollback() string
}

func dialectFor(driver string) (Dialect, error) {
	switch driver {
	case "", "mysql":
		return mysqlDialect{}, nil
	case "postgres":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

// Conn is one live session. The pool is capped at a single connection so
// session-scoped statements (the foreign-key-check toggle) bind to the
// connection the inserts actually run on.
type Conn struct {
	db      *sql.DB
	dialect Dialect
}

// Connect opens and verifies a connection for the configured engine.
func Connect(cfg Config) (*Conn, error) {
	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(dialect.Name(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", dialect.Name(), err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connecting to %s at %s:%d: %w", cfg.Database, cfg.Host, cfg.Port, err)
	}
	return &Conn{db: sqlDB, dialect: dialect}, nil
}

func (c *Conn) Close() error {
	return c.db.Close()
}

// SelectAll reads every row of a table in server order, preserving the
// result set's column order in each row.
func (c *Conn) SelectAll(table string) (store.RowSet, error) {
	rows, err := c.db.Query("SELECT * FROM " + c.dialect.Quote(table))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}

	out := store.RowSet{}
	values := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row of %s: %w", table, err)
		}
		var row store.Row
		for i, col := range cols {
			row.Set(col, normalize(values[i]))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}
	return out, nil
}

// normalize maps driver scan values to artifact-friendly ones. Text columns
// often scan as []byte.
func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
