package db

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lib/pq"
)

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) DSN(cfg Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Database)
}

func (postgresDialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (postgresDialect) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (postgresDialect) ColumnsQuery() string {
	return `SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		AND table_name = $1
		ORDER BY ordinal_position`
}

func (postgresDialect) ExistsQuery() string {
	return `SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		AND table_name = $1`
}

// A failed statement puts a Postgres transaction into an aborted state
// (every later statement fails with 25P02), so each row gets a savepoint
// and a rejected row is rolled back to it.
const pgRowSavepoint = "dbstash_row"

func (postgresDialect) RowSavepoint() string { return "SAVEPOINT " + pgRowSavepoint }
func (postgresDialect) RowRelease() string   { return "RELEASE SAVEPOINT " + pgRowSavepoint }
func (postgresDialect) RowRollback() string  { return "ROLLBACK TO SAVEPOINT " + pgRowSavepoint }

// SetFKChecks uses session_replication_role, which suspends FK trigger
// enforcement for the session. Requires a sufficiently privileged role.
func (postgresDialect) SetFKChecks(ex execer, on bool) error {
	role := "replica"
	if on {
		role = "origin"
	}
	_, err := ex.Exec("SET session_replication_role = " + role)
	return err
}

func (postgresDialect) Classify(err error) ErrorKind {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return KindFatal
	}
	switch pqErr.Code.Class() {
	case "22":
		return KindData
	case "23":
		return KindIntegrity
	}
	return KindFatal
}
