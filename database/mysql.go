package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }

func (mysqlDialect) DSN(cfg Config) string {
	// parseTime so DATETIME/TIMESTAMP columns scan as time.Time and get the
	// fixed-format artifact rendering.
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}

func (mysqlDialect) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (mysqlDialect) Placeholder(int) string { return "?" }

func (mysqlDialect) ColumnsQuery() string {
	return `SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		AND table_name = ?
		ORDER BY ordinal_position`
}

func (mysqlDialect) ExistsQuery() string {
	return `SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		AND table_name = ?`
}

// MySQL keeps the transaction usable after a failed statement, so no
// per-row savepoints are needed.
func (mysqlDialect) RowSavepoint() string { return "" }
func (mysqlDialect) RowRelease() string   { return "" }
func (mysqlDialect) RowRollback() string  { return "" }

func (mysqlDialect) SetFKChecks(ex execer, on bool) error {
	val := 0
	if on {
		val = 1
	}
	_, err := ex.Exec(fmt.Sprintf("SET FOREIGN_KEY_CHECKS = %d", val))
	return err
}

// Classify sorts server errors by SQLSTATE class (22 = data exception,
// 23 = integrity constraint violation), falling back to the error numbers
// older servers report without a state.
func (mysqlDialect) Classify(err error) ErrorKind {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return KindFatal
	}
	state := string(myErr.SQLState[:])
	switch {
	case strings.HasPrefix(state, "22"):
		return KindData
	case strings.HasPrefix(state, "23"):
		return KindIntegrity
	}
	switch myErr.Number {
	case 1264, 1265, 1292, 1366, 1406:
		return KindData
	case 1048, 1062, 1216, 1217, 1451, 1452, 1557, 1586:
		return KindIntegrity
	}
	return KindFatal
}
