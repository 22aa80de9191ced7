package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"dbstash/store"
)

// RowError is one recoverable per-row insert failure. Key is the row's first
// field value, enough to identify the offending row in logs.
type RowError struct {
	Index int
	Key   interface{}
	Kind  ErrorKind
	Err   error
}

// BatchResult summarizes one table's insert batch.
type BatchResult struct {
	Inserted int
	Failed   []RowError
}

// InsertSQL builds the parameterized insert statement for a table and an
// ordered field list, using the dialect's identifier quoting and positional
// placeholders.
func (c *Conn) InsertSQL(table string, fields []string) string {
	quoted := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = c.dialect.Quote(f)
		placeholders[i] = c.dialect.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.dialect.Quote(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "))
}

// InsertBatch inserts every row with one prepared statement inside a single
// unit of work. Foreign-key checks are disabled for the duration of the
// batch, so tables can be restored out of dependency order, and re-enabled
// when the batch releases. Rows failing with a data or integrity error are
// collected in the result and the loop continues; any other failure rolls
// the batch back and is returned. On engines where a failed statement
// aborts the whole transaction, each row runs inside a savepoint so a
// rejected row rolls back alone.
func (c *Conn) InsertBatch(table string, fields []string, rows store.RowSet) (BatchResult, error) {
	var res BatchResult

	if err := c.dialect.SetFKChecks(c.db, false); err != nil {
		return res, fmt.Errorf("disabling foreign key checks: %w", err)
	}
	defer func() {
		if err := c.dialect.SetFKChecks(c.db, true); err != nil {
			slog.Warn("re-enabling foreign key checks", "table", table, "error", err)
		}
	}()

	savepoint := c.dialect.RowSavepoint()
	err := c.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(c.InsertSQL(table, fields))
		if err != nil {
			return fmt.Errorf("preparing insert for %s: %w", table, err)
		}
		defer stmt.Close()

		for i := range rows {
			args := make([]interface{}, len(fields))
			for j, f := range fields {
				args[j], _ = rows[i].Get(f)
			}
			if savepoint != "" {
				if _, err := tx.Exec(savepoint); err != nil {
					return fmt.Errorf("starting row savepoint: %w", err)
				}
			}
			if _, err := stmt.Exec(args...); err != nil {
				kind := c.dialect.Classify(err)
				if kind != KindData && kind != KindIntegrity {
					return fmt.Errorf("inserting into %s: %w", table, err)
				}
				if savepoint != "" {
					if _, err := tx.Exec(c.dialect.RowRollback()); err != nil {
						return fmt.Errorf("recovering after rejected row: %w", err)
					}
				}
				res.Failed = append(res.Failed, RowError{Index: i, Key: args[0], Kind: kind, Err: err})
				continue
			}
			if savepoint != "" {
				if _, err := tx.Exec(c.dialect.RowRelease()); err != nil {
					return fmt.Errorf("releasing row savepoint: %w", err)
				}
			}
			res.Inserted++
		}
		return nil
	})
	return res, err
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (c *Conn) withTx(fn func(*sql.Tx) error) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	committed = true
	return nil
}
