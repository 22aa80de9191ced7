package db

import "fmt"

// TableExists reports whether the named table is defined on this connection.
func (c *Conn) TableExists(table string) (bool, error) {
	var count int
	if err := c.db.QueryRow(c.dialect.ExistsQuery(), table).Scan(&count); err != nil {
		return false, fmt.Errorf("checking table %s: %w", table, err)
	}
	return count > 0, nil
}

// Columns returns the column names of a table in ordinal position order,
// fetched fresh from the live schema. Returns ErrTableNotFound when the
// table has no columns, which is how information_schema reports absence.
func (c *Conn) Columns(table string) ([]string, error) {
	rows, err := c.db.Query(c.dialect.ColumnsQuery(), table)
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column name: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("describing %s: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}
	return cols, nil
}
