package store

import (
	"database/sql"
	"fmt"
)

// checkRowsErr reports errors that surfaced while iterating rows, which
// rows.Next() alone hides (e.g. a connection dropped mid-scan).
func checkRowsErr(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}
