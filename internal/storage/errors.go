package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"expenses/internal/core"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// mapError translates SQLite result codes into the domain error taxonomy
// so callers never branch on engine-specific codes. Uniqueness violations
// become ErrDuplicate, foreign-key violations (inserting against a missing
// parent, or deleting a category still referenced by expenses) become
// ErrReferenced, and CHECK failures (payment method outside the enumerated
// set, non-positive amount, month out of range) become ErrConstraint.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w", op, core.ErrDuplicate)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, core.ErrReferenced)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%s: %w", op, core.ErrConstraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
