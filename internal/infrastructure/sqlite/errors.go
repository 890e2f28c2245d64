package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"habitlog-service/internal/domain/repository"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// wrapError classifies driver errors into repository sentinels
func wrapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %v", op, repository.ErrUniqueViolation, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w: %v", op, repository.ErrForeignKeyViolation, err)
		}

		// primary result code only, when extended codes are off
		if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := sqliteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return fmt.Errorf("%s: %w: %v", op, repository.ErrUniqueViolation, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return fmt.Errorf("%s: %w: %v", op, repository.ErrForeignKeyViolation, err)
			}
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
