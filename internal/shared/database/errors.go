package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	moderncsqlite "modernc.org/sqlite"
)

// sqliteConstraint is the primary result code SQLITE_CONSTRAINT. Extended
// codes (e.g. SQLITE_CONSTRAINT_FOREIGNKEY = 787) keep it in the low byte.
const sqliteConstraint = 19

// IsConstraintViolation reports whether err is an integrity constraint
// failure raised by either SQLite driver.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	var mattnErr sqlite3.Error
	if errors.As(err, &mattnErr) {
		return mattnErr.Code == sqlite3.ErrConstraint
	}

	var moderncErr *moderncsqlite.Error
	if errors.As(err, &moderncErr) {
		return moderncErr.Code()&0xff == sqliteConstraint
	}

	return false
}
