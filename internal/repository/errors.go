// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow the service layer to tell
// storage outcomes apart without inspecting driver specific errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a unique
// constraint.  The wrapping error names the offending column when known.
var ErrDuplicate = errors.New("duplicate")

// ErrInvalidReference is returned when a foreign key points at a missing
// row, e.g. a profile referencing a housing unit deleted meanwhile.
var ErrInvalidReference = errors.New("invalid reference")

// MySQL error numbers used below.
const (
	mysqlDuplicateEntry  = 1062
	mysqlNoReferencedRow = 1452
)

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlNoReferencedRow
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// duplicateField guesses the column from the driver message.  Both drivers
// include the key or column name ("uq_accounts_email", "accounts.email").
func duplicateField(err error) string {
	msg := strings.ToLower(err.Error())
	if i := strings.LastIndex(msg, "for key"); i >= 0 {
		msg = msg[i:] // mysql: skip the duplicated value itself
	}
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "username"):
		return "username"
	}
	return ""
}

// translate maps driver errors onto the sentinels above.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isDuplicateKey(err):
		if f := duplicateField(err); f != "" {
			return &fieldError{sentinel: ErrDuplicate, Field: f, err: err}
		}
		return ErrDuplicate
	case isForeignKeyViolation(err):
		return ErrInvalidReference
	}
	return err
}

// fieldError attaches the column name to a sentinel.
type fieldError struct {
	sentinel error
	Field    string
	err      error
}

func (e *fieldError) Error() string { return e.sentinel.Error() + ": " + e.Field }
func (e *fieldError) Is(target error) bool { return target == e.sentinel }
func (e *fieldError) Unwrap() error { return e.err }

// DuplicateField returns the column reported by an ErrDuplicate, if any.
func DuplicateField(err error) string {
	var fe *fieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
