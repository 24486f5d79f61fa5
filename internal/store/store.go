// Package store persists users, agency records and newsletter signups
// through database/sql. Queries are written with '?' placeholders and
// rebound for the active dialect.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/suhelali14/SafarWay-sub004/pkg/database"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned on unique key conflicts.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrNotConfigured is returned when the store has no database handle.
	ErrNotConfigured = errors.New("storage is not configured")
	// ErrInvalid wraps field validation failures; the message is user-facing.
	ErrInvalid = errors.New("invalid input")
)

// ValidationError carries a user-facing message and matches ErrInvalid.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Store is the SQL-backed repository shared by all handlers.
type Store struct {
	db  *database.DB
	now func() time.Time
}

// New wraps an open database handle.
func New(db *database.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil || s.db.DB == nil {
		return ErrNotConfigured
	}
	return nil
}

func (s *Store) q(query string) string {
	return s.db.Rebind(query)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func encodeList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeList(raw string) []string {
	var values []string
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}

// isUniqueViolation recognises duplicate-key errors from both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func wrap(op string, err error) error {
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	return fmt.Errorf("%s: %w", op, err)
}
