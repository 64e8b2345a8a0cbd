// Package store persists catalog items and quote documents in SQLite.
package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

const timeLayout = "2006-01-02 15:04:05"

// Store wraps the application database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New returns a Store over an opened and migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}
