package database

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Open opens the sqlite database with foreign key enforcement on.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases usable in tests and avoids
	// SQLITE_BUSY when handlers write concurrently.
	db.SetMaxOpenConns(1)
	return db, nil
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
