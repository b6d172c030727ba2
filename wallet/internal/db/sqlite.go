// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package db

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

// NewSQLiteStore wraps an existing SQLite handle. The schema must
// already be in place; OpenSQLite is the usual entry point.
func NewSQLiteStore(db *sql.DB) (*SQLStore, error) {
	return newSQLStore(db, dialectSQLite)
}

// OpenSQLite opens (or creates) a SQLite database at the given DSN,
// applies all migrations, and returns the store.
func OpenSQLite(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The driver opens one connection per query by default; a single
	// connection avoids table-lock contention on writes.
	db.SetMaxOpenConns(1)

	if err := ApplySQLiteMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewSQLiteStore(db)
}
