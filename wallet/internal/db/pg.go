// Copyright (c) 2025 The chiasuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package db

import (
	"database/sql"
	"fmt"

	// Registers the "pgx" driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPostgresStore wraps an existing PostgreSQL handle. The schema must
// already be in place; OpenPostgres is the usual entry point.
func NewPostgresStore(db *sql.DB) (*SQLStore, error) {
	return newSQLStore(db, dialectPostgres)
}

// OpenPostgres connects to a PostgreSQL database, applies all
// migrations, and returns the store.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := ApplyPostgresMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewPostgresStore(db)
}
