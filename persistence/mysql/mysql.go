// MIT License
//
// Copyright (c) 2026 Arsene Tochemey Gandote
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package mysql provides a Store implementation backed by MySQL through
// database/sql. Conditional saves use version-guarded statements so the
// compare-and-set happens server-side.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/tochemey/silo/persistence"
)

// duplicate primary key error number, see
// https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const errDuplicateEntry = 1062

const createTableStatement = `
CREATE TABLE IF NOT EXISTS states (
	kind VARCHAR(191) NOT NULL,
	id VARCHAR(191) NOT NULL,
	data LONGBLOB NOT NULL,
	version BIGINT UNSIGNED NOT NULL,
	updated_at BIGINT UNSIGNED NOT NULL,
	PRIMARY KEY (kind, id)
)`

// Store implements persistence.Store on top of a MySQL database. The states
// table holds one row per entity keyed by (kind, id).
type Store struct {
	db *sql.DB
}

// enforce compilation error
var _ persistence.Store = (*Store)(nil)

// NewStore creates a Store from an existing database handle. The caller
// keeps ownership of pool configuration; Close closes the handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the states table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableStatement); err != nil {
		return fmt.Errorf("creating states table: %w", err)
	}
	return nil
}

// Ping verifies the connection to the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load retrieves the latest snapshot for the given key.
func (s *Store) Load(ctx context.Context, key persistence.Key) (*persistence.Record, error) {
	record := &persistence.Record{Key: key}
	err := s.db.QueryRowContext(ctx,
		`SELECT data, version, updated_at FROM states WHERE kind = ? AND id = ?`,
		key.Kind, key.ID,
	).Scan(&record.Data, &record.Version, &record.TimestampMilli)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying state: %w", err)
	}
	return record, nil
}

// Save conditionally writes a snapshot. Inserts run create-only; updates are
// guarded by the expected version and report a mismatch when no row matched.
func (s *Store) Save(ctx context.Context, record *persistence.Record, expectedVersion uint64) (uint64, error) {
	newVersion := expectedVersion + 1
	now := uint64(time.Now().UnixMilli())

	if expectedVersion == 0 {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO states (kind, id, data, version, updated_at) VALUES (?, ?, ?, ?, ?)`,
			record.Key.Kind, record.Key.ID, record.Data, newVersion, now,
		)
		if err != nil {
			var mysqlErr *gomysql.MySQLError
			if errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry {
				return 0, persistence.ErrKeyExists
			}
			return 0, fmt.Errorf("inserting state: %w", err)
		}
		return newVersion, nil
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE states SET data = ?, version = ?, updated_at = ? WHERE kind = ? AND id = ? AND version = ?`,
		record.Data, newVersion, now, record.Key.Kind, record.Key.ID, expectedVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("updating state: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return 0, persistence.ErrVersionMismatch
	}
	return newVersion, nil
}

// Delete removes the snapshot for the given key. Deleting a missing key is
// a no-op.
func (s *Store) Delete(ctx context.Context, key persistence.Key) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM states WHERE kind = ? AND id = ?`, key.Kind, key.ID); err != nil {
		return fmt.Errorf("deleting state: %w", err)
	}
	return nil
}

// Exists checks whether a snapshot exists for the given key.
func (s *Store) Exists(ctx context.Context, key persistence.Key) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM states WHERE kind = ? AND id = ? LIMIT 1`, key.Kind, key.ID,
	).Scan(&one)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying state existence: %w", err)
	}
	return true, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
