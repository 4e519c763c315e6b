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

// Package memory provides an in-memory Store implementation suitable for
// tests and ephemeral single-node deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tochemey/silo/persistence"
)

// Store is an in-memory implementation of persistence.Store.
//
// Records are kept in a mutex-guarded map and deep-copied on both read and
// write so callers can never alias cached state. All data is lost when the
// store is garbage collected or the process exits.
type Store struct {
	mu      sync.RWMutex
	records map[string]*persistence.Record
	closed  bool
}

// enforce compilation error
var _ persistence.Store = (*Store)(nil)

// NewStore creates a new instance of the in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*persistence.Record),
	}
}

// Ping verifies the store is usable.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return persistence.ErrStoreClosed
	}
	return nil
}

// Load retrieves the latest snapshot for the given key.
func (s *Store) Load(_ context.Context, key persistence.Key) (*persistence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, persistence.ErrStoreClosed
	}
	record, ok := s.records[key.String()]
	if !ok {
		return nil, persistence.ErrKeyNotFound
	}
	return record.Copy(), nil
}

// Save conditionally writes a snapshot using optimistic concurrency control.
func (s *Store) Save(_ context.Context, record *persistence.Record, expectedVersion uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, persistence.ErrStoreClosed
	}

	id := record.Key.String()
	existing, ok := s.records[id]
	switch {
	case !ok && expectedVersion != 0:
		return 0, persistence.ErrVersionMismatch
	case ok && expectedVersion == 0:
		return 0, persistence.ErrKeyExists
	case ok && existing.Version != expectedVersion:
		return 0, persistence.ErrVersionMismatch
	}

	saved := record.Copy()
	saved.Version = expectedVersion + 1
	saved.TimestampMilli = uint64(time.Now().UnixMilli())
	s.records[id] = saved
	return saved.Version, nil
}

// Delete removes the snapshot for the given key. Deleting a missing key is
// a no-op.
func (s *Store) Delete(_ context.Context, key persistence.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return persistence.ErrStoreClosed
	}
	delete(s.records, key.String())
	return nil
}

// Exists checks whether a snapshot exists for the given key.
func (s *Store) Exists(_ context.Context, key persistence.Key) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, persistence.ErrStoreClosed
	}
	_, ok := s.records[key.String()]
	return ok, nil
}

// Close marks the store closed and drops all records.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*persistence.Record)
	s.closed = true
	return nil
}

// Len returns the number of stored records. It is mainly useful in tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
