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

// Package bolt provides a single-file embedded Store implementation backed
// by go.etcd.io/bbolt, with optional Zstandard compression of record data.
package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/tochemey/silo/persistence"
)

const (
	boltFileMode os.FileMode = 0o600
	boltTimeout              = 5 * time.Second
	// value layout: flags(1) | version(8) | timestampMilli(8) | data
	headerSize     = 1 + 8 + 8
	flagCompressed = byte(1)
)

var defaultBoltOptions = &bbolt.Options{Timeout: boltTimeout, NoGrowSync: true}

// Store implements persistence.Store using go.etcd.io/bbolt for durable
// single-node persistence.
//
// Concurrency:
//   - bbolt provides single-writer/multi-reader semantics. The conditional
//     Save runs entirely inside one write transaction, so version checks
//     are atomic. We only guard the close state on top of that.
//
// Layout:
//   - One bucket per entity kind, record id as the bucket key. Values pack
//     a small fixed header (flags, version, timestamp) in front of the
//     serialized state, optionally compressed with Zstandard.
type Store struct {
	db     *bbolt.DB
	path   string
	codec  *codec
	closed atomic.Bool
}

// enforce compilation error
var _ persistence.Store = (*Store)(nil)

// Option configures the bolt store.
type Option func(*Store)

// WithCompression enables Zstandard compression of record data. Compressed
// and uncompressed records can coexist in the same file; reads inspect the
// value header.
func WithCompression() Option {
	return func(s *Store) {
		s.codec = newCodec()
	}
}

// NewStore opens (or creates) a bbolt-backed Store at the given path. The
// database is configured with production defaults (short open timeout,
// NoGrowSync). Closing the store closes the underlying database file.
func NewStore(path string, opts ...Option) (*Store, error) {
	optionsCopy := *defaultBoltOptions
	db, err := bbolt.Open(path, boltFileMode, &optionsCopy)
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	store := &Store{db: db, path: path}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Ping verifies the underlying database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(*bbolt.Tx) error { return nil })
}

// Load retrieves the latest snapshot for the given key.
func (s *Store) Load(ctx context.Context, key persistence.Key) (*persistence.Record, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record *persistence.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(key.Kind))
		if bucket == nil {
			return persistence.ErrKeyNotFound
		}
		value := bucket.Get([]byte(key.ID))
		if value == nil {
			return persistence.ErrKeyNotFound
		}
		decoded, err := s.decodeValue(key, value)
		if err != nil {
			return err
		}
		record = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Save conditionally writes a snapshot. The read-compare-write runs in a
// single bbolt write transaction.
func (s *Store) Save(ctx context.Context, record *persistence.Record, expectedVersion uint64) (uint64, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	newVersion := expectedVersion + 1
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(record.Key.Kind))
		if err != nil {
			return err
		}

		id := []byte(record.Key.ID)
		existing := bucket.Get(id)
		switch {
		case existing == nil && expectedVersion != 0:
			return persistence.ErrVersionMismatch
		case existing != nil && expectedVersion == 0:
			return persistence.ErrKeyExists
		case existing != nil:
			if storedVersion(existing) != expectedVersion {
				return persistence.ErrVersionMismatch
			}
		}

		value, err := s.encodeValue(record.Data, newVersion)
		if err != nil {
			return err
		}
		return bucket.Put(id, value)
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

// Delete removes the snapshot for the given key. Deleting a missing key is
// a no-op.
func (s *Store) Delete(ctx context.Context, key persistence.Key) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(key.Kind))
		if bucket == nil {
			return nil
		}
		return bucket.Delete([]byte(key.ID))
	})
}

// Exists checks whether a snapshot exists for the given key.
func (s *Store) Exists(ctx context.Context, key persistence.Key) (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(key.Kind))
		if bucket == nil {
			return nil
		}
		exists = bucket.Get([]byte(key.ID)) != nil
		return nil
	})
	return exists, err
}

// Close closes the underlying database file.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if s.codec != nil {
		s.codec.close()
	}
	return s.db.Close()
}

func (s *Store) ensureOpen() error {
	if s.closed.Load() {
		return persistence.ErrStoreClosed
	}
	return nil
}

func (s *Store) encodeValue(data []byte, version uint64) ([]byte, error) {
	flags := byte(0)
	payload := data
	if s.codec != nil {
		flags |= flagCompressed
		payload = s.codec.compress(data)
	}

	value := make([]byte, headerSize+len(payload))
	value[0] = flags
	binary.BigEndian.PutUint64(value[1:9], version)
	binary.BigEndian.PutUint64(value[9:17], uint64(time.Now().UnixMilli()))
	copy(value[headerSize:], payload)
	return value, nil
}

func (s *Store) decodeValue(key persistence.Key, value []byte) (*persistence.Record, error) {
	if len(value) < headerSize {
		return nil, fmt.Errorf("corrupted record for key=%s", key.String())
	}

	data := make([]byte, len(value)-headerSize)
	copy(data, value[headerSize:])

	if value[0]&flagCompressed != 0 {
		decompressed, err := s.decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompressing record for key=%s: %w", key.String(), err)
		}
		data = decompressed
	}

	return &persistence.Record{
		Key:            key,
		Data:           data,
		Version:        binary.BigEndian.Uint64(value[1:9]),
		TimestampMilli: binary.BigEndian.Uint64(value[9:17]),
	}, nil
}

// decompress handles compressed records even when the store itself was
// opened without WithCompression.
func (s *Store) decompress(data []byte) ([]byte, error) {
	if s.codec != nil {
		return s.codec.decompress(data)
	}
	codec := newCodec()
	defer codec.close()
	return codec.decompress(data)
}

func storedVersion(value []byte) uint64 {
	if len(value) < headerSize {
		return 0
	}
	return binary.BigEndian.Uint64(value[1:9])
}
