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

package persistence

import "context"

// Store defines the core interface for persisting and retrieving entity
// state snapshots.
//
// It serves as the primary persistence layer for the virtual entity runtime.
// Implementations must be thread-safe and capable of handling concurrent
// access across multiple entity instances.
//
// The interface is backend-agnostic and can be implemented using various
// storage engines, including:
//
//   - In-memory stores for testing or ephemeral state
//   - Embedded key-value files for single-node durability
//   - Redis for low-latency, high-throughput state
//   - MySQL or similar relational engines for transactional persistence
type Store interface {
	// Ping verifies a connection to the store, establishing a connection
	// if necessary.
	Ping(ctx context.Context) error

	// Load retrieves the latest state snapshot for the given key.
	//
	// Returns ErrKeyNotFound if the key is not present in the store.
	// The returned Record includes all metadata such as version and the
	// last write timestamp.
	Load(ctx context.Context, key Key) (*Record, error)

	// Save conditionally writes a state snapshot.
	//
	// expectedVersion is the version the writer last observed; zero means
	// the key must not exist yet. On success the new version
	// (expectedVersion + 1) is returned. When the stored version differs
	// from expectedVersion the write is rejected with ErrVersionMismatch
	// and the store is left unchanged.
	//
	// The record's Version field is ignored on input; implementations set
	// it from expectedVersion + 1.
	Save(ctx context.Context, record *Record, expectedVersion uint64) (uint64, error)

	// Delete removes the state snapshot for the given key.
	//
	// The operation is idempotent: deleting a non-existent key is a no-op.
	Delete(ctx context.Context, key Key) error

	// Exists checks whether a snapshot exists without loading its contents.
	//
	// This is more efficient than Load when only presence is needed, as it
	// avoids deserializing or transferring large payloads.
	Exists(ctx context.Context, key Key) (bool, error)

	// Close releases any resources held by the store. The store must not
	// be used after Close returns.
	Close() error
}
