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

import "errors"

// Predefined errors for standard store failure conditions.
//
// These errors provide well-known failure modes for interacting with entity
// state and can be used with errors.Is for reliable type checking. They are
// returned by various operations in the Store interface depending on the
// storage semantics.
var (
	// ErrKeyNotFound indicates that the specified key does not exist in the
	// store.
	//
	// Returned by Load when the requested key is missing. This is not a
	// fatal error; callers typically react by activating the entity with
	// no prior state.
	ErrKeyNotFound = errors.New("key not found")

	// ErrVersionMismatch indicates that a conditional Save failed because
	// the version of the record in the store did not match the expected
	// version supplied by the caller.
	//
	// This implements optimistic concurrency control. It typically means
	// another writer updated the state concurrently, and the operation
	// should be retried after fetching the latest version.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrKeyExists indicates that a create-only Save (expectedVersion zero)
	// failed because the key already exists in the store.
	ErrKeyExists = errors.New("key already exists")

	// ErrStoreClosed indicates that an operation was attempted on a store
	// after Close was called.
	ErrStoreClosed = errors.New("store is closed")
)
