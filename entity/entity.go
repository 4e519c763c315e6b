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

// Package entity implements a single-writer virtual entity runtime.
//
// An entity is a named unit of state and behavior that lives in memory only
// while it is being used. The engine activates an entity on demand by loading
// its latest snapshot from the configured store, funnels every operation
// addressed to it through a per-entity mailbox so that execution is strictly
// serialized, persists a new snapshot after each mutating operation, and
// deactivates the entity again once it has been idle long enough. Entities
// with different identities execute in parallel; operations on the same
// identity never do.
package entity

import "context"

// Operation is a command addressed to one entity instance. Implementations
// are plain structs carrying the operation payload.
type Operation interface {
	// OperationName returns the stable name of the operation. It is used
	// for logging and to reject operations an entity does not understand.
	OperationName() string
}

// Entity defines the behavioral contract of a virtual entity.
//
// The runtime guarantees that all four methods are invoked from a single
// goroutine at a time, so implementations never need their own locking.
// State held by an implementation is transient: it exists only between
// Activate and Deactivate, and the snapshot is the sole durable form.
type Entity interface {
	// Activate restores the entity from its most recent snapshot. A nil
	// snapshot means no state has ever been persisted for this identity
	// and the entity starts blank. Returning an error aborts activation.
	Activate(ctx context.Context, snapshot []byte) error

	// Handle executes a single operation against the in-memory state.
	// It returns the response for the caller and reports whether the
	// operation mutated state. A mutation triggers a snapshot save before
	// the response is released; when the save fails the mutation is
	// discarded together with the entity instance.
	Handle(ctx context.Context, operation Operation) (response any, mutated bool, err error)

	// Snapshot serializes the current in-memory state. It is called after
	// every mutating operation.
	Snapshot() ([]byte, error)

	// Deactivate is called before the entity is removed from memory. The
	// state has already been persisted at this point; the hook exists to
	// release resources held by the instance.
	Deactivate(ctx context.Context) error
}

// Factory creates a blank Entity instance for a registered kind. The runtime
// calls it on first activation and every time a suspended entity is rebuilt.
type Factory func() Entity
