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

// Package persistence defines the storage contract for entity state
// snapshots and the record format shared by all store implementations.
package persistence

// Key uniquely identifies the state of a virtual entity in the store.
//
// Each entity is identified by a combination of its kind (type) and a
// string-based identifier. Two Keys with the same Kind and ID are equal.
type Key struct {
	// Kind is the entity's type or classification, e.g. "product", "cart".
	Kind string
	// ID is the unique string identifier for the entity instance within
	// its kind.
	ID string
}

// NewKey creates a Key from a kind and an id.
func NewKey(kind, id string) Key {
	return Key{Kind: kind, ID: id}
}

// String returns a stable, human-readable representation of the key.
// It is used for logging, diagnostics and as the storage key in
// flat-namespace backends.
func (k Key) String() string {
	return k.Kind + "/" + k.ID
}

// Equal reports whether the current key and the provided key refer to the
// same entity. Equality is based on both Kind and ID.
func (k Key) Equal(other Key) bool {
	return k == other
}
