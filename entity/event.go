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

package entity

import "time"

// Topics the engine publishes lifecycle events on.
const (
	TopicEntityActivated   = "silo.entities.activated"
	TopicEntityDeactivated = "silo.entities.deactivated"
	TopicEntitySuspended   = "silo.entities.suspended"
)

// EntityActivated is published once an entity is resident and serving.
type EntityActivated struct {
	Identity  *Identity
	Timestamp time.Time
}

// EntityDeactivated is published once an entity has fully left memory.
type EntityDeactivated struct {
	Identity  *Identity
	Reason    string
	Timestamp time.Time
}

// EntitySuspended is published when an entity is quarantined because its
// in-memory state can no longer be trusted. The next invocation rebuilds it
// from the store.
type EntitySuspended struct {
	Identity  *Identity
	Reason    string
	Timestamp time.Time
}
