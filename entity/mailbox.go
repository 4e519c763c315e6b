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

import (
	"sync"
	"sync/atomic"

	gods "github.com/Workiva/go-datastructures/queue"

	serrors "github.com/tochemey/silo/errors"
)

// CacheLinePadding prevents false sharing between the head and the tail of
// the mailbox.
type CacheLinePadding [64]byte

// Mailbox is the per-entity operation queue. Enqueue is safe for concurrent
// producers; Dequeue must only be called by the single consumer goroutine
// owned by the entity. FIFO ordering is preserved.
type Mailbox interface {
	// Enqueue places the given invocation in the mailbox. It returns an
	// error when the mailbox cannot accept it.
	Enqueue(invocation *invocation) error
	// Dequeue removes and returns the next invocation. It returns nil when
	// the mailbox is empty.
	Dequeue() *invocation
	// Len returns the current number of queued invocations.
	Len() int64
	// IsEmpty reports whether the mailbox currently holds no invocations.
	IsEmpty() bool
	// Dispose releases resources held by the mailbox.
	Dispose()
}

type node struct {
	value atomic.Pointer[invocation]
	next  atomic.Pointer[node]
}

var nodePool = sync.Pool{New: func() any { return new(node) }}

// UnboundedMailbox is a lock-free MPSC FIFO queue. It is the default mailbox
// for entities.
type UnboundedMailbox struct {
	head atomic.Pointer[node]
	_    CacheLinePadding
	tail atomic.Pointer[node]
	_    CacheLinePadding
	len  atomic.Int64
}

// enforce compilation error
var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates an instance of UnboundedMailbox.
func NewUnboundedMailbox() *UnboundedMailbox {
	item := new(node)
	mailbox := &UnboundedMailbox{}
	mailbox.head.Store(item)
	mailbox.tail.Store(item)
	return mailbox
}

// Enqueue places the given invocation at the tail of the mailbox.
func (m *UnboundedMailbox) Enqueue(value *invocation) error {
	n := nodePool.Get().(*node)
	n.value.Store(value)
	n.next.Store(nil)

	prev := m.tail.Swap(n)
	prev.next.Store(n)
	m.len.Add(1)
	return nil
}

// Dequeue removes and returns the next invocation from the mailbox. It
// returns nil when the mailbox is empty. Single consumer only.
func (m *UnboundedMailbox) Dequeue() *invocation {
	head := m.head.Load()
	next := head.next.Load()
	if next == nil {
		return nil
	}

	m.head.Store(next)
	value := next.value.Load()
	next.value.Store(nil)
	m.len.Add(-1)

	head.next.Store(nil)
	head.value.Store(nil)
	nodePool.Put(head)
	return value
}

// Len returns the current number of invocations in the mailbox.
func (m *UnboundedMailbox) Len() int64 {
	return m.len.Load()
}

// IsEmpty reports whether the mailbox currently holds no invocations.
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.Len() == 0
}

// Dispose is a no-op for the unbounded mailbox.
func (m *UnboundedMailbox) Dispose() {}

// BoundedMailbox is a bounded MPSC mailbox backed by a ring buffer. Enqueue
// fails fast with ErrMailboxFull once the buffer is at capacity, giving
// callers immediate backpressure instead of unbounded queue growth.
type BoundedMailbox struct {
	underlying *gods.RingBuffer
}

// enforce compilation error
var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a new bounded mailbox with the given capacity.
// Capacity must be a positive integer.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	return &BoundedMailbox{
		underlying: gods.NewRingBuffer(uint64(capacity)),
	}
}

// Enqueue inserts an invocation into the mailbox. It returns ErrMailboxFull
// when the mailbox has reached its capacity.
func (m *BoundedMailbox) Enqueue(value *invocation) error {
	ok, err := m.underlying.Offer(value)
	if err != nil {
		return err
	}
	if !ok {
		return serrors.ErrMailboxFull
	}
	return nil
}

// Dequeue removes and returns the next invocation from the mailbox. It
// returns nil when the mailbox is empty. Single consumer only.
func (m *BoundedMailbox) Dequeue() *invocation {
	if m.underlying.Len() > 0 {
		item, _ := m.underlying.Get()
		if v, ok := item.(*invocation); ok {
			return v
		}
	}
	return nil
}

// Len returns the current number of invocations in the mailbox.
func (m *BoundedMailbox) Len() int64 {
	return int64(m.underlying.Len())
}

// IsEmpty reports whether the mailbox currently holds no invocations.
func (m *BoundedMailbox) IsEmpty() bool {
	return m.underlying.Len() == 0
}

// Dispose releases resources held by the underlying ring buffer and unblocks
// any internal waiters. Do not use the mailbox after calling Dispose.
func (m *BoundedMailbox) Dispose() {
	m.underlying.Dispose()
}
