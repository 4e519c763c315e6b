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

package queue

import "sync"

// minQueueLen is the smallest capacity the ring buffer may have.
// Must be a power of 2 for the bitwise modulus: x % n == x & (n - 1).
const minQueueLen = 16

// Queue is a thread-safe unbounded FIFO backed by a growable ring buffer.
type Queue[T any] struct {
	mu     sync.RWMutex
	nodes  []*T
	head   int
	tail   int
	count  int
	closed bool
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		nodes: make([]*T, minQueueLen),
	}
}

// Push adds an item to the back of the queue. It is safe for concurrent use.
// It returns false when the queue is closed; the item is dropped.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if q.count == len(q.nodes) {
		q.resize()
	}
	q.nodes[q.tail] = &item
	q.tail = (q.tail + 1) & (len(q.nodes) - 1)
	q.count++
	q.mu.Unlock()
	return true
}

// Pop removes the item at the front of the queue. The boolean result is false
// when the queue is empty or closed.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.count == 0 {
		var zero T
		return zero, false
	}
	item := q.nodes[q.head]
	q.nodes[q.head] = nil
	q.head = (q.head + 1) & (len(q.nodes) - 1)
	q.count--
	// shrink once the buffer is only a quarter full
	if len(q.nodes) > minQueueLen && (q.count<<2) == len(q.nodes) {
		q.resize()
	}
	return *item, true
}

// Close closes the queue and discards all buffered entries.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.count = 0
	q.nodes = nil
	q.mu.Unlock()
}

// IsClosed reports whether the queue has been closed. Only a true result has
// a definite meaning since the queue may be closed right after the call.
func (q *Queue[T]) IsClosed() bool {
	q.mu.RLock()
	closed := q.closed
	q.mu.RUnlock()
	return closed
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.RLock()
	count := q.count
	q.mu.RUnlock()
	return count
}

// IsEmpty reports whether the queue holds no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

func (q *Queue[T]) resize() {
	nodes := make([]*T, max(q.count<<1, minQueueLen))
	if q.tail > q.head {
		copy(nodes, q.nodes[q.head:q.tail])
	} else {
		n := copy(nodes, q.nodes[q.head:])
		copy(nodes[n:], q.nodes[:q.tail])
	}
	q.head = 0
	q.tail = q.count
	q.nodes = nodes
}
