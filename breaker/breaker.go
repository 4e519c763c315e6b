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

// Package breaker provides a small circuit breaker used to guard store
// round-trips. Consecutive failures open the breaker; an open breaker
// rejects calls immediately until a cooldown elapses, then a bounded number
// of probes decides whether to close it again.
package breaker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tochemey/silo/internal/types"
)

// ErrOpen is returned when the breaker is open and rejects a call.
var ErrOpen = errors.New("circuit breaker is open")

// CircuitBreaker is a thread-safe circuit breaker implementation.
type CircuitBreaker struct {
	_         types.NoCopy
	state     int32 // atomic
	openUntil int64 // unix nano when Open ends

	opts *options

	failures atomic.Int64 // consecutive failures in Closed state
	mu       sync.Mutex   // guards transitions

	// half-open semaphore
	semCh   chan struct{}
	semOnce sync.Once
}

// NewCircuitBreaker constructs a circuit breaker. Invalid option values are
// replaced by sensible defaults.
func NewCircuitBreaker(opts ...Option) *CircuitBreaker {
	o := defaultOptions()
	for _, fn := range opts {
		fn(o)
	}
	o.Sanitize()

	return &CircuitBreaker{
		state: int32(Closed),
		opts:  o,
	}
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() State { return State(atomic.LoadInt32(&b.state)) }

// Execute runs fn if allowed. When the breaker is open, ErrOpen is returned
// without invoking fn. Context cancellation observed before the call starts
// is returned as-is and not counted as a breaker failure.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	if !b.tryAllow() {
		return nil, ErrOpen
	}
	defer b.release()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := fn(ctx)
	if err != nil {
		b.onFailure()
		return nil, err
	}
	b.onSuccess()
	return value, nil
}

// tryAllow returns whether a call is permitted at this moment.
func (b *CircuitBreaker) tryAllow() bool {
	now := b.opts.clock()
	state := b.State()
	if state == Closed {
		return true
	}

	if state == Open {
		if now.UnixNano() < atomic.LoadInt64(&b.openUntil) {
			return false
		}
		b.toHalfOpen()
		// fallthrough to half-open handling
	}

	// Half-open: enforce the probe semaphore
	b.ensureSem()
	select {
	case b.semCh <- struct{}{}:
		return true
	default:
		return false
	}
}

// onSuccess records a successful call.
func (b *CircuitBreaker) onSuccess() {
	b.failures.Store(0)
	if b.State() == HalfOpen {
		b.toClosed()
	}
}

// onFailure records a failed call.
func (b *CircuitBreaker) onFailure() {
	if b.State() == HalfOpen {
		b.toOpen()
		return
	}
	if b.failures.Add(1) >= int64(b.opts.failureThreshold) {
		b.toOpen()
	}
}

func (b *CircuitBreaker) toOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	atomic.StoreInt64(&b.openUntil, b.opts.clock().Add(b.opts.openTimeout).UnixNano())
	atomic.StoreInt32(&b.state, int32(Open))
	b.failures.Store(0)
	b.drainSemLocked()
}

func (b *CircuitBreaker) toHalfOpen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	// another goroutine may have already probed and moved the state
	if State(atomic.LoadInt32(&b.state)) != Open {
		return
	}
	atomic.StoreInt32(&b.state, int32(HalfOpen))
	b.drainSemLocked()
}

func (b *CircuitBreaker) toClosed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	atomic.StoreInt32(&b.state, int32(Closed))
	b.failures.Store(0)
	b.drainSemLocked()
}

func (b *CircuitBreaker) ensureSem() {
	b.semOnce.Do(func() {
		b.semCh = make(chan struct{}, b.opts.halfOpenMaxCalls)
	})
}

// release frees one probe slot if held; non-blocking and safe in every state.
func (b *CircuitBreaker) release() {
	if b.semCh != nil {
		select {
		case <-b.semCh:
		default:
		}
	}
}

func (b *CircuitBreaker) drainSemLocked() {
	if b.semCh == nil {
		return
	}
	for {
		select {
		case <-b.semCh:
		default:
			return
		}
	}
}
