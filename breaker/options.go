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

package breaker

import "time"

// options configures the breaker.
type options struct {
	failureThreshold int           // consecutive failures before opening
	openTimeout      time.Duration // how long to stay open before moving to half-open
	halfOpenMaxCalls int           // concurrent probe calls permitted in half-open
	clock            func() time.Time
}

func defaultOptions() *options {
	return &options{
		failureThreshold: 5,
		openTimeout:      10 * time.Second,
		halfOpenMaxCalls: 1,
		clock:            time.Now,
	}
}

// Sanitize adjusts invalid options to their default values.
func (o *options) Sanitize() {
	if o.failureThreshold < 1 {
		o.failureThreshold = 1
	}
	if o.openTimeout <= 0 {
		o.openTimeout = 10 * time.Second
	}
	if o.halfOpenMaxCalls < 1 {
		o.halfOpenMaxCalls = 1
	}
	if o.clock == nil {
		o.clock = time.Now
	}
}

// Option functional option.
type Option func(*options)

// WithFailureThreshold sets the number of consecutive failures required
// before the circuit breaker opens.
func WithFailureThreshold(n int) Option { return func(o *options) { o.failureThreshold = n } }

// WithOpenTimeout sets the duration the circuit breaker remains open before
// transitioning to the half-open state. This controls how long calls are
// rejected after the breaker opens.
func WithOpenTimeout(d time.Duration) Option { return func(o *options) { o.openTimeout = d } }

// WithHalfOpenMaxCalls sets the maximum number of concurrent probe calls
// permitted when the circuit breaker is in the half-open state. This limits
// the risk of overload during recovery.
func WithHalfOpenMaxCalls(n int) Option { return func(o *options) { o.halfOpenMaxCalls = n } }

// WithClock overrides the time source. Useful in tests.
func WithClock(clock func() time.Time) Option { return func(o *options) { o.clock = clock } }
