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

// Package timer provides a pool of reusable timers to cut down on allocations
// in hot request paths.
package timer

import (
	"sync"
	"time"
)

// Pool recycles time.Timer instances. Timers handed out by Get are armed and
// must be returned with Put once their channel is no longer read.
type Pool struct {
	pool sync.Pool
}

// NewPool creates a timer pool.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				timer := time.NewTimer(time.Hour)
				timer.Stop()
				return timer
			},
		},
	}
}

// Get returns an armed timer that fires after the given duration.
func (p *Pool) Get(timeout time.Duration) *time.Timer {
	timer := p.pool.Get().(*time.Timer)
	timer.Reset(timeout)
	return timer
}

// Put stops the timer, drains a pending tick if any, and returns it to the
// pool. Callers must not retain the timer after Put.
func (p *Pool) Put(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	p.pool.Put(timer)
}
