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
	"context"
	"sync"
	"sync/atomic"
)

// invocationPool recycles invocation envelopes across requests.
var invocationPool = sync.Pool{
	New: func() any {
		return new(invocation)
	},
}

// getInvocation retrieves an invocation from the pool
func getInvocation() *invocation {
	return invocationPool.Get().(*invocation)
}

// releaseInvocation sends the invocation back to the pool
func releaseInvocation(invocation *invocation) {
	invocation.reset()
	invocationPool.Put(invocation)
}

var (
	responsePool = sync.Pool{
		New: func() any {
			return make(chan any, 1)
		},
	}
	errorPool = sync.Pool{
		New: func() any {
			return make(chan error, 1)
		},
	}
)

func getResponseChannel() chan any {
	return responsePool.Get().(chan any)
}

func putResponseChannel(ch chan any) {
	for {
		select {
		case <-ch:
			continue
		default:
			responsePool.Put(ch)
			return
		}
	}
}

func getErrorChannel() chan error {
	return errorPool.Get().(chan error)
}

func putErrorChannel(ch chan error) {
	for {
		select {
		case <-ch:
			continue
		default:
			errorPool.Put(ch)
			return
		}
	}
}

// invocation carries one operation through an entity mailbox together with
// the reply channels the caller is waiting on.
type invocation struct {
	ctx         context.Context
	to          *Identity
	operation   Operation
	response    chan any
	err         chan error
	synchronous bool
	// completed flips exactly once, either when the handler replies or when
	// the caller gives up. A dequeued invocation whose flag is already set
	// must be dropped without running the handler.
	completed atomic.Bool
}

// Context returns the caller context attached to the invocation.
func (i *invocation) Context() context.Context {
	return i.ctx
}

// Operation returns the operation being delivered.
func (i *invocation) Operation() Operation {
	return i.operation
}

// Respond delivers the handler response to the caller. Late responses after
// the caller gave up are dropped.
func (i *invocation) Respond(response any) {
	if !i.completed.CompareAndSwap(false, true) {
		return
	}
	select {
	case i.response <- response:
	default:
	}
}

// Err delivers a handler failure to the caller. Late errors after the caller
// gave up are dropped.
func (i *invocation) Err(err error) {
	if !i.completed.CompareAndSwap(false, true) {
		return
	}
	select {
	case i.err <- err:
	default:
	}
}

// abandon marks the invocation as given up by the caller. It reports whether
// the invocation was still pending.
func (i *invocation) abandon() bool {
	return i.completed.CompareAndSwap(false, true)
}

// abandoned reports whether the invocation is already settled.
func (i *invocation) abandoned() bool {
	return i.completed.Load()
}

// build sets the necessary fields of the invocation. Synchronous invocations
// get reply channels; fire-and-forget ones report nothing back.
func (i *invocation) build(ctx context.Context, to *Identity, operation Operation, synchronous bool) *invocation {
	i.ctx = ctx
	i.to = to
	i.operation = operation
	i.synchronous = synchronous
	i.completed.Store(false)

	if synchronous {
		i.response = getResponseChannel()
		i.err = getErrorChannel()
	}

	return i
}

// reset clears the fields of the invocation before it returns to the pool.
func (i *invocation) reset() {
	i.ctx = nil
	i.to = nil
	i.operation = nil
	i.response = nil
	i.err = nil
	i.synchronous = false
}
