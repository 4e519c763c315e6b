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

const (
	// DefaultPassivateAfter is the default idle duration after which a
	// resident entity is swept out of memory.
	DefaultPassivateAfter = 2 * time.Minute
	// DefaultRequestTimeout is the default duration an Invoke waits for its
	// response.
	DefaultRequestTimeout = 5 * time.Second
	// DefaultActivationTimeout is the default timeout for a single
	// activation attempt.
	DefaultActivationTimeout = time.Second
	// DefaultActivationMaxRetries is the default number of activation
	// attempts before the activation is reported failed.
	DefaultActivationMaxRetries = 5
	// DefaultShutdownTimeout is the default engine shutdown drain bound.
	DefaultShutdownTimeout = time.Minute

	// shutdownConcurrency bounds how many entities deactivate in parallel
	// during the shutdown drain.
	shutdownConcurrency = 16
)
