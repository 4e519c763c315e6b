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

// Package passivation defines the strategies deciding when an idle entity
// is deactivated and removed from memory.
package passivation

import (
	"fmt"
	"time"

	"github.com/tochemey/silo/internal/duration"
)

// Strategy defines the contract for passivation strategies in the entity
// runtime. Implementations determine when an entity should be deactivated
// based on specific conditions, such as inactivity or operation count.
type Strategy interface {
	fmt.Stringer
	Name() string
}

// TimeBasedStrategy is a passivation strategy that triggers passivation
// after a specified period of entity inactivity.
type TimeBasedStrategy struct {
	timeout time.Duration
}

// ensure TimeBasedStrategy implements Strategy interface
var _ Strategy = (*TimeBasedStrategy)(nil)

// NewTimeBasedStrategy creates and returns a new TimeBasedStrategy with the
// specified timeout duration.
//
// The timeout defines the period of inactivity after which the entity is
// considered for passivation.
func NewTimeBasedStrategy(timeout time.Duration) *TimeBasedStrategy {
	return &TimeBasedStrategy{
		timeout: timeout,
	}
}

// Timeout returns the timeout duration configured for the TimeBasedStrategy.
func (t *TimeBasedStrategy) Timeout() time.Duration {
	return t.timeout
}

// String returns the string representation of the TimeBasedStrategy.
func (t *TimeBasedStrategy) String() string {
	return fmt.Sprintf("Timed-Based of Duration=[%s]", duration.Format(t.timeout))
}

// Name returns the name of the TimeBasedStrategy.
func (t *TimeBasedStrategy) Name() string {
	return "TimeBased"
}

// OperationsCountBasedStrategy is a passivation strategy that triggers
// passivation once an entity has processed a given number of operations.
type OperationsCountBasedStrategy struct {
	maxOperations int
}

// ensure OperationsCountBasedStrategy implements Strategy interface
var _ Strategy = (*OperationsCountBasedStrategy)(nil)

// NewOperationsCountBasedStrategy creates and returns a new
// OperationsCountBasedStrategy with the specified maximum number of
// operations.
//
// This strategy is useful to bound how long a hot entity stays resident
// regardless of traffic.
func NewOperationsCountBasedStrategy(maxOperations int) *OperationsCountBasedStrategy {
	return &OperationsCountBasedStrategy{
		maxOperations: maxOperations,
	}
}

// MaxOperations returns the configured operations threshold.
func (m *OperationsCountBasedStrategy) MaxOperations() int {
	return m.maxOperations
}

// String returns the string representation of the OperationsCountBasedStrategy.
func (m *OperationsCountBasedStrategy) String() string {
	return fmt.Sprintf("Operations-Count-Based of Count=[%d]", m.maxOperations)
}

// Name returns the name of the OperationsCountBasedStrategy.
func (m *OperationsCountBasedStrategy) Name() string {
	return "OperationsCountBased"
}

// LongLivedStrategy is a passivation strategy that does not trigger
// passivation, allowing entities to remain resident indefinitely.
type LongLivedStrategy struct{}

// ensure LongLivedStrategy implements Strategy interface
var _ Strategy = (*LongLivedStrategy)(nil)

// NewLongLivedStrategy creates and returns a new LongLivedStrategy.
//
// This strategy is used for entities that are expected to remain resident
// for the lifetime of the process, such as registries under constant load.
func NewLongLivedStrategy() *LongLivedStrategy {
	return &LongLivedStrategy{}
}

// String returns the string representation of the LongLivedStrategy.
func (l *LongLivedStrategy) String() string {
	return "Long Lived"
}

// Name returns the name of the LongLivedStrategy.
func (l *LongLivedStrategy) Name() string {
	return "LongLived"
}
