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
	"time"

	"github.com/tochemey/silo/breaker"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/passivation"
	"github.com/tochemey/silo/telemetry"
)

// Option configures the engine at construction time.
type Option func(*Engine)

// WithLogger sets the logger used by the engine and every entity process.
func WithLogger(logger log.Logger) Option {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

// WithPassivation sets the default passivation strategy applied to every
// kind. Pass passivation.NewLongLivedStrategy() to keep entities resident
// forever.
func WithPassivation(strategy passivation.Strategy) Option {
	return func(engine *Engine) {
		engine.passivationStrategy = strategy
	}
}

// WithMailboxCapacity bounds every entity mailbox to the given capacity.
// A full mailbox fails enqueues fast with ErrMailboxFull instead of letting
// a slow entity build an unbounded backlog. Zero keeps mailboxes unbounded.
func WithMailboxCapacity(capacity int) Option {
	return func(engine *Engine) {
		engine.mailboxCapacity = capacity
	}
}

// WithRequestTimeout sets how long an Invoke waits for its response before
// abandoning the operation. The caller context can always shorten the wait.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(engine *Engine) {
		engine.requestTimeout = timeout
	}
}

// WithShutdownTimeout bounds the engine shutdown drain.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(engine *Engine) {
		engine.shutdownTimeout = timeout
	}
}

// WithActivationRetries sets the maximum number of retries when an entity
// activation hits a transient store failure.
func WithActivationRetries(retries int) Option {
	return func(engine *Engine) {
		engine.activationMaxRetries = retries
	}
}

// WithActivationTimeout sets the timeout for a single activation attempt.
func WithActivationTimeout(timeout time.Duration) Option {
	return func(engine *Engine) {
		engine.activationTimeout = timeout
	}
}

// WithTelemetry sets the telemetry providers the engine instruments itself
// with. Defaults to the globally registered OpenTelemetry providers.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(engine *Engine) {
		engine.telemetry = tel
	}
}

// WithBreaker configures the circuit breaker guarding every store
// round-trip.
func WithBreaker(opts ...breaker.Option) Option {
	return func(engine *Engine) {
		engine.breakerOpts = opts
	}
}

// KindOption overrides engine-level settings for a single kind.
type KindOption func(*kindConfig)

// kindConfig carries the settings every instance of a kind is created with.
type kindConfig struct {
	passivationStrategy  passivation.Strategy
	mailboxCapacity      int
	activationTimeout    time.Duration
	activationMaxRetries int
}

// newKindConfig seeds a kind configuration from the engine defaults and
// applies the per-kind overrides.
func (x *Engine) newKindConfig(opts ...KindOption) *kindConfig {
	config := &kindConfig{
		passivationStrategy:  x.passivationStrategy,
		mailboxCapacity:      x.mailboxCapacity,
		activationTimeout:    x.activationTimeout,
		activationMaxRetries: x.activationMaxRetries,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithKindPassivation overrides the passivation strategy for the kind.
func WithKindPassivation(strategy passivation.Strategy) KindOption {
	return func(config *kindConfig) {
		config.passivationStrategy = strategy
	}
}

// WithKindMailboxCapacity overrides the mailbox capacity for the kind.
// Zero keeps the mailbox unbounded.
func WithKindMailboxCapacity(capacity int) KindOption {
	return func(config *kindConfig) {
		config.mailboxCapacity = capacity
	}
}

// WithKindActivationRetries overrides the activation retry count for the
// kind.
func WithKindActivationRetries(retries int) KindOption {
	return func(config *kindConfig) {
		config.activationMaxRetries = retries
	}
}

// WithKindActivationTimeout overrides the single-attempt activation timeout
// for the kind.
func WithKindActivationTimeout(timeout time.Duration) KindOption {
	return func(config *kindConfig) {
		config.activationTimeout = timeout
	}
}
