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
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tochemey/silo/breaker"
	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/eventstream"
	"github.com/tochemey/silo/internal/syncmap"
	"github.com/tochemey/silo/internal/timer"
	"github.com/tochemey/silo/internal/validation"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/passivation"
	"github.com/tochemey/silo/persistence"
	"github.com/tochemey/silo/telemetry"
)

// timers is a pool of reusable timers shared by every request in flight.
var timers = timer.NewPool()

// namePattern constrains engine and kind names.
const namePattern = "^[a-zA-Z0-9][a-zA-Z0-9-_]*$"

// entityKind couples a registered factory with the settings every instance
// of the kind is created with.
type entityKind struct {
	factory Factory
	config  *kindConfig
}

// Engine is the single-writer runtime for virtual entities.
//
// Exactly one in-memory instance exists per identity; the engine activates
// instances on demand from the injected store, serializes their operations
// through per-entity mailboxes, persists snapshots after every mutation and
// sweeps idle instances back out of memory. Invocations against distinct
// identities run in parallel.
type Engine struct {
	name   string
	logger log.Logger
	store  persistence.Store

	started atomic.Bool

	// arena holds every resident process; kinds maps kind names to their
	// registered factories
	arena *arena
	kinds *syncmap.SyncMap[string, *entityKind]

	// activationGroup collapses concurrent first invocations of an identity
	// into a single activation
	activationGroup singleflight.Group

	passivationManager *passivationManager
	scheduler          *scheduler
	eventsStream       eventstream.Stream
	breaker            *breaker.CircuitBreaker

	telemetry    *telemetry.Telemetry
	metrics      *telemetry.EntityMetric
	registration metric.Registration

	requestTimeout       time.Duration
	shutdownTimeout      time.Duration
	activationTimeout    time.Duration
	activationMaxRetries int
	mailboxCapacity      int
	passivationStrategy  passivation.Strategy
	breakerOpts          []breaker.Option
}

// NewEngine creates an entity engine backed by the given store. The store is
// borrowed, not owned: the engine never closes it.
func NewEngine(name string, store persistence.Store, opts ...Option) (*Engine, error) {
	if err := validation.
		New(validation.FailFast()).
		AddAssertion(store != nil, "store is required").
		AddValidator(validation.NewEmptyStringValidator("engine name", name)).
		AddValidator(validation.NewPatternValidator(namePattern, name,
			stderrors.New("engine name must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')"))).
		Validate(); err != nil {
		return nil, stderrors.Join(serrors.ErrInvalidArgument, err)
	}

	engine := &Engine{
		name:                 name,
		logger:               log.DefaultLogger,
		store:                store,
		arena:                newArena(),
		kinds:                syncmap.New[string, *entityKind](),
		eventsStream:         eventstream.New(),
		telemetry:            telemetry.New(),
		requestTimeout:       DefaultRequestTimeout,
		shutdownTimeout:      DefaultShutdownTimeout,
		activationTimeout:    DefaultActivationTimeout,
		activationMaxRetries: DefaultActivationMaxRetries,
		passivationStrategy:  passivation.NewTimeBasedStrategy(DefaultPassivateAfter),
	}

	for _, opt := range opts {
		opt(engine)
	}

	if err := validation.
		New(validation.FailFast()).
		AddAssertion(engine.requestTimeout > 0, "request timeout must be positive").
		AddAssertion(engine.shutdownTimeout > 0, "shutdown timeout must be positive").
		AddAssertion(engine.activationTimeout > 0, "activation timeout must be positive").
		AddAssertion(engine.activationMaxRetries > 0, "activation retries must be positive").
		AddAssertion(engine.mailboxCapacity >= 0, "mailbox capacity must not be negative").
		AddAssertion(engine.passivationStrategy != nil, "passivation strategy is required").
		Validate(); err != nil {
		return nil, stderrors.Join(serrors.ErrInvalidArgument, err)
	}

	engine.passivationManager = newPassivationManager(engine.logger)
	engine.scheduler = newScheduler(engine.logger, engine.shutdownTimeout)
	engine.breaker = breaker.NewCircuitBreaker(engine.breakerOpts...)

	metrics, err := telemetry.NewEntityMetric(engine.telemetry.Meter())
	if err != nil {
		return nil, err
	}
	engine.metrics = metrics

	return engine, nil
}

// Start brings the engine online: it verifies the store connection and
// starts the passivation sweeper and the scheduler.
func (x *Engine) Start(ctx context.Context) error {
	if !x.started.CompareAndSwap(false, true) {
		return serrors.ErrEngineAlreadyStarted
	}

	logger := x.logger
	logger.Infof("%s engine starting...", x.name)

	if err := x.store.Ping(ctx); err != nil {
		x.started.Store(false)
		return serrors.NewErrStoreUnavailable(err)
	}

	x.passivationManager.Start(ctx)
	x.scheduler.Start(ctx)

	registration, err := x.telemetry.Meter().RegisterCallback(
		func(_ context.Context, observer metric.Observer) error {
			processes := x.arena.List()
			var queued int64
			for _, process := range processes {
				queued += process.mailbox.Len()
			}
			observer.ObserveInt64(x.metrics.EntitiesCount(), int64(len(processes)))
			observer.ObserveInt64(x.metrics.MailboxSize(), queued)
			return nil
		},
		x.metrics.EntitiesCount(),
		x.metrics.MailboxSize(),
	)
	if err != nil {
		x.started.Store(false)
		return err
	}
	x.registration = registration

	logger.Infof("%s engine successfully started", x.name)
	return nil
}

// Stop drains the engine: the scheduler and the sweeper stop first, then
// every resident entity is deactivated. Deactivation failures are combined
// and logged; the drain always runs to completion. The injected store is
// left open for its owner to close.
func (x *Engine) Stop(ctx context.Context) error {
	if !x.started.CompareAndSwap(true, false) {
		return serrors.ErrEngineNotStarted
	}

	logger := x.logger
	logger.Infof("%s engine stopping...", x.name)

	x.scheduler.Stop(ctx)
	x.passivationManager.Stop(ctx)

	ctx, cancel := context.WithTimeout(ctx, x.shutdownTimeout)
	defer cancel()

	var mu sync.Mutex
	var combined error

	processes := x.arena.List()
	eg := new(errgroup.Group)
	eg.SetLimit(shutdownConcurrency)
	for _, process := range processes {
		eg.Go(func() error {
			_, err := x.deliver(ctx, process, &deactivateEntity{reason: "engine shutdown"}, x.shutdownTimeout)
			if err != nil && !stderrors.Is(err, serrors.ErrEntityNotActive) {
				mu.Lock()
				combined = multierr.Append(combined, fmt.Errorf("entity (%s): %w", process.identity.String(), err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	if combined != nil {
		logger.Errorf("%s engine shutdown drain: %v", x.name, combined)
	}

	x.arena.Reset()
	if x.registration != nil {
		_ = x.registration.Unregister()
	}
	x.eventsStream.Close()

	logger.Infof("%s engine successfully stopped", x.name)
	return nil
}

// Running reports whether the engine has been started and not yet stopped.
func (x *Engine) Running() bool {
	return x.started.Load()
}

// Invoke delivers the operation to the identified entity and waits for its
// response.
//
// The entity is activated on demand; concurrent first invocations share one
// activation. Operations against the same identity execute strictly in
// enqueue order; operations against distinct identities run in parallel.
// When the caller context or the engine request timeout elapses first, the
// invocation is abandoned and an operation that has not started executing
// will never run. An operation already executing runs to completion.
func (x *Engine) Invoke(ctx context.Context, to *Identity, operation Operation) (any, error) {
	if err := x.checkInvocation(to, operation); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		process, err := x.entityOf(ctx, to)
		if err != nil {
			return nil, err
		}

		response, err := x.deliver(ctx, process, operation, x.requestTimeout)
		if stderrors.Is(err, serrors.ErrEntityNotActive) && attempt == 1 {
			// the entity deactivated between lookup and delivery; the next
			// lookup waits out the removal and activates a fresh instance
			continue
		}
		return response, err
	}
}

// InvokeAsync delivers the operation without waiting for its result. The
// operation is detached from the caller context so it survives the caller
// returning; handler failures are logged by the entity process.
func (x *Engine) InvokeAsync(ctx context.Context, to *Identity, operation Operation) error {
	if err := x.checkInvocation(to, operation); err != nil {
		return err
	}

	for attempt := 1; ; attempt++ {
		process, err := x.entityOf(ctx, to)
		if err != nil {
			return err
		}

		received := getInvocation().build(context.WithoutCancel(ctx), process.identity, operation, false)
		err = process.receive(received)
		if err == nil {
			return nil
		}

		releaseInvocation(received)
		if stderrors.Is(err, serrors.ErrEntityNotActive) && attempt == 1 {
			continue
		}
		return err
	}
}

// DeactivateNow takes the identified entity out of memory after every
// operation already queued has been handled. It is a no-op when the entity
// is not resident.
func (x *Engine) DeactivateNow(ctx context.Context, to *Identity) error {
	if !x.started.Load() {
		return serrors.ErrEngineNotStarted
	}
	if to == nil {
		return serrors.ErrInvalidIdentity
	}
	if err := to.Validate(); err != nil {
		return serrors.NewErrInvalidIdentity(err)
	}

	process, ok := x.arena.Get(to.String())
	if !ok {
		return nil
	}

	_, err := x.deliver(ctx, process, &deactivateEntity{reason: "requested"}, x.requestTimeout)
	if stderrors.Is(err, serrors.ErrEntityNotActive) {
		return nil
	}
	return err
}

// RegisterKind registers the factory producing blank instances of the given
// kind. Instances inherit the engine-level mailbox, activation and
// passivation settings unless overridden per kind.
func (x *Engine) RegisterKind(kind string, factory Factory, opts ...KindOption) error {
	if err := validation.
		New(validation.FailFast()).
		AddAssertion(factory != nil, "factory is required").
		AddValidator(validation.NewEmptyStringValidator("kind", kind)).
		AddValidator(validation.NewPatternValidator(namePattern, kind,
			stderrors.New("kind must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')"))).
		Validate(); err != nil {
		return stderrors.Join(serrors.ErrInvalidArgument, err)
	}

	x.kinds.Set(kind, &entityKind{
		factory: factory,
		config:  x.newKindConfig(opts...),
	})
	return nil
}

// DeregisterKind removes the kind registration. Resident instances of the
// kind live on until they passivate; afterwards the kind can no longer be
// activated.
func (x *Engine) DeregisterKind(kind string) {
	x.kinds.Delete(kind)
}

// Kinds returns the registered kind names.
func (x *Engine) Kinds() []string {
	var kinds []string
	x.kinds.Range(func(kind string, _ *entityKind) {
		kinds = append(kinds, kind)
	})
	return kinds
}

// Subscribe returns a subscriber receiving the engine lifecycle events for
// the given topics. Without topics it subscribes to all of them.
func (x *Engine) Subscribe(topics ...string) (eventstream.Subscriber, error) {
	if !x.started.Load() {
		return nil, serrors.ErrEngineNotStarted
	}

	if len(topics) == 0 {
		topics = []string{TopicEntityActivated, TopicEntityDeactivated, TopicEntitySuspended}
	}

	subscriber := x.eventsStream.AddSubscriber()
	for _, topic := range topics {
		x.eventsStream.Subscribe(subscriber, topic)
	}
	return subscriber, nil
}

// Unsubscribe removes the given subscriber from the engine event stream.
func (x *Engine) Unsubscribe(subscriber eventstream.Subscriber) error {
	if !x.started.Load() {
		return serrors.ErrEngineNotStarted
	}

	for _, topic := range subscriber.Topics() {
		x.eventsStream.Unsubscribe(subscriber, topic)
	}
	x.eventsStream.RemoveSubscriber(subscriber)
	return nil
}

// Name returns the engine name.
func (x *Engine) Name() string {
	return x.name
}

// Logger returns the engine logger.
func (x *Engine) Logger() log.Logger {
	return x.logger
}

// Entities returns the identities of every resident entity.
func (x *Engine) Entities() []*Identity {
	processes := x.arena.List()
	identities := make([]*Identity, 0, len(processes))
	for _, process := range processes {
		identities = append(identities, process.identity)
	}
	return identities
}

// EntitiesCount returns the number of resident entities.
func (x *Engine) EntitiesCount() int {
	return x.arena.Len()
}

func (x *Engine) checkInvocation(to *Identity, operation Operation) error {
	if !x.started.Load() {
		return serrors.ErrEngineNotStarted
	}
	if operation == nil {
		return serrors.ErrInvalidOperation
	}
	if to == nil {
		return serrors.ErrInvalidIdentity
	}
	if err := to.Validate(); err != nil {
		return serrors.NewErrInvalidIdentity(err)
	}
	return nil
}

// entityOf resolves the resident process for the identity, activating a new
// instance when none is resident. Concurrent callers of the same identity
// share a single resolution.
func (x *Engine) entityOf(ctx context.Context, to *Identity) (*pid, error) {
	result, err, _ := x.activationGroup.Do(to.String(), func() (any, error) {
		if process, ok := x.arena.Get(to.String()); ok {
			switch {
			case process.isDeactivating():
				// tombstone: wait out the removal, then activate afresh
				if err := process.awaitRemoval(ctx); err != nil {
					return nil, stderrors.Join(err, serrors.ErrRequestTimeout)
				}
			case process.isHalted():
				x.arena.Delete(to.String())
			default:
				if err := x.ensureActive(ctx, to, process); err != nil {
					return nil, err
				}
				return process, nil
			}
		}
		return x.createEntityProcess(ctx, to)
	})
	if err != nil {
		return nil, err
	}
	return result.(*pid), nil
}

// ensureActive reactivates a resident process that suspended or never came
// up. An already-active process is served as-is even when its kind has been
// deregistered since; only reactivation requires a live registration.
func (x *Engine) ensureActive(ctx context.Context, to *Identity, process *pid) error {
	if process.isActive() {
		return nil
	}
	if _, ok := x.kinds.Get(to.Kind()); !ok {
		x.arena.Delete(to.String())
		return serrors.NewErrEntityNotRegistered(to.Kind())
	}
	return process.activate(ctx)
}

func (x *Engine) createEntityProcess(ctx context.Context, to *Identity) (*pid, error) {
	kind, ok := x.kinds.Get(to.Kind())
	if !ok {
		return nil, serrors.NewErrEntityNotRegistered(to.Kind())
	}

	// the process joins the arena before activating so that a passivation
	// firing mid-activation can never orphan it
	process := newPID(to, kind.factory, x, kind.config)
	x.arena.Set(to.String(), process)
	if err := process.activate(ctx); err != nil {
		x.arena.Delete(to.String())
		return nil, err
	}
	return process, nil
}

// deliver enqueues the operation and waits on the reply channels with a
// pooled timer. On timeout the invocation is abandoned; its channels are
// left for the garbage collector because a late handler reply may still
// race the pool.
func (x *Engine) deliver(ctx context.Context, process *pid, operation Operation, timeout time.Duration) (any, error) {
	received := getInvocation().build(ctx, process.identity, operation, true)
	responseCh := received.response
	errCh := received.err

	if err := process.receive(received); err != nil {
		putResponseChannel(responseCh)
		putErrorChannel(errCh)
		releaseInvocation(received)
		return nil, err
	}

	waitTimer := timers.Get(timeout)

	select {
	case response := <-responseCh:
		timers.Put(waitTimer)
		putResponseChannel(responseCh)
		putErrorChannel(errCh)
		return response, nil
	case err := <-errCh:
		timers.Put(waitTimer)
		putResponseChannel(responseCh)
		putErrorChannel(errCh)
		return nil, err
	case <-ctx.Done():
		received.abandon()
		timers.Put(waitTimer)
		return nil, stderrors.Join(ctx.Err(), serrors.ErrRequestTimeout)
	case <-waitTimer.C:
		received.abandon()
		timers.Put(waitTimer)
		return nil, serrors.ErrRequestTimeout
	}
}

// loadRecord reads the latest snapshot through the circuit breaker. A
// missing record is a valid first activation and comes back as nil.
func (x *Engine) loadRecord(ctx context.Context, to *Identity) (*persistence.Record, error) {
	started := time.Now()
	result, err := x.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
		record, err := x.store.Load(ctx, persistence.NewKey(to.Kind(), to.Name()))
		switch {
		case stderrors.Is(err, persistence.ErrKeyNotFound):
			return (*persistence.Record)(nil), nil
		case err != nil:
			return nil, err
		default:
			return record, nil
		}
	})
	x.observeStore(ctx, to.Kind(), "load", started)
	if err != nil {
		return nil, serrors.NewErrStoreUnavailable(err)
	}
	return result.(*persistence.Record), nil
}

// saveRecord writes a snapshot through the circuit breaker. A version
// conflict is returned as a result, not an error: a lost write race says
// nothing about store health and must not trip the breaker.
func (x *Engine) saveRecord(ctx context.Context, record *persistence.Record, expectedVersion uint64) (uint64, error) {
	started := time.Now()
	result, err := x.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
		newVersion, err := x.store.Save(ctx, record, expectedVersion)
		switch {
		case stderrors.Is(err, persistence.ErrVersionMismatch), stderrors.Is(err, persistence.ErrKeyExists):
			return err, nil
		case err != nil:
			return nil, err
		default:
			return newVersion, nil
		}
	})
	x.observeStore(ctx, record.Key.Kind, "save", started)
	if err != nil {
		return 0, serrors.NewErrStoreUnavailable(err)
	}
	if conflict, ok := result.(error); ok {
		return 0, serrors.NewErrVersionConflict(conflict)
	}
	return result.(uint64), nil
}

func (x *Engine) removeEntity(to *Identity) {
	x.arena.Delete(to.String())
}

func (x *Engine) publishActivated(to *Identity) {
	x.eventsStream.Publish(TopicEntityActivated, &EntityActivated{
		Identity:  to,
		Timestamp: time.Now(),
	})
}

func (x *Engine) publishDeactivated(to *Identity, reason string) {
	x.eventsStream.Publish(TopicEntityDeactivated, &EntityDeactivated{
		Identity:  to,
		Reason:    reason,
		Timestamp: time.Now(),
	})
}

func (x *Engine) publishSuspended(to *Identity, reason string) {
	x.eventsStream.Publish(TopicEntitySuspended, &EntitySuspended{
		Identity:  to,
		Reason:    reason,
		Timestamp: time.Now(),
	})
}

func (x *Engine) countActivation(to *Identity, err error) {
	x.metrics.ActivationCount().Add(context.Background(), 1, metric.WithAttributes(
		telemetry.KindAttribute.String(to.Kind()),
		telemetry.OutcomeAttribute.String(outcomeOf(err)),
	))
}

func (x *Engine) countDeactivation(to *Identity) {
	x.metrics.DeactivationCount().Add(context.Background(), 1, metric.WithAttributes(
		telemetry.KindAttribute.String(to.Kind()),
	))
}

func (x *Engine) countExpired(to *Identity) {
	x.logger.Debugf("dropping expired operation for entity (%s)", to.String())
	x.metrics.ExpiredCount().Add(context.Background(), 1, metric.WithAttributes(
		telemetry.KindAttribute.String(to.Kind()),
	))
}

func (x *Engine) observeOperation(to *Identity, started time.Time, err error) {
	ctx := context.Background()
	attributes := metric.WithAttributes(
		telemetry.KindAttribute.String(to.Kind()),
		telemetry.OutcomeAttribute.String(outcomeOf(err)),
	)
	x.metrics.OperationCount().Add(ctx, 1, attributes)
	x.metrics.OperationDuration().Record(ctx, float64(time.Since(started))/float64(time.Millisecond), attributes)
}

func (x *Engine) observeStore(ctx context.Context, kind, call string, started time.Time) {
	x.metrics.StoreDuration().Record(ctx, float64(time.Since(started))/float64(time.Millisecond),
		metric.WithAttributes(
			telemetry.KindAttribute.String(kind),
			telemetry.StoreCallAttribute.String(call),
		))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case stderrors.Is(err, serrors.ErrInvalidArgument):
		return "invalid_argument"
	case stderrors.Is(err, serrors.ErrNotFound):
		return "not_found"
	case stderrors.Is(err, serrors.ErrVersionConflict):
		return "conflict"
	case stderrors.Is(err, serrors.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
