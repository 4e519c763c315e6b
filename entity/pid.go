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
	"runtime"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/internal/types"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/passivation"
	"github.com/tochemey/silo/persistence"
)

// processing loop states
const (
	// idle means there is no processing loop goroutine running
	idle int32 = iota
	// busy means a processing loop goroutine is draining the mailbox
	busy
)

// entity lifecycle states
const (
	// absent means the entity holds no in-memory state
	absent int32 = iota
	// activating means the entity is loading its snapshot
	activating
	// active means the entity is resident and handling operations
	active
	// deactivating means the entity is being removed from memory
	deactivating
	// suspended means the in-memory state is no longer trusted and the
	// entity must be rebuilt from the store before handling anything else
	suspended
	// halted is terminal: the process has left the arena and a fresh one
	// must be created to serve the identity again
	halted
)

// deactivateEntity is the control operation that takes an entity out of
// memory through its own mailbox, after every previously queued operation
// has been handled.
type deactivateEntity struct {
	reason string
}

// OperationName implements Operation.
func (d *deactivateEntity) OperationName() string { return "deactivate" }

// pid is the runtime shell of a single resident entity. It owns the mailbox,
// the lifecycle state and the persisted version counter.
type pid struct {
	entity   Entity
	factory  Factory
	identity *Identity
	mailbox  Mailbox

	// removed closes once the entity has fully left memory. Callers that catch
	// the process mid-deactivation wait on it before activating afresh.
	removed chan types.Unit

	latestReceiveTime atomic.Time
	processedCount    atomic.Int64

	engine *Engine

	// specifies the logger to use
	logger log.Logger

	// atomic flag indicating whether the entity is processing operations
	processing atomic.Int32

	// lifecycle state of the entity
	state atomic.Int32

	// version of the latest persisted snapshot. Zero means no snapshot has
	// been written yet.
	version atomic.Uint64

	config *kindConfig
}

// enforce compilation error
var _ passivationParticipant = (*pid)(nil)

func newPID(identity *Identity, factory Factory, engine *Engine, config *kindConfig) *pid {
	var mailbox Mailbox
	if config.mailboxCapacity > 0 {
		mailbox = NewBoundedMailbox(config.mailboxCapacity)
	} else {
		mailbox = NewUnboundedMailbox()
	}

	process := &pid{
		entity:   factory(),
		factory:  factory,
		identity: identity,
		mailbox:  mailbox,
		removed:  make(chan types.Unit),
		engine:   engine,
		logger:   engine.Logger(),
		config:   config,
	}

	process.processing.Store(idle)
	process.state.Store(absent)
	return process
}

// activate loads the latest snapshot from the store and brings the entity
// into memory. A suspended entity is rebuilt from a blank instance first so
// that no untrusted in-memory state survives.
func (pid *pid) activate(ctx context.Context) error {
	from := pid.state.Load()
	switch {
	case from == active:
		return nil
	case from == deactivating, from == halted:
		return serrors.ErrEntityNotActive
	case !pid.state.CompareAndSwap(from, activating):
		if pid.state.Load() == active {
			return nil
		}
		return serrors.ErrEntityNotActive
	}

	if from == suspended {
		pid.entity = pid.factory()
	}

	logger := pid.logger
	logger.Infof("activating entity (%s)...", pid.identity.String())

	retries := pid.config.activationMaxRetries
	timeout := pid.config.activationTimeout

	cctx, cancel := context.WithTimeout(ctx, time.Duration(retries+1)*timeout)
	defer cancel()

	retrier := retry.NewRetrier(retries, timeout, timeout)
	if err := retrier.RunContext(cctx, func(ctx context.Context) error {
		record, err := pid.engine.loadRecord(ctx, pid.identity)
		if err != nil {
			return err
		}

		var snapshot []byte
		var version uint64
		if record != nil {
			snapshot = record.Data
			version = record.Version
		}

		if err := pid.entity.Activate(ctx, snapshot); err != nil {
			return err
		}

		pid.version.Store(version)
		return nil
	}); err != nil {
		pid.state.Store(from)
		pid.engine.countActivation(pid.identity, err)
		logger.Errorf("entity (%s) activation failed: %v", pid.identity.String(), err)
		return serrors.NewErrActivationFailure(err)
	}

	pid.state.Store(active)
	pid.markActivity(time.Now())
	pid.startPassivation()
	pid.engine.countActivation(pid.identity, nil)
	pid.engine.publishActivated(pid.identity)

	logger.Infof("entity (%s) successfully activated", pid.identity.String())
	return nil
}

// deactivate removes the entity from memory. It only ever runs on the
// processing goroutine (deactivation rides the mailbox as a control
// operation) so the hook can never race a handler. The snapshot is already
// durable at this point because every mutation persists before it is
// acknowledged; a failing deactivation hook is logged and removal proceeds.
func (pid *pid) deactivate(ctx context.Context, reason string) error {
	if !pid.state.CompareAndSwap(active, deactivating) {
		return nil
	}

	logger := pid.logger
	logger.Infof("deactivating entity (%s)...", pid.identity.String())

	pid.unregisterPassivation()
	pid.drainMailbox()
	pid.engine.removeEntity(pid.identity)

	if err := pid.runDeactivateHook(ctx); err != nil {
		logger.Errorf("entity (%s) deactivation hook failed: %v", pid.identity.String(), err)
	}

	pid.state.Store(halted)
	pid.latestReceiveTime.Store(time.Time{})
	close(pid.removed)
	pid.engine.countDeactivation(pid.identity)
	pid.engine.publishDeactivated(pid.identity, reason)

	logger.Infof("entity (%s) successfully deactivated", pid.identity.String())
	return nil
}

// drainMailbox fails every invocation queued behind the deactivation so the
// callers retry against a fresh activation instead of waiting out their
// deadlines.
func (pid *pid) drainMailbox() {
	for {
		received := pid.mailbox.Dequeue()
		if received == nil {
			return
		}
		received.Err(serrors.ErrEntityNotActive)
		releaseInvocation(received)
	}
}

// runDeactivateHook shields the removal sequence from a panicking hook.
func (pid *pid) runDeactivateHook(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deactivation hook panic: %v", r)
		}
	}()
	return pid.entity.Deactivate(ctx)
}

// awaitRemoval blocks until a deactivating entity has fully left memory.
func (pid *pid) awaitRemoval(ctx context.Context) error {
	select {
	case <-pid.removed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isActive returns true when the entity is resident and ready to handle
// operations.
func (pid *pid) isActive() bool {
	return pid != nil && pid.state.Load() == active
}

// isDeactivating returns true while the entity is being torn down.
func (pid *pid) isDeactivating() bool {
	return pid != nil && pid.state.Load() == deactivating
}

// isHalted returns true once the entity process is terminally gone.
func (pid *pid) isHalted() bool {
	return pid != nil && pid.state.Load() == halted
}

// currentVersion returns the version of the latest persisted snapshot.
func (pid *pid) currentVersion() uint64 {
	return pid.version.Load()
}

// receive pushes a given invocation to the entity mailbox and signals the
// processing loop.
func (pid *pid) receive(invocation *invocation) error {
	if !pid.isActive() {
		return serrors.ErrEntityNotActive
	}
	if err := pid.mailbox.Enqueue(invocation); err != nil {
		return err
	}
	pid.process()
	return nil
}

// process drains the mailbox on a dedicated goroutine. Only one loop runs at
// a time per entity; it exits once the mailbox is empty.
func (pid *pid) process() {
	// Only start a processing loop when transitioning from idle -> busy.
	// If another loop is already running (state is busy), exit early.
	if !pid.processing.CompareAndSwap(idle, busy) {
		return
	}

	go func() {
		var received *invocation
		for {
			if received != nil {
				releaseInvocation(received)
			}

			if received = pid.mailbox.Dequeue(); received != nil {
				switch received.operation.(type) {
				case *deactivateEntity:
					pid.handleDeactivate(received)
				default:
					pid.handleInvocation(received)
				}
			}

			// if no more invocations, change busy state to idle
			pid.processing.Store(idle)

			// Check whether new invocations were added in the meantime and
			// restart processing
			if !pid.mailbox.IsEmpty() && pid.processing.CompareAndSwap(idle, busy) {
				continue
			}

			return
		}
	}()
}

func (pid *pid) handleDeactivate(received *invocation) {
	defer pid.recovery(received)
	control := received.operation.(*deactivateEntity)
	if err := pid.deactivate(received.ctx, control.reason); err != nil {
		received.Err(err)
		return
	}
	received.Respond(nil)
}

func (pid *pid) handleInvocation(received *invocation) {
	defer pid.recovery(received)

	// the caller may have given up while the operation sat in the mailbox;
	// an operation that never started is dropped, not executed
	if received.abandoned() || received.ctx.Err() != nil {
		pid.engine.countExpired(pid.identity)
		return
	}

	if !pid.isActive() {
		received.Err(serrors.ErrEntityNotActive)
		return
	}

	pid.markActivity(time.Now())
	started := time.Now()

	response, mutated, err := pid.entity.Handle(received.ctx, received.operation)
	if err != nil {
		pid.engine.observeOperation(pid.identity, started, err)
		pid.reportFailure(received, err)
		return
	}

	if mutated {
		if err := pid.persistState(received.ctx); err != nil {
			pid.engine.observeOperation(pid.identity, started, err)
			pid.reportFailure(received, err)
			pid.suspend(err.Error())
			return
		}
	}

	pid.processedCount.Inc()
	pid.engine.observeOperation(pid.identity, started, nil)
	received.Respond(response)
	pid.engine.passivationManager.OperationProcessed(pid)
}

// persistState snapshots the in-memory state and saves it under the next
// version. The caller may already be gone; the write still has to complete,
// hence the detached context.
func (pid *pid) persistState(ctx context.Context) error {
	snapshot, err := pid.entity.Snapshot()
	if err != nil {
		return serrors.NewInternalError(err)
	}

	record := &persistence.Record{
		Key:  persistence.NewKey(pid.identity.Kind(), pid.identity.Name()),
		Data: snapshot,
	}

	newVersion, err := pid.engine.saveRecord(context.WithoutCancel(ctx), record, pid.version.Load())
	if err != nil {
		return err
	}

	pid.version.Store(newVersion)
	return nil
}

// reportFailure hands the error to the caller when one is waiting, and logs
// it otherwise.
func (pid *pid) reportFailure(received *invocation, err error) {
	if !received.synchronous {
		pid.logger.Warnf("entity (%s) operation=(%s) failed: %v", pid.identity.String(), received.operation.OperationName(), err)
	}
	received.Err(err)
}

// suspend takes the entity out of service without touching the store. The
// in-memory state is discarded on the next activation, which rebuilds the
// instance from the last persisted snapshot.
func (pid *pid) suspend(reason string) {
	if !pid.state.CompareAndSwap(active, suspended) {
		return
	}
	pid.unregisterPassivation()
	pid.logger.Warnf("entity (%s) suspended: %s", pid.identity.String(), reason)
	pid.engine.publishSuspended(pid.identity, reason)
}

// recovery is called after an invocation is processed
func (pid *pid) recovery(received *invocation) {
	if r := recover(); r != nil {
		switch err, ok := r.(error); {
		case ok:
			var pe *serrors.PanicError
			if stderrors.As(err, &pe) {
				received.Err(pe)
			} else {
				pc, fn, line, _ := runtime.Caller(2)
				received.Err(serrors.NewPanicError(
					fmt.Errorf("%w at %s[%s:%d]", err, runtime.FuncForPC(pc).Name(), fn, line),
				))
			}
		default:
			pc, fn, line, _ := runtime.Caller(2)
			received.Err(serrors.NewPanicError(
				fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line),
			))
		}

		// a panicking handler leaves the in-memory state untrusted
		pid.suspend("handler panic")
	}
}

func (pid *pid) markActivity(at time.Time) {
	pid.latestReceiveTime.Store(at)
	pid.engine.passivationManager.Touch(pid)
}

func (pid *pid) startPassivation() {
	strategy := pid.config.passivationStrategy
	if strategy == nil {
		return
	}
	if _, ok := strategy.(*passivation.LongLivedStrategy); ok {
		return
	}
	pid.engine.passivationManager.Register(pid, strategy)
}

func (pid *pid) unregisterPassivation() {
	pid.engine.passivationManager.Unregister(pid)
}

func (pid *pid) passivationID() string {
	if pid.identity == nil {
		return ""
	}
	return pid.identity.String()
}

func (pid *pid) passivationLatestActivity() time.Time {
	return pid.latestReceiveTime.Load()
}

func (pid *pid) passivationProcessedCount() int64 {
	return pid.processedCount.Load()
}

// passivationTry initiates deactivation for the entity. A false result means
// the attempt could not be queued (full mailbox) and the manager retries
// after the next trigger.
func (pid *pid) passivationTry(reason string) bool {
	if !pid.isActive() {
		return true
	}

	pid.logger.Infof("passivation triggered for entity (%s) (%s)", pid.identity.String(), reason)

	// deactivation rides the mailbox so it runs on the processing goroutine,
	// strictly after every operation already queued
	received := getInvocation().build(context.Background(), pid.identity, &deactivateEntity{reason: reason}, false)
	if err := pid.receive(received); err != nil {
		releaseInvocation(received)
		// an entity that already left the active state needs no sweeping
		return stderrors.Is(err, serrors.ErrEntityNotActive)
	}
	return true
}
