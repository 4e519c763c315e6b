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
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/tochemey/silo/internal/types"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/passivation"
)

func TestPassivationManagerTimeBasedTrigger(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	triggered := make(chan types.Unit, 1)
	manager.passivateFn = func(*passivationEntry) bool {
		select {
		case triggered <- types.Unit{}:
		default:
		}
		return true
	}

	manager.Start(context.Background())

	timeout := 25 * time.Millisecond
	strategy := passivation.NewTimeBasedStrategy(timeout)
	participant := newMockParticipant("time-based")
	participant.latest.Store(time.Now().Add(-time.Minute))

	manager.Register(participant, strategy)

	select {
	case <-triggered:
	case <-time.After(time.Second):
		t.Fatal("expected time-based passivation to trigger")
	}

	// Ensure that once passivation has completed the entry is removed.
	require.Eventually(t, func() bool {
		manager.mu.Lock()
		defer manager.mu.Unlock()
		_, ok := manager.entries[participant.passivationID()]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestPassivationManagerOperationCountTrigger(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	triggered := make(chan types.Unit, 1)
	manager.passivateFn = func(*passivationEntry) bool {
		select {
		case triggered <- types.Unit{}:
		default:
		}
		return true
	}

	manager.Start(context.Background())

	strategy := passivation.NewOperationsCountBasedStrategy(2)
	participant := newMockParticipant("operation-based")
	manager.Register(participant, strategy)

	// Simulate the entity having processed enough operations to cross the
	// threshold.
	participant.processed.Store(3)
	manager.OperationProcessed(participant)

	select {
	case <-triggered:
	case <-time.After(time.Second):
		t.Fatal("expected operation-count passivation to trigger")
	}

	// Ensure that once passivation has completed the entry is removed.
	require.Eventually(t, func() bool {
		manager.mu.Lock()
		defer manager.mu.Unlock()
		_, ok := manager.entries[participant.passivationID()]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestPassivationManagerOperationCountBelowThreshold(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	var fired atomic.Int32
	manager.passivateFn = func(*passivationEntry) bool {
		fired.Inc()
		return true
	}

	manager.Start(context.Background())

	strategy := passivation.NewOperationsCountBasedStrategy(5)
	participant := newMockParticipant("below-threshold")
	manager.Register(participant, strategy)

	participant.processed.Store(2)
	manager.OperationProcessed(participant)

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, fired.Load(), "expected no passivation below the operation threshold")
}

func TestPassivationManagerRejectedAttemptIsRetried(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	var tries atomic.Int32
	allow := atomic.NewBool(false)
	manager.passivateFn = func(*passivationEntry) bool {
		tries.Inc()
		return allow.Load()
	}

	manager.Start(context.Background())

	timeout := 25 * time.Millisecond
	strategy := passivation.NewTimeBasedStrategy(timeout)
	participant := newMockParticipant("rejected")
	participant.latest.Store(time.Now().Add(-time.Minute))

	manager.Register(participant, strategy)

	// the rejected entry must be rescheduled for another full idle period
	require.Eventually(t, func() bool {
		return tries.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	allow.Store(true)
	require.Eventually(t, func() bool {
		manager.mu.Lock()
		defer manager.mu.Unlock()
		_, ok := manager.entries[participant.passivationID()]
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestPassivationManagerTouchDefersDeadline(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	firedAt := atomic.NewTime(time.Time{})
	manager.passivateFn = func(*passivationEntry) bool {
		firedAt.Store(time.Now())
		return true
	}

	manager.Start(context.Background())

	timeout := 150 * time.Millisecond
	strategy := passivation.NewTimeBasedStrategy(timeout)
	participant := newMockParticipant("touched")
	participant.latest.Store(time.Now())

	manager.Register(participant, strategy)

	// refresh activity before the first deadline elapses
	time.Sleep(50 * time.Millisecond)
	refreshed := time.Now()
	participant.latest.Store(refreshed)
	manager.Touch(participant)

	require.Eventually(t, func() bool {
		return !firedAt.Load().IsZero()
	}, time.Second, 5*time.Millisecond)

	// the deadline is absolute: activity + timeout. A fire before that point
	// means Touch did not reschedule the entry.
	require.False(t, firedAt.Load().Before(refreshed.Add(timeout)),
		"expected passivation to fire only after the refreshed deadline")
}

func TestPassivationManagerPauseAndResume(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	var fired atomic.Int32
	manager.passivateFn = func(*passivationEntry) bool {
		fired.Inc()
		return true
	}

	manager.Start(context.Background())

	strategy := passivation.NewTimeBasedStrategy(500 * time.Millisecond)
	participant := newMockParticipant("paused")
	participant.latest.Store(time.Now())

	manager.Register(participant, strategy)
	manager.Pause(participant)

	// make the entry overdue while paused; it must not fire
	participant.latest.Store(time.Now().Add(-time.Minute))
	time.Sleep(100 * time.Millisecond)
	require.Zero(t, fired.Load(), "expected no passivation while paused")

	require.True(t, manager.Resume(participant))
	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPassivationManagerUnregister(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	var fired atomic.Int32
	manager.passivateFn = func(*passivationEntry) bool {
		fired.Inc()
		return true
	}

	manager.Start(context.Background())

	strategy := passivation.NewTimeBasedStrategy(500 * time.Millisecond)
	participant := newMockParticipant("unregistered")
	participant.latest.Store(time.Now())

	manager.Register(participant, strategy)
	manager.Unregister(participant)

	manager.mu.Lock()
	_, ok := manager.entries[participant.passivationID()]
	manager.mu.Unlock()
	require.False(t, ok, "expected the entry to be removed")

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, fired.Load(), "expected no passivation after unregister")
}

func TestPassivationManagerLongLivedIsIgnored(t *testing.T) {
	manager := newPassivationManager(log.DiscardLogger)
	defer manager.Stop(context.Background())

	manager.Start(context.Background())

	participant := newMockParticipant("long-lived")
	manager.Register(participant, passivation.NewLongLivedStrategy())

	manager.mu.Lock()
	_, ok := manager.entries[participant.passivationID()]
	manager.mu.Unlock()
	require.False(t, ok, "expected long-lived strategies to never be tracked")
}

func TestPassivationManagerStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager := newPassivationManager(log.DiscardLogger)
	manager.Start(context.Background())

	participant := newMockParticipant("stopped")
	participant.latest.Store(time.Now())
	manager.Register(participant, passivation.NewTimeBasedStrategy(time.Minute))

	manager.Stop(context.Background())

	// stopping twice must not panic or block
	manager.Stop(context.Background())
}
