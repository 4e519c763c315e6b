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
	cheaps "container/heap"
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/silo/internal/types"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/passivation"
)

// passivationParticipant is what the passivation manager needs from an
// entity process. It is an interface so the scheduling logic can be tested
// without spinning up a full engine.
type passivationParticipant interface {
	// passivationID returns a stable key for map lookups
	passivationID() string
	// passivationLatestActivity returns the timestamp of the last handled operation
	passivationLatestActivity() time.Time
	// passivationProcessedCount returns the number of operations handled so far
	passivationProcessedCount() int64
	// passivationTry initiates the deactivation and reports whether it was
	// accepted. A false return means the attempt must be rescheduled.
	passivationTry(reason string) bool
}

// passivationManager centralizes idle-entity sweeping for the whole engine.
//   - Time-based strategies register an absolute deadline and are tracked in a
//     min-heap so the manager always fires the next expiring entity with
//     O(log n) updates. This behaves exactly like checking
//     `elapsed := time.Since(latestReceiveTime)` on a per-entity ticker and
//     deactivating when `elapsed >= timeout`, but without per-entity goroutines.
//   - Operation-count strategies record a baseline counter and push work onto
//     operationTriggers once their threshold is reached.
//
// One goroutine services every registered entity.
type passivationManager struct {
	logger log.Logger

	mu      sync.Mutex
	entries map[string]*passivationEntry
	queue   passivationHeap

	wake     chan types.Unit
	stop     chan types.Unit
	done     chan types.Unit
	stopOnce sync.Once
	started  atomic.Bool

	operationTriggers chan *passivationEntry
	passivateFn       func(*passivationEntry) bool
}

// passivationEntry stores all scheduling metadata for a participant.
// index is the position within the heap; -1 means the entry is not enqueued,
// which keeps heap.Fix/Remove calls safe. pending signals that an
// operation-count trigger was raised but not yet processed, enqueued guards
// against double-enqueueing onto operationTriggers.
type passivationEntry struct {
	participant   passivationParticipant
	id            string
	strategy      passivation.Strategy
	timeout       time.Duration
	deadline      time.Time
	maxOperations int
	baseline      int64
	index         int
	paused        bool
	pending       bool
	enqueued      bool
}

func newPassivationManager(logger log.Logger) *passivationManager {
	return &passivationManager{
		logger:            logger,
		entries:           make(map[string]*passivationEntry),
		queue:             passivationHeap{},
		wake:              make(chan types.Unit, 1),
		stop:              make(chan types.Unit),
		done:              make(chan types.Unit),
		operationTriggers: make(chan *passivationEntry, 1024),
	}
}

func (m *passivationManager) Start(_ context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}

	go m.run()
}

func (m *passivationManager) Stop(context.Context) {
	if !m.started.Load() {
		return
	}

	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
	m.started.Store(false)
}

// Register hooks a participant into the passivation scheduler using its
// selected strategy. Existing entries are updated in-place so swapping
// strategies at runtime remains safe.
func (m *passivationManager) Register(participant passivationParticipant, strategy passivation.Strategy) {
	key := participantKey(participant)
	if key == "" || strategy == nil || !m.started.Load() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		entry = &passivationEntry{
			participant: participant,
			id:          key,
			// index starts at -1 to indicate the entry is not in the heap yet
			index: -1,
		}
		m.entries[key] = entry
	} else if entry.index >= 0 {
		cheaps.Remove(&m.queue, entry.index)
		entry.index = -1
	}

	entry.participant = participant
	entry.strategy = strategy
	entry.paused = false
	entry.pending = false
	entry.enqueued = false

	switch strat := strategy.(type) {
	case *passivation.TimeBasedStrategy:
		entry.timeout = strat.Timeout()
		// Store the absolute deadline (last activity + timeout) instead of
		// polling the elapsed idle time on an interval.
		entry.refreshDeadline()
		cheaps.Push(&m.queue, entry)
		m.notifyLocked()
	case *passivation.OperationsCountBasedStrategy:
		entry.maxOperations = strat.MaxOperations()
		// Snapshot the counter so only operations handled after this
		// registration count towards the threshold.
		entry.baseline = participant.passivationProcessedCount()
	default:
		delete(m.entries, key)
	}
}

// Unregister removes a participant from any passivation bookkeeping.
func (m *passivationManager) Unregister(participant passivationParticipant) {
	key := participantKey(participant)
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return
	}

	if entry.index >= 0 {
		cheaps.Remove(&m.queue, entry.index)
		entry.index = -1
	}
	delete(m.entries, key)
}

// Pause temporarily removes a participant from scheduling so passivation
// cannot fire.
func (m *passivationManager) Pause(participant passivationParticipant) {
	key := participantKey(participant)
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.paused {
		return
	}

	entry.paused = true
	if entry.index >= 0 {
		cheaps.Remove(&m.queue, entry.index)
		entry.index = -1
	}
}

// Resume reactivates scheduling for a paused participant. It requeues
// time-based entries onto the heap or drains any pending operation-count
// trigger.
func (m *passivationManager) Resume(participant passivationParticipant) bool {
	key := participantKey(participant)
	if key == "" {
		return false
	}

	m.mu.Lock()
	entry, ok := m.entries[key]
	if !ok || !entry.paused {
		m.mu.Unlock()
		return ok
	}

	entry.paused = false

	var operationEntry *passivationEntry
	if _, ok := entry.strategy.(*passivation.TimeBasedStrategy); ok {
		entry.refreshDeadline()
		cheaps.Push(&m.queue, entry)
		m.notifyLocked()
	} else if entry.pending && !entry.enqueued {
		entry.enqueued = true
		operationEntry = entry
	}
	m.mu.Unlock()

	if operationEntry != nil {
		m.signalOperationEntry(operationEntry)
	}
	return true
}

// Touch refreshes the inactivity deadline for time-based strategies after an
// operation was handled.
func (m *passivationManager) Touch(participant passivationParticipant) {
	key := participantKey(participant)
	if key == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok || entry.paused {
		return
	}

	if _, ok := entry.strategy.(*passivation.TimeBasedStrategy); !ok || entry.index < 0 {
		return
	}

	entry.refreshDeadline()
	cheaps.Fix(&m.queue, entry.index)
	m.notifyLocked()
}

// run multiplexes between deadlines, operation-count triggers and shutdown
// signals.
func (m *passivationManager) run() {
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}

	for {
		entry, wait := m.nextEntry()
		if entry == nil {
			select {
			case <-m.wake:
				continue
			case opEntry := <-m.operationTriggers:
				m.processOperationEntry(opEntry)
				continue
			case <-m.stop:
				timer.Stop()
				close(m.done)
				return
			}
		}

		if wait <= 0 {
			m.trigger(entry)
			continue
		}

		timer.Reset(wait)

		select {
		case <-timer.C:
			m.trigger(entry)
		case opEntry := <-m.operationTriggers:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			m.processOperationEntry(opEntry)
		case <-m.wake:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		case <-m.stop:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			close(m.done)
			return
		}
	}
}

func (m *passivationManager) nextEntry() (*passivationEntry, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for len(m.queue) > 0 {
		entry := m.queue[0]
		if entry.paused {
			cheaps.Remove(&m.queue, entry.index)
			entry.index = -1
			continue
		}

		wait := time.Until(entry.deadline)
		if wait < 0 {
			wait = 0
		}
		return entry, wait
	}

	return nil, 0
}

func (m *passivationManager) trigger(expected *passivationEntry) {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return
		}

		entry := m.queue[0]
		if entry != expected {
			m.mu.Unlock()
			return
		}

		now := time.Now()
		if entry.deadline.After(now) {
			m.mu.Unlock()
			return
		}

		cheaps.Pop(&m.queue)
		entry.index = -1
		m.mu.Unlock()

		passivated := m.passivate(entry)

		m.mu.Lock()
		current, ok := m.entries[entry.id]
		if !ok || current != entry {
			m.mu.Unlock()
			return
		}

		if passivated {
			delete(m.entries, entry.id)
			m.mu.Unlock()
			return
		}

		if entry.paused {
			m.mu.Unlock()
			return
		}

		// the attempt was rejected; wait out another full idle period
		entry.refreshDeadline()
		cheaps.Push(&m.queue, entry)
		m.mu.Unlock()
		m.notify()
	}
}

func (m *passivationManager) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifyLocked()
}

func (m *passivationManager) notifyLocked() {
	select {
	case m.wake <- types.Unit{}:
	default:
	}
}

// refreshDeadline recomputes the absolute deadline for time-based
// passivation from the participant's latest activity.
func (entry *passivationEntry) refreshDeadline() {
	last := entry.participant.passivationLatestActivity()
	if last.IsZero() {
		last = time.Now()
	}
	entry.deadline = last.Add(entry.timeout)
}

// OperationProcessed checks operation-count strategies after each handled
// operation. Once the delta between the current counter and the baseline
// reaches the configured maxOperations the entry is enqueued for passivation.
func (m *passivationManager) OperationProcessed(participant passivationParticipant) {
	if participant == nil || !m.started.Load() {
		return
	}

	key := participantKey(participant)
	if key == "" {
		return
	}

	m.mu.Lock()
	entry, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		return
	}

	if _, ok := entry.strategy.(*passivation.OperationsCountBasedStrategy); !ok {
		m.mu.Unlock()
		return
	}

	current := participant.passivationProcessedCount()
	threshold := entry.baseline + int64(entry.maxOperations)

	if current < threshold {
		m.mu.Unlock()
		return
	}

	entry.pending = true
	if entry.paused || entry.enqueued {
		m.mu.Unlock()
		return
	}

	entry.enqueued = true
	m.mu.Unlock()
	m.signalOperationEntry(entry)
}

// processOperationEntry services the operationTriggers channel. It attempts
// passivation and, if the attempt was skipped, re-enqueues the entry until a
// definitive outcome is reached.
func (m *passivationManager) processOperationEntry(entry *passivationEntry) {
	if entry == nil {
		return
	}

	passivated := m.passivate(entry)

	m.mu.Lock()
	entry.enqueued = false
	current, ok := m.entries[entry.id]
	if !ok || current != entry {
		m.mu.Unlock()
		return
	}

	if passivated {
		delete(m.entries, entry.id)
		entry.pending = false
		m.mu.Unlock()
		return
	}

	if entry.paused {
		m.mu.Unlock()
		return
	}

	if entry.pending && !entry.enqueued {
		entry.enqueued = true
		m.mu.Unlock()
		m.signalOperationEntry(entry)
		return
	}

	m.mu.Unlock()
}

// signalOperationEntry schedules an operation-count entry for asynchronous
// processing. The buffered channel avoids blocking the processing path, and
// we fall back to a goroutine when the buffer is full to avoid deadlocking.
func (m *passivationManager) signalOperationEntry(entry *passivationEntry) {
	if entry == nil || !m.started.Load() {
		return
	}

	select {
	case m.operationTriggers <- entry:
	default:
		go func() {
			m.operationTriggers <- entry
		}()
	}
}

// passivate delegates to the participant and returns whether the passivation
// succeeded. A false result means the participant was busy and the entry
// should be retried.
func (m *passivationManager) passivate(entry *passivationEntry) bool {
	if m.passivateFn != nil {
		return m.passivateFn(entry)
	}
	if entry == nil || entry.participant == nil {
		return false
	}
	return entry.participant.passivationTry(passivationReason(entry))
}

func participantKey(participant passivationParticipant) string {
	if participant == nil {
		return ""
	}
	return participant.passivationID()
}

func passivationReason(entry *passivationEntry) string {
	if entry == nil || entry.strategy == nil {
		return ""
	}
	return entry.strategy.Name()
}

type passivationHeap []*passivationEntry

func (h passivationHeap) Len() int { return len(h) }

func (h passivationHeap) Less(i, j int) bool {
	return h[i].deadline.Before(h[j].deadline)
}

func (h passivationHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *passivationHeap) Push(x any) {
	entry := x.(*passivationEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *passivationHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	entry.index = -1
	*h = old[:n-1]
	return entry
}
