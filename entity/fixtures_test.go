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
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/eventstream"
	"github.com/tochemey/silo/internal/pause"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/persistence"
	"github.com/tochemey/silo/persistence/memory"
)

type IncrementCount struct {
	By int64
}

func (*IncrementCount) OperationName() string { return "IncrementCount" }

type GetCount struct{}

func (*GetCount) OperationName() string { return "GetCount" }

// SlowIncrement sleeps for Delay before incrementing. Tests use it to keep an
// entity busy for a controlled amount of time.
type SlowIncrement struct {
	Delay time.Duration
}

func (*SlowIncrement) OperationName() string { return "SlowIncrement" }

type PanicOperation struct{}

func (*PanicOperation) OperationName() string { return "PanicOperation" }

type RejectOperation struct {
	Field  string
	Reason string
}

func (*RejectOperation) OperationName() string { return "RejectOperation" }

type UnknownOperation struct{}

func (*UnknownOperation) OperationName() string { return "UnknownOperation" }

type AppendValue struct {
	Value int64
}

func (*AppendValue) OperationName() string { return "AppendValue" }

type ListValues struct{}

func (*ListValues) OperationName() string { return "ListValues" }

type counterState struct {
	Count int64 `json:"count"`
}

// MockCounter is a counter entity whose snapshot is a small JSON document.
type MockCounter struct {
	count         int64
	activations   *atomic.Int32
	deactivations *atomic.Int32
}

var _ Entity = (*MockCounter)(nil)

func NewMockCounter() *MockCounter {
	return &MockCounter{
		activations:   atomic.NewInt32(0),
		deactivations: atomic.NewInt32(0),
	}
}

// Activate implements Entity.
// nolint
func (m *MockCounter) Activate(ctx context.Context, snapshot []byte) error {
	m.activations.Inc()
	if snapshot == nil {
		return nil
	}
	state := new(counterState)
	if err := json.Unmarshal(snapshot, state); err != nil {
		return err
	}
	m.count = state.Count
	return nil
}

// Handle implements Entity.
func (m *MockCounter) Handle(_ context.Context, operation Operation) (any, bool, error) {
	switch op := operation.(type) {
	case *IncrementCount:
		m.count += op.By
		return m.count, true, nil
	case *GetCount:
		return m.count, false, nil
	case *SlowIncrement:
		pause.For(op.Delay)
		m.count++
		return m.count, true, nil
	case *PanicOperation:
		panic("simulated handler panic")
	case *RejectOperation:
		return nil, false, serrors.NewValidationError(op.Field, op.Reason)
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

// Snapshot implements Entity.
func (m *MockCounter) Snapshot() ([]byte, error) {
	return json.Marshal(&counterState{Count: m.count})
}

// Deactivate implements Entity.
// nolint
func (m *MockCounter) Deactivate(ctx context.Context) error {
	m.deactivations.Inc()
	return nil
}

type journalState struct {
	Values []int64 `json:"values"`
}

// MockJournal appends values in the order they are handled, which makes
// mailbox ordering observable.
type MockJournal struct {
	values []int64
}

var _ Entity = (*MockJournal)(nil)

func NewMockJournal() *MockJournal {
	return &MockJournal{}
}

// Activate implements Entity.
// nolint
func (m *MockJournal) Activate(ctx context.Context, snapshot []byte) error {
	if snapshot == nil {
		return nil
	}
	state := new(journalState)
	if err := json.Unmarshal(snapshot, state); err != nil {
		return err
	}
	m.values = state.Values
	return nil
}

// Handle implements Entity.
func (m *MockJournal) Handle(_ context.Context, operation Operation) (any, bool, error) {
	switch op := operation.(type) {
	case *AppendValue:
		m.values = append(m.values, op.Value)
		return int64(len(m.values)), true, nil
	case *ListValues:
		values := make([]int64, len(m.values))
		copy(values, m.values)
		return values, false, nil
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

// Snapshot implements Entity.
func (m *MockJournal) Snapshot() ([]byte, error) {
	return json.Marshal(&journalState{Values: m.values})
}

// Deactivate implements Entity.
// nolint
func (m *MockJournal) Deactivate(ctx context.Context) error {
	return nil
}

type MockActivationFailure struct{}

var _ Entity = (*MockActivationFailure)(nil)

func NewMockActivationFailure() *MockActivationFailure {
	return &MockActivationFailure{}
}

// Activate implements Entity.
// nolint
func (m *MockActivationFailure) Activate(ctx context.Context, snapshot []byte) error {
	return errors.New("failed to activate entity")
}

// Handle implements Entity.
func (m *MockActivationFailure) Handle(_ context.Context, operation Operation) (any, bool, error) {
	return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
}

// Snapshot implements Entity.
func (m *MockActivationFailure) Snapshot() ([]byte, error) {
	return nil, nil
}

// Deactivate implements Entity.
// nolint
func (m *MockActivationFailure) Deactivate(ctx context.Context) error {
	return nil
}

// MockBrokenSnapshot accepts mutations but can never serialize them.
type MockBrokenSnapshot struct {
	count int64
}

var _ Entity = (*MockBrokenSnapshot)(nil)

func NewMockBrokenSnapshot() *MockBrokenSnapshot {
	return &MockBrokenSnapshot{}
}

// Activate implements Entity.
// nolint
func (m *MockBrokenSnapshot) Activate(ctx context.Context, snapshot []byte) error {
	return nil
}

// Handle implements Entity.
func (m *MockBrokenSnapshot) Handle(_ context.Context, operation Operation) (any, bool, error) {
	switch op := operation.(type) {
	case *IncrementCount:
		m.count += op.By
		return m.count, true, nil
	case *GetCount:
		return m.count, false, nil
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

// Snapshot implements Entity.
func (m *MockBrokenSnapshot) Snapshot() ([]byte, error) {
	return nil, errors.New("failed to serialize state")
}

// Deactivate implements Entity.
// nolint
func (m *MockBrokenSnapshot) Deactivate(ctx context.Context) error {
	return nil
}

type MockDeactivationFailure struct{}

var _ Entity = (*MockDeactivationFailure)(nil)

func NewMockDeactivationFailure() *MockDeactivationFailure {
	return &MockDeactivationFailure{}
}

// Activate implements Entity.
// nolint
func (m *MockDeactivationFailure) Activate(ctx context.Context, snapshot []byte) error {
	return nil
}

// Handle implements Entity.
func (m *MockDeactivationFailure) Handle(_ context.Context, operation Operation) (any, bool, error) {
	switch operation.(type) {
	case *GetCount:
		return int64(0), false, nil
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

// Snapshot implements Entity.
func (m *MockDeactivationFailure) Snapshot() ([]byte, error) {
	return nil, nil
}

// Deactivate implements Entity.
// nolint
func (m *MockDeactivationFailure) Deactivate(ctx context.Context) error {
	return errors.New("failed to deactivate entity")
}

var errStoreOffline = errors.New("store is offline")

// failingStore wraps a live in-memory store with switchable failure
// injection per call family.
type failingStore struct {
	delegate persistence.Store
	failPing *atomic.Bool
	failLoad *atomic.Bool
	failSave *atomic.Bool
}

var _ persistence.Store = (*failingStore)(nil)

func newFailingStore() *failingStore {
	return &failingStore{
		delegate: memory.NewStore(),
		failPing: atomic.NewBool(false),
		failLoad: atomic.NewBool(false),
		failSave: atomic.NewBool(false),
	}
}

func (s *failingStore) Ping(ctx context.Context) error {
	if s.failPing.Load() {
		return errStoreOffline
	}
	return s.delegate.Ping(ctx)
}

func (s *failingStore) Load(ctx context.Context, key persistence.Key) (*persistence.Record, error) {
	if s.failLoad.Load() {
		return nil, errStoreOffline
	}
	return s.delegate.Load(ctx, key)
}

func (s *failingStore) Save(ctx context.Context, record *persistence.Record, expectedVersion uint64) (uint64, error) {
	if s.failSave.Load() {
		return 0, errStoreOffline
	}
	return s.delegate.Save(ctx, record, expectedVersion)
}

func (s *failingStore) Delete(ctx context.Context, key persistence.Key) error {
	return s.delegate.Delete(ctx, key)
}

func (s *failingStore) Exists(ctx context.Context, key persistence.Key) (bool, error) {
	return s.delegate.Exists(ctx, key)
}

func (s *failingStore) Close() error {
	return s.delegate.Close()
}

// mockParticipant drives the passivation manager without a full engine.
type mockParticipant struct {
	id        string
	latest    *atomic.Time
	processed *atomic.Int64
	tries     *atomic.Int32
	reject    *atomic.Bool
}

var _ passivationParticipant = (*mockParticipant)(nil)

func newMockParticipant(id string) *mockParticipant {
	return &mockParticipant{
		id:        id,
		latest:    atomic.NewTime(time.Now()),
		processed: atomic.NewInt64(0),
		tries:     atomic.NewInt32(0),
		reject:    atomic.NewBool(false),
	}
}

func (m *mockParticipant) passivationID() string {
	return m.id
}

func (m *mockParticipant) passivationLatestActivity() time.Time {
	return m.latest.Load()
}

func (m *mockParticipant) passivationProcessedCount() int64 {
	return m.processed.Load()
}

func (m *mockParticipant) passivationTry(string) bool {
	m.tries.Inc()
	return !m.reject.Load()
}

// newTestEngine builds and starts an engine backed by an in-memory store.
// The engine is stopped when the test finishes.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(log.DiscardLogger)}, opts...)
	engine, err := NewEngine("testEngine", memory.NewStore(), opts...)
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	t.Cleanup(func() {
		if engine.Running() {
			require.NoError(t, engine.Stop(context.Background()))
		}
	})
	return engine
}

// awaitEvent consumes the subscriber until a payload satisfies accept or the
// wait times out.
func awaitEvent(t *testing.T, subscriber eventstream.Subscriber, accept func(payload any) bool) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case message := <-subscriber.Iterator():
			if message != nil && accept(message.Payload()) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for event")
		}
	}
}
