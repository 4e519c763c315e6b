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

package shop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/tochemey/silo/breaker"
	"github.com/tochemey/silo/entity"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/persistence"
	"github.com/tochemey/silo/persistence/memory"
)

// newShopEngine boots an engine on the given store with every shop kind
// registered. A nil store means a fresh in-memory one.
func newShopEngine(t *testing.T, store persistence.Store, opts ...entity.Option) *entity.Engine {
	t.Helper()

	if store == nil {
		store = memory.NewStore()
	}
	opts = append([]entity.Option{entity.WithLogger(log.DiscardLogger)}, opts...)

	engine, err := entity.NewEngine("shopEngine", store, opts...)
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	require.NoError(t, RegisterKinds(engine))

	t.Cleanup(func() {
		if engine.Running() {
			require.NoError(t, engine.Stop(context.Background()))
		}
	})
	return engine
}

// fastFailOptions keeps store failures cheap and the breaker out of the way
// so tests can reason about one failure mode at a time.
func fastFailOptions() []entity.Option {
	return []entity.Option{
		entity.WithActivationRetries(1),
		entity.WithActivationTimeout(100 * time.Millisecond),
		entity.WithBreaker(breaker.WithFailureThreshold(1000)),
	}
}

func sampleProduct(id string, category Category, quantity int, unitPrice float64) Product {
	return Product{
		ID:        id,
		Name:      "Product " + id,
		Category:  category,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

var errCatalogOffline = errors.New("catalog store is offline")

// flakyStore wraps a real store with switchable failure injection. Loads can
// also be failed for a single key id, which stands in for one category's
// records being unreachable.
type flakyStore struct {
	delegate   persistence.Store
	failLoad   *atomic.Bool
	failLoadID *atomic.String
	failSave   *atomic.Bool
}

// enforce compilation error
var _ persistence.Store = (*flakyStore)(nil)

func newFlakyStore() *flakyStore {
	return &flakyStore{
		delegate:   memory.NewStore(),
		failLoad:   atomic.NewBool(false),
		failLoadID: atomic.NewString(""),
		failSave:   atomic.NewBool(false),
	}
}

func (s *flakyStore) Load(ctx context.Context, key persistence.Key) (*persistence.Record, error) {
	if s.failLoad.Load() {
		return nil, errCatalogOffline
	}
	if id := s.failLoadID.Load(); id != "" && key.ID == id {
		return nil, errCatalogOffline
	}
	return s.delegate.Load(ctx, key)
}

func (s *flakyStore) Save(ctx context.Context, record *persistence.Record, expectedVersion uint64) (uint64, error) {
	if s.failSave.Load() {
		return 0, errCatalogOffline
	}
	return s.delegate.Save(ctx, record, expectedVersion)
}

func (s *flakyStore) Delete(ctx context.Context, key persistence.Key) error {
	return s.delegate.Delete(ctx, key)
}

func (s *flakyStore) Exists(ctx context.Context, key persistence.Key) (bool, error) {
	return s.delegate.Exists(ctx, key)
}

func (s *flakyStore) Ping(ctx context.Context) error {
	return s.delegate.Ping(ctx)
}

func (s *flakyStore) Close() error {
	return s.delegate.Close()
}
