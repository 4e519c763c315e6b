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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/tochemey/silo/api/handler"
	"github.com/tochemey/silo/api/transport"
	"github.com/tochemey/silo/breaker"
	"github.com/tochemey/silo/entity"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/persistence"
	"github.com/tochemey/silo/persistence/memory"
	"github.com/tochemey/silo/shop"
)

// newShopStack boots a full stack (engine, services, handlers) on the given
// store. A nil store means a fresh in-memory one.
func newShopStack(t *testing.T, store persistence.Store, opts ...entity.Option) (Handlers, *entity.Engine) {
	t.Helper()

	if store == nil {
		store = memory.NewStore()
	}
	opts = append([]entity.Option{entity.WithLogger(log.DiscardLogger)}, opts...)

	engine, err := entity.NewEngine("shopAPI", store, opts...)
	require.NoError(t, err)
	require.NoError(t, engine.Start(context.Background()))
	require.NoError(t, shop.RegisterKinds(engine))
	t.Cleanup(func() {
		if engine.Running() {
			require.NoError(t, engine.Stop(context.Background()))
		}
	})

	inventory := shop.NewInventoryService(engine, log.DiscardLogger)
	carts := shop.NewCartService(engine, inventory, log.DiscardLogger)

	const timeout = 2 * time.Second
	handlers := Handlers{
		Product: apiHandler.NewProductHandler(inventory, log.DiscardLogger, timeout),
		Cart:    apiHandler.NewCartHandler(carts, log.DiscardLogger, timeout),
		Health:  apiHandler.NewHealthHandler(engine, inventory, log.DiscardLogger, timeout),
	}
	return handlers, engine
}

// fastFailOptions keeps store failures cheap so failure-path requests come
// back quickly.
func fastFailOptions() []entity.Option {
	return []entity.Option{
		entity.WithActivationRetries(1),
		entity.WithActivationTimeout(100 * time.Millisecond),
		entity.WithBreaker(breaker.WithFailureThreshold(1000)),
	}
}

// performRequest routes one request through the handler in memory and
// decodes the envelope.
func performRequest(t *testing.T, handler fasthttp.RequestHandler, method, uri string, body any) (int, transport.Envelope) {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	ctx := new(fasthttp.RequestCtx)
	ctx.Init(&req, nil, nil)

	handler(ctx)

	envelope := transport.Envelope{}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	return ctx.Response.StatusCode(), envelope
}

func dataMap(t *testing.T, envelope transport.Envelope) map[string]any {
	t.Helper()
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "expected an object data payload, got %T", envelope.Data)
	return data
}

func sampleProductBody(id string, category shop.Category, quantity int, unitPrice float64) shop.Product {
	return shop.Product{
		ID:        id,
		Name:      "Product " + id,
		Category:  category,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

var errStoreDown = errors.New("store is down")

// downStore answers the liveness ping but fails every record operation.
type downStore struct{}

// enforce compilation error
var _ persistence.Store = downStore{}

func (downStore) Load(context.Context, persistence.Key) (*persistence.Record, error) {
	return nil, errStoreDown
}

func (downStore) Save(context.Context, *persistence.Record, uint64) (uint64, error) {
	return 0, errStoreDown
}

func (downStore) Delete(context.Context, persistence.Key) error { return errStoreDown }

func (downStore) Exists(context.Context, persistence.Key) (bool, error) {
	return false, errStoreDown
}

func (downStore) Ping(context.Context) error { return nil }

func (downStore) Close() error { return nil }
