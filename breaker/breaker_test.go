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

package breaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestCircuitBreaker(t *testing.T) {
	t.Run("With closed breaker passing calls through", func(t *testing.T) {
		ctx := context.TODO()
		cb := NewCircuitBreaker()

		value, err := cb.Execute(ctx, func(context.Context) (any, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, value)
		assert.Equal(t, Closed, cb.State())
	})
	t.Run("With consecutive failures opening the breaker", func(t *testing.T) {
		ctx := context.TODO()
		cb := NewCircuitBreaker(WithFailureThreshold(3))

		for i := 0; i < 3; i++ {
			_, err := cb.Execute(ctx, func(context.Context) (any, error) {
				return nil, errBoom
			})
			require.ErrorIs(t, err, errBoom)
		}
		assert.Equal(t, Open, cb.State())

		// open breaker rejects without calling fn
		called := false
		_, err := cb.Execute(ctx, func(context.Context) (any, error) {
			called = true
			return nil, nil
		})
		require.ErrorIs(t, err, ErrOpen)
		assert.False(t, called)
	})
	t.Run("With success resetting the failure streak", func(t *testing.T) {
		ctx := context.TODO()
		cb := NewCircuitBreaker(WithFailureThreshold(3))

		fail := func(context.Context) (any, error) { return nil, errBoom }
		ok := func(context.Context) (any, error) { return nil, nil }

		_, _ = cb.Execute(ctx, fail)
		_, _ = cb.Execute(ctx, fail)
		_, err := cb.Execute(ctx, ok)
		require.NoError(t, err)
		_, _ = cb.Execute(ctx, fail)
		_, _ = cb.Execute(ctx, fail)
		// streak was broken, so the breaker is still closed
		assert.Equal(t, Closed, cb.State())
	})
	t.Run("With cooldown moving the breaker to half-open then closed", func(t *testing.T) {
		ctx := context.TODO()
		now := time.Now()
		mu := sync.Mutex{}
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		advance := func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(d)
		}

		cb := NewCircuitBreaker(
			WithFailureThreshold(1),
			WithOpenTimeout(time.Second),
			WithClock(clock),
		)

		_, err := cb.Execute(ctx, func(context.Context) (any, error) { return nil, errBoom })
		require.ErrorIs(t, err, errBoom)
		require.Equal(t, Open, cb.State())

		// still within the cooldown
		_, err = cb.Execute(ctx, func(context.Context) (any, error) { return nil, nil })
		require.ErrorIs(t, err, ErrOpen)

		// after the cooldown a probe is admitted and closes the breaker
		advance(2 * time.Second)
		value, err := cb.Execute(ctx, func(context.Context) (any, error) { return "probe", nil })
		require.NoError(t, err)
		assert.Equal(t, "probe", value)
		assert.Equal(t, Closed, cb.State())
	})
	t.Run("With failed probe re-opening the breaker", func(t *testing.T) {
		ctx := context.TODO()
		now := time.Now()
		mu := sync.Mutex{}
		clock := func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		advance := func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(d)
		}

		cb := NewCircuitBreaker(
			WithFailureThreshold(1),
			WithOpenTimeout(time.Second),
			WithClock(clock),
		)

		_, _ = cb.Execute(ctx, func(context.Context) (any, error) { return nil, errBoom })
		require.Equal(t, Open, cb.State())

		advance(2 * time.Second)
		_, err := cb.Execute(ctx, func(context.Context) (any, error) { return nil, errBoom })
		require.ErrorIs(t, err, errBoom)
		assert.Equal(t, Open, cb.State())

		// rejected again until the next cooldown elapses
		_, err = cb.Execute(ctx, func(context.Context) (any, error) { return nil, nil })
		require.ErrorIs(t, err, ErrOpen)
	})
	t.Run("With canceled context not counted as failure", func(t *testing.T) {
		cb := NewCircuitBreaker(WithFailureThreshold(1))
		ctx, cancel := context.WithCancel(context.TODO())
		cancel()

		_, err := cb.Execute(ctx, func(context.Context) (any, error) { return nil, nil })
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, Closed, cb.State())
	})
	t.Run("With concurrent callers", func(t *testing.T) {
		ctx := context.TODO()
		cb := NewCircuitBreaker(WithFailureThreshold(100))

		wg := sync.WaitGroup{}
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = cb.Execute(ctx, func(context.Context) (any, error) { return nil, nil })
			}()
		}
		wg.Wait()
		assert.Equal(t, Closed, cb.State())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}
