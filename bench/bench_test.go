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

package bench

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tochemey/silo/entity"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/persistence/memory"
)

const requestTimeout = time.Second

func BenchmarkEngine(b *testing.B) {
	b.Run("Invoke(read, one identity)", func(b *testing.B) {
		ctx := context.TODO()
		engine := newBenchEngine(b)
		identity := entity.NewIdentity(KindBench, "reader")

		// activate outside the measured window
		if _, err := engine.Invoke(ctx, identity, new(Ping)); err != nil {
			b.Fatal(err)
		}

		var counter int64
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := engine.Invoke(ctx, identity, new(Ping)); err != nil {
					b.Fatal(err)
				}
				atomic.AddInt64(&counter, 1)
			}
		})
		b.StopTimer()

		opsPerSec := float64(atomic.LoadInt64(&counter)) / b.Elapsed().Seconds()
		b.ReportMetric(opsPerSec, "ops/sec")

		_ = engine.Stop(ctx)
	})
	b.Run("Invoke(write, one identity)", func(b *testing.B) {
		ctx := context.TODO()
		engine := newBenchEngine(b)
		identity := entity.NewIdentity(KindBench, "writer")

		if _, err := engine.Invoke(ctx, identity, new(Ping)); err != nil {
			b.Fatal(err)
		}

		var counter int64
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if _, err := engine.Invoke(ctx, identity, new(Bump)); err != nil {
					b.Fatal(err)
				}
				atomic.AddInt64(&counter, 1)
			}
		})
		b.StopTimer()

		opsPerSec := float64(atomic.LoadInt64(&counter)) / b.Elapsed().Seconds()
		b.ReportMetric(opsPerSec, "ops/sec")

		_ = engine.Stop(ctx)
	})
	b.Run("Invoke(write, distinct identities)", func(b *testing.B) {
		ctx := context.TODO()
		engine := newBenchEngine(b)

		var next int64
		var counter int64
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			identity := entity.NewIdentity(KindBench, fmt.Sprintf("writer-%d", atomic.AddInt64(&next, 1)))
			for pb.Next() {
				if _, err := engine.Invoke(ctx, identity, new(Bump)); err != nil {
					b.Fatal(err)
				}
				atomic.AddInt64(&counter, 1)
			}
		})
		b.StopTimer()

		opsPerSec := float64(atomic.LoadInt64(&counter)) / b.Elapsed().Seconds()
		b.ReportMetric(opsPerSec, "ops/sec")

		_ = engine.Stop(ctx)
	})
	b.Run("InvokeAsync(one identity)", func(b *testing.B) {
		ctx := context.TODO()
		// the shutdown drain has to absorb the whole fire-and-forget backlog
		engine := newBenchEngine(b, entity.WithShutdownTimeout(5*time.Minute))
		identity := entity.NewIdentity(KindBench, "async")

		if _, err := engine.Invoke(ctx, identity, new(Ping)); err != nil {
			b.Fatal(err)
		}

		var counter int64
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				if err := engine.InvokeAsync(ctx, identity, new(Bump)); err != nil {
					b.Fatal(err)
				}
				atomic.AddInt64(&counter, 1)
			}
		})
		b.StopTimer()

		opsPerSec := float64(atomic.LoadInt64(&counter)) / b.Elapsed().Seconds()
		b.ReportMetric(opsPerSec, "ops/sec")

		_ = engine.Stop(ctx)
	})
}

func newBenchEngine(b *testing.B, opts ...entity.Option) *entity.Engine {
	b.Helper()
	opts = append([]entity.Option{
		entity.WithLogger(log.DiscardLogger),
		entity.WithRequestTimeout(requestTimeout),
	}, opts...)
	engine, err := entity.NewEngine("bench", memory.NewStore(), opts...)
	if err != nil {
		b.Fatal(err)
	}
	if err := engine.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	if err := engine.RegisterKind(KindBench, func() entity.Entity { return new(Benchmarker) }); err != nil {
		b.Fatal(err)
	}
	return engine
}
