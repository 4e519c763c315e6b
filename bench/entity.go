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

// Package bench measures the engine invocation pipeline against the
// in-memory store.
package bench

import (
	"context"
	"strconv"

	"github.com/tochemey/silo/entity"
	serrors "github.com/tochemey/silo/errors"
)

// KindBench is the entity kind the benchmarks register.
const KindBench = "bench"

// Ping reads the operation count without mutating, so no snapshot is saved.
type Ping struct{}

// OperationName implements entity.Operation.
func (*Ping) OperationName() string { return "Ping" }

// Bump increments the operation count, costing one snapshot save per call.
type Bump struct{}

// OperationName implements entity.Operation.
func (*Bump) OperationName() string { return "Bump" }

// Benchmarker counts operations.
type Benchmarker struct {
	count uint64
}

// enforce compilation error
var _ entity.Entity = (*Benchmarker)(nil)

// Activate implements entity.Entity.
func (x *Benchmarker) Activate(_ context.Context, snapshot []byte) error {
	if snapshot == nil {
		return nil
	}
	count, err := strconv.ParseUint(string(snapshot), 10, 64)
	if err != nil {
		return err
	}
	x.count = count
	return nil
}

// Handle implements entity.Entity.
func (x *Benchmarker) Handle(_ context.Context, operation entity.Operation) (any, bool, error) {
	switch operation.(type) {
	case *Ping:
		return x.count, false, nil
	case *Bump:
		x.count++
		return x.count, true, nil
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

// Snapshot implements entity.Entity.
func (x *Benchmarker) Snapshot() ([]byte, error) {
	return []byte(strconv.FormatUint(x.count, 10)), nil
}

// Deactivate implements entity.Entity.
func (x *Benchmarker) Deactivate(context.Context) error {
	return nil
}
