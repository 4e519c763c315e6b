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
	"testing"

	"github.com/stretchr/testify/require"

	serrors "github.com/tochemey/silo/errors"
)

func TestProductEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("With read before any write", func(t *testing.T) {
		instance := NewProductEntity()
		response, mutated, err := instance.Handle(ctx, new(GetProduct))
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrNotFound)
		require.False(t, mutated)
		require.Nil(t, response)
	})
	t.Run("With create and read back", func(t *testing.T) {
		instance := NewProductEntity()
		product := sampleProduct("p-1", CategoryBooks, 2, 10.00)

		response, mutated, err := instance.Handle(ctx, &PutProduct{Product: product})
		require.NoError(t, err)
		require.True(t, mutated)
		require.Equal(t, product, response)

		response, mutated, err = instance.Handle(ctx, new(GetProduct))
		require.NoError(t, err)
		require.False(t, mutated, "expected reads to never report a mutation")
		require.Equal(t, product, response)
	})
	t.Run("With idempotent put", func(t *testing.T) {
		instance := NewProductEntity()
		product := sampleProduct("p-1", CategoryBooks, 2, 10.00)

		_, mutated, err := instance.Handle(ctx, &PutProduct{Product: product})
		require.NoError(t, err)
		require.True(t, mutated)

		_, mutated, err = instance.Handle(ctx, &PutProduct{Product: product})
		require.NoError(t, err)
		require.False(t, mutated, "expected an identical put to be a no-op")
	})
	t.Run("With invalid product leaving state untouched", func(t *testing.T) {
		instance := NewProductEntity()
		product := sampleProduct("p-1", CategoryBooks, 2, 10.00)
		_, _, err := instance.Handle(ctx, &PutProduct{Product: product})
		require.NoError(t, err)

		broken := product
		broken.Quantity = -5
		_, mutated, err := instance.Handle(ctx, &PutProduct{Product: broken})
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrInvalidArgument)
		require.False(t, mutated)

		response, _, err := instance.Handle(ctx, new(GetProduct))
		require.NoError(t, err)
		require.Equal(t, product, response)
	})
	t.Run("With conflicting product id", func(t *testing.T) {
		instance := NewProductEntity()
		_, _, err := instance.Handle(ctx, &PutProduct{Product: sampleProduct("p-1", CategoryBooks, 2, 10.00)})
		require.NoError(t, err)

		_, mutated, err := instance.Handle(ctx, &PutProduct{Product: sampleProduct("p-2", CategoryBooks, 2, 10.00)})
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrInvalidArgument)
		require.False(t, mutated)
	})
	t.Run("With snapshot round trip", func(t *testing.T) {
		instance := NewProductEntity()
		product := sampleProduct("p-1", CategoryMusic, 7, 14.25)
		_, _, err := instance.Handle(ctx, &PutProduct{Product: product})
		require.NoError(t, err)

		snapshot, err := instance.Snapshot()
		require.NoError(t, err)

		restored := NewProductEntity()
		require.NoError(t, restored.Activate(ctx, snapshot))

		response, _, err := restored.Handle(ctx, new(GetProduct))
		require.NoError(t, err)
		require.Equal(t, product, response)
	})
	t.Run("With unknown operation", func(t *testing.T) {
		instance := NewProductEntity()
		_, _, err := instance.Handle(ctx, new(ListItems))
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrInvalidOperation)
	})
}
