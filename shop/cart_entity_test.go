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

func TestCartEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("With add and summary", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)

		response, mutated, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)
		require.True(t, mutated)

		summary := response.(CartSummary)
		require.Equal(t, 2, summary.TotalCount)
		require.InDelta(t, 20.00, summary.TotalPrice, 1e-9)
		require.Equal(t, []CartItem{{Product: product, Quantity: 2}}, summary.Items)
	})
	t.Run("With update replacing the quantity", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)

		_, _, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)

		response, mutated, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 1})
		require.NoError(t, err)
		require.True(t, mutated)

		summary := response.(CartSummary)
		require.Equal(t, 1, summary.TotalCount, "expected the quantity replaced, not accumulated")
		require.InDelta(t, 10.00, summary.TotalPrice, 1e-9)
	})
	t.Run("With idempotent add", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)

		_, mutated, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)
		require.True(t, mutated)

		_, mutated, err = instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)
		require.False(t, mutated, "expected an identical add to be a no-op")
	})
	t.Run("With price refresh on re-add", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)
		_, _, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)

		product.UnitPrice = 12.50
		response, mutated, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)
		require.True(t, mutated)

		summary := response.(CartSummary)
		require.InDelta(t, 25.00, summary.TotalPrice, 1e-9)
		require.Equal(t, 12.50, summary.Items[0].Product.UnitPrice)
	})
	t.Run("With quantity below one", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)

		_, mutated, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 0})
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrInvalidArgument)
		require.False(t, mutated)

		validation := new(serrors.ValidationError)
		require.ErrorAs(t, err, &validation)
		require.Equal(t, "quantity", validation.Field)

		response, _, err := instance.Handle(ctx, new(ListItems))
		require.NoError(t, err)
		require.Empty(t, response)
	})
	t.Run("With invalid product", func(t *testing.T) {
		instance := NewCartEntity()
		_, mutated, err := instance.Handle(ctx, &AddOrUpdateItem{Product: sampleProduct("", CategoryBooks, 5, 10.00), Quantity: 1})
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrInvalidArgument)
		require.False(t, mutated)
	})
	t.Run("With items listed in stable order", func(t *testing.T) {
		instance := NewCartEntity()
		second := sampleProduct("p-2", CategoryMovies, 1, 5.00)
		first := sampleProduct("p-1", CategoryBooks, 5, 10.00)

		_, _, err := instance.Handle(ctx, &AddOrUpdateItem{Product: second, Quantity: 1})
		require.NoError(t, err)
		_, _, err = instance.Handle(ctx, &AddOrUpdateItem{Product: first, Quantity: 3})
		require.NoError(t, err)

		response, _, err := instance.Handle(ctx, new(ListItems))
		require.NoError(t, err)
		require.Equal(t, []CartItem{
			{Product: first, Quantity: 3},
			{Product: second, Quantity: 1},
		}, response)
	})
	t.Run("With remove", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)
		_, _, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)

		response, mutated, err := instance.Handle(ctx, &RemoveItem{ProductID: "p-1"})
		require.NoError(t, err)
		require.True(t, mutated)
		require.Zero(t, response.(CartSummary).TotalCount)
	})
	t.Run("With remove of an absent product", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)
		_, _, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)

		response, mutated, err := instance.Handle(ctx, &RemoveItem{ProductID: "nope"})
		require.NoError(t, err)
		require.False(t, mutated, "expected removing an absent product to be a no-op")
		require.Equal(t, 2, response.(CartSummary).TotalCount)
	})
	t.Run("With clear", func(t *testing.T) {
		instance := NewCartEntity()

		response, mutated, err := instance.Handle(ctx, new(Clear))
		require.NoError(t, err)
		require.False(t, mutated, "expected clearing an empty cart to be a no-op")
		require.Zero(t, response.(CartSummary).TotalCount)

		_, _, err = instance.Handle(ctx, &AddOrUpdateItem{Product: sampleProduct("p-1", CategoryBooks, 5, 10.00), Quantity: 2})
		require.NoError(t, err)

		response, mutated, err = instance.Handle(ctx, new(Clear))
		require.NoError(t, err)
		require.True(t, mutated)
		require.Empty(t, response.(CartSummary).Items)
	})
	t.Run("With count and total", func(t *testing.T) {
		instance := NewCartEntity()
		_, _, err := instance.Handle(ctx, &AddOrUpdateItem{Product: sampleProduct("p-1", CategoryBooks, 5, 10.00), Quantity: 2})
		require.NoError(t, err)
		_, _, err = instance.Handle(ctx, &AddOrUpdateItem{Product: sampleProduct("p-2", CategoryMovies, 1, 7.25), Quantity: 3})
		require.NoError(t, err)

		count, mutated, err := instance.Handle(ctx, new(Count))
		require.NoError(t, err)
		require.False(t, mutated)
		require.Equal(t, 5, count)

		total, mutated, err := instance.Handle(ctx, new(Total))
		require.NoError(t, err)
		require.False(t, mutated)
		require.InDelta(t, 41.75, total.(float64), 1e-9)
	})
	t.Run("With snapshot round trip", func(t *testing.T) {
		instance := NewCartEntity()
		product := sampleProduct("p-1", CategoryBooks, 5, 10.00)
		_, _, err := instance.Handle(ctx, &AddOrUpdateItem{Product: product, Quantity: 2})
		require.NoError(t, err)

		snapshot, err := instance.Snapshot()
		require.NoError(t, err)

		restored := NewCartEntity()
		require.NoError(t, restored.Activate(ctx, snapshot))

		response, _, err := restored.Handle(ctx, new(ListItems))
		require.NoError(t, err)
		require.Equal(t, []CartItem{{Product: product, Quantity: 2}}, response)
	})
	t.Run("With unknown operation", func(t *testing.T) {
		instance := NewCartEntity()
		_, _, err := instance.Handle(ctx, new(TrackProduct))
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrInvalidOperation)
	})
}
