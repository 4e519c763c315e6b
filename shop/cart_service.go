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
	stderrors "errors"

	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/log"
)

// CartService fronts the cart entities. Reads are fail-soft: a store outage
// or a timeout degrades to an empty view so a storefront page still renders.
// Writes always fail hard.
type CartService struct {
	invoker   Invoker
	inventory *InventoryService
	logger    log.Logger
}

// NewCartService creates a CartService. Products added to a cart are
// resolved against the live catalog through the given inventory service.
func NewCartService(invoker Invoker, inventory *InventoryService, logger log.Logger) *CartService {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &CartService{
		invoker:   invoker,
		inventory: inventory,
		logger:    logger,
	}
}

// Summary returns the cart view of the given user.
func (s *CartService) Summary(ctx context.Context, userID string) (CartSummary, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	return SummarizeCart(items), nil
}

// Items returns the cart items of the given user.
func (s *CartService) Items(ctx context.Context, userID string) ([]CartItem, error) {
	response, err := s.invoker.Invoke(ctx, CartIdentity(userID), new(ListItems))
	if err != nil {
		if s.degraded(userID, err) {
			return []CartItem{}, nil
		}
		return nil, err
	}
	return response.([]CartItem), nil
}

// Count returns the total number of units in the cart of the given user.
func (s *CartService) Count(ctx context.Context, userID string) (int, error) {
	response, err := s.invoker.Invoke(ctx, CartIdentity(userID), new(Count))
	if err != nil {
		if s.degraded(userID, err) {
			return 0, nil
		}
		return 0, err
	}
	return response.(int), nil
}

// Total returns the total price of the cart of the given user.
func (s *CartService) Total(ctx context.Context, userID string) (float64, error) {
	response, err := s.invoker.Invoke(ctx, CartIdentity(userID), new(Total))
	if err != nil {
		if s.degraded(userID, err) {
			return 0, nil
		}
		return 0, err
	}
	return response.(float64), nil
}

// AddItem puts the identified product into the cart with the given quantity.
// The product is resolved against the live catalog first, so adding an
// unknown product reports ErrNotFound and the price snapshot is always
// current.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (CartSummary, error) {
	product, err := s.inventory.GetProduct(ctx, productID)
	if err != nil {
		return CartSummary{}, err
	}

	response, err := s.invoker.Invoke(ctx, CartIdentity(userID), &AddOrUpdateItem{
		Product:  product,
		Quantity: quantity,
	})
	if err != nil {
		return CartSummary{}, err
	}
	return response.(CartSummary), nil
}

// RemoveItem drops the product from the cart. Removing an absent product is
// a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (CartSummary, error) {
	response, err := s.invoker.Invoke(ctx, CartIdentity(userID), &RemoveItem{ProductID: productID})
	if err != nil {
		return CartSummary{}, err
	}
	return response.(CartSummary), nil
}

// Clear empties the cart of the given user.
func (s *CartService) Clear(ctx context.Context, userID string) (CartSummary, error) {
	response, err := s.invoker.Invoke(ctx, CartIdentity(userID), new(Clear))
	if err != nil {
		return CartSummary{}, err
	}
	return response.(CartSummary), nil
}

// degraded classifies errors a read can absorb. Store outages and timeouts
// degrade to empty views; everything else propagates.
func (s *CartService) degraded(userID string, err error) bool {
	if stderrors.Is(err, serrors.ErrStoreUnavailable) || stderrors.Is(err, serrors.ErrRequestTimeout) {
		s.logger.Warnf("cart (%s) read degraded: %v", userID, err)
		return true
	}
	return false
}
