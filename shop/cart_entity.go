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
	"encoding/json"

	"github.com/tochemey/silo/entity"
	serrors "github.com/tochemey/silo/errors"
)

// ListItems reads the cart content. The response is a []CartItem sorted by
// product id.
type ListItems struct{}

// OperationName implements entity.Operation.
func (*ListItems) OperationName() string { return "ListItems" }

// AddOrUpdateItem puts the product into the cart with the given quantity.
// The quantity replaces any previous one, and the stored price snapshot is
// refreshed from the supplied product. The response is the post-mutation
// CartSummary.
type AddOrUpdateItem struct {
	Product  Product
	Quantity int
}

// OperationName implements entity.Operation.
func (*AddOrUpdateItem) OperationName() string { return "AddOrUpdateItem" }

// RemoveItem drops the product from the cart. Removing an absent product is
// a no-op. The response is the post-mutation CartSummary.
type RemoveItem struct {
	ProductID string
}

// OperationName implements entity.Operation.
func (*RemoveItem) OperationName() string { return "RemoveItem" }

// Clear empties the cart. The response is the post-mutation CartSummary.
type Clear struct{}

// OperationName implements entity.Operation.
func (*Clear) OperationName() string { return "Clear" }

// Count reads the total number of units across all items. The response is an
// int.
type Count struct{}

// OperationName implements entity.Operation.
func (*Count) OperationName() string { return "Count" }

// Total reads the cart total price. The response is a float64.
type Total struct{}

// OperationName implements entity.Operation.
func (*Total) OperationName() string { return "Total" }

type cartState struct {
	Items map[string]CartItem `json:"items"`
}

// CartEntity holds the shopping cart of one user. The identity name is the
// user id.
type CartEntity struct {
	items map[string]CartItem
}

// enforce compilation error
var _ entity.Entity = (*CartEntity)(nil)

// NewCartEntity creates an empty cart entity.
func NewCartEntity() *CartEntity {
	return &CartEntity{items: make(map[string]CartItem)}
}

// Activate implements entity.Entity.
func (x *CartEntity) Activate(_ context.Context, snapshot []byte) error {
	if snapshot == nil {
		return nil
	}

	state := new(cartState)
	if err := json.Unmarshal(snapshot, state); err != nil {
		return err
	}

	x.items = state.Items
	if x.items == nil {
		x.items = make(map[string]CartItem)
	}
	return nil
}

// Handle implements entity.Entity.
func (x *CartEntity) Handle(_ context.Context, operation entity.Operation) (any, bool, error) {
	switch op := operation.(type) {
	case *ListItems:
		return x.summary().Items, false, nil
	case *AddOrUpdateItem:
		return x.addOrUpdate(op.Product, op.Quantity)
	case *RemoveItem:
		if _, ok := x.items[op.ProductID]; !ok {
			return x.summary(), false, nil
		}
		delete(x.items, op.ProductID)
		return x.summary(), true, nil
	case *Clear:
		if len(x.items) == 0 {
			return x.summary(), false, nil
		}
		x.items = make(map[string]CartItem)
		return x.summary(), true, nil
	case *Count:
		return x.summary().TotalCount, false, nil
	case *Total:
		return x.summary().TotalPrice, false, nil
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

func (x *CartEntity) addOrUpdate(product Product, quantity int) (any, bool, error) {
	if quantity < 1 {
		return nil, false, serrors.NewValidationError("quantity", "must be at least 1")
	}
	if err := product.Validate(); err != nil {
		return nil, false, err
	}

	item := CartItem{Product: product, Quantity: quantity}
	if existing, ok := x.items[product.ID]; ok && existing == item {
		return x.summary(), false, nil
	}
	x.items[product.ID] = item
	return x.summary(), true, nil
}

func (x *CartEntity) summary() CartSummary {
	items := make([]CartItem, 0, len(x.items))
	for _, item := range x.items {
		items = append(items, item)
	}
	return SummarizeCart(items)
}

// Snapshot implements entity.Entity.
func (x *CartEntity) Snapshot() ([]byte, error) {
	return json.Marshal(&cartState{Items: x.items})
}

// Deactivate implements entity.Entity.
func (x *CartEntity) Deactivate(context.Context) error {
	return nil
}
