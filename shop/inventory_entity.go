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
	"sort"

	goset "github.com/deckarep/golang-set/v2"

	"github.com/tochemey/silo/entity"
	serrors "github.com/tochemey/silo/errors"
)

// ListProducts reads every product tracked by the addressed inventory. The
// response is a []Product sorted by id.
type ListProducts struct{}

// OperationName implements entity.Operation.
func (*ListProducts) OperationName() string { return "ListProducts" }

// TrackProduct upserts the product summary into the inventory. Tracking an
// identical summary twice is a no-op. The response is the tracked product.
type TrackProduct struct {
	Product Product
}

// OperationName implements entity.Operation.
func (*TrackProduct) OperationName() string { return "TrackProduct" }

// UntrackProduct removes the product id from the inventory. The response
// reports whether the id was present.
type UntrackProduct struct {
	ProductID string
}

// OperationName implements entity.Operation.
func (*UntrackProduct) OperationName() string { return "UntrackProduct" }

// inventoryState is the snapshot document. The id list reconstructs the
// membership set on activation.
type inventoryState struct {
	ProductIDs []string           `json:"product_ids"`
	Products   map[string]Product `json:"products"`
}

// InventoryEntity tracks the products of one category. One instance exists
// per category; the identity name is the category.
//
// The runtime serializes all access, so the membership set is deliberately
// the thread-unsafe variant.
type InventoryEntity struct {
	ids      goset.Set[string]
	products map[string]Product
}

// enforce compilation error
var _ entity.Entity = (*InventoryEntity)(nil)

// NewInventoryEntity creates an empty inventory entity.
func NewInventoryEntity() *InventoryEntity {
	return &InventoryEntity{
		ids:      goset.NewThreadUnsafeSet[string](),
		products: make(map[string]Product),
	}
}

// Activate implements entity.Entity.
func (x *InventoryEntity) Activate(_ context.Context, snapshot []byte) error {
	if snapshot == nil {
		return nil
	}

	state := new(inventoryState)
	if err := json.Unmarshal(snapshot, state); err != nil {
		return err
	}

	x.ids = goset.NewThreadUnsafeSet(state.ProductIDs...)
	x.products = state.Products
	if x.products == nil {
		x.products = make(map[string]Product)
	}
	return nil
}

// Handle implements entity.Entity.
func (x *InventoryEntity) Handle(_ context.Context, operation entity.Operation) (any, bool, error) {
	switch op := operation.(type) {
	case *ListProducts:
		return x.list(), false, nil
	case *TrackProduct:
		return x.track(op.Product)
	case *UntrackProduct:
		return x.untrack(op.ProductID)
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

// list builds the listing fresh on every call so callers can never alias the
// entity state.
func (x *InventoryEntity) list() []Product {
	products := make([]Product, 0, len(x.products))
	for _, product := range x.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
	return products
}

func (x *InventoryEntity) track(incoming Product) (any, bool, error) {
	if err := incoming.Validate(); err != nil {
		return nil, false, err
	}
	if existing, ok := x.products[incoming.ID]; ok && existing == incoming {
		return incoming, false, nil
	}
	x.ids.Add(incoming.ID)
	x.products[incoming.ID] = incoming
	return incoming, true, nil
}

func (x *InventoryEntity) untrack(productID string) (any, bool, error) {
	if !x.ids.Contains(productID) {
		return false, false, nil
	}
	x.ids.Remove(productID)
	delete(x.products, productID)
	return true, true, nil
}

// Snapshot implements entity.Entity.
func (x *InventoryEntity) Snapshot() ([]byte, error) {
	ids := x.ids.ToSlice()
	sort.Strings(ids)
	return json.Marshal(&inventoryState{
		ProductIDs: ids,
		Products:   x.products,
	})
}

// Deactivate implements entity.Entity.
func (x *InventoryEntity) Deactivate(context.Context) error {
	return nil
}
