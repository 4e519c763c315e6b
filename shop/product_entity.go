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

// GetProduct reads the product held by the addressed entity. An entity that
// has never been written reports ErrNotFound.
type GetProduct struct{}

// OperationName implements entity.Operation.
func (*GetProduct) OperationName() string { return "GetProduct" }

// PutProduct creates or replaces the product held by the addressed entity.
// The response is the stored product.
type PutProduct struct {
	Product Product
}

// OperationName implements entity.Operation.
func (*PutProduct) OperationName() string { return "PutProduct" }

// ProductEntity holds a single catalog entry. One instance exists per
// product id; the identity name is the product id.
type ProductEntity struct {
	product Product
}

// enforce compilation error
var _ entity.Entity = (*ProductEntity)(nil)

// NewProductEntity creates a blank product entity.
func NewProductEntity() *ProductEntity {
	return &ProductEntity{}
}

// Activate implements entity.Entity.
func (x *ProductEntity) Activate(_ context.Context, snapshot []byte) error {
	if snapshot == nil {
		return nil
	}
	return json.Unmarshal(snapshot, &x.product)
}

// Handle implements entity.Entity.
func (x *ProductEntity) Handle(_ context.Context, operation entity.Operation) (any, bool, error) {
	switch op := operation.(type) {
	case *GetProduct:
		if x.product.ID == "" {
			return nil, false, serrors.ErrNotFound
		}
		return x.product, false, nil
	case *PutProduct:
		return x.put(op.Product)
	default:
		return nil, false, serrors.NewErrInvalidOperation(operation.OperationName())
	}
}

// put upserts the product. The id is pinned by the first write: the entity
// is addressed by product id, so storing a different one would detach the
// state from its identity.
func (x *ProductEntity) put(incoming Product) (any, bool, error) {
	if err := incoming.Validate(); err != nil {
		return nil, false, err
	}
	if x.product.ID != "" && x.product.ID != incoming.ID {
		return nil, false, serrors.NewValidationError("id", "does not match the stored product id")
	}
	if x.product == incoming {
		return x.product, false, nil
	}
	x.product = incoming
	return x.product, true, nil
}

// Snapshot implements entity.Entity.
func (x *ProductEntity) Snapshot() ([]byte, error) {
	return json.Marshal(x.product)
}

// Deactivate implements entity.Entity.
func (x *ProductEntity) Deactivate(context.Context) error {
	return nil
}
