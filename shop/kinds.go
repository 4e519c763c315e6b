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

// Package shop implements the shopping-cart reference domain on top of the
// entity runtime: one product entity per catalog entry, one inventory entity
// per category, one cart entity per user, plus the aggregate services the
// REST boundary is built on.
package shop

import (
	"github.com/tochemey/silo/entity"
)

// Entity kind names as registered on the engine.
const (
	KindProduct   = "product"
	KindInventory = "inventory"
	KindCart      = "cart"
)

// ProductIdentity addresses the product entity holding the given product id.
func ProductIdentity(productID string) *entity.Identity {
	return entity.NewIdentity(KindProduct, productID)
}

// InventoryIdentity addresses the inventory entity of the given category.
func InventoryIdentity(category Category) *entity.Identity {
	return entity.NewIdentity(KindInventory, string(category))
}

// CartIdentity addresses the cart entity of the given user.
func CartIdentity(userID string) *entity.Identity {
	return entity.NewIdentity(KindCart, userID)
}

// RegisterKinds registers the shop entity factories on the engine. Kinds
// inherit the engine-level mailbox and passivation settings.
func RegisterKinds(engine *entity.Engine) error {
	if err := engine.RegisterKind(KindProduct, func() entity.Entity { return NewProductEntity() }); err != nil {
		return err
	}
	if err := engine.RegisterKind(KindInventory, func() entity.Entity { return NewInventoryEntity() }); err != nil {
		return err
	}
	return engine.RegisterKind(KindCart, func() entity.Entity { return NewCartEntity() })
}
