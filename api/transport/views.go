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

package transport

import "github.com/tochemey/silo/shop"

// ProductView is the product document as emitted on the wire, the stored
// fields plus the derived line total.
type ProductView struct {
	shop.Product
	TotalPrice float64 `json:"total_price"`
}

// NewProductView derives the wire view of one product.
func NewProductView(product shop.Product) ProductView {
	return ProductView{
		Product:    product,
		TotalPrice: product.TotalPrice(),
	}
}

// NewProductViews derives the wire views of a product listing, preserving
// order.
func NewProductViews(products []shop.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, NewProductView(product))
	}
	return views
}

// CartItemView is one cart line as emitted on the wire.
type CartItemView struct {
	Product    ProductView `json:"product"`
	Quantity   int         `json:"quantity"`
	TotalPrice float64     `json:"total_price"`
}

// CartView is the cart document as emitted on the wire.
type CartView struct {
	Items      []CartItemView `json:"items"`
	TotalCount int            `json:"total_count"`
	TotalPrice float64        `json:"total_price"`
}

// NewCartView derives the wire view of a cart summary.
func NewCartView(summary shop.CartSummary) CartView {
	items := make([]CartItemView, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, CartItemView{
			Product:    NewProductView(item.Product),
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice(),
		})
	}
	return CartView{
		Items:      items,
		TotalCount: summary.TotalCount,
		TotalPrice: summary.TotalPrice,
	}
}

// CategoriesView is the category listing document.
type CategoriesView struct {
	Categories []shop.Category `json:"categories"`
}

// Message is a plain informational response body.
type Message struct {
	Message string `json:"message"`
}
