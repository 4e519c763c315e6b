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

import "sort"

// CartItem is a product pinned into a cart with the price observed at the
// last add or update.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// TotalPrice returns the item cost, rounded to cents.
func (i CartItem) TotalPrice() float64 {
	return round2(float64(i.Quantity) * i.Product.UnitPrice)
}

// CartSummary is the post-operation view of a cart: its items in stable
// order plus the derived aggregates.
type CartSummary struct {
	Items      []CartItem `json:"items"`
	TotalCount int        `json:"total_count"`
	TotalPrice float64    `json:"total_price"`
}

// SummarizeCart aggregates the given items into a CartSummary. Items are
// sorted by product id so repeated calls over the same cart produce the same
// document.
func SummarizeCart(items []CartItem) CartSummary {
	sorted := make([]CartItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Product.ID < sorted[j].Product.ID
	})

	var count int
	var total float64
	for _, item := range sorted {
		count += item.Quantity
		total += item.TotalPrice()
	}

	return CartSummary{
		Items:      sorted,
		TotalCount: count,
		TotalPrice: round2(total),
	}
}
