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
	"math"

	serrors "github.com/tochemey/silo/errors"
)

// Product describes a single catalog entry. The same value serves as the
// product entity state and as the per-category inventory summary.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    Category `json:"category"`
	Quantity    int      `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	DetailsURL  string   `json:"details_url,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// TotalPrice returns the stock value of the product, rounded to cents.
func (p Product) TotalPrice() float64 {
	return round2(float64(p.Quantity) * p.UnitPrice)
}

// Validate enforces the write invariants. A violation comes back as a
// ValidationError naming the offending field; the caller state is never
// touched on failure.
func (p Product) Validate() error {
	switch {
	case p.ID == "":
		return serrors.NewValidationError("id", "is required")
	case p.Name == "":
		return serrors.NewValidationError("name", "is required")
	case !p.Category.IsValid():
		return serrors.NewValidationError("category", "is not a known category")
	case p.Quantity < 0:
		return serrors.NewValidationError("quantity", "must not be negative")
	case p.UnitPrice < 0:
		return serrors.NewValidationError("unit_price", "must not be negative")
	default:
		return nil
	}
}

// round2 rounds monetary amounts to two decimal places.
func round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
