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
	"fmt"
	"strings"

	serrors "github.com/tochemey/silo/errors"
)

// Category partitions the product catalog. Each category is served by its
// own inventory entity, so listings and writes against different categories
// never contend.
type Category string

const (
	CategoryAccessories Category = "Accessories"
	CategoryHardware    Category = "Hardware"
	CategorySoftware    Category = "Software"
	CategoryBooks       Category = "Books"
	CategoryMovies      Category = "Movies"
	CategoryMusic       Category = "Music"
	CategoryGames       Category = "Games"
	CategoryOther       Category = "Other"
)

// Categories returns every known category in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryAccessories,
		CategoryHardware,
		CategorySoftware,
		CategoryBooks,
		CategoryMovies,
		CategoryMusic,
		CategoryGames,
		CategoryOther,
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true when the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAccessories, CategoryHardware, CategorySoftware, CategoryBooks,
		CategoryMovies, CategoryMusic, CategoryGames, CategoryOther:
		return true
	default:
		return false
	}
}

// ParseCategory resolves the given value into a known category. Matching is
// case-insensitive; unknown values come back as a ValidationError naming the
// valid set.
func ParseCategory(value string) (Category, error) {
	for _, category := range Categories() {
		if strings.EqualFold(value, string(category)) {
			return category, nil
		}
	}

	valid := make([]string, 0, len(Categories()))
	for _, category := range Categories() {
		valid = append(valid, string(category))
	}
	return "", serrors.NewValidationError("category",
		fmt.Sprintf("invalid category %q. Valid categories: %s", value, strings.Join(valid, ", ")))
}
