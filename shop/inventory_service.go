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
	"sort"
	"sync"

	goset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tochemey/silo/entity"
	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/log"
)

// Invoker is the slice of the engine the shop services depend on.
type Invoker interface {
	Invoke(ctx context.Context, to *entity.Identity, operation entity.Operation) (any, error)
}

// HealthStatus is the service health document exposed by the REST boundary.
type HealthStatus struct {
	Status       string `json:"status"`
	ProductCount int    `json:"product_count"`
}

// InventoryService aggregates the per-category inventory entities into one
// catalog view and fronts the product entities for reads and writes.
type InventoryService struct {
	invoker Invoker
	logger  log.Logger
}

// NewInventoryService creates an InventoryService invoking entities through
// the given engine.
func NewInventoryService(invoker Invoker, logger log.Logger) *InventoryService {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &InventoryService{
		invoker: invoker,
		logger:  logger,
	}
}

// GetAllProducts returns the union of every category listing, sorted by
// product id. A failing category is logged and skipped, so the result may be
// partial; categories that answered are always included.
func (s *InventoryService) GetAllProducts(ctx context.Context) []Product {
	products, _ := s.collect(ctx)
	return products
}

// CountProducts returns the number of distinct products across all
// categories, subject to the same partial-result semantics as
// GetAllProducts.
func (s *InventoryService) CountProducts(ctx context.Context) int {
	products, _ := s.collect(ctx)
	return len(products)
}

// ProductsByCategory returns the products tracked by one category. Unlike
// the aggregate listing this fails hard.
func (s *InventoryService) ProductsByCategory(ctx context.Context, category Category) ([]Product, error) {
	response, err := s.invoker.Invoke(ctx, InventoryIdentity(category), new(ListProducts))
	if err != nil {
		return nil, err
	}
	return response.([]Product), nil
}

// GetProduct returns the product stored under the given id.
func (s *InventoryService) GetProduct(ctx context.Context, productID string) (Product, error) {
	to := ProductIdentity(productID)
	response, err := s.invoker.Invoke(ctx, to, new(GetProduct))
	if err != nil {
		if stderrors.Is(err, serrors.ErrNotFound) {
			return Product{}, serrors.NewErrNotFound(to.String())
		}
		return Product{}, err
	}
	return response.(Product), nil
}

// PutProduct creates or updates the product and tracks it in its category
// inventory. A category change untracks the product from its previous
// category first; both writes fail hard. Cross-entity consistency is
// best-effort: a crash between the two writes leaves the product stored but
// not yet listed, and the next put heals the listing.
func (s *InventoryService) PutProduct(ctx context.Context, product Product) (Product, error) {
	if err := product.Validate(); err != nil {
		return Product{}, err
	}

	previous, err := s.GetProduct(ctx, product.ID)
	switch {
	case err == nil:
	case stderrors.Is(err, serrors.ErrNotFound):
	default:
		return Product{}, err
	}

	response, err := s.invoker.Invoke(ctx, ProductIdentity(product.ID), &PutProduct{Product: product})
	if err != nil {
		return Product{}, err
	}
	stored := response.(Product)

	if previous.ID != "" && previous.Category != stored.Category {
		if _, err := s.invoker.Invoke(ctx, InventoryIdentity(previous.Category), &UntrackProduct{ProductID: stored.ID}); err != nil {
			return Product{}, err
		}
	}

	if _, err := s.invoker.Invoke(ctx, InventoryIdentity(stored.Category), &TrackProduct{Product: stored}); err != nil {
		return Product{}, err
	}
	return stored, nil
}

// RemoveProduct untracks the product from the given category inventory and
// reports whether it was listed there. The product entity keeps its state;
// an untracked product is simply invisible to catalog listings.
func (s *InventoryService) RemoveProduct(ctx context.Context, category Category, productID string) (bool, error) {
	response, err := s.invoker.Invoke(ctx, InventoryIdentity(category), &UntrackProduct{ProductID: productID})
	if err != nil {
		return false, err
	}
	return response.(bool), nil
}

// Health reports the catalog health: healthy when every category answered,
// degraded otherwise, along with the distinct product count.
func (s *InventoryService) Health(ctx context.Context) HealthStatus {
	products, failures := s.collect(ctx)
	status := "healthy"
	if failures > 0 {
		status = "degraded"
	}
	return HealthStatus{
		Status:       status,
		ProductCount: len(products),
	}
}

// collect fans out one listing per category and unions the results keyed by
// product id. Failed categories are logged and counted, never fatal.
func (s *InventoryService) collect(ctx context.Context) ([]Product, int) {
	var mu sync.Mutex
	seen := goset.NewThreadUnsafeSet[string]()
	union := make([]Product, 0)
	failures := 0

	eg := new(errgroup.Group)
	for _, category := range Categories() {
		eg.Go(func() error {
			products, err := s.ProductsByCategory(ctx, category)
			if err != nil {
				s.logger.Warnf("inventory (%s) listing failed: %v", category, err)
				mu.Lock()
				failures++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			for _, product := range products {
				if seen.Add(product.ID) {
					union = append(union, product)
				}
			}
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(union, func(i, j int) bool {
		return union[i].ID < union[j].ID
	})
	return union, failures
}
