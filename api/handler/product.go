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

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/tochemey/silo/api/transport"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/shop"
)

// ProductHandler serves the catalog routes: product reads and writes plus
// the per-category listings.
type ProductHandler struct {
	baseHandler
	inventory *shop.InventoryService
}

// NewProductHandler creates a ProductHandler backed by the given inventory
// service.
func NewProductHandler(inventory *shop.InventoryService, logger log.Logger, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		baseHandler: newBaseHandler(logger, timeout),
		inventory:   inventory,
	}
}

// GetProducts handles GET /api/v1/products. The listing is the union of
// every category and may be partial when a category is unreachable.
func (h *ProductHandler) GetProducts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	products := h.inventory.GetAllProducts(stdCtx)
	h.respondSuccess(ctx, http.StatusOK, transport.NewProductViews(products))
}

// GetProduct handles GET /api/v1/products/{id}.
func (h *ProductHandler) GetProduct(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondBadRequest(ctx, "missing product id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	product, err := h.inventory.GetProduct(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewProductView(product))
}

// CreateProduct handles POST /api/v1/products.
func (h *ProductHandler) CreateProduct(ctx *fasthttp.RequestCtx) {
	product, ok := h.parseProduct(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stored, err := h.inventory.PutProduct(stdCtx, product)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewProductView(stored))
}

// UpdateProduct handles PUT /api/v1/products/{id}. The path id is
// authoritative and overrides any id carried in the payload.
func (h *ProductHandler) UpdateProduct(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondBadRequest(ctx, "missing product id")
		return
	}

	product, ok := h.parseProduct(ctx)
	if !ok {
		return
	}
	product.ID = id

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	stored, err := h.inventory.PutProduct(stdCtx, product)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewProductView(stored))
}

// GetCategories handles GET /api/v1/categories.
func (h *ProductHandler) GetCategories(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, transport.CategoriesView{Categories: shop.Categories()})
}

// GetCategoryProducts handles GET /api/v1/categories/{category}/products.
func (h *ProductHandler) GetCategoryProducts(ctx *fasthttp.RequestCtx) {
	category, ok := h.parseCategory(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	products, err := h.inventory.ProductsByCategory(stdCtx, category)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewProductViews(products))
}

// RemoveProduct handles DELETE /api/v1/categories/{category}/products/{id}.
// Removing a product that is not listed in the category reports 404.
func (h *ProductHandler) RemoveProduct(ctx *fasthttp.RequestCtx) {
	category, ok := h.parseCategory(ctx)
	if !ok {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondBadRequest(ctx, "missing product id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	removed, err := h.inventory.RemoveProduct(stdCtx, category, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if !removed {
		h.respondJSON(ctx, http.StatusNotFound, transport.NewError(codeNotFound,
			fmt.Sprintf("product %s is not listed in category %s", id, category), nil))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.Message{
		Message: fmt.Sprintf("product %s removed successfully", id),
	})
}

func (h *ProductHandler) parseProduct(ctx *fasthttp.RequestCtx) (shop.Product, bool) {
	var product shop.Product
	if err := json.Unmarshal(ctx.PostBody(), &product); err != nil {
		h.respondBadRequest(ctx, "invalid payload")
		return shop.Product{}, false
	}
	return product, true
}

func (h *ProductHandler) parseCategory(ctx *fasthttp.RequestCtx) (shop.Category, bool) {
	raw, _ := ctx.UserValue("category").(string)
	category, err := shop.ParseCategory(raw)
	if err != nil {
		h.respondError(ctx, err)
		return "", false
	}
	return category, true
}
