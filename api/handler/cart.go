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
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/tochemey/silo/api/transport"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/shop"
)

// CartHandler serves the cart routes. One cart exists per user; the user id
// is carried in the path.
type CartHandler struct {
	baseHandler
	carts *shop.CartService
}

// NewCartHandler creates a CartHandler backed by the given cart service.
func NewCartHandler(carts *shop.CartService, logger log.Logger, timeout time.Duration) *CartHandler {
	return &CartHandler{
		baseHandler: newBaseHandler(logger, timeout),
		carts:       carts,
	}
}

// GetCart handles GET /api/v1/cart/{userID}.
func (h *CartHandler) GetCart(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.carts.Summary(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewCartView(summary))
}

// AddItem handles POST /api/v1/cart/{userID}/items.
func (h *CartHandler) AddItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.AddItemRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondBadRequest(ctx, "invalid payload")
		return
	}
	if req.ProductID == "" {
		h.respondBadRequest(ctx, "missing product id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.carts.AddItem(stdCtx, userID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewCartView(summary))
}

// RemoveItem handles DELETE /api/v1/cart/{userID}/items/{productID}.
func (h *CartHandler) RemoveItem(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	productID, _ := ctx.UserValue("productID").(string)
	if productID == "" {
		h.respondBadRequest(ctx, "missing product id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.carts.RemoveItem(stdCtx, userID, productID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewCartView(summary))
}

// ClearCart handles DELETE /api/v1/cart/{userID}.
func (h *CartHandler) ClearCart(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.carts.Clear(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewCartView(summary))
}

func (h *CartHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID, _ := ctx.UserValue("userID").(string)
	if userID == "" {
		h.respondBadRequest(ctx, "missing user id")
	}
	return userID
}
