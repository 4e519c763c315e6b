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
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/tochemey/silo/api/transport"
	"github.com/tochemey/silo/entity"
	"github.com/tochemey/silo/log"
	"github.com/tochemey/silo/shop"
)

// HealthHandler serves GET /healthz. The document reports the catalog health
// with the distinct product count; a degraded catalog still answers 200 so
// load balancers keep routing while one category is unreachable.
type HealthHandler struct {
	baseHandler
	engine    *entity.Engine
	inventory *shop.InventoryService
}

// NewHealthHandler creates a HealthHandler probing the given engine and
// inventory.
func NewHealthHandler(engine *entity.Engine, inventory *shop.InventoryService, logger log.Logger, timeout time.Duration) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(logger, timeout),
		engine:      engine,
		inventory:   inventory,
	}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	if !h.engine.Running() {
		h.respondJSON(ctx, http.StatusServiceUnavailable,
			transport.NewError(codeUnavailable, "entity engine is not running", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.respondSuccess(ctx, http.StatusOK, h.inventory.Health(stdCtx))
}
