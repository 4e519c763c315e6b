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

// Package handler implements the fasthttp request handlers of the shop REST
// boundary. Every response is wrapped in the transport envelope; runtime
// errors are translated to HTTP statuses by mapError.
package handler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/tochemey/silo/api/transport"
	serrors "github.com/tochemey/silo/errors"
	"github.com/tochemey/silo/log"
)

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Error codes carried in the envelope alongside the HTTP status.
const (
	codeInvalidArgument  = "INVALID_ARGUMENT"
	codeNotFound         = "NOT_FOUND"
	codeConflict         = "CONFLICT"
	codeTimeout          = "TIMEOUT"
	codeBusy             = "BUSY"
	codeStoreUnavailable = "STORE_UNAVAILABLE"
	codeUnavailable      = "UNAVAILABLE"
	codeInternal         = "INTERNAL"
)

type baseHandler struct {
	logger  log.Logger
	timeout time.Duration
}

func newBaseHandler(logger log.Logger, timeout time.Duration) baseHandler {
	if logger == nil {
		logger = log.DiscardLogger
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return baseHandler{logger: logger, timeout: timeout}
}

// requestContext bounds the downstream entity invocations. The fasthttp
// request context carries no deadline of its own, so the handler sets one.
func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.timeout)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data any) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorf("request failed: %v", err)
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func (h baseHandler) respondBadRequest(ctx *fasthttp.RequestCtx, reason string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(codeInvalidArgument, reason, nil))
}

// mapError translates runtime failures into an HTTP status and envelope
// code. More specific sentinels are matched first: an activation failure
// caused by a store outage reports the outage, not a bare internal error.
func mapError(err error) (int, string) {
	switch {
	case stderrors.Is(err, serrors.ErrInvalidArgument), stderrors.Is(err, serrors.ErrInvalidIdentity):
		return http.StatusBadRequest, codeInvalidArgument
	case stderrors.Is(err, serrors.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case stderrors.Is(err, serrors.ErrVersionConflict):
		return http.StatusConflict, codeConflict
	case stderrors.Is(err, serrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, codeStoreUnavailable
	case stderrors.Is(err, serrors.ErrRequestTimeout):
		return http.StatusGatewayTimeout, codeTimeout
	case stderrors.Is(err, serrors.ErrMailboxFull):
		return http.StatusTooManyRequests, codeBusy
	case stderrors.Is(err, serrors.ErrEngineNotStarted), stderrors.Is(err, serrors.ErrEngineStopped):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
