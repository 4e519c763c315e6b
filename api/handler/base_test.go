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
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	serrors "github.com/tochemey/silo/errors"
)

func TestMapError(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "validation error",
			err:    serrors.NewValidationError("quantity", "must not be negative"),
			status: http.StatusBadRequest,
			code:   codeInvalidArgument,
		},
		{
			name:   "invalid identity",
			err:    serrors.NewErrInvalidIdentity(stderrors.New("empty name")),
			status: http.StatusBadRequest,
			code:   codeInvalidArgument,
		},
		{
			name:   "not found",
			err:    serrors.NewErrNotFound("product/p-1"),
			status: http.StatusNotFound,
			code:   codeNotFound,
		},
		{
			name:   "version conflict",
			err:    serrors.NewErrVersionConflict(stderrors.New("expected 3, stored 5")),
			status: http.StatusConflict,
			code:   codeConflict,
		},
		{
			name:   "store unavailable behind an activation failure",
			err:    serrors.NewErrActivationFailure(serrors.NewErrStoreUnavailable(stderrors.New("dial refused"))),
			status: http.StatusServiceUnavailable,
			code:   codeStoreUnavailable,
		},
		{
			name:   "request timeout",
			err:    serrors.ErrRequestTimeout,
			status: http.StatusGatewayTimeout,
			code:   codeTimeout,
		},
		{
			name:   "mailbox full",
			err:    serrors.ErrMailboxFull,
			status: http.StatusTooManyRequests,
			code:   codeBusy,
		},
		{
			name:   "engine not started",
			err:    serrors.ErrEngineNotStarted,
			status: http.StatusServiceUnavailable,
			code:   codeUnavailable,
		},
		{
			name:   "unclassified",
			err:    stderrors.New("boom"),
			status: http.StatusInternalServerError,
			code:   codeInternal,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			status, code := mapError(testCase.err)
			require.Equal(t, testCase.status, status)
			require.Equal(t, testCase.code, code)
		})
	}
}
