// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/core/requests"
	"codeberg.org/mangafe/mangafe/server/navigation"
	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/server/routes"
)

// createTestRequest creates a test HTTP request with request context.
func createTestRequest(t *testing.T) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

func TestCatchErrorSuccess(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status": "success"}`))

		return err
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "success"}`, rr.Body.String())
	assert.Equal(t, "public, max-age=60", rr.Header().Get("Cache-Control"))

	ctx := request_context.FromRequest(req)
	require.NoError(t, ctx.RequestError)
	assert.Equal(t, http.StatusOK, ctx.StatusCode)
}

func TestCatchErrorHandlerError(t *testing.T) {
	t.Parallel()

	testError := errors.New("test handler error")

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		_, _ = w.Write([]byte("partial output"))

		return testError
	})

	req := createTestRequest(t)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "partial output")
	assert.Contains(t, rr.Body.String(), "test handler error")
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	ctx := request_context.FromRequest(req)
	require.ErrorIs(t, ctx.RequestError, testError)
	assert.Equal(t, http.StatusInternalServerError, ctx.StatusCode)
}

func TestCatchErrorNotFound(t *testing.T) {
	t.Parallel()

	tests := map[string]error{
		"no route":        fmt.Errorf("%w: /nope", navigation.ErrNoRoute),
		"invalid id":      fmt.Errorf("%w: %q", routes.ErrInvalidID, "abc"),
		"page past end":   routes.ErrPageOutOfRange,
		"feed window":     fmt.Errorf("%w: 500", catalog.ErrPageOutOfRange),
		"bad external":    fmt.Errorf("%w: %q", routes.ErrExternalURL, "ftp://x"),
		"unknown manga":   fmt.Errorf("manga x: %w", catalog.ErrNotFound),
		"upstream 404":    &requests.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"},
		"written 404 nil": nil,
	}

	for name, handlerErr := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
				if handlerErr == nil {
					w.WriteHeader(http.StatusNotFound)
				}

				return handlerErr
			})

			req := createTestRequest(t)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusNotFound, rr.Code)
			assert.Contains(t, rr.Body.String(), "404 Not Found")
			assert.Contains(t, rr.Body.String(), request_context.FromRequest(req).RequestID)
		})
	}
}

func TestCatchErrorTrustsHandledStatus(t *testing.T) {
	t.Parallel()

	handler := CatchError(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("maintenance"))

		return errors.New("upstream down")
	})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, createTestRequest(t))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "maintenance", rr.Body.String())
}
