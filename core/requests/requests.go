// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package requests performs GET requests against the upstream catalog API.
package requests

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/audit"
	"codeberg.org/mangafe/mangafe/core/idgen"
	"codeberg.org/mangafe/mangafe/server/metrics"
	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/server/utils"
)

// maxBodySize bounds how much of an upstream response is read.
const maxBodySize = 16 << 20

var (
	ErrInvalidJSON      = errors.New("response contained invalid JSON")
	errAPIResponseError = errors.New("API response indicated error")
	errBodyTooLarge     = errors.New("response body too large")
)

// APIError represents an error reported by the upstream API.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	StatusCode int

	// Message is the first error detail from the response, or the status text.
	Message string

	Err error
}

// Error returns a formatted error message including the status code and API message if available.
func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	fmt.Fprintf(&b, " (status code: %d)", e.StatusCode)

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError

	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// GetJSON performs a GET request and returns the validated JSON body.
//
// Successful responses may be served from and stored in the response cache.
//
// Returns an error if:
//   - The request fails or exceeds Upstream.Timeout
//   - The status code is 400 or above (as *APIError)
//   - The body is not valid JSON
//   - The body's "result" field is "error" (as *APIError)
func GetJSON(ctx context.Context, url string) ([]byte, error) {
	if body, ok := cacheGet(url); ok {
		if gjson.ValidBytes(body) {
			logCacheHit(ctx, url, len(body))

			return body, nil
		}

		cacheDrop(url)
	}

	resp, body, err := sendRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.StatusCode),
			Err:        errAPIResponseError,
		}
	}

	if err := processJSONResponse(body, resp.StatusCode); err != nil {
		return nil, err
	}

	cachePut(url, body)

	return body, nil
}

// processJSONResponse checks that body is JSON and that it does not report
// `"result": "error"`.
func processJSONResponse(body []byte, statusCode int) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: %.200s", ErrInvalidJSON, body)
	}

	if gjson.GetBytes(body, "result").String() == "error" {
		return &APIError{
			StatusCode: statusCode,
			Message:    errorMessage(body, statusCode),
			Err:        errAPIResponseError,
		}
	}

	return nil
}

// errorMessage extracts the first error's detail or title, falling back to
// the HTTP status text.
func errorMessage(body []byte, statusCode int) string {
	first := gjson.GetBytes(body, "errors.0")

	if detail := first.Get("detail").String(); detail != "" {
		return detail
	}

	if title := first.Get("title").String(); title != "" {
		return title
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}

	return "An unknown API error occurred"
}

// sendRequest executes a GET request for url and reads the whole body.
func sendRequest(ctx context.Context, url string) (_ *http.Response, _ []byte, err error) {
	if timeout := config.Global.Upstream.Timeout; timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	span := audit.Span{
		Destination: audit.ToUpstream,
		RequestID:   request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:      http.MethodGet,
		URL:         url,
	}

	defer func() {
		span.Error = err
		span.End()
		span.Log()
	}()

	ctx = span.Begin(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", config.Global.Upstream.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) > maxBodySize {
		return nil, nil, fmt.Errorf("%w: %s", errBodyTooLarge, url)
	}

	span.Size = len(body)

	return resp, body, nil
}

func logCacheHit(ctx context.Context, url string, size int) {
	metrics.Global.ObserveCacheHit()

	span := audit.Span{
		Destination: audit.ToUpstream,
		RequestID:   request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:      http.MethodGet,
		URL:         url,
		StatusCode:  http.StatusOK,
		Size:        size,
		Cached:      true,
	}

	_ = span.Begin(ctx)
	span.End()
	span.Log()
}
