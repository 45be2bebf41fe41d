// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/audit"
	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/core/requests"
	"codeberg.org/mangafe/mangafe/server/metrics"
	"codeberg.org/mangafe/mangafe/server/navigation"
	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/server/routes"
)

// CatchError wraps HTTP handlers that return an error, providing centralized error handling,
// response buffering, and request logging.
//
// The handler's output is buffered in an httptest.ResponseRecorder and any
// returned error is stored in the request context. Then:
//   - Errors meaning "this page does not exist" (no matching route, an
//     invalid id, an unknown upstream entry, a page past the end) discard the
//     buffered response and render a 404 error page.
//   - Any other error, unless the handler already wrote a status of 400 or
//     above, discards the buffered response and renders a 500 error page.
//   - A handler-written 404 without an error is also replaced by the error page.
//   - Everything else is written to the client as buffered.
//
// Finally, it records request metrics and logs the request via the audit package.
func CatchError(handler func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		ctx.RequestError = err

		switch {
		case isNotFound(err) || (err == nil && recorder.Code == http.StatusNotFound):
			ctx.StatusCode = http.StatusNotFound
			span.Size = writeErrorPage(w, r)

		case err != nil && recorder.Code < http.StatusBadRequest:
			ctx.StatusCode = http.StatusInternalServerError
			span.Size = writeErrorPage(w, r)

		default:
			if recorder.Code == 0 {
				recorder.Code = http.StatusOK
			}

			ctx.StatusCode = recorder.Code
			span.Size = recorder.Body.Len()

			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.End()

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError
		span.Route = ctx.RouteName

		metrics.Global.ObserveRequest(ctx.RouteName, ctx.StatusCode, span.Duration())

		if !config.Global.ShouldSkipServerLogging(r.URL.Path) {
			span.Log()
		}
	}
}

// isNotFound reports whether err means the requested page does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, navigation.ErrNoRoute) ||
		errors.Is(err, routes.ErrInvalidID) ||
		errors.Is(err, routes.ErrPageOutOfRange) ||
		errors.Is(err, routes.ErrExternalURL) ||
		errors.Is(err, catalog.ErrNotFound) ||
		requests.IsNotFound(err)
}

// writeErrorPage renders the error page for the status in the request context
// and returns the number of bytes written.
func writeErrorPage(w http.ResponseWriter, r *http.Request) int {
	ctx := request_context.FromRequest(r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(ctx.StatusCode)

	cw := &countingWriter{w: w}

	if err := routes.ErrorPage(cw, r); err != nil {
		log.Err(err).
			AnErr("original_error", ctx.RequestError).
			Msg("Failed to render the error page")
	}

	return cw.n
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w http.ResponseWriter
	n int
}

func (c *countingWriter) Header() http.Header { return c.w.Header() }

func (c *countingWriter) WriteHeader(code int) { c.w.WriteHeader(code) }

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n

	return n, err
}
