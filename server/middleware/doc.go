// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware chain for MangaFE.

Each middleware has the [Middleware] signature and is installed with
router.Use. [CatchError] adapts error-returning handlers, such as the
navigator, into plain http.Handlers and renders the error page.
*/
package middleware
