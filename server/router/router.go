// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package router assembles the HTTP handler: the middleware chain, the fixed
// service endpoints and the navigator that serves every other path.
package router

import (
	"net/http"

	"codeberg.org/mangafe/mangafe/server/middleware"
	"codeberg.org/mangafe/mangafe/server/navigation"
)

// Router wraps http.ServeMux and provides middleware chaining functionality.
type Router struct {
	*http.ServeMux

	navigator   *navigation.Navigator
	middlewares []middleware.Middleware
}

// New creates a Router that hands page requests to navigator.
func New(navigator *navigation.Navigator) *Router {
	return &Router{
		ServeMux:  http.NewServeMux(),
		navigator: navigator,
	}
}

// Use adds a middleware to the router's chain.
//
// The first middleware added is the outermost one.
func (router *Router) Use(m middleware.Middleware) {
	router.middlewares = append(router.middlewares, m)
}

// serve runs router.middlewares[i] and every one after it, then the mux.
func (router *Router) serve(i int, w http.ResponseWriter, r *http.Request) {
	if i == len(router.middlewares) {
		router.ServeMux.ServeHTTP(w, r)

		return
	}

	router.middlewares[i](w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.serve(i+1, w, r)
	}))
}

// ServeHTTP runs the middleware chain, then the matching handler.
func (router *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	router.serve(0, w, r)
}
