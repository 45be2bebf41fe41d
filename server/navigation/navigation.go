// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package navigation turns request paths into view activations.

A [Navigator] strips the mount point from the request path, resolves the rest
against a route table and calls the handler bound to the matched pattern's view.
Paths that match nothing yield [ErrNoRoute].
*/
package navigation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/server/metrics"
	"codeberg.org/mangafe/mangafe/server/request_context"
)

var (
	// ErrNoRoute is returned when a path matches no pattern.
	ErrNoRoute = errors.New("no route matches path")

	// ErrUnboundView is returned by New when a pattern's view has no handler.
	ErrUnboundView = errors.New("no handler bound to view")
)

// ViewHandler renders a view for the parameters captured by a match.
type ViewHandler func(w http.ResponseWriter, r *http.Request, params map[string]string) error

// Navigator dispatches requests to views. It is safe for concurrent use.
type Navigator struct {
	table    *resolver.Table
	views    map[resolver.View]ViewHandler
	basePath string
}

// New binds views to the patterns of table.
//
// basePath is the mount point, e.g. "/" or "/reader/". Every view named by a
// pattern must have a handler.
func New(table *resolver.Table, basePath string, views map[resolver.View]ViewHandler) (*Navigator, error) {
	for _, p := range table.Patterns() {
		if views[p.View] == nil {
			return nil, fmt.Errorf("%w: route %q wants view %q", ErrUnboundView, p.Name, p.View)
		}
	}

	if basePath == "" {
		basePath = "/"
	}

	return &Navigator{
		table:    table,
		views:    maps.Clone(views),
		basePath: basePath,
	}, nil
}

// Resolve strips the base path from path and resolves the remainder.
func (n *Navigator) Resolve(path string) (resolver.Match, bool) {
	routePath, ok := n.stripBasePath(path)
	if !ok {
		return resolver.Match{}, false
	}

	return n.table.Resolve(routePath)
}

// Navigate resolves the request path and activates the bound view.
//
// The route name and params are stored in the request context, and the
// navigator itself is made available to [Href] for the rest of the request.
func (n *Navigator) Navigate(w http.ResponseWriter, r *http.Request) error {
	match, ok := n.Resolve(r.URL.Path)

	metrics.Global.ObserveResolution(match.Name())

	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRoute, r.URL.Path)
	}

	rc := request_context.FromRequest(r)
	rc.RouteName = match.Name()
	rc.Params = match.Params

	r = r.WithContext(context.WithValue(r.Context(), navigatorKey{}, n))

	return n.views[match.Pattern.View](w, r, match.Params)
}

// Href builds the link for a named route, including the base path.
func (n *Navigator) Href(name string, params map[string]string) (string, error) {
	path, err := n.table.Path(name, params)
	if err != nil {
		return "", err
	}

	return n.basePath + strings.TrimPrefix(path, "/"), nil
}

// stripBasePath maps a request path onto the route table's root.
func (n *Navigator) stripBasePath(path string) (string, bool) {
	if n.basePath == "/" {
		return path, true
	}

	rest, ok := strings.CutPrefix(path, n.basePath)
	if !ok {
		return "", false
	}

	return "/" + rest, true
}

type navigatorKey struct{}

// Href builds a link for a named route using the navigator serving the
// request, falling back to the manga table under Basic.BasePath.
//
// Unknown routes and missing parameters are programming errors; they are
// logged and the link points at the base path.
func Href(ctx context.Context, name string, params map[string]string) string {
	n, ok := ctx.Value(navigatorKey{}).(*Navigator)
	if !ok {
		n = &Navigator{table: resolver.Manga(), basePath: config.Global.Basic.BasePath}
		if n.basePath == "" {
			n.basePath = "/"
		}
	}

	href, err := n.Href(name, params)
	if err != nil {
		log.Error().Err(err).Str("route", name).Msg("Failed to build link")

		return n.basePath
	}

	return href
}

// HrefID is Href for routes taking a single id parameter.
func HrefID(ctx context.Context, name, id string) string {
	return Href(ctx, name, map[string]string{resolver.IDParam: id})
}
