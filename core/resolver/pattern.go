// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package resolver

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	separator   = "/"
	paramPrefix = ":"
)

// View is an opaque handle to the view a route activates.
//
// The resolver never interprets it; the navigation layer binds it to a handler.
type View string

// Pattern is a single route definition.
type Pattern struct {
	// Name uniquely identifies the route, e.g. "manga-detail".
	Name string
	// Path is the segment template, e.g. "/manga/:id".
	Path string
	// View is passed through to the caller untouched.
	View View

	segments []segment
}

// segment is one compiled "/"-delimited part of a pattern.
// A non-empty param marks a capture; literal is matched verbatim otherwise.
type segment struct {
	literal string
	param   string
}

// compile splits p.Path into segments and checks that it is well formed.
func (p *Pattern) compile() error {
	if p.Name == "" {
		return fmt.Errorf("%w: route with path %q has no name", ErrInvalidPattern, p.Path)
	}

	if !strings.HasPrefix(p.Path, separator) {
		return fmt.Errorf("%w: %s: path %q must start with %q", ErrInvalidPattern, p.Name, p.Path, separator)
	}

	parts := strings.Split(p.Path, separator)
	segments := make([]segment, len(parts))
	seen := make(map[string]bool)

	for i, part := range parts {
		name, isParam := strings.CutPrefix(part, paramPrefix)
		if !isParam {
			segments[i] = segment{literal: part}

			continue
		}

		if name == "" {
			return fmt.Errorf("%w: %s: empty parameter name in %q", ErrInvalidPattern, p.Name, p.Path)
		}

		if seen[name] {
			return fmt.Errorf("%w: %s: parameter %q repeated in %q", ErrInvalidPattern, p.Name, name, p.Path)
		}

		seen[name] = true
		segments[i] = segment{param: name}
	}

	p.segments = segments

	return nil
}

// Params lists the pattern's parameter names in path order.
func (p Pattern) Params() []string {
	var names []string

	for _, seg := range p.segments {
		if seg.param != "" {
			names = append(names, seg.param)
		}
	}

	return names
}

// match reports whether parts (a path split on "/") fits the pattern and,
// if so, returns the captured parameters.
func (p Pattern) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(p.segments) {
		return nil, false
	}

	for i, seg := range p.segments {
		if seg.param == "" {
			if seg.literal != parts[i] {
				return nil, false
			}

			continue
		}

		// A capture binds exactly one non-empty segment.
		if parts[i] == "" {
			return nil, false
		}
	}

	params := make(map[string]string, len(p.segments))

	for i, seg := range p.segments {
		if seg.param != "" {
			params[seg.param] = parts[i]
		}
	}

	return params, true
}

// Build renders a concrete path from the pattern, escaping each parameter value.
func (p Pattern) Build(params map[string]string) (string, error) {
	parts := make([]string, len(p.segments))

	for i, seg := range p.segments {
		if seg.param == "" {
			parts[i] = seg.literal

			continue
		}

		value := params[seg.param]
		if value == "" {
			return "", fmt.Errorf("%w: %s requires %q", ErrMissingParam, p.Name, seg.param)
		}

		parts[i] = url.PathEscape(value)
	}

	return strings.Join(parts, separator), nil
}
