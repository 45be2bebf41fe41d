// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package resolver maps navigation paths to named routes.

A Table holds an ordered, immutable list of patterns such as "/manga/:id".
Resolve walks the list in registration order and returns the first pattern
whose segments fit the path, together with the values captured by its
":name" segments. A miss is an ordinary result (ok == false), not an error.

Tables never change after construction, so every method is safe to call from
any number of goroutines without locking.
*/
package resolver

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidPattern is returned by New for malformed route definitions.
	ErrInvalidPattern = errors.New("invalid route pattern")
	// ErrDuplicateName is returned by New when two routes share a name.
	ErrDuplicateName = errors.New("duplicate route name")
	// ErrUnknownRoute is returned by Table.Path for names not in the table.
	ErrUnknownRoute = errors.New("unknown route")
	// ErrMissingParam is returned when building a path without a required parameter.
	ErrMissingParam = errors.New("missing route parameter")
)

// Match is the outcome of a successful resolution.
type Match struct {
	Pattern Pattern
	// Params maps parameter names to the captured path segments.
	// It is never nil and belongs to the caller.
	Params map[string]string
}

// Name is shorthand for m.Pattern.Name.
func (m Match) Name() string {
	return m.Pattern.Name
}

// Param returns the captured value of the named parameter, or "".
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Table is an ordered set of route patterns.
type Table struct {
	patterns []Pattern
	byName   map[string]int
}

// New compiles patterns into a Table, preserving their order.
func New(patterns ...Pattern) (*Table, error) {
	t := &Table{
		patterns: make([]Pattern, 0, len(patterns)),
		byName:   make(map[string]int, len(patterns)),
	}

	for _, p := range patterns {
		if err := p.compile(); err != nil {
			return nil, err
		}

		if _, dup := t.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, p.Name)
		}

		t.byName[p.Name] = len(t.patterns)
		t.patterns = append(t.patterns, p)
	}

	return t, nil
}

// MustNew is like New but panics on error. Use it for tables fixed at compile time.
func MustNew(patterns ...Pattern) *Table {
	t, err := New(patterns...)
	if err != nil {
		panic(err)
	}

	return t
}

// Resolve finds the first pattern matching path.
//
// The path is compared segment by segment; it is not cleaned, decoded or
// otherwise normalized, so "/manga/42/" and "/manga//42" do not match "/manga/:id".
// A parameter segment captures any non-empty segment, so "/manga/" does not
// match either.
func (t *Table) Resolve(path string) (Match, bool) {
	parts := strings.Split(path, separator)

	for _, p := range t.patterns {
		if params, ok := p.match(parts); ok {
			return Match{Pattern: p, Params: params}, true
		}
	}

	return Match{}, false
}

// Lookup returns the pattern registered under name.
func (t *Table) Lookup(name string) (Pattern, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Pattern{}, false
	}

	return t.patterns[i], true
}

// Patterns returns the table's patterns in registration order.
func (t *Table) Patterns() []Pattern {
	return slices.Clone(t.patterns)
}

// Path builds the concrete path for the named route.
func (t *Table) Path(name string, params map[string]string) (string, error) {
	p, ok := t.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	return p.Build(params)
}
