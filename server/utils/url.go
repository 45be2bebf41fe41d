// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ParseURL parses an absolute URL and strips any trailing slash from its path.
//
// urlType names the URL in error messages, e.g. "upstream API".
func ParseURL(urlStr, urlType string) (*url.URL, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s URL: %w", urlType, err)
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf(
			"%s URL is invalid: %s. Please specify a complete URL with scheme and host, e.g. https://example.com",
			urlType,
			urlStr)
	}

	parsedURL.Path = strings.TrimSuffix(parsedURL.Path, "/")

	return parsedURL, nil
}

// GetQueryParam retrieves the value of a query parameter by name.
//
// If the parameter is not present, it returns the provided default value or an empty string.
func GetQueryParam(r *http.Request, name string, defaultValue ...string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return ""
}

// GetPageParam reads a 1-based page number from the query string.
//
// Missing, malformed and non-positive values yield 1.
func GetPageParam(r *http.Request, name string) int {
	page, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || page < 1 {
		return 1
	}

	return page
}

// GetMapParam retrieves the value of a parameter from a map by key.
//
// If the key is not present or the value is empty, it returns the provided default value or an empty string.
func GetMapParam(params map[string]string, name string, defaultValue ...string) string {
	if v, ok := params[name]; ok && v != "" {
		return v
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return ""
}

// GetOriginFromURL extracts the scheme and host from a URL to form its origin.
//
// Returns an empty string if either scheme or host is missing.
func GetOriginFromURL(u url.URL) string {
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// JoinPath appends path segments to base, keeping base's query empty.
func JoinPath(base url.URL, elem ...string) string {
	base.RawQuery = ""
	base.Fragment = ""

	return base.JoinPath(elem...).String()
}
