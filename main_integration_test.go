// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
These tests start the server against the live MangaDex API.

To run them, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 20
	dialTimeout = 250 * time.Millisecond

	// Komi Can't Communicate.
	liveMangaID = "a96676e5-8ae2-425e-b549-7f15dd34a6d8"
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	ExpectedStatusCode int
}

// TestMain starts the server and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("MANGAFE_HOST", "127.0.0.1")
	_ = os.Setenv("MANGAFE_PORT", "8282")
	_ = os.Setenv("MANGAFE_CACHE", "true")

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true
		}

		time.Sleep(dialTimeout)
	}

	return false
}

func TestLiveRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		{URL: "/"},
		{URL: "/manga/" + liveMangaID},
		{URL: "/chapters/" + liveMangaID},
		{URL: "/chapters/" + liveMangaID + "?page=2"},
		{URL: "/healthz"},
		{URL: "/manga/00000000-0000-0000-0000-000000000000", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/manga/not-a-uuid", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/nonexistent", ExpectedStatusCode: http.StatusNotFound},
		{URL: "/chapters/" + liveMangaID + "?page=100000", ExpectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.URL, func(t *testing.T) {
			t.Parallel()

			if tc.ExpectedStatusCode == 0 {
				tc.ExpectedStatusCode = http.StatusOK
			}

			resp := makeRequest(t, authority+tc.URL)
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}

func TestLiveRedirect(t *testing.T) {
	t.Parallel()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	req, err := http.NewRequestWithContext(context.TODO(), http.MethodGet, authority+"/title/"+liveMangaID+"/komi-san", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	if got, want := resp.Header.Get("Location"), fmt.Sprintf("/manga/%s", liveMangaID); got != want {
		t.Errorf("expected Location %q, got %q", want, got)
	}
}

func makeRequest(t *testing.T, link string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.TODO(), http.MethodGet, link, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("Accept-Language", "en")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
