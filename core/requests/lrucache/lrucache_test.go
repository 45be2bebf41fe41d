// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"bytes"
	"crypto/rand"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, size int, compress bool) (*LRUCache, *fakeClock) {
	t.Helper()

	cache, err := New(size, compress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	cache.now = clock.Now

	return cache, clock
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, compress := range []bool{false, true} {
		cache, err := New(3, compress)
		if err != nil {
			t.Fatalf("compress=%v: unexpected error: %v", compress, err)
		}

		if cache.Len() != 0 {
			t.Errorf("compress=%v: expected empty cache, got %d entries", compress, cache.Len())
		}
	}

	cache, err := New(0, false)
	if err != ErrInvalidSize {
		t.Fatalf("expected ErrInvalidSize, got %v", err)
	}

	if cache != nil {
		t.Error("expected no cache to be returned on error")
	}
}

// TestAddAndGet verifies retrieval and that eviction starts once capacity is reached.
func TestAddAndGet(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t, 2, false)

	if cache.Add("manga", []byte("one"), 0) {
		t.Error("eviction should not occur when the cache is not full")
	}

	value, ok := cache.Get("manga")
	if !ok || string(value) != "one" {
		t.Fatalf("expected 'one', got %q (found=%v)", value, ok)
	}

	cache.Add("feed", []byte("two"), 0)

	// "manga" was just read, so "feed" is older.
	cache.Get("manga")

	if !cache.Add("chapter", []byte("three"), 0) {
		t.Error("expected eviction when adding a third key to a size 2 cache")
	}

	if _, ok := cache.Get("feed"); ok {
		t.Error("expected 'feed' to be evicted")
	}

	if _, ok := cache.Get("manga"); !ok {
		t.Error("expected 'manga' to survive eviction")
	}
}

func TestAddExistingKey(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t, 2, false)

	cache.Add("a", []byte("1"), 0)
	cache.Add("b", []byte("2"), 0)

	if cache.Add("a", []byte("updated"), 0) {
		t.Error("updating an existing key must not evict")
	}

	// The update refreshed "a", so "b" is now the oldest entry.
	if !cache.Add("c", []byte("3"), 0) {
		t.Error("expected Add to report an eviction")
	}

	if _, ok := cache.Get("b"); ok {
		t.Error("expected 'b' to be evicted")
	}

	if value, _ := cache.Get("a"); string(value) != "updated" {
		t.Errorf("expected updated value, got %q", value)
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()

	cache, clock := newTestCache(t, 4, false)

	cache.Add("short", []byte("x"), time.Minute)
	cache.Add("forever", []byte("y"), 0)

	clock.Advance(59 * time.Second)

	if _, ok := cache.Get("short"); !ok {
		t.Fatal("entry expired too early")
	}

	clock.Advance(time.Second)

	// Expired entries stay in place until they are touched.
	if cache.Len() != 2 {
		t.Errorf("expected 2 entries before Get, got %d", cache.Len())
	}

	if _, ok := cache.Get("short"); ok {
		t.Error("Get returned an expired entry")
	}

	if cache.Len() != 1 {
		t.Errorf("expected Get to drop the expired entry, got %d entries", cache.Len())
	}

	clock.Advance(24 * time.Hour)

	if _, ok := cache.Get("forever"); !ok {
		t.Error("entry without ttl expired")
	}
}

func TestAddPrefersEvictingExpired(t *testing.T) {
	t.Parallel()

	cache, clock := newTestCache(t, 2, false)

	cache.Add("live", []byte("1"), 0)
	cache.Add("stale", []byte("2"), time.Second)
	cache.Get("live")

	clock.Advance(2 * time.Second)

	if !cache.Add("new", []byte("3"), 0) {
		t.Fatal("expected Add to report an eviction")
	}

	if _, ok := cache.Get("live"); !ok {
		t.Error("live entry was evicted while an expired one was available")
	}

	if _, ok := cache.Get("new"); !ok {
		t.Error("new entry missing")
	}
}

func TestRemoveAndRemoveExpired(t *testing.T) {
	t.Parallel()

	cache, clock := newTestCache(t, 5, false)

	cache.Add("a", []byte("1"), time.Second)
	cache.Add("b", []byte("2"), time.Second)
	cache.Add("c", []byte("3"), 0)

	if !cache.Remove("c") {
		t.Error("expected Remove to report a present key")
	}

	if cache.Remove("c") {
		t.Error("expected Remove to report a missing key")
	}

	clock.Advance(time.Second)

	if n := cache.RemoveExpired(); n != 2 {
		t.Errorf("expected 2 expired entries, got %d", n)
	}

	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d", cache.Len())
	}
}

func TestValuesAreCopied(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t, 1, false)

	original := []byte("chapter")
	cache.Add("k", original, 0)
	original[0] = 'X'

	got, _ := cache.Get("k")
	if string(got) != "chapter" {
		t.Fatalf("cache shares memory with the caller's slice: %q", got)
	}

	got[0] = 'Y'

	again, _ := cache.Get("k")
	if string(again) != "chapter" {
		t.Errorf("cache shares memory with a returned slice: %q", again)
	}
}

func TestCompression(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t, 3, true)

	compressible := bytes.Repeat([]byte(`{"result":"ok","data":[]}`), 200)
	cache.Add("json", compressible, 0)

	ent := cache.items["json"].Value.(*entry)
	if !ent.compressed || len(ent.value) >= len(compressible) {
		t.Fatalf("expected compressed storage, got %d bytes (compressed=%v)", len(ent.value), ent.compressed)
	}

	got, ok := cache.Get("json")
	if !ok || !bytes.Equal(got, compressible) {
		t.Fatal("round trip through compression changed the value")
	}

	random := make([]byte, 64)
	_, _ = rand.Read(random)
	cache.Add("random", random, 0)

	if cache.items["random"].Value.(*entry).compressed {
		t.Error("incompressible value should be stored as-is")
	}

	cache.Add("empty", nil, 0)

	if got, ok := cache.Get("empty"); !ok || len(got) != 0 {
		t.Errorf("expected empty value, got %q (found=%v)", got, ok)
	}
}

func TestCorruptCompressedValue(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t, 1, true)

	cache.Add("k", bytes.Repeat([]byte("a"), 1024), 0)
	cache.items["k"].Value.(*entry).value = []byte("not zstd")

	if _, ok := cache.Get("k"); ok {
		t.Error("expected a corrupt value to be reported as missing")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache, _ := newTestCache(t, 50, true)

	var wg sync.WaitGroup

	for g := range 8 {
		wg.Go(func() {
			for i := range 200 {
				key := strconv.Itoa((g*200 + i) % 75)
				value := []byte(strings.Repeat(key, 100))

				cache.Add(key, value, time.Minute)

				if got, ok := cache.Get(key); ok && !bytes.Equal(got, value) {
					t.Errorf("key %s: unexpected value", key)
				}
			}
		})
	}

	wg.Wait()

	if cache.Len() > 50 {
		t.Errorf("cache grew past its capacity: %d", cache.Len())
	}
}
