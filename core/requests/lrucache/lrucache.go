// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a thread-safe, fixed-capacity least-recently-used (LRU) cache
of byte values with per-entry expiry.

When created with compression enabled via [New], values are stored zstd-compressed
whenever that saves space and are transparently decompressed by [LRUCache.Get].
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("must provide a positive size")

// LRUCache is a fixed-capacity, least-recently-used cache that is safe for concurrent use.
// Instances must be constructed with [New]; the zero value is not ready for use.
type LRUCache struct {
	size      int                      // Maximum number of entries
	evictList *list.List               // Front is the most recently used entry
	items     map[string]*list.Element // Key to list element
	lock      sync.Mutex

	zstdEnc *zstd.Encoder // nil when compression is disabled
	zstdDec *zstd.Decoder

	now func() time.Time
}

type entry struct {
	key        string
	value      []byte
	compressed bool
	expiresAt  time.Time // zero means no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// New creates a cache holding at most size entries.
//
// It returns [ErrInvalidSize] if size is not a positive integer.
func New(size int, compress bool) (*LRUCache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	c := &LRUCache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
		now:       time.Now,
	}

	if compress {
		// nil writer/reader: only EncodeAll/DecodeAll are used, both safe for concurrent calls.
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, err
		}

		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
		if err != nil {
			return nil, err
		}

		c.zstdEnc = enc
		c.zstdDec = dec
	}

	return c, nil
}

// Add stores value under key for ttl. A non-positive ttl never expires.
//
// An existing key is replaced and becomes the most recently used.
// Add reports whether an entry had to be evicted to make room.
func (c *LRUCache) Add(key string, value []byte, ttl time.Duration) bool {
	stored, compressed := c.encode(value)

	c.lock.Lock()
	defer c.lock.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)

		ent := el.Value.(*entry)
		ent.value = stored
		ent.compressed = compressed
		ent.expiresAt = expiresAt

		return false
	}

	c.items[key] = c.evictList.PushFront(&entry{
		key:        key,
		value:      stored,
		compressed: compressed,
		expiresAt:  expiresAt,
	})

	if c.evictList.Len() <= c.size {
		return false
	}

	// Prefer dropping something already expired over a live entry.
	if c.removeExpiredLocked() == 0 {
		c.removeElement(c.evictList.Back())
	}

	return true
}

// Get returns a copy of the value for key and marks it as most recently used.
//
// Expired entries are removed and reported as missing.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.lock.Unlock()

		return nil, false
	}

	ent := el.Value.(*entry)
	if ent.expired(c.now()) {
		c.removeElement(el)
		c.lock.Unlock()

		return nil, false
	}

	c.evictList.MoveToFront(el)

	stored, compressed := ent.value, ent.compressed

	c.lock.Unlock()

	return c.decode(stored, compressed)
}

// Remove deletes key and reports whether it was present.
func (c *LRUCache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)

		return true
	}

	return false
}

// RemoveExpired drops every expired entry and returns how many were removed.
func (c *LRUCache) RemoveExpired() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.removeExpiredLocked()
}

// Len returns the current number of entries, expired ones included.
func (c *LRUCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.evictList.Len()
}

func (c *LRUCache) removeExpiredLocked() int {
	now := c.now()
	removed := 0

	for el := c.evictList.Back(); el != nil; {
		prev := el.Prev()

		if el.Value.(*entry).expired(now) {
			c.removeElement(el)

			removed++
		}

		el = prev
	}

	return removed
}

func (c *LRUCache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}

// encode copies value, compressing it when enabled and worthwhile.
// It runs without the lock held.
func (c *LRUCache) encode(value []byte) ([]byte, bool) {
	if len(value) == 0 {
		return []byte{}, false
	}

	if c.zstdEnc != nil {
		if packed := c.zstdEnc.EncodeAll(value, nil); len(packed) < len(value) {
			return packed, true
		}
	}

	return append([]byte(nil), value...), false
}

// decode returns a caller-owned copy of a stored value. A corrupt
// compressed value is reported as missing.
func (c *LRUCache) decode(stored []byte, compressed bool) ([]byte, bool) {
	if !compressed {
		return append([]byte{}, stored...), true
	}

	if c.zstdDec == nil {
		return nil, false
	}

	decoded, err := c.zstdDec.DecodeAll(stored, nil)
	if err != nil {
		return nil, false
	}

	return decoded, true
}
