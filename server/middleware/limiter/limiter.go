// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"fmt"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/mangafe/mangafe/config"
)

const (
	ExpiryDuration  = time.Hour       // How long to keep an idle network's bucket.
	CleanupInterval = 5 * time.Minute // Minimum time between cleanup runs.
)

// Limiter holds one token bucket per client network. It is safe for concurrent use.
type Limiter struct {
	rate  rate.Limit
	burst int

	passList  []netip.Prefix
	blockList []netip.Prefix

	ipv4Prefix int
	ipv6Prefix int

	// excluded paths bypass the limiter entirely.
	excluded []string

	buckets sync.Map // network prefix string -> *bucket

	lastCleanup atomic.Int64
	now         func() time.Time
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess atomic.Int64 // unix nanoseconds
}

// New builds a Limiter from config.Global.Limiter.
//
// excluded lists path prefixes that are never limited, e.g. health checks.
func New(excluded ...string) (*Limiter, error) {
	cfg := config.Global.Limiter

	passList, err := parsePrefixList(cfg.PassIPs)
	if err != nil {
		return nil, fmt.Errorf("limiter pass list: %w", err)
	}

	blockList, err := parsePrefixList(cfg.BlockIPs)
	if err != nil {
		return nil, fmt.Errorf("limiter block list: %w", err)
	}

	l := &Limiter{
		rate:       rate.Limit(cfg.Rate),
		burst:      cfg.Burst,
		passList:   passList,
		blockList:  blockList,
		ipv4Prefix: cfg.IPv4Prefix,
		ipv6Prefix: cfg.IPv6Prefix,
		excluded:   excluded,
		now:        time.Now,
	}

	log.Info().
		Float64("rate", cfg.Rate).
		Int("burst", cfg.Burst).
		Int("pass_list", len(passList)).
		Int("block_list", len(blockList)).
		Msg("Limiter enabled")

	return l, nil
}

// getOrCreateBucket returns the bucket for network, creating it with a full burst.
func (l *Limiter) getOrCreateBucket(network netip.Prefix) *bucket {
	key := network.String()
	now := l.now()

	value, ok := l.buckets.Load(key)
	if !ok {
		value, _ = l.buckets.LoadOrStore(key, &bucket{limiter: rate.NewLimiter(l.rate, l.burst)})
	}

	b, _ := value.(*bucket)
	b.lastAccess.Store(now.UnixNano())

	return b
}

// allow consumes a token from b.
func (l *Limiter) allow(b *bucket) bool {
	return b.limiter.AllowN(l.now(), 1)
}
