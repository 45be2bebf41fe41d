// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"time"

	"github.com/rs/zerolog/log"
)

// cleanupExpired removes buckets that have been idle for longer than ExpiryDuration.
func (l *Limiter) cleanupExpired() int {
	cutoff := l.now().Add(-ExpiryDuration).UnixNano()
	expired := 0

	l.buckets.Range(func(key, value any) bool {
		b, ok := value.(*bucket)
		if !ok || b.lastAccess.Load() < cutoff {
			l.buckets.Delete(key)

			expired++
		}

		return true
	})

	return expired
}

// maybeCleanup runs cleanupExpired in the background at most once per CleanupInterval.
func (l *Limiter) maybeCleanup() {
	now := l.now()
	last := l.lastCleanup.Load()

	if last == 0 {
		l.lastCleanup.CompareAndSwap(0, now.UnixNano())

		return
	}

	if now.Sub(time.Unix(0, last)) < CleanupInterval || !l.lastCleanup.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	go func() {
		start := time.Now()

		if count := l.cleanupExpired(); count > 0 {
			log.Info().
				Int("count", count).
				Dur("dur", time.Since(start)).
				Msg("Cleaned up expired limiters")
		}
	}()
}
