// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/config"
)

var (
	// Logger is the logger used by package i18n.
	Logger = log.With().Str("sys", "i18n").Logger()

	// missingKeyOnce deduplicates WARN logs for missing msgids in strict mode.
	// The key is locale+"\x00"+msgid.
	missingKeyOnce sync.Map
)

func strictMissingKeys() bool {
	return config.Global.Internationalization.StrictMissingKeys
}

// logMissingOnce logs a missing translation warning once per (locale, msgid) pair.
func logMissingOnce(logger zerolog.Logger, locale, msgid string) {
	id := locale + "\x00" + msgid
	if _, loaded := missingKeyOnce.LoadOrStore(id, struct{}{}); !loaded {
		logger.Warn().
			Str("locale", locale).
			Str("key", msgid).
			Msg("Missing i18n translation")
	}
}
