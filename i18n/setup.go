// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/mangafe/mangafe/server/assets"
)

const (
	// poDomain is the gettext domain to load under each locale.
	poDomain = "mangafe"

	poDir = "po"
)

var (
	// localesByTag maps canonical BCP 47 tags, for example
	// "en", "ja", "pt-BR", to their loaded gotext.Locale.
	localesByTag map[string]*gotext.Locale

	// supportedTags holds the base tag followed by every loaded locale.
	supportedTags []language.Tag

	matcher language.Matcher
)

// Setup loads the gettext catalogues found under po/ in the embedded assets
// and builds the language matcher.
//
// Catalogue file names are locale tags and may use hyphens or underscores,
// for example "pt-BR.po" or "pt_BR.po". The template "po/mangafe.pot" is ignored.
// BaseLocale is always supported and is the fallback for unmatched requests.
//
// Calling Setup again replaces the previously loaded locales and matcher.
func Setup() error {
	return setup(assets.FS)
}

func setup(fsys fs.FS) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	entries, err := fs.ReadDir(fsys, poDir)
	if err != nil {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	loaded := make(map[string]*gotext.Locale)

	var tagsList []language.Tag

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || path.Ext(fileName) != ".po" {
			continue
		}

		t, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(fileName, ".po"), "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		if t == baseTag {
			continue
		}

		canonical := t.String()

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(poDir, fileName))

		loc := gotext.NewLocale("", canonical) // Base path is unused when manually adding translators.
		loc.AddTranslator(poDomain, po)

		loaded[canonical] = loc
		tagsList = append(tagsList, t)

		Logger.Info().
			Str("locale", canonical).
			Str("domain", poDomain).
			Msg("Loaded locale")
	}

	slices.SortFunc(tagsList, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	// baseTag is first to make it the default fallback for matching.
	all := append([]language.Tag{baseTag}, tagsList...)

	localesByTag = loaded
	supportedTags = all
	matcher = language.NewMatcher(all)

	return nil
}
