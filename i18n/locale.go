// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// BaseLocale is the locale of the msgids, used when no other locale matches.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// Languages returns the supported UI languages sorted by tag string.
//
// Setup must be called successfully before using Languages; otherwise it panics.
func Languages() []language.Tag {
	if matcher == nil {
		panic("i18n: Setup must be called before calling Languages")
	}

	out := slices.Clone(supportedTags)
	slices.SortFunc(out, func(a, b language.Tag) int { return strings.Compare(a.String(), b.String()) })

	return out
}

// Locale returns the supported locale that translations for ctx are drawn
// from, suitable for the lang attribute of a page. It returns the base
// locale before Setup.
func Locale(ctx context.Context) language.Tag {
	_, matched := resolveLocale(TagFrom(ctx))

	return matched
}

// resolveLocale matches t to one of the loaded locales and returns the
// corresponding gotext.Locale and the supported tag it matched.
// The locale is nil for the base locale and before Setup.
func resolveLocale(t language.Tag) (*gotext.Locale, language.Tag) {
	if matcher == nil {
		return nil, baseTag
	}

	_, index, _ := matcher.Match(t)
	matched := supportedTags[index]

	return localesByTag[matched.String()], matched
}
