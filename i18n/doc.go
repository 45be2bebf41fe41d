// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates the interface text of MangaFE pages using GNU gettext
.po catalogues embedded in package assets.

Use the original English UI text as the msgid; do not invent keys.

	i18n.Tr(ctx, "Latest updates")
	i18n.TrN(ctx, "{{.Count}} chapter", "{{.Count}} chapters", n, "Count", n)

Placeholders are processed by text/template. Provide substitutions as
alternating key-value pairs.

Catalogue content, such as manga titles and descriptions, is not translated
here; package catalog picks the best upstream translation instead.

# Missing translations

By default, missing translations return the msgid unchanged. When
StrictMissingKeys is enabled, missing lookups are logged once
per locale+key and the returned text is visibly wrapped as "⟦...⟧".
*/
package i18n
