// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded static assets.

The "po" directory holds one gettext catalogue per UI locale.
*/
package assets

import (
	"embed"
)

// FS provides access to the embedded file system.
//
//go:embed po
var FS embed.FS
