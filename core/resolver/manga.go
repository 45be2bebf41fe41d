// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package resolver

// Route names.
const (
	Home          = "home"
	MangaDetail   = "manga-detail"
	ChapterList   = "chapter-list"
	ChapterReader = "chapter-reader"
)

// Views activated by the manga routes.
const (
	HomeView          View = "HomeView"
	MangaDetailView   View = "MangaDetail"
	ChapterListView   View = "ChapterList"
	ChapterReaderView View = "ChapterReader"
)

// IDParam is the single parameter captured by the manga, chapter list and reader routes.
const IDParam = "id"

var mangaTable = MustNew(
	Pattern{Path: "/", Name: Home, View: HomeView},
	Pattern{Path: "/manga/:id", Name: MangaDetail, View: MangaDetailView},
	Pattern{Path: "/chapters/:id", Name: ChapterList, View: ChapterListView},
	Pattern{Path: "/read/:id", Name: ChapterReader, View: ChapterReaderView},
)

// Manga returns the application's route table.
func Manga() *Table {
	return mangaTable
}
