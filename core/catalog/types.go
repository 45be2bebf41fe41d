// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "time"

// Manga is a catalog entry.
type Manga struct {
	ID string

	// Title is localized to the reader's preferred languages.
	Title     string
	AltTitles []string

	Description string
	Status      string
	Year        int
	Rating      string
	Tags        []string
	Authors     []string
	CoverURL    string

	LastChapter string
	UpdatedAt   time.Time
}

// MangaDetail is a manga together with the size of its chapter feed.
type MangaDetail struct {
	Manga

	// ChapterCount counts chapters in the configured languages.
	ChapterCount int
}

// Chapter is a single translated chapter.
type Chapter struct {
	ID         string
	MangaID    string
	MangaTitle string

	Volume   string
	Number   string
	Title    string
	Language string
	Pages    int

	PublishAt time.Time

	// ExternalURL is set for chapters hosted off-site; they have no pages here.
	ExternalURL string
}

// Label returns a short human readable name such as "Vol. 2 Ch. 10".
func (c Chapter) Label() string {
	label := "Oneshot"
	if c.Number != "" {
		label = "Ch. " + c.Number
	}

	if c.Volume != "" {
		label = "Vol. " + c.Volume + " " + label
	}

	return label
}

// ChapterFeed is one page of a manga's chapter feed.
type ChapterFeed struct {
	MangaID  string
	Chapters []Chapter

	Page     int
	PageSize int
	Total    int
}

// PageCount returns the number of feed pages, at least 1.
func (f ChapterFeed) PageCount() int {
	if f.PageSize <= 0 || f.Total <= f.PageSize {
		return 1
	}

	return (f.Total + f.PageSize - 1) / f.PageSize
}

// HasPrev reports whether a previous page exists.
func (f ChapterFeed) HasPrev() bool { return f.Page > 1 }

// HasNext reports whether a following page exists.
func (f ChapterFeed) HasNext() bool { return f.Page < f.PageCount() }

// ChapterPages holds everything needed to read a chapter.
type ChapterPages struct {
	Chapter

	// Pages are absolute image URLs in reading order.
	Pages []string

	DataSaver bool
}

// External reports whether the chapter is only readable on another site.
func (p ChapterPages) External() bool {
	return len(p.Pages) == 0 && p.ExternalURL != ""
}
