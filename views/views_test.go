// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/i18n"
)

const mangaID = "a96676e5-8ae2-425e-b549-7f15dd34a6d8"

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()

	return renderContext(t, context.Background(), c)
}

func renderContext(t *testing.T, ctx context.Context, c templ.Component) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	return doc
}

func TestHome(t *testing.T) {
	t.Parallel()

	doc := render(t, Home([]catalog.Manga{
		{ID: mangaID, Title: "<Frieren>", CoverURL: "https://uploads.example/covers/x.256.jpg", LastChapter: "120"},
		{ID: "other", Title: "Dungeon Meshi"},
	}))

	assert.Equal(t, "MangaFE", doc.Find("title").Text())

	cards := doc.Find("li.manga-card")
	require.Equal(t, 2, cards.Length())

	href, _ := cards.First().Find("a").Attr("href")
	assert.Equal(t, "/manga/"+mangaID, href)
	assert.Equal(t, "<Frieren>", cards.First().Find(".title").Text())
	assert.Equal(t, 1, cards.First().Find("img").Length())
	assert.Contains(t, cards.First().Text(), "Ch. 120")

	assert.Equal(t, 0, cards.Last().Find("img").Length())

	brand, _ := doc.Find("header a.brand").Attr("href")
	assert.Equal(t, "/", brand)
}

func TestHomeEmpty(t *testing.T) {
	t.Parallel()

	doc := render(t, Home(nil))
	assert.Equal(t, 0, doc.Find("li.manga-card").Length())
	assert.Contains(t, doc.Find("main").Text(), "Nothing here yet")
}

func TestMangaDetail(t *testing.T) {
	t.Parallel()

	doc := render(t, MangaDetail(catalog.MangaDetail{
		Manga: catalog.Manga{
			ID:          mangaID,
			Title:       "Frieren",
			AltTitles:   []string{"Sousou no Frieren"},
			Description: "An elf mage.",
			Status:      "ongoing",
			Year:        2020,
			Authors:     []string{"Yamada Kanehito", "Abe Tsukasa"},
			Tags:        []string{"Fantasy", "Adventure"},
		},
		ChapterCount: 1234,
	}))

	assert.Equal(t, "Frieren", doc.Find("h1").Text())
	assert.Equal(t, "Sousou no Frieren", doc.Find(".alt-titles").Text())
	assert.Equal(t, []string{"Authors", "Status", "Year"}, doc.Find("dt").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	}))
	assert.Equal(t, "Ongoing", doc.Find("dd").Eq(1).Text())
	assert.Equal(t, 2, doc.Find(".tags li").Length())

	link := doc.Find("a.chapters-link")
	href, _ := link.Attr("href")
	assert.Equal(t, "/chapters/"+mangaID, href)
	assert.Equal(t, "1,234 chapters", link.Text())
}

func TestChapterList(t *testing.T) {
	t.Parallel()

	feed := catalog.ChapterFeed{
		MangaID: mangaID,
		Chapters: []catalog.Chapter{
			{ID: "c1", Number: "1", Title: "Journey's End", Language: "en", PublishAt: time.Now().Add(-time.Hour)},
			{ID: "c2", Number: "2", Language: "en", ExternalURL: "https://publisher.example/c2"},
		},
		Page:     2,
		PageSize: 2,
		Total:    6,
	}

	doc := render(t, ChapterList(ChapterListData{Manga: catalog.Manga{ID: mangaID, Title: "Frieren"}, Feed: feed}))

	items := doc.Find("ol.chapters li")
	require.Equal(t, 2, items.Length())

	first := items.First().Find("a")
	href, _ := first.Attr("href")
	assert.Equal(t, "/read/c1", href)
	assert.Equal(t, "Ch. 1: Journey's End", first.Text())

	external, _ := items.Last().Find("a.external").Attr("href")
	assert.Equal(t, "https://publisher.example/c2", external)

	prev, _ := doc.Find("a.prev").Attr("href")
	next, _ := doc.Find("a.next").Attr("href")
	assert.Equal(t, "/chapters/"+mangaID+"?page=1", prev)
	assert.Equal(t, "/chapters/"+mangaID+"?page=3", next)
	assert.Contains(t, doc.Find(".pager span").Text(), "Page 2 of 3")

	back, _ := doc.Find("h1 a").Attr("href")
	assert.Equal(t, "/manga/"+mangaID, back)
}

func TestChapterListSinglePage(t *testing.T) {
	t.Parallel()

	doc := render(t, ChapterList(ChapterListData{
		Feed: catalog.ChapterFeed{
			MangaID:  mangaID,
			Chapters: []catalog.Chapter{{ID: "c1", Number: "1"}},
			Page:     1,
			PageSize: 100,
			Total:    1,
		},
	}))

	assert.Equal(t, 0, doc.Find("a.prev").Length())
	assert.Equal(t, 0, doc.Find("a.next").Length())
}

func TestReader(t *testing.T) {
	t.Parallel()

	pages := catalog.ChapterPages{
		Chapter: catalog.Chapter{ID: "c1", MangaID: mangaID, MangaTitle: "Frieren", Volume: "1", Number: "1"},
		Pages: []string{
			"https://node.example/data/hash/1.png",
			"https://node.example/data/hash/2.png",
		},
	}

	doc := render(t, Reader(pages))

	assert.Equal(t, "Frieren Vol. 1 Ch. 1", doc.Find("h1").Text())

	imgs := doc.Find(".pages img")
	require.Equal(t, 2, imgs.Length())

	src, _ := imgs.Eq(1).Attr("src")
	assert.Equal(t, pages.Pages[1], src)

	back, _ := doc.Find("a.chapters-link").Attr("href")
	assert.Equal(t, "/chapters/"+mangaID, back)

	quality, _ := doc.Find("a.quality").Attr("href")
	assert.Equal(t, "/read/c1?quality=data-saver", quality)

	pages.DataSaver = true
	quality, _ = render(t, Reader(pages)).Find("a.quality").Attr("href")
	assert.Equal(t, "/read/c1?quality=data", quality)
}

func TestReaderRejectsUnsafeURLs(t *testing.T) {
	t.Parallel()

	doc := render(t, Reader(catalog.ChapterPages{
		Chapter: catalog.Chapter{ID: "c1"},
		Pages:   []string{"javascript:alert(1)"},
	}))

	src, _ := doc.Find(".pages img").Attr("src")
	assert.NotContains(t, src, "javascript")
}

func TestError(t *testing.T) {
	t.Parallel()

	doc := render(t, Error(ErrorData{StatusCode: http.StatusNotFound, Error: errors.New("no route"), RequestID: "abc"}))
	assert.Equal(t, "404 Not Found", doc.Find("h1").Text())
	assert.Equal(t, 0, doc.Find("pre.error").Length())
	assert.Equal(t, "abc", doc.Find("code").Text())

	doc = render(t, Error(ErrorData{StatusCode: http.StatusBadGateway, Error: errors.New("upstream <down>")}))
	assert.Equal(t, "502 Bad Gateway", doc.Find("h1").Text())
	assert.Equal(t, "upstream <down>", doc.Find("pre.error").Text())
}

// TestTranslatedChapterList loads the embedded catalogues, so it runs before
// the parallel tests, which then see the base locale through a background context.
func TestTranslatedChapterList(t *testing.T) {
	require.NoError(t, i18n.Setup())

	feed := catalog.ChapterFeed{
		MangaID:  mangaID,
		Chapters: []catalog.Chapter{{ID: "c1", Number: "1", Language: "ja"}},
		Page:     1,
		PageSize: 1,
		Total:    2,
	}

	ctx := i18n.WithTag(context.Background(), language.Japanese)
	doc := renderContext(t, ctx, ChapterList(ChapterListData{Manga: catalog.Manga{ID: mangaID, Title: "Frieren"}, Feed: feed}))

	lang, _ := doc.Find("html").Attr("lang")
	assert.Equal(t, "ja", lang)
	assert.Equal(t, "Frieren の話一覧 - MangaFE", doc.Find("title").Text())
	assert.Equal(t, "2ページ中1ページ目", doc.Find(".pager span").Text())
	assert.Equal(t, "次へ", doc.Find("a.next").Text())

	doc = render(t, ChapterList(ChapterListData{Manga: catalog.Manga{ID: mangaID, Title: "Frieren"}, Feed: feed}))

	lang, _ = doc.Find("html").Attr("lang")
	assert.Equal(t, "en", lang)
	assert.Equal(t, "Frieren chapters - MangaFE", doc.Find("title").Text())
}
