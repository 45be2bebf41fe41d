// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"net/url"
	"strconv"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/server/utils"
)

// LatestPageSize is the number of entries on the home page.
const LatestPageSize = 24

// contentRatings are the ratings included in listings.
var contentRatings = []string{"safe", "suggestive"}

// GET endpoints

func GetLatestURL(limit int, languages []string) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("order[latestUploadedChapter]", "desc")
	params.Add("includes[]", "cover_art")

	for _, lang := range languages {
		params.Add("availableTranslatedLanguage[]", lang)
	}

	for _, rating := range contentRatings {
		params.Add("contentRating[]", rating)
	}

	return utils.JoinPath(config.Global.Upstream.APIURL, "manga") + "?" + params.Encode()
}

func GetMangaURL(id string) string {
	params := url.Values{}
	params.Add("includes[]", "cover_art")
	params.Add("includes[]", "author")
	params.Add("includes[]", "artist")

	return utils.JoinPath(config.Global.Upstream.APIURL, "manga", id) + "?" + params.Encode()
}

func GetChapterFeedURL(mangaID string, languages []string, limit, offset int) string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("order[volume]", "asc")
	params.Set("order[chapter]", "asc")

	for _, lang := range languages {
		params.Add("translatedLanguage[]", lang)
	}

	for _, rating := range contentRatings {
		params.Add("contentRating[]", rating)
	}

	return utils.JoinPath(config.Global.Upstream.APIURL, "manga", mangaID, "feed") + "?" + params.Encode()
}

func GetChapterURL(id string) string {
	return utils.JoinPath(config.Global.Upstream.APIURL, "chapter", id) + "?includes[]=manga"
}

func GetAtHomeServerURL(chapterID string) string {
	return utils.JoinPath(config.Global.Upstream.APIURL, "at-home", "server", chapterID)
}

// GetCoverURL returns the 256px thumbnail for a cover file.
func GetCoverURL(mangaID, fileName string) string {
	if fileName == "" {
		return ""
	}

	return utils.JoinPath(config.Global.Upstream.CoverURL, "covers", mangaID, fileName+".256.jpg")
}
