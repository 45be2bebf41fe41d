// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"slices"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
)

// localizedText is a set of translations keyed by upstream language code.
type localizedText struct {
	keys   []string
	values map[string]string
}

func (t *localizedText) add(key, value string) {
	if value == "" {
		return
	}

	if _, ok := t.values[key]; ok {
		return
	}

	if t.values == nil {
		t.values = make(map[string]string)
	}

	t.keys = append(t.keys, key)
	t.values[key] = value
}

// addObject adds every key of a JSON object such as {"en": "...", "ja": "..."}.
func (t *localizedText) addObject(obj gjson.Result) {
	obj.ForEach(func(key, value gjson.Result) bool {
		t.add(key.String(), value.String())

		return true
	})
}

// best picks the translation that best matches prefs.
//
// English is the fallback, then the first translation seen.
func (t *localizedText) best(prefs []language.Tag) string {
	if len(t.keys) == 0 {
		return ""
	}

	fallback := t.keys[0]
	if _, ok := t.values["en"]; ok {
		fallback = "en"
	}

	if len(prefs) == 0 {
		return t.values[fallback]
	}

	// The matcher's first tag is its default.
	keys := make([]string, 0, len(t.keys))
	keys = append(keys, fallback)

	tags := []language.Tag{parseTag(fallback)}

	for _, key := range t.keys {
		if key == fallback {
			continue
		}

		tag := parseTag(key)
		if tag == language.Und {
			continue
		}

		keys = append(keys, key)
		tags = append(tags, tag)
	}

	_, index, confidence := language.NewMatcher(tags).Match(prefs...)
	if confidence == language.No {
		return t.values[fallback]
	}

	return t.values[keys[index]]
}

// others returns the translations other than exclude, in insertion order.
func (t *localizedText) others(exclude string) []string {
	out := make([]string, 0, len(t.keys))

	for _, key := range t.keys {
		if v := t.values[key]; v != exclude && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}

	return out
}

// parseTag parses an upstream language code. Romanized variants such as
// "ja-ro" map to their script form so they are not mistaken for a region.
func parseTag(key string) language.Tag {
	if base, ok := romanized[key]; ok {
		key = base
	}

	tag, err := language.Parse(key)
	if err != nil {
		return language.Und
	}

	return tag
}

var romanized = map[string]string{
	"ja-ro": "ja-Latn",
	"ko-ro": "ko-Latn",
	"zh-ro": "zh-Latn",
}
