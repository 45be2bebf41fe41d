// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		date time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(time.Hour), "15 June 2025"},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-time.Minute), "1 minute ago"},
		{now.Add(-45 * time.Minute), "45 minutes ago"},
		{now.Add(-5 * time.Hour), "5 hours ago"},
		{now.Add(-30 * time.Hour), "yesterday"},
		{now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{now.Add(-14 * 24 * time.Hour), "2 weeks ago"},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "4 months ago"},
		{time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), "1 February 2023"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeTimeAt(tt.date, now), tt.date.String())
	}
}

func TestPrettyNumber(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		123456:   "123,456",
		1234567:  "1,234,567",
		-9876543: "-9,876,543",
	}

	for in, want := range tests {
		assert.Equal(t, want, PrettyNumber(in))
	}
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ongoing", Capitalize("ongoing"))
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Hiatus", Capitalize("Hiatus"))
}
