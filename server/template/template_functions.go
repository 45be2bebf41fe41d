// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package template holds formatting helpers shared by the views.
package template

import (
	"strconv"
	"strings"
	"time"
)

const (
	hoursInDay   = 24
	daysInWeek   = 7
	daysInMonth  = 31
	monthsInYear = 12
)

// RelativeTime describes date relative to now, e.g. "3 days ago".
//
// Future dates and dates more than a year back are printed as a calendar date.
func RelativeTime(date time.Time) string {
	return relativeTimeAt(date, time.Now())
}

func relativeTimeAt(date, now time.Time) string {
	if date.IsZero() {
		return ""
	}

	duration := now.Sub(date)

	switch {
	case duration < 0:
		return date.Format("2 January 2006")
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		return ago(int(duration.Minutes()), "minute")
	case duration < hoursInDay*time.Hour:
		return ago(int(duration.Hours()), "hour")
	}

	yesterday := now.AddDate(0, 0, -1)
	if date.Year() == yesterday.Year() && date.YearDay() == yesterday.YearDay() {
		return "yesterday"
	}

	switch {
	case duration < daysInWeek*hoursInDay*time.Hour:
		return ago(int(duration.Hours()/hoursInDay), "day")
	case duration < daysInMonth*hoursInDay*time.Hour:
		return ago(int(duration.Hours()/(hoursInDay*daysInWeek)), "week")
	}

	months := (now.Year()-date.Year())*monthsInYear + int(now.Month()) - int(date.Month())
	if months < monthsInYear {
		return ago(max(months, 1), "month")
	}

	return date.Format("2 January 2006")
}

func ago(n int, unit string) string {
	if n != 1 {
		unit += "s"
	}

	return strconv.Itoa(n) + " " + unit + " ago"
}

// PrettyNumber pretty prints an integer with commas as thousands separators.
func PrettyNumber(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	numStr := strconv.Itoa(n)

	const digitsPerGroup = 3

	var b strings.Builder

	b.WriteString(sign)

	lead := len(numStr) % digitsPerGroup
	if lead == 0 {
		lead = digitsPerGroup
	}

	b.WriteString(numStr[:lead])

	for i := lead; i < len(numStr); i += digitsPerGroup {
		b.WriteByte(',')
		b.WriteString(numStr[i : i+digitsPerGroup])
	}

	return b.String()
}

// Capitalize upper-cases the first ASCII letter of s, e.g. "ongoing" -> "Ongoing".
func Capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}

	return string(s[0]-'a'+'A') + s[1:]
}
