package docmodel

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"January 2006",
	"Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

var yearRe = regexp.MustCompile(`\b(\d{4})\b`)

// ongoing marks open-ended ranges such as "2021 - present".
var ongoing = []string{"present", "now", "current", "today"}

// ParseSortDate reads a free-text date for ordering purposes.
//
// Full dates are parsed as such. Otherwise the last four-digit year wins, so a
// range like "2020 - 2022" sorts by its end. Open-ended ranges sort after every
// dated entry. Unparseable text yields the zero time.
func ParseSortDate(text string) time.Time {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}

	lower := strings.ToLower(s)
	for _, word := range ongoing {
		if strings.Contains(lower, word) {
			return time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
		}
	}

	matches := yearRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return time.Time{}
	}
	year, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return time.Time{}
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
