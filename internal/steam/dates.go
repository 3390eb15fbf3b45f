package steam

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Steam renders comment timestamps in several formats depending on age
// and locale settings:
//
//	"2 hours ago", "3 days ago"
//	"yesterday", "today"
//	"Jan 15" (current year implied), "Jan 15, 2023"
//	"July 26, 2025 @ 1:59:22 pm PDT" (the title-attribute form)
//
// ParseTimestamp handles all of them. Unparseable input yields the zero
// time, never an error: a missing comment date must not fail a crawl step.

// relativeRe matches "<n> <unit>[s] ago" forms.
var relativeRe = regexp.MustCompile(`^(\d+)\s+(minute|min|hour|day|week|month|year)s?\s+ago$`)

// absoluteRe matches Steam's full title-attribute form.
var absoluteRe = regexp.MustCompile(`^(\w+)\s+(\d+),\s*(\d{4})\s*@\s*(\d+):(\d+)(?::(\d+))?\s*(am|pm)`)

// monthDayRe matches "Jan 15" and "Jan 15, 2023" forms.
var monthDayRe = regexp.MustCompile(`^(\w+)\s+(\d+)(?:,\s*(\d{4}))?$`)

// ParseTimestamp parses a Steam comment timestamp relative to now.
// The zero time is returned when the input has no recognizable format.
func ParseTimestamp(s string, now time.Time) time.Time {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}
	}

	switch s {
	case "yesterday":
		return now.AddDate(0, 0, -1)
	case "today", "just now":
		return now
	}

	if m := relativeRe.FindStringSubmatch(s); m != nil {
		return parseRelative(m, now)
	}
	if m := absoluteRe.FindStringSubmatch(s); m != nil {
		return parseAbsolute(m)
	}
	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		return parseMonthDay(m, now)
	}

	return time.Time{}
}

// parseRelative converts an "<n> <unit> ago" match to a time.
func parseRelative(m []string, now time.Time) time.Time {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}
	}
	switch m[2] {
	case "minute", "min":
		return now.Add(-time.Duration(n) * time.Minute)
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour)
	case "day":
		return now.AddDate(0, 0, -n)
	case "week":
		return now.AddDate(0, 0, -7*n)
	case "month":
		return now.AddDate(0, -n, 0)
	case "year":
		return now.AddDate(-n, 0, 0)
	}
	return time.Time{}
}

// parseAbsolute converts Steam's "<month> <day>, <year> @ <h>:<m>[:<s>] am|pm"
// form. The trailing timezone abbreviation is ignored; comment times are
// recorded as-is rather than normalized across Valve's display zones.
func parseAbsolute(m []string) time.Time {
	month := monthByName(m[1])
	if month == 0 {
		return time.Time{}
	}
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}

	if m[7] == "pm" && hour != 12 {
		hour += 12
	} else if m[7] == "am" && hour == 12 {
		hour = 0
	}

	return time.Date(year, month, day, hour, minute, second, 0, time.UTC)
}

// parseMonthDay converts "Jan 15[, 2023]" forms. When the year is
// omitted and the date would land in the future, the previous year is
// assumed, since Steam only omits the year for past dates.
func parseMonthDay(m []string, now time.Time) time.Time {
	month := monthByName(m[1])
	if month == 0 {
		return time.Time{}
	}
	day, _ := strconv.Atoi(m[2])

	year := now.Year()
	explicit := m[3] != ""
	if explicit {
		year, _ = strconv.Atoi(m[3])
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if !explicit && t.After(now) {
		t = t.AddDate(-1, 0, 0)
	}
	return t
}

// monthByName maps full and abbreviated lowercase month names.
func monthByName(name string) time.Month {
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m
		}
	}
	return 0
}
