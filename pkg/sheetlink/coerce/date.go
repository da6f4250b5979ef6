package coerce

import (
	"strconv"
	"strings"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// dateLayouts are tried in order. Day-first precedes month-first so that
// "01/02/2026" reads as 1 February.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2006-1-2",
	"2-1-2006",
	"2006/1/2",
	"2.1.2006",
	"1.2.2006",
	"2/1/06",
	"1/2/06",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
}

// textualLayouts back the lenient fallback.
var textualLayouts = []string{
	"2 Jan 2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2 Jan 06",
	"2 January 2006",
	"2-January-2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"Mon, 2 Jan 2006",
}

var nullDates = map[string]bool{"nat": true, "none": true, "nan": true, "null": true}

// ToDate converts a cell to a date. Native date cells are returned
// unchanged; numbers are never treated as dates.
func ToDate(c models.Cell) (time.Time, bool) {
	switch c.Kind {
	case models.CellDate:
		return c.Time, true
	case models.CellString:
		return parseDate(c.Str)
	}
	return time.Time{}, false
}

// OptionalDate is ToDate returning nil on failure.
func OptionalDate(c models.Cell) *models.Date {
	t, ok := ToDate(c)
	if !ok {
		return nil
	}
	return models.NewDate(t)
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || nullDates[strings.ToLower(s)] {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return lenientDayFirst(s)
}

func lenientDayFirst(s string) (time.Time, bool) {
	for _, layout := range textualLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	head := s
	if i := strings.IndexAny(s, " T"); i > 0 {
		head = s[:i]
	}
	return numericDate(head)
}

// numericDate reads three digit groups as D-M-Y, or Y-M-D when the first
// group has four digits. An impossible month swaps day and month.
func numericDate(s string) (time.Time, bool) {
	for _, r := range s {
		if (r < '0' || r > '9') && !strings.ContainsRune("/-. ", r) {
			return time.Time{}, false
		}
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if len(parts) != 3 {
		return time.Time{}, false
	}
	n := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		n[i] = v
	}
	var y, m, d int
	if len(parts[0]) == 4 {
		y, m, d = n[0], n[1], n[2]
	} else {
		d, m, y = n[0], n[1], n[2]
		if len(parts[2]) <= 2 {
			y += 2000
		}
	}
	if m > 12 && d <= 12 {
		d, m = m, d
	}
	if y < 1900 || y > 2100 || m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns the whole days from since to until, truncating both to
// their calendar day.
func DaysBetween(since, until time.Time) int {
	a := models.NewDate(since).Time
	b := models.NewDate(until).Time
	return int(b.Sub(a).Hours() / 24)
}
