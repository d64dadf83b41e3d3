// Package contrib recovers GitHub contribution calendars from profile pages
// and API payloads, and lays them out as Sunday-aligned week grids.
package contrib

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	// ErrNoDataFound is returned when every extraction method ran without
	// recovering a single contribution day.
	ErrNoDataFound = errors.New("no contribution data found")

	// ErrMalformedPayload is returned when a JSON or HTML payload is present
	// but does not match any known calendar shape.
	ErrMalformedPayload = errors.New("malformed contribution payload")
)

// Day is the contribution count for one calendar date.
type Day struct {
	Date  time.Time // UTC midnight
	Count int
}

// Map is an ordered date→count mapping, strictly increasing by date.
type Map []Day

// NewMap builds a Map from an unordered set of counts. Keys are truncated to
// their calendar date and negative counts are dropped.
func NewMap(counts map[time.Time]int) Map {
	normalized := make(map[time.Time]int, len(counts))
	for t, c := range counts {
		if c < 0 {
			continue
		}
		normalized[dateOf(t)] = c
	}
	return newMap(normalized)
}

// newMap sorts counts whose keys are already dates.
func newMap(counts map[time.Time]int) Map {
	m := make(Map, 0, len(counts))
	for d, c := range counts {
		m = append(m, Day{Date: d, Count: c})
	}
	sort.Slice(m, func(i, j int) bool { return m[i].Date.Before(m[j].Date) })
	return m
}

// Start returns the earliest date, or the zero time for an empty map.
func (m Map) Start() time.Time {
	if len(m) == 0 {
		return time.Time{}
	}
	return m[0].Date
}

// End returns the latest date, or the zero time for an empty map.
func (m Map) End() time.Time {
	if len(m) == 0 {
		return time.Time{}
	}
	return m[len(m)-1].Date
}

// Total sums all counts.
func (m Map) Total() int {
	total := 0
	for _, d := range m {
		total += d.Count
	}
	return total
}

// Count returns the count recorded for date, or 0 when the date is absent.
func (m Map) Count(date time.Time) int {
	date = dateOf(date)
	i := sort.Search(len(m), func(i int) bool { return !m[i].Date.Before(date) })
	if i < len(m) && m[i].Date.Equal(date) {
		return m[i].Count
	}
	return 0
}

func dateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// parseDate accepts any date layout dateparse understands and keeps only the
// calendar date as written.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return dateOf(t), true
}

// parseCount reads a non-negative count from a JSON number or numeric string.
func parseCount(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		if n < 0 {
			return 0, false
		}
		return int(n), true
	case string:
		c, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || c < 0 {
			return 0, false
		}
		return c, true
	default:
		return 0, false
	}
}
