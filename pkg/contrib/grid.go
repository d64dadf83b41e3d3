package contrib

import "time"

// DefaultWeeks matches the width of GitHub's own calendar.
const DefaultWeeks = 53

// Week holds seven counts, Sunday first.
type Week [7]int

// Grid is a sequence of weeks, most recent last.
type Grid []Week

// Max returns the largest single-day count visible in the grid.
func (g Grid) Max() int {
	maxCount := 0
	for _, w := range g {
		for _, c := range w {
			if c > maxCount {
				maxCount = c
			}
		}
	}
	return maxCount
}

// BuildGrid lays m out as exactly weeks Sunday-aligned columns. Dates missing
// from m count as zero. Older weeks beyond the window are dropped, and short
// histories are left-padded with empty weeks. An empty map yields an empty
// grid.
func BuildGrid(m Map, weeks int) Grid {
	if len(m) == 0 || weeks <= 0 {
		return nil
	}

	start, end := m.Start(), m.End()

	// Densify [start, end]; every key already falls inside that range.
	counts := make(map[time.Time]int, len(m))
	for _, d := range m {
		counts[d.Date] = d.Count
	}

	firstSunday := start
	for firstSunday.Weekday() != time.Sunday {
		firstSunday = firstSunday.AddDate(0, 0, -1)
	}

	var columns Grid
	for cur := firstSunday; !cur.After(end); cur = cur.AddDate(0, 0, 7) {
		var w Week
		for dow := range w {
			w[dow] = counts[cur.AddDate(0, 0, dow)]
		}
		columns = append(columns, w)
	}

	switch {
	case len(columns) > weeks:
		columns = columns[len(columns)-weeks:]
	case len(columns) < weeks:
		columns = append(make(Grid, weeks-len(columns)), columns...)
	}
	return columns
}
