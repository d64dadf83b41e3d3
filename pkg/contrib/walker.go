package contrib

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParseJSON decodes data and walks it for a contribution calendar.
//
// The user object is looked up at "user", "props.user" and "payload.user",
// in that order; a root that already holds "contributionsCollection" is
// treated as the user itself. A root of {"data": {"user": ...}} does not match.
func ParseJSON(data []byte) (Map, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return walk(v)
}

func walk(v any) (Map, error) {
	user, ok := resolveUser(v)
	if !ok {
		return nil, fmt.Errorf("%w: no user object", ErrMalformedPayload)
	}

	weeks, ok := lookup(user, "contributionsCollection", "contributionCalendar", "weeks").([]any)
	if !ok {
		return nil, fmt.Errorf("%w: no contribution calendar", ErrMalformedPayload)
	}

	counts := make(map[time.Time]int)
	for _, w := range weeks {
		week, ok := w.(map[string]any)
		if !ok {
			continue
		}
		days, ok := week["contributionDays"].([]any)
		if !ok {
			continue
		}
		for _, d := range days {
			if day, ok := parseDay(d); ok {
				counts[day.Date] = day.Count
			}
		}
	}

	if len(counts) == 0 {
		return nil, ErrNoDataFound
	}
	return newMap(counts), nil
}

func resolveUser(v any) (map[string]any, bool) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}

	// A present key wins even when its value is unusable.
	if u, found := root["user"]; found {
		user, ok := u.(map[string]any)
		return user, ok
	}
	for _, parent := range []string{"props", "payload"} {
		p, ok := root[parent].(map[string]any)
		if !ok {
			continue
		}
		if u, found := p["user"]; found {
			user, ok := u.(map[string]any)
			return user, ok
		}
	}
	if _, found := root["contributionsCollection"]; found {
		return root, true
	}
	return nil, false
}

// lookup descends through nested objects, returning nil on any miss.
func lookup(v any, path ...string) any {
	for _, key := range path {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = obj[key]
	}
	return v
}

func parseDay(v any) (Day, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Day{}, false
	}
	raw, ok := obj["date"].(string)
	if !ok {
		return Day{}, false
	}
	date, ok := parseDate(raw)
	if !ok {
		return Day{}, false
	}
	count, ok := parseCount(obj["contributionCount"])
	if !ok {
		return Day{}, false
	}
	return Day{Date: date, Count: count}, true
}
