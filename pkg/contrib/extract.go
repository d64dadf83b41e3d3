package contrib

import (
	"bytes"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// strategy is one way of pulling a contribution calendar out of a document.
type strategy struct {
	Extract func(*document) (Map, bool)
	Name    string
}

// Strategy names, in the order Extract tries them.
const (
	StructuredData = "structured-data"
	EmbeddedScript = "embedded-script"
	LegacyGrid     = "legacy-grid"
)

var strategies = []strategy{
	{Name: StructuredData, Extract: fromAppData},
	{Name: EmbeddedScript, Extract: fromScripts},
	{Name: LegacyGrid, Extract: fromGridCells},
}

// Extract recovers a contribution calendar from a profile page or a JSON
// body. Strategies run in order and the first non-empty result wins; results
// are never merged. It returns the map and the name of the strategy that
// produced it, or ErrNoDataFound.
func Extract(body []byte) (Map, string, error) {
	doc := parseDocument(body)
	for _, s := range strategies {
		if m, ok := s.Extract(doc); ok && len(m) > 0 {
			return m, s.Name, nil
		}
	}
	return nil, "", ErrNoDataFound
}

var appDataTargets = map[string]bool{
	"react-app.data":         true,
	"react-app.embeddedData": true,
}

func fromAppData(doc *document) (Map, bool) {
	if trimmed := bytes.TrimSpace(doc.raw); len(trimmed) > 0 && trimmed[0] == '{' {
		if m, err := ParseJSON(trimmed); err == nil {
			return m, true
		}
	}

	nodes := doc.findAll(func(n *html.Node) bool {
		target, _ := attr(n, "data-target")
		return appDataTargets[target]
	})
	for _, n := range nodes {
		if m, err := ParseJSON([]byte(textContent(n))); err == nil {
			return m, true
		}
	}
	return nil, false
}

const calendarMarker = `"contributionCalendar"`

// maxBraceLookback caps how many opening braces are tried behind each marker.
const maxBraceLookback = 256

var (
	calendarObjectRe = regexp.MustCompile(`(?s)\{.*?"contributionCalendar".*?\}`)

	// Each pattern's first group is the JSON text to retry. Object captures
	// are also retried as balanced objects; string literals are not.
	unwrapPatterns = []struct {
		re     *regexp.Regexp
		object bool
	}{
		{re: regexp.MustCompile(`(?s)\{"data":\s*(\{.*?"contributionsCollection".*?\})`), object: true},
		{re: regexp.MustCompile(`(?s)var\s+data\s*=\s*(\{.*?"contributionsCollection".*?\})`), object: true},
		{re: regexp.MustCompile(`(?s)JSON\.parse\s*\(\s*['"](.*?)['"]\s*\)`)},
	}

	unescapeJSON = strings.NewReplacer(`\"`, `"`, `\/`, `/`)
)

func fromScripts(doc *document) (Map, bool) {
	scripts := doc.findAll(func(n *html.Node) bool { return n.Data == "script" })
	for _, script := range scripts {
		content := textContent(script)
		if content == "" {
			continue
		}

		for _, loc := range calendarObjectRe.FindAllStringIndex(content, -1) {
			if m, ok := firstParsed([]string{content[loc[0]:loc[1]]}); ok {
				return m, true
			}
		}
		if m, ok := fromEnclosingObjects(content); ok {
			return m, true
		}

		if !strings.Contains(content, "contributionsCollection") {
			continue
		}
		for _, p := range unwrapPatterns {
			for _, loc := range p.re.FindAllStringSubmatchIndex(content, -1) {
				candidates := []string{unescapeJSON.Replace(content[loc[2]:loc[3]])}
				if p.object {
					// Balance after unescaping so escaped quotes do not open strings.
					if obj, ok := balancedObject(unescapeJSON.Replace(content[loc[2]:]), 0); ok && obj != candidates[0] {
						candidates = append(candidates, obj)
					}
				}
				if m, ok := firstParsed(candidates); ok {
					return m, true
				}
			}
		}
	}
	return nil, false
}

// fromEnclosingObjects tries every balanced object that contains a calendar
// marker, innermost first. Scanning back from the marker finds the payload
// even when unrelated objects open earlier in the script.
func fromEnclosingObjects(content string) (Map, bool) {
	for off := 0; ; {
		i := strings.Index(content[off:], calendarMarker)
		if i < 0 {
			return nil, false
		}
		at := off + i
		open := strings.LastIndexByte(content[:at], '{')
		for tries := 0; open >= 0 && tries < maxBraceLookback; tries++ {
			if obj, ok := balancedObject(content, open); ok && open+len(obj) > at {
				if m, err := ParseJSON([]byte(obj)); err == nil {
					return m, true
				}
			}
			open = strings.LastIndexByte(content[:open], '{')
		}
		off = at + len(calendarMarker)
	}
}

// firstParsed folds over candidates and keeps the first one the walker
// accepts. Failures are ignored.
func firstParsed(candidates []string) (Map, bool) {
	for _, c := range candidates {
		if m, err := ParseJSON([]byte(c)); err == nil {
			return m, true
		}
	}
	return nil, false
}

// balancedObject scans s from start, which must be '{', to its matching '}',
// skipping braces inside JSON strings.
func balancedObject(s string, start int) (string, bool) {
	if start >= len(s) || s[start] != '{' {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// levelCounts approximates a count from a calendar cell's shade level.
var levelCounts = map[string]int{"0": 0, "1": 1, "2": 5, "3": 10, "4": 20}

func fromGridCells(doc *document) (Map, bool) {
	cells := doc.findAll(func(n *html.Node) bool {
		if n.Data != "rect" && n.Data != "td" {
			return false
		}
		_, hasDate := attr(n, "data-date")
		_, hasCount := attr(n, "data-count")
		_, hasLevel := attr(n, "data-level")
		return hasDate && (hasCount || hasLevel)
	})

	counts := make(map[time.Time]int)
	for _, cell := range cells {
		if day, ok := parseCell(cell); ok {
			counts[day.Date] = day.Count
		}
	}
	if len(counts) == 0 {
		return nil, false
	}
	return newMap(counts), true
}

func parseCell(n *html.Node) (Day, bool) {
	raw, _ := attr(n, "data-date")
	date, ok := parseDate(raw)
	if !ok {
		return Day{}, false
	}
	if c, found := attr(n, "data-count"); found {
		if count, ok := parseCount(c); ok {
			return Day{Date: date, Count: count}, true
		}
	}
	level, _ := attr(n, "data-level")
	count, ok := levelCounts[strings.TrimSpace(level)]
	if !ok {
		return Day{}, false
	}
	return Day{Date: date, Count: count}, true
}
