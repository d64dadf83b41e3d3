package contrib

import (
	"errors"
	"testing"
)

const calendarPayload = `{"contributionsCollection":{"contributionCalendar":{"weeks":[
	{"contributionDays":[{"date":"2024-03-03","contributionCount":0},{"date":"2024-03-04","contributionCount":4}]},
	{"contributionDays":[{"date":"2024-03-10","contributionCount":2}]}
]}}}`

func TestParseJSONUserShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "user", payload: `{"user":` + calendarPayload + `}`},
		{name: "props.user", payload: `{"props":{"user":` + calendarPayload + `}}`},
		{name: "payload.user", payload: `{"payload":{"user":` + calendarPayload + `}}`},
		{name: "root collection", payload: calendarPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseJSON([]byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseJSON() error = %v", err)
			}
			if len(m) != 3 {
				t.Fatalf("ParseJSON() returned %d days, want 3", len(m))
			}
			if got := m.Count(date(t, "2024-03-04")); got != 4 {
				t.Errorf("Count(2024-03-04) = %d, want 4", got)
			}
			if got := m.Total(); got != 6 {
				t.Errorf("Total() = %d, want 6", got)
			}
		})
	}
}

func TestParseJSONRejectsGraphQLEnvelope(t *testing.T) {
	_, err := ParseJSON([]byte(`{"data":{"user":` + calendarPayload + `}}`))
	if !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("ParseJSON() error = %v, want ErrMalformedPayload", err)
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    error
	}{
		{name: "invalid json", payload: `{"user":`, want: ErrMalformedPayload},
		{name: "array root", payload: `[1,2,3]`, want: ErrMalformedPayload},
		{name: "user not an object", payload: `{"user":"octocat","props":{"user":` + calendarPayload + `}}`, want: ErrMalformedPayload},
		{name: "missing weeks", payload: `{"user":{"contributionsCollection":{"contributionCalendar":{}}}}`, want: ErrMalformedPayload},
		{name: "empty weeks", payload: `{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[]}}}}`, want: ErrNoDataFound},
		{
			name:    "only unusable days",
			payload: `{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[{"contributionDays":[{"date":"not a date","contributionCount":1},{"contributionCount":3}]}]}}}}`,
			want:    ErrNoDataFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseJSON([]byte(tt.payload))
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseJSON() error = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Errorf("ParseJSON() map = %v, want nil", m)
			}
		})
	}
}

func TestParseJSONDayValues(t *testing.T) {
	payload := `{"user":{"contributionsCollection":{"contributionCalendar":{"weeks":[
		{"contributionDays":[
			{"date":"2024-05-01T00:00:00Z","contributionCount":3},
			{"date":"2024/05/02","contributionCount":"7"},
			{"date":"2024-05-03"},
			{"date":"2024-05-04","contributionCount":-2},
			{"date":"garbage","contributionCount":9}
		]},
		"not a week",
		{"contributionDays":[{"date":"2024-05-01","contributionCount":8}]}
	]}}}}`

	m, err := ParseJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	want := map[string]int{
		"2024-05-01": 8, // later duplicate wins
		"2024-05-02": 7,
		"2024-05-03": 0,
	}
	if len(m) != len(want) {
		t.Errorf("ParseJSON() returned %d days, want %d: %v", len(m), len(want), m)
	}
	for s, c := range want {
		if got := m.Count(date(t, s)); got != c {
			t.Errorf("Count(%s) = %d, want %d", s, got, c)
		}
	}
	if got := m.Count(date(t, "2024-05-04")); got != 0 {
		t.Errorf("negative count kept: Count(2024-05-04) = %d", got)
	}
}

func TestMapOrdering(t *testing.T) {
	m := mapOf(t, map[string]int{
		"2024-02-03": 1,
		"2024-01-15": 2,
		"2024-03-01": 3,
	})
	for i := 1; i < len(m); i++ {
		if !m[i-1].Date.Before(m[i].Date) {
			t.Errorf("map not strictly increasing at %d: %v", i, m)
		}
	}
	if got := m.Start(); !got.Equal(date(t, "2024-01-15")) {
		t.Errorf("Start() = %v, want 2024-01-15", got)
	}
	if got := m.End(); !got.Equal(date(t, "2024-03-01")) {
		t.Errorf("End() = %v, want 2024-03-01", got)
	}
}
