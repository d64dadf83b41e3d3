package github

import (
	"encoding/json"
	"time"
)

// User represents a GitHub user profile.
type User struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	HTMLURL     string    `json:"html_url"`
	AvatarURL   string    `json:"avatar_url"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// PublicEvent represents a GitHub public event.
type PublicEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"repo"`
	Payload json.RawMessage `json:"payload"`
}

// Repository represents a GitHub repository
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	StarCount   int       `json:"stargazers_count"`
	ForkCount   int       `json:"forks_count"`
	UpdatedAt   time.Time `json:"updated_at"`
	HTMLURL     string    `json:"html_url"`
}

// PinnedRepository is a repository pinned on a profile, as returned by GraphQL.
type PinnedRepository struct {
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	URL             string        `json:"url"`
	StargazerCount  int           `json:"stargazerCount"`
	ForkCount       int           `json:"forkCount"`
	PrimaryLanguage *LanguageInfo `json:"primaryLanguage"`
}

// LanguageInfo is a repository's primary language.
type LanguageInfo struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Language returns the primary language name, or "" when unset.
func (r PinnedRepository) Language() string {
	if r.PrimaryLanguage == nil {
		return ""
	}
	return r.PrimaryLanguage.Name
}

// LanguageColor returns the language's hex color, defaulting to white.
func (r PinnedRepository) LanguageColor() string {
	if r.PrimaryLanguage == nil || r.PrimaryLanguage.Color == "" {
		return "#ffffff"
	}
	return r.PrimaryLanguage.Color
}
