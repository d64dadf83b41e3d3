package main

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ghAuthToken asks the gh CLI for its token. It is a variable so tests can
// avoid shelling out.
var ghAuthToken = func(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// resolveGitHubToken returns the first token found in the flag value,
// GITHUB_TOKEN, or the gh CLI.
func resolveGitHubToken(ctx context.Context, flagValue string) string {
	if token := strings.TrimSpace(flagValue); token != "" {
		return token
	}
	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		return token
	}
	return ghAuthToken(ctx)
}
