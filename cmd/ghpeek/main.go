// Package main implements the ghpeek CLI for previewing GitHub profiles in a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/V1337Q/ghpeek/pkg/contrib"
	"github.com/V1337Q/ghpeek/pkg/peek"
	"github.com/V1337Q/ghpeek/pkg/render"
)

const version = "ghpeek v1.0.0"

// requestTimeout bounds each fetch so one slow endpoint cannot hang the menu.
const requestTimeout = 30 * time.Second

// config is the parsed command line.
type config struct {
	username      string
	githubToken   string
	weeks         int
	commits       int
	repos         int
	noGraphQL     bool
	noPinned      bool
	noInteractive bool
	noCache       bool
	verbose       bool
	showVersion   bool
}

func main() {
	envErrs := loadEnvFiles(envFilePaths()...)

	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.showVersion {
		fmt.Println(version)
		return
	}

	level := slog.LevelError
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	for _, err := range envErrs {
		logger.Debug("skipping env file", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		// A second interrupt falls through to the default handler and kills us.
		<-ctx.Done()
		stop()
	}()

	opts := []peek.Option{peek.WithGitHubToken(resolveGitHubToken(ctx, cfg.githubToken))}
	if cfg.noCache {
		opts = append(opts, peek.WithNoCache())
	}
	if cfg.noGraphQL {
		opts = append(opts, peek.WithoutGraphQL())
	}

	peeker := peek.NewWithLogger(ctx, logger, opts...)
	defer func() {
		if err := peeker.Close(); err != nil {
			logger.Error("failed to close peeker", "error", err)
		}
	}()

	a := &app{
		peeker:      peeker,
		logger:      logger,
		out:         os.Stdout,
		in:          os.Stdin,
		interactive: !cfg.noInteractive && term.IsTerminal(int(os.Stdin.Fd())),
	}
	if err := a.run(ctx, cfg); err != nil {
		stop()
		logger.Error("ghpeek failed", "error", err)
		os.Exit(1)
	}
}

func envFilePaths() []string {
	paths := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".ghpeek.env"))
	}
	return paths
}

// loadEnvFiles reads optional dotenv files. Variables already set win.
// Missing files are fine; anything else is returned for logging.
func loadEnvFiles(paths ...string) []error {
	var errs []error
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return errs
}

// parseFlags parses args into a config. GHPEEK_WEEKS supplies --weeks when
// the flag is not given.
func parseFlags(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{}
	fs.IntVar(&cfg.weeks, "weeks", contrib.DefaultWeeks, "Weeks to display (or set GHPEEK_WEEKS)")
	fs.IntVar(&cfg.weeks, "w", contrib.DefaultWeeks, "Shorthand for --weeks")
	fs.IntVar(&cfg.commits, "commits", 0, "Show N recent activity rows and exit")
	fs.IntVar(&cfg.commits, "c", 0, "Shorthand for --commits")
	fs.IntVar(&cfg.repos, "repos", 0, "Show N repositories and exit")
	fs.IntVar(&cfg.repos, "r", 0, "Shorthand for --repos")
	fs.BoolVar(&cfg.noGraphQL, "no-graphql", false, "Skip the GraphQL API")
	fs.BoolVar(&cfg.noPinned, "no-pinned", false, "Skip pinned repositories")
	fs.BoolVar(&cfg.noInteractive, "no-interactive", false, "Skip the interactive menu")
	fs.StringVar(&cfg.githubToken, "github-token", "", "GitHub token for API access (or set GITHUB_TOKEN)")
	fs.BoolVar(&cfg.noCache, "no-cache", false, "Disable caching")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cfg.showVersion, "version", false, "Show version")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <github-username>\n", fs.Name())
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.showVersion {
		return cfg, nil
	}

	weeksSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "weeks" || f.Name == "w" {
			weeksSet = true
		}
	})
	if env := os.Getenv("GHPEEK_WEEKS"); env != "" && !weeksSet {
		n, err := strconv.Atoi(env)
		if err != nil {
			return nil, fmt.Errorf("invalid GHPEEK_WEEKS %q: %w", env, err)
		}
		cfg.weeks = n
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one GitHub username")
	}
	cfg.username = strings.TrimSpace(fs.Arg(0))
	if !peek.IsValidGitHubUsername(cfg.username) {
		return nil, fmt.Errorf("%w: %q", peek.ErrInvalidUsername, cfg.username)
	}
	return cfg, nil
}

// app drives one ghpeek session.
type app struct {
	peeker      *peek.Peeker
	logger      *slog.Logger
	out         io.Writer
	in          io.Reader
	interactive bool
	weeks       int
	username    string
}

func (a *app) run(ctx context.Context, cfg *config) error {
	a.username = cfg.username
	a.weeks = cfg.weeks

	if err := render.Header(a.out, a.username); err != nil {
		return err
	}
	if err := a.showProfile(ctx); err != nil {
		return err
	}

	if cfg.commits > 0 {
		return a.showActivity(ctx, cfg.commits)
	}
	if cfg.repos > 0 {
		return a.showRepositories(ctx, cfg.repos)
	}

	if err := a.showContributions(ctx, true); err != nil {
		return err
	}
	if !cfg.noPinned {
		if err := a.showPinned(ctx); err != nil {
			return err
		}
	}

	if !a.interactive {
		return nil
	}
	return a.menu(ctx)
}

func (a *app) warn(label string, err error) error {
	_, werr := fmt.Fprintf(a.out, "%s %v\n", color.New(color.FgYellow).Sprint(label), err)
	return werr
}

func (a *app) showProfile(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	user, err := a.peeker.Profile(ctx, a.username)
	if err != nil {
		if user == nil {
			return err
		}
		if werr := a.warn("API warning:", err); werr != nil {
			return werr
		}
	}
	return render.ProfileCard(a.out, user)
}

// showContributions fetches and draws the calendar. Fetch failures are
// reported to the user rather than returned.
func (a *app) showContributions(ctx context.Context, tips bool) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	result, err := a.peeker.Contributions(ctx, a.username)
	if err != nil {
		a.logger.Debug("contributions unavailable", "username", a.username, "error", err)
		if _, werr := fmt.Fprintf(a.out, "%s %v\n", color.New(color.FgRed).Sprint("Failed to fetch contribution data:"), err); werr != nil {
			return werr
		}
		if !tips {
			return nil
		}
		dim := color.New(color.Faint)
		_, werr := fmt.Fprint(a.out, "\n"+dim.Sprint("Tips:")+"\n"+
			dim.Sprint("• Set GITHUB_TOKEN environment variable for GraphQL access")+"\n"+
			dim.Sprint("• The user might have no public contributions")+"\n"+
			dim.Sprint("• GitHub might have changed their data structure again")+"\n")
		return werr
	}

	if err := render.Calendar(a.out, contrib.BuildGrid(result.Days, a.weeks)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, color.New(color.Faint).Sprintf("Data fetched via: %s", result.Method))
	return err
}

func (a *app) showPinned(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	repos, err := a.peeker.PinnedRepositories(ctx, a.username)
	if err != nil {
		return a.warn("Pinned repos:", err)
	}
	return render.PinnedRepositories(a.out, repos)
}

func (a *app) showActivity(ctx context.Context, count int) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	items, err := a.peeker.RecentActivity(ctx, a.username, count)
	if errors.Is(err, peek.ErrNoActivity) {
		return render.ActivityTable(a.out, nil)
	}
	if err != nil {
		return a.warn("Recent activity:", err)
	}
	return render.ActivityTable(a.out, items)
}

func (a *app) showRepositories(ctx context.Context, count int) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	repos, stats, err := a.peeker.Repositories(ctx, a.username, count)
	if err != nil {
		return a.warn("Repositories:", err)
	}
	return render.RepositoryTable(a.out, repos, stats)
}
