package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const (
	choiceActivity = iota + 1
	choicePinned
	choiceRepositories
	choiceContributions
	choiceExit
)

const defaultListCount = 10

// menu offers follow-up views until the user exits, input ends or ctx is
// cancelled.
func (a *app) menu(ctx context.Context) error {
	lines := newLineReader(a.in)
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	if _, err := fmt.Fprintf(a.out, "\n%s\n%s View recent activities\n%s View pinned repositories\n%s View all repositories\n%s View contribution graph again\n%s Exit\n",
		color.New(color.Bold, color.FgCyan).Sprint("Additional Options:"),
		dim.Sprint("1."), dim.Sprint("2."), dim.Sprint("3."), dim.Sprint("4."), dim.Sprint("5.")); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return a.goodbye()
		}

		choice, err := promptInt(ctx, lines, a.out, "\n"+bold.Sprint("Enter your choice")+" [1/2/3/4/5] (5): ", choiceExit,
			func(n int) bool { return n >= choiceActivity && n <= choiceExit })
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return a.goodbye()
			}
			return err
		}

		switch choice {
		case choiceActivity:
			count, err := promptInt(ctx, lines, a.out, "How many recent commits to show? (10): ", defaultListCount, positive)
			if err != nil {
				return a.endOfInput(ctx, err)
			}
			if err := a.showActivity(ctx, count); err != nil {
				return err
			}
		case choicePinned:
			if err := a.showPinned(ctx); err != nil {
				return err
			}
		case choiceRepositories:
			count, err := promptInt(ctx, lines, a.out, "How many repositories to show? (10): ", defaultListCount, positive)
			if err != nil {
				return a.endOfInput(ctx, err)
			}
			if err := a.showRepositories(ctx, count); err != nil {
				return err
			}
		case choiceContributions:
			if err := a.showContributions(ctx, false); err != nil {
				return err
			}
		case choiceExit:
			return a.goodbye()
		}
	}
}

func (a *app) goodbye() error {
	_, err := fmt.Fprintln(a.out, color.New(color.FgGreen).Sprint("Goodbye!"))
	return err
}

func positive(n int) bool { return n > 0 }

// endOfInput treats exhausted input as a quiet exit and cancellation as a
// polite one.
func (a *app) endOfInput(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return a.goodbye()
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type lineResult struct {
	line string
	err  error
}

// lineReader reads lines on its own goroutine so a prompt can give up when
// ctx is cancelled. The goroutine stays blocked in Read until the underlying
// reader returns; for stdin that is process exit.
type lineReader struct {
	lines chan lineResult
}

func newLineReader(r io.Reader) *lineReader {
	l := &lineReader{lines: make(chan lineResult, 1)}
	go func() {
		defer close(l.lines)
		br := bufio.NewReader(r)
		for {
			line, err := br.ReadString('\n')
			l.lines <- lineResult{line: line, err: err}
			if err != nil {
				return
			}
		}
	}()
	return l
}

// readLine returns the next line, or ctx.Err() if ctx ends first.
func (l *lineReader) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

// promptInt asks until it reads a valid number. An empty answer selects def.
// io.EOF is returned once input is exhausted, ctx.Err() once ctx is done.
func promptInt(ctx context.Context, r *lineReader, w io.Writer, prompt string, def int, valid func(int) bool) (int, error) {
	for {
		if _, err := io.WriteString(w, prompt); err != nil {
			return 0, err
		}
		line, err := r.readLine(ctx)
		answer := strings.TrimSpace(line)
		if err != nil && (!errors.Is(err, io.EOF) || answer == "") {
			return 0, err
		}

		if answer == "" {
			return def, nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && valid(n) {
			return n, nil
		}
		if _, werr := fmt.Fprintln(w, color.New(color.FgRed).Sprint("Please enter a valid choice")); werr != nil {
			return 0, werr
		}
		if err != nil {
			return 0, err
		}
	}
}
