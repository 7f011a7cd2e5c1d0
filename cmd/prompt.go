package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calegray/syncopate/internal/library"
	"github.com/calegray/syncopate/internal/models"
	"github.com/calegray/syncopate/internal/resolve"
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, w, h string) *Palette {
	return &Palette{
		title: lipgloss.NewStyle().Foreground(lipgloss.Color(t)).Bold(true),
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color(s)).Bold(true),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color(w)),
		help:  lipgloss.NewStyle().Foreground(lipgloss.Color(h)).Italic(true),
	}
}

var styles = NewPalette("#7D56F4", "#04B575", "#FFA500", "#626262")

// Prompter answers escalation requests from the operator's terminal. In
// non-interactive mode every request is answered with a skip so batch runs
// never block on a prompt.
type Prompter struct {
	in       *bufio.Scanner
	out      io.Writer
	lib      library.Searcher
	autoSkip bool
}

func NewPrompter(in io.Reader, out io.Writer, lib library.Searcher, autoSkip bool) *Prompter {
	return &Prompter{
		in:       bufio.NewScanner(in),
		out:      out,
		lib:      lib,
		autoSkip: autoSkip,
	}
}

// Serve reads escalation requests until the escalator closes or the
// context is cancelled, answering each one.
func (p *Prompter) Serve(ctx context.Context, esc *resolve.Escalator) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-esc.Requests():
			if !ok {
				return
			}
			p.answer(ctx, req)
		}
	}
}

func (p *Prompter) answer(ctx context.Context, req *resolve.Request) {
	if p.autoSkip {
		req.Respond(resolve.Decision{Action: resolve.ActionSkip})
		return
	}

	var d resolve.Decision
	switch req.Kind {
	case resolve.ConfirmMatch:
		d = p.confirm(req)
	case resolve.ManualSearch:
		d = p.manualSearch(ctx, req)
	default:
		d = resolve.Decision{Action: resolve.ActionSkip}
	}

	// the worker may have been cancelled while we were reading input
	if err := req.Respond(d); err != nil {
		fmt.Fprintf(p.out, "%s\n", styles.warn.Render("decision discarded: "+err.Error()))
	}
}

func (p *Prompter) confirm(req *resolve.Request) resolve.Decision {
	fmt.Fprintf(p.out, "\n%s\n", styles.title.Render("Confirm match"))
	fmt.Fprintf(p.out, "  Wanted: %s\n", req.Descriptor)
	if req.Album != "" {
		fmt.Fprintf(p.out, "          album %q\n", req.Album)
	}
	if req.Best != nil {
		fmt.Fprintf(p.out, "  Found:  %s - %s [%s]  %s\n",
			req.Best.Artist, req.Best.Title, req.Best.Album,
			styles.ok.Render(fmt.Sprintf("%.1f", req.Score)))
	}
	fmt.Fprintf(p.out, "%s\n", styles.help.Render("[a]ccept  [s]kip  [S]kip all  [m]anual search"))

	switch p.readLine("> ") {
	case "a", "y", "yes":
		return resolve.Decision{Action: resolve.ActionAccept}
	case "S":
		return resolve.Decision{Action: resolve.ActionSkipAll}
	case "m":
		return resolve.Decision{Action: resolve.ActionManualSearch}
	default:
		return resolve.Decision{Action: resolve.ActionSkip}
	}
}

func (p *Prompter) manualSearch(ctx context.Context, req *resolve.Request) resolve.Decision {
	fmt.Fprintf(p.out, "\n%s\n", styles.title.Render("Manual search"))
	fmt.Fprintf(p.out, "  Wanted: %s\n", req.Descriptor)
	if req.Reason != "" {
		fmt.Fprintf(p.out, "  %s\n", styles.warn.Render(req.Reason))
	}

	for {
		fmt.Fprintf(p.out, "%s\n", styles.help.Render("enter a search query, or [s]kip / [S]kip all"))
		query := p.readLine("search> ")
		switch query {
		case "", "s":
			return resolve.Decision{Action: resolve.ActionSkip}
		case "S":
			return resolve.Decision{Action: resolve.ActionSkipAll}
		}

		tracks, err := p.lib.SearchTracks(ctx, query)
		if err != nil {
			fmt.Fprintf(p.out, "%s\n", styles.warn.Render("search failed: "+err.Error()))
			continue
		}
		if len(tracks) == 0 {
			fmt.Fprintf(p.out, "%s\n", styles.warn.Render("no results"))
			continue
		}
		if len(tracks) > 10 {
			tracks = tracks[:10]
		}
		for i, track := range tracks {
			fmt.Fprintf(p.out, "  %2d. %s - %s [%s]\n", i+1, track.Artist, track.Title, track.Album)
		}

		if pick, ok := p.pick(tracks); ok {
			fmt.Fprintf(p.out, "%s\n", styles.ok.Render("selected "+pick.Title))
			return resolve.Decision{Action: resolve.ActionAccept, Choice: pick}
		}
	}
}

// pick reads a 1-based index into tracks. Anything else retries the search.
func (p *Prompter) pick(tracks []models.Candidate) (*models.Candidate, bool) {
	line := p.readLine("pick> ")
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(tracks) {
		return nil, false
	}
	chosen := tracks[n-1]
	return &chosen, true
}

func (p *Prompter) readLine(prompt string) string {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}
