/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs joe-gemini once against a single GitHub Actions event.
//
// It reads the event from GITHUB_EVENT_PATH and authenticates with the
// workflow's GITHUB_TOKEN, so it needs no App registration. A run summary
// is appended to GITHUB_STEP_SUMMARY when Actions provides one.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HOLYKEYZ/joe-gemini/clonemanager"
	"github.com/HOLYKEYZ/joe-gemini/githubapp"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers/commentreconciler"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers/prreconciler"
	"github.com/HOLYKEYZ/joe-gemini/trigger"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	GitHubToken  string `env:"GITHUB_TOKEN,required"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	EventName   string `env:"GITHUB_EVENT_NAME,required"`
	EventPath   string `env:"GITHUB_EVENT_PATH,required"`
	SummaryPath string `env:"GITHUB_STEP_SUMMARY"`
}

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would be done without querying the model")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}
	if !*dryRun && cfg.GeminiAPIKey == "" {
		clog.FatalContextf(ctx, "GEMINI_API_KEY is required unless -dry-run is set")
	}

	start := time.Now()
	outcome, res, err := run(ctx, &cfg, *dryRun)

	rows := [][]string{{"Event", cfg.EventName}}
	if res != nil {
		rows = append(rows, []string{"Resource", res.String()})
	}
	rows = append(rows,
		[]string{"Outcome", outcome},
		[]string{"Duration", time.Since(start).Round(time.Millisecond).String()})
	if err != nil {
		rows = append(rows, []string{"Error", err.Error()})
	}
	if serr := writeSummary(&cfg, rows); serr != nil {
		clog.ErrorContextf(ctx, "writing summary: %v", serr)
	}

	if err != nil {
		clog.FatalContextf(ctx, "run failed: %v", err)
	}
	clog.InfoContextf(ctx, "Run complete: %s", outcome)
}

func run(ctx context.Context, cfg *config, dryRun bool) (string, *reconcilers.Resource, error) {
	payload, err := os.ReadFile(cfg.EventPath)
	if err != nil {
		return "error", nil, fmt.Errorf("reading event: %w", err)
	}
	event, err := github.ParseWebHook(cfg.EventName, payload)
	if err != nil {
		return "error", nil, fmt.Errorf("parsing %s event: %w", cfg.EventName, err)
	}

	clients := githubapp.NewClientCache(githubapp.NewStaticTokenSources(cfg.GitHubToken))

	switch e := event.(type) {
	case *github.IssueCommentEvent:
		comment := e.GetComment()
		switch {
		case e.GetAction() != "created":
			return "ignored: action is not created", nil, nil
		case trigger.IsBot(comment.GetUser().GetLogin()):
			return "ignored: bot comment", nil, nil
		case !trigger.Triggered(comment.GetBody()):
			return "ignored: not mentioned", nil, nil
		}

		res := &reconcilers.Resource{
			Owner:  e.GetRepo().GetOwner().GetLogin(),
			Repo:   e.GetRepo().GetName(),
			Number: e.GetIssue().GetNumber(),
			Type:   reconcilers.ResourceTypeIssue,
		}
		if e.GetIssue().IsPullRequest() {
			res.Type = reconcilers.ResourceTypePullRequest
		}
		if dryRun {
			if trigger.WantsChanges(comment.GetBody()) {
				return "would propose changes", res, nil
			}
			return "would answer", res, nil
		}

		cloneMeta := clonemanager.NewMeta(ctx, clients.TokenSource, trigger.BotName)
		r, err := commentreconciler.New(trigger.BotName, cfg.GeminiAPIKey, cloneMeta)
		if err != nil {
			return "error", res, err
		}
		gh, err := clients.Get(ctx, res.Owner, res.Repo)
		if err != nil {
			return "error", res, err
		}
		if err := r.Reconcile(ctx, res, comment, gh); err != nil {
			return "error", res, err
		}
		return "responded", res, nil

	case *github.PullRequestEvent:
		switch e.GetAction() {
		case "opened", "reopened", "synchronize":
		default:
			return "ignored: action is not opened/reopened/synchronize", nil, nil
		}
		res := &reconcilers.Resource{
			Owner:  e.GetRepo().GetOwner().GetLogin(),
			Repo:   e.GetRepo().GetName(),
			Number: e.GetPullRequest().GetNumber(),
			Type:   reconcilers.ResourceTypePullRequest,
		}
		if dryRun {
			return "would review", res, nil
		}

		r, err := prreconciler.New(trigger.BotName, cfg.GeminiAPIKey)
		if err != nil {
			return "error", res, err
		}
		gh, err := clients.Get(ctx, res.Owner, res.Repo)
		if err != nil {
			return "error", res, err
		}
		if err := r.Reconcile(ctx, res, e.GetPullRequest(), gh); err != nil {
			return "error", res, err
		}
		return "reviewed", res, nil

	default:
		return fmt.Sprintf("ignored: unsupported event %s", cfg.EventName), nil, nil
	}
}

// writeSummary renders the run summary as a markdown table, appended to the
// Actions step summary when available and written to stdout otherwise.
func writeSummary(cfg *config, rows [][]string) error {
	var w io.Writer = os.Stdout
	if cfg.SummaryPath != "" {
		f, err := os.OpenFile(cfg.SummaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening step summary: %w", err)
		}
		defer f.Close()
		w = f
	}

	fmt.Fprintf(w, "## %s\n\n", trigger.BotName)
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.Off},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Behavior: tw.Behavior{TrimSpace: tw.Off},
		}),
		tablewriter.WithHeader([]string{"Field", "Value"}),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("adding row: %w", err)
		}
	}
	return table.Render()
}
