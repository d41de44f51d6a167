/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package prreconciler

import (
	"context"
	"fmt"
	"strings"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor"
	"github.com/HOLYKEYZ/joe-gemini/agents/result"
	"github.com/HOLYKEYZ/joe-gemini/agents/schema"
	"github.com/HOLYKEYZ/joe-gemini/botconfig"
	"github.com/HOLYKEYZ/joe-gemini/memory"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/HOLYKEYZ/joe-gemini/repocontext"
	"github.com/HOLYKEYZ/joe-gemini/trigger"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
)

// Reconciler reviews pull requests once per head commit.
type Reconciler struct {
	identity string
	apiKey   string
	notes    *memory.Notes[reviewState]

	// newQuerier is injected for tests.
	newQuerier func(ctx context.Context, cfg executor.Config) (executor.Querier, error)
}

// New creates a Reconciler.
func New(identity, apiKey string) (*Reconciler, error) {
	notes, err := memory.NewNotes[reviewState](identity + "-review")
	if err != nil {
		return nil, fmt.Errorf("creating review notes: %w", err)
	}
	return &Reconciler{
		identity:   identity,
		apiKey:     apiKey,
		notes:      notes,
		newQuerier: executor.New,
	}, nil
}

// Reconcile reviews the pull request if its head commit has not been
// reviewed yet.
func (r *Reconciler) Reconcile(ctx context.Context, res *reconcilers.Resource, pr *github.PullRequest, gh *github.Client) error {
	log := clog.FromContext(ctx).With("resource", res.String())

	if trigger.IsBot(pr.GetUser().GetLogin()) {
		log.Debug("Not reviewing bot pull requests")
		return nil
	}

	cfg, err := botconfig.Load(ctx, gh, res.Owner, res.Repo)
	if err != nil {
		return fmt.Errorf("loading bot config: %w", err)
	}
	if !cfg.ReviewsEnabled() {
		log.Debug("Reviews disabled for repository")
		return nil
	}
	if hasLabel(pr, cfg.SkipLabel) {
		log.With("label", cfg.SkipLabel).Info("PR has skip label, ignoring")
		return nil
	}

	headSHA := pr.GetHead().GetSHA()
	reviewed, err := r.alreadyReviewed(ctx, res, gh, headSHA)
	if err != nil {
		return fmt.Errorf("checking prior reviews: %w", err)
	}
	if reviewed {
		log.With("sha", headSHA).Info("Head commit already reviewed")
		return nil
	}

	rawDiff, _, err := gh.PullRequests.GetRaw(ctx, res.Owner, res.Repo, res.Number,
		github.RawOptions{Type: github.Diff})
	if err != nil {
		return fmt.Errorf("fetching raw diff: %w", err)
	}

	bundle, err := repocontext.NewFetcher(gh, res.Owner, res.Repo).Gather(ctx, repocontext.Request{
		Ref: headSHA,
	})
	if err != nil {
		return fmt.Errorf("gathering context: %w", err)
	}

	querier, err := r.newQuerier(ctx, executor.Config{
		Model:              cfg.Model,
		APIKey:             r.apiKey,
		UserPrompt:         reviewPrompt,
		SystemInstructions: systemInstructions,
		Temperature:        *cfg.Temperature,
		MaxOutputTokens:    cfg.MaxOutputTokens,
		ResponseSchema:     schema.GenaiFor[Review](),
	})
	if err != nil {
		return fmt.Errorf("creating executor: %w", err)
	}

	reply, err := querier.Query(ctx, &ReviewRequest{
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
		Author: pr.GetUser().GetLogin(),
		Diff:   truncateDiff(rawDiff),
		Tree:   bundle.Tree,
	})
	if err != nil {
		return fmt.Errorf("querying model: %w", err)
	}

	review, err := result.Extract[Review](reply)
	if err != nil {
		return fmt.Errorf("extracting review: %w", err)
	}
	if err := review.Validate(); err != nil {
		return fmt.Errorf("invalid review: %w", err)
	}

	return r.postReview(ctx, res, gh, rawDiff, headSHA, &review)
}

// postReview anchors line comments to diff positions and submits the review.
// Comments the diff cannot anchor are folded into the summary.
func (r *Reconciler) postReview(ctx context.Context, res *reconcilers.Resource, gh *github.Client, rawDiff, headSHA string, review *Review) error {
	log := clog.FromContext(ctx)

	idx, err := indexDiff(rawDiff)
	if err != nil {
		return err
	}

	var comments []*github.DraftReviewComment
	var unanchored []ReviewComment
	for _, c := range review.Comments {
		pos, ok := idx.Position(c.Path, c.Line)
		if !ok {
			unanchored = append(unanchored, c)
			continue
		}
		comments = append(comments, &github.DraftReviewComment{
			Path:     github.Ptr(c.Path),
			Position: github.Ptr(pos),
			Body:     github.Ptr(c.Body),
		})
	}

	body := review.Summary
	if len(unanchored) > 0 {
		var sb strings.Builder
		sb.WriteString(body)
		sb.WriteString("\n\nNotes on lines outside the diff:\n")
		for _, c := range unanchored {
			fmt.Fprintf(&sb, "\n- `%s:%d`: %s", c.Path, c.Line, c.Body)
		}
		body = sb.String()
	}

	body, err = r.notes.Embed(body, reviewState{HeadSHA: headSHA})
	if err != nil {
		return fmt.Errorf("embedding review state: %w", err)
	}

	if _, _, err := gh.PullRequests.CreateReview(ctx, res.Owner, res.Repo, res.Number,
		&github.PullRequestReviewRequest{
			CommitID: github.Ptr(headSHA),
			Body:     github.Ptr(body),
			Event:    github.Ptr("COMMENT"),
			Comments: comments,
		}); err != nil {
		return fmt.Errorf("creating review: %w", err)
	}

	log.With("sha", headSHA).With("comments", len(comments)).Info("Posted review")
	return nil
}

// alreadyReviewed reports whether a prior bot review covers headSHA.
func (r *Reconciler) alreadyReviewed(ctx context.Context, res *reconcilers.Resource, gh *github.Client, headSHA string) (bool, error) {
	reviews, _, err := gh.PullRequests.ListReviews(ctx, res.Owner, res.Repo, res.Number, nil)
	if err != nil {
		return false, fmt.Errorf("listing reviews: %w", err)
	}
	for _, review := range reviews {
		if !trigger.IsSelf(review.GetUser().GetLogin()) {
			continue
		}
		state, ok, err := r.notes.Extract(review.GetBody())
		if err != nil || !ok {
			continue
		}
		if state.HeadSHA == headSHA {
			return true, nil
		}
	}
	return false, nil
}

// truncateDiff bounds the diff text interpolated into prompts. The full
// diff is still used for position anchoring.
func truncateDiff(diff string) string {
	const maxBytes = repocontext.MaxDiffFiles * repocontext.MaxPatchBytes
	if len(diff) <= maxBytes {
		return diff
	}
	return diff[:maxBytes] + repocontext.TruncationMarker
}

func hasLabel(pr *github.PullRequest, label string) bool {
	for _, l := range pr.Labels {
		if l.GetName() == label {
			return true
		}
	}
	return false
}
