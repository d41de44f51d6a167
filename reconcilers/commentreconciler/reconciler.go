/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package commentreconciler

import (
	"context"
	"fmt"
	"slices"
	"text/template"
	"unicode/utf8"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor"
	"github.com/HOLYKEYZ/joe-gemini/agents/result"
	"github.com/HOLYKEYZ/joe-gemini/botconfig"
	"github.com/HOLYKEYZ/joe-gemini/changemanager"
	"github.com/HOLYKEYZ/joe-gemini/clonemanager"
	"github.com/HOLYKEYZ/joe-gemini/memory"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/HOLYKEYZ/joe-gemini/repocontext"
	"github.com/HOLYKEYZ/joe-gemini/trigger"
	"github.com/chainguard-dev/clog"
	gogit "github.com/go-git/go-git/v5"
	"github.com/google/go-github/v75/github"
)

var (
	prTitleTemplate = template.Must(template.New("title").Parse(
		"joe-gemini: fix for #{{.IssueNumber}}"))
	prBodyTemplate = template.Must(template.New("body").Parse(
		"{{.Explanation}}\n\nRequested in {{.IssueURL}}."))
)

// threadState is embedded in the bot's answer comments so reconcilers can
// recognize their own output in thread history.
type threadState struct {
	IssueNumber int `json:"issueNumber"`
}

// Reconciler responds to triggering comments on issues and pull requests.
type Reconciler struct {
	identity  string
	apiKey    string
	cloneMeta *clonemanager.Meta
	cm        *changemanager.CM[PRData]
	notes     *memory.Notes[threadState]

	// newQuerier is injected for tests.
	newQuerier func(ctx context.Context, cfg executor.Config) (executor.Querier, error)
}

// New creates a Reconciler. The API key authenticates against whichever
// model provider the repository's configuration selects.
func New(identity, apiKey string, cloneMeta *clonemanager.Meta) (*Reconciler, error) {
	cm, err := changemanager.New(identity, prTitleTemplate, prBodyTemplate,
		func(data PRData, res *reconcilers.Resource) bool {
			return data.IssueNumber == res.Number
		})
	if err != nil {
		return nil, fmt.Errorf("creating change manager: %w", err)
	}

	notes, err := memory.NewNotes[threadState](identity + "-comment")
	if err != nil {
		return nil, fmt.Errorf("creating comment notes: %w", err)
	}

	return &Reconciler{
		identity:   identity,
		apiKey:     apiKey,
		cloneMeta:  cloneMeta,
		cm:         cm,
		notes:      notes,
		newQuerier: executor.New,
	}, nil
}

// Reconcile handles one triggering comment on the given resource. The
// comment has already passed the gateway's mention and self checks; the
// reconciler re-applies them as the comment may have been edited since.
func (r *Reconciler) Reconcile(ctx context.Context, res *reconcilers.Resource, comment *github.IssueComment, gh *github.Client) error {
	log := clog.FromContext(ctx).With("resource", res.String())

	body := comment.GetBody()
	author := comment.GetUser().GetLogin()

	switch {
	case trigger.IsBot(author):
		log.Debug("Ignoring bot comment")
		return nil
	case !trigger.Triggered(body):
		log.Debug("Comment does not address the bot")
		return nil
	}

	cfg, err := botconfig.Load(ctx, gh, res.Owner, res.Repo)
	if err != nil {
		return fmt.Errorf("loading bot config: %w", err)
	}

	issue, _, err := gh.Issues.Get(ctx, res.Owner, res.Repo, res.Number)
	if err != nil {
		return fmt.Errorf("fetch issue: %w", err)
	}
	if hasLabel(issue, cfg.SkipLabel) {
		log.With("label", cfg.SkipLabel).Info("Issue has skip label, ignoring")
		return nil
	}

	request, baseRef, err := r.buildRequest(ctx, res, issue, comment, gh)
	if err != nil {
		return r.reportFailure(ctx, res, gh, fmt.Errorf("gathering context: %w", err))
	}

	if trigger.WantsChanges(body) {
		if err := r.makeChanges(ctx, res, issue, request, cfg, baseRef, gh); err != nil {
			return r.reportFailure(ctx, res, gh, err)
		}
		return nil
	}

	if err := r.answer(ctx, res, request, cfg, gh); err != nil {
		return r.reportFailure(ctx, res, gh, err)
	}
	return nil
}

// buildRequest gathers repository context and assembles the model request.
// It also returns the ref the context was read from, which changes use as
// their base.
func (r *Reconciler) buildRequest(ctx context.Context, res *reconcilers.Resource, issue *github.Issue, comment *github.IssueComment, gh *github.Client) (*Request, string, error) {
	repo, _, err := gh.Repositories.Get(ctx, res.Owner, res.Repo)
	if err != nil {
		return nil, "", fmt.Errorf("fetch repository: %w", err)
	}
	baseRef := repo.GetDefaultBranch()

	req := repocontext.Request{
		Ref:         baseRef,
		IssueNumber: res.Number,
		Paths:       trigger.ReferencedPaths(comment.GetBody()),
	}
	if res.Type == reconcilers.ResourceTypePullRequest {
		req.PRNumber = res.Number
	}

	bundle, err := repocontext.NewFetcher(gh, res.Owner, res.Repo).Gather(ctx, req)
	if err != nil {
		return nil, "", err
	}

	return &Request{
		IssueTitle:    issue.GetTitle(),
		IssueBody:     issue.GetBody(),
		CommentAuthor: comment.GetUser().GetLogin(),
		CommentBody:   comment.GetBody(),
		Tree:          bundle.Tree,
		Diff:          bundle.Diff,
		Files:         bundle.Files,
		Thread:        bundle.Thread,
	}, baseRef, nil
}

// answer posts a model-generated reply to the thread.
func (r *Reconciler) answer(ctx context.Context, res *reconcilers.Resource, request *Request, cfg botconfig.Config, gh *github.Client) error {
	querier, err := r.newQuerier(ctx, executor.Config{
		Model:              cfg.Model,
		APIKey:             r.apiKey,
		UserPrompt:         answerPrompt,
		SystemInstructions: systemInstructions,
		Temperature:        *cfg.Temperature,
		MaxOutputTokens:    cfg.MaxOutputTokens,
	})
	if err != nil {
		return fmt.Errorf("creating executor: %w", err)
	}

	reply, err := querier.Query(ctx, request)
	if err != nil {
		return fmt.Errorf("querying model: %w", err)
	}

	return r.postComment(ctx, res, gh, reply)
}

// makeChanges runs the two-step change flow: post a plan, generate the
// change set, push it to a fresh branch, and open a PR.
func (r *Reconciler) makeChanges(ctx context.Context, res *reconcilers.Resource, issue *github.Issue, request *Request, cfg botconfig.Config, baseRef string, gh *github.Client) error {
	log := clog.FromContext(ctx)

	planner, err := r.newQuerier(ctx, executor.Config{
		Model:              cfg.Model,
		APIKey:             r.apiKey,
		UserPrompt:         planPrompt,
		SystemInstructions: systemInstructions,
		Temperature:        *cfg.Temperature,
		MaxOutputTokens:    cfg.MaxOutputTokens,
	})
	if err != nil {
		return fmt.Errorf("creating planner: %w", err)
	}

	plan, err := planner.Query(ctx, request)
	if err != nil {
		return fmt.Errorf("querying for plan: %w", err)
	}
	if err := r.postComment(ctx, res, gh, "Here is my plan:\n\n"+plan); err != nil {
		return err
	}

	coder, err := r.newQuerier(ctx, executor.Config{
		Model:              cfg.Model,
		APIKey:             r.apiKey,
		UserPrompt:         changePrompt,
		SystemInstructions: systemInstructions,
		Temperature:        *cfg.Temperature,
		MaxOutputTokens:    cfg.MaxOutputTokens,
	})
	if err != nil {
		return fmt.Errorf("creating coder: %w", err)
	}

	reply, err := coder.Query(ctx, &ChangeRequest{Request: request, Plan: plan})
	if err != nil {
		return fmt.Errorf("querying for changes: %w", err)
	}

	changes, err := result.Extract[ChangeSet](reply)
	if err != nil {
		// No parseable payload; post what the model said instead of failing.
		log.With("error", err).Info("Reply carried no change set, posting as analysis")
		return r.postComment(ctx, res, gh, reply)
	}
	if len(changes.Files) == 0 {
		analysis := changes.Explanation
		if analysis == "" {
			analysis = reply
		}
		return r.postComment(ctx, res, gh, analysis)
	}
	if err := changes.Validate(); err != nil {
		return fmt.Errorf("invalid change set: %w", err)
	}

	session, err := r.cm.NewSession(ctx, gh, res)
	if err != nil {
		return fmt.Errorf("creating change session: %w", err)
	}
	if session.HasSkipLabel() {
		log.Info("Outstanding PR has skip label, not publishing")
		return r.postComment(ctx, res, gh,
			fmt.Sprintf("An open PR for this issue carries the `skip:%s` label, so I left it alone: %s", r.identity, session.OutstandingURL()))
	}

	prURL, err := session.Publish(ctx, PRData{
		IssueNumber: res.Number,
		IssueURL:    issue.GetHTMLURL(),
		Explanation: changes.Explanation,
	}, nil, func(ctx context.Context, branchName string) error {
		mgr, err := r.cloneMeta.Get(res.Owner, res.Repo)
		if err != nil {
			return fmt.Errorf("get clone manager: %w", err)
		}

		lease, err := mgr.Lease(ctx, res, baseRef)
		if err != nil {
			return fmt.Errorf("acquire lease: %w", err)
		}
		defer func() {
			if err := lease.Return(ctx); err != nil {
				log.With("error", err).Warn("Failed to return lease")
			}
		}()

		return lease.MakeAndPushChanges(ctx, branchName, func(_ context.Context, wt *gogit.Worktree) (string, error) {
			if err := clonemanager.ApplyFiles(wt, changes.Files); err != nil {
				return "", err
			}
			return fmt.Sprintf("joe-gemini: fix for #%d\n\n%s", res.Number, changes.Explanation), nil
		})
	})
	if err != nil {
		// The changes exist, only the push failed; hand them to the user
		// instead of dropping them.
		log.With("error", err).Error("Failed to publish changes, posting them instead")
		return r.postComment(ctx, res, gh, fallbackChangesComment(reply))
	}

	return r.postComment(ctx, res, gh,
		fmt.Sprintf("%s\n\nI opened %s with these changes.", changes.Explanation, prURL))
}

const (
	// maxCommentBody keeps posted comments under GitHub's 65536-char limit,
	// with room for the embedded state note.
	maxCommentBody = 60000

	// maxFallbackBytes bounds the generated-changes text posted when the
	// commit or push fails.
	maxFallbackBytes = 2000
)

// truncateBody caps body at n bytes without splitting a multi-byte rune,
// appending a marker when anything was cut.
func truncateBody(body string, n int) string {
	if len(body) <= n {
		return body
	}
	for n > 0 && !utf8.RuneStart(body[n]) {
		n--
	}
	return body[:n] + "\n[truncated]"
}

// fallbackChangesComment composes the comment posted when a change set was
// generated but could not be committed, so the work is not lost.
func fallbackChangesComment(reply string) string {
	return "I generated changes but could not commit them. Here is what I planned:\n\n" +
		truncateBody(reply, maxFallbackBytes)
}

// postComment posts a comment on the thread with the bot's state note
// embedded, so later context gathering can tell bot comments apart.
func (r *Reconciler) postComment(ctx context.Context, res *reconcilers.Resource, gh *github.Client, body string) error {
	body = truncateBody(body, maxCommentBody)
	body, err := r.notes.Embed(body, threadState{IssueNumber: res.Number})
	if err != nil {
		return fmt.Errorf("embedding comment state: %w", err)
	}
	if _, _, err := gh.Issues.CreateComment(ctx, res.Owner, res.Repo, res.Number, &github.IssueComment{
		Body: github.Ptr(body),
	}); err != nil {
		return fmt.Errorf("posting comment: %w", err)
	}
	return nil
}

// reportFailure posts the error back to the thread and returns it.
func (r *Reconciler) reportFailure(ctx context.Context, res *reconcilers.Resource, gh *github.Client, origErr error) error {
	clog.FromContext(ctx).Errorf("Reconciliation failed: %v", origErr)

	msg := fmt.Sprintf("I hit an error while working on this:\n\n```\n%v\n```", origErr)
	if err := r.postComment(ctx, res, gh, msg); err != nil {
		clog.FromContext(ctx).Warnf("Failed to report error: %v", err)
	}
	return origErr
}

func hasLabel(issue *github.Issue, label string) bool {
	return slices.ContainsFunc(issue.Labels, func(l *github.Label) bool {
		return l.GetName() == label
	})
}
