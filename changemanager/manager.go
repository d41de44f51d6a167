/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package changemanager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"text/template"
	"time"

	"github.com/HOLYKEYZ/joe-gemini/memory"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"
)

// now is injected for tests.
var now = time.Now

// Matcher reports whether a PR's embedded state serves the given resource.
type Matcher[T any] func(data T, res *reconcilers.Resource) bool

// Option configures a CM (ChangeManager).
type Option[T any] func(*CM[T])

// WithOwner overrides the GitHub owner (org or user) from the resource.
func WithOwner[T any](owner string) Option[T] {
	return func(cm *CM[T]) {
		cm.owner = owner
	}
}

// WithRepo overrides the GitHub repository from the resource.
func WithRepo[T any](repo string) Option[T] {
	return func(cm *CM[T]) {
		cm.repo = repo
	}
}

// CM manages the bot's pull requests for a specific identity. PR titles and
// bodies are generated from Go templates executed with data of type T, and T
// is embedded in the body as a state note so later sessions can recognize
// their PRs.
type CM[T any] struct {
	identity      string
	titleTemplate *template.Template
	bodyTemplate  *template.Template
	notes         *memory.Notes[T]
	matcher       Matcher[T]
	owner         string
	repo          string
}

// New creates a CM with the given identity and templates. The matcher
// decides which open bot PRs belong to a session's resource.
func New[T any](identity string, titleTemplate, bodyTemplate *template.Template, matcher Matcher[T], opts ...Option[T]) (*CM[T], error) {
	if identity == "" {
		return nil, errors.New("identity cannot be empty")
	}
	if titleTemplate == nil {
		return nil, errors.New("titleTemplate cannot be nil")
	}
	if bodyTemplate == nil {
		return nil, errors.New("bodyTemplate cannot be nil")
	}
	if matcher == nil {
		return nil, errors.New("matcher cannot be nil")
	}

	notes, err := memory.NewNotes[T](identity)
	if err != nil {
		return nil, fmt.Errorf("creating state notes: %w", err)
	}

	cm := &CM[T]{
		identity:      identity,
		titleTemplate: titleTemplate,
		bodyTemplate:  bodyTemplate,
		notes:         notes,
		matcher:       matcher,
	}

	for _, opt := range opts {
		opt(cm)
	}

	return cm, nil
}

// BranchName constructs the branch for one change request. The timestamp
// keeps branches unique across repeated requests on the same issue.
func BranchName(identity string, issueNumber int, t time.Time) string {
	return fmt.Sprintf("%s/fix-%d-%d", identity, issueNumber, t.Unix())
}

// NewSession looks up the bot's open PRs in the resource's repository and
// returns a Session prepared to publish a change for it. Open PRs carrying
// the bot label whose embedded state matches the resource are recorded as
// outstanding; Publish closes them as superseded.
func (cm *CM[T]) NewSession(
	ctx context.Context,
	client *github.Client,
	res *reconcilers.Resource,
) (*Session[T], error) {
	owner := res.Owner
	repo := res.Repo
	if cm.owner != "" {
		owner = cm.owner
	}
	if cm.repo != "" {
		repo = cm.repo
	}

	gqlClient := githubv4.NewClient(client.Client())

	var query struct {
		Repository struct {
			DefaultBranchRef struct {
				Name string
			}
			PullRequests struct {
				Nodes []struct {
					Number int
					Url    string
					Body   string
					Labels struct {
						Nodes []struct {
							Name string
						}
					} `graphql:"labels(first: 100)"`
				}
			} `graphql:"pullRequests(labels: $labels, states: [OPEN], first: 20)"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]any{
		"owner":  githubv4.String(owner),
		"repo":   githubv4.String(repo),
		"labels": []githubv4.String{githubv4.String(cm.identity)},
	}

	if err := gqlClient.Query(ctx, &query, variables); err != nil {
		return nil, fmt.Errorf("querying pull requests: %w", err)
	}

	session := &Session[T]{
		manager:    cm,
		client:     client,
		resource:   res,
		owner:      owner,
		repo:       repo,
		branchName: BranchName(cm.identity, res.Number, now()),
		baseRef:    query.Repository.DefaultBranchRef.Name,
	}
	if session.baseRef == "" {
		session.baseRef = "main"
	}

	for _, pr := range query.Repository.PullRequests.Nodes {
		data, ok, err := cm.notes.Extract(pr.Body)
		if err != nil {
			clog.FromContext(ctx).Warnf("Skipping PR #%d with unreadable state note: %v", pr.Number, err)
			continue
		}
		if !ok || !cm.matcher(data, res) {
			continue
		}
		var labels []string
		for _, label := range pr.Labels.Nodes {
			labels = append(labels, label.Name)
		}
		session.outstanding = append(session.outstanding, outstandingPR{
			number: pr.Number,
			url:    pr.Url,
			labels: labels,
		})
	}

	return session, nil
}

// composeBody renders the body template, appends the skip-label hint, and
// embeds the state note.
func (cm *CM[T]) composeBody(data T) (string, error) {
	body, err := executeTemplate(cm.bodyTemplate, data)
	if err != nil {
		return "", fmt.Errorf("executing body template: %w", err)
	}

	body += fmt.Sprintf("\n\n> **Note:** If you need to make manual changes to this PR, apply the `skip:%s` label so the bot won't overwrite them.", cm.identity)

	body, err = cm.notes.Embed(body, data)
	if err != nil {
		return "", fmt.Errorf("embedding state: %w", err)
	}
	return body, nil
}

func executeTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
