/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package changemanager

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
)

// Session represents work on one change request for a specific resource.
type Session[T any] struct {
	manager    *CM[T]
	client     *github.Client
	resource   *reconcilers.Resource
	owner      string
	repo       string
	branchName string
	baseRef    string

	// Open bot PRs already serving this resource.
	outstanding []outstandingPR
}

type outstandingPR struct {
	number int
	url    string
	labels []string
}

// skipLabel returns the skip label for this session's identity.
func (s *Session[T]) skipLabel() string {
	return "skip:" + s.manager.identity
}

// BranchName returns the branch this session publishes to.
func (s *Session[T]) BranchName() string {
	return s.branchName
}

// BaseRef returns the PR base branch, the repository default branch.
func (s *Session[T]) BaseRef() string {
	return s.baseRef
}

// HasOutstanding reports whether an earlier open bot PR serves this
// resource.
func (s *Session[T]) HasOutstanding() bool {
	return len(s.outstanding) > 0
}

// OutstandingURL returns the URL of the most recent outstanding PR, or "".
func (s *Session[T]) OutstandingURL() string {
	if len(s.outstanding) == 0 {
		return ""
	}
	return s.outstanding[0].url
}

// HasSkipLabel reports whether any outstanding PR carries the skip label,
// meaning a human took over and the bot must leave it alone.
func (s *Session[T]) HasSkipLabel() bool {
	for _, pr := range s.outstanding {
		if slices.Contains(pr.labels, s.skipLabel()) {
			return true
		}
	}
	return false
}

// CloseAnyOutstanding closes every outstanding PR. If message is non-empty,
// it is posted as a comment before closing. Skip-labeled PRs are left open.
func (s *Session[T]) CloseAnyOutstanding(ctx context.Context, message string) error {
	log := clog.FromContext(ctx)

	for _, pr := range s.outstanding {
		if slices.Contains(pr.labels, s.skipLabel()) {
			log.Infof("Leaving skip-labeled PR #%d open", pr.number)
			continue
		}

		log.Infof("Closing superseded PR #%d", pr.number)

		if message != "" {
			if _, _, err := s.client.Issues.CreateComment(ctx, s.owner, s.repo, pr.number, &github.IssueComment{
				Body: github.Ptr(message),
			}); err != nil {
				return fmt.Errorf("posting comment on PR #%d: %w", pr.number, err)
			}
		}

		if _, _, err := s.client.PullRequests.Edit(ctx, s.owner, s.repo, pr.number, &github.PullRequest{
			State: github.Ptr("closed"),
		}); err != nil {
			return fmt.Errorf("closing PR #%d: %w", pr.number, err)
		}
	}

	s.outstanding = nil
	return nil
}

// Publish pushes changes to this session's branch and opens a PR for them.
// makeChanges is handed the branch name and must leave the branch pushed to
// origin. Earlier outstanding PRs are closed as superseded; if one of them
// carries the skip label, Publish refuses to proceed.
func (s *Session[T]) Publish(
	ctx context.Context,
	data T,
	labels []string,
	makeChanges func(ctx context.Context, branchName string) error,
) (prURL string, err error) {
	log := clog.FromContext(ctx)

	if s.HasSkipLabel() {
		return "", errors.New("outstanding PR has skip label, not publishing to avoid stomping manual changes")
	}

	if err := makeChanges(ctx, s.branchName); err != nil {
		return "", fmt.Errorf("making changes: %w", err)
	}

	title, err := executeTemplate(s.manager.titleTemplate, data)
	if err != nil {
		return "", fmt.Errorf("executing title template: %w", err)
	}

	body, err := s.manager.composeBody(data)
	if err != nil {
		return "", err
	}

	log.Infof("Creating PR with head %s and base %s", s.branchName, s.baseRef)

	pr, _, err := s.client.PullRequests.Create(ctx, s.owner, s.repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
		Head:  github.Ptr(s.branchName),
		Base:  github.Ptr(s.baseRef),
	})
	if err != nil {
		return "", fmt.Errorf("creating pull request: %w", err)
	}

	labels = append([]string{s.manager.identity}, labels...)
	if _, _, err := s.client.Issues.AddLabelsToIssue(ctx, s.owner, s.repo, pr.GetNumber(), labels); err != nil {
		return "", fmt.Errorf("adding labels: %w", err)
	}

	if err := s.CloseAnyOutstanding(ctx,
		fmt.Sprintf("Superseded by %s.", pr.GetHTMLURL())); err != nil {
		return "", fmt.Errorf("closing superseded PRs: %w", err)
	}

	log.Infof("Created PR #%d: %s", pr.GetNumber(), pr.GetHTMLURL())
	return pr.GetHTMLURL(), nil
}
