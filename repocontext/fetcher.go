/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package repocontext

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"golang.org/x/sync/errgroup"
)

// Fetcher gathers context sections for one repository.
type Fetcher struct {
	client *github.Client
	owner  string
	repo   string
}

// NewFetcher creates a Fetcher for owner/repo.
func NewFetcher(client *github.Client, owner, repo string) *Fetcher {
	return &Fetcher{client: client, owner: owner, repo: repo}
}

// Request names the sections to gather.
type Request struct {
	// Ref is the commit or branch the tree and file sections read from.
	Ref string

	// PRNumber, when non-zero, requests the diff section for that PR.
	PRNumber int

	// IssueNumber, when non-zero, requests the comment-thread section.
	IssueNumber int

	// Paths requests file contents. Capped at MaxRequestedFiles; missing
	// files are skipped.
	Paths []string
}

// Bundle is the gathered context, one rendered string per section. Sections
// that were not requested are empty.
type Bundle struct {
	Tree   string
	Diff   string
	Files  string
	Thread string
}

// Gather fetches all requested sections concurrently. A failed section
// degrades to an omission note rather than failing the whole bundle; only
// context cancellation aborts the gather.
func (f *Fetcher) Gather(ctx context.Context, req Request) (*Bundle, error) {
	bundle := &Bundle{}
	eg, ctx := errgroup.WithContext(ctx)

	section := func(name string, dst *string, fetch func() (string, error)) func() error {
		return func() error {
			text, err := fetch()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				clog.FromContext(ctx).With("section", name).
					Warnf("Omitting context section: %v", err)
				*dst = fmt.Sprintf("(%s unavailable)", name)
				return nil
			}
			*dst = text
			return nil
		}
	}

	eg.Go(section("repository tree", &bundle.Tree, func() (string, error) {
		return f.tree(ctx, req.Ref)
	}))

	if req.PRNumber != 0 {
		eg.Go(section("diff", &bundle.Diff, func() (string, error) {
			return f.diff(ctx, req.PRNumber)
		}))
	}

	if len(req.Paths) > 0 {
		eg.Go(section("requested files", &bundle.Files, func() (string, error) {
			return f.files(ctx, req.Ref, req.Paths)
		}))
	}

	if req.IssueNumber != 0 {
		eg.Go(section("comment thread", &bundle.Thread, func() (string, error) {
			return f.thread(ctx, req.IssueNumber)
		}))
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (f *Fetcher) tree(ctx context.Context, ref string) (string, error) {
	tree, _, err := f.client.Git.GetTree(ctx, f.owner, f.repo, ref, true)
	if err != nil {
		return "", fmt.Errorf("fetching tree at %s: %w", ref, err)
	}
	return renderTree(tree), nil
}

func (f *Fetcher) diff(ctx context.Context, prNumber int) (string, error) {
	files, _, err := f.client.PullRequests.ListFiles(ctx, f.owner, f.repo, prNumber,
		&github.ListOptions{PerPage: MaxDiffFiles})
	if err != nil {
		return "", fmt.Errorf("listing PR files: %w", err)
	}
	return renderDiff(files), nil
}

func (f *Fetcher) files(ctx context.Context, ref string, paths []string) (string, error) {
	log := clog.FromContext(ctx)
	if len(paths) > MaxRequestedFiles {
		paths = paths[:MaxRequestedFiles]
	}

	var sb strings.Builder
	for _, path := range paths {
		content, _, resp, err := f.client.Repositories.GetContents(ctx, f.owner, f.repo, path,
			&github.RepositoryContentGetOptions{Ref: ref})
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				log.With("path", path).Debug("Requested file not found, skipping")
				continue
			}
			return "", fmt.Errorf("fetching %s: %w", path, err)
		}
		if content == nil {
			// Directory, not a file.
			continue
		}
		raw, err := content.GetContent()
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", path, err)
		}
		fmt.Fprintf(&sb, "--- %s ---\n%s\n", path, truncate(raw, MaxFileBytes))
	}
	return sb.String(), nil
}

func (f *Fetcher) thread(ctx context.Context, issueNumber int) (string, error) {
	comments, _, err := f.client.Issues.ListComments(ctx, f.owner, f.repo, issueNumber,
		&github.IssueListCommentsOptions{
			Direction:   github.Ptr("desc"),
			Sort:        github.Ptr("created"),
			ListOptions: github.ListOptions{PerPage: MaxThreadComments},
		})
	if err != nil {
		return "", fmt.Errorf("listing comments: %w", err)
	}
	return renderThread(comments), nil
}
