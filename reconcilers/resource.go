/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package reconcilers

import (
	"fmt"
	"regexp"
	"strconv"
)

// ResourceType distinguishes the kinds of GitHub resources the bot acts on.
type ResourceType string

const (
	ResourceTypeIssue       ResourceType = "issue"
	ResourceTypePullRequest ResourceType = "pull_request"
)

// Resource identifies a single issue or pull request.
type Resource struct {
	Owner  string
	Repo   string
	Number int
	Type   ResourceType
}

// String returns the canonical URL form of the resource.
func (r *Resource) String() string {
	kind := "issues"
	if r.Type == ResourceTypePullRequest {
		kind = "pull"
	}
	return fmt.Sprintf("https://github.com/%s/%s/%s/%d", r.Owner, r.Repo, kind, r.Number)
}

var resourceURL = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)/(issues|pull)/(\d+)$`)

// ParseResource parses a GitHub issue or pull request URL.
func ParseResource(url string) (*Resource, error) {
	m := resourceURL.FindStringSubmatch(url)
	if m == nil {
		return nil, fmt.Errorf("unrecognized resource URL %q", url)
	}
	number, err := strconv.Atoi(m[4])
	if err != nil {
		return nil, fmt.Errorf("parsing resource number: %w", err)
	}
	typ := ResourceTypeIssue
	if m[3] == "pull" {
		typ = ResourceTypePullRequest
	}
	return &Resource{
		Owner:  m[1],
		Repo:   m[2],
		Number: number,
		Type:   typ,
	}, nil
}
