/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package commentreconciler

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
)

// Request carries everything the model sees for one triggering comment.
type Request struct {
	IssueTitle    string
	IssueBody     string
	CommentAuthor string
	CommentBody   string

	// Context sections from repocontext; empty sections bind as empty
	// strings.
	Tree   string
	Diff   string
	Files  string
	Thread string
}

// Bind implements promptbuilder.Bindable. Only placeholders the prompt
// actually mentions are bound, so one Request serves all of the package's
// prompt variants.
func (r *Request) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	placeholders := prompt.Placeholders()
	for name, value := range map[string]string{
		"issueTitle":    r.IssueTitle,
		"issueBody":     r.IssueBody,
		"commentAuthor": r.CommentAuthor,
		"commentBody":   r.CommentBody,
		"tree":          r.Tree,
		"diff":          r.Diff,
		"files":         r.Files,
		"thread":        r.Thread,
	} {
		if _, ok := placeholders[name]; !ok {
			continue
		}
		var err error
		prompt, err = prompt.BindString(name, value)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
	}
	return prompt, nil
}

// ChangeRequest is a Request extended with the plan from the first model
// pass, so the code query is grounded in the plan the bot already posted.
type ChangeRequest struct {
	*Request
	Plan string
}

func (r *ChangeRequest) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	prompt, err := r.Request.Bind(prompt)
	if err != nil {
		return nil, err
	}
	if _, ok := prompt.Placeholders()["plan"]; !ok {
		return prompt, nil
	}
	return prompt.BindString("plan", r.Plan)
}

// ChangeSet is the structured response for a change request: an explanation
// of what was done plus complete new contents per file.
type ChangeSet struct {
	Explanation string            `json:"explanation" jsonschema:"required,description=A short summary of the changes for the pull request body."`
	Files       map[string]string `json:"files" jsonschema:"required,description=Complete new file contents keyed by repository-relative path."`
}

// Validate rejects change sets the bot cannot safely apply.
func (c *ChangeSet) Validate() error {
	if strings.TrimSpace(c.Explanation) == "" {
		return errors.New("change set has no explanation")
	}
	if len(c.Files) == 0 {
		return errors.New("change set has no files")
	}
	for p := range c.Files {
		if err := validateFilePath(p); err != nil {
			return err
		}
	}
	return nil
}

func validateFilePath(p string) error {
	switch {
	case p == "":
		return errors.New("change set has an empty file path")
	case strings.HasPrefix(p, "/"):
		return fmt.Errorf("file path %q is absolute", p)
	case path.Clean(p) != p:
		return fmt.Errorf("file path %q is not clean", p)
	case p == ".." || strings.HasPrefix(p, "../"):
		return fmt.Errorf("file path %q escapes the repository", p)
	}
	return nil
}

// PRData is the state embedded in bot PR bodies so later sessions can find
// the PR serving an issue.
type PRData struct {
	IssueNumber int    `json:"issueNumber"`
	IssueURL    string `json:"issueURL"`
	Explanation string `json:"explanation"`
}
