/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package prreconciler

import (
	"errors"
	"fmt"

	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
)

// ReviewRequest carries what the model sees for one pull request review.
type ReviewRequest struct {
	Title  string
	Body   string
	Author string
	Diff   string
	Tree   string
}

// Bind implements promptbuilder.Bindable.
func (r *ReviewRequest) Bind(prompt *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	placeholders := prompt.Placeholders()
	for name, value := range map[string]string{
		"title":  r.Title,
		"body":   r.Body,
		"author": r.Author,
		"diff":   r.Diff,
		"tree":   r.Tree,
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

// Review is the structured model response for one pull request review.
type Review struct {
	Summary  string          `json:"summary" jsonschema:"required,description=Overall assessment of the pull request in GitHub-flavored markdown."`
	Comments []ReviewComment `json:"comments" jsonschema:"description=Line-anchored review comments. May be empty."`
}

// ReviewComment is one line-anchored remark.
type ReviewComment struct {
	Path string `json:"path" jsonschema:"required,description=Repository-relative path of the file the comment is about."`
	Line int    `json:"line" jsonschema:"required,description=Line number in the new version of the file."`
	Body string `json:"body" jsonschema:"required,description=The comment text in GitHub-flavored markdown."`
}

// Validate rejects reviews the bot cannot post.
func (r *Review) Validate() error {
	if r.Summary == "" {
		return errors.New("review has no summary")
	}
	for i, c := range r.Comments {
		switch {
		case c.Path == "":
			return fmt.Errorf("comment %d has no path", i)
		case c.Line <= 0:
			return fmt.Errorf("comment %d has invalid line %d", i, c.Line)
		case c.Body == "":
			return fmt.Errorf("comment %d has no body", i)
		}
	}
	return nil
}

// reviewState is embedded in review bodies to prevent re-reviewing a head
// commit.
type reviewState struct {
	HeadSHA string `json:"headSHA"`
}
