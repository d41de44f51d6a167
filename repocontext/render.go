/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package repocontext

import (
	"fmt"
	"strings"

	"github.com/google/go-github/v75/github"
)

func renderTree(tree *github.Tree) string {
	var sb strings.Builder
	count := 0
	for _, e := range tree.Entries {
		if e.GetType() != "blob" {
			continue
		}
		if count == MaxTreeEntries {
			fmt.Fprintf(&sb, "... and more files%s", TruncationMarker)
			break
		}
		sb.WriteString(e.GetPath())
		sb.WriteByte('\n')
		count++
	}
	return sb.String()
}

func renderDiff(files []*github.CommitFile) string {
	var sb strings.Builder
	for i, f := range files {
		if i == MaxDiffFiles {
			sb.WriteString(TruncationMarker)
			break
		}
		fmt.Fprintf(&sb, "--- %s (%s, +%d -%d) ---\n",
			f.GetFilename(), f.GetStatus(), f.GetAdditions(), f.GetDeletions())
		if patch := f.GetPatch(); patch != "" {
			sb.WriteString(truncate(patch, MaxPatchBytes))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// renderThread renders newest-first API results oldest-first so the
// conversation reads top to bottom.
func renderThread(comments []*github.IssueComment) string {
	var sb strings.Builder
	for i := len(comments) - 1; i >= 0; i-- {
		c := comments[i]
		fmt.Fprintf(&sb, "%s:\n%s\n\n", c.GetUser().GetLogin(), truncate(c.GetBody(), MaxCommentBytes))
	}
	return strings.TrimRight(sb.String(), "\n")
}
