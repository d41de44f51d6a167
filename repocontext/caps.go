/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package repocontext

import "unicode/utf8"

// Section budgets. These bound what gets interpolated into prompts; the
// model is told when a section was cut.
const (
	// MaxTreeEntries bounds the file-tree listing.
	MaxTreeEntries = 200

	// MaxDiffFiles bounds how many changed files of a PR are shown.
	MaxDiffFiles = 10

	// MaxPatchBytes bounds each file's patch text.
	MaxPatchBytes = 2000

	// MaxRequestedFiles bounds how many files a commenter can pull in.
	MaxRequestedFiles = 5

	// MaxFileBytes bounds each requested file's contents.
	MaxFileBytes = 5000

	// MaxThreadComments bounds the comment-thread history.
	MaxThreadComments = 10

	// MaxCommentBytes bounds each comment body in the thread section.
	MaxCommentBytes = 1500
)

// TruncationMarker is appended to any section that was cut to fit its cap.
const TruncationMarker = "\n[truncated]"

// truncate cuts s to at most n bytes, appending the truncation marker when
// anything was dropped. The cut backs up to a rune boundary so multi-byte
// characters are never split.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + TruncationMarker
}
