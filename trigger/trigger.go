/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package trigger

import (
	"regexp"
	"strings"
)

// BotName is the handle the bot answers to in comment bodies.
const BotName = "joe-gemini"

// actionWords are the verbs that signal the commenter wants code changed,
// not just a question answered.
var actionWords = []string{
	"fix", "change", "update", "add", "remove", "refactor", "implement",
}

var backtickPath = regexp.MustCompile("`([A-Za-z0-9._/-]+\\.[A-Za-z0-9]+)`")

// Mentioned reports whether the comment body addresses the bot directly,
// with or without the leading @. Matching is case-insensitive. Quoted
// ("> "-prefixed) lines don't count; see RepliedToBot for those.
func Mentioned(body string) bool {
	for line := range strings.Lines(body) {
		if strings.HasPrefix(strings.TrimSpace(line), ">") {
			continue
		}
		if strings.Contains(strings.ToLower(line), BotName) {
			return true
		}
	}
	return false
}

// Triggered reports whether the comment should produce a response: either a
// direct mention or a quote-reply to one of the bot's earlier comments.
func Triggered(body string) bool {
	return Mentioned(body) || RepliedToBot(body)
}

// IsSelf reports whether the comment author is the bot itself. GitHub App
// installations comment under a "[bot]" suffixed login.
func IsSelf(login string) bool {
	lower := strings.ToLower(login)
	return lower == BotName || lower == BotName+"[bot]"
}

// IsBot reports whether the author is a machine account, the bot itself
// included. Responding to other bots invites feedback loops, so all of them
// are suppressed.
func IsBot(login string) bool {
	return IsSelf(login) || strings.HasSuffix(strings.ToLower(login), "[bot]")
}

// WantsChanges reports whether the comment is asking for code to be
// modified rather than a question to be answered. Any action verb in the
// body qualifies.
func WantsChanges(body string) bool {
	lower := strings.ToLower(body)
	for _, word := range actionWords {
		if containsWord(lower, word) {
			return true
		}
	}
	return false
}

// RepliedToBot reports whether the comment quotes an earlier bot comment.
// GitHub renders "quote reply" as "> "-prefixed lines followed by the
// response, so a quoted block mentioning the bot counts as a reply.
func RepliedToBot(body string) bool {
	for line := range strings.Lines(body) {
		if after, ok := strings.CutPrefix(strings.TrimSpace(line), ">"); ok {
			if strings.Contains(strings.ToLower(after), BotName) {
				return true
			}
		}
	}
	return false
}

// ReferencedPaths extracts file paths the commenter called out in backticks,
// like `cmd/main.go`. Only tokens that look like file names (containing an
// extension) are returned, in order of first appearance, deduplicated.
func ReferencedPaths(body string) []string {
	var paths []string
	seen := map[string]bool{}
	for _, m := range backtickPath.FindAllStringSubmatch(body, -1) {
		p := m[1]
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	return paths
}

// containsWord reports whether word appears in s on word boundaries, so
// "add" does not match inside "address".
func containsWord(s, word string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], word)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(s[start-1])
		afterOK := end == len(s) || !isWordChar(s[end])
		if beforeOK && afterOK {
			return true
		}
		i = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
