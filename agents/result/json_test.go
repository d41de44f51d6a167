/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{{
		name: "json fence",
		input: "Here is the response:\n```json\n" +
			`{"key": "value"}` + "\n```",
		want: `{"key": "value"}`,
	}, {
		name: "json fence with surrounding prose",
		input: "Let me analyze this issue.\n\n```json\n" +
			`{"error": "something went wrong"}` + "\n```\n\nThat should fix it.",
		want: `{"error": "something went wrong"}`,
	}, {
		name: "multiline payload",
		input: "```json\n{\n  \"explanation\": \"Fixed the typo\",\n  \"files\": {\n    \"README.md\": \"# Title\"\n  }\n}\n```",
		want: "{\n  \"explanation\": \"Fixed the typo\",\n  \"files\": {\n    \"README.md\": \"# Title\"\n  }\n}",
	}, {
		name:  "empty fence",
		input: "```json\n```",
		want:  "",
	}, {
		name:  "bare json",
		input: `  {"plain": "json"}  `,
		want:  `{"plain": "json"}`,
	}, {
		name:  "fence without closing marker",
		input: "```json\n{\"incomplete\": true",
		want:  `{"incomplete": true`,
	}, {
		name:  "first of several fences wins",
		input: "```json\n{\"first\": true}\n```\ntext\n```json\n{\"second\": true}\n```",
		want:  `{"first": true}`,
	}, {
		name:  "generic fence",
		input: "```\n{\"generic\": \"block\"}\n```",
		want:  `{"generic": "block"}`,
	}, {
		name:  "inline fence",
		input: "```json{\"inline\": \"style\"}```",
		want:  `{"inline": "style"}`,
	}, {
		name:  "windows line endings",
		input: "```json\r\n{\"windows\": \"style\"}\r\n```",
		want:  `{"windows": "style"}`,
	}, {
		name:  "object embedded in prose",
		input: `Sure, apply this: {"files": {"a.go": "package a"}} and you are done.`,
		want:  `{"files": {"a.go": "package a"}}`,
	}, {
		name:  "braces inside strings do not confuse the scan",
		input: `Result: {"msg": "use {{tokens}} like this", "n": 1} trailing`,
		want:  `{"msg": "use {{tokens}} like this", "n": 1}`,
	}, {
		name:  "prose without payload returned as-is",
		input: "I could not find any changes to make.",
		want:  "I could not find any changes to make.",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Errorf("ExtractJSON() = %q, wanted %q", got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	type changeSet struct {
		Explanation string            `json:"explanation"`
		Files       map[string]string `json:"files"`
	}

	input := "Here you go:\n```json\n" +
		`{"explanation": "rename the flag", "files": {"main.go": "package main"}}` +
		"\n```"

	got, err := Extract[changeSet](input)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := changeSet{
		Explanation: "rename the flag",
		Files:       map[string]string{"main.go": "package main"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractProseIsAnError(t *testing.T) {
	if _, err := Extract[map[string]any]("no structured content here"); err == nil {
		t.Fatal("Extract() on prose: got nil error")
	}
}
