/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package memory

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Notes embeds and extracts one JSON-encoded value of T in markdown bodies.
type Notes[T any] struct {
	marker  string
	pattern *regexp.Regexp
}

// NewNotes creates a Notes store using the given marker name. The marker
// namespaces the note so different stores can share a body.
func NewNotes[T any](marker string) (*Notes[T], error) {
	if marker == "" {
		return nil, fmt.Errorf("marker cannot be empty")
	}
	if strings.ContainsAny(marker, " \t\n") {
		return nil, fmt.Errorf("marker %q cannot contain whitespace", marker)
	}
	// (?s) so the payload may contain newlines from indented JSON.
	pattern, err := regexp.Compile(`(?s)<!-- ` + regexp.QuoteMeta(marker) + `:state (.*?) -->`)
	if err != nil {
		return nil, fmt.Errorf("compiling marker pattern: %w", err)
	}
	return &Notes[T]{marker: marker, pattern: pattern}, nil
}

// Embed returns body with data embedded as a state note, replacing any
// existing note for this marker. The note is appended on its own line.
func (n *Notes[T]) Embed(body string, data T) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshaling state: %w", err)
	}
	note := fmt.Sprintf("<!-- %s:state %s -->", n.marker, payload)

	if n.pattern.MatchString(body) {
		return n.pattern.ReplaceAllLiteralString(body, note), nil
	}
	body = strings.TrimRight(body, "\n")
	if body == "" {
		return note, nil
	}
	return body + "\n\n" + note, nil
}

// Extract returns the state note embedded in body, if any. The second
// return is false when no note for this marker is present.
func (n *Notes[T]) Extract(body string) (T, bool, error) {
	var data T
	m := n.pattern.FindStringSubmatch(body)
	if m == nil {
		return data, false, nil
	}
	if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
		return data, false, fmt.Errorf("unmarshaling state: %w", err)
	}
	return data, true, nil
}

// Strip removes any state note for this marker from body.
func (n *Notes[T]) Strip(body string) string {
	return strings.TrimRight(n.pattern.ReplaceAllLiteralString(body, ""), "\n ")
}
