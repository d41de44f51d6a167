/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls JSON content out of model text. It tries, in order:
// the first ```json fence, a generic ``` fence wrapping the whole reply,
// and finally a brace scan for an object literal. Returns the trimmed
// candidate text; the caller decides whether it actually parses.
func ExtractJSON(text string) string {
	if fenced, ok := fencedBlock(text, "```json"); ok {
		return fenced
	}

	trimmed := strings.TrimSpace(text)

	// A reply that is nothing but a fenced block, with or without a
	// language tag.
	if strings.HasPrefix(trimmed, "```") && strings.HasSuffix(trimmed, "```") {
		inner := strings.TrimSuffix(trimmed, "```")
		inner = strings.TrimPrefix(inner, "```json")
		inner = strings.TrimPrefix(inner, "```")
		return strings.TrimSpace(inner)
	}

	if obj, ok := braceScan(trimmed); ok {
		return obj
	}

	return trimmed
}

// fencedBlock returns the content of the first fence opened by marker on its
// own line. A missing closing fence returns everything after the marker, so
// replies cut off mid-fence still yield their partial payload.
func fencedBlock(text, marker string) (string, bool) {
	var buf strings.Builder
	found := false
	open := false

	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		switch {
		case !open && line == marker:
			open = true
			found = true
		case open && line == "```":
			return strings.TrimSpace(buf.String()), true
		case open:
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(line)
		}
	}

	if !found {
		return "", false
	}
	return strings.TrimSpace(buf.String()), true
}

// braceScan finds the first balanced {...} object in text, provided the text
// contains one. Braces inside JSON strings are accounted for.
func braceScan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// Extract runs ExtractJSON and unmarshals the candidate into T.
func Extract[T any](text string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &out); err != nil {
		return out, err
	}
	return out, nil
}
