/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// resolveFunc supplies the replacement text for a placeholder name.
type resolveFunc func(name string) (string, error)

// walkTemplate scans template for {{name}} tokens, invoking resolve for each
// one and splicing the result into the output. NewPrompt and Build share this
// function so parsing and rendering always agree on what counts as a token.
func walkTemplate(template string, resolve resolveFunc) (string, error) {
	var out strings.Builder

	for {
		start := strings.Index(template, "{{")
		if start < 0 {
			out.WriteString(template)
			return out.String(), nil
		}
		out.WriteString(template[:start])

		rest := template[start:]
		end := strings.Index(rest, "}}")
		if end < 0 {
			return "", errors.New("unclosed placeholder: missing '}}'")
		}

		name := strings.TrimSpace(rest[2:end])
		if !isValidIdentifier(name) {
			return "", fmt.Errorf("invalid placeholder identifier %q", name)
		}

		replacement, err := resolve(name)
		if err != nil {
			return "", err
		}
		out.WriteString(replacement)

		template = rest[end+2:]
	}
}

// isValidIdentifier reports whether s is a letter followed by letters,
// digits, or underscores.
func isValidIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case i == 0 && !unicode.IsLetter(r):
			return false
		case i > 0 && !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_':
			return false
		}
	}
	return len(s) > 0
}
