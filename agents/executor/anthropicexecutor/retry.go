/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package anthropicexecutor

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
)

// isRetryableClaudeError checks if an error is a transient Claude API error.
// Covers rate limits (429), overloaded (529), and transient server errors.
func isRetryableClaudeError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 503, 504, 529:
			return true
		}
	}
	return false
}
