/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package geminiexecutor

import "strings"

// isRetryableGeminiError checks if an error is a transient Gemini API error.
// Returns true for rate limit, quota exhaustion, and transient server errors.
func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Resource exhausted") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "Overloaded") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "Internal error") ||
		strings.Contains(errStr, "server error")
}
