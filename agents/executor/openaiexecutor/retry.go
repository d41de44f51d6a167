/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"

	"github.com/openai/openai-go"
)

// isRetryableOpenAIError checks if an error is a transient OpenAI API error.
// Covers rate limits (429) and transient server errors.
func isRetryableOpenAIError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return false
}
