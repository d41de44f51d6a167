/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package anthropicexecutor queries Anthropic Claude models through the
// official SDK. Each query is a single Messages.New call; transient API
// errors (429, 503, 529) are retried with exponential backoff.
package anthropicexecutor
