/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor queries OpenAI chat models through the official
// SDK. Each query is a single Chat.Completions.New call; transient API
// errors are retried with exponential backoff.
package openaiexecutor
