/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package geminiexecutor queries Google Gemini models through the genai SDK.
//
// The executor issues a single GenerateContent call per query: the request is
// bound into the configured prompt, sent with the generation config, and the
// candidate text is returned. Transient API errors (rate limits, quota,
// overload) are retried with exponential backoff.
//
// Structured output is available by setting a response schema, which also
// forces the application/json MIME type:
//
//	exec, err := geminiexecutor.New(client, prompt,
//	    geminiexecutor.WithModel("gemini-2.5-flash"),
//	    geminiexecutor.WithTemperature(0.4),
//	    geminiexecutor.WithResponseSchema(schema.GenaiFor[ChangeSet]()),
//	)
package geminiexecutor
