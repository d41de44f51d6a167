/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package gateway terminates GitHub webhooks for the bot.
//
// The handler validates the HMAC signature, parses the event, and applies
// the cheap trigger checks before anything else runs. Accepted events are
// processed in the background so GitHub gets its response within its
// delivery timeout; outcomes are visible through Prometheus metrics rather
// than the HTTP response.
package gateway
