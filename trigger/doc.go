/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package trigger decides whether an incoming comment should wake the bot
// and what kind of response it is asking for.
//
// The gate is deliberately cheap: it inspects only the comment body and
// author, so reconcilers can discard uninteresting events before touching
// the GitHub API or a model.
package trigger
