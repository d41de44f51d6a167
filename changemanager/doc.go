/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package changemanager owns the lifecycle of the bot's pull requests.
//
// Each accepted change request produces a fresh branch and PR; any earlier
// open bot PR for the same issue is superseded and closed. The bot finds its
// own PRs by label and recognizes which issue each one serves through the
// state note embedded in the PR body (see the memory package).
package changemanager
