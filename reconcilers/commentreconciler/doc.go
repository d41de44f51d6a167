/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package commentreconciler responds to issue and PR comments that mention
// the bot.
//
// A triggering comment produces one of two outcomes:
//
//   - a question gets an answer comment, grounded in the repository context
//     (file tree, requested files, thread history, and for PRs the diff);
//   - a change request additionally gets generated file changes, pushed to
//     a fresh branch and opened as a pull request that supersedes any
//     earlier open bot PR for the same issue.
//
// Failures are reported back to the thread as comments so requesters are
// never left waiting on a silent error.
package commentreconciler
