/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package repocontext assembles the repository context a model query needs:
// the file tree, the PR diff, requested file contents, and the comment
// thread.
//
// Every section is hard-capped so a pathological repository cannot blow the
// prompt budget; truncated sections carry an explicit marker so the model
// knows it is not seeing everything. Sections are fetched concurrently.
package repocontext
