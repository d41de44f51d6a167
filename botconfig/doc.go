/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package botconfig loads per-repository bot settings from
// .github/joe-gemini.yml on the default branch. Repositories without the
// file get defaults; a malformed file is an error so typos do not silently
// fall back.
package botconfig
