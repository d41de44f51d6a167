/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package result recovers structured payloads from free-form model output.
//
// Models asked for JSON tend to wrap it in markdown fences, preface it with
// prose, or skip it entirely when they have nothing structured to say. This
// package extracts the payload on a best-effort basis; callers treat a
// failed extraction as "the model answered in prose" rather than an error.
package result
