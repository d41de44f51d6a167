/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package prreconciler reviews pull requests as they are opened and updated.
//
// Each review is generated once per head commit: the review body carries a
// state note recording the reviewed SHA, and reconciliation is a no-op until
// the PR head moves. Review comments are anchored to diff positions; ones
// the diff cannot anchor are folded into the review summary instead of
// being dropped.
package prreconciler
