/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package clonemanager owns a pool of git clones the bot uses to apply
// generated changes.
//
// A Manager is scoped to one repository. Callers lease a clone prepared at
// a specific ref, apply file changes through the lease, and the manager
// commits and force-pushes the result to a fresh branch. Returned clones go
// back into the pool with their working trees reset.
package clonemanager
