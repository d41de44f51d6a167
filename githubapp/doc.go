/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package githubapp builds authenticated GitHub clients for the bot.
//
// Two authentication modes are supported:
//
//   - GitHub App: the webhook service authenticates as an App installation,
//     minting short-lived installation tokens per organization.
//   - Static token: the Actions-mode binary runs with the workflow's
//     GITHUB_TOKEN.
//
// Clients are cached per owner/repo so reconcilers can request them freely.
package githubapp
