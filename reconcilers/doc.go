/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package reconcilers defines the resource model shared by the bot's
// reconcilers. A Resource identifies one GitHub issue or pull request; the
// comment and PR reconcilers in the subpackages act on them.
package reconcilers
