/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package prreconciler

import "github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"

var systemInstructions = promptbuilder.MustNewPrompt(`You are joe-gemini, a careful code reviewer. You point out bugs, risky patterns, and missing tests. You do not nitpick style, and you do not pad reviews with praise. When the diff looks fine, you say so briefly.`)

var reviewPrompt = promptbuilder.MustNewPrompt(`Review this pull request.

Title: {{title}}

Description:
{{body}}

Author: @{{author}}

Repository file tree:
{{tree}}

Diff:
{{diff}}

Respond with a JSON object: {"summary": "<overall assessment>", "comments": [{"path": "<file>", "line": <new-file line number>, "body": "<remark>"}]}. Only comment on lines that appear in the diff. Leave comments empty when you have nothing line-specific to say.`)
