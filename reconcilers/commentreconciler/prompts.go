/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package commentreconciler

import "github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"

// systemInstructions frames the bot's role for every query.
var systemInstructions = promptbuilder.MustNewPrompt(`You are joe-gemini, a helpful software engineering assistant that responds to GitHub issue and pull request comments. You are concise and concrete. You ground every answer in the repository context you are given, and you say so plainly when the context is not enough to answer.`)

// answerPrompt asks the model to reply to a question in the thread.
var answerPrompt = promptbuilder.MustNewPrompt(`A GitHub user mentioned you in a comment. Reply to them in GitHub-flavored markdown.

Issue title: {{issueTitle}}

Issue body:
{{issueBody}}

Recent thread:
{{thread}}

Repository file tree:
{{tree}}

Pull request diff (empty if this is not a pull request):
{{diff}}

Referenced file contents:
{{files}}

Comment from @{{commentAuthor}}:
{{commentBody}}

Write only the reply comment, no preamble.`)

// changePrompt asks the model for concrete file changes as a JSON object.
var changePrompt = promptbuilder.MustNewPrompt(`A GitHub user asked you to change code in this repository.

Issue title: {{issueTitle}}

Issue body:
{{issueBody}}

Recent thread:
{{thread}}

Repository file tree:
{{tree}}

Pull request diff (empty if this is not a pull request):
{{diff}}

Referenced file contents:
{{files}}

Request from @{{commentAuthor}}:
{{commentBody}}

You already posted this plan to the thread:
{{plan}}

Generate the changes that carry out the plan. Respond with a single JSON object of the form:

{"explanation": "<one-paragraph summary of the changes>", "files": {"<repository-relative path>": "<complete new file contents>"}}

Include the complete contents of every file you change, not a diff. Only include files you actually change.`)

// planPrompt asks for a short plan to post before generating changes.
var planPrompt = promptbuilder.MustNewPrompt(`A GitHub user asked you to change code in this repository. Before making the changes, write a short plan (a few bullet points) describing what you will change and why. Do not include any code.

Issue title: {{issueTitle}}

Issue body:
{{issueBody}}

Recent thread:
{{thread}}

Repository file tree:
{{tree}}

Referenced file contents:
{{files}}

Request from @{{commentAuthor}}:
{{commentBody}}

Write only the plan, no preamble.`)
