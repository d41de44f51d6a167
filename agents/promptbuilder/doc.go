/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles model prompts from templates with
// late-bound placeholders.
//
// A template is a plain string containing {{name}} tokens. Each token must
// be bound exactly once before Build is called; binding values can be
// literal strings or structured data rendered as JSON or YAML. Binding
// returns a new Prompt, so a parsed template can be shared and bound with
// per-request data without synchronization.
package promptbuilder
