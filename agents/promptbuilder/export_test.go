/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// TemplateForTest lets external tests construct prompts from runtime strings,
// bypassing the literal-only restriction on NewPrompt.
func TemplateForTest(s string) stringLiteral {
	return stringLiteral(s)
}
