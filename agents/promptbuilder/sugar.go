/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Must panics if err is non-nil. Intended for package-level prompt variables
// whose templates are known valid at compile time:
//
//	var p = promptbuilder.Must(promptbuilder.NewPrompt(`Hello {{name}}`))
func Must(p *Prompt, err error) *Prompt {
	if err != nil {
		panic(err)
	}
	return p
}

// MustNewPrompt is Must(NewPrompt(template)).
func MustNewPrompt(template stringLiteral) *Prompt {
	return Must(NewPrompt(template))
}

// MustBindStringLiteral is Must(p.BindStringLiteral(name, value)).
func (p *Prompt) MustBindStringLiteral(name string, value stringLiteral) *Prompt {
	return Must(p.BindStringLiteral(name, value))
}

// MustBindJSON is Must(p.BindJSON(name, data)).
func (p *Prompt) MustBindJSON(name string, data any) *Prompt {
	return Must(p.BindJSON(name, data))
}

// MustBindYAML is Must(p.BindYAML(name, data)).
func (p *Prompt) MustBindYAML(name string, data any) *Prompt {
	return Must(p.BindYAML(name, data))
}
