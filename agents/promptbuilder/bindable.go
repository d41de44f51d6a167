/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable is implemented by request types that know how to attach their
// data to a prompt. Executors call Bind on the request before building the
// final prompt text.
type Bindable interface {
	// Bind returns a new prompt with the receiver's values bound.
	Bind(prompt *Prompt) (*Prompt, error)
}

// Noop is a Bindable that leaves the prompt unchanged.
type Noop struct{}

// Bind implements Bindable.
func (Noop) Bind(prompt *Prompt) (*Prompt, error) {
	return prompt, nil
}
