/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
)

// stringLiteral only accepts untyped string constants, which keeps template
// text and developer-provided values out of user-controlled data paths.
type stringLiteral string

// Prompt is a parsed template whose placeholders can be bound to values.
// The zero value is not usable; construct with NewPrompt.
type Prompt struct {
	template string
	bindings map[string]binding
}

// NewPrompt parses a template literal and records every {{name}} placeholder
// it contains. All placeholders start out unbound.
func NewPrompt(template stringLiteral) (*Prompt, error) {
	bindings := make(map[string]binding)

	if _, err := walkTemplate(string(template), func(name string) (string, error) {
		if _, ok := bindings[name]; !ok {
			bindings[name] = &unboundBinding{name: name}
		}
		return "{{" + name + "}}", nil
	}); err != nil {
		return nil, err
	}

	return &Prompt{
		template: string(template),
		bindings: bindings,
	}, nil
}

// Placeholders returns the set of placeholder names found in the template.
func (p *Prompt) Placeholders() map[string]struct{} {
	names := make(map[string]struct{}, len(p.bindings))
	for name := range p.bindings {
		names[name] = struct{}{}
	}
	return names
}

// bind installs b for the named placeholder, returning a copy of the prompt.
// Binding a name twice, or a name the template does not mention, is an error.
func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	existing, ok := p.bindings[name]
	if !ok {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, unbound := existing.(*unboundBinding); !unbound {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}

	out := &Prompt{
		template: p.template,
		bindings: maps.Clone(p.bindings),
	}
	out.bindings[name] = b
	return out, nil
}

// BindStringLiteral binds a developer-provided literal string to a placeholder.
func (p *Prompt) BindStringLiteral(name string, value stringLiteral) (*Prompt, error) {
	return p.bind(name, &literalBinding{val: string(value)})
}

// BindString binds an arbitrary runtime string to a placeholder. Use this for
// values that originate outside the program, like comment bodies.
func (p *Prompt) BindString(name, value string) (*Prompt, error) {
	return p.bind(name, &literalBinding{val: value})
}

// BindJSON binds structured data to a placeholder, rendered as indented JSON.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, &jsonBinding{data: data})
}

// BindYAML binds structured data to a placeholder, rendered as YAML.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, &yamlBinding{data: data})
}

// Build renders the final prompt text. It fails if any placeholder is still
// unbound or a structured binding cannot be marshaled.
func (p *Prompt) Build() (string, error) {
	return walkTemplate(p.template, func(name string) (string, error) {
		return p.bindings[name].value()
	})
}
