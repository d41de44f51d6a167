/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package schema derives JSON schemas from Go response types so model
// queries can pin the shape of their structured output.
package schema

import "github.com/invopop/jsonschema"

// Generator wraps jsonschema.Reflector with the defaults we need for
// response schemas: inline definitions, required-from-tags, no $ref.
type Generator struct {
	reflector jsonschema.Reflector
}

// NewGenerator constructs a generator with the project defaults.
func NewGenerator() *Generator {
	return &Generator{
		reflector: jsonschema.Reflector{
			RequiredFromJSONSchemaTags: true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			DoNotReference:             true,
		},
	}
}

// Reflect returns the JSON schema for the provided value.
func (g *Generator) Reflect(v any) *jsonschema.Schema {
	return g.reflector.Reflect(v)
}

// Reflect derives the JSON schema for v using a default generator.
func Reflect(v any) *jsonschema.Schema {
	return NewGenerator().Reflect(v)
}

// ReflectType allocates a zero value of T and reflects it.
func ReflectType[T any]() *jsonschema.Schema {
	var zero T
	return Reflect(&zero)
}
