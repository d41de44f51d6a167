/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package schema

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// Genai converts a reflected JSON schema into the subset Gemini's
// structured-output API understands. Unsupported constructs are dropped
// rather than rejected; the schema is a nudge, not a validator.
func Genai(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Format:      s.Format,
		Title:       s.Title,
		Description: s.Description,
	}

	if len(s.Enum) > 0 {
		out.Enum = make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			out.Enum = append(out.Enum, fmt.Sprint(v))
		}
	}

	out.Required = append(out.Required, s.Required...)

	if s.Properties != nil {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		ordering := make([]string, 0, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = Genai(pair.Value)
			ordering = append(ordering, pair.Key)
		}
		out.PropertyOrdering = ordering
	}

	if s.Items != nil {
		out.Items = Genai(s.Items)
	}

	for _, child := range s.AnyOf {
		out.AnyOf = append(out.AnyOf, Genai(child))
	}

	return out
}

// GenaiFor reflects T and converts the result in one step.
func GenaiFor[T any]() *genai.Schema {
	return Genai(ReflectType[T]())
}

func genaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
