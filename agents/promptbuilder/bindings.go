/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// binding produces the replacement text for a placeholder.
type binding interface {
	value() (string, error)
}

// unboundBinding is the initial state of every placeholder.
type unboundBinding struct {
	name string
}

func (u *unboundBinding) value() (string, error) {
	return "", fmt.Errorf("unbound placeholder: %s", u.name)
}

type literalBinding struct {
	val string
}

func (l *literalBinding) value() (string, error) {
	return l.val, nil
}

type jsonBinding struct {
	data any
}

func (j *jsonBinding) value() (string, error) {
	out, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON binding: %w", err)
	}
	return string(out), nil
}

type yamlBinding struct {
	data any
}

func (y *yamlBinding) value() (string, error) {
	out, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML binding: %w", err)
	}
	return string(out), nil
}
