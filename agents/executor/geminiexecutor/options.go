/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package geminiexecutor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor/retry"
	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
	"google.golang.org/genai"
)

// Option is a functional option for configuring the executor
type Option func(*executor) error

// WithModel allows overriding the model name
func WithModel(model string) Option {
	return func(e *executor) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		e.model = model
		return nil
	}
}

// WithTemperature sets the temperature for generation
// Gemini models support temperature values from 0.0 to 2.0
func WithTemperature(temperature float32) Option {
	return func(e *executor) error {
		if temperature < 0.0 || temperature > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		e.temperature = temperature
		return nil
	}
}

// WithMaxOutputTokens sets the maximum output tokens for generation
func WithMaxOutputTokens(tokens int32) Option {
	return func(e *executor) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		e.maxOutputTokens = tokens
		return nil
	}
}

// WithSystemInstructions sets the system instructions for the model
func WithSystemInstructions(prompt *promptbuilder.Prompt) Option {
	return func(e *executor) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.systemInstructions = prompt
		return nil
	}
}

// WithResponseMIMEType sets the response MIME type (e.g., "application/json")
func WithResponseMIMEType(mimeType string) Option {
	return func(e *executor) error {
		if mimeType == "" {
			return errors.New("response MIME type cannot be empty")
		}
		e.responseMIMEType = mimeType
		return nil
	}
}

// WithResponseSchema sets the response schema for structured output.
// Setting a schema also forces the application/json MIME type.
func WithResponseSchema(schema *genai.Schema) Option {
	return func(e *executor) error {
		if schema == nil {
			return errors.New("response schema cannot be nil")
		}
		e.responseSchema = schema
		e.responseMIMEType = "application/json"
		return nil
	}
}

// WithRetryConfig overrides the retry configuration for transient API errors
func WithRetryConfig(cfg retry.Config) Option {
	return func(e *executor) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid retry config: %w", err)
		}
		e.retryConfig = cfg
		return nil
	}
}
