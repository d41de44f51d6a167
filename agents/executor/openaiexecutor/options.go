/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"
	"fmt"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor/retry"
	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
)

// Option is a functional option for configuring the executor
type Option func(*executor) error

// WithModel allows overriding the model name
func WithModel(model string) Option {
	return func(e *executor) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		e.model = model
		return nil
	}
}

// WithMaxTokens sets the maximum completion tokens for responses
func WithMaxTokens(tokens int64) Option {
	return func(e *executor) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the temperature for responses
// OpenAI models support temperature values from 0.0 to 2.0
func WithTemperature(temp float64) Option {
	return func(e *executor) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithSystemInstructions sets custom system instructions
func WithSystemInstructions(prompt *promptbuilder.Prompt) Option {
	return func(e *executor) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		e.systemInstructions = prompt
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
