/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package executor selects and constructs a model executor for a configured
// model name. The concrete implementations live in the per-provider
// subpackages; callers only see Querier.
package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor/anthropicexecutor"
	"github.com/HOLYKEYZ/joe-gemini/agents/executor/geminiexecutor"
	"github.com/HOLYKEYZ/joe-gemini/agents/executor/openaiexecutor"
	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// Querier issues one model query: bind the request into the configured
// prompt, call the model, return the text it produced.
type Querier interface {
	Query(ctx context.Context, request promptbuilder.Bindable) (string, error)
}

// Config carries everything needed to build a provider executor.
type Config struct {
	// Model selects the provider by prefix: gemini-*, claude-*, or gpt-*/o*.
	Model string

	// APIKey authenticates against the selected provider.
	APIKey string

	// UserPrompt is the per-query template; requests bind into it.
	UserPrompt *promptbuilder.Prompt

	// SystemInstructions is optional.
	SystemInstructions *promptbuilder.Prompt

	Temperature     float32
	MaxOutputTokens int32

	// ResponseSchema pins structured output. Only Gemini enforces it
	// server-side; other providers rely on the prompt's JSON nudge.
	ResponseSchema *genai.Schema
}

// New builds a Querier for cfg.Model.
func New(ctx context.Context, cfg Config) (Querier, error) {
	switch {
	case strings.HasPrefix(cfg.Model, "gemini-"):
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("creating Gemini client: %w", err)
		}
		opts := []geminiexecutor.Option{
			geminiexecutor.WithModel(cfg.Model),
			geminiexecutor.WithTemperature(cfg.Temperature),
			geminiexecutor.WithMaxOutputTokens(cfg.MaxOutputTokens),
		}
		if cfg.SystemInstructions != nil {
			opts = append(opts, geminiexecutor.WithSystemInstructions(cfg.SystemInstructions))
		}
		if cfg.ResponseSchema != nil {
			opts = append(opts, geminiexecutor.WithResponseSchema(cfg.ResponseSchema))
		}
		return geminiexecutor.New(client, cfg.UserPrompt, opts...)

	case strings.HasPrefix(cfg.Model, "claude-"):
		client := anthropic.NewClient(anthropicoption.WithAPIKey(cfg.APIKey))
		opts := []anthropicexecutor.Option{
			anthropicexecutor.WithModel(cfg.Model),
			anthropicexecutor.WithTemperature(float64(cfg.Temperature)),
			anthropicexecutor.WithMaxTokens(int64(cfg.MaxOutputTokens)),
		}
		if cfg.SystemInstructions != nil {
			opts = append(opts, anthropicexecutor.WithSystemInstructions(cfg.SystemInstructions))
		}
		return anthropicexecutor.New(client, cfg.UserPrompt, opts...)

	case strings.HasPrefix(cfg.Model, "gpt-"), strings.HasPrefix(cfg.Model, "o"):
		client := openai.NewClient(openaioption.WithAPIKey(cfg.APIKey))
		opts := []openaiexecutor.Option{
			openaiexecutor.WithModel(cfg.Model),
			openaiexecutor.WithTemperature(float64(cfg.Temperature)),
			openaiexecutor.WithMaxTokens(int64(cfg.MaxOutputTokens)),
		}
		if cfg.SystemInstructions != nil {
			opts = append(opts, openaiexecutor.WithSystemInstructions(cfg.SystemInstructions))
		}
		return openaiexecutor.New(client, cfg.UserPrompt, opts...)

	default:
		return nil, fmt.Errorf("unrecognized model %q: expected a gemini-*, claude-*, gpt-*, or o* model", cfg.Model)
	}
}
