/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package geminiexecutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor/retry"
	"github.com/HOLYKEYZ/joe-gemini/agents/metrics"
	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// Interface is the public surface of the Gemini executor.
type Interface interface {
	// Query binds the request into the prompt, sends it to the model, and
	// returns the text of the first candidate.
	Query(ctx context.Context, request promptbuilder.Bindable) (string, error)
}

type executor struct {
	client             *genai.Client
	model              string
	prompt             *promptbuilder.Prompt
	systemInstructions *promptbuilder.Prompt
	temperature        float32
	maxOutputTokens    int32
	responseMIMEType   string
	responseSchema     *genai.Schema
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates a Gemini executor with the given client and prompt.
func New(client *genai.Client, prompt *promptbuilder.Prompt, opts ...Option) (Interface, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor{
		client:          client,
		model:           "gemini-2.5-flash",
		prompt:          prompt,
		temperature:     0.4,
		maxOutputTokens: 16384,
		genaiMetrics:    metrics.NewGenAI("joegemini.agents"),
		retryConfig:     retry.DefaultConfig(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return e, nil
}

func (e *executor) Query(ctx context.Context, request promptbuilder.Bindable) (string, error) {
	log := clog.FromContext(ctx)

	boundPrompt, err := request.Bind(e.prompt)
	if err != nil {
		return "", fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := boundPrompt.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(e.temperature),
		MaxOutputTokens: e.maxOutputTokens,
	}

	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return "", fmt.Errorf("building system prompt: %w", err)
		}
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{
				Text: systemPrompt,
			}},
		}
	}

	if e.responseMIMEType != "" {
		config.ResponseMIMEType = e.responseMIMEType
	}
	if e.responseSchema != nil {
		config.ResponseSchema = e.responseSchema
	}

	log.With("model", e.model).
		With("prompt_length", len(prompt)).
		Info("Querying Gemini")

	response, err := retry.Do(ctx, e.retryConfig, "generate_content", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), config)
	})
	if err != nil {
		e.genaiMetrics.RecordQuery(ctx, e.model, "error")
		return "", fmt.Errorf("generating content: %w", err)
	}

	if response.UsageMetadata != nil {
		e.genaiMetrics.RecordTokens(ctx, e.model,
			int64(response.UsageMetadata.PromptTokenCount),
			int64(response.UsageMetadata.CandidatesTokenCount))
	}
	e.genaiMetrics.RecordQuery(ctx, e.model, "ok")

	text := response.Text()
	if text == "" {
		return "", errors.New("model returned an empty response")
	}
	return text, nil
}
