/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package anthropicexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor/retry"
	"github.com/HOLYKEYZ/joe-gemini/agents/metrics"
	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"
)

// Interface is the public surface of the Claude executor.
type Interface interface {
	// Query binds the request into the prompt, sends it to the model, and
	// returns the concatenated text blocks of the reply.
	Query(ctx context.Context, request promptbuilder.Bindable) (string, error)
}

type executor struct {
	client             anthropic.Client
	model              string
	prompt             *promptbuilder.Prompt
	systemInstructions *promptbuilder.Prompt
	maxTokens          int64
	temperature        float64
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates a Claude executor with the given client and prompt.
func New(client anthropic.Client, prompt *promptbuilder.Prompt, opts ...Option) (Interface, error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor{
		client:       client,
		model:        "claude-sonnet-4-20250514",
		prompt:       prompt,
		maxTokens:    8192,
		temperature:  0.1,
		genaiMetrics: metrics.NewGenAI("joegemini.agents"),
		retryConfig:  retry.DefaultConfig(),
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

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: e.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(e.temperature),
	}

	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return "", fmt.Errorf("building system prompt: %w", err)
		}
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	log.With("model", e.model).
		With("prompt_length", len(prompt)).
		Info("Querying Claude")

	message, err := retry.Do(ctx, e.retryConfig, "messages_new", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return e.client.Messages.New(ctx, params)
	})
	if err != nil {
		e.genaiMetrics.RecordQuery(ctx, e.model, "error")
		return "", fmt.Errorf("creating message: %w", err)
	}

	e.genaiMetrics.RecordTokens(ctx, e.model, message.Usage.InputTokens, message.Usage.OutputTokens)
	e.genaiMetrics.RecordQuery(ctx, e.model, "ok")

	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("model returned no text blocks")
	}
	return sb.String(), nil
}
