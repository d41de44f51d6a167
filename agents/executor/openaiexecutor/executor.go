/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor/retry"
	"github.com/HOLYKEYZ/joe-gemini/agents/metrics"
	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
)

// Interface is the public surface of the OpenAI executor.
type Interface interface {
	// Query binds the request into the prompt, sends it to the model, and
	// returns the first choice's message content.
	Query(ctx context.Context, request promptbuilder.Bindable) (string, error)
}

type executor struct {
	client             openai.Client
	model              string
	prompt             *promptbuilder.Prompt
	systemInstructions *promptbuilder.Prompt
	maxTokens          int64
	temperature        float64
	genaiMetrics       *metrics.GenAI
	retryConfig        retry.Config
}

// New creates an OpenAI executor with the given client and prompt.
func New(client openai.Client, prompt *promptbuilder.Prompt, opts ...Option) (Interface, error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}

	e := &executor{
		client:       client,
		model:        "gpt-4o",
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

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if e.systemInstructions != nil {
		systemPrompt, err := e.systemInstructions.Build()
		if err != nil {
			return "", fmt.Errorf("building system prompt: %w", err)
		}
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(e.model),
		Messages:            messages,
		Temperature:         openai.Float(e.temperature),
		MaxCompletionTokens: openai.Int(e.maxTokens),
	}

	log.With("model", e.model).
		With("prompt_length", len(prompt)).
		Info("Querying OpenAI")

	completion, err := retry.Do(ctx, e.retryConfig, "chat_completion", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return e.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		e.genaiMetrics.RecordQuery(ctx, e.model, "error")
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	e.genaiMetrics.RecordTokens(ctx, e.model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	e.genaiMetrics.RecordQuery(ctx, e.model, "ok")

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", errors.New("model returned an empty response")
	}
	return completion.Choices[0].Message.Content, nil
}
