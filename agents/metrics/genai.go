/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry counters for model usage.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// GenAI holds counters for token usage and model queries. All executors share
// one meter name; the model shows up as an attribute so Gemini, Claude, and
// OpenAI traffic can be compared on the same instrument.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	queries          metric.Int64Counter
}

// NewGenAI creates the counters under meterName. A counter that fails to
// initialize degrades to a no-op rather than failing the caller.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name,
			metric.WithDescription(desc),
			metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, metric disabled", "counter", name, "error", err)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		queries:          counter("genai.queries", "The number of model queries issued", "{queries}"),
	}
}

// RecordTokens records prompt and completion token usage for one model call.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64) {
	attrs := metric.WithAttributes(attribute.String("model", model))
	m.promptTokens.Add(ctx, promptTokens, attrs)
	m.completionTokens.Add(ctx, completionTokens, attrs)
}

// RecordQuery counts one model query with its outcome ("ok" or "error").
func (m *GenAI) RecordQuery(ctx context.Context, model, outcome string) {
	m.queries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	))
}
