/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package executor_test

import (
	"context"
	"testing"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor"
	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
)

func TestNewDispatch(t *testing.T) {
	prompt := promptbuilder.MustNewPrompt("Do the thing: {{request}}")

	tests := []struct {
		name    string
		model   string
		wantErr bool
	}{{
		name:  "claude model",
		model: "claude-sonnet-4-20250514",
	}, {
		name:  "gpt model",
		model: "gpt-4o",
	}, {
		name:  "o-series model",
		model: "o3-mini",
	}, {
		name:    "unknown model",
		model:   "llama-3-70b",
		wantErr: true,
	}, {
		name:    "empty model",
		model:   "",
		wantErr: true,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executor.New(context.Background(), executor.Config{
				Model:           tt.model,
				APIKey:          "test-key",
				UserPrompt:      prompt,
				Temperature:     0.4,
				MaxOutputTokens: 16384,
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.model, err, tt.wantErr)
			}
		})
	}
}
