/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package anthropicexecutor

import (
	"fmt"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{{
		name: "valid model",
		opt:  WithModel("claude-sonnet-4-20250514"),
	}, {
		name:    "non-claude model rejected",
		opt:     WithModel("gemini-2.5-flash"),
		wantErr: true,
	}, {
		name: "valid max tokens",
		opt:  WithMaxTokens(8192),
	}, {
		name:    "max tokens too large",
		opt:     WithMaxTokens(64000),
		wantErr: true,
	}, {
		name:    "zero max tokens",
		opt:     WithMaxTokens(0),
		wantErr: true,
	}, {
		name: "valid temperature",
		opt:  WithTemperature(0.1),
	}, {
		name:    "temperature above range",
		opt:     WithTemperature(1.5),
		wantErr: true,
	}, {
		name:    "nil system instructions",
		opt:     WithSystemInstructions(nil),
		wantErr: true,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &executor{}
			err := tt.opt(e)
			if (err != nil) != tt.wantErr {
				t.Errorf("option error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsRetryableClaudeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{{
		name: "nil error",
		err:  nil,
		want: false,
	}, {
		name: "rate limited",
		err:  &anthropic.Error{StatusCode: 429},
		want: true,
	}, {
		name: "overloaded",
		err:  &anthropic.Error{StatusCode: 529},
		want: true,
	}, {
		name: "wrapped api error",
		err:  fmt.Errorf("creating message: %w", &anthropic.Error{StatusCode: 503}),
		want: true,
	}, {
		name: "bad request is permanent",
		err:  &anthropic.Error{StatusCode: 400},
		want: false,
	}, {
		name: "plain error is permanent",
		err:  fmt.Errorf("connection refused"),
		want: false,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableClaudeError(tt.err); got != tt.want {
				t.Errorf("isRetryableClaudeError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
