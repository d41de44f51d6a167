/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package geminiexecutor

import (
	"testing"

	"github.com/HOLYKEYZ/joe-gemini/agents/promptbuilder"
	"google.golang.org/genai"
)

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{{
		name: "valid model",
		opt:  WithModel("gemini-2.5-flash"),
	}, {
		name:    "non-gemini model rejected",
		opt:     WithModel("claude-sonnet-4"),
		wantErr: true,
	}, {
		name: "valid temperature",
		opt:  WithTemperature(0.4),
	}, {
		name:    "temperature above range",
		opt:     WithTemperature(2.5),
		wantErr: true,
	}, {
		name:    "negative temperature",
		opt:     WithTemperature(-0.1),
		wantErr: true,
	}, {
		name: "valid max output tokens",
		opt:  WithMaxOutputTokens(16384),
	}, {
		name:    "zero max output tokens",
		opt:     WithMaxOutputTokens(0),
		wantErr: true,
	}, {
		name:    "nil system instructions",
		opt:     WithSystemInstructions(nil),
		wantErr: true,
	}, {
		name:    "empty MIME type",
		opt:     WithResponseMIMEType(""),
		wantErr: true,
	}, {
		name:    "nil response schema",
		opt:     WithResponseSchema(nil),
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

func TestWithResponseSchemaForcesJSON(t *testing.T) {
	e := &executor{}
	if err := WithResponseSchema(&genai.Schema{Type: genai.TypeObject})(e); err != nil {
		t.Fatalf("WithResponseSchema() = %v", err)
	}
	if e.responseMIMEType != "application/json" {
		t.Errorf("responseMIMEType = %q, want application/json", e.responseMIMEType)
	}
}

func TestNewValidation(t *testing.T) {
	prompt := promptbuilder.MustNewPrompt("Hello {{name}}")

	if _, err := New(nil, prompt); err == nil {
		t.Error("New() with nil client should fail")
	}
	if _, err := New(&genai.Client{}, nil); err == nil {
		t.Error("New() with nil prompt should fail")
	}
}

func TestIsRetryableGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{{
		name: "nil error",
		err:  nil,
		want: false,
	}, {
		name: "rate limit",
		err:  errString("Error 429: rate limit exceeded"),
		want: true,
	}, {
		name: "resource exhausted",
		err:  errString("rpc error: code = RESOURCE_EXHAUSTED"),
		want: true,
	}, {
		name: "overloaded",
		err:  errString("the model is Overloaded"),
		want: true,
	}, {
		name: "bad request is permanent",
		err:  errString("Error 400: invalid argument"),
		want: false,
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableGeminiError(tt.err); got != tt.want {
				t.Errorf("isRetryableGeminiError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

type errString string

func (e errString) Error() string { return string(e) }
