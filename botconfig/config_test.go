/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package botconfig

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    func(t *testing.T, cfg Config)
		wantErr string
	}{{
		name: "empty file keeps defaults",
		yaml: "",
		want: func(t *testing.T, cfg Config) {
			if cfg.Model != "gemini-2.5-flash" {
				t.Errorf("Model = %q", cfg.Model)
			}
			if cfg.MaxOutputTokens != 16384 {
				t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
			}
			if !cfg.ReviewsEnabled() {
				t.Error("ReviewsEnabled() = false")
			}
		},
	}, {
		name: "model override",
		yaml: "model: claude-sonnet-4-20250514\n",
		want: func(t *testing.T, cfg Config) {
			if cfg.Model != "claude-sonnet-4-20250514" {
				t.Errorf("Model = %q", cfg.Model)
			}
			if cfg.SkipLabel != "no-joe" {
				t.Errorf("SkipLabel = %q, want default", cfg.SkipLabel)
			}
		},
	}, {
		name: "reviews off",
		yaml: "reviews: false\n",
		want: func(t *testing.T, cfg Config) {
			if cfg.ReviewsEnabled() {
				t.Error("ReviewsEnabled() = true")
			}
		},
	}, {
		name: "temperature override",
		yaml: "temperature: 0.9\n",
		want: func(t *testing.T, cfg Config) {
			if cfg.Temperature == nil || *cfg.Temperature != 0.9 {
				t.Errorf("Temperature = %v", cfg.Temperature)
			}
		},
	}, {
		name:    "temperature out of range",
		yaml:    "temperature: 3.0\n",
		wantErr: "out of range",
	}, {
		name:    "empty model rejected",
		yaml:    "model: \"\"\n",
		wantErr: "model cannot be empty",
	}, {
		name:    "negative token cap rejected",
		yaml:    "maxOutputTokens: -1\n",
		wantErr: "must be positive",
	}, {
		name:    "malformed yaml",
		yaml:    "model: [unclosed\n",
		wantErr: "parsing",
	}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Parse() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() = %v", err)
			}
			tt.want(t, cfg)
		})
	}
}
