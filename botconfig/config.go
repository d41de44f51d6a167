/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package botconfig

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
	"gopkg.in/yaml.v3"
)

// Path is where repositories keep their bot settings.
const Path = ".github/joe-gemini.yml"

// Config is the per-repository bot configuration.
type Config struct {
	// Model overrides the model used for this repository.
	Model string `yaml:"model"`

	// Temperature overrides the sampling temperature.
	Temperature *float32 `yaml:"temperature"`

	// MaxOutputTokens overrides the response token cap.
	MaxOutputTokens int32 `yaml:"maxOutputTokens"`

	// SkipLabel names an issue/PR label that silences the bot. Default
	// "no-joe".
	SkipLabel string `yaml:"skipLabel"`

	// Reviews disables PR review responses for the repository when false.
	Reviews *bool `yaml:"reviews"`
}

// Default returns the configuration used when a repository has no settings
// file.
func Default() Config {
	reviews := true
	var temp float32 = 0.4
	return Config{
		Model:           "gemini-2.5-flash",
		Temperature:     &temp,
		MaxOutputTokens: 16384,
		SkipLabel:       "no-joe",
		Reviews:         &reviews,
	}
}

// Parse decodes settings from raw YAML, filling unset fields from defaults.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", Path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("temperature %f out of range [0, 2]", *c.Temperature)
	}
	if c.MaxOutputTokens <= 0 {
		return fmt.Errorf("maxOutputTokens must be positive, got %d", c.MaxOutputTokens)
	}
	return nil
}

// ReviewsEnabled reports whether PR review responses are on.
func (c Config) ReviewsEnabled() bool {
	return c.Reviews == nil || *c.Reviews
}

// Load fetches the configuration for owner/repo from the default branch.
// A missing file returns defaults; any other API failure is an error.
func Load(ctx context.Context, client *github.Client, owner, repo string) (Config, error) {
	content, _, resp, err := client.Repositories.GetContents(ctx, owner, repo, Path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			clog.FromContext(ctx).With("repo", owner+"/"+repo).
				Debug("No bot configuration file, using defaults")
			return Default(), nil
		}
		return Config{}, fmt.Errorf("fetching %s: %w", Path, err)
	}
	raw, err := content.GetContent()
	if err != nil {
		return Config{}, fmt.Errorf("decoding %s: %w", Path, err)
	}
	return Parse([]byte(raw))
}
