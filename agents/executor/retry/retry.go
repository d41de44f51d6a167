/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package retry provides exponential backoff for transient model-API
// failures, chiefly quota and rate-limit errors.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/chainguard-dev/clog"
)

// Config controls backoff behavior. The zero value never retries; use
// DefaultConfig for sensible production settings.
type Config struct {
	// MaxAttempts is the number of retries after the initial call.
	MaxAttempts int
	// BaseBackoff is the delay before the first retry.
	BaseBackoff time.Duration
	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration
	// MaxJitter is the upper bound of the random delay added to each backoff.
	MaxJitter time.Duration
}

// Validate rejects negative settings.
func (c Config) Validate() error {
	switch {
	case c.MaxAttempts < 0:
		return errors.New("max attempts cannot be negative")
	case c.BaseBackoff < 0:
		return errors.New("base backoff cannot be negative")
	case c.MaxBackoff < 0:
		return errors.New("max backoff cannot be negative")
	case c.MaxJitter < 0:
		return errors.New("max jitter cannot be negative")
	}
	return nil
}

// DefaultConfig allows two retries after the initial call, with longer
// backoffs than a typical RPC retry policy because model-quota windows take
// a while to refill.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 2,
		BaseBackoff: time.Second,
		MaxBackoff:  60 * time.Second,
		MaxJitter:   500 * time.Millisecond,
	}
}

// Do invokes fn, retrying with exponential backoff and jitter while
// isRetryable classifies the returned error as transient. The operation name
// only appears in logs and the terminal error.
func Do[T any](ctx context.Context, cfg Config, operation string, isRetryable func(error) bool, fn func() (T, error)) (T, error) {
	var out T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxAttempts; attempt++ {
		out, lastErr = fn()
		if lastErr == nil {
			return out, nil
		}
		if !isRetryable(lastErr) {
			return out, lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		backoff := min(cfg.BaseBackoff<<attempt, cfg.MaxBackoff)
		backoff += jitter(cfg.MaxJitter)

		clog.FromContext(ctx).With("operation", operation).
			With("attempt", attempt+1).
			With("backoff", backoff).
			With("error", lastErr.Error()).
			Warn("Transient model API error, retrying")

		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return out, fmt.Errorf("%s failed after %d retries: %w", operation, cfg.MaxAttempts, lastErr)
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
