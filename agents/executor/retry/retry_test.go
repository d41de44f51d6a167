/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package retry_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HOLYKEYZ/joe-gemini/agents/executor/retry"
)

func testConfig() retry.Config {
	return retry.Config{
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  10 * time.Millisecond,
		MaxJitter:   time.Millisecond,
	}
}

func alwaysRetryable(err error) bool { return err != nil }

func TestDoSucceedsFirstTry(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32

	got, err := retry.Do(context.Background(), testConfig(), "query", alwaysRetryable, func() (string, error) {
		attempts.Add(1)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Do() = %q, wanted %q", got, "ok")
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("attempts = %d, wanted 1", n)
	}
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32

	got, err := retry.Do(context.Background(), testConfig(), "query", alwaysRetryable, func() (string, error) {
		if attempts.Add(1) < 3 {
			return "", errors.New("429 RESOURCE_EXHAUSTED")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Do() = %q, wanted %q", got, "ok")
	}
	if n := attempts.Load(); n != 3 {
		t.Errorf("attempts = %d, wanted 3", n)
	}
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32

	_, err := retry.Do(context.Background(), testConfig(), "query", alwaysRetryable, func() (string, error) {
		attempts.Add(1)
		return "", errors.New("rate limit")
	})
	if err == nil {
		t.Fatal("Do() error = nil, wanted error")
	}
	if !strings.Contains(err.Error(), "query failed after 3 retries") {
		t.Errorf("Do() error = %v, wanted terminal retry error", err)
	}
	// Initial call plus MaxAttempts retries.
	if n := attempts.Load(); n != 4 {
		t.Errorf("attempts = %d, wanted 4", n)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	t.Parallel()
	var attempts atomic.Int32
	permanent := errors.New("invalid request")

	_, err := retry.Do(context.Background(), testConfig(), "query", func(error) bool { return false }, func() (string, error) {
		attempts.Add(1)
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Do() error = %v, wanted %v", err, permanent)
	}
	if n := attempts.Load(); n != 1 {
		t.Errorf("attempts = %d, wanted 1", n)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := retry.Do(ctx, retry.Config{
		MaxAttempts: 5,
		BaseBackoff: time.Minute,
		MaxBackoff:  time.Minute,
	}, "query", alwaysRetryable, func() (string, error) {
		cancel()
		return "", errors.New("503")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do() error = %v, wanted context.Canceled", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	if err := (retry.Config{MaxAttempts: -1}).Validate(); err == nil {
		t.Error("negative MaxAttempts: got nil error")
	}
	if err := (retry.Config{BaseBackoff: -time.Second}).Validate(); err == nil {
		t.Error("negative BaseBackoff: got nil error")
	}
	if err := retry.DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestDefaultConfigRetriesTwice(t *testing.T) {
	t.Parallel()
	if got := retry.DefaultConfig().MaxAttempts; got != 2 {
		t.Errorf("DefaultConfig().MaxAttempts = %d, want 2", got)
	}
}
