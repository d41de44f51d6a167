/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package githubapp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"golang.org/x/oauth2"
)

func TestClientCacheReusesClients(t *testing.T) {
	var calls atomic.Int32
	cache := NewClientCache(func(context.Context, string, string) (oauth2.TokenSource, error) {
		calls.Add(1)
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"}), nil
	})

	ctx := context.Background()
	a, err := cache.Get(ctx, "octo", "repo")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	b, err := cache.Get(ctx, "octo", "repo")
	if err != nil {
		t.Fatalf("second Get() = %v", err)
	}
	if a != b {
		t.Error("Get() returned distinct clients for the same repo")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("token factory called %d times, want 1", got)
	}

	if _, err := cache.Get(ctx, "octo", "other"); err != nil {
		t.Fatalf("Get() other repo = %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("token factory called %d times after second repo, want 2", got)
	}
}

func TestClientCacheRESTAndGraphQLShareEntry(t *testing.T) {
	cache := NewClientCache(NewStaticTokenSources("t"))
	ctx := context.Background()

	if _, err := cache.Get(ctx, "octo", "repo"); err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if _, err := cache.GetV4(ctx, "octo", "repo"); err != nil {
		t.Fatalf("GetV4() = %v", err)
	}
	if len(cache.clients) != 1 {
		t.Errorf("cache has %d entries, want 1", len(cache.clients))
	}
}

func TestClientCachePropagatesFactoryErrors(t *testing.T) {
	wantErr := errors.New("no installation")
	cache := NewClientCache(func(context.Context, string, string) (oauth2.TokenSource, error) {
		return nil, wantErr
	})
	if _, err := cache.Get(context.Background(), "octo", "repo"); !errors.Is(err, wantErr) {
		t.Errorf("Get() error = %v, want %v", err, wantErr)
	}
}

func TestStaticTokenSources(t *testing.T) {
	factory := NewStaticTokenSources("secret")
	ts, err := factory(context.Background(), "any", "repo")
	if err != nil {
		t.Fatalf("factory() = %v", err)
	}
	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() = %v", err)
	}
	if tok.AccessToken != "secret" {
		t.Errorf("AccessToken = %q, want secret", tok.AccessToken)
	}
}
