/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package githubapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/go-github/v75/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// ClientCache hands out GitHub clients per owner/repo, constructing each at
// most once. REST and GraphQL clients share the same token source.
type ClientCache struct {
	factory TokenSourceFactory

	mu      sync.Mutex
	clients map[string]*entry
}

type entry struct {
	rest    *github.Client
	graphql *githubv4.Client
}

// NewClientCache creates a ClientCache backed by the given token factory.
func NewClientCache(factory TokenSourceFactory) *ClientCache {
	return &ClientCache{
		factory: factory,
		clients: map[string]*entry{},
	}
}

// Get returns a REST client for owner/repo.
func (c *ClientCache) Get(ctx context.Context, owner, repo string) (*github.Client, error) {
	e, err := c.get(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return e.rest, nil
}

// GetV4 returns a GraphQL client for owner/repo.
func (c *ClientCache) GetV4(ctx context.Context, owner, repo string) (*githubv4.Client, error) {
	e, err := c.get(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return e.graphql, nil
}

// TokenSource returns the token source for owner/repo, for callers that need
// raw credentials (e.g. git pushes over HTTPS).
func (c *ClientCache) TokenSource(ctx context.Context, owner, repo string) (oauth2.TokenSource, error) {
	return c.factory(ctx, owner, repo)
}

func (c *ClientCache) get(ctx context.Context, owner, repo string) (*entry, error) {
	key := owner + "/" + repo

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.clients[key]; ok {
		return e, nil
	}

	ts, err := c.factory(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("creating token source for %s: %w", key, err)
	}
	httpClient := oauth2.NewClient(ctx, ts)
	e := &entry{
		rest:    github.NewClient(httpClient),
		graphql: githubv4.NewClient(httpClient),
	}
	c.clients[key] = e
	return e, nil
}
