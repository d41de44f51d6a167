/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package githubapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"
)

// TokenSourceFactory mints an oauth2.TokenSource scoped to the given
// owner/repo. Implementations decide how tokens are obtained.
type TokenSourceFactory func(ctx context.Context, owner, repo string) (oauth2.TokenSource, error)

// NewAppTokenSources returns a factory that authenticates as a GitHub App,
// resolving the installation for each owner and minting installation tokens
// through it.
func NewAppTokenSources(appID int64, privateKeyPEM []byte) (TokenSourceFactory, error) {
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, appID, privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("creating app transport: %w", err)
	}
	appClient := github.NewClient(&http.Client{Transport: appTransport})

	return func(ctx context.Context, owner, repo string) (oauth2.TokenSource, error) {
		inst, _, err := appClient.Apps.FindRepositoryInstallation(ctx, owner, repo)
		if err != nil {
			return nil, fmt.Errorf("finding installation for %s/%s: %w", owner, repo, err)
		}
		itr := ghinstallation.NewFromAppsTransport(appTransport, inst.GetID())
		return &installationTokenSource{ctx: ctx, transport: itr}, nil
	}, nil
}

// NewStaticTokenSources returns a factory that hands out the same static
// token for every repository. Used in Actions mode with GITHUB_TOKEN.
func NewStaticTokenSources(token string) TokenSourceFactory {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return func(context.Context, string, string) (oauth2.TokenSource, error) {
		return ts, nil
	}
}

// installationTokenSource adapts a ghinstallation transport into an
// oauth2.TokenSource so git pushes and GraphQL share the App credentials.
type installationTokenSource struct {
	ctx       context.Context
	transport *ghinstallation.Transport
}

func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.transport.Token(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("minting installation token: %w", err)
	}
	return &oauth2.Token{AccessToken: token}, nil
}
