/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/HOLYKEYZ/joe-gemini/githubapp"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/HOLYKEYZ/joe-gemini/trigger"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"
)

// CommentHandler reconciles one triggering comment.
type CommentHandler interface {
	Reconcile(ctx context.Context, res *reconcilers.Resource, comment *github.IssueComment, gh *github.Client) error
}

// PRHandler reconciles one pull request event.
type PRHandler interface {
	Reconcile(ctx context.Context, res *reconcilers.Resource, pr *github.PullRequest, gh *github.Client) error
}

// Gateway terminates webhooks and dispatches them to the reconcilers.
type Gateway struct {
	secret   []byte
	clients  *githubapp.ClientCache
	comments CommentHandler
	prs      PRHandler

	// baseCtx outlives individual requests so background reconciliations
	// are not cut off when GitHub's delivery connection closes.
	baseCtx context.Context
	wg      sync.WaitGroup
}

// New creates a Gateway. prs may be nil to disable PR reviews globally.
func New(ctx context.Context, secret []byte, clients *githubapp.ClientCache, comments CommentHandler, prs PRHandler) (*Gateway, error) {
	if len(secret) == 0 {
		return nil, errors.New("webhook secret cannot be empty")
	}
	if clients == nil {
		return nil, errors.New("client cache cannot be nil")
	}
	if comments == nil {
		return nil, errors.New("comment handler cannot be nil")
	}
	return &Gateway{
		secret:   secret,
		clients:  clients,
		comments: comments,
		prs:      prs,
		baseCtx:  ctx,
	}, nil
}

// Mux returns the HTTP handler for the webhook service.
func (g *Gateway) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", g.handleWebhook)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, "%s is listening.\n", trigger.BotName)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Wait blocks until in-flight reconciliations finish. Used during shutdown.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

func (g *Gateway) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := clog.FromContext(r.Context())

	payload, err := github.ValidatePayload(r, g.secret)
	if err != nil {
		rejectedTotal.WithLabelValues("bad_signature").Inc()
		log.Warnf("Rejecting delivery with bad signature: %v", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := github.WebHookType(r)
	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		rejectedTotal.WithLabelValues("unparseable").Inc()
		log.Warnf("Rejecting unparseable %s delivery: %v", eventType, err)
		http.Error(w, "unparseable payload", http.StatusBadRequest)
		return
	}

	switch e := event.(type) {
	case *github.PingEvent:
		eventsTotal.WithLabelValues("ping", "").Inc()
		w.WriteHeader(http.StatusOK)

	case *github.IssueCommentEvent:
		eventsTotal.WithLabelValues(eventType, e.GetAction()).Inc()
		g.handleIssueComment(w, e)

	case *github.PullRequestEvent:
		eventsTotal.WithLabelValues(eventType, e.GetAction()).Inc()
		g.handlePullRequest(w, e)

	default:
		eventsTotal.WithLabelValues(eventType, "").Inc()
		w.WriteHeader(http.StatusOK)
	}
}

func (g *Gateway) handleIssueComment(w http.ResponseWriter, e *github.IssueCommentEvent) {
	body := e.GetComment().GetBody()
	author := e.GetComment().GetUser().GetLogin()

	switch {
	case e.GetAction() != "created":
		w.WriteHeader(http.StatusOK)
		return
	case trigger.IsBot(author), !trigger.Triggered(body):
		w.WriteHeader(http.StatusOK)
		return
	}

	res := &reconcilers.Resource{
		Owner:  e.GetRepo().GetOwner().GetLogin(),
		Repo:   e.GetRepo().GetName(),
		Number: e.GetIssue().GetNumber(),
		Type:   reconcilers.ResourceTypeIssue,
	}
	if e.GetIssue().IsPullRequest() {
		res.Type = reconcilers.ResourceTypePullRequest
	}

	comment := e.GetComment()
	g.dispatch("comment", res, func(ctx context.Context, gh *github.Client) error {
		return g.comments.Reconcile(ctx, res, comment, gh)
	})
	w.WriteHeader(http.StatusAccepted)
}

func (g *Gateway) handlePullRequest(w http.ResponseWriter, e *github.PullRequestEvent) {
	if g.prs == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	switch e.GetAction() {
	case "opened", "reopened", "synchronize":
	default:
		w.WriteHeader(http.StatusOK)
		return
	}

	res := &reconcilers.Resource{
		Owner:  e.GetRepo().GetOwner().GetLogin(),
		Repo:   e.GetRepo().GetName(),
		Number: e.GetPullRequest().GetNumber(),
		Type:   reconcilers.ResourceTypePullRequest,
	}

	pr := e.GetPullRequest()
	g.dispatch("review", res, func(ctx context.Context, gh *github.Client) error {
		return g.prs.Reconcile(ctx, res, pr, gh)
	})
	w.WriteHeader(http.StatusAccepted)
}

// dispatch runs one reconciliation in the background, off the delivery
// connection's context.
func (g *Gateway) dispatch(kind string, res *reconcilers.Resource, fn func(ctx context.Context, gh *github.Client) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		ctx := g.baseCtx
		log := clog.FromContext(ctx).With("kind", kind).With("resource", res.String())
		ctx = clog.WithLogger(ctx, log)

		start := time.Now()
		defer func() {
			reconcileDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		}()

		gh, err := g.clients.Get(ctx, res.Owner, res.Repo)
		if err != nil {
			reconcilesTotal.WithLabelValues(kind, "error").Inc()
			log.Errorf("Getting GitHub client: %v", err)
			return
		}

		if err := fn(ctx, gh); err != nil {
			reconcilesTotal.WithLabelValues(kind, "error").Inc()
			log.Errorf("Reconciliation failed: %v", err)
			return
		}
		reconcilesTotal.WithLabelValues(kind, "ok").Inc()
	}()
}
