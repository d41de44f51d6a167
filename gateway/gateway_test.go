/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/HOLYKEYZ/joe-gemini/githubapp"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers"
	"github.com/google/go-github/v75/github"
)

var testSecret = []byte("it's a secret to everybody")

func sign(t *testing.T, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, testSecret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func deliver(t *testing.T, mux *http.ServeMux, event string, body []byte, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	req.Header.Set("X-Hub-Signature-256", sign(t, body))
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type fakeCommentHandler struct {
	calls atomic.Int64
	res   atomic.Pointer[reconcilers.Resource]
}

func (f *fakeCommentHandler) Reconcile(_ context.Context, res *reconcilers.Resource, _ *github.IssueComment, _ *github.Client) error {
	f.calls.Add(1)
	f.res.Store(res)
	return nil
}

type fakePRHandler struct {
	calls atomic.Int64
}

func (f *fakePRHandler) Reconcile(context.Context, *reconcilers.Resource, *github.PullRequest, *github.Client) error {
	f.calls.Add(1)
	return nil
}

func newTestGateway(t *testing.T) (*Gateway, *fakeCommentHandler, *fakePRHandler) {
	t.Helper()
	comments := &fakeCommentHandler{}
	prs := &fakePRHandler{}
	clients := githubapp.NewClientCache(githubapp.NewStaticTokenSources("ghs_test"))
	gw, err := New(t.Context(), testSecret, clients, comments, prs)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return gw, comments, prs
}

func TestRejectsBadSignature(t *testing.T) {
	gw, comments, _ := newTestGateway(t)
	body := []byte(`{"action":"created"}`)

	rec := deliver(t, gw.Mux(), "issue_comment", body, func(r *http.Request) {
		r.Header.Set("X-Hub-Signature-256", "sha256=deadbeef")
	})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	gw.Wait()
	if got := comments.calls.Load(); got != 0 {
		t.Errorf("comment handler called %d times, want 0", got)
	}
}

func TestDispatchesTriggeringComment(t *testing.T) {
	gw, comments, _ := newTestGateway(t)
	body := []byte(`{
		"action": "created",
		"issue": {"number": 42},
		"comment": {"body": "hey joe-gemini, what does this do?", "user": {"login": "octocat"}},
		"repository": {"name": "widgets", "owner": {"login": "acme"}}
	}`)

	rec := deliver(t, gw.Mux(), "issue_comment", body)

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	gw.Wait()
	if got := comments.calls.Load(); got != 1 {
		t.Fatalf("comment handler called %d times, want 1", got)
	}
	res := comments.res.Load()
	if want := "https://github.com/acme/widgets/issues/42"; res.String() != want {
		t.Errorf("resource = %q, want %q", res.String(), want)
	}
}

func TestIgnoresCommentWithoutMention(t *testing.T) {
	gw, comments, _ := newTestGateway(t)
	body := []byte(`{
		"action": "created",
		"issue": {"number": 7},
		"comment": {"body": "LGTM", "user": {"login": "octocat"}},
		"repository": {"name": "widgets", "owner": {"login": "acme"}}
	}`)

	rec := deliver(t, gw.Mux(), "issue_comment", body)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	gw.Wait()
	if got := comments.calls.Load(); got != 0 {
		t.Errorf("comment handler called %d times, want 0", got)
	}
}

func TestIgnoresBotComments(t *testing.T) {
	tests := []struct {
		name  string
		login string
	}{
		{name: "own comment", login: "joe-gemini[bot]"},
		{name: "other bot mentioning us", login: "dependabot[bot]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw, comments, _ := newTestGateway(t)
			body := []byte(`{
				"action": "created",
				"issue": {"number": 7},
				"comment": {"body": "@joe-gemini please fix this", "user": {"login": "` + tt.login + `"}},
				"repository": {"name": "widgets", "owner": {"login": "acme"}}
			}`)

			deliver(t, gw.Mux(), "issue_comment", body)
			gw.Wait()
			if got := comments.calls.Load(); got != 0 {
				t.Errorf("comment handler called %d times, want 0", got)
			}
		})
	}
}

func TestDispatchesPullRequestEvents(t *testing.T) {
	tests := []struct {
		action    string
		wantCalls int64
	}{
		{action: "opened", wantCalls: 1},
		{action: "synchronize", wantCalls: 1},
		{action: "reopened", wantCalls: 1},
		{action: "labeled", wantCalls: 0},
		{action: "closed", wantCalls: 0},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			gw, _, prs := newTestGateway(t)
			body := []byte(`{
				"action": "` + tt.action + `",
				"number": 99,
				"pull_request": {"number": 99},
				"repository": {"name": "widgets", "owner": {"login": "acme"}}
			}`)

			deliver(t, gw.Mux(), "pull_request", body)
			gw.Wait()
			if got := prs.calls.Load(); got != tt.wantCalls {
				t.Errorf("pr handler called %d times, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestPingReturnsOK(t *testing.T) {
	gw, _, _ := newTestGateway(t)
	rec := deliver(t, gw.Mux(), "ping", []byte(`{"zen": "Keep it logically awesome."}`))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthz(t *testing.T) {
	gw, _, _ := newTestGateway(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	gw.Mux().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
