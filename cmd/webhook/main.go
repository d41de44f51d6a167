/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package main runs joe-gemini as a GitHub App webhook service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HOLYKEYZ/joe-gemini/clonemanager"
	"github.com/HOLYKEYZ/joe-gemini/gateway"
	"github.com/HOLYKEYZ/joe-gemini/githubapp"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers/commentreconciler"
	"github.com/HOLYKEYZ/joe-gemini/reconcilers/prreconciler"
	"github.com/HOLYKEYZ/joe-gemini/trigger"
	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sethvargo/go-envconfig"
)

type config struct {
	Port        int `env:"PORT,default=8080"`
	MetricsPort int `env:"METRICS_PORT,default=2112"`

	// GitHub App credentials
	AppID         int64  `env:"GITHUB_APP_ID,required"`
	PrivateKey    string `env:"GITHUB_APP_PRIVATE_KEY,required"`
	WebhookSecret string `env:"GITHUB_WEBHOOK_SECRET,required"`

	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`

	// DisableReviews turns off the PR reviewer service-wide. Individual
	// repos can also opt out through their .github/joe-gemini.yml.
	DisableReviews bool `env:"DISABLE_REVIEWS,default=false"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	factory, err := githubapp.NewAppTokenSources(cfg.AppID, []byte(cfg.PrivateKey))
	if err != nil {
		clog.FatalContextf(ctx, "creating token sources: %v", err)
	}
	clients := githubapp.NewClientCache(factory)
	cloneMeta := clonemanager.NewMeta(ctx, clients.TokenSource, trigger.BotName)

	comments, err := commentreconciler.New(trigger.BotName, cfg.GeminiAPIKey, cloneMeta)
	if err != nil {
		clog.FatalContextf(ctx, "creating comment reconciler: %v", err)
	}

	var prs gateway.PRHandler
	if !cfg.DisableReviews {
		reviewer, err := prreconciler.New(trigger.BotName, cfg.GeminiAPIKey)
		if err != nil {
			clog.FatalContextf(ctx, "creating pr reconciler: %v", err)
		}
		prs = reviewer
	}

	gw, err := gateway.New(ctx, []byte(cfg.WebhookSecret), clients, comments, prs)
	if err != nil {
		clog.FatalContextf(ctx, "creating gateway: %v", err)
	}

	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			clog.FatalContextf(ctx, "metrics server failed: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           gw.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	clog.InfoContextf(ctx, "Starting %s webhook service on port %d (reviews=%v)", trigger.BotName, cfg.Port, !cfg.DisableReviews)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}

	// Let background reconciliations drain before exiting.
	gw.Wait()
}
