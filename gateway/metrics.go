/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joegemini_webhook_events_total",
		Help: "Webhook deliveries received, by event type and action.",
	}, []string{"event", "action"})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joegemini_webhook_rejected_total",
		Help: "Webhook deliveries rejected before processing.",
	}, []string{"reason"})

	reconcilesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joegemini_reconciles_total",
		Help: "Reconciliations attempted, by kind and outcome.",
	}, []string{"kind", "outcome"})

	reconcileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "joegemini_reconcile_duration_seconds",
		Help:    "Wall-clock duration of reconciliations.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"kind"})
)
