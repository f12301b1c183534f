// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BlocksProcessed counts fully committed blocks.
	BlocksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_blocks_processed_total",
		Help: "Number of blocks fully processed and committed",
	})

	// BlockFailures counts exhausted per-block retry budgets.
	BlockFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_block_failures_total",
		Help: "Number of blocks that failed after all retries",
	})

	// Reconnects counts WebSocket session restarts.
	Reconnects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_ws_reconnects_total",
		Help: "Number of WebSocket reconnect cycles",
	})

	// GapFillBlocks counts heights drained by the gap-fill scheduler.
	GapFillBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_gapfill_blocks_total",
		Help: "Number of heights processed by gap-fill workers",
	})

	// AggregationTicks counts completed aggregation runs.
	AggregationTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "etl_aggregation_ticks_total",
		Help: "Number of completed aggregation ticks",
	})

	// LastProcessedHeight tracks the newest committed height.
	LastProcessedHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "etl_last_processed_height",
		Help: "Newest committed block height",
	})
)

// Serve exposes /metrics on addr; it blocks like http.ListenAndServe.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
