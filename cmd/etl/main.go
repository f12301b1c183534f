// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// The etl command watches a Nolus-style lending chain and maintains the
// normalized analytics database: live block ingestion, gap backfill and
// the periodic state aggregations.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/aggregate"
	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/config"
	"github.com/nolus-protocol/extract-transform-load-sub000/db"
	"github.com/nolus-protocol/extract-transform-load-sub000/ingest"
	"github.com/nolus-protocol/extract-transform-load-sub000/metrics"
)

const version = "1.8.0"

func main() {
	cliApp := &cli.App{
		Name:    "etl",
		Usage:   "extract-transform-load service for the lending chain",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "start the ingestion and aggregation loops",
				Action: run,
			},
		},
		DefaultCommand: "run",
	}
	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Sugar()

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	database, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	client, err := chain.New(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	state, err := app.NewState(ctx, cfg, database, client, log)
	if err != nil {
		return err
	}

	// Prime the price table before anything converts amounts.
	if err := aggregate.FetchPrices(ctx, state); err != nil {
		return fmt.Errorf("initial price fetch: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ingest.NewLive(state).Run(gctx) })
	g.Go(func() error { return aggregate.Loop(gctx, state) })
	g.Go(func() error { return aggregate.PriceLoop(gctx, state) })
	g.Go(func() error { return aggregate.CacheLoop(gctx, state) })
	if cfg.MetricsListen != "" {
		g.Go(func() error { return metrics.Serve(cfg.MetricsListen) })
	}

	err = g.Wait()
	if err != nil && ctx.Err() == nil {
		log.Errorw("service stopped", "err", err)
		return err
	}
	log.Infow("service shut down")
	return nil
}
