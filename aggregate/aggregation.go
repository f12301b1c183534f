// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package aggregate runs the periodic rollups: the time-sliced snapshots
// of lender, lease, pool and treasury state, the consolidated PL_State
// row, the oracle price fetcher and the TVL cache refresher.
package aggregate

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/metrics"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// Loop ticks the aggregation every AggregationInterval. The first tick is
// anchored to the last recorded aggregation action so restarts keep the
// cadence; an overdue tick fires immediately. One failed tick is logged
// and the loop proceeds.
func Loop(ctx context.Context, s *app.State) error {
	if !s.Config.EnableSync {
		return nil
	}
	interval := s.Config.AggregationInterval

	delay := interval
	last, err := s.DB.ActionHistory.LastByType(ctx, model.ActionAggregation)
	if err != nil {
		return err
	}
	if last != nil {
		elapsed := time.Since(last.CreatedAt)
		if elapsed >= interval {
			delay = 0
		} else {
			delay = interval - elapsed
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		if err := Tick(ctx, s); err != nil {
			s.Log.Errorw("aggregation tick failed", "err", err)
		} else {
			metrics.AggregationTicks.Inc()
		}
		timer.Reset(interval)
	}
}

// Tick runs one aggregation at the current time: the action-history row
// first, then the four state snapshots in parallel under one shared
// timestamp, then the PL_State rollup over the window since the previous
// tick, then the TVL cache refresh.
func Tick(ctx context.Context, s *app.State) error {
	now := time.Now().UTC()

	lastTick := now
	if last, err := s.DB.ActionHistory.LastByType(ctx, model.ActionAggregation); err == nil && last != nil {
		lastTick = last.CreatedAt
	}
	prevTick := now
	if prev, err := s.DB.ActionHistory.LastByTypeBefore(ctx, model.ActionAggregation, lastTick); err == nil && prev != nil {
		prevTick = prev.CreatedAt
	}

	if err := s.DB.ActionHistory.Insert(ctx, &model.ActionHistory{
		ActionType: model.ActionAggregation,
		CreatedAt:  now,
	}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return SnapshotLeaseStates(gctx, s, now) })
	g.Go(func() error { return SnapshotLenderStates(gctx, s, now) })
	g.Go(func() error { return SnapshotPoolStates(gctx, s, now) })
	g.Go(func() error { return SnapshotTreasuryState(gctx, s, now) })
	if err := g.Wait(); err != nil {
		return err
	}

	if err := ComputePLState(ctx, s, prevTick, lastTick, now); err != nil {
		return err
	}
	return RefreshTVL(ctx, s)
}
