// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingest

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/db"
	"github.com/nolus-protocol/extract-transform-load-sub000/handler"
	"github.com/nolus-protocol/extract-transform-load-sub000/metrics"
)

// span is a half-open height range [Start, End).
type span struct {
	Start int64
	End   int64
}

func (s span) length() int64 { return s.End - s.Start }

// StartSync runs one gap-fill pass and, once it drains, the post-sync
// lease pass. Only one pass may be active at a time; a second call while
// one runs is a no-op.
func StartSync(ctx context.Context, s *app.State) error {
	if s.Sync.Running() {
		return nil
	}

	parts, err := syncParams(ctx, s)
	if err != nil {
		return err
	}

	if err := runWorkers(ctx, s, parts); err != nil {
		s.Sync.SetRunning(false)
		return err
	}
	s.Sync.SetRunning(false)

	if err := handler.ProceedLeases(ctx, s); err != nil {
		return err
	}
	s.Log.Infow("synchronization completed")
	return nil
}

// syncParams discovers the ranges to drain: the append range past the
// last processed height plus every gap. The first pass scans the whole
// block table, later passes only a recent window.
func syncParams(ctx context.Context, s *app.State) ([]span, error) {
	_, hasFirst, err := s.DB.Block.First(ctx)
	if err != nil {
		return nil, err
	}
	last, hasLast, err := s.DB.Block.Last(ctx)
	if err != nil {
		return nil, err
	}
	chainHeight, err := s.Chain.GetLatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	var parts []span
	if !hasFirst {
		parts = append(parts, span{Start: 1, End: chainHeight + 1})
		return parts, nil
	}

	if hasLast {
		parts = append(parts, span{Start: last + 1, End: chainHeight + 1})
	}

	var gaps []db.Range
	if !s.Sync.InitialScanDone() {
		s.Log.Infow("performing full gap scan")
		if gaps, err = s.DB.Block.AllMissing(ctx); err != nil {
			return nil, err
		}
		s.Sync.MarkInitialScanDone()
	} else {
		if gaps, err = s.DB.Block.RecentMissing(ctx); err != nil {
			return nil, err
		}
	}
	for _, g := range gaps {
		parts = append(parts, span{Start: g.Begin + 1, End: g.End})
	}
	return parts, nil
}

// partition slices every input range into near-equal per-worker
// sub-ranges. The last worker takes the remainders.
func partition(parts []span, workers int) [][]span {
	out := make([][]span, workers)
	remainder := make([]span, len(parts))
	copy(remainder, parts)

	for i := range remainder {
		count := remainder[i].length() / int64(workers)
		for w := 0; w < workers-1; w++ {
			if count <= 0 {
				break
			}
			out[w] = append(out[w], span{
				Start: remainder[i].Start,
				End:   remainder[i].Start + count,
			})
			remainder[i].Start += count
		}
	}
	out[workers-1] = remainder
	return out
}

// runWorkers drains the ranges across the configured worker count, each
// worker walking its sub-ranges strictly in order.
func runWorkers(ctx context.Context, s *app.State, parts []span) error {
	assignments := partition(parts, s.Config.SyncThreads)

	g, gctx := errgroup.WithContext(ctx)
	started := false
	for _, assigned := range assignments {
		var total int64
		for _, sp := range assigned {
			total += sp.length()
		}
		if total <= 0 {
			continue
		}

		s.Sync.SetRunning(true)
		started = true

		assigned := assigned
		g.Go(func() error {
			for _, sp := range assigned {
				for h := sp.Start; h < sp.End; h++ {
					if err := ProcessBlock(gctx, s, h); err != nil {
						return err
					}
					metrics.GapFillBlocks.Inc()
				}
			}
			return nil
		})
	}
	if !started {
		return nil
	}
	return g.Wait()
}
