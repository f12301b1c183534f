// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregate

import (
	"context"
	"time"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
)

// CacheLoop refreshes the TVL cache on its own interval, once immediately
// at startup.
func CacheLoop(ctx context.Context, s *app.State) error {
	if err := RefreshTVL(ctx, s); err != nil {
		s.Log.Errorw("initial tvl refresh failed", "err", err)
	}

	ticker := time.NewTicker(s.Config.CacheStateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := RefreshTVL(ctx, s); err != nil {
				s.Log.Errorw("tvl refresh failed", "err", err)
			}
		}
	}
}

// RefreshTVL recomputes the latest total-value-locked from the pool
// snapshots into the shared cache.
func RefreshTVL(ctx context.Context, s *app.State) error {
	tvl, ok, err := s.DB.LPPoolState.LatestTVL(ctx)
	if err != nil {
		return err
	}
	if ok {
		s.SetTVL(tvl)
	}
	return nil
}
