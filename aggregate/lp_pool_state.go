// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// SnapshotPoolStates writes one LP_Pool_State row per configured pool:
// TVL (available + principal due + interest due), issued receipts,
// borrowed amounts and the minimum utilization threshold.
func SnapshotPoolStates(ctx context.Context, s *app.State, ts time.Time) error {
	pools, err := s.DB.LPPool.GetAll(ctx)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var rows []model.LPPoolState

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.MaxTasks)
	for _, pool := range pools {
		pool := pool
		g.Go(func() error {
			row, err := poolState(gctx, s, pool.PoolID, ts)
			if err != nil {
				return err
			}
			mu.Lock()
			rows = append(rows, *row)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return s.DB.LPPoolState.InsertMany(ctx, rows)
}

func poolState(ctx context.Context, s *app.State, poolID string, ts time.Time) (*model.LPPoolState, error) {
	var (
		balance *struct {
			available, principal, interest, receipts decimal.Decimal
		}
		minUtilization decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		state, err := s.Chain.GetLppBalance(gctx, poolID)
		if err != nil {
			return err
		}
		available, err := decimal.NewFromString(state.Balance.Amount)
		if err != nil {
			return err
		}
		principal, err := decimal.NewFromString(state.TotalPrincipalDue.Amount)
		if err != nil {
			return err
		}
		interest, err := decimal.NewFromString(state.TotalInterestDue.Amount)
		if err != nil {
			return err
		}
		receipts, err := decimal.NewFromString(state.BalanceNlpn.Amount)
		if err != nil {
			return err
		}
		balance = &struct {
			available, principal, interest, receipts decimal.Decimal
		}{available, principal, interest, receipts}
		return nil
	})
	g.Go(func() error {
		cfg, err := s.Chain.GetLppConfig(gctx, poolID)
		if err != nil {
			return err
		}
		minUtilization = decimal.NewFromUint64(cfg.MinUtilization)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tvlAsset := balance.available.Add(balance.principal).Add(balance.interest)
	tvlStable, err := s.InStableByPoolID(ctx, poolID, tvlAsset.String())
	if err != nil {
		return nil, err
	}
	borrowedStable, err := s.InStableByPoolID(ctx, poolID, balance.principal.String())
	if err != nil {
		return nil, err
	}

	return &model.LPPoolState{
		PoolID:                  poolID,
		Timestamp:               ts,
		TotalValueLockedStable:  tvlStable,
		TotalValueLockedAsset:   tvlAsset,
		TotalIssuedReceipts:     balance.receipts,
		TotalBorrowedStable:     borrowedStable,
		TotalBorrowedAsset:      balance.principal,
		TotalYieldStable:        decimal.Zero,
		TotalYieldAsset:         decimal.Zero,
		MinUtilizationThreshold: minUtilization,
	}, nil
}
