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
	"github.com/nolus-protocol/extract-transform-load-sub000/db"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// SnapshotLenderStates values every open lender position: current receipt
// balance times the pool's receipt price, in pool asset and stable units.
// Only lenders of active pools are visited.
func SnapshotLenderStates(ctx context.Context, s *app.State, ts time.Time) error {
	lenders, err := s.DB.LPDeposit.ActiveLenders(ctx)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var rows []model.LPLenderState

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.MaxTasks)
	for _, lender := range lenders {
		pool, ok := s.Config.PoolsByID[lender.PoolID]
		if !ok || !pool.Active {
			continue
		}
		lender := lender
		g.Go(func() error {
			row, err := lenderState(gctx, s, lender, ts)
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
	return s.DB.LPLenderState.InsertMany(ctx, rows)
}

func lenderState(ctx context.Context, s *app.State, lender db.Lender, ts time.Time) (*model.LPLenderState, error) {
	var (
		balanceAmount string
		priceAmount   decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		balance, err := s.Chain.GetBalanceState(gctx, lender.PoolID, lender.AddressID)
		if err != nil {
			return err
		}
		balanceAmount = balance.Balance
		return nil
	})
	g.Go(func() error {
		price, err := s.Chain.GetLppPrice(gctx, lender.PoolID)
		if err != nil {
			return err
		}
		amount, err := decimal.NewFromString(price.Amount.Amount)
		if err != nil {
			return err
		}
		quote, err := decimal.NewFromString(price.AmountQuote.Amount)
		if err != nil {
			return err
		}
		priceAmount = quote.Div(amount)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	receipts, err := decimal.NewFromString(balanceAmount)
	if err != nil {
		return nil, err
	}
	value := receipts.Mul(priceAmount)
	stable, err := s.InStableByPoolID(ctx, lender.PoolID, value.String())
	if err != nil {
		return nil, err
	}

	return &model.LPLenderState{
		LenderID:  lender.AddressID,
		PoolID:    lender.PoolID,
		Timestamp: ts,
		Stable:    stable,
		Asset:     value,
		Receipts:  receipts,
	}, nil
}
