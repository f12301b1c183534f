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
	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// SnapshotLeaseStates queries every open lease's current state and writes
// one LS_State row per lease, all stamped at ts. Leases that are no
// longer opened are skipped.
func SnapshotLeaseStates(ctx context.Context, s *app.State, ts time.Time) error {
	leases, err := s.DB.LSOpening.ActiveLeases(ctx)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	var rows []model.LSState

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.MaxTasks)
	for _, lease := range leases {
		lease := lease
		g.Go(func() error {
			row, err := leaseState(gctx, s, &lease, ts)
			if err != nil {
				return err
			}
			if row != nil {
				mu.Lock()
				rows = append(rows, *row)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return s.DB.LSState.InsertMany(ctx, rows)
}

func leaseState(ctx context.Context, s *app.State, lease *model.LSOpening, ts time.Time) (*model.LSState, error) {
	state, err := s.Chain.GetLeaseState(ctx, lease.ContractID)
	if err != nil {
		return nil, err
	}
	if state.Opened == nil {
		return nil, nil
	}
	opened := state.Opened

	poolCurrency, err := s.CurrencyByPoolID(lease.LoanPoolID)
	if err != nil {
		return nil, err
	}
	protocol := protocolRef(s, lease.LoanPoolID)

	assetPrice, err := s.DB.MPAsset.GetPrice(ctx, opened.Amount.Ticker, protocol)
	if err != nil {
		return nil, err
	}
	poolPrice, err := s.DB.MPAsset.GetPrice(ctx, poolCurrency.Ticker, protocol)
	if err != nil {
		return nil, err
	}

	// Interest buckets appear under both attribute generations; the
	// matching pairs are summed so either shape contributes.
	prevMargin := bucketStable(poolPrice, opened.PreviousMarginDue).
		Add(bucketStable(poolPrice, opened.OverdueMargin))
	prevInterest := bucketStable(poolPrice, opened.PreviousInterestDue).
		Add(bucketStable(poolPrice, opened.OverdueInterest))
	currMargin := bucketStable(poolPrice, opened.CurrentMarginDue).
		Add(bucketStable(poolPrice, opened.DueMargin))
	currInterest := bucketStable(poolPrice, opened.CurrentInterestDue).
		Add(bucketStable(poolPrice, opened.DueInterest))

	amnt, err := decimal.NewFromString(opened.Amount.Amount)
	if err != nil {
		return nil, err
	}
	amntStable, err := app.InStableCalc(assetPrice, opened.Amount.Amount)
	if err != nil {
		return nil, err
	}
	principalStable, err := app.InStableCalc(poolPrice, opened.PrincipalDue.Amount)
	if err != nil {
		return nil, err
	}

	return &model.LSState{
		ContractID:            lease.ContractID,
		Timestamp:             ts,
		Amnt:                  amnt,
		AmntStable:            amntStable,
		PrevMarginStable:      prevMargin,
		PrevInterestStable:    prevInterest,
		CurrentMarginStable:   currMargin,
		CurrentInterestStable: currInterest,
		PrincipalStable:       principalStable,
	}, nil
}

// bucketStable converts an optional interest bucket to stable units;
// absent buckets count as zero.
func bucketStable(price decimal.Decimal, bucket *chain.AmountTicker) decimal.Decimal {
	if bucket == nil {
		return decimal.Zero
	}
	v, err := app.InStableCalc(price, bucket.Amount)
	if err != nil {
		return decimal.Zero
	}
	return v
}

func protocolRef(s *app.State, poolID string) *string {
	if name, ok := s.ProtocolByPoolID(poolID); ok {
		return &name
	}
	return nil
}
