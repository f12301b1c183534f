// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// ComputePLState assembles the consolidated tick row: pool totals at now,
// open counts at now, and inflow/outflow sums over (lastTick, now]. The
// tax terms compare the treasury delta against profit and rewards, using
// the (prevTick, lastTick] window as the baseline.
func ComputePLState(ctx context.Context, s *app.State, prevTick, lastTick, now time.Time) error {
	totals, err := s.DB.LPPoolState.TotalsAt(ctx, now)
	if err != nil {
		return err
	}

	lsOpen, err := s.DB.LSState.CountAt(ctx, now)
	if err != nil {
		return err
	}
	lsClosed, err := s.DB.LSClosing.Count(ctx, lastTick, now)
	if err != nil {
		return err
	}
	lsOpened, err := s.DB.LSOpening.Count(ctx, lastTick, now)
	if err != nil {
		return err
	}
	cltrOpened, err := s.DB.LSOpening.SumCltrOpenedStable(ctx, lastTick, now)
	if err != nil {
		return err
	}
	lpOpen, err := s.DB.LPLenderState.CountAt(ctx, now)
	if err != nil {
		return err
	}
	lpClosed, err := s.DB.LPWithdraw.CountClosed(ctx, lastTick, now)
	if err != nil {
		return err
	}
	lpOpened, err := s.DB.LPDeposit.Count(ctx, lastTick, now)
	if err != nil {
		return err
	}
	loanOut, err := s.DB.LSOpening.SumLoanStable(ctx, lastTick, now)
	if err != nil {
		return err
	}

	reps, err := s.DB.LSRepayment.SumWindow(ctx, lastTick, now)
	if err != nil {
		return err
	}
	repTotal := reps.PrevMargin.Add(reps.PrevInterest).
		Add(reps.CurrentMargin).Add(reps.CurrentInterest)

	cltrOut, err := s.DB.LSOpening.SumCltrClosedStable(ctx, lastTick, now)
	if err != nil {
		return err
	}
	amntOut, err := s.DB.LSOpening.SumClosedStable(ctx, lastTick, now)
	if err != nil {
		return err
	}
	lpIn, err := s.DB.LPDeposit.SumStable(ctx, lastTick, now)
	if err != nil {
		return err
	}
	lpOut, err := s.DB.LPWithdraw.SumStable(ctx, lastTick, now)
	if err != nil {
		return err
	}

	profit, err := s.DB.TRProfit.SumWindow(ctx, lastTick, now)
	if err != nil {
		return err
	}
	trStable, err := s.DB.TRState.SumStable(ctx, lastTick, now)
	if err != nil {
		return err
	}
	trStablePrev, err := s.DB.TRState.SumStable(ctx, prevTick, lastTick)
	if err != nil {
		return err
	}
	trNls, err := s.DB.TRState.SumNls(ctx, lastTick, now)
	if err != nil {
		return err
	}
	trNlsPrev, err := s.DB.TRState.SumNls(ctx, prevTick, lastTick)
	if err != nil {
		return err
	}
	rewardsStable, err := s.DB.TRRewardsDistribution.SumStable(ctx, lastTick, now)
	if err != nil {
		return err
	}
	rewardsNls, err := s.DB.TRRewardsDistribution.SumNls(ctx, lastTick, now)
	if err != nil {
		return err
	}

	taxStable := trStable.Add(rewardsStable).Sub(profit.Stable).Sub(trStablePrev)
	taxNls := trNls.Add(rewardsNls).Sub(profit.Nls).Sub(trNlsPrev)

	row := &model.PLState{
		Timestamp:                    now,
		PoolsTVLStable:               totals.TVLStable,
		PoolsBorrowedStable:          totals.BorrowedStable,
		PoolsYieldStable:             totals.YieldStable,
		LSCountOpen:                  lsOpen,
		LSCountClosed:                lsClosed,
		LSCountOpened:                lsOpened,
		InLSCltrAmntOpenedStable:     cltrOpened,
		LPCountOpen:                  lpOpen,
		LPCountClosed:                lpClosed,
		LPCountOpened:                lpOpened,
		OutLSLoanAmntStable:          loanOut,
		InLSRepAmntStable:            repTotal,
		InLSRepPrevMarginStable:      reps.PrevMargin,
		InLSRepPrevInterestStable:    reps.PrevInterest,
		InLSRepCurrentMarginStable:   reps.CurrentMargin,
		InLSRepCurrentInterestStable: reps.CurrentInterest,
		InLSRepPrincipalStable:       reps.Principal,
		OutLSCltrAmntStable:          cltrOut,
		OutLSAmntStable:              amntOut,
		NativeAmntStable:             decimal.Zero,
		NativeAmntNolus:              decimal.Zero,
		InLPAmntStable:               lpIn,
		OutLPAmntStable:              lpOut,
		TRProfitAmntStable:           profit.Stable,
		TRProfitAmntNls:              profit.Nls,
		TRTaxAmntStable:              taxStable,
		TRTaxAmntNls:                 taxNls,
		OutTRRewardsAmntStable:       rewardsStable,
		OutTRRewardsAmntNls:          rewardsNls,
	}
	return s.DB.PLState.Insert(ctx, row)
}
