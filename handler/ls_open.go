// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/config"
	"github.com/nolus-protocol/extract-transform-load-sub000/event"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// liquidationLTV is the loan-to-value ratio at which a position is
// liquidated. The contracts do not expose it; 90% matches the deployed
// protocol parameters.
var liquidationLTV = decimal.RequireFromString("0.9")

// liquidationPriceAtOpen derives the asset price at which a fresh
// position would be liquidated.
//
// Long:  (loan / 0.9) / (down_payment + loan) * opening_price
// Short: (down_payment + loan) / (total_position_lpn / 0.9)
func liquidationPriceAtOpen(positionType string, downPaymentStable, loanStable, openingPrice, totalPositionLpn decimal.Decimal) *decimal.Decimal {
	totalCollateral := downPaymentStable.Add(loanStable)
	if totalCollateral.IsZero() || totalPositionLpn.IsZero() {
		return nil
	}
	switch positionType {
	case string(config.Long):
		debtAtLiquidation := loanStable.Div(liquidationLTV)
		v := debtAtLiquidation.Div(totalCollateral).Mul(openingPrice)
		return &v
	case string(config.Short):
		positionAtLiquidation := totalPositionLpn.Div(liquidationLTV)
		v := totalCollateral.Div(positionAtLiquidation)
		return &v
	}
	return nil
}

// HandleLeaseOpen persists the LS_Opening row with its derived columns:
// the as-allocated amount from the lease state at the opening height, the
// LPN-denominated loan, the opening price and the liquidation price.
func HandleLeaseOpen(ctx context.Context, s *app.State, item *event.LeaseOpen, txHash string, height int64, tx *sqlx.Tx) error {
	at, err := ParseEventTimestamp(item.At)
	if err != nil {
		return err
	}

	protocol := ProtocolRef(s, item.LoanPoolID)
	lpnCurrency, err := s.CurrencyByPoolID(item.LoanPoolID)
	if err != nil {
		return err
	}

	var (
		loanPrice, downpaymentPrice  decimal.Decimal
		lpnPrice, leaseCurrencyPrice decimal.Decimal
		leaseState                   leaseStateResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		loanPrice, err = s.DB.MPAsset.GetPriceByDate(gctx, item.LoanSymbol, protocol, at)
		return err
	})
	g.Go(func() (err error) {
		downpaymentPrice, err = s.DB.MPAsset.GetPriceByDate(gctx, item.DownpaymentSymbol, protocol, at)
		return err
	})
	g.Go(func() (err error) {
		lpnPrice, err = s.DB.MPAsset.GetPriceByDate(gctx, lpnCurrency.Ticker, protocol, at)
		return err
	})
	g.Go(func() (err error) {
		leaseCurrencyPrice, err = s.DB.MPAsset.GetPriceByDate(gctx, item.Currency, protocol, at)
		return err
	})
	g.Go(func() (err error) {
		state, err := s.Chain.GetLeaseStateByBlock(gctx, item.ID, height)
		if err != nil {
			return err
		}
		if state.Opened != nil {
			leaseState.amount = state.Opened.Amount.Amount
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	air, err := strconv.ParseInt(item.Air, 10, 16)
	if err != nil {
		return err
	}

	loanAmnt := decimal.Zero
	if leaseState.amount != "" {
		if loanAmnt, err = decimal.NewFromString(leaseState.amount); err != nil {
			return err
		}
	}

	loanAmntStable, err := app.InStableCalc(loanPrice, item.LoanAmount)
	if err != nil {
		return err
	}
	downPaymentStable, err := app.InStableCalc(downpaymentPrice, item.DownpaymentAmount)
	if err != nil {
		return err
	}
	lpnLoanAmnt := loanAmnt.Mul(leaseCurrencyPrice).Div(lpnPrice)

	loanAmntAsset, err := decimal.NewFromString(item.LoanAmount)
	if err != nil {
		return err
	}
	cltrAmntAsset, err := decimal.NewFromString(item.DownpaymentAmount)
	if err != nil {
		return err
	}

	// Pool-config snapshot feeds the precomputed columns; a missing row
	// leaves them null.
	var (
		positionType, lpnSymbol *string
		lpnDecimals             *int32
		liquidationPrice        *decimal.Decimal
	)
	poolConfig, err := s.DB.PoolConfig.GetByPoolID(ctx, item.LoanPoolID)
	if err != nil {
		return err
	}
	if poolConfig != nil {
		positionType = &poolConfig.PositionType
		lpnSymbol = &poolConfig.LpnSymbol
		lpnDecimals = &poolConfig.LpnDecimals
		liquidationPrice = liquidationPriceAtOpen(
			poolConfig.PositionType, downPaymentStable, loanAmntStable,
			leaseCurrencyPrice, lpnLoanAmnt)
	}
	openingPrice := leaseCurrencyPrice

	row := &model.LSOpening{
		TxHash:                 txHash,
		ContractID:             item.ID,
		AddressID:              item.Customer,
		AssetSymbol:            item.Currency,
		Interest:               int16(air),
		Timestamp:              at,
		LoanPoolID:             item.LoanPoolID,
		LoanAmnt:               loanAmnt,
		LoanAmntStable:         loanAmntStable,
		LoanAmntAsset:          loanAmntAsset,
		CltrSymbol:             item.DownpaymentSymbol,
		CltrAmntStable:         downPaymentStable,
		CltrAmntAsset:          cltrAmntAsset,
		NativeAmntStable:       decimal.Zero,
		NativeAmntNolus:        decimal.Zero,
		LpnLoanAmnt:            lpnLoanAmnt,
		PositionType:           positionType,
		LpnSymbol:              lpnSymbol,
		LpnDecimals:            lpnDecimals,
		OpeningPrice:           &openingPrice,
		LiquidationPriceAtOpen: liquidationPrice,
	}
	return s.DB.LSOpening.InsertIfNotExists(ctx, tx, row)
}

type leaseStateResult struct {
	amount string
}

// ProtocolRef resolves a pool's protocol name as an optional reference
// for price lookups.
func ProtocolRef(s *app.State, poolID string) *string {
	if name, ok := s.ProtocolByPoolID(poolID); ok {
		return &name
	}
	return nil
}
