// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package aggregate

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// SnapshotTreasuryState records the treasury contract's native balance in
// both native and stable units.
func SnapshotTreasuryState(ctx context.Context, s *app.State, ts time.Time) error {
	balances, err := s.Chain.GetBalances(ctx, s.Config.TreasuryContract)
	if err != nil {
		return err
	}

	price, err := s.DB.MPAsset.GetPrice(ctx, s.Config.NativeCurrency, s.DefaultProtocol())
	if err != nil {
		return err
	}

	rows := make([]model.TRState, 0, len(balances))
	for _, coin := range balances {
		c, ok := s.CurrencyByBankDenom(strings.ToUpper(coin.Denom))
		if !ok || c.Ticker != s.Config.NativeCurrency {
			continue
		}
		amnt, err := decimal.NewFromString(coin.Amount.String())
		if err != nil {
			return err
		}
		stable, err := app.InStableCalc(price, coin.Amount.String())
		if err != nil {
			return err
		}
		rows = append(rows, model.TRState{
			Timestamp:  ts,
			AmntStable: stable,
			AmntNls:    amnt,
		})
	}
	return s.DB.TRState.InsertMany(ctx, rows)
}
