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

// lpnPrice is the constant stable price of every pool's LPN currency.
var lpnPrice = decimal.NewFromInt(1)

// PriceLoop fetches oracle prices every MPAssetInterval.
func PriceLoop(ctx context.Context, s *app.State) error {
	ticker := time.NewTicker(s.Config.MPAssetInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := FetchPrices(ctx, s); err != nil {
				s.Log.Errorw("price fetch failed", "err", err)
			}
		}
	}
}

// FetchPrices queries every protocol's oracle, scales each quote from the
// asset's decimals to the LPN's, and appends the batch to MP_Asset,
// stamping an action-history tick. The LPN currency of each pool is
// recorded at the constant price of one.
func FetchPrices(ctx context.Context, s *app.State) error {
	now := time.Now().UTC()
	var batch []model.MPAsset

	for name, protocol := range s.Protocols() {
		prices, _, err := s.Chain.GetPrices(ctx, protocol.Contracts.Oracle, name)
		if err != nil {
			return err
		}

		lpnCurrency, ok := s.Config.PoolCurrencies[protocol.Contracts.Lpp]
		if !ok {
			s.Log.Errorw("lpn currency not found for protocol", "protocol", name)
			continue
		}

		for _, price := range prices.Prices {
			asset, ok := s.Config.Currencies[price.Amount.Ticker]
			if !ok {
				continue
			}
			amount, err := decimal.NewFromString(price.Amount.Amount)
			if err != nil || amount.IsZero() {
				continue
			}
			quote, err := decimal.NewFromString(price.AmountQuote.Amount)
			if err != nil {
				continue
			}

			value := quote.Div(amount)
			diff := asset.Decimals - lpnCurrency.Decimals
			if diff > 0 {
				value = value.Mul(decimal.New(1, diff))
			} else if diff < 0 {
				value = value.Div(decimal.New(1, -diff))
			}

			batch = append(batch, model.MPAsset{
				Symbol:        price.Amount.Ticker,
				Timestamp:     now,
				PriceInStable: value,
				Protocol:      name,
			})
		}

		batch = append(batch, model.MPAsset{
			Symbol:        lpnCurrency.Ticker,
			Timestamp:     now,
			PriceInStable: lpnPrice,
			Protocol:      name,
		})
	}

	if err := s.DB.MPAsset.InsertMany(ctx, batch); err != nil {
		return err
	}
	return s.DB.ActionHistory.Insert(ctx, &model.ActionHistory{
		ActionType: model.ActionMPAsset,
		CreatedAt:  now,
	})
}
