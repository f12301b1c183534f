// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InStable converts a raw on-chain amount of a currency to stable units
// at the latest known price. No decimal scaling is applied; callers pass
// raw integer strings and read-side queries scale to human units.
func (s *State) InStable(ctx context.Context, symbol string, protocol *string, value string) (decimal.Decimal, error) {
	c, err := s.Currency(symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	price, err := s.DB.MPAsset.GetPrice(ctx, c.Ticker, protocol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return InStableCalc(price, value)
}

// InStableByDate converts a raw amount at the price in effect around the
// given moment (first observation at or after it, latest overall as the
// fallback).
func (s *State) InStableByDate(ctx context.Context, symbol, value string, protocol *string, at time.Time) (decimal.Decimal, error) {
	c, err := s.Currency(symbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	price, err := s.DB.MPAsset.GetPriceByDate(ctx, c.Ticker, protocol, at)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return InStableCalc(price, value)
}

// InStableByPoolID converts a raw amount of a pool's LPN currency to
// stable units at the latest price.
func (s *State) InStableByPoolID(ctx context.Context, poolID, value string) (decimal.Decimal, error) {
	c, err := s.CurrencyByPoolID(poolID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	protocol := s.protocolRefByPoolID(poolID)
	price, err := s.DB.MPAsset.GetPrice(ctx, c.Ticker, protocol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return InStableCalc(price, value)
}

// InStableCalc multiplies a raw integer amount string by a price.
func InStableCalc(price decimal.Decimal, value string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return v.Mul(price), nil
}
