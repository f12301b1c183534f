// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/event"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// HandleTreasuryProfit records a treasury profit event. Profit is always
// quoted under the initial protocol.
func HandleTreasuryProfit(ctx context.Context, s *app.State, item *event.TreasuryProfit, txHash string, tx *sqlx.Tx) error {
	at, err := ParseEventTimestamp(item.At)
	if err != nil {
		return err
	}
	height, err := strconv.ParseInt(item.Height, 10, 64)
	if err != nil {
		return err
	}
	protocol := s.Config.InitialProtocol
	amntStable, err := s.InStableByDate(ctx, item.ProfitSymbol, item.ProfitAmount, &protocol, at)
	if err != nil {
		return err
	}
	amntNls, err := decimal.NewFromString(item.ProfitAmount)
	if err != nil {
		return err
	}

	row := &model.TRProfit{
		TxHash:     txHash,
		Height:     height,
		Timestamp:  at,
		AmntStable: amntStable,
		AmntNls:    amntNls,
	}
	return s.DB.TRProfit.InsertIfNotExists(ctx, tx, row)
}

// HandleTreasuryRewards records a rewards distribution. The event index
// keeps multiple distributions in one block distinct.
func HandleTreasuryRewards(ctx context.Context, s *app.State, item *event.TreasuryRewards, index int, txHash string, tx *sqlx.Tx) error {
	at, err := ParseEventTimestamp(item.At)
	if err != nil {
		return err
	}
	height, err := strconv.ParseInt(item.Height, 10, 64)
	if err != nil {
		return err
	}
	protocol := ProtocolRef(s, item.To)
	amntStable, err := s.InStableByDate(ctx, item.RewardsSymbol, item.RewardsAmount, protocol, at)
	if err != nil {
		return err
	}
	amntNls, err := decimal.NewFromString(item.RewardsAmount)
	if err != nil {
		return err
	}

	row := &model.TRRewardsDistribution{
		TxHash:          txHash,
		Height:          height,
		PoolID:          item.To,
		Timestamp:       at,
		AmntStable:      amntStable,
		AmntNls:         amntNls,
		EventBlockIndex: int32(index),
	}
	return s.DB.TRRewardsDistribution.InsertIfNotExists(ctx, tx, row)
}
