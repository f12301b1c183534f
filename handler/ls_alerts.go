// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/event"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// HandleLeaseLiquidationWarning records an LTV warning. The event carries
// no timestamp of its own; the block timestamp keys the row.
func HandleLeaseLiquidationWarning(ctx context.Context, s *app.State, item *event.LeaseLiquidationWarning, blockTime time.Time, txHash string, tx *sqlx.Tx) error {
	level, err := strconv.ParseInt(item.Level, 10, 16)
	if err != nil {
		return err
	}
	ltv, err := decimal.NewFromString(item.LTV)
	if err != nil {
		return err
	}
	row := &model.LSLiquidationWarning{
		TxHash:      txHash,
		ContractID:  item.Lease,
		AddressID:   item.Customer,
		AssetSymbol: item.LeaseAsset,
		Level:       int16(level),
		LTV:         ltv,
		Timestamp:   blockTime,
	}
	return s.DB.LSLiquidationWarning.InsertIfNotExists(ctx, tx, row)
}

// HandleLeaseSlippageAnomaly records a slippage-protection breach.
func HandleLeaseSlippageAnomaly(ctx context.Context, s *app.State, item *event.LeaseSlippageAnomaly, blockTime time.Time, txHash string, tx *sqlx.Tx) error {
	maxSlippage, err := decimal.NewFromString(item.MaxSlippage)
	if err != nil {
		return err
	}
	row := &model.LSSlippageAnomaly{
		TxHash:      txHash,
		ContractID:  item.Lease,
		AddressID:   item.Customer,
		AssetSymbol: item.LeaseAsset,
		MaxSlippage: maxSlippage,
		Timestamp:   blockTime,
	}
	return s.DB.LSSlippageAnomaly.InsertIfNotExists(ctx, tx, row)
}

// HandleLeaseAutoClosePosition records a take-profit / stop-loss trigger
// update.
func HandleLeaseAutoClosePosition(ctx context.Context, s *app.State, item *event.LeaseAutoClosePosition, blockTime time.Time, txHash string, tx *sqlx.Tx) error {
	row := &model.LSAutoClosePosition{
		TxHash:     txHash,
		ContractID: item.To,
		Timestamp:  blockTime,
	}
	if item.TakeProfitLTV != nil {
		v, err := strconv.ParseInt(*item.TakeProfitLTV, 10, 32)
		if err != nil {
			return err
		}
		ltv := int32(v)
		row.TakeProfitLTV = &ltv
	}
	if item.StopLossLTV != nil {
		v, err := strconv.ParseInt(*item.StopLossLTV, 10, 32)
		if err != nil {
			return err
		}
		ltv := int32(v)
		row.StopLossLTV = &ltv
	}
	return s.DB.LSAutoClosePosition.InsertIfNotExists(ctx, tx, row)
}

// HandleReserveCoverLoss records the reserve absorbing a shortfall. The
// event index keeps multiple covers in one block distinct.
func HandleReserveCoverLoss(ctx context.Context, s *app.State, item *event.ReserveCoverLoss, index int, blockTime time.Time, txHash string, tx *sqlx.Tx) error {
	amnt, err := decimal.NewFromString(item.PaymentAmount)
	if err != nil {
		return err
	}
	row := &model.ReserveCoverLoss{
		TxHash:          txHash,
		ContractID:      item.To,
		PaymentSymbol:   item.PaymentSymbol,
		PaymentAmnt:     amnt,
		Timestamp:       blockTime,
		EventBlockIndex: int32(index),
	}
	return s.DB.ReserveCoverLoss.InsertIfNotExists(ctx, tx, row)
}
