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

// HandleLPDeposit records a liquidity-provider deposit. The pool is the
// deposit's destination address.
func HandleLPDeposit(ctx context.Context, s *app.State, item *event.LPDeposit, txHash string, tx *sqlx.Tx) error {
	at, err := ParseEventTimestamp(item.At)
	if err != nil {
		return err
	}
	protocol := ProtocolRef(s, item.To)

	height, err := strconv.ParseInt(item.Height, 10, 64)
	if err != nil {
		return err
	}
	amntStable, err := s.InStableByDate(ctx, item.DepositSymbol, item.DepositAmount, protocol, at)
	if err != nil {
		return err
	}
	amntAsset, err := decimal.NewFromString(item.DepositAmount)
	if err != nil {
		return err
	}
	receipts, err := decimal.NewFromString(item.Receipts)
	if err != nil {
		return err
	}

	row := &model.LPDeposit{
		TxHash:       txHash,
		Height:       height,
		AddressID:    item.From,
		Timestamp:    at,
		PoolID:       item.To,
		AmntStable:   amntStable,
		AmntAsset:    amntAsset,
		AmntReceipts: receipts,
	}
	return s.DB.LPDeposit.InsertIfNotExists(ctx, tx, row)
}

// HandleLPWithdraw records a liquidity-provider withdrawal. The pool is
// the withdrawal's source address.
func HandleLPWithdraw(ctx context.Context, s *app.State, item *event.LPWithdraw, txHash string, tx *sqlx.Tx) error {
	at, err := ParseEventTimestamp(item.At)
	if err != nil {
		return err
	}
	protocol := ProtocolRef(s, item.From)

	height, err := strconv.ParseInt(item.Height, 10, 64)
	if err != nil {
		return err
	}
	depositClose, err := strconv.ParseBool(item.Close)
	if err != nil {
		return err
	}
	amntStable, err := s.InStableByDate(ctx, item.WithdrawSymbol, item.WithdrawAmount, protocol, at)
	if err != nil {
		return err
	}
	amntAsset, err := decimal.NewFromString(item.WithdrawAmount)
	if err != nil {
		return err
	}
	receipts, err := decimal.NewFromString(item.Receipts)
	if err != nil {
		return err
	}

	row := &model.LPWithdraw{
		TxHash:       txHash,
		Height:       height,
		AddressID:    item.To,
		Timestamp:    at,
		PoolID:       item.From,
		AmntStable:   amntStable,
		AmntAsset:    amntAsset,
		AmntReceipts: receipts,
		DepositClose: depositClose,
	}
	return s.DB.LPWithdraw.InsertIfNotExists(ctx, tx, row)
}
