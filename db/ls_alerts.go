// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type LSLiquidationWarningRepo struct {
	db *sqlx.DB
}

func (r *LSLiquidationWarningRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSLiquidationWarning) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "LS_Liquidation_Warning" (
			"Tx_Hash", "LS_contract_id", "LS_address_id", "LS_asset_symbol",
			"LS_level", "LS_ltv", "LS_timestamp"
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ("LS_contract_id", "LS_timestamp") DO NOTHING`,
		m.TxHash, m.ContractID, m.AddressID, m.AssetSymbol,
		m.Level, m.LTV, m.Timestamp)
	return err
}

type LSSlippageAnomalyRepo struct {
	db *sqlx.DB
}

func (r *LSSlippageAnomalyRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSSlippageAnomaly) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "LS_Slippage_Anomaly" (
			"Tx_Hash", "LS_contract_id", "LS_address_id", "LS_asset_symbol",
			"LS_max_slippage", "LS_timestamp"
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ("LS_contract_id", "LS_timestamp") DO NOTHING`,
		m.TxHash, m.ContractID, m.AddressID, m.AssetSymbol,
		m.MaxSlippage, m.Timestamp)
	return err
}

type LSAutoClosePositionRepo struct {
	db *sqlx.DB
}

func (r *LSAutoClosePositionRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSAutoClosePosition) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "LS_Auto_Close_Position" (
			"Tx_Hash", "LS_contract_id", "LS_take_profit_ltv",
			"LS_stop_loss_ltv", "LS_timestamp"
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ("LS_contract_id", "LS_timestamp") DO NOTHING`,
		m.TxHash, m.ContractID, m.TakeProfitLTV, m.StopLossLTV, m.Timestamp)
	return err
}

type ReserveCoverLossRepo struct {
	db *sqlx.DB
}

func (r *ReserveCoverLossRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.ReserveCoverLoss) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "Reserve_Cover_Loss" (
			"Tx_Hash", "LS_contract_id", "LS_payment_symbol",
			"LS_payment_amnt", "LS_timestamp", "Event_Block_Index"
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ("Tx_Hash", "LS_contract_id", "Event_Block_Index") DO NOTHING`,
		m.TxHash, m.ContractID, m.PaymentSymbol,
		m.PaymentAmnt, m.Timestamp, m.EventBlockIndex)
	return err
}
