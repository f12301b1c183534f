// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type LSLiquidationRepo struct {
	db *sqlx.DB
}

func (r *LSLiquidationRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSLiquidation) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LS_Liquidation" (
			"Tx_Hash", "LS_liquidation_height", "LS_contract_id",
			"LS_amnt_symbol", "LS_amnt", "LS_amnt_stable",
			"LS_payment_symbol", "LS_payment_amnt", "LS_payment_amnt_stable",
			"LS_timestamp", "LS_transaction_type", "LS_loan_close",
			"LS_prev_margin_stable", "LS_prev_interest_stable",
			"LS_current_margin_stable", "LS_current_interest_stable",
			"LS_principal_stable"
		) VALUES (
			:Tx_Hash, :LS_liquidation_height, :LS_contract_id,
			:LS_amnt_symbol, :LS_amnt, :LS_amnt_stable,
			:LS_payment_symbol, :LS_payment_amnt, :LS_payment_amnt_stable,
			:LS_timestamp, :LS_transaction_type, :LS_loan_close,
			:LS_prev_margin_stable, :LS_prev_interest_stable,
			:LS_current_margin_stable, :LS_current_interest_stable,
			:LS_principal_stable
		) ON CONFLICT ("LS_liquidation_height", "LS_contract_id", "LS_timestamp") DO NOTHING`, m)
	return err
}
