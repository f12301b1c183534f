// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type LSClosePositionRepo struct {
	db *sqlx.DB
}

func (r *LSClosePositionRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSClosePosition) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LS_Close_Position" (
			"Tx_Hash", "LS_position_height", "LS_contract_id", "LS_change",
			"LS_amnt_symbol", "LS_amnt", "LS_amnt_stable",
			"LS_payment_symbol", "LS_payment_amnt", "LS_payment_amnt_stable",
			"LS_timestamp", "LS_loan_close", "LS_prev_margin_stable",
			"LS_prev_interest_stable", "LS_current_margin_stable",
			"LS_current_interest_stable", "LS_principal_stable"
		) VALUES (
			:Tx_Hash, :LS_position_height, :LS_contract_id, :LS_change,
			:LS_amnt_symbol, :LS_amnt, :LS_amnt_stable,
			:LS_payment_symbol, :LS_payment_amnt, :LS_payment_amnt_stable,
			:LS_timestamp, :LS_loan_close, :LS_prev_margin_stable,
			:LS_prev_interest_stable, :LS_current_margin_stable,
			:LS_current_interest_stable, :LS_principal_stable
		) ON CONFLICT ("LS_position_height", "LS_contract_id", "LS_timestamp") DO NOTHING`, m)
	return err
}
