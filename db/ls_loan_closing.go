// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type LSLoanClosingRepo struct {
	db *sqlx.DB
}

// InsertIfNotExists writes the close record inside the block transaction.
// It reports whether a row was actually inserted so the caller can run the
// collect snapshot exactly once per contract.
func (r *LSLoanClosingRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSLoanClosing) (bool, error) {
	res, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LS_Loan_Closing" (
			"LS_contract_id", "LS_amnt", "LS_amnt_stable", "LS_pnl",
			"LS_timestamp", "Type", "Block", "Active"
		) VALUES (
			:LS_contract_id, :LS_amnt, :LS_amnt_stable, :LS_pnl,
			:LS_timestamp, :Type, :Block, :Active
		) ON CONFLICT ("LS_contract_id") DO NOTHING`, m)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Update completes a stub row once the post-sync pass recomputed it.
func (r *LSLoanClosingRepo) Update(ctx context.Context, m *model.LSLoanClosing) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE "LS_Loan_Closing" SET
			"LS_amnt" = :LS_amnt,
			"LS_amnt_stable" = :LS_amnt_stable,
			"LS_pnl" = :LS_pnl,
			"LS_timestamp" = :LS_timestamp,
			"Type" = :Type,
			"Block" = :Block,
			"Active" = :Active
		WHERE "LS_contract_id" = :LS_contract_id`, m)
	return err
}

// LeasesToProceed lists the stub rows the post-sync pass has to fill in.
func (r *LSLoanClosingRepo) LeasesToProceed(ctx context.Context) ([]model.LSLoanClosing, error) {
	var out []model.LSLoanClosing
	err := r.db.SelectContext(ctx, &out,
		`SELECT * FROM "LS_Loan_Closing" WHERE "Active" = FALSE`)
	return out, err
}

type LSLoanCollectRepo struct {
	db *sqlx.DB
}

// InsertMany bulk-writes the residual balance snapshot.
func (r *LSLoanCollectRepo) InsertMany(ctx context.Context, items []model.LSLoanCollect) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO "LS_Loan_Collect" (
			"LS_contract_id", "LS_symbol", "LS_amount", "LS_amount_stable"
		) VALUES (
			:LS_contract_id, :LS_symbol, :LS_amount, :LS_amount_stable
		) ON CONFLICT ("LS_contract_id", "LS_symbol") DO NOTHING`, items)
	return err
}

// InsertManyTx is InsertMany inside an open transaction.
func (r *LSLoanCollectRepo) InsertManyTx(ctx context.Context, tx *sqlx.Tx, items []model.LSLoanCollect) error {
	if len(items) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LS_Loan_Collect" (
			"LS_contract_id", "LS_symbol", "LS_amount", "LS_amount_stable"
		) VALUES (
			:LS_contract_id, :LS_symbol, :LS_amount, :LS_amount_stable
		) ON CONFLICT ("LS_contract_id", "LS_symbol") DO NOTHING`, items)
	return err
}
