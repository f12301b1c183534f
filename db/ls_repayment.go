// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type LSRepaymentRepo struct {
	db *sqlx.DB
}

func (r *LSRepaymentRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSRepayment) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LS_Repayment" (
			"Tx_Hash", "LS_repayment_height", "LS_contract_id",
			"LS_payment_symbol", "LS_payment_amnt", "LS_payment_amnt_stable",
			"LS_timestamp", "LS_loan_close", "LS_prev_margin_stable",
			"LS_prev_interest_stable", "LS_current_margin_stable",
			"LS_current_interest_stable", "LS_principal_stable"
		) VALUES (
			:Tx_Hash, :LS_repayment_height, :LS_contract_id,
			:LS_payment_symbol, :LS_payment_amnt, :LS_payment_amnt_stable,
			:LS_timestamp, :LS_loan_close, :LS_prev_margin_stable,
			:LS_prev_interest_stable, :LS_current_margin_stable,
			:LS_current_interest_stable, :LS_principal_stable
		) ON CONFLICT ("LS_repayment_height", "LS_contract_id", "LS_timestamp") DO NOTHING`, m)
	return err
}

// GetByContract returns every repayment of a lease, oldest first.
func (r *LSRepaymentRepo) GetByContract(ctx context.Context, contract string) ([]model.LSRepayment, error) {
	var out []model.LSRepayment
	err := r.db.SelectContext(ctx, &out, `
		SELECT * FROM "LS_Repayment"
		WHERE "LS_contract_id" = $1 ORDER BY "LS_timestamp" ASC`, contract)
	return out, err
}

// RepaymentSums are the windowed interest/principal aggregates feeding
// PL_State.
type RepaymentSums struct {
	PrevMargin      decimal.Decimal `db:"prev_margin"`
	PrevInterest    decimal.Decimal `db:"prev_interest"`
	CurrentMargin   decimal.Decimal `db:"current_margin"`
	CurrentInterest decimal.Decimal `db:"current_interest"`
	Principal       decimal.Decimal `db:"principal"`
}

// SumWindow sums the repayment components in (from, to].
func (r *LSRepaymentRepo) SumWindow(ctx context.Context, from, to time.Time) (RepaymentSums, error) {
	var out RepaymentSums
	err := r.db.GetContext(ctx, &out, `
		SELECT
			COALESCE(SUM("LS_prev_margin_stable"), 0)      AS prev_margin,
			COALESCE(SUM("LS_prev_interest_stable"), 0)    AS prev_interest,
			COALESCE(SUM("LS_current_margin_stable"), 0)   AS current_margin,
			COALESCE(SUM("LS_current_interest_stable"), 0) AS current_interest,
			COALESCE(SUM("LS_principal_stable"), 0)        AS principal
		FROM "LS_Repayment"
		WHERE "LS_timestamp" > $1 AND "LS_timestamp" <= $2`, from, to)
	return out, err
}
