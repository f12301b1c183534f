// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type LSOpeningRepo struct {
	db *sqlx.DB
}

// InsertIfNotExists writes the lease-opening row; a contract that was
// already recorded is left untouched.
func (r *LSOpeningRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSOpening) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LS_Opening" (
			"Tx_Hash", "LS_contract_id", "LS_address_id", "LS_asset_symbol",
			"LS_interest", "LS_timestamp", "LS_loan_pool_id", "LS_loan_amnt",
			"LS_loan_amnt_stable", "LS_loan_amnt_asset", "LS_cltr_symbol",
			"LS_cltr_amnt_stable", "LS_cltr_amnt_asset", "LS_native_amnt_stable",
			"LS_native_amnt_nolus", "LS_lpn_loan_amnt", "LS_position_type",
			"LS_lpn_symbol", "LS_lpn_decimals", "LS_opening_price",
			"LS_liquidation_price_at_open"
		) VALUES (
			:Tx_Hash, :LS_contract_id, :LS_address_id, :LS_asset_symbol,
			:LS_interest, :LS_timestamp, :LS_loan_pool_id, :LS_loan_amnt,
			:LS_loan_amnt_stable, :LS_loan_amnt_asset, :LS_cltr_symbol,
			:LS_cltr_amnt_stable, :LS_cltr_amnt_asset, :LS_native_amnt_stable,
			:LS_native_amnt_nolus, :LS_lpn_loan_amnt, :LS_position_type,
			:LS_lpn_symbol, :LS_lpn_decimals, :LS_opening_price,
			:LS_liquidation_price_at_open
		) ON CONFLICT ("LS_contract_id") DO NOTHING`, m)
	return err
}

// Get resolves one lease by contract id; missing leases yield (nil, nil).
func (r *LSOpeningRepo) Get(ctx context.Context, contract string) (*model.LSOpening, error) {
	var m model.LSOpening
	err := r.db.GetContext(ctx, &m,
		`SELECT * FROM "LS_Opening" WHERE "LS_contract_id" = $1`, contract)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ActiveLeases lists leases without a closing row; the lease-state
// snapshot iterates them.
func (r *LSOpeningRepo) ActiveLeases(ctx context.Context) ([]model.LSOpening, error) {
	var out []model.LSOpening
	err := r.db.SelectContext(ctx, &out, `
		SELECT a.* FROM "LS_Opening" AS a
		LEFT JOIN "LS_Closing" AS b ON a."LS_contract_id" = b."LS_contract_id"
		WHERE b."LS_contract_id" IS NULL`)
	return out, err
}

// Count counts openings in the half-open window (from, to].
func (r *LSOpeningRepo) Count(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM "LS_Opening"
		WHERE "LS_timestamp" > $1 AND "LS_timestamp" <= $2`, from, to)
	return n, err
}

// SumCltrOpenedStable sums the downpayments of openings in (from, to].
func (r *LSOpeningRepo) SumCltrOpenedStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, `
		SELECT COALESCE(SUM("LS_cltr_amnt_stable"), 0) FROM "LS_Opening"
		WHERE "LS_timestamp" > $1 AND "LS_timestamp" <= $2`, from, to)
}

// SumLoanStable sums the loans of openings in (from, to].
func (r *LSOpeningRepo) SumLoanStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, `
		SELECT COALESCE(SUM("LS_loan_amnt_stable"), 0) FROM "LS_Opening"
		WHERE "LS_timestamp" > $1 AND "LS_timestamp" <= $2`, from, to)
}

// SumCltrClosedStable sums downpayments of leases whose closing landed in
// (from, to].
func (r *LSOpeningRepo) SumCltrClosedStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, `
		SELECT COALESCE(SUM("LS_Opening"."LS_cltr_amnt_stable"), 0)
		FROM "LS_Opening"
		LEFT JOIN "LS_Closing" ON "LS_Opening"."LS_contract_id" = "LS_Closing"."LS_contract_id"
		WHERE "LS_Closing"."LS_timestamp" > $1 AND "LS_Closing"."LS_timestamp" <= $2`, from, to)
}

// SumClosedStable sums loan+downpayment of leases whose closing landed in
// (from, to].
func (r *LSOpeningRepo) SumClosedStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, `
		SELECT COALESCE(SUM("LS_Opening"."LS_loan_amnt_stable" + "LS_Opening"."LS_cltr_amnt_stable"), 0)
		FROM "LS_Opening"
		LEFT JOIN "LS_Closing" ON "LS_Opening"."LS_contract_id" = "LS_Closing"."LS_contract_id"
		WHERE "LS_Closing"."LS_timestamp" > $1 AND "LS_Closing"."LS_timestamp" <= $2`, from, to)
}

func (r *LSOpeningRepo) sum(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, query, args...)
	return d, err
}
