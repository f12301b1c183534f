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

type LSStateRepo struct {
	db *sqlx.DB
}

// InsertMany writes one aggregation run's lease snapshots as a single
// batch.
func (r *LSStateRepo) InsertMany(ctx context.Context, items []model.LSState) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO "LS_State" (
			"LS_contract_id", "LS_timestamp", "LS_amnt", "LS_amnt_stable",
			"LS_prev_margin_stable", "LS_prev_interest_stable",
			"LS_current_margin_stable", "LS_current_interest_stable",
			"LS_principal_stable"
		) VALUES (
			:LS_contract_id, :LS_timestamp, :LS_amnt, :LS_amnt_stable,
			:LS_prev_margin_stable, :LS_prev_interest_stable,
			:LS_current_margin_stable, :LS_current_interest_stable,
			:LS_principal_stable
		) ON CONFLICT ("LS_contract_id", "LS_timestamp") DO NOTHING`, items)
	return err
}

// CountAt counts lease snapshots stamped exactly at ts.
func (r *LSStateRepo) CountAt(ctx context.Context, ts time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM "LS_State" WHERE "LS_timestamp" = $1`, ts)
	return n, err
}

type LPLenderStateRepo struct {
	db *sqlx.DB
}

func (r *LPLenderStateRepo) InsertMany(ctx context.Context, items []model.LPLenderState) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO "LP_Lender_State" (
			"LP_Lender_id", "LP_Pool_id", "LP_timestamp",
			"LP_Lender_stable", "LP_Lender_asset", "LP_Lender_receipts"
		) VALUES (
			:LP_Lender_id, :LP_Pool_id, :LP_timestamp,
			:LP_Lender_stable, :LP_Lender_asset, :LP_Lender_receipts
		) ON CONFLICT ("LP_Lender_id", "LP_Pool_id", "LP_timestamp") DO NOTHING`, items)
	return err
}

// CountAt counts lender snapshots stamped exactly at ts.
func (r *LPLenderStateRepo) CountAt(ctx context.Context, ts time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM "LP_Lender_State" WHERE "LP_timestamp" = $1`, ts)
	return n, err
}

type LPPoolStateRepo struct {
	db *sqlx.DB
}

func (r *LPPoolStateRepo) InsertMany(ctx context.Context, items []model.LPPoolState) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO "LP_Pool_State" (
			"LP_Pool_id", "LP_Pool_timestamp",
			"LP_Pool_total_value_locked_stable", "LP_Pool_total_value_locked_asset",
			"LP_Pool_total_issued_receipts", "LP_Pool_total_borrowed_stable",
			"LP_Pool_total_borrowed_asset", "LP_Pool_total_yield_stable",
			"LP_Pool_total_yield_asset", "LP_Pool_min_utilization_threshold"
		) VALUES (
			:LP_Pool_id, :LP_Pool_timestamp,
			:LP_Pool_total_value_locked_stable, :LP_Pool_total_value_locked_asset,
			:LP_Pool_total_issued_receipts, :LP_Pool_total_borrowed_stable,
			:LP_Pool_total_borrowed_asset, :LP_Pool_total_yield_stable,
			:LP_Pool_total_yield_asset, :LP_Pool_min_utilization_threshold
		) ON CONFLICT ("LP_Pool_id", "LP_Pool_timestamp") DO NOTHING`, items)
	return err
}

// PoolTotals are the TVL aggregates of one snapshot timestamp.
type PoolTotals struct {
	TVLStable      decimal.Decimal `db:"tvl_stable"`
	BorrowedStable decimal.Decimal `db:"borrowed_stable"`
	YieldStable    decimal.Decimal `db:"yield_stable"`
}

// TotalsAt sums pool snapshots stamped exactly at ts.
func (r *LPPoolStateRepo) TotalsAt(ctx context.Context, ts time.Time) (PoolTotals, error) {
	var out PoolTotals
	err := r.db.GetContext(ctx, &out, `
		SELECT
			COALESCE(SUM("LP_Pool_total_value_locked_stable"), 0) AS tvl_stable,
			COALESCE(SUM("LP_Pool_total_borrowed_stable"), 0)     AS borrowed_stable,
			COALESCE(SUM("LP_Pool_total_yield_stable"), 0)        AS yield_stable
		FROM "LP_Pool_State" WHERE "LP_Pool_timestamp" = $1`, ts)
	return out, err
}

// LatestTVL returns the TVL sum of the most recent snapshot run; ok is
// false before the first run.
func (r *LPPoolStateRepo) LatestTVL(ctx context.Context) (decimal.Decimal, bool, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, `
		SELECT COALESCE(SUM("LP_Pool_total_value_locked_stable"), 0)
		FROM "LP_Pool_State"
		WHERE "LP_Pool_timestamp" = (
			SELECT MAX("LP_Pool_timestamp") FROM "LP_Pool_State")`)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, false, nil
	}
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	return d, true, nil
}

type TRStateRepo struct {
	db *sqlx.DB
}

func (r *TRStateRepo) InsertMany(ctx context.Context, items []model.TRState) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO "TR_State" ("TR_timestamp", "TR_amnt_stable", "TR_amnt_nls")
		VALUES (:TR_timestamp, :TR_amnt_stable, :TR_amnt_nls)`, items)
	return err
}

// SumStable sums treasury stable amounts in (from, to].
func (r *TRStateRepo) SumStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, `
		SELECT COALESCE(SUM("TR_amnt_stable"), 0) FROM "TR_State"
		WHERE "TR_timestamp" > $1 AND "TR_timestamp" <= $2`, from, to)
	return d, err
}

// SumNls sums treasury native amounts in (from, to].
func (r *TRStateRepo) SumNls(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, `
		SELECT COALESCE(SUM("TR_amnt_nls"), 0) FROM "TR_State"
		WHERE "TR_timestamp" > $1 AND "TR_timestamp" <= $2`, from, to)
	return d, err
}

type PLStateRepo struct {
	db *sqlx.DB
}

// Insert writes the consolidated tick row.
func (r *PLStateRepo) Insert(ctx context.Context, m *model.PLState) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO "PL_State" (
			"PL_timestamp", "PL_pools_TVL_stable", "PL_pools_borrowed_stable",
			"PL_pools_yield_stable", "PL_LS_count_open", "PL_LS_count_closed",
			"PL_LS_count_opened", "PL_IN_LS_cltr_amnt_opened_stable",
			"PL_LP_count_open", "PL_LP_count_closed", "PL_LP_count_opened",
			"PL_OUT_LS_loan_amnt_stable", "PL_IN_LS_rep_amnt_stable",
			"PL_IN_LS_rep_prev_margin_stable", "PL_IN_LS_rep_prev_interest_stable",
			"PL_IN_LS_rep_current_margin_stable", "PL_IN_LS_rep_current_interest_stable",
			"PL_IN_LS_rep_principal_stable", "PL_OUT_LS_cltr_amnt_stable",
			"PL_OUT_LS_amnt_stable", "PL_native_amnt_stable", "PL_native_amnt_nolus",
			"PL_IN_LP_amnt_stable", "PL_OUT_LP_amnt_stable",
			"PL_TR_profit_amnt_stable", "PL_TR_profit_amnt_nls",
			"PL_TR_tax_amnt_stable", "PL_TR_tax_amnt_nls",
			"PL_OUT_TR_rewards_amnt_stable", "PL_OUT_TR_rewards_amnt_nls"
		) VALUES (
			:PL_timestamp, :PL_pools_TVL_stable, :PL_pools_borrowed_stable,
			:PL_pools_yield_stable, :PL_LS_count_open, :PL_LS_count_closed,
			:PL_LS_count_opened, :PL_IN_LS_cltr_amnt_opened_stable,
			:PL_LP_count_open, :PL_LP_count_closed, :PL_LP_count_opened,
			:PL_OUT_LS_loan_amnt_stable, :PL_IN_LS_rep_amnt_stable,
			:PL_IN_LS_rep_prev_margin_stable, :PL_IN_LS_rep_prev_interest_stable,
			:PL_IN_LS_rep_current_margin_stable, :PL_IN_LS_rep_current_interest_stable,
			:PL_IN_LS_rep_principal_stable, :PL_OUT_LS_cltr_amnt_stable,
			:PL_OUT_LS_amnt_stable, :PL_native_amnt_stable, :PL_native_amnt_nolus,
			:PL_IN_LP_amnt_stable, :PL_OUT_LP_amnt_stable,
			:PL_TR_profit_amnt_stable, :PL_TR_profit_amnt_nls,
			:PL_TR_tax_amnt_stable, :PL_TR_tax_amnt_nls,
			:PL_OUT_TR_rewards_amnt_stable, :PL_OUT_TR_rewards_amnt_nls
		) ON CONFLICT ("PL_timestamp") DO NOTHING`, m)
	return err
}
