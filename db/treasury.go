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

type TRProfitRepo struct {
	db *sqlx.DB
}

func (r *TRProfitRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.TRProfit) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "TR_Profit" (
			"Tx_Hash", "TR_Profit_height", "TR_Profit_timestamp",
			"TR_Profit_amnt_stable", "TR_Profit_amnt_nls"
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ("TR_Profit_height", "TR_Profit_timestamp") DO NOTHING`,
		m.TxHash, m.Height, m.Timestamp, m.AmntStable, m.AmntNls)
	return err
}

// ProfitSums are the windowed profit aggregates feeding PL_State.
type ProfitSums struct {
	Stable decimal.Decimal `db:"stable"`
	Nls    decimal.Decimal `db:"nls"`
}

// SumWindow sums profit amounts in (from, to].
func (r *TRProfitRepo) SumWindow(ctx context.Context, from, to time.Time) (ProfitSums, error) {
	var out ProfitSums
	err := r.db.GetContext(ctx, &out, `
		SELECT
			COALESCE(SUM("TR_Profit_amnt_stable"), 0) AS stable,
			COALESCE(SUM("TR_Profit_amnt_nls"), 0)    AS nls
		FROM "TR_Profit"
		WHERE "TR_Profit_timestamp" > $1 AND "TR_Profit_timestamp" <= $2`, from, to)
	return out, err
}

type TRRewardsDistributionRepo struct {
	db *sqlx.DB
}

func (r *TRRewardsDistributionRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.TRRewardsDistribution) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "TR_Rewards_Distribution" (
			"Tx_Hash", "TR_Rewards_height", "TR_Rewards_Pool_id",
			"TR_Rewards_timestamp", "TR_Rewards_amnt_stable",
			"TR_Rewards_amnt_nls", "Event_Block_Index"
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ("TR_Rewards_height", "TR_Rewards_Pool_id", "Event_Block_Index") DO NOTHING`,
		m.TxHash, m.Height, m.PoolID, m.Timestamp,
		m.AmntStable, m.AmntNls, m.EventBlockIndex)
	return err
}

// SumStable sums distributed rewards in (from, to].
func (r *TRRewardsDistributionRepo) SumStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, `
		SELECT COALESCE(SUM("TR_Rewards_amnt_stable"), 0) FROM "TR_Rewards_Distribution"
		WHERE "TR_Rewards_timestamp" > $1 AND "TR_Rewards_timestamp" <= $2`, from, to)
	return d, err
}

// SumNls sums distributed native rewards in (from, to].
func (r *TRRewardsDistributionRepo) SumNls(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, `
		SELECT COALESCE(SUM("TR_Rewards_amnt_nls"), 0) FROM "TR_Rewards_Distribution"
		WHERE "TR_Rewards_timestamp" > $1 AND "TR_Rewards_timestamp" <= $2`, from, to)
	return d, err
}
