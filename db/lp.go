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

type LPDepositRepo struct {
	db *sqlx.DB
}

func (r *LPDepositRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LPDeposit) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LP_Deposit" (
			"Tx_Hash", "LP_deposit_height", "LP_address_id", "LP_timestamp",
			"LP_Pool_id", "LP_amnt_stable", "LP_amnt_asset", "LP_amnt_receipts"
		) VALUES (
			:Tx_Hash, :LP_deposit_height, :LP_address_id, :LP_timestamp,
			:LP_Pool_id, :LP_amnt_stable, :LP_amnt_asset, :LP_amnt_receipts
		) ON CONFLICT ("LP_deposit_height", "LP_address_id", "LP_timestamp", "LP_Pool_id") DO NOTHING`, m)
	return err
}

// Count counts deposits in (from, to].
func (r *LPDepositRepo) Count(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM "LP_Deposit"
		WHERE "LP_timestamp" > $1 AND "LP_timestamp" <= $2`, from, to)
	return n, err
}

// SumStable sums deposit stable amounts in (from, to].
func (r *LPDepositRepo) SumStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, `
		SELECT COALESCE(SUM("LP_amnt_stable"), 0) FROM "LP_Deposit"
		WHERE "LP_timestamp" > $1 AND "LP_timestamp" <= $2`, from, to)
	return d, err
}

// Lender is one open (address, pool) pair the lender-state snapshot
// visits.
type Lender struct {
	AddressID string `db:"LP_address_id"`
	PoolID    string `db:"LP_Pool_id"`
}

// ActiveLenders lists the (address, pool) pairs with a deposit after
// their latest closing withdraw.
func (r *LPDepositRepo) ActiveLenders(ctx context.Context) ([]Lender, error) {
	var out []Lender
	err := r.db.SelectContext(ctx, &out, `
		SELECT DISTINCT a."LP_address_id", a."LP_Pool_id"
		FROM "LP_Deposit" AS a
		WHERE a."LP_timestamp" > COALESCE((
			SELECT b."LP_timestamp" FROM "LP_Withdraw" AS b
			WHERE b."LP_deposit_close" = TRUE
				AND b."LP_address_id" = a."LP_address_id"
				AND b."LP_Pool_id" = a."LP_Pool_id"
			ORDER BY b."LP_timestamp" DESC LIMIT 1
		), 'epoch'::timestamptz)`)
	return out, err
}

type LPWithdrawRepo struct {
	db *sqlx.DB
}

func (r *LPWithdrawRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LPWithdraw) error {
	_, err := tx.NamedExecContext(ctx, `
		INSERT INTO "LP_Withdraw" (
			"Tx_Hash", "LP_withdraw_height", "LP_address_id", "LP_timestamp",
			"LP_Pool_id", "LP_amnt_stable", "LP_amnt_asset", "LP_amnt_receipts",
			"LP_deposit_close"
		) VALUES (
			:Tx_Hash, :LP_withdraw_height, :LP_address_id, :LP_timestamp,
			:LP_Pool_id, :LP_amnt_stable, :LP_amnt_asset, :LP_amnt_receipts,
			:LP_deposit_close
		) ON CONFLICT ("LP_withdraw_height", "LP_address_id", "LP_timestamp", "LP_Pool_id") DO NOTHING`, m)
	return err
}

// CountClosed counts closing withdraws in (from, to].
func (r *LPWithdrawRepo) CountClosed(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM "LP_Withdraw"
		WHERE "LP_deposit_close" = TRUE AND "LP_timestamp" > $1 AND "LP_timestamp" <= $2`, from, to)
	return n, err
}

// SumStable sums withdraw stable amounts in (from, to].
func (r *LPWithdrawRepo) SumStable(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.GetContext(ctx, &d, `
		SELECT COALESCE(SUM("LP_amnt_stable"), 0) FROM "LP_Withdraw"
		WHERE "LP_timestamp" > $1 AND "LP_timestamp" <= $2`, from, to)
	return d, err
}

type LPPoolRepo struct {
	db *sqlx.DB
}

// Upsert refreshes the pool reference row.
func (r *LPPoolRepo) Upsert(ctx context.Context, m *model.LPPool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "LP_Pool" ("LP_Pool_id", "LP_symbol", "LP_status")
		VALUES ($1, $2, $3)
		ON CONFLICT ("LP_Pool_id") DO UPDATE SET
			"LP_symbol" = EXCLUDED."LP_symbol",
			"LP_status" = EXCLUDED."LP_status"`,
		m.PoolID, m.Symbol, m.Status)
	return err
}

// GetAll lists every configured pool.
func (r *LPPoolRepo) GetAll(ctx context.Context) ([]model.LPPool, error) {
	var out []model.LPPool
	err := r.db.SelectContext(ctx, &out, `SELECT * FROM "LP_Pool"`)
	return out, err
}
