// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package db is the PostgreSQL access layer. Fact tables use idempotent
// inserts keyed by their natural key, reference tables upsert, and every
// windowed aggregate reads a half-open (from, to] interval.
package db

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/nolus-protocol/extract-transform-load-sub000/config"
)

// DB bundles the connection pool with one repository per table.
type DB struct {
	pool *sqlx.DB

	Block                 *BlockRepo
	RawMessage            *RawMessageRepo
	MPAsset               *MPAssetRepo
	LSOpening             *LSOpeningRepo
	LSClosing             *LSClosingRepo
	LSRepayment           *LSRepaymentRepo
	LSClosePosition       *LSClosePositionRepo
	LSLiquidation         *LSLiquidationRepo
	LSLiquidationWarning  *LSLiquidationWarningRepo
	LSSlippageAnomaly     *LSSlippageAnomalyRepo
	LSAutoClosePosition   *LSAutoClosePositionRepo
	ReserveCoverLoss      *ReserveCoverLossRepo
	LSLoanClosing         *LSLoanClosingRepo
	LSLoanCollect         *LSLoanCollectRepo
	LPDeposit             *LPDepositRepo
	LPWithdraw            *LPWithdrawRepo
	LPPool                *LPPoolRepo
	LSState               *LSStateRepo
	LPLenderState         *LPLenderStateRepo
	LPPoolState           *LPPoolStateRepo
	TRProfit              *TRProfitRepo
	TRRewardsDistribution *TRRewardsDistributionRepo
	TRState               *TRStateRepo
	PLState               *PLStateRepo
	ActionHistory         *ActionHistoryRepo
	PoolConfig            *PoolConfigRepo
	ProtocolRegistry      *ProtocolRegistryRepo
	CurrencyRegistry      *CurrencyRegistryRepo
	CurrencyProtocol      *CurrencyProtocolRepo
}

// Open connects the pool, applies the environment's capacity and timeout
// knobs and runs pending migrations.
func Open(ctx context.Context, cfg *config.Config) (*DB, error) {
	dsn, err := withStatementTimeout(cfg.DatabaseURL, cfg.DBStatementTimeout.Milliseconds())
	if err != nil {
		return nil, err
	}

	pool, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	pool.SetMaxOpenConns(cfg.DBMaxOpenConns)
	pool.SetMaxIdleConns(cfg.DBMaxIdleConns)
	pool.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	if err := Migrate(cfg.DatabaseURL); err != nil {
		pool.Close()
		return nil, err
	}

	db := &DB{pool: pool}
	db.Block = &BlockRepo{pool}
	db.RawMessage = &RawMessageRepo{pool}
	db.MPAsset = &MPAssetRepo{pool}
	db.LSOpening = &LSOpeningRepo{pool}
	db.LSClosing = &LSClosingRepo{pool}
	db.LSRepayment = &LSRepaymentRepo{pool}
	db.LSClosePosition = &LSClosePositionRepo{pool}
	db.LSLiquidation = &LSLiquidationRepo{pool}
	db.LSLiquidationWarning = &LSLiquidationWarningRepo{pool}
	db.LSSlippageAnomaly = &LSSlippageAnomalyRepo{pool}
	db.LSAutoClosePosition = &LSAutoClosePositionRepo{pool}
	db.ReserveCoverLoss = &ReserveCoverLossRepo{pool}
	db.LSLoanClosing = &LSLoanClosingRepo{pool}
	db.LSLoanCollect = &LSLoanCollectRepo{pool}
	db.LPDeposit = &LPDepositRepo{pool}
	db.LPWithdraw = &LPWithdrawRepo{pool}
	db.LPPool = &LPPoolRepo{pool}
	db.LSState = &LSStateRepo{pool}
	db.LPLenderState = &LPLenderStateRepo{pool}
	db.LPPoolState = &LPPoolStateRepo{pool}
	db.TRProfit = &TRProfitRepo{pool}
	db.TRRewardsDistribution = &TRRewardsDistributionRepo{pool}
	db.TRState = &TRStateRepo{pool}
	db.PLState = &PLStateRepo{pool}
	db.ActionHistory = &ActionHistoryRepo{pool}
	db.PoolConfig = &PoolConfigRepo{pool}
	db.ProtocolRegistry = &ProtocolRegistryRepo{pool}
	db.CurrencyRegistry = &CurrencyRegistryRepo{pool}
	db.CurrencyProtocol = &CurrencyProtocolRepo{pool}
	return db, nil
}

// Close releases the pool.
func (db *DB) Close() error {
	return db.pool.Close()
}

// Begin opens a transaction; the caller owns commit/rollback.
func (db *DB) Begin(ctx context.Context) (*sqlx.Tx, error) {
	return db.pool.BeginTxx(ctx, nil)
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.pool.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// withStatementTimeout forces a server-side statement timeout into the
// connection URL unless one is already set.
func withStatementTimeout(dsn string, millis int64) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	q := u.Query()
	if q.Get("statement_timeout") == "" {
		q.Set("statement_timeout", strconv.FormatInt(millis, 10))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
