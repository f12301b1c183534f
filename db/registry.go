// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type PoolConfigRepo struct {
	db *sqlx.DB
}

// Upsert refreshes one pool's configuration snapshot.
func (r *PoolConfigRepo) Upsert(ctx context.Context, m *model.PoolConfig) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "pool_config" ("pool_id", "position_type", "lpn_symbol", "lpn_decimals", "is_active", "updated_at")
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT ("pool_id") DO UPDATE SET
			"position_type" = EXCLUDED."position_type",
			"lpn_symbol" = EXCLUDED."lpn_symbol",
			"lpn_decimals" = EXCLUDED."lpn_decimals",
			"is_active" = EXCLUDED."is_active",
			"updated_at" = NOW()`,
		m.PoolID, m.PositionType, m.LpnSymbol, m.LpnDecimals, m.IsActive)
	return err
}

// GetByPoolID resolves one pool's configuration; (nil, nil) when unknown.
func (r *PoolConfigRepo) GetByPoolID(ctx context.Context, poolID string) (*model.PoolConfig, error) {
	var m model.PoolConfig
	err := r.db.GetContext(ctx, &m,
		`SELECT * FROM "pool_config" WHERE "pool_id" = $1`, poolID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type ProtocolRegistryRepo struct {
	db *sqlx.DB
}

// UpsertActive records a protocol the admin contract currently exposes,
// reactivating it if it was deprecated before.
func (r *ProtocolRegistryRepo) UpsertActive(ctx context.Context, m *model.ProtocolRegistry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "protocol_registry" (
			"protocol_name", "network", "dex", "leaser_contract", "lpp_contract",
			"oracle_contract", "profit_contract", "reserve_contract",
			"lpn_symbol", "position_type", "is_active", "first_seen_at"
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW())
		ON CONFLICT ("protocol_name") DO UPDATE SET
			"network" = EXCLUDED."network",
			"dex" = COALESCE(EXCLUDED."dex", "protocol_registry"."dex"),
			"leaser_contract" = EXCLUDED."leaser_contract",
			"lpp_contract" = EXCLUDED."lpp_contract",
			"oracle_contract" = EXCLUDED."oracle_contract",
			"profit_contract" = EXCLUDED."profit_contract",
			"reserve_contract" = EXCLUDED."reserve_contract",
			"lpn_symbol" = EXCLUDED."lpn_symbol",
			"position_type" = EXCLUDED."position_type",
			"is_active" = TRUE,
			"deprecated_at" = NULL`,
		m.ProtocolName, m.Network, m.Dex, m.LeaserContract, m.LppContract,
		m.OracleContract, m.ProfitContract, m.ReserveContract,
		m.LpnSymbol, m.PositionType)
	return err
}

// MarkDeprecatedExcept deprecates every active protocol not in the list.
func (r *ProtocolRegistryRepo) MarkDeprecatedExcept(ctx context.Context, activeNames []string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE "protocol_registry"
		SET "is_active" = FALSE, "deprecated_at" = NOW()
		WHERE "protocol_name" != ALL($1) AND "is_active" = TRUE`,
		pq.Array(activeNames))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetByLppContract resolves a protocol by its pool contract.
func (r *ProtocolRegistryRepo) GetByLppContract(ctx context.Context, lpp string) (*model.ProtocolRegistry, error) {
	var m model.ProtocolRegistry
	err := r.db.GetContext(ctx, &m,
		`SELECT * FROM "protocol_registry" WHERE "lpp_contract" = $1`, lpp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetActive lists active protocols ordered by name.
func (r *ProtocolRegistryRepo) GetActive(ctx context.Context) ([]model.ProtocolRegistry, error) {
	var out []model.ProtocolRegistry
	err := r.db.SelectContext(ctx, &out, `
		SELECT * FROM "protocol_registry"
		WHERE "is_active" = TRUE ORDER BY "protocol_name"`)
	return out, err
}

type CurrencyRegistryRepo struct {
	db *sqlx.DB
}

// UpsertActive records a supported currency, reactivating it if needed.
func (r *CurrencyRegistryRepo) UpsertActive(ctx context.Context, m *model.CurrencyRegistry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "currency_registry" ("ticker", "decimals", "bank_denom", "is_active")
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT ("ticker") DO UPDATE SET
			"decimals" = EXCLUDED."decimals",
			"bank_denom" = EXCLUDED."bank_denom",
			"is_active" = TRUE,
			"deprecated_at" = NULL`,
		m.Ticker, m.Decimals, m.BankDenom)
	return err
}

// MarkDeprecatedExcept deprecates every active currency not in the list.
func (r *CurrencyRegistryRepo) MarkDeprecatedExcept(ctx context.Context, activeTickers []string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE "currency_registry"
		SET "is_active" = FALSE, "deprecated_at" = NOW()
		WHERE "ticker" != ALL($1) AND "is_active" = TRUE`,
		pq.Array(activeTickers))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type CurrencyProtocolRepo struct {
	db *sqlx.DB
}

// Upsert links a currency to a protocol.
func (r *CurrencyProtocolRepo) Upsert(ctx context.Context, m *model.CurrencyProtocol) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "currency_protocol" ("ticker", "protocol")
		VALUES ($1, $2)
		ON CONFLICT ("ticker", "protocol") DO NOTHING`,
		m.Ticker, m.Protocol)
	return err
}
