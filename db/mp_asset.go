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

// ErrNoPrice is returned when no oracle observation matches a lookup.
var ErrNoPrice = errors.New("no price for symbol")

type MPAssetRepo struct {
	db *sqlx.DB
}

// Insert appends one observation.
func (r *MPAssetRepo) Insert(ctx context.Context, m *model.MPAsset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "MP_Asset" ("MP_asset_symbol", "MP_asset_timestamp", "MP_price_in_stable", "Protocol")
		VALUES ($1, $2, $3, $4)`,
		m.Symbol, m.Timestamp, m.PriceInStable, m.Protocol)
	return err
}

// InsertMany appends a batch of observations atomically.
func (r *MPAssetRepo) InsertMany(ctx context.Context, items []model.MPAsset) error {
	if len(items) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO "MP_Asset" ("MP_asset_symbol", "MP_asset_timestamp", "MP_price_in_stable", "Protocol")
		VALUES (:MP_asset_symbol, :MP_asset_timestamp, :MP_price_in_stable, :Protocol)`,
		items)
	return err
}

// GetPrice returns the latest price of a symbol, optionally pinned to one
// protocol.
func (r *MPAssetRepo) GetPrice(ctx context.Context, symbol string, protocol *string) (decimal.Decimal, error) {
	var price decimal.Decimal
	var err error
	if protocol != nil {
		err = r.db.GetContext(ctx, &price, `
			SELECT "MP_price_in_stable" FROM "MP_Asset"
			WHERE "MP_asset_symbol" = $1 AND "Protocol" = $2
			ORDER BY "MP_asset_timestamp" DESC LIMIT 1`, symbol, *protocol)
	} else {
		err = r.db.GetContext(ctx, &price, `
			SELECT "MP_price_in_stable" FROM "MP_Asset"
			WHERE "MP_asset_symbol" = $1
			ORDER BY "MP_asset_timestamp" DESC LIMIT 1`, symbol)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Decimal{}, ErrNoPrice
	}
	return price, err
}

// GetPriceByDate returns the first observation at or after the given
// moment for (symbol, protocol). With no such row it falls back to the
// latest price of the symbol across all protocols.
func (r *MPAssetRepo) GetPriceByDate(ctx context.Context, symbol string, protocol *string, at time.Time) (decimal.Decimal, error) {
	var price decimal.Decimal
	var err error
	if protocol != nil {
		err = r.db.GetContext(ctx, &price, `
			SELECT "MP_price_in_stable" FROM "MP_Asset"
			WHERE "MP_asset_symbol" = $1 AND "Protocol" = $2 AND "MP_asset_timestamp" >= $3
			ORDER BY "MP_asset_timestamp" ASC LIMIT 1`, symbol, *protocol, at)
	} else {
		err = r.db.GetContext(ctx, &price, `
			SELECT "MP_price_in_stable" FROM "MP_Asset"
			WHERE "MP_asset_symbol" = $1 AND "MP_asset_timestamp" >= $2
			ORDER BY "MP_asset_timestamp" ASC LIMIT 1`, symbol, at)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return r.GetPrice(ctx, symbol, nil)
	}
	return price, err
}
