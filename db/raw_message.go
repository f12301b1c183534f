// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type RawMessageRepo struct {
	db *sqlx.DB
}

// InsertIfNotExists persists one decoded message; (tx_hash, index)
// conflicts are benign replays and are swallowed.
func (r *RawMessageRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.RawMessage) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "raw_message" (
			"index", "from", "to", "type", "value", "tx_hash", "block",
			"fee_amount", "fee_denom", "memo", "code", "timestamp"
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT ("tx_hash", "index") DO NOTHING`,
		m.Index, m.From, m.To, m.Type, m.Value, m.TxHash, m.Block,
		m.FeeAmount, m.FeeDenom, m.Memo, m.Code, m.Timestamp)
	return err
}

// CountByBlock reports how many messages a height produced.
func (r *RawMessageRepo) CountByBlock(ctx context.Context, height int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(1) FROM "raw_message" WHERE "block" = $1`, height)
	return n, err
}
