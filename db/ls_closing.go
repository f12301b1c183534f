// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type LSClosingRepo struct {
	db *sqlx.DB
}

func (r *LSClosingRepo) InsertIfNotExists(ctx context.Context, tx *sqlx.Tx, m *model.LSClosing) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO "LS_Closing" ("Tx_Hash", "LS_contract_id", "LS_timestamp")
		VALUES ($1, $2, $3)
		ON CONFLICT ("LS_contract_id") DO NOTHING`,
		m.TxHash, m.ContractID, m.Timestamp)
	return err
}

// Count counts closings in (from, to].
func (r *LSClosingRepo) Count(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM "LS_Closing"
		WHERE "LS_timestamp" > $1 AND "LS_timestamp" <= $2`, from, to)
	return n, err
}
