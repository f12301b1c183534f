// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// recentGapWindow bounds the incremental gap scan; older gaps are covered
// by the startup full scan.
const recentGapWindow = 100_000

type BlockRepo struct {
	db *sqlx.DB
}

// InsertTx writes the processed-height marker inside the block's
// transaction.
func (r *BlockRepo) InsertTx(ctx context.Context, tx *sqlx.Tx, height int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO "block" ("id") VALUES ($1) ON CONFLICT ("id") DO NOTHING`, height)
	return err
}

// Exists reports whether a height was fully processed.
func (r *BlockRepo) Exists(ctx context.Context, height int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM "block" WHERE "id" = $1`, height)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// First returns the lowest processed height; ok is false on an empty
// table.
func (r *BlockRepo) First(ctx context.Context) (int64, bool, error) {
	return r.edge(ctx, `SELECT "id" FROM "block" ORDER BY "id" ASC LIMIT 1`)
}

// Last returns the highest processed height; ok is false on an empty
// table.
func (r *BlockRepo) Last(ctx context.Context) (int64, bool, error) {
	return r.edge(ctx, `SELECT "id" FROM "block" ORDER BY "id" DESC LIMIT 1`)
}

func (r *BlockRepo) edge(ctx context.Context, query string) (int64, bool, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, query)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// Range is one missing-height range as the gaps window function reports
// it: (Begin, End) with End present and End-Begin > 1. Begin is a present
// row too, except for the leading range of AllMissing, where it is 0.
type Range struct {
	Begin int64 `db:"gap_begin"`
	End   int64 `db:"gap_end"`
}

// AllMissing scans the whole block table for gaps.
func (r *BlockRepo) AllMissing(ctx context.Context) ([]Range, error) {
	return r.missing(ctx, `
		WITH gaps AS (
			SELECT
				LAG("id", 1, 0) OVER (ORDER BY "id") AS gap_begin,
				"id" AS gap_end,
				"id" - LAG("id", 1, 0) OVER (ORDER BY "id") AS gap
			FROM "block"
		)
		SELECT gap_begin, gap_end FROM gaps WHERE gap > 1`)
}

// RecentMissing scans only the trailing window of the block table.
func (r *BlockRepo) RecentMissing(ctx context.Context) ([]Range, error) {
	return r.missing(ctx, `
		WITH recent AS (
			SELECT "id" FROM "block" ORDER BY "id" DESC LIMIT `+strconv.Itoa(recentGapWindow)+`
		), gaps AS (
			SELECT
				LAG("id", 1, 0) OVER (ORDER BY "id") AS gap_begin,
				"id" AS gap_end,
				"id" - LAG("id", 1, 0) OVER (ORDER BY "id") AS gap
			FROM recent
		)
		SELECT gap_begin, gap_end FROM gaps WHERE gap > 1 AND gap_begin > 0`)
}

func (r *BlockRepo) missing(ctx context.Context, query string) ([]Range, error) {
	var out []Range
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of processed heights.
func (r *BlockRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(1) FROM "block"`)
	return n, err
}
