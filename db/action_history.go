// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

type ActionHistoryRepo struct {
	db *sqlx.DB
}

func (r *ActionHistoryRepo) Insert(ctx context.Context, m *model.ActionHistory) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO "action_history" ("action_type", "created_at")
		VALUES ($1, $2)`, m.ActionType, m.CreatedAt)
	return err
}

// LastByType returns the newest tick of an action; (nil, nil) before the
// first one.
func (r *ActionHistoryRepo) LastByType(ctx context.Context, actionType string) (*model.ActionHistory, error) {
	var m model.ActionHistory
	err := r.db.GetContext(ctx, &m, `
		SELECT * FROM "action_history"
		WHERE "action_type" = $1 ORDER BY "created_at" DESC LIMIT 1`, actionType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LastByTypeBefore returns the newest tick strictly before ts.
func (r *ActionHistoryRepo) LastByTypeBefore(ctx context.Context, actionType string, ts time.Time) (*model.ActionHistory, error) {
	var m model.ActionHistory
	err := r.db.GetContext(ctx, &m, `
		SELECT * FROM "action_history"
		WHERE "action_type" = $1 AND "created_at" < $2
		ORDER BY "created_at" DESC LIMIT 1`, actionType, ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
