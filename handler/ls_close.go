// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/event"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// HandleLeaseClose records a borrower-driven full close.
func HandleLeaseClose(ctx context.Context, s *app.State, item *event.LeaseClose, txHash string, tx *sqlx.Tx) error {
	at, err := ParseEventTimestamp(item.At)
	if err != nil {
		return err
	}
	row := &model.LSClosing{
		TxHash:     txHash,
		ContractID: item.ID,
		Timestamp:  at,
	}
	return s.DB.LSClosing.InsertIfNotExists(ctx, tx, row)
}
