// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ingest feeds blocks into the database: the live WebSocket
// pipeline, the gap-fill scheduler and the per-block processor they
// share.
package ingest

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/handler"
	"github.com/nolus-protocol/extract-transform-load-sub000/metrics"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// ProcessBlock ingests one height: every raw message and contract event
// of the block lands in the database in a single transaction, finished by
// the block marker. Re-processing a committed height is a no-op.
func ProcessBlock(ctx context.Context, s *app.State, height int64) error {
	exists, err := s.DB.Block.Exists(ctx, height)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	txs, blockTime, err := s.Chain.GetBlock(ctx, height)
	if err != nil {
		return err
	}

	err = s.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, res := range txs {
			if res == nil {
				continue
			}
			if err := insertRawMessages(ctx, s, res, height, blockTime, tx); err != nil {
				return err
			}
			for index, ev := range res.Response.Events {
				if err := handler.Dispatch(ctx, s, ev, index, blockTime, res.Response.TxHash, height, tx); err != nil {
					return err
				}
			}
		}
		return s.DB.Block.InsertTx(ctx, tx, height)
	})
	if err != nil {
		return err
	}

	metrics.BlocksProcessed.Inc()
	metrics.LastProcessedHeight.Set(float64(height))
	return nil
}

// insertRawMessages decodes the transaction body's top-level messages.
// Messages outside the known set are skipped; individual decode failures
// are logged and do not fail the block.
func insertRawMessages(ctx context.Context, s *app.State, res *chain.TxResult, height int64, blockTime time.Time, tx *sqlx.Tx) error {
	if res.Tx == nil || res.Tx.Body == nil {
		return nil
	}

	feeAmount := decimal.Zero
	var feeDenom *string
	if res.Tx.AuthInfo != nil && res.Tx.AuthInfo.Fee != nil && len(res.Tx.AuthInfo.Fee.Amount) > 0 {
		coin := res.Tx.AuthInfo.Fee.Amount[0]
		var err error
		if feeAmount, err = decimal.NewFromString(coin.Amount.String()); err != nil {
			return err
		}
		denom := coin.Denom
		feeDenom = &denom
	}

	for index, anyMsg := range res.Tx.Body.Messages {
		msg, err := model.RawMessageFromAny(model.RawMessageParams{
			Index:     int32(index),
			Any:       anyMsg,
			TxHash:    res.Response.TxHash,
			Block:     height,
			Timestamp: blockTime,
			FeeAmount: feeAmount,
			FeeDenom:  feeDenom,
			Memo:      res.Tx.Body.Memo,
			Code:      int64(res.Response.Code),
			Events:    s.Config.EventsSubscribe,
		})
		if err != nil {
			s.Log.Debugw("raw message decode failed",
				"tx", res.Response.TxHash, "index", index, "err", err)
			continue
		}
		if msg == nil {
			continue
		}
		if err := s.DB.RawMessage.InsertIfNotExists(ctx, tx, msg); err != nil {
			return err
		}
	}
	return nil
}
