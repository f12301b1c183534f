// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"time"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/jmoiron/sqlx"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/event"
)

// Dispatch decodes one contract event and routes it to its handler.
// Unknown event types are skipped silently; the catalogue is closed.
func Dispatch(ctx context.Context, s *app.State, ev abci.Event, index int, blockTime time.Time, txHash string, height int64, tx *sqlx.Tx) error {
	switch ev.Type {
	case event.TypeLeaseOpen:
		item, err := event.ParseLeaseOpen(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLeaseOpen(ctx, s, item, txHash, height, tx)

	case event.TypeLeaseClose:
		item, err := event.ParseLeaseClose(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLeaseClose(ctx, s, item, txHash, tx)

	case event.TypeLeaseClosePosition:
		item, err := event.ParseLeaseClosePosition(ev.Attributes)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		return HandleLeaseClosePosition(ctx, s, item, txHash, height, tx)

	case event.TypeLeaseRepay:
		item, err := event.ParseLeaseRepay(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLeaseRepay(ctx, s, item, txHash, height, tx)

	case event.TypeLeaseLiquidation:
		item, err := event.ParseLeaseLiquidation(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLeaseLiquidation(ctx, s, item, txHash, height, tx)

	case event.TypeLeaseLiquidationWarning:
		item, err := event.ParseLeaseLiquidationWarning(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLeaseLiquidationWarning(ctx, s, item, blockTime, txHash, tx)

	case event.TypeLeaseSlippageAnomaly:
		item, err := event.ParseLeaseSlippageAnomaly(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLeaseSlippageAnomaly(ctx, s, item, blockTime, txHash, tx)

	case event.TypeLeaseAutoClosePosition:
		item, err := event.ParseLeaseAutoClosePosition(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLeaseAutoClosePosition(ctx, s, item, blockTime, txHash, tx)

	case event.TypeReserveCoverLoss:
		item, err := event.ParseReserveCoverLoss(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleReserveCoverLoss(ctx, s, item, index, blockTime, txHash, tx)

	case event.TypeLPDeposit:
		item, err := event.ParseLPDeposit(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLPDeposit(ctx, s, item, txHash, tx)

	case event.TypeLPWithdraw:
		item, err := event.ParseLPWithdraw(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleLPWithdraw(ctx, s, item, txHash, tx)

	case event.TypeTreasuryProfit:
		item, err := event.ParseTreasuryProfit(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleTreasuryProfit(ctx, s, item, txHash, tx)

	case event.TypeTreasuryRewards:
		item, err := event.ParseTreasuryRewards(ev.Attributes)
		if err != nil {
			return err
		}
		return HandleTreasuryRewards(ctx, s, item, index, txHash, tx)
	}
	return nil
}
