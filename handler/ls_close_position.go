// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/event"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// HandleLeaseClosePosition records a market-driven close and, when it
// closes the loan, runs the loan-closing sub-flow with the event's change
// amount.
func HandleLeaseClosePosition(ctx context.Context, s *app.State, item *event.LeaseClosePosition, txHash string, height int64, tx *sqlx.Tx) error {
	at, err := ParseEventTimestamp(item.At)
	if err != nil {
		return err
	}

	lease, err := s.DB.LSOpening.Get(ctx, item.To)
	if err != nil {
		return err
	}
	var protocol *string
	if lease != nil {
		protocol = ProtocolRef(s, lease.LoanPoolID)
	}

	positionHeight, err := strconv.ParseInt(item.Height, 10, 64)
	if err != nil {
		return err
	}
	loanClose, err := strconv.ParseBool(item.LoanClose)
	if err != nil {
		return err
	}

	var amntStable, paymentStable decimal.Decimal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		amntStable, err = s.InStableByDate(gctx, item.AmountSymbol, item.AmountAmount, protocol, at)
		return err
	})
	g.Go(func() (err error) {
		paymentStable, err = s.InStableByDate(gctx, item.PaymentSymbol, item.PaymentAmount, protocol, at)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	change, err := decimal.NewFromString(item.Change)
	if err != nil {
		return err
	}
	amnt, err := decimal.NewFromString(item.AmountAmount)
	if err != nil {
		return err
	}
	paymentAmnt, err := decimal.NewFromString(item.PaymentAmount)
	if err != nil {
		return err
	}
	interest, err := interestColumns(item.Interest)
	if err != nil {
		return err
	}
	principal, err := decimal.NewFromString(item.Principal)
	if err != nil {
		return err
	}

	row := &model.LSClosePosition{
		TxHash:                txHash,
		Height:                positionHeight,
		ContractID:            item.To,
		Change:                change,
		AmntSymbol:            item.AmountSymbol,
		Amnt:                  amnt,
		AmntStable:            amntStable,
		PaymentSymbol:         item.PaymentSymbol,
		PaymentAmnt:           paymentAmnt,
		PaymentAmntStable:     paymentStable,
		Timestamp:             at,
		LoanClose:             loanClose,
		PrevMarginStable:      interest.prevMargin,
		PrevInterestStable:    interest.prevInterest,
		CurrentMarginStable:   interest.currMargin,
		CurrentInterestStable: interest.currInterest,
		PrincipalStable:       principal,
	}
	if err := s.DB.LSClosePosition.InsertIfNotExists(ctx, tx, row); err != nil {
		return err
	}

	if loanClose {
		changeAmount := &chain.AmountTicker{Amount: item.Change, Ticker: item.AmountSymbol}
		return CloseLoan(ctx, s, item.To, model.LoanClosingMarketClose, at, height, changeAmount, tx)
	}
	return nil
}
