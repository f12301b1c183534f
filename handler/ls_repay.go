// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/event"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// HandleLeaseRepay records a repayment and, when it closes the loan,
// runs the loan-closing sub-flow.
func HandleLeaseRepay(ctx context.Context, s *app.State, item *event.LeaseRepay, txHash string, height int64, tx *sqlx.Tx) error {
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

	loanClose, err := strconv.ParseBool(item.LoanClose)
	if err != nil {
		return err
	}
	repaymentHeight, err := strconv.ParseInt(item.Height, 10, 64)
	if err != nil {
		return err
	}

	paymentStable, err := s.InStableByDate(ctx, item.PaymentSymbol, item.PaymentAmount, protocol, at)
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

	row := &model.LSRepayment{
		TxHash:                txHash,
		Height:                repaymentHeight,
		ContractID:            item.To,
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
	if err := s.DB.LSRepayment.InsertIfNotExists(ctx, tx, row); err != nil {
		return err
	}

	if loanClose {
		return CloseLoan(ctx, s, item.To, model.LoanClosingRepay, at, height, nil, tx)
	}
	return nil
}

type interestAmounts struct {
	prevMargin   decimal.Decimal
	prevInterest decimal.Decimal
	currMargin   decimal.Decimal
	currInterest decimal.Decimal
}

func interestColumns(iv event.InterestValues) (interestAmounts, error) {
	var out interestAmounts
	var err error
	if out.prevMargin, err = decimal.NewFromString(iv.PrevMarginInterest); err != nil {
		return out, err
	}
	if out.prevInterest, err = decimal.NewFromString(iv.PrevLoanInterest); err != nil {
		return out, err
	}
	if out.currMargin, err = decimal.NewFromString(iv.CurrMarginInterest); err != nil {
		return out, err
	}
	if out.currInterest, err = decimal.NewFromString(iv.CurrLoanInterest); err != nil {
		return out, err
	}
	return out, nil
}
