// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// leaseLoan is the computed close state of one lease: the leased amount,
// its stable value and the realized PnL, all at leased-asset scale.
type leaseLoan struct {
	amnt       decimal.Decimal
	amntStable decimal.Decimal
	pnl        decimal.Decimal
}

func pow10(decimals int32) decimal.Decimal {
	return decimal.New(1, decimals)
}

// leaseDebt sums principal plus the overdue and due margin and interest
// buckets of an opened lease at LPN scale. The previous/current-named
// buckets of the older contract generation are not counted, and a bucket
// whose amount does not parse is skipped.
func leaseDebt(opened *chain.LeaseOpenedState) (decimal.Decimal, error) {
	debt, err := decimal.NewFromString(opened.PrincipalDue.Amount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	for _, bucket := range []*chain.AmountTicker{
		opened.OverdueMargin, opened.OverdueInterest,
		opened.DueMargin, opened.DueInterest,
	} {
		if bucket == nil {
			continue
		}
		v, err := decimal.NewFromString(bucket.Amount)
		if err != nil {
			continue
		}
		debt = debt.Add(v)
	}
	return debt, nil
}

// repaymentsBeforeClose sums the stable value of the lease's repayments,
// scaled to human units per payment currency. The repayment that closed
// the loan is skipped unless includeClosing is set.
func repaymentsBeforeClose(ctx context.Context, s *app.State, contract string, includeClosing bool) (decimal.Decimal, error) {
	repayments, err := s.DB.LSRepayment.GetByContract(ctx, contract)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := decimal.Zero
	for _, rep := range repayments {
		if rep.LoanClose && !includeClosing {
			continue
		}
		c, err := s.Currency(rep.PaymentSymbol)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(rep.PaymentAmntStable.Div(pow10(c.Decimals)))
	}
	return total, nil
}

// openingFee is the difference between the gross position value at open
// and the disbursed loan: the swap fee absorbed at opening.
func openingFee(ctx context.Context, s *app.State, lease *model.LSOpening, protocol string) (decimal.Decimal, error) {
	ctrlCurrency, err := s.Currency(lease.CltrSymbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	loanCurrency, err := s.Currency(lease.AssetSymbol)
	if err != nil {
		return decimal.Decimal{}, err
	}
	lpnCurrency, err := s.CurrencyByPoolID(lease.LoanPoolID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	ctrlAmountStable := lease.CltrAmntStable.Div(pow10(ctrlCurrency.Decimals))
	loanScale := pow10(loanCurrency.Decimals)

	loanAmnt := lease.LoanAmnt.Div(loanScale)
	loanAmount, err := s.InStableByDate(ctx, lease.AssetSymbol, loanAmnt.String(), &protocol, lease.Timestamp)
	if err != nil {
		return decimal.Decimal{}, err
	}
	loanAmount = loanAmount.Mul(loanScale).Round(0)
	loanAmountStable := lease.LoanAmntStable.Div(pow10(lpnCurrency.Decimals))

	totalLoanStable := loanAmountStable.Add(ctrlAmountStable).Mul(loanScale).Round(0)
	return totalLoanStable.Sub(loanAmount).Round(0), nil
}

// pnlLong computes the realized PnL of a long position: position value
// minus debt, prior repayments and downpayment, plus the opening fee.
func pnlLong(ctx context.Context, s *app.State, lease *model.LSOpening, block int64, at time.Time) (*leaseLoan, error) {
	return pnlOpened(ctx, s, lease, block, at, false)
}

// pnlShort is pnlLong with the debt converted through the LPN price at
// close time.
func pnlShort(ctx context.Context, s *app.State, lease *model.LSOpening, block int64, at time.Time) (*leaseLoan, error) {
	return pnlOpened(ctx, s, lease, block, at, true)
}

func pnlOpened(ctx context.Context, s *app.State, lease *model.LSOpening, block int64, at time.Time, short bool) (*leaseLoan, error) {
	state, err := s.Chain.GetLeaseStateByBlock(ctx, lease.ContractID, block-1)
	if err != nil {
		return nil, err
	}
	if state.Opened == nil {
		return nil, fmt.Errorf("loan %s not opened at %d", lease.ContractID, block-1)
	}
	opened := state.Opened

	leaseCurrency, err := s.Currency(opened.Amount.Ticker)
	if err != nil {
		return nil, err
	}
	downpaymentCurrency, err := s.Currency(lease.CltrSymbol)
	if err != nil {
		return nil, err
	}
	lpnCurrency, err := s.CurrencyByPoolID(lease.LoanPoolID)
	if err != nil {
		return nil, err
	}
	protocol, err := requireProtocol(s, lease.LoanPoolID)
	if err != nil {
		return nil, err
	}

	leaseScale := pow10(leaseCurrency.Decimals)
	rawAmount, err := decimal.NewFromString(opened.Amount.Amount)
	if err != nil {
		return nil, err
	}
	leaseAmount := rawAmount.Div(leaseScale)

	debt, err := leaseDebt(opened)
	if err != nil {
		return nil, err
	}
	debt = debt.Div(pow10(lpnCurrency.Decimals))

	downpayment := lease.CltrAmntStable.Div(pow10(downpaymentCurrency.Decimals))

	var (
		amount, fee, repayments, lpnPrice decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		amount, err = s.InStableByDate(gctx, opened.Amount.Ticker, leaseAmount.String(), &protocol, at)
		return err
	})
	g.Go(func() (err error) {
		fee, err = openingFee(gctx, s, lease, protocol)
		return err
	})
	g.Go(func() (err error) {
		repayments, err = repaymentsBeforeClose(gctx, s, lease.ContractID, false)
		return err
	})
	if short {
		g.Go(func() (err error) {
			lpnPrice, err = s.DB.MPAsset.GetPriceByDate(gctx, lpnCurrency.Ticker, &protocol, at)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fee = fee.Div(leaseScale)

	debtTerm := debt
	if short {
		debtTerm = debt.Mul(lpnPrice)
	}
	pnl := amount.Sub(debtTerm).Sub(repayments).Sub(downpayment).Add(fee)

	return &leaseLoan{
		amnt:       rawAmount,
		amntStable: amount.Mul(leaseScale),
		pnl:        pnl.Mul(leaseScale),
	}, nil
}

// pnlLiquidated computes the realized PnL of a liquidated lease: the
// negated sum of everything the borrower paid in.
func pnlLiquidated(ctx context.Context, s *app.State, lease *model.LSOpening, at time.Time) (*leaseLoan, error) {
	leaseCurrency, err := s.Currency(lease.AssetSymbol)
	if err != nil {
		return nil, err
	}
	downpaymentCurrency, err := s.Currency(lease.CltrSymbol)
	if err != nil {
		return nil, err
	}

	downpayment := lease.CltrAmntStable.Div(pow10(downpaymentCurrency.Decimals))
	repayments, err := repaymentsBeforeClose(ctx, s, lease.ContractID, true)
	if err != nil {
		return nil, err
	}

	pnl := repayments.Add(downpayment).Neg()
	return &leaseLoan{
		amnt:       decimal.Zero,
		amntStable: decimal.Zero,
		pnl:        pnl.Mul(pow10(leaseCurrency.Decimals)),
	}, nil
}
