// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/config"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// CloseLoan classifies a loan close, persists the LS_Loan_Closing row and
// snapshots residual balances for repayments and market closes. While a
// gap-fill run is active only a stub row is written; ProceedLeases fills
// it in afterwards.
func CloseLoan(ctx context.Context, s *app.State, contract string, closeType model.LoanClosingType, at time.Time, block int64, changeAmount *chain.AmountTicker, tx *sqlx.Tx) error {
	loan, err := getLoan(ctx, s, contract, closeType, at, block)
	if err != nil {
		return err
	}

	inserted, err := s.DB.LSLoanClosing.InsertIfNotExists(ctx, tx, loan)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}
	return collectLoanBalances(ctx, s, loan, changeAmount, tx)
}

// getLoan computes the close record. Unknown leases and closes observed
// during a backfill yield an inactive stub.
func getLoan(ctx context.Context, s *app.State, contract string, closeType model.LoanClosingType, at time.Time, block int64) (*model.LSLoanClosing, error) {
	stub := &model.LSLoanClosing{
		ContractID: contract,
		AmntStable: decimal.Zero,
		Timestamp:  at,
		Type:       string(closeType),
		Amnt:       decimal.Zero,
		PnL:        decimal.Zero,
		Block:      block,
		Active:     false,
	}
	if s.Sync.Running() {
		return stub, nil
	}

	lease, err := s.DB.LSOpening.Get(ctx, contract)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return stub, nil
	}

	var loan *leaseLoan
	if closeType == model.LoanClosingLiquidation {
		loan, err = pnlLiquidated(ctx, s, lease, at)
	} else {
		var positionType string
		positionType, err = s.PositionTypeByPoolID(ctx, lease.LoanPoolID)
		if err != nil {
			return nil, err
		}
		if positionType == string(config.Long) {
			loan, err = pnlLong(ctx, s, lease, block, at)
		} else {
			loan, err = pnlShort(ctx, s, lease, block, at)
		}
	}
	if err != nil {
		return nil, err
	}

	return &model.LSLoanClosing{
		ContractID: contract,
		AmntStable: loan.amntStable,
		Timestamp:  at,
		Type:       string(closeType),
		Amnt:       loan.amnt,
		PnL:        loan.pnl,
		Block:      block,
		Active:     true,
	}, nil
}

// collectLoanBalances snapshots residual on-contract balances for repay
// and market-close loans.
func collectLoanBalances(ctx context.Context, s *app.State, loan *model.LSLoanClosing, changeAmount *chain.AmountTicker, tx *sqlx.Tx) error {
	lease, err := s.DB.LSOpening.Get(ctx, loan.ContractID)
	if err != nil {
		return err
	}
	if lease == nil {
		// Happens during a partial backfill: the opening height was not
		// processed yet.
		s.Log.Debugw("skipping loan collect, lease opening not found",
			"contract", loan.ContractID)
		return nil
	}

	switch model.LoanClosingType(loan.Type) {
	case model.LoanClosingRepay:
		return collectRepayment(ctx, s, loan, lease, tx)
	case model.LoanClosingMarketClose:
		return collectMarketClose(ctx, s, loan, lease, changeAmount, tx)
	}
	return nil
}

func collectRepayment(ctx context.Context, s *app.State, loan *model.LSLoanClosing, lease *model.LSOpening, tx *sqlx.Tx) error {
	protocol, err := requireProtocol(s, lease.LoanPoolID)
	if err != nil {
		return err
	}

	var (
		balances   []cosmosCoin
		leaseState *chain.LeaseState
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		coins, err := s.Chain.GetBalancesByBlock(gctx, loan.ContractID, loan.Block-1)
		if err != nil {
			return err
		}
		for _, c := range coins {
			balances = append(balances, cosmosCoin{denom: c.Denom, amount: c.Amount.String()})
		}
		return nil
	})
	g.Go(func() (err error) {
		leaseState, err = s.Chain.GetLeaseStateByBlock(gctx, loan.ContractID, loan.Block-1)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	data := make(map[string]model.LSLoanCollect)
	if leaseState.Opened != nil {
		if err := addCollect(ctx, s, data, loan, protocol, leaseState.Opened.Amount); err != nil {
			return err
		}
	}
	if err := addBankCollects(ctx, s, data, loan, protocol, balances); err != nil {
		return err
	}
	return insertCollects(ctx, s, data, tx)
}

func collectMarketClose(ctx context.Context, s *app.State, loan *model.LSLoanClosing, lease *model.LSOpening, changeAmount *chain.AmountTicker, tx *sqlx.Tx) error {
	protocol, err := requireProtocol(s, lease.LoanPoolID)
	if err != nil {
		return err
	}

	rawState, err := s.Chain.GetLeaseRawStateByBlock(ctx, loan.ContractID, loan.Block-1)
	if err != nil {
		return err
	}

	if rawState.FullClose != nil {
		if changeAmount == nil {
			return fmt.Errorf("change amount not set in market close of %s", loan.ContractID)
		}
		data := make(map[string]model.LSLoanCollect)
		if err := addCollect(ctx, s, data, loan, protocol, *changeAmount); err != nil {
			return err
		}
		return insertCollects(ctx, s, data, tx)
	}

	if rawState.PartialClose != nil {
		var (
			balances   []cosmosCoin
			leaseState *chain.LeaseState
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			coins, err := s.Chain.GetBalancesByBlock(gctx, loan.ContractID, loan.Block)
			if err != nil {
				return err
			}
			for _, c := range coins {
				balances = append(balances, cosmosCoin{denom: c.Denom, amount: c.Amount.String()})
			}
			return nil
		})
		g.Go(func() (err error) {
			leaseState, err = s.Chain.GetLeaseStateByBlock(gctx, loan.ContractID, loan.Block)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		data := make(map[string]model.LSLoanCollect)
		if leaseState.Paid != nil {
			if err := addCollect(ctx, s, data, loan, protocol, leaseState.Paid.Amount); err != nil {
				return err
			}
		}
		if leaseState.Closing != nil {
			if err := addCollect(ctx, s, data, loan, protocol, leaseState.Closing.Amount); err != nil {
				return err
			}
		}
		if err := addBankCollects(ctx, s, data, loan, protocol, balances); err != nil {
			return err
		}
		return insertCollects(ctx, s, data, tx)
	}

	return nil
}

type cosmosCoin struct {
	denom  string
	amount string
}

func addCollect(ctx context.Context, s *app.State, data map[string]model.LSLoanCollect, loan *model.LSLoanClosing, protocol string, amount chain.AmountTicker) error {
	amnt, err := decimal.NewFromString(amount.Amount)
	if err != nil {
		return err
	}
	stable, err := s.InStableByDate(ctx, amount.Ticker, amount.Amount, &protocol, loan.Timestamp)
	if err != nil {
		return err
	}
	data[amount.Ticker] = model.LSLoanCollect{
		ContractID:   loan.ContractID,
		Symbol:       amount.Ticker,
		Amount:       amnt,
		AmountStable: stable,
	}
	return nil
}

func addBankCollects(ctx context.Context, s *app.State, data map[string]model.LSLoanCollect, loan *model.LSLoanClosing, protocol string, balances []cosmosCoin) error {
	for _, b := range balances {
		c, ok := s.CurrencyByBankDenom(strings.ToUpper(b.denom))
		if !ok {
			continue
		}
		if err := addCollect(ctx, s, data, loan, protocol, chain.AmountTicker{
			Amount: b.amount,
			Ticker: c.Ticker,
		}); err != nil {
			return err
		}
	}
	return nil
}

func insertCollects(ctx context.Context, s *app.State, data map[string]model.LSLoanCollect, tx *sqlx.Tx) error {
	items := make([]model.LSLoanCollect, 0, len(data))
	for _, item := range data {
		if item.Symbol == s.Config.NativeCurrency {
			continue
		}
		items = append(items, item)
	}
	return s.DB.LSLoanCollect.InsertManyTx(ctx, tx, items)
}

func requireProtocol(s *app.State, poolID string) (string, error) {
	protocol, ok := s.ProtocolByPoolID(poolID)
	if !ok {
		return "", fmt.Errorf("protocol not found for pool %s", poolID)
	}
	return protocol, nil
}

// ProceedLeases walks the stub LS_Loan_Closing rows a backfill left
// behind and fills in their amounts and PnL, at most MaxTasks leases at a
// time.
func ProceedLeases(ctx context.Context, s *app.State) error {
	items, err := s.DB.LSLoanClosing.LeasesToProceed(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.MaxTasks)
	for _, item := range items {
		item := item
		g.Go(func() error {
			loan, err := getLoan(gctx, s, item.ContractID,
				model.LoanClosingType(item.Type), item.Timestamp, item.Block)
			if err != nil {
				return err
			}
			if !loan.Active {
				return nil
			}
			return s.DB.LSLoanClosing.Update(gctx, loan)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	s.Log.Infow("loan synchronization completed", "leases", len(items))
	return nil
}
