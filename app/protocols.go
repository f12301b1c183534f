// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/model"
)

// seedPools upserts the configured LP pools into the reference table.
func (s *State) seedPools(ctx context.Context) error {
	for _, p := range s.Config.Pools {
		pool := &model.LPPool{
			PoolID: p.PoolID,
			Symbol: p.Currency,
			Status: p.Active,
		}
		if err := s.DB.LPPool.Upsert(ctx, pool); err != nil {
			return err
		}
		if cur, ok := s.Config.PoolCurrencies[p.PoolID]; ok {
			pc := &model.PoolConfig{
				PoolID:       p.PoolID,
				PositionType: string(p.PositionType),
				LpnSymbol:    cur.Ticker,
				LpnDecimals:  cur.Decimals,
				IsActive:     p.Active,
			}
			if err := s.DB.PoolConfig.Upsert(ctx, pc); err != nil {
				return err
			}
		}
	}
	return nil
}

// reconcileCurrencies mirrors SUPPORTED_CURRENCIES into the currency
// registry, deprecating rows that fell out of the configuration.
func (s *State) reconcileCurrencies(ctx context.Context) error {
	tickers := make([]string, 0, len(s.Config.SupportedCurrencies))
	for _, c := range s.Config.SupportedCurrencies {
		row := &model.CurrencyRegistry{
			Ticker:    c.Ticker,
			Decimals:  c.Decimals,
			BankDenom: c.BankDenom,
		}
		if err := s.DB.CurrencyRegistry.UpsertActive(ctx, row); err != nil {
			return err
		}
		tickers = append(tickers, c.Ticker)
	}
	if len(tickers) == 0 {
		return nil
	}
	_, err := s.DB.CurrencyRegistry.MarkDeprecatedExcept(ctx, tickers)
	return err
}

// loadProtocols queries the admin contract for the deployed protocols and
// resolves each one's contract set concurrently. Ignored protocols are
// skipped.
func (s *State) loadProtocols(ctx context.Context) (map[string]*chain.ProtocolConfig, error) {
	names, err := s.Chain.GetAdminConfig(ctx, s.Config.AdminContract)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	out := make(map[string]*chain.ProtocolConfig, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		if slices.Contains(s.Config.IgnoreProtocols, name) {
			continue
		}
		name := name
		g.Go(func() error {
			p, err := s.Chain.GetProtocolConfig(gctx, s.Config.AdminContract, name)
			if err != nil {
				return err
			}
			mu.Lock()
			out[name] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// reconcileRegistry upserts the loaded protocols and deprecates the ones
// the admin contract no longer exposes.
func (s *State) reconcileRegistry(ctx context.Context) error {
	names := make([]string, 0, len(s.protocols))
	for name, p := range s.protocols {
		lpnSymbol := ""
		positionType := ""
		if cur, ok := s.Config.PoolCurrencies[p.Contracts.Lpp]; ok {
			lpnSymbol = cur.Ticker
		}
		if pool, ok := s.Config.PoolsByID[p.Contracts.Lpp]; ok {
			positionType = string(pool.PositionType)
		}
		row := &model.ProtocolRegistry{
			ProtocolName:    name,
			Network:         p.Network,
			LeaserContract:  p.Contracts.Leaser,
			LppContract:     p.Contracts.Lpp,
			OracleContract:  p.Contracts.Oracle,
			ProfitContract:  p.Contracts.Profit,
			ReserveContract: p.Contracts.Reserve,
			LpnSymbol:       lpnSymbol,
			PositionType:    positionType,
		}
		if err := s.DB.ProtocolRegistry.UpsertActive(ctx, row); err != nil {
			return err
		}
		if lpnSymbol != "" {
			link := &model.CurrencyProtocol{Ticker: lpnSymbol, Protocol: name}
			if err := s.DB.CurrencyProtocol.Upsert(ctx, link); err != nil {
				return err
			}
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	_, err := s.DB.ProtocolRegistry.MarkDeprecatedExcept(ctx, names)
	return err
}
