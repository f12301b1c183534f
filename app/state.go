// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package app wires configuration, database, chain client and the
// protocol registry into one shared handle. The handle is immutable after
// construction except for the small locked TVL cache.
package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
	"github.com/nolus-protocol/extract-transform-load-sub000/config"
	"github.com/nolus-protocol/extract-transform-load-sub000/db"
)

// State is the shared application handle. Pass it by pointer; it is safe
// for concurrent use.
type State struct {
	Config *config.Config
	DB     *db.DB
	Chain  *chain.Client
	Log    *zap.SugaredLogger

	// protocols is keyed by protocol name and frozen at startup.
	protocols map[string]*chain.ProtocolConfig

	// Sync is the gap-fill scheduler's status handle. Handlers consult it
	// to defer gRPC-heavy work while a backfill is draining.
	Sync *SyncStatus

	cacheMu sync.Mutex
	tvl     *decimal.Decimal
}

// SyncStatus tracks whether a gap-fill run is active and whether the
// startup full gap scan already happened. Only the scheduler writes it.
type SyncStatus struct {
	running         atomic.Bool
	initialScanDone atomic.Bool
}

// Running reports whether a gap-fill run is in flight.
func (s *SyncStatus) Running() bool { return s.running.Load() }

// SetRunning flips the in-flight flag.
func (s *SyncStatus) SetRunning(v bool) { s.running.Store(v) }

// InitialScanDone reports whether the startup full gap scan completed.
func (s *SyncStatus) InitialScanDone() bool { return s.initialScanDone.Load() }

// MarkInitialScanDone records the startup full gap scan.
func (s *SyncStatus) MarkInitialScanDone() { s.initialScanDone.Store(true) }

// NewState loads the protocol map from the admin contract, seeds the pool
// and currency reference tables and returns the ready handle.
func NewState(ctx context.Context, cfg *config.Config, database *db.DB, client *chain.Client, log *zap.SugaredLogger) (*State, error) {
	s := &State{
		Config: cfg,
		DB:     database,
		Chain:  client,
		Log:    log,
		Sync:   &SyncStatus{},
	}

	if err := s.seedPools(ctx); err != nil {
		return nil, fmt.Errorf("seed pools: %w", err)
	}
	if err := s.reconcileCurrencies(ctx); err != nil {
		return nil, fmt.Errorf("reconcile currencies: %w", err)
	}
	protocols, err := s.loadProtocols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load protocols: %w", err)
	}
	s.protocols = protocols
	if err := s.reconcileRegistry(ctx); err != nil {
		return nil, fmt.Errorf("reconcile registry: %w", err)
	}
	return s, nil
}

// Protocols returns the startup-loaded protocol map. Callers must not
// mutate it.
func (s *State) Protocols() map[string]*chain.ProtocolConfig {
	return s.protocols
}

// ProtocolByPoolID finds the protocol whose pool contract matches.
func (s *State) ProtocolByPoolID(poolID string) (string, bool) {
	for name, p := range s.protocols {
		if p.Contracts.Lpp == poolID {
			return name, true
		}
	}
	return "", false
}

// protocolRefByPoolID is ProtocolByPoolID returning a *string for the
// price-lookup signatures.
func (s *State) protocolRefByPoolID(poolID string) *string {
	if name, ok := s.ProtocolByPoolID(poolID); ok {
		return &name
	}
	return nil
}

// Currency resolves a supported currency by ticker.
func (s *State) Currency(symbol string) (config.Currency, error) {
	c, ok := s.Config.Currencies[symbol]
	if !ok {
		return config.Currency{}, &NotSupportedCurrencyError{Symbol: symbol}
	}
	return c, nil
}

// CurrencyByBankDenom resolves a supported currency by its bank denom.
func (s *State) CurrencyByBankDenom(denom string) (config.Currency, bool) {
	for _, c := range s.Config.Currencies {
		if c.BankDenom == denom {
			return c, true
		}
	}
	return config.Currency{}, false
}

// CurrencyByPoolID resolves the LPN currency a pool is denominated in.
func (s *State) CurrencyByPoolID(poolID string) (config.Currency, error) {
	c, ok := s.Config.PoolCurrencies[poolID]
	if !ok {
		return config.Currency{}, &NotSupportedCurrencyError{Symbol: poolID}
	}
	return c, nil
}

// PositionTypeByPoolID resolves a pool's position type, preferring the
// static pool list and falling back to the pool_config table.
func (s *State) PositionTypeByPoolID(ctx context.Context, poolID string) (string, error) {
	if p, ok := s.Config.PoolsByID[poolID]; ok {
		return string(p.PositionType), nil
	}
	pc, err := s.DB.PoolConfig.GetByPoolID(ctx, poolID)
	if err != nil {
		return "", err
	}
	if pc == nil {
		return "", fmt.Errorf("position type of pool %s unknown", poolID)
	}
	return pc.PositionType, nil
}

// DefaultProtocol returns the configured initial protocol when it exists
// in the loaded map, otherwise nil.
func (s *State) DefaultProtocol() *string {
	if _, ok := s.protocols[s.Config.InitialProtocol]; ok {
		p := s.Config.InitialProtocol
		return &p
	}
	return nil
}

// SetTVL stores the latest total-value-locked in the cache.
func (s *State) SetTVL(v decimal.Decimal) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.tvl = &v
}

// TVL reads the cached total-value-locked; ok is false before the first
// refresh.
func (s *State) TVL() (decimal.Decimal, bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.tvl == nil {
		return decimal.Decimal{}, false
	}
	return *s.tvl, true
}

// NotSupportedCurrencyError reports a symbol or pool outside the
// configured currency set.
type NotSupportedCurrencyError struct {
	Symbol string
}

func (e *NotSupportedCurrencyError) Error() string {
	return fmt.Sprintf("currency not supported: %s", e.Symbol)
}
