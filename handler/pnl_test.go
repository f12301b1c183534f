// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nolus-protocol/extract-transform-load-sub000/chain"
)

func amt(ticker, amount string) *chain.AmountTicker {
	return &chain.AmountTicker{Ticker: ticker, Amount: amount}
}

func TestLeaseDebtSumsAllBuckets(t *testing.T) {
	debt, err := leaseDebt(&chain.LeaseOpenedState{
		Amount:          chain.AmountTicker{Ticker: "OSMO", Amount: "1000"},
		PrincipalDue:    chain.AmountTicker{Ticker: "USDC", Amount: "100"},
		OverdueMargin:   amt("USDC", "10"),
		OverdueInterest: amt("USDC", "20"),
		DueMargin:       amt("USDC", "30"),
		DueInterest:     amt("USDC", "40"),
	})
	require.NoError(t, err)
	assert.True(t, debt.Equal(dec("200")))
}

func TestLeaseDebtAbsentBucketsCountZero(t *testing.T) {
	debt, err := leaseDebt(&chain.LeaseOpenedState{
		PrincipalDue: chain.AmountTicker{Ticker: "USDC", Amount: "100"},
	})
	require.NoError(t, err)
	assert.True(t, debt.Equal(dec("100")))
}

func TestPow10(t *testing.T) {
	assert.True(t, pow10(0).Equal(dec("1")))
	assert.True(t, pow10(6).Equal(dec("1000000")))
}
