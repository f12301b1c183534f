// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseStateDecodeOpened(t *testing.T) {
	payload := `{
		"opened": {
			"amount": {"amount": "1000000", "ticker": "OSMO"},
			"principal_due": {"amount": "500", "ticker": "USDC"},
			"overdue_margin": {"amount": "1", "ticker": "USDC"},
			"due_interest": {"amount": "2", "ticker": "USDC"}
		}
	}`
	var state LeaseState
	require.NoError(t, json.Unmarshal([]byte(payload), &state))
	require.NotNil(t, state.Opened)
	assert.Equal(t, "OSMO", state.Opened.Amount.Ticker)
	require.NotNil(t, state.Opened.OverdueMargin)
	assert.Equal(t, "1", state.Opened.OverdueMargin.Amount)
	assert.Nil(t, state.Opened.PreviousMarginDue)
	assert.Nil(t, state.Paid)
}

func TestLeaseStateDecodeLegacyInterestNames(t *testing.T) {
	payload := `{
		"opened": {
			"amount": {"amount": "1", "ticker": "OSMO"},
			"principal_due": {"amount": "1", "ticker": "USDC"},
			"previous_margin_due": {"amount": "7", "ticker": "USDC"},
			"current_interest_due": {"amount": "9", "ticker": "USDC"}
		}
	}`
	var state LeaseState
	require.NoError(t, json.Unmarshal([]byte(payload), &state))
	require.NotNil(t, state.Opened.PreviousMarginDue)
	assert.Equal(t, "7", state.Opened.PreviousMarginDue.Amount)
	require.NotNil(t, state.Opened.CurrentInterestDue)
	assert.Equal(t, "9", state.Opened.CurrentInterestDue.Amount)
}

func TestLeaseRawStateDecode(t *testing.T) {
	var full LeaseRawState
	require.NoError(t, json.Unmarshal([]byte(`{"FullClose": {}}`), &full))
	assert.NotNil(t, full.FullClose)
	assert.Nil(t, full.PartialClose)

	var partial LeaseRawState
	require.NoError(t, json.Unmarshal([]byte(`{"PartialClose": {}}`), &partial))
	assert.NotNil(t, partial.PartialClose)
}

func TestLppBalanceDecode(t *testing.T) {
	payload := `{
		"balance": {"amount": "100", "ticker": "USDC"},
		"total_principal_due": {"amount": "50", "ticker": "USDC"},
		"total_interest_due": {"amount": "5", "ticker": "USDC"},
		"balance_nlpn": {"amount": "99", "ticker": "nUSDC"}
	}`
	var state LppBalance
	require.NoError(t, json.Unmarshal([]byte(payload), &state))
	assert.Equal(t, "99", state.BalanceNlpn.Amount)
}

func TestProtocolConfigDecode(t *testing.T) {
	payload := `{
		"network": "OSMOSIS",
		"contracts": {
			"leaser": "nolus1leaser",
			"lpp": "nolus1lpp",
			"oracle": "nolus1oracle",
			"profit": "nolus1profit",
			"reserve": "nolus1reserve"
		}
	}`
	var cfg ProtocolConfig
	require.NoError(t, json.Unmarshal([]byte(payload), &cfg))
	assert.Equal(t, "OSMOSIS", cfg.Network)
	assert.Equal(t, "nolus1lpp", cfg.Contracts.Lpp)
}
