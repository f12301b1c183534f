// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attrs(pairs ...string) []abci.EventAttribute {
	out := make([]abci.EventAttribute, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, abci.EventAttribute{Key: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func repayAttrs(extra ...string) []abci.EventAttribute {
	base := attrs(
		"height", "100",
		"to", "nolus1lease",
		"payment-symbol", "USDC",
		"payment-amount", "5000",
		"at", "1700000000000000000",
		"loan-close", "false",
		"principal", "1000",
	)
	return append(base, attrs(extra...)...)
}

func TestParseLeaseOpen(t *testing.T) {
	item, err := ParseLeaseOpen(attrs(
		"id", "nolus1lease",
		"customer", "nolus1customer",
		"currency", "OSMO",
		"air", "85",
		"at", "1700000000000000000",
		"loan-pool-id", "nolus1pool",
		"loan-amount", "1000000",
		"loan-symbol", "USDC",
		"downpayment-amount", "200000",
		"downpayment-symbol", "USDC",
	))
	require.NoError(t, err)
	assert.Equal(t, "nolus1lease", item.ID)
	assert.Equal(t, "OSMO", item.Currency)
	assert.Equal(t, "1000000", item.LoanAmount)
}

func TestParseLeaseOpenMissingField(t *testing.T) {
	_, err := ParseLeaseOpen(attrs("id", "nolus1lease"))
	var missing *FieldNotExistError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "customer", missing.Key)
}

func TestParseAttributesRejectsDuplicates(t *testing.T) {
	_, err := ParseLeaseClose(attrs("id", "a", "id", "b", "at", "1"))
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "id", dup.Key)
}

func TestInterestLegacyNamesTakePrecedence(t *testing.T) {
	item, err := ParseLeaseRepay(repayAttrs(
		"prev-margin-interest", "5",
		"overdue-margin-interest", "10",
		"prev-loan-interest", "1",
		"curr-margin-interest", "2",
		"curr-loan-interest", "3",
	))
	require.NoError(t, err)
	assert.Equal(t, "5", item.Interest.PrevMarginInterest)
}

func TestInterestCurrentNamesAccepted(t *testing.T) {
	item, err := ParseLeaseRepay(repayAttrs(
		"overdue-margin-interest", "10",
		"overdue-loan-interest", "11",
		"due-margin-interest", "12",
		"due-loan-interest", "13",
	))
	require.NoError(t, err)
	assert.Equal(t, "10", item.Interest.PrevMarginInterest)
	assert.Equal(t, "11", item.Interest.PrevLoanInterest)
	assert.Equal(t, "12", item.Interest.CurrMarginInterest)
	assert.Equal(t, "13", item.Interest.CurrLoanInterest)
}

func TestInterestMissingReportsLegacyName(t *testing.T) {
	_, err := ParseLeaseRepay(repayAttrs())
	var missing *FieldNotExistError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "prev-margin-interest", missing.Key)
}

func TestParseLeaseClosePositionWithoutHeightIsSkipped(t *testing.T) {
	item, err := ParseLeaseClosePosition(attrs(
		"to", "nolus1lease",
		"at", "1700000000000000000",
	))
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestParseLeaseClosePosition(t *testing.T) {
	item, err := ParseLeaseClosePosition(attrs(
		"height", "123",
		"to", "nolus1lease",
		"change", "777",
		"amount-amount", "1000",
		"amount-symbol", "OSMO",
		"payment-symbol", "USDC",
		"payment-amount", "900",
		"at", "1700000000000000000",
		"loan-close", "true",
		"principal", "100",
		"overdue-margin-interest", "1",
		"overdue-loan-interest", "2",
		"due-margin-interest", "3",
		"due-loan-interest", "4",
	))
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "123", item.Height)
	assert.Equal(t, "777", item.Change)
	assert.Equal(t, "true", item.LoanClose)
}

func TestParseLeaseLiquidationReadsCause(t *testing.T) {
	item, err := ParseLeaseLiquidation(attrs(
		"height", "50",
		"to", "nolus1lease",
		"amount-symbol", "OSMO",
		"amount-amount", "500",
		"payment-symbol", "USDC",
		"payment-amount", "400",
		"at", "1700000000000000000",
		"cause", "high liability",
		"loan-close", "true",
		"principal", "300",
		"prev-margin-interest", "1",
		"prev-loan-interest", "2",
		"curr-margin-interest", "3",
		"curr-loan-interest", "4",
	))
	require.NoError(t, err)
	assert.Equal(t, "high liability", item.Cause)
}

func TestParseLeaseAutoClosePositionOptionalTriggers(t *testing.T) {
	item, err := ParseLeaseAutoClosePosition(attrs(
		"to", "nolus1lease",
		"stop-loss-ltv", "650",
	))
	require.NoError(t, err)
	assert.Nil(t, item.TakeProfitLTV)
	require.NotNil(t, item.StopLossLTV)
	assert.Equal(t, "650", *item.StopLossLTV)
}

func TestParseLPDepositAndWithdraw(t *testing.T) {
	dep, err := ParseLPDeposit(attrs(
		"height", "10",
		"from", "nolus1lender",
		"to", "nolus1pool",
		"at", "1700000000000000000",
		"deposit-amount", "1000000",
		"deposit-symbol", "USDC",
		"receipts", "999999",
	))
	require.NoError(t, err)
	assert.Equal(t, "nolus1pool", dep.To)

	wd, err := ParseLPWithdraw(attrs(
		"height", "11",
		"from", "nolus1pool",
		"to", "nolus1lender",
		"at", "1700000000000000000",
		"withdraw-amount", "500",
		"withdraw-symbol", "USDC",
		"receipts", "499",
		"close", "true",
	))
	require.NoError(t, err)
	assert.Equal(t, "true", wd.Close)
}

func TestParseTreasuryProfit(t *testing.T) {
	item, err := ParseTreasuryProfit(attrs(
		"height", "12",
		"at", "1700000000000000000",
		"profit-amount-symbol", "NLS",
		"profit-amount-amount", "12345",
	))
	require.NoError(t, err)
	assert.Equal(t, "NLS", item.ProfitSymbol)
	assert.Equal(t, "12345", item.ProfitAmount)
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(TypeLeaseOpen))
	assert.True(t, Known(TypeTreasuryRewards))
	assert.False(t, Known("wasm-something-else"))
	assert.False(t, Known("transfer"))
}
