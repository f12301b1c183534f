// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLiquidationPriceAtOpenLong(t *testing.T) {
	downPayment := dec("200000")
	loan := dec("1000000")
	openingPrice := dec("50")
	totalPositionLpn := dec("50000000")

	got := liquidationPriceAtOpen("Long", downPayment, loan, openingPrice, totalPositionLpn)
	require.NotNil(t, got)

	// (loan / 0.9) / (down_payment + loan) * price
	want := loan.Div(dec("0.9")).Div(downPayment.Add(loan)).Mul(openingPrice)
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestLiquidationPriceAtOpenShort(t *testing.T) {
	downPayment := dec("200000")
	loan := dec("1000000")
	totalPositionLpn := dec("50000000")

	got := liquidationPriceAtOpen("Short", downPayment, loan, dec("1"), totalPositionLpn)
	require.NotNil(t, got)

	want := downPayment.Add(loan).Div(totalPositionLpn.Div(dec("0.9")))
	assert.True(t, got.Equal(want), "got %s want %s", got, want)
}

func TestLiquidationPriceAtOpenDegenerate(t *testing.T) {
	assert.Nil(t, liquidationPriceAtOpen("Long", dec("0"), dec("0"), dec("50"), dec("1")))
	assert.Nil(t, liquidationPriceAtOpen("Short", dec("1"), dec("1"), dec("50"), dec("0")))
	assert.Nil(t, liquidationPriceAtOpen("", dec("1"), dec("1"), dec("50"), dec("1")))
}

func TestLpnLoanAmountDerivation(t *testing.T) {
	// loan-amount 1000000 at leased-asset price 50 and LPN price 1 must
	// value the position at 50000000 LPN.
	loanAmnt := dec("1000000")
	leasePrice := dec("50")
	lpnPrice := dec("1")

	lpnLoan := loanAmnt.Mul(leasePrice).Div(lpnPrice)
	assert.True(t, lpnLoan.Equal(dec("50000000")))
}
