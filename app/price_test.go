// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package app

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInStableCalc(t *testing.T) {
	price := decimal.RequireFromString("1.25")
	got, err := InStableCalc(price, "1000000")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1250000")))
}

func TestInStableCalcKeepsRawScale(t *testing.T) {
	// No decimal scaling happens here; a raw integer string times a unit
	// price stays at on-chain scale.
	got, err := InStableCalc(decimal.NewFromInt(1), "123456789")
	require.NoError(t, err)
	assert.Equal(t, "123456789", got.String())
}

func TestInStableCalcRejectsGarbage(t *testing.T) {
	_, err := InStableCalc(decimal.NewFromInt(1), "12x")
	assert.Error(t, err)
}

func TestNotSupportedCurrencyError(t *testing.T) {
	err := &NotSupportedCurrencyError{Symbol: "FOO"}
	assert.Contains(t, err.Error(), "FOO")
}
