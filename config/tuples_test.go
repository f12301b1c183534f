// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTuples(t *testing.T) {
	tuples, err := ParseTuples("[(OSMO,6,ibc/abc),(NLS,6,unls)]")
	require.NoError(t, err)
	require.Len(t, tuples, 2)
	assert.Equal(t, []string{"OSMO", "6", "ibc/abc"}, tuples[0])
	assert.Equal(t, []string{"NLS", "6", "unls"}, tuples[1])
}

func TestParseTuplesTrimsWhitespace(t *testing.T) {
	tuples, err := ParseTuples("[( OSMO , 6 , ibc/abc )]")
	require.NoError(t, err)
	require.Len(t, tuples, 1)
	assert.Equal(t, []string{"OSMO", "6", "ibc/abc"}, tuples[0])
}

func TestParseTuplesEmpty(t *testing.T) {
	tuples, err := ParseTuples("")
	require.NoError(t, err)
	assert.Nil(t, tuples)
}

func TestParseTuplesRejectsUnbracketed(t *testing.T) {
	_, err := ParseTuples("(a,b)")
	assert.Error(t, err)
}

func TestParseTuplesRejectsUnterminated(t *testing.T) {
	_, err := ParseTuples("[(a,b]")
	assert.Error(t, err)
}

func TestParseCurrencies(t *testing.T) {
	currencies, err := parseCurrencies("[(OSMO,6,ibc/abc),(WBTC,8,ibc/def)]")
	require.NoError(t, err)
	require.Len(t, currencies, 2)
	assert.Equal(t, Currency{Ticker: "OSMO", Decimals: 6, BankDenom: "IBC/ABC"}, currencies[0])
	assert.Equal(t, int32(8), currencies[1].Decimals)
}

func TestParsePools(t *testing.T) {
	pools, err := parsePools("[(nolus1pool,USDC,Long,true),(nolus2pool,USDC_NOBLE,Short,false)]")
	require.NoError(t, err)
	require.Len(t, pools, 2)
	assert.Equal(t, Long, pools[0].PositionType)
	assert.True(t, pools[0].Active)
	assert.Equal(t, Short, pools[1].PositionType)
	assert.False(t, pools[1].Active)
}

func TestParsePoolsRejectsUnknownPositionType(t *testing.T) {
	_, err := parsePools("[(nolus1pool,USDC,Sideways,true)]")
	assert.Error(t, err)
}
