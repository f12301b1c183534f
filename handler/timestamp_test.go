// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nolus-protocol/extract-transform-load-sub000/event"
)

func TestParseEventTimestamp(t *testing.T) {
	ts, err := ParseEventTimestamp("1700000000123456789")
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), ts)
}

func TestParseEventTimestampInvalid(t *testing.T) {
	_, err := ParseEventTimestamp("not-a-number")
	var decodeErr *DecodeDateTimeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestInterestColumns(t *testing.T) {
	cols, err := interestColumns(event.InterestValues{
		PrevMarginInterest: "5",
		PrevLoanInterest:   "6",
		CurrMarginInterest: "7",
		CurrLoanInterest:   "8",
	})
	require.NoError(t, err)
	assert.True(t, cols.prevMargin.Equal(dec("5")))
	assert.True(t, cols.currInterest.Equal(dec("8")))
}

func TestInterestColumnsRejectsGarbage(t *testing.T) {
	_, err := interestColumns(event.InterestValues{PrevMarginInterest: "x"})
	assert.Error(t, err)
}
