// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestRetryableCodes(t *testing.T) {
	assert.True(t, retryable(status.Error(codes.Canceled, "canceled")))
	assert.True(t, retryable(status.Error(codes.Internal, "internal")))
	assert.True(t, retryable(status.Error(codes.Unknown, "unknown")))

	assert.False(t, retryable(status.Error(codes.NotFound, "not found")))
	assert.False(t, retryable(status.Error(codes.InvalidArgument, "bad")))
	assert.False(t, retryable(status.Error(codes.Unavailable, "down")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(status.Error(codes.NotFound, "tx missing")))
	assert.False(t, isNotFound(status.Error(codes.Internal, "boom")))
	assert.False(t, isNotFound(errors.New("plain")))
}

func TestTxHash(t *testing.T) {
	// SHA-256 of "abc", uppercased, as Tendermint content-addresses txs.
	got := TxHash([]byte("abc"))
	assert.Equal(t,
		"BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD", got)
	assert.Len(t, got, 64)
}
