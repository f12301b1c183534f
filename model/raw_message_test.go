// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"testing"
	"time"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/gogoproto/proto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anyOf(t *testing.T, typeURL string, msg proto.Message) *codectypes.Any {
	t.Helper()
	value, err := proto.Marshal(msg)
	require.NoError(t, err)
	return &codectypes.Any{TypeUrl: typeURL, Value: value}
}

func params(anyMsg *codectypes.Any, events []string) RawMessageParams {
	return RawMessageParams{
		Index:     0,
		Any:       anyMsg,
		TxHash:    "ABCDEF",
		Block:     42,
		Timestamp: time.Unix(1700000000, 0).UTC(),
		FeeAmount: decimal.NewFromInt(250),
		Memo:      "",
		Code:      0,
		Events:    events,
	}
}

func TestRawMessageFromMsgSend(t *testing.T) {
	anyMsg := anyOf(t, TypeURLMsgSend, &banktypes.MsgSend{
		FromAddress: "nolus1from",
		ToAddress:   "nolus1to",
		Amount:      sdk.NewCoins(),
	})
	msg, err := RawMessageFromAny(params(anyMsg, nil))
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "nolus1from", msg.From)
	assert.Equal(t, "nolus1to", msg.To)
	assert.Equal(t, TypeURLMsgSend, msg.Type)
	assert.Equal(t, int64(42), msg.Block)
}

func TestRawMessageUnknownTypeSkipped(t *testing.T) {
	anyMsg := &codectypes.Any{TypeUrl: "/cosmos.authz.v1beta1.MsgGrant"}
	msg, err := RawMessageFromAny(params(anyMsg, nil))
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestRawMessageExecuteContractNeedsSubscribedKey(t *testing.T) {
	exec := &wasmtypes.MsgExecuteContract{
		Sender:   "nolus1sender",
		Contract: "nolus1contract",
		Msg:      []byte(`{"open_lease":{"currency":"OSMO"}}`),
	}
	anyMsg := anyOf(t, TypeURLMsgExecuteContract, exec)

	msg, err := RawMessageFromAny(params(anyMsg, []string{"open_lease"}))
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "nolus1contract", msg.To)

	msg, err = RawMessageFromAny(params(anyMsg, []string{"repay"}))
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestRawMessageBadProtoBytes(t *testing.T) {
	anyMsg := &codectypes.Any{TypeUrl: TypeURLMsgSend, Value: []byte{0xff, 0x01, 0x02}}
	_, err := RawMessageFromAny(params(anyMsg, nil))
	assert.Error(t, err)
}
