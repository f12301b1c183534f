// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govv1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	govv1beta1 "github.com/cosmos/cosmos-sdk/x/gov/types/v1beta1"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/proto"
	transfertypes "github.com/cosmos/ibc-go/v8/modules/apps/transfer/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	"github.com/shopspring/decimal"
)

// Type URLs of the top-level messages the ETL decodes into raw_message
// rows. Anything else is skipped.
const (
	TypeURLMsgSend                    = "/cosmos.bank.v1beta1.MsgSend"
	TypeURLMsgTransfer                = "/ibc.applications.transfer.v1.MsgTransfer"
	TypeURLMsgVoteLegacy              = "/cosmos.gov.v1beta1.MsgVote"
	TypeURLMsgVote                    = "/cosmos.gov.v1.MsgVote"
	TypeURLMsgRecvPacket              = "/ibc.core.channel.v1.MsgRecvPacket"
	TypeURLMsgWithdrawDelegatorReward = "/cosmos.distribution.v1beta1.MsgWithdrawDelegatorReward"
	TypeURLMsgDelegate                = "/cosmos.staking.v1beta1.MsgDelegate"
	TypeURLMsgBeginRedelegate         = "/cosmos.staking.v1beta1.MsgBeginRedelegate"
	TypeURLMsgUndelegate              = "/cosmos.staking.v1beta1.MsgUndelegate"
	TypeURLMsgExecuteContract         = "/cosmwasm.wasm.v1.MsgExecuteContract"
)

// RawMessage is one decoded top-level message of a transaction body.
// (tx_hash, index) is the primary key; index is the message's position in
// the body.
type RawMessage struct {
	Index     int32           `db:"index"`
	From      string          `db:"from"`
	To        string          `db:"to"`
	Type      string          `db:"type"`
	Value     string          `db:"value"`
	TxHash    string          `db:"tx_hash"`
	Block     int64           `db:"block"`
	FeeAmount decimal.Decimal `db:"fee_amount"`
	FeeDenom  *string         `db:"fee_denom"`
	Memo      string          `db:"memo"`
	Code      int64           `db:"code"`
	Timestamp time.Time       `db:"timestamp"`
}

// RawMessageParams carries the per-message context RawMessageFromAny needs.
type RawMessageParams struct {
	Index     int32
	Any       *codectypes.Any
	TxHash    string
	Block     int64
	Timestamp time.Time
	FeeAmount decimal.Decimal
	FeeDenom  *string
	Memo      string
	Code      int64
	// Subscribe keys; a MsgExecuteContract is kept only when its JSON
	// payload mentions one of them at the top level.
	Events []string
}

// ibcPacketData is the fungible-token packet payload carried by
// MsgRecvPacket.
type ibcPacketData struct {
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
}

// RawMessageFromAny decodes one Any into a RawMessage. It returns
// (nil, nil) when the message should be skipped: unknown type URL, or a
// contract execution whose payload mentions none of the subscribe keys.
func RawMessageFromAny(p RawMessageParams) (*RawMessage, error) {
	var from, to string

	switch p.Any.TypeUrl {
	case TypeURLMsgSend:
		var m banktypes.MsgSend
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.FromAddress, m.ToAddress
	case TypeURLMsgTransfer:
		var m transfertypes.MsgTransfer
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.Sender, m.Receiver
	case TypeURLMsgVoteLegacy:
		var m govv1beta1.MsgVote
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.Voter, fmt.Sprintf("%d", m.ProposalId)
	case TypeURLMsgVote:
		var m govv1.MsgVote
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.Voter, fmt.Sprintf("%d", m.ProposalId)
	case TypeURLMsgRecvPacket:
		var m channeltypes.MsgRecvPacket
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		var data ibcPacketData
		if err := json.Unmarshal(m.Packet.Data, &data); err != nil {
			return nil, fmt.Errorf("decode packet data: %w", err)
		}
		from, to = data.Sender, data.Receiver
	case TypeURLMsgWithdrawDelegatorReward:
		var m distrtypes.MsgWithdrawDelegatorReward
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.DelegatorAddress, m.ValidatorAddress
	case TypeURLMsgDelegate:
		var m stakingtypes.MsgDelegate
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.DelegatorAddress, m.ValidatorAddress
	case TypeURLMsgBeginRedelegate:
		var m stakingtypes.MsgBeginRedelegate
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.DelegatorAddress, m.ValidatorDstAddress
	case TypeURLMsgUndelegate:
		var m stakingtypes.MsgUndelegate
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		from, to = m.DelegatorAddress, m.ValidatorAddress
	case TypeURLMsgExecuteContract:
		var m wasmtypes.MsgExecuteContract
		if err := proto.Unmarshal(p.Any.Value, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", p.Any.TypeUrl, err)
		}
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(m.Msg, &payload); err != nil {
			return nil, fmt.Errorf("decode contract payload: %w", err)
		}
		if !mentionsAny(payload, p.Events) {
			return nil, nil
		}
		from, to = m.Sender, m.Contract
	default:
		return nil, nil
	}

	return &RawMessage{
		Index:     p.Index,
		From:      from,
		To:        to,
		Type:      p.Any.TypeUrl,
		Value:     base64.StdEncoding.EncodeToString(p.Any.Value),
		TxHash:    p.TxHash,
		Block:     p.Block,
		FeeAmount: p.FeeAmount,
		FeeDenom:  p.FeeDenom,
		Memo:      p.Memo,
		Code:      p.Code,
		Timestamp: p.Timestamp,
	}, nil
}

func mentionsAny(payload map[string]json.RawMessage, keys []string) bool {
	for _, key := range keys {
		if _, ok := payload[key]; ok {
			return true
		}
	}
	return false
}
