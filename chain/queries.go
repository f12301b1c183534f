// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	cmtservice "github.com/cosmos/cosmos-sdk/client/grpc/cmtservice"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/query"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// leaseStateQueryUpgradeHeight is the chain height at which the lease
// contract switched its state query shape from {} to {"state":{}}.
// Historical queries below it must use the old shape.
const leaseStateQueryUpgradeHeight int64 = 10958318

// TxResult pairs the decoded transaction with its execution response.
type TxResult struct {
	Tx       *txtypes.Tx
	Response *sdk.TxResponse
}

// GetLatestBlock returns the node's current height.
func (c *Client) GetLatestBlock(ctx context.Context) (int64, error) {
	return invoke(ctx, c, func(ctx context.Context, conn grpcConn) (int64, error) {
		resp, err := cmtservice.NewServiceClient(conn).GetLatestBlock(ctx, &cmtservice.GetLatestBlockRequest{})
		if err != nil {
			return 0, err
		}
		if resp.SdkBlock == nil {
			return 0, ErrMissingBlock
		}
		return resp.SdkBlock.Header.Height, nil
	})
}

// GetBlock fetches a block and resolves every transaction in it
// individually by its content hash. Transactions the tx index does not
// know yet come back as nil entries.
func (c *Client) GetBlock(ctx context.Context, height int64) ([]*TxResult, time.Time, error) {
	resp, err := invoke(ctx, c, func(ctx context.Context, conn grpcConn) (*cmtservice.GetBlockByHeightResponse, error) {
		return cmtservice.NewServiceClient(conn).GetBlockByHeight(ctx, &cmtservice.GetBlockByHeightRequest{Height: height})
	})
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query block %d: %w", height, err)
	}
	if resp.SdkBlock == nil {
		return nil, time.Time{}, ErrMissingBlock
	}
	timestamp := resp.SdkBlock.Header.Time

	txs := resp.SdkBlock.Data.Txs
	results := make([]*TxResult, 0, len(txs))
	for _, raw := range txs {
		res, err := c.GetTx(ctx, TxHash(raw), height)
		if err != nil {
			return nil, time.Time{}, err
		}
		results = append(results, res)
	}
	return results, timestamp, nil
}

// GetTx resolves one transaction by hash. A NotFound response yields
// (nil, nil) so callers can skip transactions the index dropped.
func (c *Client) GetTx(ctx context.Context, hash string, height int64) (*TxResult, error) {
	resp, err := invoke(ctx, c, func(ctx context.Context, conn grpcConn) (*txtypes.GetTxResponse, error) {
		return txtypes.NewServiceClient(conn).GetTx(ctx, &txtypes.GetTxRequest{Hash: hash})
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("query tx %s at %d: %w", hash, height, err)
	}
	if resp.TxResponse == nil {
		return nil, nil
	}
	return &TxResult{Tx: resp.Tx, Response: resp.TxResponse}, nil
}

// GetBalances returns the bank balances of an address at the latest height.
func (c *Client) GetBalances(ctx context.Context, address string) ([]sdk.Coin, error) {
	return c.balances(ctx, address)
}

// GetBalancesByBlock returns the bank balances of an address pinned to a
// historical height.
func (c *Client) GetBalancesByBlock(ctx context.Context, address string, height int64) ([]sdk.Coin, error) {
	return c.balances(atHeight(ctx, height), address)
}

func (c *Client) balances(ctx context.Context, address string) ([]sdk.Coin, error) {
	resp, err := invoke(ctx, c, func(ctx context.Context, conn grpcConn) (*banktypes.QueryAllBalancesResponse, error) {
		return banktypes.NewQueryClient(conn).AllBalances(ctx, &banktypes.QueryAllBalancesRequest{
			Address:    address,
			Pagination: &query.PageRequest{Limit: 10, CountTotal: true},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("query balances of %s: %w", address, err)
	}
	return resp.Balances, nil
}

// smart runs one smart-contract query and decodes the JSON response into
// out.
func (c *Client) smart(ctx context.Context, contract string, queryData []byte, out any) error {
	data, err := invoke(ctx, c, func(ctx context.Context, conn grpcConn) ([]byte, error) {
		resp, err := wasmtypes.NewQueryClient(conn).SmartContractState(ctx, &wasmtypes.QuerySmartContractStateRequest{
			Address:   contract,
			QueryData: queryData,
		})
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", contract, queryData, err)
	}
	return nil
}

// GetLeaseState queries a lease contract's current state.
func (c *Client) GetLeaseState(ctx context.Context, contract string) (*LeaseState, error) {
	var out LeaseState
	if err := c.smart(ctx, contract, []byte(`{"state": {}}`), &out); err != nil {
		return nil, fmt.Errorf("query lease state %s: %w", contract, err)
	}
	return &out, nil
}

// GetLeaseStateByBlock queries a lease contract's state pinned to a
// height, honoring the query-shape upgrade boundary.
func (c *Client) GetLeaseStateByBlock(ctx context.Context, contract string, height int64) (*LeaseState, error) {
	queryData := []byte(`{"state": {}}`)
	if height < leaseStateQueryUpgradeHeight {
		queryData = []byte(`{}`)
	}
	var out LeaseState
	if err := c.smart(atHeight(ctx, height), contract, queryData, &out); err != nil {
		return nil, fmt.Errorf("query lease state %s at %d: %w", contract, height, err)
	}
	return &out, nil
}

// GetLeaseRawStateByBlock reads the lease's raw storage entry under the
// "state" key, pinned to a height.
func (c *Client) GetLeaseRawStateByBlock(ctx context.Context, contract string, height int64) (*LeaseRawState, error) {
	data, err := invoke(atHeight(ctx, height), c, func(ctx context.Context, conn grpcConn) ([]byte, error) {
		resp, err := wasmtypes.NewQueryClient(conn).RawContractState(ctx, &wasmtypes.QueryRawContractStateRequest{
			Address:   contract,
			QueryData: []byte("state"),
		})
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	})
	if err != nil {
		return nil, fmt.Errorf("query lease raw state %s at %d: %w", contract, height, err)
	}
	var out LeaseRawState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode lease raw state %s at %d: %w", contract, height, err)
	}
	return &out, nil
}

// GetLppPrice queries a pool's receipt price.
func (c *Client) GetLppPrice(ctx context.Context, pool string) (*LppPrice, error) {
	var out LppPrice
	if err := c.smart(ctx, pool, []byte(`{"price": []}`), &out); err != nil {
		return nil, fmt.Errorf("query lpp price %s: %w", pool, err)
	}
	return &out, nil
}

// GetLppBalance queries a pool's balance state.
func (c *Client) GetLppBalance(ctx context.Context, pool string) (*LppBalance, error) {
	var out LppBalance
	if err := c.smart(ctx, pool, []byte(`{"lpp_balance": []}`), &out); err != nil {
		return nil, fmt.Errorf("query lpp balance %s: %w", pool, err)
	}
	return &out, nil
}

// GetLppConfig queries a pool's configuration.
func (c *Client) GetLppConfig(ctx context.Context, pool string) (*LppConfig, error) {
	var out LppConfig
	if err := c.smart(ctx, pool, []byte(`{"config": []}`), &out); err != nil {
		return nil, fmt.Errorf("query lpp config %s: %w", pool, err)
	}
	return &out, nil
}

// GetBalanceState queries a lender's LPN receipt balance in a pool.
func (c *Client) GetBalanceState(ctx context.Context, pool, lender string) (*ReceiptBalance, error) {
	queryData, err := json.Marshal(map[string]any{"balance": map[string]string{"address": lender}})
	if err != nil {
		return nil, err
	}
	var out ReceiptBalance
	if err := c.smart(ctx, pool, queryData, &out); err != nil {
		return nil, fmt.Errorf("query balance state %s/%s: %w", pool, lender, err)
	}
	return &out, nil
}

// GetPrices queries an oracle's full price list; the protocol tag is
// passed through for the caller.
func (c *Client) GetPrices(ctx context.Context, oracle, protocol string) (*OraclePrices, string, error) {
	var out OraclePrices
	if err := c.smart(ctx, oracle, []byte(`{"prices": {}}`), &out); err != nil {
		return nil, "", fmt.Errorf("query oracle prices %s: %w", oracle, err)
	}
	return &out, protocol, nil
}

// GetStablePrice queries an oracle's stable price for one ticker.
func (c *Client) GetStablePrice(ctx context.Context, oracle, ticker string) (*OraclePrice, error) {
	queryData, err := json.Marshal(map[string]any{"stable_price": map[string]string{"currency": ticker}})
	if err != nil {
		return nil, err
	}
	var out OraclePrice
	if err := c.smart(ctx, oracle, queryData, &out); err != nil {
		return nil, fmt.Errorf("query stable price %s/%s: %w", oracle, ticker, err)
	}
	return &out, nil
}

// GetBaseCurrency queries an oracle's base currency ticker.
func (c *Client) GetBaseCurrency(ctx context.Context, oracle string) (string, error) {
	var out string
	if err := c.smart(ctx, oracle, []byte(`{"base_currency": {}}`), &out); err != nil {
		return "", fmt.Errorf("query base currency %s: %w", oracle, err)
	}
	return out, nil
}

// GetAdminConfig lists the protocol names the admin contract knows.
func (c *Client) GetAdminConfig(ctx context.Context, admin string) ([]string, error) {
	var out []string
	if err := c.smart(ctx, admin, []byte(`{"protocols": {}}`), &out); err != nil {
		return nil, fmt.Errorf("query admin config %s: %w", admin, err)
	}
	return out, nil
}

// GetProtocolConfig resolves one protocol's contract set from the admin
// contract.
func (c *Client) GetProtocolConfig(ctx context.Context, admin, protocol string) (*ProtocolConfig, error) {
	queryData, err := json.Marshal(map[string]string{"protocol": protocol})
	if err != nil {
		return nil, err
	}
	var out ProtocolConfig
	if err := c.smart(ctx, admin, queryData, &out); err != nil {
		return nil, fmt.Errorf("query protocol config %s/%s: %w", admin, protocol, err)
	}
	out.Protocol = protocol
	return &out, nil
}
