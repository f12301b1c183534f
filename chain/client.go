// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chain is the typed gRPC access layer to the archival node:
// Tendermint block/tx queries, bank queries and CosmWasm smart queries.
// Calls share a channel pool and a process-wide permit semaphore, and
// retry transient status codes with a constant interval.
package chain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	grpctypes "github.com/cosmos/cosmos-sdk/types/grpc"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"

	"github.com/nolus-protocol/extract-transform-load-sub000/config"
)

const maxRecvMsgSize = 10 * 1024 * 1024

// grpcConn is what the generated query clients dial through; an alias so
// tests can substitute an in-memory implementation.
type grpcConn = grpc.ClientConnInterface

// Client multiplexes requests over a fixed pool of HTTP/2 channels and
// caps concurrent outbound RPCs with a weighted semaphore.
type Client struct {
	cfg     *config.Config
	conns   []*grpc.ClientConn
	next    atomic.Uint64
	permits *semaphore.Weighted
}

// New dials cfg.GRPCConnections lazy channels against cfg.GRPCHost.
// Endpoints prefixed with https:// get TLS, anything else is dialed
// insecurely.
func New(cfg *config.Config) (*Client, error) {
	target := cfg.GRPCHost
	creds := insecure.NewCredentials()
	if strings.HasPrefix(target, "https://") {
		target = strings.TrimPrefix(target, "https://")
		creds = credentials.NewTLS(nil)
	}
	target = strings.TrimPrefix(target, "http://")

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                30 * time.Second,
			Timeout:             10 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxRecvMsgSize)),
		grpc.WithUserAgent("nolus-etl"),
	}

	conns := make([]*grpc.ClientConn, 0, cfg.GRPCConnections)
	for i := 0; i < cfg.GRPCConnections; i++ {
		conn, err := grpc.NewClient(target, opts...)
		if err != nil {
			for _, c := range conns {
				_ = c.Close()
			}
			return nil, err
		}
		conns = append(conns, conn)
	}

	return &Client{
		cfg:     cfg,
		conns:   conns,
		permits: semaphore.NewWeighted(int64(cfg.GRPCPermits)),
	}, nil
}

// Close tears down every channel in the pool.
func (c *Client) Close() error {
	var err error
	for _, conn := range c.conns {
		if cerr := conn.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// conn returns the next channel round-robin.
func (c *Client) conn() *grpc.ClientConn {
	n := c.next.Add(1)
	return c.conns[n%uint64(len(c.conns))]
}

// atHeight pins outgoing queries to a historical height via gRPC metadata.
func atHeight(ctx context.Context, height int64) context.Context {
	return metadata.AppendToOutgoingContext(ctx,
		grpctypes.GRPCBlockHeightHeader, strconv.FormatInt(height, 10))
}

// TxHash content-addresses raw transaction bytes the way Tendermint does:
// uppercase hex of their SHA-256.
func TxHash(txBytes []byte) string {
	sum := sha256.Sum256(txBytes)
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
