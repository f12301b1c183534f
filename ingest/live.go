// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	cmttypes "github.com/cometbft/cometbft/types"

	"github.com/nolus-protocol/extract-transform-load-sub000/app"
	"github.com/nolus-protocol/extract-transform-load-sub000/metrics"
)

const (
	// blockPropagationDelay gives the gRPC node time to index a block the
	// WebSocket already announced.
	blockPropagationDelay = time.Second

	// blockMaxRetries bounds the per-block attempts before a height is
	// skipped and left to the gap-fill loop.
	blockMaxRetries = 3

	// maxConsecutiveFailures is the circuit breaker: this many skipped
	// blocks in a row means the infrastructure is down and the session
	// should reconnect cleanly.
	maxConsecutiveFailures = 10

	// heightQueueCapacity bounds the producer/consumer channel.
	heightQueueCapacity = 64

	subscriberName = "nolus-etl"
)

// Live is the WebSocket ingestion loop: one reconnecting session feeding
// block heights into a bounded consumer.
type Live struct {
	state *app.State
}

func NewLive(s *app.State) *Live {
	return &Live{state: s}
}

// Run reconnects forever until the context ends. Each cycle re-spawns the
// gap-fill scheduler so missed heights are revisited.
func (l *Live) Run(ctx context.Context) error {
	if !l.state.Config.EnableSync {
		return nil
	}

	for {
		go func() {
			if err := StartSync(ctx, l.state); err != nil {
				l.state.Log.Errorw("synchronization failed", "err", err)
			}
		}()

		if err := l.runSession(ctx); err != nil {
			l.state.Log.Errorw("websocket session ended, reconnecting", "err", err)
		}
		metrics.Reconnects.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.state.Config.SocketReconnectInterval):
		}
	}
}

// runSession opens one WebSocket connection, subscribes to NewBlock and
// pumps heights into the consumer. Cleanup runs on every exit path: the
// channel is closed so the consumer drains, the client is stopped, and
// both goroutines are awaited.
func (l *Live) runSession(ctx context.Context) error {
	client, err := rpchttp.New(l.state.Config.WebSocketHost, "/websocket")
	if err != nil {
		return fmt.Errorf("create websocket client: %w", err)
	}
	if err := client.Start(); err != nil {
		return fmt.Errorf("start websocket client: %w", err)
	}
	l.state.Log.Infow("websocket connected", "host", l.state.Config.WebSocketHost)

	heights := make(chan int64, heightQueueCapacity)
	consumerGone := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(consumerGone)
		l.consume(ctx, heights)
	}()

	err = l.produce(ctx, client, heights, consumerGone)

	// Guaranteed cleanup, regardless of how produce exited.
	close(heights)
	if stopErr := client.Stop(); stopErr != nil {
		l.state.Log.Errorw("websocket stop failed", "err", stopErr)
	}
	wg.Wait()

	return err
}

// produce subscribes to NewBlock events and forwards heights. It contains
// no processing logic.
func (l *Live) produce(ctx context.Context, client *rpchttp.HTTP, heights chan<- int64, consumerGone <-chan struct{}) error {
	events, err := client.Subscribe(ctx, subscriberName, cmttypes.EventQueryNewBlock.String())
	if err != nil {
		return fmt.Errorf("subscribe to NewBlock: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-consumerGone:
			l.state.Log.Errorw("block consumer stopped, ending websocket session")
			return nil
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("websocket event stream closed")
			}
			var height int64
			switch data := ev.Data.(type) {
			case cmttypes.EventDataNewBlock:
				if data.Block == nil {
					l.state.Log.Errorw("block event missing block data")
					continue
				}
				height = data.Block.Height
			case cmttypes.EventDataNewBlockHeader:
				height = data.Header.Height
			default:
				continue
			}

			select {
			case heights <- height:
			case <-consumerGone:
				l.state.Log.Errorw("block consumer stopped, ending websocket session")
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// consume processes heights with propagation delay, per-block retry and a
// consecutive-failure circuit breaker. Returning closes consumerGone,
// which makes the producer exit and triggers a reconnect.
func (l *Live) consume(ctx context.Context, heights <-chan int64) {
	consecutiveFailures := 0

	for height := range heights {
		select {
		case <-ctx.Done():
			return
		case <-time.After(blockPropagationDelay):
		}

		succeeded := false
		for attempt := 1; attempt <= blockMaxRetries; attempt++ {
			err := ProcessBlock(ctx, l.state, height)
			if err == nil {
				succeeded = true
				break
			}
			if attempt < blockMaxRetries {
				l.state.Log.Errorw("block processing failed, retrying",
					"height", height, "attempt", attempt, "max", blockMaxRetries, "err", err)
				// The growing backoff doubles as extra propagation time
				// for the gRPC node.
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Duration(2*attempt) * time.Second):
				}
			} else {
				l.state.Log.Errorw("block failed after all attempts, skipping",
					"height", height, "attempts", blockMaxRetries, "err", err)
			}
		}

		if succeeded {
			consecutiveFailures = 0
			continue
		}
		metrics.BlockFailures.Inc()
		consecutiveFailures++
		if consecutiveFailures >= maxConsecutiveFailures {
			l.state.Log.Errorw("aborting block consumer",
				"consecutive_failures", consecutiveFailures)
			return
		}
	}
}
