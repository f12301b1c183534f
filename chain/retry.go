// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// retryAttempts is the total number of tries per call before the
// transient status is surfaced.
const retryAttempts = 10

// retryable reports whether the error is a transient node-side fault.
// Everything else (NotFound, InvalidArgument, ...) is propagated at once.
func retryable(err error) bool {
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.Canceled, codes.Internal, codes.Unknown:
		return true
	}
	return false
}

// isNotFound reports a NotFound status; missing transactions map to nil
// results instead of errors.
func isNotFound(err error) bool {
	s, ok := status.FromError(err)
	return ok && s.Code() == codes.NotFound
}

// invoke runs one RPC under a pool permit with the constant-interval
// retry policy applied.
func invoke[T any](ctx context.Context, c *Client, call func(ctx context.Context, conn grpcConn) (T, error)) (T, error) {
	var zero T
	if err := c.permits.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	defer c.permits.Release(1)

	var out T
	op := func() error {
		var err error
		out, err = call(ctx, c.conn())
		if err == nil {
			return nil
		}
		if retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewConstantBackOff(c.cfg.TasksInterval), retryAttempts-1),
		ctx)

	if err := backoff.Retry(op, policy); err != nil {
		if retryable(err) {
			return zero, fmt.Errorf("%w: %v", ErrRetriesExhausted, err)
		}
		return zero, err
	}
	return out, nil
}
