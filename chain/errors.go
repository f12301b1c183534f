// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	// ErrMissingBlock is returned when a block query response carries no
	// block information
	ErrMissingBlock = errors.New("query response doesn't contain block information")

	// ErrMissingHeader is returned when a block response carries no header
	ErrMissingHeader = errors.New("query response doesn't contain block header information")

	// ErrMissingBlockData is returned when a block response carries no
	// transaction data
	ErrMissingBlockData = errors.New("query response doesn't contain block data")

	// ErrRetriesExhausted wraps the final status after the retry budget is
	// spent on a transient code
	ErrRetriesExhausted = errors.New("rpc retries exhausted")
)
