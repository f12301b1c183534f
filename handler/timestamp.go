// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package handler maps typed contract events to database rows. Every
// handler runs inside the enclosing block's transaction and converts
// amounts to stable units at the event's own timestamp.
package handler

import (
	"fmt"
	"strconv"
	"time"
)

// DecodeDateTimeError reports an unparseable event timestamp.
type DecodeDateTimeError struct {
	Value string
}

func (e *DecodeDateTimeError) Error() string {
	return fmt.Sprintf("decode datetime: %s", e.Value)
}

// ParseEventTimestamp parses the at attribute: nanoseconds since the Unix
// epoch as a decimal string. Sub-second precision is dropped so replayed
// events hash to the same natural key.
func ParseEventTimestamp(at string) (time.Time, error) {
	ns, err := strconv.ParseInt(at, 10, 64)
	if err != nil {
		return time.Time{}, &DecodeDateTimeError{Value: at}
	}
	return time.Unix(ns/1_000_000_000, 0).UTC(), nil
}
