// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"
)

// ParseTuples splits a tuple-list value of the form
// [(a,b,c),(d,e,f)] into its comma-separated elements. Whitespace around
// elements is trimmed. An empty string yields no tuples.
func ParseTuples(raw string) ([][]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil, fmt.Errorf("tuple list must be bracketed: %q", raw)
	}
	body := raw[1 : len(raw)-1]
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	var out [][]string
	for len(body) > 0 {
		open := strings.IndexByte(body, '(')
		if open < 0 {
			break
		}
		end := strings.IndexByte(body[open:], ')')
		if end < 0 {
			return nil, fmt.Errorf("unterminated tuple in %q", raw)
		}
		inner := body[open+1 : open+end]
		parts := strings.Split(inner, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		out = append(out, parts)
		body = body[open+end+1:]
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no tuples found in %q", raw)
	}
	return out, nil
}
