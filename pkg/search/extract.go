// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package search

import "strconv"

// containerKeys are the conventional wrapper keys probed, in priority
// order, when a response resolves to an object rather than an array.
var containerKeys = [...]string{"results", "items", "data", "documents"}

// extractContainer walks the decoded response along the configured result
// path and returns the value holding the results. Missing keys,
// out-of-range indexes, and descents into scalars all yield nil ("no
// result") rather than an error: the upstream schema is uncontrolled, so
// extraction is best-effort by design.
func (c *MCPOClient) extractContainer(data any) any {
	current := data
	for _, token := range c.resultPath {
		switch v := current.(type) {
		case map[string]any:
			current = v[token]
		case []any:
			idx, ok := indexToken(token)
			if !ok || idx >= len(v) {
				return nil
			}
			current = v[idx]
		default:
			return nil
		}
	}

	if m, ok := current.(map[string]any); ok {
		for _, key := range containerKeys {
			if list, ok := m[key].([]any); ok {
				return list
			}
		}
	}
	return current
}

// indexToken reports whether the token is a non-negative integer index.
// Signs are rejected: "1" descends, "-1" and "+1" do not.
func indexToken(token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return idx, true
}
