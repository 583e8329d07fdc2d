// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"encoding/json"
	"fmt"
)

const maxDerivedDescription = 200

// normalizeItem converts one raw gateway item into a Result. Objects keep
// their full map as metadata and derive display fields from conventional
// keys; strings become the content verbatim; every other value is
// stringified. Every branch yields a title, content, and a non-nil
// metadata map.
func normalizeItem(item any, position int) Result {
	res := Result{
		Title:    fmt.Sprintf("Result %d", position),
		Metadata: map[string]any{},
	}

	switch v := item.(type) {
	case map[string]any:
		res.Metadata = v

		for _, key := range []string{"title", "name", "id"} {
			if val := v[key]; truthy(val) {
				res.Title = displayString(val)
				break
			}
		}

		urlVal := v["url"]
		if !truthy(urlVal) {
			urlVal = v["link"]
		}
		if s, ok := urlVal.(string); ok {
			res.URL = s
		}

		descVal := v["description"]
		if !truthy(descVal) {
			descVal = v["summary"]
		}
		if !truthy(descVal) {
			descVal = v["snippet"]
		}
		if s, ok := descVal.(string); ok {
			res.Description = s
		}

		if content := v["content"]; content != nil {
			res.Content = stringify(content)
		} else {
			res.Content = stringify(v)
		}
	case string:
		res.Content = v
	default:
		res.Content = stringify(item)
	}

	if res.Description == "" && res.Content != "" {
		res.Description = truncate(res.Content, maxDerivedDescription)
	}
	return res
}

// stringify renders a value as text: strings verbatim, objects and arrays
// as indented JSON, other scalars as their JSON literal.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	switch v.(type) {
	case map[string]any, []any:
		if b, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(b)
		}
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// displayString renders a title candidate: strings verbatim, everything
// else as compact JSON.
func displayString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}

// truthy reports whether a decoded JSON value is non-empty: nil, "",
// false, 0, and empty collections all count as empty.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
