// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"strings"
	"testing"
)

func TestNormalizeItem_Object(t *testing.T) {
	item := map[string]any{
		"title":   "Go Concurrency",
		"url":     "https://example.com/go",
		"snippet": "Goroutines and channels",
		"content": "Full article text",
		"score":   0.9,
	}

	res := normalizeItem(item, 1)
	if res.Title != "Go Concurrency" {
		t.Errorf("expected title from item, got %q", res.Title)
	}
	if res.URL != "https://example.com/go" {
		t.Errorf("expected URL from item, got %q", res.URL)
	}
	if res.Description != "Goroutines and channels" {
		t.Errorf("expected snippet as description, got %q", res.Description)
	}
	if res.Content != "Full article text" {
		t.Errorf("expected content field verbatim, got %q", res.Content)
	}
	if res.Metadata["score"] != 0.9 {
		t.Errorf("expected full item as metadata, got %v", res.Metadata)
	}
}

func TestNormalizeItem_TitleFallbacks(t *testing.T) {
	cases := []struct {
		name string
		item map[string]any
		want string
	}{
		{"name over id", map[string]any{"name": "doc-a", "id": "x1"}, "doc-a"},
		{"id when title empty", map[string]any{"title": "", "id": "x1"}, "x1"},
		{"numeric id", map[string]any{"id": float64(7)}, "7"},
		{"positional when all empty", map[string]any{"title": "", "name": ""}, "Result 3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeItem(tc.item, 3).Title; got != tc.want {
				t.Errorf("expected title %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeItem_ContentFallsBackToWholeObject(t *testing.T) {
	res := normalizeItem(map[string]any{"a": float64(1)}, 1)
	want := "{\n  \"a\": 1\n}"
	if res.Content != want {
		t.Errorf("expected indented JSON content, got %q", res.Content)
	}
	// Description derives from content when no descriptive field exists.
	if res.Description != want {
		t.Errorf("expected derived description, got %q", res.Description)
	}
}

func TestNormalizeItem_StructuredContent(t *testing.T) {
	res := normalizeItem(map[string]any{
		"title":   "t",
		"content": map[string]any{"nested": true},
	}, 1)
	if !strings.Contains(res.Content, "\"nested\": true") {
		t.Errorf("expected stringified structured content, got %q", res.Content)
	}
}

func TestNormalizeItem_String(t *testing.T) {
	res := normalizeItem("hello", 2)
	if res.Title != "Result 2" {
		t.Errorf("expected positional title, got %q", res.Title)
	}
	if res.Content != "hello" {
		t.Errorf("expected verbatim content, got %q", res.Content)
	}
	if res.Description != "hello" {
		t.Errorf("expected derived description, got %q", res.Description)
	}
	if res.Metadata == nil {
		t.Error("expected non-nil metadata map")
	}
}

func TestNormalizeItem_Scalar(t *testing.T) {
	res := normalizeItem(float64(42), 1)
	if res.Content != "42" {
		t.Errorf("expected stringified scalar, got %q", res.Content)
	}
}

func TestNormalizeItem_DescriptionTruncation(t *testing.T) {
	long := strings.Repeat("x", 450)
	res := normalizeItem(map[string]any{"content": long}, 1)
	if len([]rune(res.Description)) != 200 {
		t.Errorf("expected 200-rune description, got %d runes", len([]rune(res.Description)))
	}
	if res.Content != long {
		t.Error("content must not be truncated")
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{"", false},
		{"x", true},
		{false, false},
		{true, true},
		{float64(0), false},
		{float64(1), true},
		{[]any{}, false},
		{[]any{1}, true},
		{map[string]any{}, false},
		{map[string]any{"k": 1}, true},
	}
	for _, tc := range cases {
		if got := truthy(tc.value); got != tc.want {
			t.Errorf("truthy(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
