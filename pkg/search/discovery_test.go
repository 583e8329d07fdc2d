// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func openapiDoc(paths string) []byte {
	return []byte(`{
		"openapi": "3.0.0",
		"info": {"title": "gateway", "version": "1.0.0"},
		"paths": ` + paths + `
	}`)
}

func TestToolsFromDocument(t *testing.T) {
	client := mustMCPOClient(t, MCPOConfig{BaseURL: "http://localhost:8000", Server: "math"})

	cases := []struct {
		name  string
		paths string
		want  []string
	}{
		{
			name: "post paths under the server namespace",
			paths: `{
				"/math/add": {"post": {"responses": {"200": {"description": "ok"}}}},
				"/math/multiply": {"post": {"responses": {"200": {"description": "ok"}}}}
			}`,
			want: []string{"add", "multiply"},
		},
		{
			name:  "get-only paths are not tools",
			paths: `{"/math/status": {"get": {"responses": {"200": {"description": "ok"}}}}}`,
			want:  nil,
		},
		{
			name: "documentation routes are skipped",
			paths: `{
				"/math/openapi.json": {"post": {"responses": {"200": {"description": "ok"}}}},
				"/math/docs": {"post": {"responses": {"200": {"description": "ok"}}}},
				"/math/redoc": {"post": {"responses": {"200": {"description": "ok"}}}},
				"/math/add": {"post": {"responses": {"200": {"description": "ok"}}}}
			}`,
			want: []string{"add"},
		},
		{
			name:  "server root path is not a tool",
			paths: `{"/math": {"post": {"responses": {"200": {"description": "ok"}}}}}`,
			want:  nil,
		},
		{
			name: "duplicate tool names collapse",
			paths: `{
				"/math/add": {"post": {"responses": {"200": {"description": "ok"}}}},
				"/v2/math/add": {"post": {"responses": {"200": {"description": "ok"}}}}
			}`,
			want: []string{"add"},
		},
		{
			name: "template placeholders are dropped",
			paths: `{
				"/math/add/{id}": {"post": {"responses": {"200": {"description": "ok"}}}}
			}`,
			want: []string{"add"},
		},
		{
			name:  "empty paths object",
			paths: `{}`,
			want:  nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := client.toolsFromDocument(openapiDoc(tc.paths))
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestToolsFromDocument_ServerBasePath(t *testing.T) {
	client := mustMCPOClient(t, MCPOConfig{BaseURL: "http://localhost:8000", Server: "math"})
	doc := []byte(`{
		"openapi": "3.0.0",
		"info": {"title": "gateway", "version": "1.0.0"},
		"servers": [{"url": "http://localhost:8000/api"}],
		"paths": {
			"/api/search": {"post": {"responses": {"200": {"description": "ok"}}}}
		}
	}`)

	got := client.toolsFromDocument(doc)
	if !reflect.DeepEqual(got, []string{"search"}) {
		t.Errorf("expected base path stripped, got %v", got)
	}
}

func TestToolsFromDocument_Unparseable(t *testing.T) {
	client := mustMCPOClient(t, MCPOConfig{BaseURL: "http://localhost:8000", Server: "math"})
	// Valid JSON, but not a mapping: discovery degrades to no tools.
	if got := client.toolsFromDocument([]byte(`[1, 2, 3]`)); got != nil {
		t.Errorf("expected no tools, got %v", got)
	}
}

func TestDiscoverTools(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write(openapiDoc(`{"/math/add": {"post": {"responses": {"200": {"description": "ok"}}}}}`))
	}))
	defer server.Close()

	client := mustMCPOClient(t, MCPOConfig{
		BaseURL: server.URL,
		Server:  "math",
		APIKey:  "secret",
	})
	tools, err := client.DiscoverTools(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(tools, []string{"add"}) {
		t.Errorf("expected [add], got %v", tools)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer auth on discovery, got %q", gotAuth)
	}
	if gotPath != "/math/openapi.json" {
		t.Errorf("expected default document path, got %q", gotPath)
	}
}

func TestDiscoverTools_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := mustMCPOClient(t, MCPOConfig{BaseURL: server.URL, Server: "math"})
	if _, err := client.DiscoverTools(context.Background()); err == nil {
		t.Fatal("expected error for non-JSON document")
	}
}

func TestDiscoverTools_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := mustMCPOClient(t, MCPOConfig{BaseURL: server.URL, Server: "math"})
	if _, err := client.DiscoverTools(context.Background()); err == nil {
		t.Fatal("expected error for 403 response")
	}
}
