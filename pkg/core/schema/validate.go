// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// ValidationError reports a rejected connector configuration. It is fatal
// at persistence time, before any network call is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid connector config: " + e.Reason
	}
	return fmt.Sprintf("invalid connector config: %s %s", e.Field, e.Reason)
}

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// googleAuthKeys are the OAuth credential fields both Google connector
// kinds persist.
var googleAuthKeys = []string{
	"token",
	"refresh_token",
	"token_uri",
	"client_id",
	"client_secret",
	"scopes",
}

// configRule is the declarative validation rule for one connector kind.
type configRule struct {
	required []string
	optional []string
	// exact requires the config key set to equal the required set. When
	// false, required keys must be present and keys outside
	// required+optional are rejected unless allowExtra is set.
	exact      bool
	allowExtra bool
	// sanitize runs per-key coercions after the key-set checks. It may
	// rewrite values in place.
	sanitize func(config map[string]any) error
}

func exactRule(keys ...string) configRule {
	return configRule{required: keys, exact: true}
}

var connectorRules = map[ConnectorType]configRule{
	ConnectorTypeSerper:     exactRule("SERPER_API_KEY"),
	ConnectorTypeTavily:     exactRule("TAVILY_API_KEY"),
	ConnectorTypeLinkup:     exactRule("LINKUP_API_KEY"),
	ConnectorTypeSlack:      exactRule("SLACK_BOT_TOKEN"),
	ConnectorTypeNotion:     exactRule("NOTION_INTEGRATION_TOKEN"),
	ConnectorTypeLinear:     exactRule("LINEAR_API_KEY"),
	ConnectorTypeDiscord:    exactRule("DISCORD_BOT_TOKEN"),
	ConnectorTypeJira:       exactRule("JIRA_EMAIL", "JIRA_API_TOKEN", "JIRA_BASE_URL"),
	ConnectorTypeConfluence: exactRule("CONFLUENCE_BASE_URL", "CONFLUENCE_EMAIL", "CONFLUENCE_API_TOKEN"),
	ConnectorTypeClickUp:    exactRule("CLICKUP_API_TOKEN"),
	ConnectorTypeGitHub: {
		required: []string{"GITHUB_PAT", "repo_full_names"},
		exact:    true,
		sanitize: sanitizeGitHub,
	},
	ConnectorTypeGoogleCalendar: {required: googleAuthKeys, allowExtra: true},
	ConnectorTypeGoogleGmail:    {required: googleAuthKeys, allowExtra: true},
	ConnectorTypeMCPO: {
		required: []string{"MCPO_BASE_URL", "MCPO_SERVER"},
		optional: []string{
			"MCPO_API_KEY",
			"MCPO_QUERY_PARAM",
			"MCPO_STATIC_ARGS",
			"MCPO_RESULT_PATH",
			"MCPO_TIMEOUT",
			"MCPO_OPENAPI_URL",
			"MCPO_TOOLS",
			"MCPO_TOOL",
		},
		sanitize: sanitizeMCPO,
	},
}

// ValidateConnectorConfig checks and sanitizes a persisted connector
// configuration for the given kind, returning a sanitized copy. The input
// map is not mutated. Validation runs at persistence time only; query-time
// code assumes its input already passed here. Running the validator on its
// own output yields an identical result.
func ValidateConnectorConfig(connectorType ConnectorType, config map[string]any) (map[string]any, error) {
	rule, ok := connectorRules[connectorType]
	if !ok {
		return nil, invalidf("connector_type", "%q is not a supported connector type", connectorType)
	}

	out := make(map[string]any, len(config))
	for k, v := range config {
		out[k] = v
	}

	if rule.exact {
		if err := checkExactKeys(out, rule.required, connectorType); err != nil {
			return nil, err
		}
	} else if !rule.allowExtra {
		if err := checkAllowedKeys(out, rule.required, rule.optional, connectorType); err != nil {
			return nil, err
		}
	}

	for _, key := range rule.required {
		if isEmptyValue(out[key]) {
			return nil, invalidf(key, "is required and cannot be empty")
		}
	}

	if rule.sanitize != nil {
		if err := rule.sanitize(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func checkExactKeys(config map[string]any, required []string, connectorType ConnectorType) error {
	if len(config) != len(required) {
		return invalidf("", "for %s, config must only contain these keys: %v", connectorType, required)
	}
	for _, key := range required {
		if _, ok := config[key]; !ok {
			return invalidf("", "for %s, config must only contain these keys: %v", connectorType, required)
		}
	}
	return nil
}

func checkAllowedKeys(config map[string]any, required, optional []string, connectorType ConnectorType) error {
	allowed := make(map[string]bool, len(required)+len(optional))
	for _, key := range required {
		allowed[key] = true
	}
	for _, key := range optional {
		allowed[key] = true
	}

	var unexpected []string
	for key := range config {
		if !allowed[key] {
			unexpected = append(unexpected, key)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		return invalidf("", "for %s, config contains unexpected keys: %s", connectorType, strings.Join(unexpected, ", "))
	}

	var missing []string
	for _, key := range required {
		if _, ok := config[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return invalidf("", "missing required config values: %s", strings.Join(missing, ", "))
	}
	return nil
}

func sanitizeGitHub(config map[string]any) error {
	switch repos := config["repo_full_names"].(type) {
	case []any:
		if len(repos) == 0 {
			return invalidf("repo_full_names", "must be a non-empty list of strings")
		}
	case []string:
		if len(repos) == 0 {
			return invalidf("repo_full_names", "must be a non-empty list of strings")
		}
	default:
		return invalidf("repo_full_names", "must be a non-empty list of strings")
	}
	return nil
}

// sanitizeMCPO normalizes the gateway connector configuration in place:
// trimmed identifiers, JSON-encoded sub-fields decoded, the legacy
// singular tool key folded into MCPO_TOOLS.
func sanitizeMCPO(config map[string]any) error {
	base, ok := config["MCPO_BASE_URL"].(string)
	if !ok || strings.TrimSpace(base) == "" {
		return invalidf("MCPO_BASE_URL", "must be a non-empty string")
	}
	config["MCPO_BASE_URL"] = strings.TrimRight(strings.TrimSpace(base), "/")

	server, ok := config["MCPO_SERVER"].(string)
	if !ok || strings.TrimSpace(server) == "" {
		return invalidf("MCPO_SERVER", "must be a non-empty string")
	}
	config["MCPO_SERVER"] = strings.Trim(strings.TrimSpace(server), "/")

	switch v := config["MCPO_OPENAPI_URL"].(type) {
	case nil:
		delete(config, "MCPO_OPENAPI_URL")
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			config["MCPO_OPENAPI_URL"] = trimmed
		} else {
			delete(config, "MCPO_OPENAPI_URL")
		}
	default:
		return invalidf("MCPO_OPENAPI_URL", "must be a string if provided")
	}

	switch v := config["MCPO_STATIC_ARGS"].(type) {
	case nil:
		config["MCPO_STATIC_ARGS"] = map[string]any{}
	case string:
		if v == "" {
			config["MCPO_STATIC_ARGS"] = map[string]any{}
			break
		}
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return invalidf("MCPO_STATIC_ARGS", "must be a valid JSON object string")
		}
		obj, ok := parsed.(map[string]any)
		if !ok {
			return invalidf("MCPO_STATIC_ARGS", "must decode to a JSON object")
		}
		config["MCPO_STATIC_ARGS"] = obj
	case map[string]any:
	default:
		return invalidf("MCPO_STATIC_ARGS", "must be provided as an object")
	}

	switch v := config["MCPO_RESULT_PATH"].(type) {
	case nil:
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			config["MCPO_RESULT_PATH"] = trimmed
		} else {
			delete(config, "MCPO_RESULT_PATH")
		}
	default:
		return invalidf("MCPO_RESULT_PATH", "must be a string if provided")
	}

	switch v := config["MCPO_QUERY_PARAM"].(type) {
	case nil:
		// An explicit null means the query is not sent as an argument.
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			config["MCPO_QUERY_PARAM"] = trimmed
		} else {
			config["MCPO_QUERY_PARAM"] = nil
		}
	default:
		return invalidf("MCPO_QUERY_PARAM", "must be a string if provided")
	}

	if v, present := config["MCPO_TIMEOUT"]; present {
		if v == nil || v == "" {
			delete(config, "MCPO_TIMEOUT")
		} else {
			seconds, err := cast.ToFloat64E(v)
			if err != nil {
				return invalidf("MCPO_TIMEOUT", "must be a number")
			}
			config["MCPO_TIMEOUT"] = seconds
		}
	}

	tools, err := sanitizeMCPOTools(config["MCPO_TOOLS"])
	if err != nil {
		return err
	}

	if legacy, present := config["MCPO_TOOL"]; present {
		if legacy != nil && legacy != "" {
			if name := strings.TrimSpace(cast.ToString(legacy)); name != "" {
				tools = append(tools, name)
			}
		}
		delete(config, "MCPO_TOOL")
	}

	seen := make(map[string]bool, len(tools))
	var unique []string
	for _, name := range tools {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}
	if len(unique) > 0 {
		config["MCPO_TOOLS"] = unique
	} else {
		delete(config, "MCPO_TOOLS")
	}
	return nil
}

func sanitizeMCPOTools(value any) ([]string, error) {
	appendName := func(tools []string, item any) ([]string, error) {
		s, ok := item.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, invalidf("MCPO_TOOLS", "entries must be non-empty strings")
		}
		return append(tools, strings.TrimSpace(s)), nil
	}

	var tools []string
	var err error
	switch v := value.(type) {
	case nil:
	case string:
		if v == "" {
			break
		}
		var parsed any
		if json.Unmarshal([]byte(v), &parsed) != nil {
			return nil, invalidf("MCPO_TOOLS", "must be a JSON array of tool names")
		}
		list, ok := parsed.([]any)
		if !ok {
			return nil, invalidf("MCPO_TOOLS", "must be a JSON array of tool names")
		}
		for _, item := range list {
			if tools, err = appendName(tools, item); err != nil {
				return nil, err
			}
		}
	case []any:
		for _, item := range v {
			if tools, err = appendName(tools, item); err != nil {
				return nil, err
			}
		}
	case []string:
		for _, item := range v {
			if tools, err = appendName(tools, item); err != nil {
				return nil, err
			}
		}
	default:
		return nil, invalidf("MCPO_TOOLS", "must be provided as a list of strings")
	}
	return tools, nil
}

// isEmptyValue reports whether a decoded JSON value counts as empty for
// required-key checks: nil, "", false, 0, and empty collections.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case int:
		return t == 0
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
