// Package domain defines core business entities and value objects for linux-agent.
//
// This file contains the backend (LLM provider) definitions and the structured
// response shape requested from every backend. The domain layer is independent of
// infrastructure concerns.
package domain

import (
	"fmt"
	"strings"
)

// BackendName identifies one of the supported LLM providers.
type BackendName string

const (
	BackendDeepSeek BackendName = "deepseek"
	BackendGemini   BackendName = "gemini"
)

// Backends lists every supported backend in display order.
var Backends = []BackendName{BackendDeepSeek, BackendGemini}

// ParseBackendName resolves a user supplied name (case-insensitive).
func ParseBackendName(value string) (BackendName, error) {
	name := BackendName(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Backends {
		if name == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q (available: %s)", value, BackendList())
}

// BackendList renders the supported names, e.g. "deepseek, gemini".
func BackendList() string {
	names := make([]string, 0, len(Backends))
	for _, b := range Backends {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}

// BackendDefinition describes how to reach a backend, as declared in the config file.
type BackendDefinition struct {
	ModelID    string `yaml:"model_id"`
	Endpoint   string `yaml:"endpoint,omitempty"`
	AuthEnvVar string `yaml:"auth_env_var"`
}

// AIResponse is the structured answer every JSON request asks for.
type AIResponse struct {
	Analysis string   `json:"analysis"`
	Commands []string `json:"commands"`
	Rollback []string `json:"rollback"`
}

// ChatRole is the author of a chat turn.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatTurn is one message of a conversation.
type ChatTurn struct {
	Role    ChatRole
	Content string
}
