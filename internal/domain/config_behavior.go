package domain

import (
	"fmt"
	"time"
)

// Backend returns the definition for name, falling back to built-in defaults.
func (c *Config) Backend(name BackendName) BackendDefinition {
	def := DefaultBackendDefinition(name)
	if configured, ok := c.Backends[name]; ok {
		if configured.ModelID != "" {
			def.ModelID = configured.ModelID
		}
		if configured.Endpoint != "" {
			def.Endpoint = configured.Endpoint
		}
		if configured.AuthEnvVar != "" {
			def.AuthEnvVar = configured.AuthEnvVar
		}
	}
	return def
}

// DefaultBackendDefinition returns the built-in settings for a backend.
func DefaultBackendDefinition(name BackendName) BackendDefinition {
	switch name {
	case BackendDeepSeek:
		return BackendDefinition{
			ModelID:    DefaultDeepSeekModel,
			Endpoint:   DefaultDeepSeekEndpoint,
			AuthEnvVar: "DEEPSEEK_API_KEY",
		}
	case BackendGemini:
		return BackendDefinition{
			ModelID:    DefaultGeminiModel,
			AuthEnvVar: "GEMINI_API_KEY",
		}
	default:
		return BackendDefinition{}
	}
}

// GetDefaultBackend resolves the configured initial backend.
// ok is false when no default is configured and the user must choose.
func (c *Config) GetDefaultBackend() (BackendName, bool, error) {
	if c.Preferences.DefaultBackend == "" {
		return "", false, nil
	}
	name, err := ParseBackendName(c.Preferences.DefaultBackend)
	if err != nil {
		return "", false, fmt.Errorf("preferences.default_backend: %w", err)
	}
	return name, true, nil
}

// GetTimeout returns the command execution timeout.
func (c *Config) GetTimeout() time.Duration {
	if c.Execution.TimeoutSeconds <= 0 {
		return DefaultCommandTimeout
	}
	return time.Duration(c.Execution.TimeoutSeconds) * time.Second
}

// GetExecutionShell returns the shell used to interpret commands.
func (c *Config) GetExecutionShell() string {
	if c.Execution.Shell == "" {
		return DefaultShell
	}
	return c.Execution.Shell
}

// GetScriptName returns the file name written by the script command.
func (c *Config) GetScriptName() string {
	if c.Execution.ScriptName == "" {
		return DefaultScriptName
	}
	return c.Execution.ScriptName
}

// GetHistoryWindow returns how many recent history entries go into prompts.
func (c *Config) GetHistoryWindow() int {
	if c.Preferences.HistoryWindow <= 0 {
		return DefaultHistoryWindow
	}
	return c.Preferences.HistoryWindow
}

// GetDangerousPatterns returns the deny-list, defaulting to the built-in set.
func (c *Config) GetDangerousPatterns() []string {
	if len(c.Security.DangerousPatterns) == 0 {
		return append([]string(nil), DefaultDangerousPatterns...)
	}
	return append([]string(nil), c.Security.DangerousPatterns...)
}

// IsJournalEnabled reports whether executions are persisted. Defaults to true.
func (c *Config) IsJournalEnabled() bool {
	if c.Journal.Enabled == nil {
		return true
	}
	return *c.Journal.Enabled
}
