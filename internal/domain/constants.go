package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// ScriptPermissions is applied to generated scripts (rwxr-xr-x)
	ScriptPermissions = 0o755
)

// Timeout and duration constants
const (
	// DefaultCommandTimeout bounds every executed command
	DefaultCommandTimeout = 30 * time.Second
	// DefaultProbeTimeout bounds host inspection queries
	DefaultProbeTimeout = 5 * time.Second
)

// Execution defaults
const (
	DefaultShell      = "/bin/sh"
	DefaultScriptName = "generated_script.sh"
)

// Prompt shaping constants
const (
	// DefaultHistoryWindow is how many recent executions are sent to the backend
	DefaultHistoryWindow = 5
	// PromptValueLimit truncates long snapshot values inside the system prompt
	PromptValueLimit = 75
	// PromptHistoryLimit truncates the rendered history block inside the system prompt
	PromptHistoryLimit = 200
	// AskOutputLimit truncates each command output quoted by the ask command
	AskOutputLimit = 200
	// EnvValueLimit masks environment values longer than this in the snapshot
	EnvValueLimit = 50
)

// Backend defaults
const (
	DefaultDeepSeekModel    = "deepseek-chat"
	DefaultDeepSeekEndpoint = "https://api.deepseek.com"
	DefaultGeminiModel      = "gemini-2.5-pro-exp-03-25"
)

// Journal defaults
const (
	// DefaultJournalLimit is the default number of journal records to display
	DefaultJournalLimit = 20
	// DefaultJournalSearchLimit is the default number of search results to return
	DefaultJournalSearchLimit = 50
)

// User facing messages shared across layers
const (
	MsgCommandCancelled = "Command cancelled by user\n"
	ChatSystemPrompt    = "You are a helpful AI assistant."
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
