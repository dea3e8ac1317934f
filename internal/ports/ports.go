// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like LLM SDKs, the host shell, SQLite, or the terminal.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Backend, CommandExecutor)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"iter"
	"time"

	"github.com/doeshing/linux-agent/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.linux-agent/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ContextCollector captures the host snapshot given to the backend for grounding.
// Collect never fails: unavailable facts are left empty.
type ContextCollector interface {
	Collect(context.Context) domain.ContextSnapshot
}

// Prober runs a host inspection query and returns its combined output with the
// trailing newline removed. Failures yield whatever output was produced, possibly empty.
type Prober interface {
	Output(ctx context.Context, command string) string
}

// CompletionRequest is the provider-neutral input for a backend call.
type CompletionRequest struct {
	System   string
	Messages []domain.ChatTurn
	// JSON asks the provider for a JSON-only answer where it supports that.
	JSON bool
}

// Backend is one LLM provider.
type Backend interface {
	Name() domain.BackendName
	// Complete returns the whole response text.
	Complete(context.Context, CompletionRequest) (string, error)
	// Stream yields response chunks as they arrive. The sequence is finite and
	// cannot be restarted; a non-nil error ends it.
	Stream(context.Context, CompletionRequest) iter.Seq2[string, error]
}

// PromptBuilder renders the system prompts sent with assistant requests.
type PromptBuilder interface {
	// StructuredPrompt asks for a JSON answer grounded on the host snapshot and recent history.
	StructuredPrompt(snapshot domain.ContextSnapshot, recent []domain.HistoryEntry) (string, error)
	// AskPrompt frames free-text questions about recent commands.
	AskPrompt(workDir string, recent []domain.HistoryEntry) (string, error)
}

// ResponseParser turns backend text into something the user can read or run.
type ResponseParser interface {
	Parse(raw string) (domain.AIResponse, error)
	Plain(text string) string
}

// ScheduleValidator checks a crontab line and reports when it would next fire.
type ScheduleValidator interface {
	Validate(line string) (time.Time, error)
}

// BackendSelector exposes the currently active backend.
type BackendSelector interface {
	Active() (Backend, error)
	Current() domain.BackendName
	Select(ctx context.Context, name domain.BackendName) error
}

// CredentialSource resolves an API key, first from the environment, then interactively.
type CredentialSource interface {
	Credential(ctx context.Context, envVar string, label string) (string, error)
}

// Confirmer asks the human a yes/no question. Only an explicit "y" is affirmative.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DangerGate flags commands that need explicit confirmation before running.
type DangerGate interface {
	IsDangerous(command string) bool
	Matches(command string) []string
}

// CommandExecutor runs shell commands. Faults are reported in the result, never as errors.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) domain.ExecutionResult
}

// HistoryRecorder receives every execution in order.
type HistoryRecorder interface {
	Append(domain.HistoryEntry)
}

// HistoryReader exposes the session history.
type HistoryReader interface {
	Entries() []domain.HistoryEntry
	Recent(n int) []domain.HistoryEntry
	Len() int
}

// Journal persists executions across sessions.
type Journal interface {
	Save(domain.JournalRecord) error
	Records(limit int, search string) ([]domain.JournalRecord, error)
	Clear() error
	Path() string
}

// Display renders user-facing output of the use-cases.
type Display interface {
	Analysis(text string)
	Command(text string)
	Output(text string)
	Warning(text string)
	Error(text string)
	Plain(text string)
	// Chunk writes streamed text without a trailing newline.
	Chunk(text string)
	// Progress shows a busy indicator until the returned func is called.
	Progress(label string) (stop func())
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
