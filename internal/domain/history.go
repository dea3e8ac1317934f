package domain

import "time"

// HistoryEntry records a single command execution of the current session.
type HistoryEntry struct {
	Command   string
	Output    string
	Success   bool
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

// JournalRecord is the persisted form of a HistoryEntry.
type JournalRecord struct {
	SessionID  string    `json:"session_id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Output     string    `json:"output"`
	Success    bool      `json:"success"`
	ExitCode   int       `json:"exit_code"`
	DurationMS int64     `json:"duration_ms"`
}

// NewJournalRecord converts a history entry for persistence.
func NewJournalRecord(sessionID string, entry HistoryEntry) JournalRecord {
	return JournalRecord{
		SessionID:  sessionID,
		Timestamp:  entry.Timestamp,
		Command:    entry.Command,
		Output:     entry.Output,
		Success:    entry.Success,
		ExitCode:   entry.ExitCode,
		DurationMS: entry.Duration.Milliseconds(),
	}
}
