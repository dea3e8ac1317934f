package history

import (
	"sync"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// Log is the append-only, in-memory history of the current session.
// Appended entries are mirrored to an optional journal.
type Log struct {
	mu        sync.Mutex
	entries   []domain.HistoryEntry
	journal   ports.Journal
	sessionID string
	logger    ports.Logger
}

// NewLog creates an empty session log. journal and logger may be nil.
func NewLog(journal ports.Journal, sessionID string, logger ports.Logger) *Log {
	return &Log{journal: journal, sessionID: sessionID, logger: logger}
}

// Append implements ports.HistoryRecorder.
func (l *Log) Append(entry domain.HistoryEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	if l.journal == nil {
		return
	}
	if err := l.journal.Save(domain.NewJournalRecord(l.sessionID, entry)); err != nil && l.logger != nil {
		l.logger.Warn("journal write failed", map[string]interface{}{
			"path":  l.journal.Path(),
			"error": err.Error(),
		})
	}
}

// Entries returns a copy of every entry in execution order.
func (l *Log) Entries() []domain.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.HistoryEntry(nil), l.entries...)
}

// Recent returns a copy of the last n entries in execution order.
func (l *Log) Recent(n int) []domain.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 {
		return nil
	}
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	return append([]domain.HistoryEntry(nil), l.entries[start:]...)
}

// Len returns the number of recorded executions.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

var (
	_ ports.HistoryRecorder = (*Log)(nil)
	_ ports.HistoryReader   = (*Log)(nil)
)
