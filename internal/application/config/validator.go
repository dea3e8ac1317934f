package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/linux-agent/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if _, _, err := cfg.GetDefaultBackend(); err != nil {
		return err
	}
	for name := range cfg.Backends {
		if _, err := domain.ParseBackendName(string(name)); err != nil {
			return fmt.Errorf("backends: %w", err)
		}
	}
	if err := validateExecution(cfg.Execution); err != nil {
		return err
	}
	if cfg.Preferences.HistoryWindow < 0 {
		return errors.New("preferences.history_window must be > 0")
	}
	if err := validateSecurity(cfg.Security); err != nil {
		return err
	}
	return validateJournal(cfg.Journal)
}

func validateExecution(exec domain.ExecutionSettings) error {
	if exec.TimeoutSeconds < 0 {
		return fmt.Errorf("execution.timeout must be > 0, got %d", exec.TimeoutSeconds)
	}
	if strings.ContainsRune(exec.ScriptName, '/') {
		return fmt.Errorf("execution.script_name must be a file name, got %s", exec.ScriptName)
	}
	return nil
}

func validateSecurity(sec domain.SecuritySettings) error {
	for i, pattern := range sec.DangerousPatterns {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("security.dangerous_patterns[%d] is empty", i)
		}
	}
	return nil
}

func validateJournal(journal domain.JournalSettings) error {
	if journal.Enabled != nil && *journal.Enabled && journal.Path == "" {
		return errors.New("journal.path must be set when the journal is enabled")
	}
	return nil
}
