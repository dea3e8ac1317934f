package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/doeshing/linux-agent/internal/application/config"
	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// optionalTools back individual assistant features.
var optionalTools = []string{"crontab", "tldr", "man", "systemctl", "ip"}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider   ports.ConfigProvider
	DangerGate       ports.DangerGate
	ContextCollector ports.ContextCollector
	Journal          ports.Journal

	// LookPath and Getenv default to exec.LookPath and os.Getenv.
	LookPath func(string) (string, error)
	Getenv   func(string) string
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := config.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s", cfg.ConfigFormatVersion)))
	}

	if s.DangerGate != nil && s.DangerGate.IsDangerous("rm -rf /") {
		checks = append(checks, ok("Danger gate", fmt.Sprintf("%d patterns loaded", len(cfg.GetDangerousPatterns()))))
	} else {
		checks = append(checks, warn("Danger gate", "deny-list does not match rm -rf"))
	}

	for _, name := range domain.Backends {
		checks = append(checks, s.credentialCheck(name, cfg.Backend(name)))
	}

	shell := cfg.GetExecutionShell()
	if _, err := s.lookPath(shell); err != nil {
		checks = append(checks, fail("Shell", fmt.Sprintf("%s not found", shell)))
	} else {
		checks = append(checks, ok("Shell", shell))
	}

	var missing []string
	for _, tool := range optionalTools {
		if _, err := s.lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		checks = append(checks, warn("Tools", "missing: "+strings.Join(missing, ", ")))
	} else {
		checks = append(checks, ok("Tools", strings.Join(optionalTools, ", ")))
	}

	if s.ContextCollector != nil {
		snapshot := s.ContextCollector.Collect(ctx)
		if snapshot.OS == "" {
			checks = append(checks, warn("Context", "OS not detected"))
		} else {
			checks = append(checks, ok("Context", fmt.Sprintf("%s, %d cores, %s %s", snapshot.OS, snapshot.CPUCores, snapshot.MemoryTotal, snapshot.PackageManager)))
		}
	}

	checks = append(checks, s.journalCheck(cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) credentialCheck(name domain.BackendName, def domain.BackendDefinition) domain.HealthCheck {
	label := fmt.Sprintf("%s API key", name)
	if s.getenv(def.AuthEnvVar) == "" {
		return warn(label, fmt.Sprintf("%s not set, will be prompted", def.AuthEnvVar))
	}
	return ok(label, def.AuthEnvVar)
}

func (s *Service) journalCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.IsJournalEnabled() {
		return warn("Journal", "disabled")
	}
	if s.Journal == nil {
		return warn("Journal", "not initialized")
	}
	if _, err := s.Journal.Records(1, ""); err != nil {
		return fail("Journal", err.Error())
	}
	return ok("Journal", s.Journal.Path())
}

func (s *Service) lookPath(file string) (string, error) {
	if s.LookPath != nil {
		return s.LookPath(file)
	}
	return exec.LookPath(file)
}

func (s *Service) getenv(key string) string {
	if s.Getenv != nil {
		return s.Getenv(key)
	}
	return os.Getenv(key)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
