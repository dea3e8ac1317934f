package assistant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

const analyzeOutputLimit = 1000

// GenerateScript writes the commands proposed for description to an executable script
// in the working directory.
func (s *Service) GenerateScript(ctx context.Context, description string) error {
	resp, err := s.Request(ctx, scriptPrefix+description)
	if err != nil {
		s.aiError(err)
		return nil
	}
	if len(resp.Commands) == 0 {
		s.Display.Error("No commands generated for script")
		return nil
	}

	name := s.Config.GetScriptName()
	path := filepath.Join(s.Snapshot.WorkingDir, name)
	if err := writeScript(path, name, resp.Commands); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	s.Display.Analysis("Script saved to " + name)
	s.Display.Plain("Execute with: ./" + name)
	return nil
}

func writeScript(path string, name string, commands []string) error {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n\n")
	b.WriteString("# Auto-generated script\n")
	b.WriteString("# Usage: ./" + name + "\n\n")
	b.WriteString(strings.Join(commands, "\n") + "\n")

	if err := os.WriteFile(path, []byte(b.String()), domain.ScriptPermissions); err != nil {
		return err
	}
	// WriteFile honours the umask and leaves an existing file's mode alone.
	return os.Chmod(path, domain.ScriptPermissions)
}

// Explain prints a short summary of command from tldr, falling back to its man page.
func (s *Service) Explain(ctx context.Context, command string) error {
	if s.Prober == nil {
		return fmt.Errorf("explain: no prober configured")
	}
	summary := s.Prober.Output(ctx, fmt.Sprintf("tldr %s --short", command))
	if strings.Contains(summary, "not found") {
		summary = s.Prober.Output(ctx, fmt.Sprintf("man %s | head -n 20", command))
	}
	s.Display.Analysis(summary)
	return nil
}

// Schedule asks for a cron line for description and appends it to the user's crontab.
// Lines whose schedule does not parse are reported and never installed.
func (s *Service) Schedule(ctx context.Context, description string) error {
	resp, err := s.Request(ctx, schedulePrefix+description)
	if err != nil {
		s.aiError(err)
		return nil
	}
	if len(resp.Commands) == 0 {
		s.Display.Error("No cron job generated")
		return nil
	}

	job := strings.TrimSpace(resp.Commands[0])
	s.Display.Analysis("Cron job: " + job)
	if s.Schedules != nil {
		next, err := s.Schedules.Validate(job)
		if err != nil {
			s.Display.Error("Invalid cron job: " + err.Error())
			return nil
		}
		s.Display.Plain("Next run: " + next.Format(time.RFC1123))
	}

	confirmed, err := s.Confirmer.Confirm(ctx, promptCrontab)
	if err != nil || !confirmed {
		return err
	}

	result, err := s.guarded(ctx, fmt.Sprintf("(crontab -l; echo %s) | crontab -", shellQuote(job)))
	if err != nil {
		return err
	}
	switch {
	case result.Cancelled:
		s.Display.Output(result.Output)
	case !result.Success:
		s.Display.Error("Failed to add cron job: " + strings.TrimSpace(result.Output))
	default:
		s.Display.Analysis("Cron job added.")
	}
	return nil
}

// Ask streams a free-text answer about the recent command history.
func (s *Service) Ask(ctx context.Context, question string) error {
	if err := s.validate(); err != nil {
		return err
	}
	if s.History.Len() == 0 {
		s.Display.Error("No history to analyze")
		return nil
	}
	backend, err := s.Backends.Active()
	if err != nil {
		s.aiError(err)
		return nil
	}

	recent := s.History.Recent(s.Config.GetHistoryWindow())
	system, err := s.Prompts.AskPrompt(s.Snapshot.WorkingDir, recent)
	if err != nil {
		return err
	}

	s.Display.Analysis("\nQ: " + question)
	s.Display.Chunk("A: ")
	for chunk, err := range backend.Stream(ctx, ports.CompletionRequest{
		System:   system,
		Messages: []domain.ChatTurn{{Role: domain.RoleUser, Content: question}},
	}) {
		if err != nil {
			s.Display.Plain("")
			s.Display.Error("Stream error: " + err.Error())
			return nil
		}
		s.Display.Chunk(chunk)
	}
	s.Display.Plain("")
	return nil
}

// Analyze explains the output of the last executed command.
func (s *Service) Analyze(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}
	entries := s.History.Recent(1)
	if len(entries) == 0 {
		s.Display.Error("No history to analyze")
		return nil
	}
	last := entries[0]

	output := []rune(last.Output)
	if len(output) > analyzeOutputLimit {
		output = output[:analyzeOutputLimit]
	}
	prompt := fmt.Sprintf("Explain the output of the last command and suggest next steps.\nCommand: %s\nSuccess: %t\nOutput: %s",
		last.Command, last.Success, string(output))

	resp, err := s.Request(ctx, prompt)
	if err != nil {
		s.aiError(err)
		return nil
	}
	s.Display.Analysis(s.Parser.Plain(resp.Analysis))
	if len(resp.Commands) > 0 {
		s.Display.Plain("Suggested commands:")
		for _, command := range resp.Commands {
			s.Display.Command("- " + command)
		}
	}
	return nil
}

// shellQuote wraps value in single quotes for /bin/sh.
func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
