// Package assistant implements the backend-driven use-cases of the interactive shell:
// multi-step tasks with rollback, script generation, cron scheduling, explanations,
// questions about recent history and fix suggestions for failed commands.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// Confirmation prompts.
const (
	promptDangerous = "WARNING: This command is dangerous. Confirm? [y/N] "
	promptRunPlan   = "Run all commands? [y/N] "
	promptRollback  = "Run rollback? [y/N] "
	promptCrontab   = "Add to crontab? [y/N] "
	promptRunFix    = "Run this? [y/N] "
)

// Request prefixes sent to the backend.
const (
	taskPrefix     = "Break this task into Linux commands: "
	scriptPrefix   = "Generate executable bash commands for: "
	schedulePrefix = "Generate a cron job for: "
)

// Service holds the collaborators shared by every use-case.
type Service struct {
	Snapshot  domain.ContextSnapshot
	Config    domain.Config
	Backends  ports.BackendSelector
	Prompts   ports.PromptBuilder
	Parser    ports.ResponseParser
	Gate      ports.DangerGate
	Executor  ports.CommandExecutor
	History   ports.HistoryReader
	Confirmer ports.Confirmer
	Prober    ports.Prober
	Schedules ports.ScheduleValidator
	Display   ports.Display
	Logger    ports.Logger
}

func (s *Service) validate() error {
	if s.Backends == nil || s.Prompts == nil || s.Parser == nil || s.Gate == nil ||
		s.Executor == nil || s.History == nil || s.Confirmer == nil || s.Display == nil {
		return errors.New("assistant.Service dependencies not satisfied")
	}
	return nil
}

// Request sends prompt to the active backend as a structured request and parses the answer.
func (s *Service) Request(ctx context.Context, prompt string) (domain.AIResponse, error) {
	if err := s.validate(); err != nil {
		return domain.AIResponse{}, err
	}
	backend, err := s.Backends.Active()
	if err != nil {
		return domain.AIResponse{}, err
	}

	system, err := s.Prompts.StructuredPrompt(s.Snapshot, s.History.Recent(s.Config.GetHistoryWindow()))
	if err != nil {
		return domain.AIResponse{}, err
	}

	stop := s.Display.Progress("Thinking")
	raw, err := backend.Complete(ctx, ports.CompletionRequest{
		System:   system,
		Messages: []domain.ChatTurn{{Role: domain.RoleUser, Content: prompt}},
		JSON:     true,
	})
	stop()
	if err != nil {
		return domain.AIResponse{}, err
	}

	resp, err := s.Parser.Parse(raw)
	if err != nil {
		s.debug("unparseable response", map[string]interface{}{"backend": string(backend.Name()), "raw": raw})
		return domain.AIResponse{}, err
	}
	return resp, nil
}

// ExecuteGuarded runs command after the danger gate. A declined confirmation
// returns the cancellation message and runs nothing.
func (s *Service) ExecuteGuarded(ctx context.Context, command string) (string, error) {
	result, err := s.guarded(ctx, command)
	return result.Output, err
}

func (s *Service) guarded(ctx context.Context, command string) (domain.ExecutionResult, error) {
	if err := s.validate(); err != nil {
		return domain.ExecutionResult{}, err
	}
	if s.Gate.IsDangerous(command) {
		s.debug("dangerous command", map[string]interface{}{
			"command": command,
			"matches": s.Gate.Matches(command),
		})
		confirmed, err := s.Confirmer.Confirm(ctx, promptDangerous)
		if err != nil {
			return domain.ExecutionResult{}, err
		}
		if !confirmed {
			return domain.CancelledResult(), nil
		}
	}
	return s.Executor.Execute(ctx, command), nil
}

// RunCommand executes literal user input and offers a fix when the output mentions "Error".
func (s *Service) RunCommand(ctx context.Context, command string) error {
	output, err := s.ExecuteGuarded(ctx, command)
	if err != nil {
		return err
	}
	s.Display.Output(output)

	// Case-sensitive on this path, unlike the task plan check.
	if strings.Contains(output, "Error") {
		return s.SuggestFix(ctx, command)
	}
	return nil
}

// SuggestFix asks the backend for a single corrective command and offers to run it.
func (s *Service) SuggestFix(ctx context.Context, command string) error {
	s.Display.Analysis("\nGetting suggestions...")
	resp, err := s.Request(ctx, command)
	if err != nil {
		s.aiError(err)
		return nil
	}
	if len(resp.Commands) == 0 {
		return nil
	}

	suggestion := resp.Commands[0]
	s.Display.Command("\nSuggested command: " + suggestion)
	confirmed, err := s.Confirmer.Confirm(ctx, promptRunFix)
	if err != nil || !confirmed {
		return err
	}
	output, err := s.ExecuteGuarded(ctx, suggestion)
	if err != nil {
		return err
	}
	s.Display.Output(output)
	return nil
}

// RunTask decomposes description into a plan, runs it after one confirmation and
// offers the proposed rollback when a step reports an error.
func (s *Service) RunTask(ctx context.Context, description string) error {
	resp, err := s.Request(ctx, taskPrefix+description)
	if err != nil {
		s.aiError(err)
		return nil
	}
	if len(resp.Commands) == 0 {
		s.Display.Error("No commands generated for task")
		return nil
	}

	s.Display.Analysis("\nTask Plan:")
	for i, command := range resp.Commands {
		s.Display.Plain(fmt.Sprintf("%d. %s", i+1, command))
	}

	confirmed, err := s.Confirmer.Confirm(ctx, promptRunPlan)
	if err != nil || !confirmed {
		return err
	}

	for _, command := range resp.Commands {
		s.Display.Command("\nExecuting: " + command)
		output, err := s.ExecuteGuarded(ctx, command)
		if err != nil {
			return err
		}
		s.Display.Output(output)

		if strings.Contains(strings.ToLower(output), "error") {
			s.Display.Warning("\nError detected. Suggesting rollback...")
			return s.rollback(ctx, resp.Rollback)
		}
	}
	return nil
}

// rollback runs every proposed command in order once confirmed; failures do not stop it.
func (s *Service) rollback(ctx context.Context, commands []string) error {
	if len(commands) == 0 {
		return nil
	}
	s.Display.Plain("Rollback commands: " + formatList(commands))
	confirmed, err := s.Confirmer.Confirm(ctx, promptRollback)
	if err != nil || !confirmed {
		return err
	}
	for _, command := range commands {
		s.Display.Command("Rolling back: " + command)
		output, err := s.ExecuteGuarded(ctx, command)
		if err != nil {
			return err
		}
		s.Display.Output(output)
	}
	return nil
}

func (s *Service) aiError(err error) {
	s.Display.Error("AI Error: " + err.Error())
}

func (s *Service) debug(msg string, fields map[string]interface{}) {
	if s.Logger != nil {
		s.Logger.Debug(msg, fields)
	}
}

// formatList renders commands as ['a', 'b'].
func formatList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, "'"+item+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
