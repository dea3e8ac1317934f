// Package executor runs shell commands on the local host.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// waitDelay bounds how long Wait blocks on pipes held open by orphaned children
// after the shell itself has been killed.
const waitDelay = 2 * time.Second

var errEmptyCommand = errors.New("empty command")

// Options configures a LocalExecutor.
type Options struct {
	Shell   string
	WorkDir string
	Timeout time.Duration
}

// LocalExecutor runs commands through the host shell and records every run.
type LocalExecutor struct {
	shell   string
	workDir string
	timeout time.Duration
	history ports.HistoryRecorder
	logger  ports.Logger
	now     func() time.Time
}

// NewLocalExecutor builds a new executor, shell defaults to /bin/sh and timeout to 30s.
func NewLocalExecutor(opts Options, history ports.HistoryRecorder, logger ports.Logger) *LocalExecutor {
	if opts.Shell == "" {
		opts.Shell = domain.DefaultShell
	}
	if opts.Timeout <= 0 {
		opts.Timeout = domain.DefaultCommandTimeout
	}
	return &LocalExecutor{
		shell:   opts.Shell,
		workDir: opts.WorkDir,
		timeout: opts.Timeout,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// Execute implements ports.CommandExecutor.
func (e *LocalExecutor) Execute(ctx context.Context, command string) domain.ExecutionResult {
	start := e.now()
	result := e.run(ctx, command)
	result.Duration = e.now().Sub(start)

	if e.logger != nil {
		e.logger.Debug("command executed", map[string]interface{}{
			"command":   command,
			"exit_code": result.ExitCode,
			"success":   result.Success,
			"duration":  result.Duration.String(),
			"timed_out": result.TimedOut,
		})
	}
	if e.history != nil {
		e.history.Append(domain.HistoryEntry{
			Command:   command,
			Output:    result.Output,
			Success:   result.Success,
			ExitCode:  result.ExitCode,
			Duration:  result.Duration,
			Timestamp: start,
		})
	}
	return result
}

func (e *LocalExecutor) run(ctx context.Context, command string) domain.ExecutionResult {
	if strings.TrimSpace(command) == "" {
		return faultResult(errEmptyCommand)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	c := exec.CommandContext(runCtx, e.shell, "-c", command)
	c.Dir = e.workDir
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()

	if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return domain.ExecutionResult{
			Output:   fmt.Sprintf("Error: command timed out after %s\n", e.timeout),
			ExitCode: -1,
			TimedOut: true,
		}
	}
	if ctx.Err() != nil {
		return faultResult(fmt.Errorf("interrupted: %w", ctx.Err()))
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return domain.ExecutionResult{Output: ensureNewline(stdout.String()), Success: true}
	case errors.As(err, &exitErr):
		return domain.ExecutionResult{Output: ensureNewline(stderr.String()), ExitCode: exitErr.ExitCode()}
	default:
		return faultResult(err)
	}
}

func faultResult(err error) domain.ExecutionResult {
	return domain.ExecutionResult{
		Output:   fmt.Sprintf("Error: %v\n", err),
		ExitCode: -1,
	}
}

func ensureNewline(output string) string {
	if strings.HasSuffix(output, "\n") {
		return output
	}
	return output + "\n"
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
