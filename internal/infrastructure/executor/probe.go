package executor

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// ShellProber runs inspection queries whose output is informative even on failure.
// Nothing is recorded in the session history.
type ShellProber struct {
	shell   string
	timeout time.Duration
}

// NewShellProber builds a prober; empty values fall back to /bin/sh and 5s.
func NewShellProber(shell string, timeout time.Duration) *ShellProber {
	if shell == "" {
		shell = domain.DefaultShell
	}
	if timeout <= 0 {
		timeout = domain.DefaultProbeTimeout
	}
	return &ShellProber{shell: shell, timeout: timeout}
}

// Output implements ports.Prober.
func (p *ShellProber) Output(ctx context.Context, command string) string {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, p.shell, "-c", command)
	cmd.WaitDelay = waitDelay
	out, _ := cmd.CombinedOutput()
	return strings.TrimSuffix(string(out), "\n")
}

var _ ports.Prober = (*ShellProber)(nil)
