package domain

import "time"

// ExecutionResult wraps the outcome of one shell command.
// Output always ends with a newline.
type ExecutionResult struct {
	Output    string
	Success   bool
	ExitCode  int
	Duration  time.Duration
	TimedOut  bool
	Cancelled bool
}

// CancelledResult is returned when the user declines a dangerous command.
func CancelledResult() ExecutionResult {
	return ExecutionResult{Output: MsgCommandCancelled, Cancelled: true, ExitCode: -1}
}
