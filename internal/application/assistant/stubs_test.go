package assistant

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/infrastructure/ai"
	"github.com/doeshing/linux-agent/internal/infrastructure/history"
	"github.com/doeshing/linux-agent/internal/infrastructure/security"
	"github.com/doeshing/linux-agent/internal/ports"
)

type stubBackend struct {
	replies  []string
	err      error
	chunks   []string
	requests []ports.CompletionRequest
}

func (b *stubBackend) Name() domain.BackendName { return domain.BackendDeepSeek }

func (b *stubBackend) Complete(_ context.Context, req ports.CompletionRequest) (string, error) {
	b.requests = append(b.requests, req)
	if b.err != nil {
		return "", b.err
	}
	if len(b.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := b.replies[0]
	b.replies = b.replies[1:]
	return reply, nil
}

func (b *stubBackend) Stream(_ context.Context, req ports.CompletionRequest) iter.Seq2[string, error] {
	b.requests = append(b.requests, req)
	return func(yield func(string, error) bool) {
		for _, chunk := range b.chunks {
			if !yield(chunk, nil) {
				return
			}
		}
		if b.err != nil {
			yield("", b.err)
		}
	}
}

type stubSelector struct {
	backend ports.Backend
}

func (s stubSelector) Active() (ports.Backend, error) {
	if s.backend == nil {
		return nil, ai.ErrBackendNotReady
	}
	return s.backend, nil
}

func (s stubSelector) Current() domain.BackendName { return domain.BackendDeepSeek }

func (s stubSelector) Select(context.Context, domain.BackendName) error { return nil }

// scriptedConfirmer answers prompts in order and records them.
type scriptedConfirmer struct {
	answers []bool
	prompts []string
	err     error
}

func (c *scriptedConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return false, c.err
	}
	if len(c.answers) == 0 {
		return false, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

// fakeExecutor returns canned outputs and records into the history log like the real one.
type fakeExecutor struct {
	outputs  map[string]string
	failures map[string]bool
	calls    []string
	history  ports.HistoryRecorder
}

func (e *fakeExecutor) Execute(_ context.Context, command string) domain.ExecutionResult {
	e.calls = append(e.calls, command)
	output, ok := e.outputs[command]
	if !ok {
		output = "ok\n"
	}
	result := domain.ExecutionResult{Output: output, Success: !e.failures[command]}
	if e.history != nil {
		e.history.Append(domain.HistoryEntry{Command: command, Output: output, Success: result.Success, Timestamp: time.Now()})
	}
	return result
}

type stubProber struct {
	outputs map[string]string
	calls   []string
}

func (p *stubProber) Output(_ context.Context, command string) string {
	p.calls = append(p.calls, command)
	return p.outputs[command]
}

type stubSchedules struct {
	err error
}

func (s stubSchedules) Validate(string) (time.Time, error) {
	return time.Date(2030, 1, 1, 2, 0, 0, 0, time.UTC), s.err
}

// recordingDisplay keeps every rendered line tagged with its kind.
type recordingDisplay struct {
	lines []string
}

func (d *recordingDisplay) add(kind, text string) { d.lines = append(d.lines, kind+": "+text) }

func (d *recordingDisplay) Analysis(text string) { d.add("analysis", text) }
func (d *recordingDisplay) Command(text string)  { d.add("command", text) }
func (d *recordingDisplay) Output(text string)   { d.add("output", text) }
func (d *recordingDisplay) Warning(text string)  { d.add("warning", text) }
func (d *recordingDisplay) Error(text string)    { d.add("error", text) }
func (d *recordingDisplay) Plain(text string)    { d.add("plain", text) }
func (d *recordingDisplay) Chunk(text string)    { d.add("chunk", text) }
func (d *recordingDisplay) Progress(string) func() {
	return func() {}
}

func (d *recordingDisplay) contains(fragment string) bool {
	for _, line := range d.lines {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

func (d *recordingDisplay) String() string {
	return fmt.Sprint(d.lines)
}

type fixture struct {
	svc       *Service
	backend   *stubBackend
	confirmer *scriptedConfirmer
	executor  *fakeExecutor
	history   *history.Log
	display   *recordingDisplay
	prober    *stubProber
}

func newFixture(replies ...string) *fixture {
	log := history.NewLog(nil, "test", nil)
	f := &fixture{
		backend:   &stubBackend{replies: replies},
		confirmer: &scriptedConfirmer{},
		executor:  &fakeExecutor{outputs: map[string]string{}, failures: map[string]bool{}, history: log},
		history:   log,
		display:   &recordingDisplay{},
		prober:    &stubProber{outputs: map[string]string{}},
	}
	f.svc = &Service{
		Snapshot:  domain.ContextSnapshot{WorkingDir: "/tmp", OS: "Linux"},
		Backends:  stubSelector{backend: f.backend},
		Prompts:   ai.Prompts{},
		Parser:    ai.JSONParser{},
		Gate:      security.NewGate(nil),
		Executor:  f.executor,
		History:   log,
		Confirmer: f.confirmer,
		Prober:    f.prober,
		Schedules: stubSchedules{},
		Display:   f.display,
	}
	return f
}
