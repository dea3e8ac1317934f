package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

type recordingAssistant struct {
	calls []string
	err   error
}

func (a *recordingAssistant) record(call string) error {
	a.calls = append(a.calls, call)
	return a.err
}

func (a *recordingAssistant) RunCommand(_ context.Context, c string) error { return a.record("run:" + c) }
func (a *recordingAssistant) RunTask(_ context.Context, d string) error    { return a.record("task:" + d) }
func (a *recordingAssistant) GenerateScript(_ context.Context, d string) error {
	return a.record("script:" + d)
}
func (a *recordingAssistant) Explain(_ context.Context, c string) error  { return a.record("explain:" + c) }
func (a *recordingAssistant) Schedule(_ context.Context, d string) error { return a.record("schedule:" + d) }
func (a *recordingAssistant) Ask(_ context.Context, q string) error      { return a.record("ask:" + q) }
func (a *recordingAssistant) Analyze(context.Context) error              { return a.record("analyze") }

type fakeSelector struct {
	current  domain.BackendName
	selected []domain.BackendName
	err      error
}

func (s *fakeSelector) Active() (ports.Backend, error) { return nil, errors.New("unused") }
func (s *fakeSelector) Current() domain.BackendName    { return s.current }
func (s *fakeSelector) Select(_ context.Context, name domain.BackendName) error {
	s.selected = append(s.selected, name)
	s.current = name
	return s.err
}

type fixedHistory []domain.HistoryEntry

func (h fixedHistory) Entries() []domain.HistoryEntry { return h }
func (h fixedHistory) Recent(int) []domain.HistoryEntry {
	return h
}
func (h fixedHistory) Len() int { return len(h) }

type scriptedChat struct {
	messages []string
	reply    string
	err      error
}

func (c *scriptedChat) Send(_ context.Context, message string, onChunk func(string)) (string, error) {
	c.messages = append(c.messages, message)
	for _, word := range strings.SplitAfter(c.reply, " ") {
		onChunk(word)
	}
	return c.reply, c.err
}

type shellFixture struct {
	shell     *Shell
	assistant *recordingAssistant
	selector  *fakeSelector
	chat      *scriptedChat
	out       *bytes.Buffer
}

func newShellFixture(input string, history ...domain.HistoryEntry) *shellFixture {
	out := &bytes.Buffer{}
	display := NewRenderer(out, nil, false)
	f := &shellFixture{
		assistant: &recordingAssistant{},
		selector:  &fakeSelector{current: domain.BackendDeepSeek},
		chat:      &scriptedChat{reply: "hi there"},
		out:       out,
	}
	f.shell = &Shell{
		Assistant: f.assistant,
		Backends:  f.selector,
		History:   fixedHistory(history),
		NewChat:   func() ChatSender { return f.chat },
		Console:   NewConsole(strings.NewReader(input), out, display),
		Display:   display,
		WorkDir:   "/srv",
	}
	return f
}

func TestShellBannerAndExit(t *testing.T) {
	f := newShellFixture("\n   \nEXIT\n")
	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Enhanced Linux Assistant")
	assert.Contains(t, out, "Current AI model: deepseek")
	assert.Contains(t, out, "- set model [model_name]: Switch AI models")
	assert.Contains(t, out, "➜ /srv $")
	assert.NotContains(t, out, "Exiting...")
	assert.Empty(t, f.assistant.calls)
}

func TestShellDispatch(t *testing.T) {
	input := strings.Join([]string{
		"task install nginx",
		"Script backup home",
		"explain tar",
		"schedule nightly cleanup",
		"ask why did it fail",
		"analyze",
		"ls -la",
		"taskless",
		"exit",
	}, "\n") + "\n"
	f := newShellFixture(input)
	require.NoError(t, f.shell.Run(context.Background()))

	assert.Equal(t, []string{
		"task:install nginx",
		"script:backup home",
		"explain:tar",
		"schedule:nightly cleanup",
		"ask:why did it fail",
		"analyze",
		"run:ls -la",
		"run:taskless",
	}, f.assistant.calls)
}

func TestShellSetModel(t *testing.T) {
	f := newShellFixture("set model llama\nset model Gemini\nexit\n")
	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Invalid model. Available: ['deepseek', 'gemini']")
	assert.Contains(t, out, "Switched to gemini model")
	assert.Equal(t, []domain.BackendName{domain.BackendGemini}, f.selector.selected)
}

func TestShellSetModelSetupFailure(t *testing.T) {
	f := newShellFixture("set model gemini\nexit\n")
	f.selector.err = errors.New("no key")
	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Model setup failed: no key")
	assert.Contains(t, out, "Switched to gemini model")
}

func TestShellLog(t *testing.T) {
	f := newShellFixture("log\nexit\n",
		domain.HistoryEntry{Command: "uptime", Output: "up 3 days\n", Success: true},
		domain.HistoryEntry{Command: "false", Output: "Error: exit status 1\n"},
	)
	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Command: uptime\nOutput: up 3 days\n\nSuccess: true\n")
	assert.Contains(t, out, "Command: false")
	assert.Contains(t, out, "Success: false")
}

func TestShellUseCaseErrorKeepsLooping(t *testing.T) {
	f := newShellFixture("task broken\nanalyze\nexit\n")
	f.assistant.err = errors.New("boom")
	require.NoError(t, f.shell.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(f.out.String(), "Error: boom"))
	assert.Len(t, f.assistant.calls, 2)
}

func TestShellEOFExits(t *testing.T) {
	f := newShellFixture("uptime\n")
	require.NoError(t, f.shell.Run(context.Background()))

	assert.Equal(t, []string{"run:uptime"}, f.assistant.calls)
	assert.Contains(t, f.out.String(), "\nExiting...")
}

func TestShellCancelledContextExits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := newShellFixture("")
	f.shell.Console = NewConsole(blockingReader{}, f.out, f.shell.Display)

	require.NoError(t, f.shell.Run(ctx))
	assert.Contains(t, f.out.String(), "Exiting...")
}

func TestShellChat(t *testing.T) {
	f := newShellFixture("chat\nhello\nexit\nexit\n")
	require.NoError(t, f.shell.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "Chat Mode (deepseek) - Type 'exit' to return")
	assert.Contains(t, out, "You: ")
	assert.Contains(t, out, "AI: hi there")
	assert.Contains(t, out, "Exiting chat mode...")
	assert.Equal(t, []string{"hello"}, f.chat.messages)
	assert.Empty(t, f.assistant.calls)
}

func TestShellChatErrorContinues(t *testing.T) {
	f := newShellFixture("chat\nhello\nagain\nexit\nexit\n")
	f.chat.reply = ""
	f.chat.err = errors.New("quota exceeded")
	require.NoError(t, f.shell.Run(context.Background()))

	assert.Equal(t, 2, strings.Count(f.out.String(), "Chat error: quota exceeded"))
	assert.Equal(t, []string{"hello", "again"}, f.chat.messages)
}

func TestChooseBackend(t *testing.T) {
	out := &bytes.Buffer{}
	display := NewRenderer(out, nil, false)
	console := NewConsole(strings.NewReader("openai\n GEMINI \n"), out, display)

	name, err := ChooseBackend(context.Background(), console, display)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendGemini, name)
	assert.Contains(t, out.String(), "  - deepseek")
	assert.Contains(t, out.String(), "Invalid model! Please choose from ['deepseek', 'gemini']")
}

func TestInitialBackend(t *testing.T) {
	console := NewConsole(strings.NewReader(""), &bytes.Buffer{}, nil)
	display := NewRenderer(&bytes.Buffer{}, nil, false)

	name, err := initialBackend(context.Background(), "gemini", domain.Config{}, console, display)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendGemini, name)

	cfg := domain.Config{Preferences: domain.Preferences{DefaultBackend: "deepseek"}}
	name, err = initialBackend(context.Background(), "", cfg, console, display)
	require.NoError(t, err)
	assert.Equal(t, domain.BackendDeepSeek, name)

	_, err = initialBackend(context.Background(), "llama", domain.Config{}, console, display)
	assert.Error(t, err)
}
