package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

const helpText = `Available commands:
- ask [question]: Ask about terminal history
- analyze: Explain last command output
- task [description]: Run multi-step task
- script [description]: Generate a bash script
- explain [command]: Explain a command
- schedule [description]: Schedule a task with cron
- chat: Enter chat mode
- set model [model_name]: Switch AI models
- log: View command history
- help: Show available commands
- exit: Quit the program`

// Assistant is the set of use-cases reachable from the shell prompt.
type Assistant interface {
	RunCommand(ctx context.Context, command string) error
	RunTask(ctx context.Context, description string) error
	GenerateScript(ctx context.Context, description string) error
	Explain(ctx context.Context, command string) error
	Schedule(ctx context.Context, description string) error
	Ask(ctx context.Context, question string) error
	Analyze(ctx context.Context) error
}

// ChatSender is one chat conversation.
type ChatSender interface {
	Send(ctx context.Context, message string, onChunk func(string)) (string, error)
}

// Shell is the interactive read-eval-print loop.
type Shell struct {
	Assistant Assistant
	Backends  ports.BackendSelector
	History   ports.HistoryReader
	NewChat   func() ChatSender
	Console   *Console
	Display   *Renderer
	WorkDir   string
}

// Run prints the banner and serves commands until exit, EOF or interrupt.
func (s *Shell) Run(ctx context.Context) error {
	s.Display.Analysis("Enhanced Linux Assistant")
	s.Display.Plain(fmt.Sprintf("Current AI model: %s\n", s.Backends.Current()))
	s.Display.Plain(helpText)

	for {
		line, err := s.Console.ReadLine(ctx, s.Display.Prompt(fmt.Sprintf("\n➜ %s $", s.WorkDir))+" ")
		if err != nil {
			if isTerminal(err) {
				s.Display.Plain("\nExiting...")
				return nil
			}
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			return nil
		}

		err = s.dispatch(ctx, input)
		if ctx.Err() != nil || isTerminal(err) {
			s.Display.Plain("\nExiting...")
			return nil
		}
		if err != nil {
			s.Display.Error("Error: " + err.Error())
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, input string) error {
	lower := strings.ToLower(input)
	arg := func(prefix string) string { return strings.TrimSpace(input[len(prefix):]) }

	switch {
	case lower == "help":
		s.Display.Plain(helpText)
		return nil
	case strings.HasPrefix(lower, "set model "):
		fields := strings.Fields(input)
		return s.setModel(ctx, fields[len(fields)-1])
	case strings.HasPrefix(lower, "task "):
		return s.Assistant.RunTask(ctx, arg("task "))
	case strings.HasPrefix(lower, "script "):
		return s.Assistant.GenerateScript(ctx, arg("script "))
	case strings.HasPrefix(lower, "explain "):
		return s.Assistant.Explain(ctx, arg("explain "))
	case strings.HasPrefix(lower, "schedule "):
		return s.Assistant.Schedule(ctx, arg("schedule "))
	case lower == "log":
		s.showLog()
		return nil
	case strings.HasPrefix(lower, "ask "):
		return s.Assistant.Ask(ctx, arg("ask "))
	case lower == "analyze":
		return s.Assistant.Analyze(ctx)
	case lower == "chat":
		return s.chat(ctx)
	default:
		return s.Assistant.RunCommand(ctx, input)
	}
}

func (s *Shell) setModel(ctx context.Context, value string) error {
	name, err := domain.ParseBackendName(value)
	if err != nil {
		s.Display.Error("Invalid model. Available: " + backendChoices())
		return nil
	}
	if err := s.Backends.Select(ctx, name); err != nil {
		if isTerminal(err) {
			return err
		}
		s.Display.Error("Model setup failed: " + err.Error())
	}
	s.Display.Analysis(fmt.Sprintf("Switched to %s model", name))
	return nil
}

func (s *Shell) showLog() {
	for _, entry := range s.History.Entries() {
		s.Display.Plain("Command: " + entry.Command)
		s.Display.Plain("Output: " + entry.Output)
		s.Display.Plain(fmt.Sprintf("Success: %t\n", entry.Success))
	}
}

func (s *Shell) chat(ctx context.Context) error {
	session := s.NewChat()
	s.Display.Analysis(fmt.Sprintf("\nChat Mode (%s) - Type 'exit' to return", s.Backends.Current()))

	for {
		message, err := s.Console.ReadLine(ctx, s.Display.Prompt("You:")+" ")
		if err != nil {
			return err
		}
		message = strings.TrimSpace(message)
		if strings.EqualFold(message, "exit") {
			s.Display.Analysis("Exiting chat mode...")
			return nil
		}

		s.Display.Chat("AI: ")
		_, err = session.Send(ctx, message, s.Display.Chat)
		s.Display.Plain("")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			s.Display.Error("\nChat error: " + err.Error())
		}
	}
}

// ChooseBackend asks for the initial backend until a valid name is entered.
func ChooseBackend(ctx context.Context, console *Console, display ports.Display) (domain.BackendName, error) {
	display.Plain("Available AI models:")
	for _, name := range domain.Backends {
		display.Plain("  - " + string(name))
	}
	for {
		choice, err := console.ReadLine(ctx, "\nChoose initial model (deepseek/gemini): ")
		if err != nil {
			return "", err
		}
		name, err := domain.ParseBackendName(choice)
		if err == nil {
			return name, nil
		}
		display.Plain("Invalid model! Please choose from " + backendChoices())
	}
}

func backendChoices() string {
	quoted := make([]string, 0, len(domain.Backends))
	for _, name := range domain.Backends {
		quoted = append(quoted, "'"+string(name)+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func isTerminal(err error) bool {
	return errors.Is(err, ErrInterrupted) || errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled)
}
