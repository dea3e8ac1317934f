package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/linux-agent/internal/app"
	"github.com/doeshing/linux-agent/internal/application/chat"
	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/infrastructure/cli/commands"
)

// EnvDebug enables debug logging when set to 1 or true.
const EnvDebug = "LINUX_AGENT_DEBUG"

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	// Interactive enables the spinner; normally true when stderr is a terminal.
	Interactive bool
}

// DebugFromEnv reports whether EnvDebug asks for verbose logging.
func DebugFromEnv() bool {
	value := os.Getenv(EnvDebug)
	return value == "1" || strings.EqualFold(value, "true")
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	var (
		configPath string
		debug      bool
		model      string
		container  *app.Container
	)

	display := NewRenderer(opts.Out, opts.Err, opts.Interactive)
	console := NewConsole(opts.In, opts.Out, display)

	provide := func(ctx context.Context) (*app.Container, error) {
		if container != nil {
			return container, nil
		}
		built, err := app.BuildContainer(ctx, app.Options{
			ConfigPath:  configPath,
			Verbose:     opts.Verbose || debug,
			Confirmer:   console,
			Credentials: console,
			Display:     display,
		})
		if err != nil {
			return nil, err
		}
		container = built
		return container, nil
	}

	root := &cobra.Command{
		Use:   "linux-agent",
		Short: "Interactive Linux assistant backed by DeepSeek or Gemini",
		Long: "linux-agent runs shell commands, plans multi-step tasks with rollback and answers\n" +
			"questions about your session using a DeepSeek or Gemini model.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := provide(ctx)
			if err != nil {
				return err
			}
			c.CaptureContext(ctx)

			name, err := initialBackend(ctx, model, c.Config, console, display)
			if err != nil {
				if isTerminal(err) {
					display.Plain("\nExiting cleanly...")
					return nil
				}
				return err
			}
			if err := c.Registry.Select(ctx, name); err != nil {
				if isTerminal(err) {
					display.Plain("\nExiting cleanly...")
					return nil
				}
				display.Error("Model setup failed: " + err.Error())
			}

			shell := &Shell{
				Assistant: c.Assistant,
				Backends:  c.Registry,
				History:   c.History,
				NewChat:   func() ChatSender { return chat.NewSession(c.Registry, c.Logger) },
				Console:   console,
				Display:   display,
				WorkDir:   c.WorkDir,
			}
			return shell.Run(ctx)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if container == nil {
				return nil
			}
			return container.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetIn(opts.In)
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.linux-agent/config.yaml)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	root.Flags().StringVarP(&model, "model", "m", "", fmt.Sprintf("Initial model (%s)", domain.BackendList()))

	root.AddCommand(commands.NewVersionCommand())
	root.AddCommand(commands.NewDoctorCommand(provide))
	root.AddCommand(commands.NewJournalCommand(provide))
	return root
}

// initialBackend resolves the starting backend from the flag, then the config, then the user.
func initialBackend(ctx context.Context, flag string, cfg domain.Config, console *Console, display *Renderer) (domain.BackendName, error) {
	if flag != "" {
		return domain.ParseBackendName(flag)
	}
	name, ok, err := cfg.GetDefaultBackend()
	if err != nil {
		return "", err
	}
	if ok {
		return name, nil
	}
	return ChooseBackend(ctx, console, display)
}
