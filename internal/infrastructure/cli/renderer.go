package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/doeshing/linux-agent/internal/ports"
)

// Renderer writes colored user-facing output. Colors are dropped automatically
// when out is not a terminal.
type Renderer struct {
	out         io.Writer
	progressOut io.Writer
	interactive bool

	command  lipgloss.Style
	output   lipgloss.Style
	analysis lipgloss.Style
	errStyle lipgloss.Style
	chat     lipgloss.Style
	warning  lipgloss.Style
}

// NewRenderer builds a renderer. The spinner is drawn on progressOut only when interactive.
func NewRenderer(out io.Writer, progressOut io.Writer, interactive bool) *Renderer {
	r := lipgloss.NewRenderer(out)
	color := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c)).TabWidth(lipgloss.NoTabConversion)
	}
	return &Renderer{
		out:         out,
		progressOut: progressOut,
		interactive: interactive,
		command:     color("3"),
		output:      color("8"),
		analysis:    color("6"),
		errStyle:    color("1"),
		chat:        color("4"),
		warning:     color("3"),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// paint styles each line on its own; lipgloss would otherwise pad a block to equal width.
func paint(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) Analysis(text string) { fmt.Fprintln(r.out, paint(r.analysis, text)) }
func (r *Renderer) Command(text string)  { fmt.Fprintln(r.out, paint(r.command, text)) }
func (r *Renderer) Warning(text string)  { fmt.Fprintln(r.out, paint(r.warning, text)) }
func (r *Renderer) Error(text string)    { fmt.Fprintln(r.out, paint(r.errStyle, text)) }
func (r *Renderer) Plain(text string)    { fmt.Fprintln(r.out, text) }

// Output writes command output as is; it already ends with a newline.
func (r *Renderer) Output(text string) { fmt.Fprint(r.out, paint(r.output, text)) }

// Chunk writes a streamed answer fragment.
func (r *Renderer) Chunk(text string) { fmt.Fprint(r.out, paint(r.analysis, text)) }

// Chat writes a streamed chat fragment.
func (r *Renderer) Chat(text string) { fmt.Fprint(r.out, paint(r.chat, text)) }

// Warn returns text in the warning style, for prompts.
func (r *Renderer) Warn(text string) string { return paint(r.warning, text) }

// Prompt returns text in the command style, for prompts.
func (r *Renderer) Prompt(text string) string { return paint(r.command, text) }

// Progress implements ports.Display.
func (r *Renderer) Progress(label string) func() {
	if !r.interactive || r.progressOut == nil {
		return func() {}
	}
	spinner := NewSpinner(r.progressOut, label)
	spinner.Start()
	return spinner.Stop
}

var _ ports.Display = (*Renderer)(nil)
