package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/doeshing/linux-agent/internal/ports"
)

// ErrInterrupted is returned when a read is abandoned because the context ended.
var ErrInterrupted = errors.New("interrupted")

type lineResult struct {
	text string
	err  error
}

// Console reads input lines for the shell, confirmations and credential prompts.
// Lines are pumped by a background goroutine so a pending read can be abandoned on interrupt.
type Console struct {
	in     io.Reader
	out    io.Writer
	styles *Renderer
	getenv func(string) string

	once  sync.Once
	lines chan lineResult
}

// NewConsole builds a console over in and out. styles may be nil.
func NewConsole(in io.Reader, out io.Writer, styles *Renderer) *Console {
	return &Console{
		in:     in,
		out:    out,
		styles: styles,
		getenv: os.Getenv,
		lines:  make(chan lineResult),
	}
}

func (c *Console) pump() {
	reader := bufio.NewReader(c.in)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			c.lines <- lineResult{text: strings.TrimRight(line, "\r\n")}
		}
		if err != nil {
			c.lines <- lineResult{err: err}
			close(c.lines)
			return
		}
	}
}

// ReadLine prints prompt and waits for the next line. It returns io.EOF once input
// is exhausted and ErrInterrupted when ctx ends first.
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	c.once.Do(func() { go c.pump() })
	fmt.Fprint(c.out, prompt)

	select {
	case <-ctx.Done():
		return "", ErrInterrupted
	case res, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

// Confirm implements ports.Confirmer. Only "y" (any case) is affirmative.
func (c *Console) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.styles != nil {
		prompt = c.styles.Warn(prompt)
	}
	answer, err := c.ReadLine(ctx, prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

// Credential implements ports.CredentialSource. The typed key is echoed.
func (c *Console) Credential(ctx context.Context, envVar string, label string) (string, error) {
	if value := c.getenv(envVar); value != "" {
		return value, nil
	}
	key, err := c.ReadLine(ctx, fmt.Sprintf("Enter %s: ", label))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

var (
	_ ports.Confirmer        = (*Console)(nil)
	_ ports.CredentialSource = (*Console)(nil)
)
