package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingReader never yields input.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestConsoleReadLine(t *testing.T) {
	out := &bytes.Buffer{}
	console := NewConsole(strings.NewReader("first\r\nsecond"), out, nil)
	ctx := context.Background()

	line, err := console.ReadLine(ctx, "> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = console.ReadLine(ctx, "> ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = console.ReadLine(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF)

	_, err = console.ReadLine(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > > ", out.String())
}

func TestConsoleReadLineInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	console := NewConsole(blockingReader{}, io.Discard, nil)

	_, err := console.ReadLine(ctx, "")
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestConsoleConfirm(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{answer: "y", want: true},
		{answer: " Y ", want: true},
		{answer: "yes", want: false},
		{answer: "n", want: false},
		{answer: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			out := &bytes.Buffer{}
			console := NewConsole(strings.NewReader(tt.answer+"\n"), out, NewRenderer(out, nil, false))
			got, err := console.Confirm(context.Background(), "Run all commands? [y/N] ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Run all commands? [y/N] ")
		})
	}
}

func TestConsoleCredential(t *testing.T) {
	out := &bytes.Buffer{}
	console := NewConsole(strings.NewReader("  typed-key \n"), out, nil)
	console.getenv = func(key string) string {
		if key == "DEEPSEEK_API_KEY" {
			return "env-key"
		}
		return ""
	}

	key, err := console.Credential(context.Background(), "DEEPSEEK_API_KEY", "DeepSeek API key")
	require.NoError(t, err)
	assert.Equal(t, "env-key", key)
	assert.Empty(t, out.String())

	key, err = console.Credential(context.Background(), "GEMINI_API_KEY", "Google AI API key")
	require.NoError(t, err)
	assert.Equal(t, "typed-key", key)
	assert.Equal(t, "Enter Google AI API key: ", out.String())
}
