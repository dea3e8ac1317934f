package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		analysis string
		commands []string
		rollback []string
	}{
		{
			name:     "plain object",
			raw:      `{"analysis":"a","commands":["ls"],"rollback":[]}`,
			analysis: "a",
			commands: []string{"ls"},
			rollback: []string{},
		},
		{
			name:     "fenced json block",
			raw:      "```json\n{\"analysis\":\"x\",\"commands\":[\"df -h\",\"du -sh /var\"]}\n```",
			analysis: "x",
			commands: []string{"df -h", "du -sh /var"},
		},
		{
			name:     "surrounding whitespace",
			raw:      "\n  {\"commands\":[\"uptime\"]}  \n",
			commands: []string{"uptime"},
		},
		{
			name: "missing fields are empty",
			raw:  `{}`,
		},
		{
			name:     "unknown fields are ignored",
			raw:      `{"analysis":"ok","confidence":0.9}`,
			analysis: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.analysis, resp.Analysis)
			assert.Equal(t, tt.commands, resp.Commands)
			assert.Equal(t, tt.rollback, resp.Rollback)
		})
	}
}

func TestParseResponseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "I cannot help with that"},
		{name: "truncated", raw: `{"analysis": "a"`},
		{name: "null", raw: "null"},
		{name: "array", raw: `["ls"]`},
		{name: "commands not a list", raw: `{"commands":"ls"}`},
		{name: "analysis not a string", raw: `{"analysis":{"text":"a"}}`},
		{name: "trailing data", raw: `{"analysis":"a"} {"analysis":"b"}`},
		{name: "unterminated fence", raw: "```json\n{\"analysis\":"},
		{name: "empty", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			require.Error(t, err)
			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.raw, parseErr.Raw)
		})
	}
}

func TestExtractJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSONBlock("```json\n{\"a\":1}\n```\ntrailing prose"))
	assert.Equal(t, "```sh\nls\n```", extractJSONBlock("```sh\nls\n```"))
	assert.Equal(t, `{"a":1}`, extractJSONBlock(`  {"a":1}  `))
}
