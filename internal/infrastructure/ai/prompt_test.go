package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/linux-agent/internal/domain"
)

func testSnapshot() domain.ContextSnapshot {
	return domain.ContextSnapshot{
		OS:               "Debian GNU/Linux 12 (bookworm)",
		WorkingDir:       "/home/ops",
		PackageManager:   "apt",
		CriticalServices: []string{"ssh.service"},
		DiskUsage:        strings.Repeat("x", 120),
		NetworkInterfaces: []domain.InterfaceAddress{
			{Name: "eth0", Address: "10.0.0.5/24"},
		},
		CPUCores:        8,
		MemoryTotal:     "16 GiB",
		EnvironmentVars: map[string]string{"USER": "ops"},
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt, err := BuildSystemPrompt(testSnapshot(), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "Respond ONLY with valid JSON. Linux expert assistant. Context:"))
	assert.Contains(t, prompt, `"os": "Debian GNU/Linux 12 (bookworm)"`)
	assert.Contains(t, prompt, `"cpu_cores": 8`)
	assert.Contains(t, prompt, `"network_ips": "eth0 10.0.0.5/24"`)
	assert.Contains(t, prompt, `"disk_space": "`+strings.Repeat("x", 75)+`..."`)
	assert.NotContains(t, prompt, strings.Repeat("x", 76))
	assert.Contains(t, prompt, `"rollback": ["undo-command1", "undo-command2"]`)
	assert.NotContains(t, prompt, "Recent commands:")
}

func TestBuildSystemPromptIncludesCappedHistory(t *testing.T) {
	recent := []domain.HistoryEntry{
		{Command: "ls", Output: "a\nb\n", Success: true},
		{Command: "cat missing", Output: strings.Repeat("y", 500), Success: false},
	}

	prompt, err := BuildSystemPrompt(testSnapshot(), recent)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Recent commands:\nCommand: ls\nOutput: a\nb\n\nSuccess: true")
	start := strings.Index(prompt, "Recent commands:")
	end := strings.Index(prompt, "...\nResponse format:")
	require.True(t, start >= 0 && end > start)
	assert.Len(t, []rune(prompt[start:end]), domain.PromptHistoryLimit)
}

func TestBuildAskPrompt(t *testing.T) {
	recent := []domain.HistoryEntry{
		{Command: "uname -a", Output: strings.Repeat("z", 300)},
	}

	prompt, err := BuildAskPrompt("/srv", recent)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "You are a Linux sysadmin assistant. Current directory: /srv\n"))
	assert.Contains(t, prompt, "Command: uname -a\nOutput: "+strings.Repeat("z", 200)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("z", 201))
	assert.True(t, strings.HasSuffix(prompt, "Answer technical questions about these commands and their outputs."))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "éé...", truncate("ééé", 2))
}
