package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

var jsonPromptTemplate = template.Must(template.New("json").Parse(`Respond ONLY with valid JSON. Linux expert assistant. Context:
{{.Context}}
{{.History}}...
Response format:
{
    "analysis": "concise technical analysis",
    "commands": ["step1", "step2"],
    "rollback": ["undo-command1", "undo-command2"]
}`))

var askPromptTemplate = template.Must(template.New("ask").Parse(`You are a Linux sysadmin assistant. Current directory: {{.WorkingDir}}
Recent command history:
{{.History}}
Answer technical questions about these commands and their outputs.`))

// promptContext is the snapshot as serialised into the JSON system prompt.
type promptContext struct {
	OS               string `json:"os"`
	WorkDir          string `json:"work_dir"`
	PackageManager   string `json:"package_manager"`
	CriticalServices string `json:"critical_services"`
	DiskSpace        string `json:"disk_space"`
	NetworkIPs       string `json:"network_ips"`
	CPUCores         int    `json:"cpu_cores"`
	MemoryTotal      string `json:"memory_total"`
	EssentialEnvVars string `json:"essential_env_vars"`
}

func newPromptContext(snapshot domain.ContextSnapshot) promptContext {
	limit := domain.PromptValueLimit
	return promptContext{
		OS:               truncate(snapshot.OS, limit),
		WorkDir:          truncate(snapshot.WorkingDir, limit),
		PackageManager:   truncate(snapshot.PackageManager, limit),
		CriticalServices: truncate(snapshot.ServicesSummary(), limit),
		DiskSpace:        truncate(snapshot.DiskUsage, limit),
		NetworkIPs:       truncate(snapshot.NetworkSummary(), limit),
		CPUCores:         snapshot.CPUCores,
		MemoryTotal:      truncate(snapshot.MemoryTotal, limit),
		EssentialEnvVars: truncate(snapshot.EnvironmentSummary(), limit),
	}
}

// BuildSystemPrompt renders the instruction used for every structured request:
// the JSON-only directive, the host snapshot, recent history and the schema.
func BuildSystemPrompt(snapshot domain.ContextSnapshot, recent []domain.HistoryEntry) (string, error) {
	ctxJSON, err := json.MarshalIndent(newPromptContext(snapshot), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode context: %w", err)
	}

	history := ""
	if len(recent) > 0 {
		entries := make([]string, 0, len(recent))
		for _, entry := range recent {
			entries = append(entries, fmt.Sprintf("Command: %s\nOutput: %s\nSuccess: %t", entry.Command, entry.Output, entry.Success))
		}
		history = cut("Recent commands:\n"+strings.Join(entries, "\n"), domain.PromptHistoryLimit)
	}

	return render(jsonPromptTemplate, map[string]string{
		"Context": string(ctxJSON),
		"History": history,
	})
}

// BuildAskPrompt renders the free-text system prompt for questions about recent commands.
func BuildAskPrompt(workDir string, recent []domain.HistoryEntry) (string, error) {
	entries := make([]string, 0, len(recent))
	for _, entry := range recent {
		entries = append(entries, fmt.Sprintf("Command: %s\nOutput: %s", entry.Command, cut(entry.Output, domain.AskOutputLimit)))
	}
	return render(askPromptTemplate, map[string]string{
		"WorkingDir": workDir,
		"History":    strings.Join(entries, "\n"),
	})
}

func render(tmpl *template.Template, data map[string]string) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// truncate shortens values longer than limit runes and marks them with "...".
func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "..."
}

// cut shortens value to at most limit runes.
func cut(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

// Prompts implements ports.PromptBuilder.
type Prompts struct{}

func (Prompts) StructuredPrompt(snapshot domain.ContextSnapshot, recent []domain.HistoryEntry) (string, error) {
	return BuildSystemPrompt(snapshot, recent)
}

func (Prompts) AskPrompt(workDir string, recent []domain.HistoryEntry) (string, error) {
	return BuildAskPrompt(workDir, recent)
}

var _ ports.PromptBuilder = Prompts{}
