package domain

// Config mirrors ~/.linux-agent/config.yaml.
type Config struct {
	ConfigFormatVersion string                            `yaml:"config_format_version"`
	Preferences         Preferences                       `yaml:"preferences"`
	Execution           ExecutionSettings                 `yaml:"execution"`
	Backends            map[BackendName]BackendDefinition `yaml:"backends"`
	Security            SecuritySettings                  `yaml:"security"`
	Journal             JournalSettings                   `yaml:"journal"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultBackend string `yaml:"default_backend"`
	HistoryWindow  int    `yaml:"history_window"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	Shell          string `yaml:"shell"`
	TimeoutSeconds int    `yaml:"timeout"`
	ScriptName     string `yaml:"script_name"`
}

// SecuritySettings defines the danger gate deny-list.
type SecuritySettings struct {
	DangerousPatterns []string `yaml:"dangerous_patterns"`
}

// JournalSettings controls the persistent execution journal.
type JournalSettings struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path"`
}
