package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/linux-agent/assets"
	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/pkg/filesystem"
	"github.com/doeshing/linux-agent/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "LINUX_AGENT_CONFIG"

// FileLoader loads YAML configuration from ~/.linux-agent/config.yaml (overridable via LINUX_AGENT_CONFIG).
type FileLoader struct {
	overridePath string
	logger       ports.Logger
}

// NewFileLoader builds a new loader. An empty path uses the default resolution.
func NewFileLoader(path string, logger ports.Logger) *FileLoader {
	return &FileLoader{overridePath: path, logger: logger}
}

// Load implements ports.ConfigProvider. A missing file is created from the embedded default.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("read config: %w", err)
		}
		data = assets.DefaultConfigYAML
		if err := os.WriteFile(path, data, domain.SecureFilePermissions); err != nil {
			return domain.Config{}, fmt.Errorf("write default config: %w", err)
		}
		l.debug("default config written", path)
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	l.debug("config loaded", path)
	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func (l *FileLoader) debug(msg string, path string) {
	if l.logger != nil {
		l.logger.Debug(msg, map[string]interface{}{"path": path})
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.HistoryWindow == 0 {
		cfg.Preferences.HistoryWindow = domain.DefaultHistoryWindow
	}
	if cfg.Execution.TimeoutSeconds == 0 {
		cfg.Execution.TimeoutSeconds = int(domain.DefaultCommandTimeout.Seconds())
	}
	if cfg.Execution.Shell == "" {
		cfg.Execution.Shell = domain.DefaultShell
	}
	if cfg.Execution.ScriptName == "" {
		cfg.Execution.ScriptName = domain.DefaultScriptName
	}
	if len(cfg.Security.DangerousPatterns) == 0 {
		cfg.Security.DangerousPatterns = append([]string(nil), domain.DefaultDangerousPatterns...)
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = filepath.Join(filesystem.AppDir(), "history.db")
	}
	cfg.Journal.Path = filesystem.ExpandPath(cfg.Journal.Path)
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
