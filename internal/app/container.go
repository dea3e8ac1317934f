package app

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/doeshing/linux-agent/internal/application/assistant"
	appconfig "github.com/doeshing/linux-agent/internal/application/config"
	"github.com/doeshing/linux-agent/internal/application/doctor"
	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/infrastructure/ai"
	"github.com/doeshing/linux-agent/internal/infrastructure/config"
	contextcollector "github.com/doeshing/linux-agent/internal/infrastructure/context"
	"github.com/doeshing/linux-agent/internal/infrastructure/cron"
	"github.com/doeshing/linux-agent/internal/infrastructure/executor"
	"github.com/doeshing/linux-agent/internal/infrastructure/history"
	"github.com/doeshing/linux-agent/internal/infrastructure/security"
	"github.com/doeshing/linux-agent/internal/pkg/logger"
	"github.com/doeshing/linux-agent/internal/ports"
)

// Options controls how the container is assembled. The terminal ports are
// supplied by the CLI layer.
type Options struct {
	ConfigPath string
	Verbose    bool
	WorkDir    string

	Confirmer   ports.Confirmer
	Credentials ports.CredentialSource
	Display     ports.Display

	// Builders overrides the backend constructors, mainly for tests.
	Builders map[domain.BackendName]ai.Builder
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	Logger         ports.Logger
	SessionID      string
	WorkDir        string

	Collector ports.ContextCollector
	Registry  *ai.Registry
	History   *history.Log
	Journal   ports.Journal

	Assistant     *assistant.Service
	DoctorService *doctor.Service
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log := logger.New(opts.Verbose)

	cfgLoader := config.NewFileLoader(opts.ConfigPath, log)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := appconfig.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgLoader.Path(), err)
	}

	workDir := opts.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
	}

	sessionID := uuid.NewString()
	var journal ports.Journal
	if cfg.IsJournalEnabled() {
		journal = history.NewSQLiteStore(cfg.Journal.Path)
	}
	historyLog := history.NewLog(journal, sessionID, log)

	gate := security.NewGate(cfg.GetDangerousPatterns())
	shell := cfg.GetExecutionShell()
	exec := executor.NewLocalExecutor(executor.Options{
		Shell:   shell,
		WorkDir: workDir,
		Timeout: cfg.GetTimeout(),
	}, historyLog, log)
	collector := contextcollector.NewHostCollector(executor.NewShellProber(shell, domain.DefaultProbeTimeout), workDir)

	builders := opts.Builders
	if builders == nil {
		builders = ai.DefaultBuilders()
	}
	registry := ai.NewRegistry(cfg, builders, opts.Credentials, log)

	assistantService := &assistant.Service{
		Snapshot:  domain.ContextSnapshot{WorkingDir: workDir},
		Config:    cfg,
		Backends:  registry,
		Prompts:   ai.Prompts{},
		Parser:    ai.JSONParser{},
		Gate:      gate,
		Executor:  exec,
		History:   historyLog,
		Confirmer: opts.Confirmer,
		Prober:    executor.NewShellProber(shell, cfg.GetTimeout()),
		Schedules: cron.NewValidator(),
		Display:   opts.Display,
		Logger:    log,
	}

	doctorService := &doctor.Service{
		ConfigProvider:   cfgLoader,
		DangerGate:       gate,
		ContextCollector: collector,
		Journal:          journal,
	}

	log.Debug("container ready", map[string]interface{}{
		"config":  cfgLoader.Path(),
		"session": sessionID,
		"journal": cfg.IsJournalEnabled(),
	})

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		Logger:         log,
		SessionID:      sessionID,
		WorkDir:        workDir,
		Collector:      collector,
		Registry:       registry,
		History:        historyLog,
		Journal:        journal,
		Assistant:      assistantService,
		DoctorService:  doctorService,
	}, nil
}

// CaptureContext takes the host snapshot used by every assistant request.
func (c *Container) CaptureContext(ctx context.Context) domain.ContextSnapshot {
	snapshot := c.Collector.Collect(ctx)
	c.Assistant.Snapshot = snapshot
	return snapshot
}

// Close releases the journal database, if any.
func (c *Container) Close() error {
	if closer, ok := c.Journal.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
