package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

var (
	// ErrUnknownBackend is returned when selecting a backend outside the supported set.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrBackendNotReady is returned when the active backend failed to initialise.
	ErrBackendNotReady = errors.New("backend not initialised")
)

// Builder creates a backend handle from its definition and credential.
type Builder func(ctx context.Context, def domain.BackendDefinition, apiKey string, logger ports.Logger) (ports.Backend, error)

// credentialLabels are shown when the key has to be typed in.
var credentialLabels = map[domain.BackendName]string{
	domain.BackendDeepSeek: "DeepSeek API key",
	domain.BackendGemini:   "Google AI API key",
}

// DefaultBuilders returns the production builders for every supported backend.
func DefaultBuilders() map[domain.BackendName]Builder {
	return map[domain.BackendName]Builder{
		domain.BackendDeepSeek: func(_ context.Context, def domain.BackendDefinition, apiKey string, logger ports.Logger) (ports.Backend, error) {
			return NewDeepSeekBackend(def, apiKey, logger)
		},
		domain.BackendGemini: func(ctx context.Context, def domain.BackendDefinition, apiKey string, logger ports.Logger) (ports.Backend, error) {
			return NewGeminiBackend(ctx, def, apiKey, logger)
		},
	}
}

// Registry owns one lazily initialised handle per backend and tracks the active one.
type Registry struct {
	mu          sync.Mutex
	cfg         domain.Config
	builders    map[domain.BackendName]Builder
	credentials ports.CredentialSource
	logger      ports.Logger

	keys    map[domain.BackendName]string
	handles map[domain.BackendName]ports.Backend
	active  domain.BackendName
}

// NewRegistry creates a registry with nothing initialised.
func NewRegistry(cfg domain.Config, builders map[domain.BackendName]Builder, credentials ports.CredentialSource, logger ports.Logger) *Registry {
	return &Registry{
		cfg:         cfg,
		builders:    builders,
		credentials: credentials,
		logger:      logger,
		keys:        make(map[domain.BackendName]string),
		handles:     make(map[domain.BackendName]ports.Backend),
	}
}

// Select makes name the active backend and initialises it on first use.
// The switch happens even when setup fails; the failed tag is retried on the next Select.
func (r *Registry) Select(ctx context.Context, name domain.BackendName) error {
	builder, ok := r.builders[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}

	r.mu.Lock()
	r.active = name
	_, ready := r.handles[name]
	r.mu.Unlock()
	if ready {
		return nil
	}

	if err := r.setup(ctx, name, builder); err != nil {
		r.log().Error("backend setup failed", err, map[string]interface{}{"backend": string(name)})
		return fmt.Errorf("backend setup: %w", err)
	}
	return nil
}

func (r *Registry) setup(ctx context.Context, name domain.BackendName, builder Builder) error {
	def := r.cfg.Backend(name)
	r.log().Debug("backend setup", map[string]interface{}{
		"backend": string(name),
		"model":   def.ModelID,
	})

	r.mu.Lock()
	key := r.keys[name]
	r.mu.Unlock()
	if key == "" {
		if r.credentials == nil {
			return fmt.Errorf("no credential source for %s", name)
		}
		resolved, err := r.credentials.Credential(ctx, def.AuthEnvVar, credentialLabels[name])
		if err != nil {
			return err
		}
		key = strings.TrimSpace(resolved)
		if key == "" {
			return fmt.Errorf("no API key provided for %s", name)
		}
		r.mu.Lock()
		r.keys[name] = key
		r.mu.Unlock()
	}

	handle, err := builder(ctx, def, key, r.logger)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.handles[name] = handle
	r.mu.Unlock()
	r.log().Info("backend ready", map[string]interface{}{"backend": string(name)})
	return nil
}

// Active implements ports.BackendSelector.
func (r *Registry) Active() (ports.Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle, ok := r.handles[r.active]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotReady, r.active)
	}
	return handle, nil
}

// Current returns the active backend tag, ready or not.
func (r *Registry) Current() domain.BackendName {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Registry) log() ports.Logger {
	if r.logger == nil {
		return nopLogger{}
	}
	return r.logger
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

var _ ports.BackendSelector = (*Registry)(nil)
