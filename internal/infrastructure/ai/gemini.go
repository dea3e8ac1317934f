package ai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// GeminiBackend talks to the Gemini API.
type GeminiBackend struct {
	client *genai.Client
	model  string
	logger ports.Logger
}

// NewGeminiBackend builds a Gemini API client. An endpoint in def overrides the base URL.
func NewGeminiBackend(ctx context.Context, def domain.BackendDefinition, apiKey string, logger ports.Logger) (*GeminiBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: empty API key")
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if def.Endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: def.Endpoint}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &GeminiBackend{
		client: client,
		model:  valueOrDefault(def.ModelID, domain.DefaultGeminiModel),
		logger: logger,
	}, nil
}

func (b *GeminiBackend) Name() domain.BackendName {
	return domain.BackendGemini
}

// Complete implements ports.Backend.
func (b *GeminiBackend) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	b.logCall(req, false)
	resp, err := b.client.Models.GenerateContent(ctx, b.model, geminiContents(req.Messages), b.config(req))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return resp.Text(), nil
}

// Stream implements ports.Backend.
func (b *GeminiBackend) Stream(ctx context.Context, req ports.CompletionRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		b.logCall(req, true)
		for resp, err := range b.client.Models.GenerateContentStream(ctx, b.model, geminiContents(req.Messages), b.config(req)) {
			if err != nil {
				yield("", fmt.Errorf("gemini: %w", err))
				return
			}
			if text := resp.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

func (b *GeminiBackend) config(req ports.CompletionRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

func (b *GeminiBackend) logCall(req ports.CompletionRequest, stream bool) {
	if b.logger == nil {
		return
	}
	b.logger.Debug("backend call", map[string]interface{}{
		"backend":  string(domain.BackendGemini),
		"model":    b.model,
		"json":     req.JSON,
		"stream":   stream,
		"messages": len(req.Messages),
	})
}

// geminiContents maps turns to Gemini contents; system turns are sent as user text.
func geminiContents(turns []domain.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		var role genai.Role = genai.RoleUser
		if turn.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return contents
}

var _ ports.Backend = (*GeminiBackend)(nil)
