package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// DeepSeekBackend talks to DeepSeek through its OpenAI-compatible API.
type DeepSeekBackend struct {
	client *openai.Client
	model  string
	logger ports.Logger
}

// NewDeepSeekBackend builds a client for the endpoint in def.
func NewDeepSeekBackend(def domain.BackendDefinition, apiKey string, logger ports.Logger) (*DeepSeekBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("deepseek: empty API key")
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(valueOrDefault(def.Endpoint, domain.DefaultDeepSeekEndpoint), "/")
	return &DeepSeekBackend{
		client: openai.NewClientWithConfig(config),
		model:  valueOrDefault(def.ModelID, domain.DefaultDeepSeekModel),
		logger: logger,
	}, nil
}

func (b *DeepSeekBackend) Name() domain.BackendName {
	return domain.BackendDeepSeek
}

// Complete implements ports.Backend.
func (b *DeepSeekBackend) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	chatReq := b.request(req)
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	b.logCall(req, false)

	resp, err := b.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("deepseek: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("deepseek: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream implements ports.Backend.
func (b *DeepSeekBackend) Stream(ctx context.Context, req ports.CompletionRequest) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		chatReq := b.request(req)
		chatReq.Stream = true
		b.logCall(req, true)

		stream, err := b.client.CreateChatCompletionStream(ctx, chatReq)
		if err != nil {
			yield("", fmt.Errorf("deepseek: %w", err))
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", fmt.Errorf("deepseek: %w", err))
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if content := resp.Choices[0].Delta.Content; content != "" {
				if !yield(content, nil) {
					return
				}
			}
		}
	}
}

func (b *DeepSeekBackend) request(req ports.CompletionRequest) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, turn := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openAIRole(turn.Role),
			Content: turn.Content,
		})
	}
	return openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: messages,
	}
}

func (b *DeepSeekBackend) logCall(req ports.CompletionRequest, stream bool) {
	if b.logger == nil {
		return
	}
	b.logger.Debug("backend call", map[string]interface{}{
		"backend":  string(domain.BackendDeepSeek),
		"model":    b.model,
		"json":     req.JSON,
		"stream":   stream,
		"messages": len(req.Messages),
	})
}

func openAIRole(role domain.ChatRole) string {
	switch role {
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

var _ ports.Backend = (*DeepSeekBackend)(nil)
