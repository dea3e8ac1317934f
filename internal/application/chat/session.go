// Package chat holds free-form conversations with the active backend.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// Session is one chat conversation. Its turns are discarded when it ends.
type Session struct {
	backends ports.BackendSelector
	logger   ports.Logger
	turns    []domain.ChatTurn
}

// NewSession starts an empty conversation.
func NewSession(backends ports.BackendSelector, logger ports.Logger) *Session {
	return &Session{backends: backends, logger: logger}
}

// Send streams the reply to message, passing each chunk to onChunk.
// Both turns are kept only when the whole reply arrived.
func (s *Session) Send(ctx context.Context, message string, onChunk func(string)) (string, error) {
	if s.backends == nil {
		return "", errors.New("chat: no backend selector")
	}
	backend, err := s.backends.Active()
	if err != nil {
		return "", err
	}

	messages := make([]domain.ChatTurn, 0, len(s.turns)+1)
	messages = append(messages, s.turns...)
	messages = append(messages, domain.ChatTurn{Role: domain.RoleUser, Content: message})

	var reply strings.Builder
	for chunk, err := range backend.Stream(ctx, ports.CompletionRequest{
		System:   domain.ChatSystemPrompt,
		Messages: messages,
	}) {
		if err != nil {
			return reply.String(), err
		}
		reply.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	s.turns = append(s.turns,
		domain.ChatTurn{Role: domain.RoleUser, Content: message},
		domain.ChatTurn{Role: domain.RoleAssistant, Content: reply.String()},
	)
	if s.logger != nil {
		s.logger.Debug("chat turn", map[string]interface{}{
			"backend": string(backend.Name()),
			"turns":   len(s.turns),
		})
	}
	return reply.String(), nil
}

// Turns returns a copy of the conversation so far.
func (s *Session) Turns() []domain.ChatTurn {
	return append([]domain.ChatTurn(nil), s.turns...)
}
