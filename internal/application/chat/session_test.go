package chat

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

type scriptedBackend struct {
	replies  [][]string
	failOn   int
	requests []ports.CompletionRequest
}

func (b *scriptedBackend) Name() domain.BackendName { return domain.BackendGemini }

func (b *scriptedBackend) Complete(context.Context, ports.CompletionRequest) (string, error) {
	return "", errors.New("not used")
}

func (b *scriptedBackend) Stream(_ context.Context, req ports.CompletionRequest) iter.Seq2[string, error] {
	b.requests = append(b.requests, req)
	call := len(b.requests)
	return func(yield func(string, error) bool) {
		if call == b.failOn {
			if yield("par", nil) {
				yield("", errors.New("stream broken"))
			}
			return
		}
		for _, chunk := range b.replies[0] {
			if !yield(chunk, nil) {
				return
			}
		}
		b.replies = b.replies[1:]
	}
}

type selector struct{ backend ports.Backend }

func (s selector) Active() (ports.Backend, error)                   { return s.backend, nil }
func (s selector) Current() domain.BackendName                      { return s.backend.Name() }
func (s selector) Select(context.Context, domain.BackendName) error { return nil }

func TestSessionKeepsRunningHistory(t *testing.T) {
	backend := &scriptedBackend{replies: [][]string{{"Hel", "lo"}, {"Fine"}}}
	session := NewSession(selector{backend}, nil)

	var chunks []string
	reply, err := session.Send(context.Background(), "hi", func(c string) { chunks = append(chunks, c) })
	require.NoError(t, err)
	assert.Equal(t, "Hello", reply)
	assert.Equal(t, []string{"Hel", "lo"}, chunks)

	_, err = session.Send(context.Background(), "how are you", nil)
	require.NoError(t, err)

	require.Len(t, backend.requests, 2)
	assert.Equal(t, domain.ChatSystemPrompt, backend.requests[1].System)
	assert.Equal(t, []domain.ChatTurn{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "Hello"},
		{Role: domain.RoleUser, Content: "how are you"},
	}, backend.requests[1].Messages)
	assert.Len(t, session.Turns(), 4)
}

func TestSessionDropsFailedTurn(t *testing.T) {
	backend := &scriptedBackend{replies: [][]string{{"ok"}}, failOn: 1}
	session := NewSession(selector{backend}, nil)

	partial, err := session.Send(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Equal(t, "par", partial)
	assert.Empty(t, session.Turns())

	_, err = session.Send(context.Background(), "again", nil)
	require.NoError(t, err)
	assert.Len(t, backend.requests[1].Messages, 1)
}
