package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

const (
	fence     = "```"
	jsonFence = fence + "json"
)

// ParseError reports a backend answer that is not a valid structured response.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotObject = errors.New("response is not a JSON object")

// ParseResponse decodes a structured answer. A leading ```json fence is unwrapped;
// absent fields decode as empty, wrongly typed ones are an error.
func ParseResponse(raw string) (domain.AIResponse, error) {
	payload := extractJSONBlock(raw)
	if !strings.HasPrefix(payload, "{") {
		return domain.AIResponse{}, &ParseError{Raw: raw, Err: errNotObject}
	}

	decoder := json.NewDecoder(strings.NewReader(payload))
	var response domain.AIResponse
	if err := decoder.Decode(&response); err != nil {
		return domain.AIResponse{}, &ParseError{Raw: raw, Err: err}
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return domain.AIResponse{}, &ParseError{Raw: raw, Err: errors.New("unexpected data after JSON object")}
	}
	return response, nil
}

// extractJSONBlock returns the body of a leading ```json block, or the trimmed input.
func extractJSONBlock(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, jsonFence) {
		return text
	}
	body := text[len(jsonFence):]
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// JSONParser implements ports.ResponseParser.
type JSONParser struct{}

func (JSONParser) Parse(raw string) (domain.AIResponse, error) {
	return ParseResponse(raw)
}

func (JSONParser) Plain(text string) string {
	return RemoveMarkdown(text)
}

var _ ports.ResponseParser = JSONParser{}
