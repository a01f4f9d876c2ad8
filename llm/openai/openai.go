// Package openai implements the OpenAI chat completions dialect, which Groq
// also speaks. Importing it registers the "openai" dialect.
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/voicekit/httpclient"
	"github.com/kbukum/voicekit/llm"
)

// DialectName is the registered dialect name.
const DialectName = "openai"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm requests onto POST /chat/completions.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return DialectName }

// ChatPath returns the completions path; the model travels in the body.
func (d *Dialect) ChatPath(string) string { return "/chat/completions" }

// Auth sends the key as a Bearer token.
func (d *Dialect) Auth(apiKey string) httpclient.Auth { return httpclient.BearerAuth(apiKey) }

// BuildRequest places the system prompt first, followed by the conversation.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	msgs := make([]chatMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, chatMessage{Role: llm.RoleSystem, Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse extracts choices[0].message.content.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return nil, fmt.Errorf("%w: no choices[0].message.content", llm.ErrMalformedResponse)
	}
	return &llm.CompletionResponse{
		Content: *resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}
