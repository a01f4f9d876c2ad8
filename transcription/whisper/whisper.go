// Package whisper implements the OpenAI-compatible audio transcription
// endpoint used by both Groq and OpenAI.
package whisper

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/transcription"
)

const (
	GroqBaseURL   = "https://api.groq.com/openai/v1"
	OpenAIBaseURL = "https://api.openai.com/v1"

	GroqModel   = "whisper-large-v3-turbo"
	OpenAIModel = "whisper-1"

	defaultTimeout = 120 * time.Second
)

// Config configures one Whisper-compatible client.
type Config struct {
	// Name is the provider key, "groq" or "openai".
	Name    string        `yaml:"name" mapstructure:"name"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Model   string        `yaml:"model" mapstructure:"model"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Client implements transcription.Provider.
type Client struct {
	name   string
	apiKey string
	model  string
	api    *openai.Client
}

var _ transcription.Provider = (*Client)(nil)

// New creates a client from cfg. An empty APIKey yields a client whose
// calls fail with PROVIDER_UNCONFIGURED.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		name:   cfg.Name,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		api:    openai.NewClientWithConfig(apiCfg),
	}
}

// NewGroq creates the "groq" client with its production defaults.
func NewGroq(apiKey string) *Client {
	return New(Config{Name: transcription.Groq, BaseURL: GroqBaseURL, APIKey: apiKey, Model: GroqModel})
}

// NewOpenAI creates the "openai" client with its production defaults.
func NewOpenAI(apiKey string) *Client {
	return New(Config{Name: transcription.OpenAI, BaseURL: OpenAIBaseURL, APIKey: apiKey, Model: OpenAIModel})
}

// Name returns the provider key.
func (c *Client) Name() string { return c.name }

// IsAvailable reports whether an API key is configured.
func (c *Client) IsAvailable(context.Context) bool { return c.apiKey != "" }

// Execute uploads the audio as multipart form data with a verbose_json
// response. The vocabulary is sent as a comma-separated prompt.
func (c *Client) Execute(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	if c.apiKey == "" {
		return nil, apperrors.ProviderUnconfigured(c.name)
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		Reader:   bytes.NewReader(req.Audio),
		FilePath: req.Filename(),
		Prompt:   strings.Join(transcription.Truncate(req.Vocabulary), ", "),
		Language: req.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, c.callFailed(err)
	}

	return &transcription.Result{
		Text:     resp.Text,
		Duration: resp.Duration,
		Language: transcription.ResolveLanguage(resp.Language, req.Language),
	}, nil
}

func (c *Client) callFailed(err error) *apperrors.AppError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apperrors.ProviderCallFailed(c.name, apiErr.HTTPStatusCode, apiErr.Message).WithCause(err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return apperrors.ProviderCallFailed(c.name, reqErr.HTTPStatusCode, body).WithCause(err)
	}
	return apperrors.ProviderCallFailed(c.name, 0, "").WithCause(err)
}
