// Package deepgram implements the Deepgram pre-recorded listen endpoint.
package deepgram

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/httpclient"
	"github.com/kbukum/voicekit/resilience"
	"github.com/kbukum/voicekit/transcription"
)

const (
	DefaultBaseURL = "https://api.deepgram.com/v1"
	DefaultModel   = "nova-2"

	defaultTimeout = 120 * time.Second
)

// Config configures the Deepgram client.
type Config struct {
	BaseURL        string                           `yaml:"base_url" mapstructure:"base_url"`
	APIKey         string                           `yaml:"api_key" mapstructure:"api_key"`
	Model          string                           `yaml:"model" mapstructure:"model"`
	Timeout        time.Duration                    `yaml:"timeout" mapstructure:"timeout"`
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Client implements transcription.Provider.
type Client struct {
	http   *httpclient.Client
	apiKey string
	model  string
}

var _ transcription.Provider = (*Client)(nil)

// New creates a Deepgram client.
func New(cfg Config) (*Client, error) {
	cfg.applyDefaults()
	hc, err := httpclient.New(httpclient.Config{
		Name:           transcription.Deepgram,
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		Auth:           httpclient.SchemeAuth("Token", cfg.APIKey),
		CircuitBreaker: cfg.CircuitBreaker,
	})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, apiKey: cfg.APIKey, model: cfg.Model}, nil
}

// Name returns "deepgram".
func (c *Client) Name() string { return transcription.Deepgram }

// IsAvailable reports whether an API key is configured.
func (c *Client) IsAvailable(context.Context) bool { return c.apiKey != "" }

type listenResponse struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			DetectedLanguage string `json:"detected_language"`
			Alternatives     []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Execute posts the raw audio with its mime type. Without a language hint
// Deepgram is asked to detect the language; the vocabulary travels as
// comma-separated keywords.
func (c *Client) Execute(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	if c.apiKey == "" {
		return nil, apperrors.ProviderUnconfigured(transcription.Deepgram)
	}

	q := map[string]string{
		"model":        c.model,
		"smart_format": "true",
		"punctuate":    "true",
	}
	if req.Language != "" {
		q["language"] = req.Language
	} else {
		q["detect_language"] = "true"
	}
	if words := transcription.Truncate(req.Vocabulary); len(words) > 0 {
		q["keywords"] = strings.Join(words, ",")
	}

	mime := req.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    "/listen",
		Query:   q,
		Headers: map[string]string{"Content-Type": mime},
		Body:    req.Audio,
	})
	if err != nil {
		return nil, httpclient.ProviderError(transcription.Deepgram, err)
	}

	// An unparseable 2xx body yields an empty transcript rather than an error.
	var lr listenResponse
	_ = json.Unmarshal(resp.Body, &lr)

	res := &transcription.Result{Duration: lr.Metadata.Duration}
	var detected string
	if len(lr.Results.Channels) > 0 {
		ch := lr.Results.Channels[0]
		detected = ch.DetectedLanguage
		if len(ch.Alternatives) > 0 {
			res.Text = ch.Alternatives[0].Transcript
		}
	}
	res.Language = transcription.ResolveLanguage(detected, req.Language)
	return res, nil
}
