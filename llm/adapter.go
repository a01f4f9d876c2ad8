package llm

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kbukum/voicekit/httpclient"
)

var (
	ErrNoDialect = errors.New("llm: no dialect")
	// ErrNoAPIKey is returned before any network call.
	ErrNoAPIKey = errors.New("llm: api key is not configured")
	// ErrMalformedResponse marks a 2xx body without generated text.
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// Adapter sends completions through an httpclient.Client and lets its
// Dialect shape the bodies. It implements
// provider.RequestResponse[CompletionRequest, CompletionResponse].
type Adapter struct {
	http     *httpclient.Client
	dialect  Dialect
	key      string
	defaults CompletionRequest
}

// New looks cfg.Dialect up in the registry and builds an Adapter.
func New(cfg Config) (*Adapter, error) {
	d, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(d, cfg)
}

// NewWithDialect builds an Adapter around d.
func NewWithDialect(d Dialect, cfg Config) (*Adapter, error) {
	if d == nil {
		return nil, ErrNoDialect
	}
	cfg.applyDefaults(d.Name())

	hc, err := httpclient.New(httpclient.Config{
		Name:           cfg.Name,
		BaseURL:        cfg.BaseURL,
		Timeout:        cfg.Timeout,
		Auth:           d.Auth(cfg.APIKey),
		Headers:        cfg.Headers,
		CircuitBreaker: cfg.CircuitBreaker,
		RateLimiter:    cfg.RateLimiter,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %s: %w", cfg.Name, err)
	}
	return &Adapter{
		http:    hc,
		dialect: d,
		key:     cfg.APIKey,
		defaults: CompletionRequest{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
	}, nil
}

func (a *Adapter) Name() string { return a.http.Name() }

// IsAvailable reports whether an API key is configured.
func (a *Adapter) IsAvailable(context.Context) bool { return a.key != "" }

// Execute posts req and parses the reply. Transport failures keep the
// *httpclient.Error in the chain; unparseable replies wrap
// ErrMalformedResponse.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	if a.key == "" {
		return CompletionResponse{}, ErrNoAPIKey
	}
	req.Model = cmp.Or(req.Model, a.defaults.Model)
	req.Temperature = cmp.Or(req.Temperature, a.defaults.Temperature)
	req.MaxTokens = cmp.Or(req.MaxTokens, a.defaults.MaxTokens)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: %s: encode: %w", a.Name(), err)
	}
	resp, err := a.http.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   a.dialect.ChatPath(req.Model),
		Body:   body,
	})
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: %s: %w", a.Name(), err)
	}
	out, err := a.dialect.ParseResponse(resp.Body)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("llm: %s: %w", a.Name(), err)
	}
	return *out, nil
}
