package polish

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/httpclient"
	"github.com/kbukum/voicekit/llm"
	"github.com/kbukum/voicekit/llm/gemini"
	"github.com/kbukum/voicekit/llm/openai"
	"github.com/kbukum/voicekit/provider"
)

// Provider keys.
const (
	Groq   = "groq"
	Gemini = "gemini"
	OpenAI = "openai"
)

// Request is the text and system prompt sent to a polishing provider.
type Request struct {
	Text   string
	Prompt string
}

// Provider is a polishing client returning the cleaned text.
type Provider = provider.RequestResponse[Request, string]

const (
	temperature = 0.3
	maxTokens   = 2048
)

// Defaults holds the production endpoint and model of each provider.
var Defaults = map[string]llm.Config{
	Groq: {
		Dialect: openai.DialectName,
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama-3.1-8b-instant",
	},
	OpenAI: {
		Dialect: openai.DialectName,
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	Gemini: {
		Dialect: gemini.DialectName,
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-1.5-flash",
	},
}

// Client adapts an llm.Adapter to Provider.
type Client struct {
	name    string
	adapter *llm.Adapter
	// inline sends prompt and text as one user message, for dialects
	// without a system role in the request shape used here.
	inline bool
}

var _ Provider = (*Client)(nil)

// New creates the client for name. Zero fields in cfg take the provider's
// entry in Defaults; temperature and token limit are fixed.
func New(name string, cfg llm.Config) (*Client, error) {
	def := Defaults[name]
	if cfg.Dialect == "" {
		cfg.Dialect = def.Dialect
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	cfg.Name = name
	cfg.Temperature = temperature
	cfg.MaxTokens = maxTokens

	adapter, err := llm.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{name: name, adapter: adapter, inline: cfg.Dialect == gemini.DialectName}, nil
}

// Name returns the provider key.
func (c *Client) Name() string { return c.name }

// IsAvailable reports whether an API key is configured.
func (c *Client) IsAvailable(ctx context.Context) bool { return c.adapter.IsAvailable(ctx) }

// Execute returns the trimmed completion. A 2xx response without the
// completion field returns the input text unchanged.
func (c *Client) Execute(ctx context.Context, req Request) (string, error) {
	system, user := req.Prompt, req.Text
	if c.inline {
		system, user = "", req.Prompt+"\n\nText to clean:\n"+req.Text
	}

	out, err := llm.Complete(ctx, c.adapter, system, user)
	switch {
	case err == nil:
		return strings.TrimSpace(out), nil
	case errors.Is(err, llm.ErrMalformedResponse):
		return strings.TrimSpace(req.Text), nil
	case errors.Is(err, llm.ErrNoAPIKey):
		return "", apperrors.ProviderUnconfigured(c.name)
	default:
		return "", httpclient.ProviderError(c.name, err)
	}
}
