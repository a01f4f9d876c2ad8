package main

import (
	"fmt"
	"slices"

	"github.com/kbukum/voicekit/auth"
	"github.com/kbukum/voicekit/config"
	"github.com/kbukum/voicekit/database"
	"github.com/kbukum/voicekit/gate"
	"github.com/kbukum/voicekit/llm"
	"github.com/kbukum/voicekit/observability"
	"github.com/kbukum/voicekit/polish"
	"github.com/kbukum/voicekit/redis"
	"github.com/kbukum/voicekit/server"
	"github.com/kbukum/voicekit/transcription"
	"github.com/kbukum/voicekit/transcription/deepgram"
	"github.com/kbukum/voicekit/transcription/whisper"
	"github.com/kbukum/voicekit/usage"
)

// Config is the voicekit process configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server    server.Config              `yaml:"server" mapstructure:"server"`
	Database  database.Config            `yaml:"database" mapstructure:"database"`
	Redis     redis.Config               `yaml:"redis" mapstructure:"redis"`
	Auth      auth.Config                `yaml:"auth" mapstructure:"auth"`
	Providers ProvidersConfig            `yaml:"providers" mapstructure:"providers"`
	Usage     usage.Config               `yaml:"usage" mapstructure:"usage"`
	RateLimit gate.Config                `yaml:"rate_limit" mapstructure:"rate_limit"`
	Tracing   observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics   observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
}

// ProvidersConfig holds the credentials and defaults of both provider
// families. API keys usually come from the environment, e.g.
// VOICEKIT_PROVIDERS_TRANSCRIPTION_GROQ_API_KEY.
type ProvidersConfig struct {
	Transcription TranscriptionProviders `yaml:"transcription" mapstructure:"transcription"`
	Polishing     PolishingProviders     `yaml:"polishing" mapstructure:"polishing"`
}

// TranscriptionProviders configures groq, openai and deepgram.
type TranscriptionProviders struct {
	// Default serves paid plans that name no provider.
	Default  string          `yaml:"default" mapstructure:"default"`
	Groq     whisper.Config  `yaml:"groq" mapstructure:"groq"`
	OpenAI   whisper.Config  `yaml:"openai" mapstructure:"openai"`
	Deepgram deepgram.Config `yaml:"deepgram" mapstructure:"deepgram"`
}

// PolishingProviders configures groq, gemini and openai.
type PolishingProviders struct {
	Default string     `yaml:"default" mapstructure:"default"`
	Groq    llm.Config `yaml:"groq" mapstructure:"groq"`
	Gemini  llm.Config `yaml:"gemini" mapstructure:"gemini"`
	OpenAI  llm.Config `yaml:"openai" mapstructure:"openai"`
}

func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Usage.ApplyDefaults()
	c.RateLimit.ApplyDefaults()
	c.Tracing.ApplyDefaults()
	c.Metrics.ApplyDefaults()
	inherit(&c.Tracing.ServiceName, c.Name)
	inherit(&c.Tracing.ServiceVersion, c.Version)
	inherit(&c.Tracing.Environment, c.Environment)
	inherit(&c.Metrics.ServiceName, c.Name)
	inherit(&c.Metrics.ServiceVersion, c.Version)
	inherit(&c.Metrics.Environment, c.Environment)

	p := &c.Providers
	if p.Transcription.Default == "" {
		p.Transcription.Default = transcription.Groq
	}
	if p.Polishing.Default == "" {
		p.Polishing.Default = polish.Gemini
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	validators := []struct {
		section string
		fn      func() error
	}{
		{"server", c.Server.Validate},
		{"database", c.Database.Validate},
		{"redis", c.Redis.Validate},
		{"auth", c.Auth.Validate},
		{"usage", c.Usage.Validate},
		{"rate_limit", c.RateLimit.Validate},
		{"tracing", c.Tracing.Validate},
		{"metrics", c.Metrics.Validate},
	}
	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s: %w", v.section, err)
		}
	}
	if !c.Database.Enabled {
		return fmt.Errorf("database: must be enabled")
	}
	if c.IsProduction() && slices.Contains(c.Server.CORS.AllowedOrigins, "*") {
		return fmt.Errorf("server.cors: wildcard origin is not allowed in production")
	}

	switch c.Providers.Transcription.Default {
	case transcription.Groq, transcription.OpenAI, transcription.Deepgram:
	default:
		return fmt.Errorf("providers.transcription.default: unknown provider %q", c.Providers.Transcription.Default)
	}
	switch c.Providers.Polishing.Default {
	case polish.Groq, polish.Gemini, polish.OpenAI:
	default:
		return fmt.Errorf("providers.polishing.default: unknown provider %q", c.Providers.Polishing.Default)
	}
	return nil
}

func inherit(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
