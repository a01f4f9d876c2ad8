package main

import (
	"context"
	"fmt"

	"github.com/kbukum/voicekit/llm"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/polish"
	"github.com/kbukum/voicekit/provider"
	"github.com/kbukum/voicekit/resilience"
	"github.com/kbukum/voicekit/transcription"
	"github.com/kbukum/voicekit/transcription/deepgram"
	"github.com/kbukum/voicekit/transcription/whisper"
	"github.com/kbukum/voicekit/util"
)

// transcriptionProviders registers groq, openai and deepgram. Unknown keys
// resolve to groq. Clients without an API key are still registered so that
// selecting them fails with PROVIDER_UNCONFIGURED.
func transcriptionProviders(cfg TranscriptionProviders, log *logger.Logger, summary *logger.Summary, rec provider.CallRecorder) (*provider.Registry[transcription.Provider], error) {
	groq := cfg.Groq
	groq.Name = transcription.Groq
	if groq.BaseURL == "" {
		groq.BaseURL = whisper.GroqBaseURL
	}
	if groq.Model == "" {
		groq.Model = whisper.GroqModel
	}

	openai := cfg.OpenAI
	openai.Name = transcription.OpenAI
	if openai.BaseURL == "" {
		openai.BaseURL = whisper.OpenAIBaseURL
	}
	if openai.Model == "" {
		openai.Model = whisper.OpenAIModel
	}

	watchBreaker(log, "transcription", cfg.Deepgram.CircuitBreaker)
	dg, err := deepgram.New(cfg.Deepgram)
	if err != nil {
		return nil, fmt.Errorf("deepgram: %w", err)
	}

	reg := provider.NewRegistry[transcription.Provider](transcription.Groq)
	keys := map[string]string{
		transcription.Groq:     groq.APIKey,
		transcription.OpenAI:   openai.APIKey,
		transcription.Deepgram: cfg.Deepgram.APIKey,
	}
	for _, p := range []transcription.Provider{whisper.New(groq), whisper.New(openai), dg} {
		reg.Register(p)
		registered(log, summary, "transcription", p.Name(), keys[p.Name()], p.IsAvailable(context.Background()))
	}
	reg.Wrap(provider.Chain(
		provider.WithLogging[transcription.Request, *transcription.Result](log),
		provider.WithTracing[transcription.Request, *transcription.Result]("transcription"),
		provider.WithMetrics[transcription.Request, *transcription.Result]("transcription", rec),
	))
	return reg, nil
}

// polishingProviders registers groq, gemini and openai. Unknown keys
// resolve to gemini.
func polishingProviders(cfg PolishingProviders, log *logger.Logger, summary *logger.Summary, rec provider.CallRecorder) (*provider.Registry[polish.Provider], error) {
	reg := provider.NewRegistry[polish.Provider](polish.Gemini)
	entries := []struct {
		name string
		cfg  llm.Config
	}{
		{polish.Groq, cfg.Groq},
		{polish.Gemini, cfg.Gemini},
		{polish.OpenAI, cfg.OpenAI},
	}
	for _, e := range entries {
		watchBreaker(log, "polishing", e.cfg.CircuitBreaker)
		c, err := polish.New(e.name, e.cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.name, err)
		}
		reg.Register(c)
		registered(log, summary, "polishing", c.Name(), e.cfg.APIKey, c.IsAvailable(context.Background()))
	}
	reg.Wrap(provider.Chain(
		provider.WithLogging[polish.Request, string](log),
		provider.WithTracing[polish.Request, string]("polishing"),
		provider.WithMetrics[polish.Request, string]("polishing", rec),
	))
	return reg, nil
}

func registered(log *logger.Logger, summary *logger.Summary, kind, name, apiKey string, available bool) {
	summary.AddProvider(kind, name, available)
	log.Debug("provider registered", logger.Fields(
		"kind", kind,
		logger.FieldProvider, name,
		"api_key", util.MaskSecret(apiKey, 4),
	))
}

// watchBreaker logs every state change of a provider's circuit breaker.
func watchBreaker(log *logger.Logger, kind string, cb *resilience.CircuitBreakerConfig) {
	if cb == nil {
		return
	}
	cb.OnStateChange = func(name string, from, to resilience.State) {
		log.Warn("provider circuit changed", logger.Fields(
			"kind", kind,
			logger.FieldProvider, name,
			"from", from.String(),
			"to", to.String(),
		))
	}
}
