package transcription

import (
	"context"
	"fmt"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/observability"
	"github.com/kbukum/voicekit/provider"
	"github.com/kbukum/voicekit/store"
)

// VocabularySource returns a user's biasing words, personal first.
type VocabularySource interface {
	Vocabulary(ctx context.Context, u *store.User) ([]string, error)
}

// Input is a transcription request from the HTTP layer.
type Input struct {
	Audio    []byte
	MimeType string
	FileName string
	// Provider and Language override the user's defaults when set.
	Provider string
	Language string
}

// Output is the pipeline result, naming the provider that served it.
type Output struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Language string  `json:"language"`
	Provider string  `json:"provider"`
}

// Pipeline resolves provider, language and vocabulary for a user and makes
// one provider call. Failures are returned as-is; there is no retry and no
// switch to another provider.
type Pipeline struct {
	providers       *provider.Registry[Provider]
	vocabulary      VocabularySource
	defaultProvider string
	log             *logger.Logger
}

// NewPipeline creates a Pipeline. defaultProvider serves paid plans that do
// not name a provider; free plans always default to Groq.
func NewPipeline(providers *provider.Registry[Provider], vocabulary VocabularySource, defaultProvider string, log *logger.Logger) *Pipeline {
	if defaultProvider == "" {
		defaultProvider = Groq
	}
	return &Pipeline{
		providers:       providers,
		vocabulary:      vocabulary,
		defaultProvider: defaultProvider,
		log:             log.WithComponent("transcription"),
	}
}

// Transcribe runs the pipeline for u.
func (p *Pipeline) Transcribe(ctx context.Context, u *store.User, in Input) (*Output, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.transcribe")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrUserID, u.ID)
	observability.SetSpanAttribute(ctx, observability.AttrPlan, u.Plan)

	out, err := p.transcribe(ctx, u, in)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return out, err
}

func (p *Pipeline) transcribe(ctx context.Context, u *store.User, in Input) (*Output, error) {
	client, err := p.resolveProvider(ctx, u, in.Provider)
	if err != nil {
		return nil, err
	}

	language := p.resolveLanguage(u, in.Language)

	words, err := p.vocabulary.Vocabulary(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	res, err := client.Execute(ctx, Request{
		Audio:      in.Audio,
		MimeType:   in.MimeType,
		FileName:   in.FileName,
		Language:   language,
		Vocabulary: words,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		Text:     res.Text,
		Duration: res.Duration,
		Language: res.Language,
		Provider: client.Name(),
	}, nil
}

// resolveProvider picks the override, else Groq for free plans, else the
// configured default. A key with no registered client resolves to the
// registry fallback (Groq) instead of failing.
func (p *Pipeline) resolveProvider(ctx context.Context, u *store.User, override string) (Provider, error) {
	key := override
	if key == "" {
		key = p.defaultProvider
		if u.IsFree() {
			key = Groq
		}
	}

	client, ok := p.providers.Get(key)
	if ok {
		return client, nil
	}
	client, ok = p.providers.Resolve(key)
	if !ok {
		return nil, apperrors.Internal(fmt.Errorf("no transcription provider registered for %q or fallback %q", key, p.providers.Fallback()))
	}
	p.log.WithContext(ctx).Warn("Unknown transcription provider, using fallback", logger.Fields(
		"requested", key, logger.FieldProvider, client.Name(),
	))
	return client, nil
}

// resolveLanguage returns the override, else "" when the user auto-detects,
// else the user's preferred language.
func (p *Pipeline) resolveLanguage(u *store.User, override string) string {
	switch {
	case override != "":
		return override
	case u.AutoDetectLanguage:
		return ""
	default:
		return u.PreferredLanguage
	}
}
