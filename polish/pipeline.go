package polish

import (
	"context"
	"fmt"
	"regexp"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/observability"
	"github.com/kbukum/voicekit/provider"
	"github.com/kbukum/voicekit/store"
)

// Rule replaces every case-insensitive occurrence of Trigger.
type Rule struct {
	Trigger     string
	Replacement string
}

// RuleSource loads a user's active commands and snippets in stored order.
type RuleSource interface {
	Commands(ctx context.Context, userID uint) ([]Rule, error)
	Snippets(ctx context.Context, userID uint) ([]Rule, error)
}

// StyleSource looks up the stored style for an app context.
type StyleSource interface {
	Lookup(ctx context.Context, userID uint, app string) (style string, ok bool, err error)
}

// Input is a polishing request from the HTTP layer.
type Input struct {
	Text string
	// Style defaults to the user's DefaultStyle, then casual. A stored
	// preference for AppContext wins over all of them.
	Style      string
	AppContext string
	Provider   string
}

// Output is the polished text with the style and provider actually used.
type Output struct {
	Text     string `json:"text"`
	Style    string `json:"style"`
	Provider string `json:"provider"`
}

// Pipeline resolves style and provider, applies the user's commands and
// snippets, then makes one provider call.
type Pipeline struct {
	providers       *provider.Registry[Provider]
	rules           RuleSource
	styles          StyleSource
	defaultProvider string
	log             *logger.Logger
}

// NewPipeline creates a Pipeline. defaultProvider serves paid plans that do
// not name a provider; free plans always default to Gemini.
func NewPipeline(providers *provider.Registry[Provider], rules RuleSource, styles StyleSource, defaultProvider string, log *logger.Logger) *Pipeline {
	if defaultProvider == "" {
		defaultProvider = Gemini
	}
	return &Pipeline{
		providers:       providers,
		rules:           rules,
		styles:          styles,
		defaultProvider: defaultProvider,
		log:             log.WithComponent("polish"),
	}
}

// Polish runs the pipeline for u.
func (p *Pipeline) Polish(ctx context.Context, u *store.User, in Input) (*Output, error) {
	ctx, span := observability.StartSpan(ctx, "pipeline.polish")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrUserID, u.ID)

	out, err := p.polish(ctx, u, in)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return out, err
}

func (p *Pipeline) polish(ctx context.Context, u *store.User, in Input) (*Output, error) {
	style, err := p.resolveStyle(ctx, u, in)
	if err != nil {
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrStyle, style)

	client, err := p.resolveProvider(ctx, u, in.Provider)
	if err != nil {
		return nil, err
	}

	text, err := p.Substitute(ctx, u, in.Text)
	if err != nil {
		return nil, err
	}

	polished, err := client.Execute(ctx, Request{Text: text, Prompt: BuildPrompt(style)})
	if err != nil {
		return nil, err
	}
	return &Output{Text: polished, Style: style, Provider: client.Name()}, nil
}

// Substitute applies the user's active commands, then active snippets, to
// text.
func (p *Pipeline) Substitute(ctx context.Context, u *store.User, text string) (string, error) {
	commands, err := p.rules.Commands(ctx, u.ID)
	if err != nil {
		return "", fmt.Errorf("load commands: %w", err)
	}
	snippets, err := p.rules.Snippets(ctx, u.ID)
	if err != nil {
		return "", fmt.Errorf("load snippets: %w", err)
	}
	return Apply(Apply(text, commands), snippets), nil
}

func (p *Pipeline) resolveStyle(ctx context.Context, u *store.User, in Input) (string, error) {
	style := in.Style
	if style == "" {
		style = u.DefaultStyle
	}
	if style == "" {
		style = DefaultStyle
	}
	if in.AppContext == "" {
		return style, nil
	}
	stored, ok, err := p.styles.Lookup(ctx, u.ID, in.AppContext)
	if err != nil {
		return "", fmt.Errorf("load style preference: %w", err)
	}
	if ok {
		return stored, nil
	}
	return style, nil
}

// resolveProvider picks the override, else Gemini for free plans, else the
// configured default. A key with no registered client resolves to the
// registry fallback (Gemini) instead of failing.
func (p *Pipeline) resolveProvider(ctx context.Context, u *store.User, override string) (Provider, error) {
	key := override
	if key == "" {
		key = p.defaultProvider
		if u.IsFree() {
			key = Gemini
		}
	}

	if client, ok := p.providers.Get(key); ok {
		return client, nil
	}
	client, ok := p.providers.Resolve(key)
	if !ok {
		return nil, apperrors.Internal(fmt.Errorf("no polishing provider registered for %q or fallback %q", key, p.providers.Fallback()))
	}
	p.log.WithContext(ctx).Warn("Unknown polishing provider, using fallback", logger.Fields(
		"requested", key, logger.FieldProvider, client.Name(),
	))
	return client, nil
}

// Apply replaces every case-insensitive occurrence of each rule's trigger,
// rule by rule in order. Replacement text is inserted literally.
func Apply(text string, rules []Rule) string {
	for _, r := range rules {
		if r.Trigger == "" {
			continue
		}
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(r.Trigger))
		text = re.ReplaceAllLiteralString(text, r.Replacement)
	}
	return text
}
