package polish

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/logger"
	"github.com/kbukum/voicekit/provider"
	"github.com/kbukum/voicekit/store"
)

type echoProvider struct {
	name string
	err  error
	got  *Request
}

func (e *echoProvider) Name() string                     { return e.name }
func (e *echoProvider) IsAvailable(context.Context) bool { return true }
func (e *echoProvider) Execute(_ context.Context, req Request) (string, error) {
	e.got = &req
	if e.err != nil {
		return "", e.err
	}
	return req.Text, nil
}

type fakeRules struct {
	commands, snippets []Rule
	err                error
}

func (f fakeRules) Commands(context.Context, uint) ([]Rule, error) { return f.commands, f.err }
func (f fakeRules) Snippets(context.Context, uint) ([]Rule, error) { return f.snippets, nil }

type fakeStyles map[string]string

func (f fakeStyles) Lookup(_ context.Context, _ uint, app string) (string, bool, error) {
	s, ok := f[app]
	return s, ok, nil
}

func newPipeline(rules RuleSource, styles StyleSource, defaultProvider string) (*Pipeline, map[string]*echoProvider) {
	reg := provider.NewRegistry[Provider](Gemini)
	fakes := map[string]*echoProvider{}
	for _, name := range []string{Groq, Gemini, OpenAI} {
		fakes[name] = &echoProvider{name: name}
		reg.Register(fakes[name])
	}
	return NewPipeline(reg, rules, styles, defaultProvider, logger.NewNop()), fakes
}

func TestPolish_CommandsThenSnippetsCaseInsensitive(t *testing.T) {
	rules := fakeRules{
		commands: []Rule{{Trigger: "gonna", Replacement: "going to"}},
		snippets: []Rule{{Trigger: "brb", Replacement: "be right back"}},
	}
	p, fakes := newPipeline(rules, fakeStyles{}, Gemini)

	out, err := p.Polish(context.Background(), &store.User{Plan: store.PlanFree}, Input{Text: "I'm Gonna brb"})
	if err != nil {
		t.Fatal(err)
	}
	if fakes[Gemini].got.Text != "I'm going to be right back" {
		t.Errorf("unexpected substituted text %q", fakes[Gemini].got.Text)
	}
	if out.Text != "I'm going to be right back" || out.Provider != Gemini || out.Style != store.StyleCasual {
		t.Errorf("unexpected output %+v", out)
	}
}

func TestPolish_SnippetsSeeCommandOutput(t *testing.T) {
	rules := fakeRules{
		commands: []Rule{{Trigger: "sig", Replacement: "SIGNOFF"}},
		snippets: []Rule{{Trigger: "signoff", Replacement: "Best, Ada"}},
	}
	p, fakes := newPipeline(rules, fakeStyles{}, Gemini)
	if _, err := p.Polish(context.Background(), &store.User{}, Input{Text: "thanks sig and Sig"}); err != nil {
		t.Fatal(err)
	}
	if got := fakes[Gemini].got.Text; got != "thanks Best, Ada and Best, Ada" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestPolish_StylePreferenceOverridesRequest(t *testing.T) {
	p, fakes := newPipeline(fakeRules{}, fakeStyles{"slack": store.StyleFormal}, Gemini)

	out, err := p.Polish(context.Background(), &store.User{}, Input{Text: "hi", Style: store.StyleCasual, AppContext: "slack"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Style != store.StyleFormal {
		t.Errorf("expected formal, got %q", out.Style)
	}
	if !strings.Contains(fakes[Gemini].got.Prompt, "professional grammar") {
		t.Error("prompt must carry the formal clause")
	}

	out, _ = p.Polish(context.Background(), &store.User{}, Input{Text: "hi", Style: store.StyleExtremelyCasual, AppContext: "mail"})
	if out.Style != store.StyleExtremelyCasual {
		t.Errorf("request style must apply without preference, got %q", out.Style)
	}
}

func TestPolish_StyleFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		user  store.User
		in    Input
		style string
	}{
		{"casual without any default", store.User{}, Input{Text: "hi"}, store.StyleCasual},
		{"user default when request names none", store.User{DefaultStyle: store.StyleFormal}, Input{Text: "hi"}, store.StyleFormal},
		{"request beats user default", store.User{DefaultStyle: store.StyleFormal}, Input{Text: "hi", Style: store.StyleExtremelyCasual}, store.StyleExtremelyCasual},
		{"app preference beats user default", store.User{DefaultStyle: store.StyleCasual}, Input{Text: "hi", AppContext: "slack"}, store.StyleFormal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newPipeline(fakeRules{}, fakeStyles{"slack": store.StyleFormal}, Gemini)
			u := tc.user
			out, err := p.Polish(context.Background(), &u, tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if out.Style != tc.style {
				t.Errorf("expected %q, got %q", tc.style, out.Style)
			}
		})
	}
}

func TestPolish_ProviderResolution(t *testing.T) {
	tests := []struct {
		name, plan, override, want string
	}{
		{"free defaults to gemini", store.PlanFree, "", Gemini},
		{"paid uses configured default", store.PlanPro, "", OpenAI},
		{"override wins", store.PlanFree, Groq, Groq},
		{"unknown key falls back to gemini", store.PlanEnterprise, "claude", Gemini},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newPipeline(fakeRules{}, fakeStyles{}, OpenAI)
			out, err := p.Polish(context.Background(), &store.User{Plan: tc.plan}, Input{Text: "x", Provider: tc.override})
			if err != nil {
				t.Fatal(err)
			}
			if out.Provider != tc.want {
				t.Errorf("expected %s, got %s", tc.want, out.Provider)
			}
		})
	}
}

func TestPolish_ProviderErrorPropagates(t *testing.T) {
	p, fakes := newPipeline(fakeRules{}, fakeStyles{}, Gemini)
	fakes[Gemini].err = apperrors.ProviderCallFailed(Gemini, 500, "down")

	_, err := p.Polish(context.Background(), &store.User{}, Input{Text: "x"})
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Provider() != Gemini {
		t.Fatalf("expected gemini provider error, got %v", err)
	}
	if fakes[Groq].got != nil || fakes[OpenAI].got != nil {
		t.Error("no other provider may be tried")
	}
}

func TestPolish_RuleLoadError(t *testing.T) {
	p, fakes := newPipeline(fakeRules{err: errors.New("db")}, fakeStyles{}, Gemini)
	if _, err := p.Polish(context.Background(), &store.User{}, Input{Text: "x"}); err == nil {
		t.Fatal("expected error")
	}
	if fakes[Gemini].got != nil {
		t.Error("provider must not be called")
	}
}

func TestApply_LiteralReplacement(t *testing.T) {
	got := Apply("pay $5 (now)", []Rule{{Trigger: "(NOW)", Replacement: "$1 today"}, {Trigger: "", Replacement: "x"}})
	if got != "pay $5 $1 today" {
		t.Errorf("unexpected %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(store.StyleExtremelyCasual)
	if !strings.HasPrefix(p, "You are a voice transcription cleaner.") || !strings.HasSuffix(p, "Output ONLY the cleaned text, nothing else:") {
		t.Errorf("unexpected template %q", p)
	}
	if !strings.Contains(p, "Style: Clean the text with minimal punctuation, lowercase, texting style.") {
		t.Error("missing extremely casual clause")
	}
	if BuildPrompt("shouty") != BuildPrompt(store.StyleCasual) {
		t.Error("unknown style must use the casual clause")
	}
	if !IsStyle(store.StyleFormal) || IsStyle("shouty") {
		t.Error("unexpected IsStyle result")
	}
}
