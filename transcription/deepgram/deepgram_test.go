package deepgram

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/transcription"
)

const listenBody = `{
  "metadata": {"duration": 12.25},
  "results": {"channels": [{
    "detected_language": "es",
    "alternatives": [{"transcript": "hola mundo"}]
  }]}
}`

type captured struct {
	path, auth, contentType string
	query                   url.Values
	body                    string
}

func newServer(t *testing.T, status int, body string, c *captured) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		*c = captured{
			path:        r.URL.Path,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			query:       r.URL.Query(),
			body:        string(b),
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExecute_WireFormat(t *testing.T) {
	var c captured
	srv := newServer(t, http.StatusOK, listenBody, &c)

	client, err := New(Config{BaseURL: srv.URL, APIKey: "dg-key"})
	if err != nil {
		t.Fatal(err)
	}
	vocab := make([]string, 70)
	for i := range vocab {
		vocab[i] = "term"
	}
	res, err := client.Execute(context.Background(), transcription.Request{
		Audio:      []byte("OggS..."),
		MimeType:   "audio/ogg",
		Vocabulary: vocab,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if c.path != "/listen" || c.auth != "Token dg-key" || c.contentType != "audio/ogg" || c.body != "OggS..." {
		t.Errorf("unexpected request %+v", c)
	}
	for k, want := range map[string]string{"model": "nova-2", "smart_format": "true", "punctuate": "true", "detect_language": "true"} {
		if got := c.query.Get(k); got != want {
			t.Errorf("query %s: expected %q, got %q", k, want, got)
		}
	}
	if c.query.Has("language") {
		t.Error("language must be omitted when detecting")
	}
	if n := len(strings.Split(c.query.Get("keywords"), ",")); n != transcription.MaxVocabulary {
		t.Errorf("expected %d keywords, got %d", transcription.MaxVocabulary, n)
	}

	if res.Text != "hola mundo" || res.Duration != 12.25 || res.Language != "es" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestExecute_LanguageHint(t *testing.T) {
	var c captured
	srv := newServer(t, http.StatusOK, `{"metadata":{"duration":1},"results":{"channels":[{"alternatives":[{"transcript":"bonjour"}]}]}}`, &c)

	client, _ := New(Config{BaseURL: srv.URL, APIKey: "k"})
	res, err := client.Execute(context.Background(), transcription.Request{Audio: []byte("x"), MimeType: "audio/wav", Language: "fr"})
	if err != nil {
		t.Fatal(err)
	}
	if c.query.Get("language") != "fr" || c.query.Has("detect_language") || c.query.Has("keywords") {
		t.Errorf("unexpected query %v", c.query)
	}
	if res.Language != "fr" {
		t.Errorf("expected hint fallback, got %q", res.Language)
	}
}

func TestExecute_EmptyResponseDefaults(t *testing.T) {
	var c captured
	srv := newServer(t, http.StatusOK, `{}`, &c)

	client, _ := New(Config{BaseURL: srv.URL, APIKey: "k"})
	res, err := client.Execute(context.Background(), transcription.Request{Audio: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "" || res.Duration != 0 || res.Language != "en" {
		t.Errorf("unexpected defaults %+v", res)
	}
}

func TestExecute_Non2xx(t *testing.T) {
	var c captured
	srv := newServer(t, http.StatusPaymentRequired, `{"err_code":"INSUFFICIENT_CREDITS"}`, &c)

	client, _ := New(Config{BaseURL: srv.URL, APIKey: "k"})
	_, err := client.Execute(context.Background(), transcription.Request{Audio: []byte("x")})
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.ErrCodeProviderCallFailed {
		t.Fatalf("expected PROVIDER_CALL_FAILED, got %v", err)
	}
	if appErr.Provider() != "deepgram" || appErr.Details["status"] != http.StatusPaymentRequired {
		t.Errorf("unexpected details %v", appErr.Details)
	}
	if !strings.Contains(appErr.Details["body"].(string), "INSUFFICIENT_CREDITS") {
		t.Errorf("expected raw body in details, got %v", appErr.Details["body"])
	}
}

func TestExecute_MissingKey(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	client, _ := New(Config{BaseURL: srv.URL})
	_, err := client.Execute(context.Background(), transcription.Request{Audio: []byte("x")})
	if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != apperrors.ErrCodeProviderUnconfigured {
		t.Fatalf("expected PROVIDER_UNCONFIGURED, got %v", err)
	}
	if hits.Load() != 0 {
		t.Error("missing key must not reach the network")
	}
}
