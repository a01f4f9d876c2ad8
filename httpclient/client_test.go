package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/kbukum/voicekit/errors"
	"github.com/kbukum/voicekit/resilience"
)

func TestClient_Do_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/v1/models" {
			t.Errorf("expected /v1/models, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list"}`))
	}))
	defer srv.Close()

	c, err := New(Config{Name: "groq", BaseURL: srv.URL + "/v1/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "groq" {
		t.Errorf("expected name groq, got %q", c.Name())
	}

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/models"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected headers %v", resp.Header)
	}
	if !strings.Contains(string(resp.Body), "list") {
		t.Errorf("unexpected body %s", resp.Body)
	}
}

func TestClient_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["model"] != "llama-3.3-70b-versatile" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/chat/completions",
		Body:   map[string]any{"model": "llama-3.3-70b-versatile"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_RawAudioBody(t *testing.T) {
	audio := []byte{0x52, 0x49, 0x46, 0x46}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "audio/wav" {
			t.Errorf("expected audio/wav, got %s", ct)
		}
		got, _ := io.ReadAll(r.Body)
		if string(got) != string(audio) {
			t.Errorf("unexpected body %v", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/listen",
		Headers: map[string]string{"Content-Type": "audio/wav"},
		Body:    audio,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_BytesDefaultContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/octet-stream" {
			t.Errorf("expected octet-stream, got %s", ct)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Body: []byte("x")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_HeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Default") != "default" {
			t.Errorf("missing default header")
		}
		if r.Header.Get("X-Override") != "request" {
			t.Errorf("expected request header to win, got %q", r.Header.Get("X-Override"))
		}
		q := r.URL.Query()
		if q.Get("model") != "nova-2" || q.Get("smart_format") != "true" {
			t.Errorf("unexpected query %v", q)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{
		BaseURL: srv.URL,
		Headers: map[string]string{"X-Default": "default", "X-Override": "client"},
	})
	_, err := c.Do(context.Background(), Request{
		Method:  http.MethodPost,
		Path:    "/listen",
		Headers: map[string]string{"X-Override": "request"},
		Query:   map[string]string{"model": "nova-2", "smart_format": "true"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_Auth(t *testing.T) {
	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Auth: BearerAuth("gsk_test")})

	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth.Load() != "Bearer gsk_test" {
		t.Errorf("expected bearer auth, got %v", gotAuth.Load())
	}

	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Auth: SchemeAuth("Token", "dg_test")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth.Load() != "Token dg_test" {
		t.Errorf("expected per-request scheme auth, got %v", gotAuth.Load())
	}
}

func TestClient_Do_APIKeyQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "gm_test" {
			t.Errorf("expected key query param, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("alt") != "json" {
			t.Errorf("request query should be preserved, got %q", r.URL.RawQuery)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Auth: QueryAuth("key", "gm_test")})
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Query: map[string]string{"alt": "json"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_ErrorClassification(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{http.StatusUnauthorized, ErrCodeAuth, false},
		{http.StatusNotFound, ErrCodeNotFound, false},
		{http.StatusBadRequest, ErrCodeValidation, false},
		{http.StatusTooManyRequests, ErrCodeRateLimit, true},
		{http.StatusBadGateway, ErrCodeServer, true},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), Request{Method: http.MethodGet})
			if resp == nil || resp.StatusCode != tc.status {
				t.Fatalf("expected response with status %d, got %+v", tc.status, resp)
			}
			var httpErr *Error
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if httpErr.Code != tc.code || httpErr.Retryable != tc.retryable {
				t.Errorf("got code=%s retryable=%v", httpErr.Code, httpErr.Retryable)
			}
			if string(httpErr.Body) != `{"error":"nope"}` {
				t.Errorf("expected body on error, got %s", httpErr.Body)
			}
		})
	}
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, Request{Method: http.MethodGet})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_Do_FullURLIgnoresBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/direct" {
			t.Errorf("expected /direct, got %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: "http://unused.invalid"})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: srv.URL + "/direct"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusBadRequest)
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c, _ := New(Config{
		Name:           "deepgram",
		BaseURL:        srv.URL,
		CircuitBreaker: &resilience.CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute, HalfOpenMaxCalls: 1},
	})

	for range 3 {
		_, _ = c.Do(context.Background(), Request{Method: http.MethodGet})
	}
	if calls.Load() != 3 {
		t.Fatalf("4xx responses must not open the circuit, got %d calls", calls.Load())
	}

	status.Store(http.StatusServiceUnavailable)
	for range 2 {
		_, _ = c.Do(context.Background(), Request{Method: http.MethodGet})
	}
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet})
	var httpErr *Error
	if !errors.As(err, &httpErr) || httpErr.Code != ErrCodeConnection {
		t.Fatalf("expected connection error from open circuit, got %v", err)
	}
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Error("expected ErrCircuitOpen in chain")
	}
	if calls.Load() != 5 {
		t.Errorf("open circuit should not call through, got %d calls", calls.Load())
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{RateLimiter: &resilience.RateLimiterConfig{Rate: -1}}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative rate")
	}
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name  string
		auth  Auth
		check func(*http.Request) bool
	}{
		{"bearer", BearerAuth("gsk"), func(r *http.Request) bool { return r.Header.Get("Authorization") == "Bearer gsk" }},
		{"scheme", SchemeAuth("Token", "dg"), func(r *http.Request) bool { return r.Header.Get("Authorization") == "Token dg" }},
		{"header", HeaderAuth("x-goog-api-key", "k1"), func(r *http.Request) bool { return r.Header.Get("x-goog-api-key") == "k1" }},
		{"query keeps existing params", QueryAuth("key", "k2"), func(r *http.Request) bool {
			return r.URL.Query().Get("key") == "k2" && r.URL.Query().Get("a") == "1"
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "http://example.com/path?a=1", nil)
			tc.auth(r)
			if !tc.check(r) {
				t.Errorf("unexpected request: header=%v query=%q", r.Header, r.URL.RawQuery)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	err := ProviderError("deepgram", ClassifyStatusCode(http.StatusBadRequest, []byte("bad audio")))
	if err.Code != apperrors.ErrCodeProviderCallFailed {
		t.Fatalf("unexpected code %s", err.Code)
	}
	if err.Details["status"] != http.StatusBadRequest || err.Details["body"] != "bad audio" {
		t.Errorf("unexpected details %v", err.Details)
	}

	err = ProviderError("deepgram", NewConnectionError(errors.New("refused")))
	if _, ok := err.Details["status"]; ok {
		t.Errorf("transport failure must not carry a status: %v", err.Details)
	}
}

func TestClient_RateLimiterBlocksBeforeSending(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c, _ := New(Config{
		Name:        "gemini",
		BaseURL:     srv.URL,
		RateLimiter: &resilience.RateLimiterConfig{Rate: 0.001, Burst: 1},
	})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodPost}); err != nil {
		t.Fatalf("first call must pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Do(ctx, Request{Method: http.MethodPost}); !IsTimeout(err) {
		t.Errorf("expected a timeout while waiting for a token, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("limited call must not reach the provider, got %d calls", calls.Load())
	}
}
