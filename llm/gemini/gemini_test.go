package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/voicekit/llm"
)

func TestDialect_WireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-1.5-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "gm" {
			t.Errorf("expected key query param, got %q", r.URL.RawQuery)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.SystemInstruction != nil {
			t.Errorf("unexpected system instruction %+v", req.SystemInstruction)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "prompt\n\nText to clean:\nuh hi" {
			t.Errorf("unexpected contents %+v", req.Contents)
		}
		if req.GenerationConfig.Temperature != 0.3 || req.GenerationConfig.MaxOutputTokens != 2048 {
			t.Errorf("unexpected generation config %+v", req.GenerationConfig)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi."}]}}]}`))
	}))
	defer srv.Close()

	a, err := llm.New(llm.Config{
		Dialect: DialectName, BaseURL: srv.URL + "/v1beta", APIKey: "gm",
		Model: "gemini-1.5-flash", Temperature: 0.3, MaxTokens: 2048,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Name() != DialectName {
		t.Errorf("expected name to default to dialect, got %q", a.Name())
	}
	resp, err := a.Execute(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: "user", Content: "prompt\n\nText to clean:\nuh hi"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Content != "Hi." {
		t.Errorf("unexpected content %q", resp.Content)
	}
}

func TestDialect_BuildRequest_Roles(t *testing.T) {
	out, _ := (&Dialect{}).BuildRequest(llm.CompletionRequest{
		SystemPrompt: "sys",
		Messages:     []llm.Message{{Role: "user", Content: "a"}, {Role: "assistant", Content: "b"}},
	})
	req := out.(generateRequest)
	if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "sys" {
		t.Errorf("expected system instruction, got %+v", req.SystemInstruction)
	}
	if req.Contents[1].Role != "model" {
		t.Errorf("assistant should map to model, got %q", req.Contents[1].Role)
	}
}

func TestDialect_ParseResponse_Malformed(t *testing.T) {
	d := &Dialect{}
	for _, body := range []string{`{}`, `{"candidates":[{"content":{"parts":[]}}]}`, `{"candidates":[{"content":{"parts":[{}]}}]}`, `nope`} {
		if _, err := d.ParseResponse([]byte(body)); !errors.Is(err, llm.ErrMalformedResponse) {
			t.Errorf("body %s: expected ErrMalformedResponse, got %v", body, err)
		}
	}
}
