// Package gemini implements the Google Gemini generateContent dialect.
// Importing it registers the "gemini" dialect.
package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/kbukum/voicekit/httpclient"
	"github.com/kbukum/voicekit/llm"
)

// DialectName is the registered dialect name.
const DialectName = "gemini"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm requests onto POST /models/{model}:generateContent.
type Dialect struct{}

var _ llm.Dialect = (*Dialect)(nil)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return DialectName }

// ChatPath returns the generateContent path for model.
func (d *Dialect) ChatPath(model string) string {
	return "/models/" + model + ":generateContent"
}

// Auth sends the key as the "key" query parameter.
func (d *Dialect) Auth(apiKey string) httpclient.Auth {
	return httpclient.QueryAuth("key", apiKey)
}

// BuildRequest maps messages to contents. Assistant turns use Gemini's
// "model" role. A system prompt becomes systemInstruction.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	out := generateRequest{
		Contents: make([]content, 0, len(req.Messages)),
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.SystemPrompt != "" {
		out.SystemInstruction = &content{Parts: []part{{Text: req.SystemPrompt}}}
	}
	for _, m := range req.Messages {
		role := m.Role
		if role == llm.RoleAssistant {
			role = "model"
		}
		out.Contents = append(out.Contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	return out, nil
}

// ParseResponse extracts candidates[0].content.parts[0].text.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrMalformedResponse, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 ||
		resp.Candidates[0].Content.Parts[0].Text == nil {
		return nil, fmt.Errorf("%w: no candidates[0].content.parts[0].text", llm.ErrMalformedResponse)
	}
	return &llm.CompletionResponse{
		Content: *resp.Candidates[0].Content.Parts[0].Text,
		Model:   resp.ModelVersion,
		Usage: llm.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}
