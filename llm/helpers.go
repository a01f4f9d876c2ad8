package llm

import (
	"context"

	"github.com/kbukum/voicekit/provider"
)

// Complete sends a system prompt and one user message and returns the text
// response. It accepts any RequestResponse so wrapped providers work too.
func Complete(ctx context.Context, p provider.RequestResponse[CompletionRequest, CompletionResponse], system, user string) (string, error) {
	resp, err := p.Execute(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
