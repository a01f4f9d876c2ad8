// Package llm provides a config-driven chat completion adapter built on the
// httpclient package.
//
// The adapter works with any provider through the Dialect pattern, similar to
// how database/sql works with driver packages:
//   - Universal types: [CompletionRequest], [CompletionResponse], [Message], [Usage]
//   - [Dialect]: maps universal types to and from a provider's HTTP format
//   - [Adapter]: an httpclient.Client plus a Dialect
//   - Dialect registry: [RegisterDialect] / [GetDialect]
//
// Import a dialect package for side-effect registration, then create an adapter:
//
//	import (
//	    "github.com/kbukum/voicekit/llm"
//	    _ "github.com/kbukum/voicekit/llm/openai"
//	)
//
//	adapter, err := llm.New(llm.Config{
//	    Name:    "groq",
//	    Dialect: "openai",
//	    BaseURL: "https://api.groq.com/openai/v1",
//	    APIKey:  key,
//	    Model:   "llama-3.1-8b-instant",
//	})
//
//	text, err := llm.Complete(ctx, adapter, systemPrompt, userText)
//
// A 2xx response whose text cannot be located yields [ErrMalformedResponse];
// callers decide how to degrade.
package llm
