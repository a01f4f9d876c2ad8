package llm

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/voicekit/httpclient"
)

// Dialect translates between the universal completion types and one
// provider's wire format. The openai and gemini sub-packages register
// theirs from init; a blank import is enough to make one available to New.
type Dialect interface {
	Name() string

	// ChatPath is the completion endpoint for model, relative to the base URL.
	ChatPath(model string) string

	// Auth tells the HTTP client where apiKey goes.
	Auth(apiKey string) httpclient.Auth

	// BuildRequest returns the JSON body for req.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse extracts the completion from a 2xx body, or returns an
	// error wrapping ErrMalformedResponse.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var registry = struct {
	sync.RWMutex
	m map[string]Dialect
}{m: map[string]Dialect{}}

// RegisterDialect makes d available under name. A later call with the
// same name wins.
func RegisterDialect(name string, d Dialect) {
	registry.Lock()
	registry.m[name] = d
	registry.Unlock()
}

// GetDialect returns the dialect registered under name.
func GetDialect(name string) (Dialect, error) {
	registry.RLock()
	defer registry.RUnlock()
	if d, ok := registry.m[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("llm: unknown dialect %q, registered: %v", name, slices.Sorted(maps.Keys(registry.m)))
}
