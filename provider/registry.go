package provider

import (
	"sort"
	"sync"
)

// Registry holds provider instances by key and resolves unknown keys to a
// fallback provider.
type Registry[T Provider] struct {
	mu       sync.RWMutex
	items    map[string]T
	fallback string
}

// NewRegistry creates a Registry whose Resolve falls back to the provider
// registered under fallback.
func NewRegistry[T Provider](fallback string) *Registry[T] {
	return &Registry[T]{items: make(map[string]T), fallback: fallback}
}

// Register stores p under its Name.
func (r *Registry[T]) Register(p T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.Name()] = p
}

// Get returns the provider registered under key.
func (r *Registry[T]) Get(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[key]
	return p, ok
}

// Resolve returns the provider for key, or the fallback provider when key is
// not registered. ok is false only when the fallback is missing too.
func (r *Registry[T]) Resolve(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.items[key]; ok {
		return p, true
	}
	p, ok := r.items[r.fallback]
	return p, ok
}

// Fallback returns the fallback key.
func (r *Registry[T]) Fallback() string { return r.fallback }

// Keys returns the sorted keys of all registered providers.
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Wrap replaces every registered provider with mw(provider). Used to apply
// logging and tracing once all clients are registered.
func (r *Registry[T]) Wrap(mw func(T) T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, p := range r.items {
		r.items[k] = mw(p)
	}
}
