package logger

import (
	"sort"
	"strings"
	"time"
)

// Summary collects what the process wired during startup so it can be
// logged once the server is listening.
type Summary struct {
	startTime      time.Time
	infrastructure []InfraEntry
	providers      []ProviderEntry
	routes         []RouteEntry
}

// InfraEntry is a backing dependency (database, redis, tracing).
type InfraEntry struct {
	Name    string
	Status  string // "active", "disabled", "error"
	Details string
}

// ProviderEntry is an external AI provider client.
type ProviderEntry struct {
	Kind       string // "transcription", "polishing"
	Name       string
	Configured bool
}

// RouteEntry is a registered HTTP route.
type RouteEntry struct {
	Method string
	Path   string
}

// NewSummary starts a summary clock at the current time.
func NewSummary() *Summary {
	return &Summary{startTime: time.Now()}
}

func (s *Summary) AddInfrastructure(name, status, details string) {
	s.infrastructure = append(s.infrastructure, InfraEntry{Name: name, Status: status, Details: details})
}

func (s *Summary) AddProvider(kind, name string, configured bool) {
	s.providers = append(s.providers, ProviderEntry{Kind: kind, Name: name, Configured: configured})
}

func (s *Summary) AddRoute(method, path string) {
	s.routes = append(s.routes, RouteEntry{Method: method, Path: path})
}

func (s *Summary) Infrastructure() []InfraEntry { return s.infrastructure }
func (s *Summary) Providers() []ProviderEntry   { return s.providers }
func (s *Summary) Routes() []RouteEntry         { return s.routes }

// UnconfiguredProviders lists "kind/name" for every provider without a credential.
func (s *Summary) UnconfiguredProviders() []string {
	var out []string
	for _, p := range s.providers {
		if !p.Configured {
			out = append(out, p.Kind+"/"+p.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Log writes the summary through l.
func (s *Summary) Log(l *Logger) {
	for _, inf := range s.infrastructure {
		l.Info("infrastructure", Fields(FieldComponent, inf.Name, FieldStatus, inf.Status, "details", inf.Details))
	}
	configured := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		if p.Configured {
			configured = append(configured, p.Kind+"/"+p.Name)
		}
	}
	l.Info("providers", Fields("configured", strings.Join(configured, ","), "unconfigured", strings.Join(s.UnconfiguredProviders(), ",")))
	l.Info("startup complete", Fields("routes", len(s.routes), FieldDuration, time.Since(s.startTime).Milliseconds()))
}
