package agentconf

import (
	"context"
)

// Kind tags a provider so callers can position new providers relative to it.
type Kind string

// Built-in provider kinds.
const (
	KindEnvironment  Kind = "environment"
	KindDotenv       Kind = "dotenv"
	KindFile         Kind = "file"
	KindProgrammatic Kind = "programmatic"
	KindChain        Kind = "chain"
	KindCustom       Kind = "custom"
)

// Provider supplies a possibly partial configuration snapshot.
type Provider interface {
	// Load returns the provider's view of the configuration. A nil record is
	// treated as empty. Malformed input should be reported by wrapping ErrMalformed.
	Load(ctx context.Context) (*Config, error)

	// Name identifies the provider in logs and provenance (e.g., "env", "file:agent.yaml").
	Name() string

	// Kind reports the provider category used by Chain.InsertAfter.
	Kind() Kind
}

// Optional distinguishes "not set" from "zero value".
type Optional[T any] struct {
	Value T
	Set   bool
}

// Of returns an Optional holding v.
func Of[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// OrDefault returns the wrapped value or the provided default.
func (o Optional[T]) OrDefault(defaultVal T) T {
	if o.Set {
		return o.Value
	}
	return defaultVal
}

// Or returns o when it is set, otherwise fallback.
func (o Optional[T]) Or(fallback Optional[T]) Optional[T] {
	if o.Set {
		return o
	}
	return fallback
}

// ProviderFunc adapts a function to the Provider interface with KindCustom.
type ProviderFunc func(ctx context.Context) (*Config, error)

// Load calls f(ctx).
func (f ProviderFunc) Load(ctx context.Context) (*Config, error) {
	return f(ctx)
}

// Name returns "func".
func (f ProviderFunc) Name() string {
	return "func"
}

// Kind returns KindCustom.
func (f ProviderFunc) Kind() Kind {
	return KindCustom
}

type staticProvider struct {
	name string
	cfg  Config
}

// Static returns a programmatic provider that always yields a copy of cfg.
func Static(name string, cfg Config) Provider {
	return &staticProvider{name: name, cfg: cfg}
}

func (s *staticProvider) Load(ctx context.Context) (*Config, error) {
	cfg := s.cfg
	return &cfg, nil
}

func (s *staticProvider) Name() string {
	if s.name == "" {
		return "static"
	}
	return s.name
}

func (s *staticProvider) Kind() Kind {
	return KindProgrammatic
}
