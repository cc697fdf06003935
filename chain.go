package agentconf

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// Chain assembles configuration from providers ordered by priority (highest first).
// A field set by a provider is never overwritten by a later one, except the
// notification channels, where the last non-empty value wins.
// Load may be called concurrently; InsertAfter must not run concurrently with Load.
type Chain struct {
	providers []Provider
	logger    zerolog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithLogger sets the logger used to report skipped providers. Default: no logging.
func WithLogger(logger zerolog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = logger
	}
}

// NewChain creates a Chain over providers. Returns ErrNoProviders if none are given.
func NewChain(providers []Provider, opts ...ChainOption) (*Chain, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	for i, p := range providers {
		if p == nil {
			return nil, fmt.Errorf("agentconf: provider at index %d is nil", i)
		}
	}

	c := &Chain{
		providers: append(make([]Provider, 0, len(providers)), providers...),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Providers returns the providers in priority order.
func (c *Chain) Providers() []Provider {
	return append([]Provider(nil), c.providers...)
}

// InsertAfter places p right after the first provider of kind after,
// or appends it when the chain has no such provider. A nil p is ignored.
func (c *Chain) InsertAfter(p Provider, after Kind) {
	if p == nil {
		return
	}
	for i, existing := range c.providers {
		if existing.Kind() == after {
			c.providers = slices.Insert(c.providers, i+1, p)
			return
		}
	}
	c.providers = append(c.providers, p)
}

// Name returns "chain".
func (c *Chain) Name() string {
	return "chain"
}

// Kind returns KindChain.
func (c *Chain) Kind() Kind {
	return KindChain
}

// Load consults providers in priority order, merges their values and validates the result.
// Provider errors are logged and the provider is skipped. Returns *ValidationError
// when reporting is enabled without server hostname and access token.
func (c *Chain) Load(ctx context.Context) (*Config, error) {
	acc, sources := c.assemble(ctx)

	if !acc.ProjectKey.Set {
		acc.ProjectKey = Of(DefaultProjectKey)
		sources["ProjectKey"] = defaultSourceName
	}

	if !mandatoryFieldsPresent(&acc) {
		return nil, &ValidationError{FieldErrors: validateMandatory(&acc)}
	}

	cfg := new(Config)
	*cfg = acc
	storeProvenance(cfg, buildProvenance(sources))

	return cfg, nil
}

// assemble merges provider values without defaults or validation.
// Nested chains are assembled the same way so their defaults do not
// shadow values from providers after them.
func (c *Chain) assemble(ctx context.Context) (Config, map[string]string) {
	var acc Config
	sources := make(map[string]string)

	for i, provider := range c.providers {
		logger := c.logger.With().
			Str("provider", provider.Name()).
			Str("kind", string(provider.Kind())).
			Logger()

		var provided *Config
		if nested, ok := provider.(*Chain); ok {
			cfg, _ := nested.assemble(ctx)
			provided = &cfg
		} else {
			var err error
			provided, err = provider.Load(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("skipping configuration provider")
				continue
			}
		}

		normalized := normalizeConfig(provided)
		attribute(sources, &acc, &normalized, provider.Name())
		acc = merge(acc, normalized)
		logger.Debug().Msg("merged configuration provider")

		// Lower-priority providers cannot change a fully set configuration
		if isFullySet(&acc) {
			logger.Debug().
				Int("skipped", len(c.providers)-i-1).
				Msg("configuration fully set, skipping remaining providers")
			break
		}
	}

	return acc, sources
}
