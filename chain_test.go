package agentconf

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChain_NoProviders(t *testing.T) {
	tests := []struct {
		name      string
		providers []Provider
	}{
		{"nil slice", nil},
		{"empty slice", []Provider{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := NewChain(tt.providers)
			assert.ErrorIs(t, err, ErrNoProviders)
			assert.Nil(t, chain)
		})
	}
}

func TestNewChain_NilProvider(t *testing.T) {
	chain, err := NewChain([]Provider{provide("p1", Config{}), nil})
	require.Error(t, err)
	assert.Nil(t, chain)
	assert.Contains(t, err.Error(), "index 1")
}

func TestNewChain_CopiesProviders(t *testing.T) {
	p1 := provide("p1", Config{})
	p2 := provide("p2", Config{})
	input := []Provider{p1}

	chain, err := NewChain(input)
	require.NoError(t, err)

	input[0] = p2
	assert.Same(t, p1, chain.Providers()[0])
}

func TestChain_Load_FirstWins(t *testing.T) {
	high := provide("high", Config{
		ProjectKey: Of("HIGH"),
		Server:     ServerConfig{Hostname: Of("high-host")},
		Run:        RunConfig{TreatSkipsAsFailures: Of(false)},
	})
	low := provide("low", Config{
		ProjectKey: Of("LOW"),
		Server:     ServerConfig{Hostname: Of("low-host"), AccessToken: Of("low-token")},
		Run:        RunConfig{TreatSkipsAsFailures: Of(true), Build: Of("low-build")},
	})

	chain, err := NewChain(providers(high, low))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Of("HIGH"), cfg.ProjectKey)
	assert.Equal(t, Of("high-host"), cfg.Server.Hostname)
	assert.Equal(t, Of("low-token"), cfg.Server.AccessToken, "unset fields are filled from lower priority")
	assert.Equal(t, Of(false), cfg.Run.TreatSkipsAsFailures, "explicit false is not overwritten")
	assert.Equal(t, Of("low-build"), cfg.Run.Build)
}

func TestChain_Load_BlankValuesAreAbsent(t *testing.T) {
	p1 := provide("p1", Config{
		Server:       ServerConfig{Hostname: Of("")},
		Notification: NotificationConfig{SlackChannels: Of("a")},
		Run:          RunConfig{DisplayName: Of("   ")},
	})
	p2 := provide("p2", Config{
		Server:       ServerConfig{Hostname: Of("h"), AccessToken: Of("t")},
		Notification: NotificationConfig{SlackChannels: Of("b")},
		Run:          RunConfig{DisplayName: Of("Nightly")},
	})

	chain, err := NewChain(providers(p1, p2))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Of("h"), cfg.Server.Hostname)
	assert.Equal(t, Of("t"), cfg.Server.AccessToken)
	assert.Equal(t, Of("b"), cfg.Notification.SlackChannels)
	assert.Equal(t, Of("Nightly"), cfg.Run.DisplayName)
}

func TestChain_Load_NotificationChannelsLastNonEmptyWins(t *testing.T) {
	p1 := provide("p1", Config{Notification: NotificationConfig{
		NotifyOnEachFailure: Of(true),
		SlackChannels:       Of("slack-1"),
		MsTeamsChannels:     Of("teams-1"),
		Emails:              Of("emails-1"),
	}})
	p2 := provide("p2", Config{Notification: NotificationConfig{
		NotifyOnEachFailure: Of(false),
		SlackChannels:       Of("slack-2"),
		Emails:              Of(" "),
	}})
	p3 := provide("p3", Config{Notification: NotificationConfig{
		MsTeamsChannels: Of("teams-3"),
	}})

	chain, err := NewChain(providers(p1, p2, p3))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Of(true), cfg.Notification.NotifyOnEachFailure, "notify flag keeps first-wins")
	assert.Equal(t, Of("slack-2"), cfg.Notification.SlackChannels)
	assert.Equal(t, Of("teams-3"), cfg.Notification.MsTeamsChannels)
	assert.Equal(t, Of("emails-1"), cfg.Notification.Emails, "blank values never overwrite")
}

func TestChain_Load_EarlyExit(t *testing.T) {
	partial := provide("partial", Config{ProjectKey: Of("PARTIAL")})
	full := provide("full", fullConfig("full"))
	skipped := provide("skipped", fullConfig("skipped"))

	chain, err := NewChain(providers(partial, full, skipped))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, partial.calls)
	assert.Equal(t, 1, full.calls)
	assert.Equal(t, 0, skipped.calls, "providers after a fully set configuration are not consulted")

	assert.Equal(t, Of("PARTIAL"), cfg.ProjectKey)
	assert.Equal(t, Of("slack-full"), cfg.Notification.SlackChannels, "skipped providers cannot overwrite channels")
}

func TestChain_Load_NoEarlyExitWhileAnyFieldUnset(t *testing.T) {
	almost := fullConfig("almost")
	almost.Milestone.Name = Optional[string]{}
	first := provide("first", almost)
	second := provide("second", Config{Milestone: MilestoneConfig{Name: Of("M2")}})

	chain, err := NewChain(providers(first, second))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, second.calls)
	assert.Equal(t, Of("M2"), cfg.Milestone.Name)
}

func TestChain_Load_DefaultProjectKey(t *testing.T) {
	t.Run("no provider supplies a key", func(t *testing.T) {
		chain, err := NewChain(providers(provide("p1", Config{ProjectKey: Of("  ")})))
		require.NoError(t, err)

		cfg, err := chain.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Of(DefaultProjectKey), cfg.ProjectKey)
	})

	t.Run("supplied key is kept", func(t *testing.T) {
		chain, err := NewChain(providers(provide("p1", Config{}), provide("p2", Config{ProjectKey: Of("WEB")})))
		require.NoError(t, err)

		cfg, err := chain.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Of("WEB"), cfg.ProjectKey)
	})
}

func TestChain_Load_MandatoryFields(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantErr     bool
		wantMissing []string
	}{
		{
			name:        "enabled without server",
			cfg:         Config{ReportingEnabled: Of(true)},
			wantErr:     true,
			wantMissing: []string{"Server.Hostname", "Server.AccessToken"},
		},
		{
			name:        "enabled without token",
			cfg:         Config{ReportingEnabled: Of(true), Server: ServerConfig{Hostname: Of("h")}},
			wantErr:     true,
			wantMissing: []string{"Server.AccessToken"},
		},
		{
			name:        "enabled with blank hostname",
			cfg:         Config{ReportingEnabled: Of(true), Server: ServerConfig{Hostname: Of(" "), AccessToken: Of("t")}},
			wantErr:     true,
			wantMissing: []string{"Server.Hostname"},
		},
		{
			name: "enabled with server",
			cfg:  Config{ReportingEnabled: Of(true), Server: ServerConfig{Hostname: Of("h"), AccessToken: Of("t")}},
		},
		{
			name: "disabled without server",
			cfg:  Config{ReportingEnabled: Of(false)},
		},
		{
			name: "unset enabled counts as disabled",
			cfg:  Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := NewChain(providers(provide("p", tt.cfg)))
			require.NoError(t, err)

			cfg, err := chain.Load(context.Background())
			if !tt.wantErr {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				return
			}

			require.Error(t, err)
			assert.Nil(t, cfg, "no partial configuration is returned")
			assert.True(t, errors.Is(err, ErrMandatoryMissing))

			var valErr *ValidationError
			require.True(t, errors.As(err, &valErr))
			var missing []string
			for _, fe := range valErr.FieldErrors {
				assert.Equal(t, ErrCodeRequired, fe.Code)
				missing = append(missing, fe.FieldPath)
			}
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}

func TestChain_Load_ProviderErrorsAreSkipped(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	broken := failing("broken")
	good := provide("good", Config{
		ReportingEnabled: Of(true),
		Server:           ServerConfig{Hostname: Of("h"), AccessToken: Of("t")},
	})

	chain, err := NewChain(providers(broken, good), WithLogger(logger))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, good.calls)
	assert.Equal(t, Of("h"), cfg.Server.Hostname)

	output := logs.String()
	assert.Contains(t, output, `"level":"warn"`)
	assert.Contains(t, output, `"provider":"broken"`)
	assert.Contains(t, output, "skipping configuration provider")
	assert.Contains(t, output, "broken is broken")
}

func TestChain_Load_AllProvidersFail(t *testing.T) {
	chain, err := NewChain(providers(failing("a"), failing("b")))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err, "reporting is disabled when nothing is configured")
	assert.Equal(t, Of(DefaultProjectKey), cfg.ProjectKey)
	assert.False(t, cfg.ReportingEnabled.Set)
}

func TestChain_Load_NilRecord(t *testing.T) {
	empty := &countingProvider{name: "empty"}
	good := provide("good", Config{Run: RunConfig{Build: Of("42")}})

	chain, err := NewChain(providers(empty, good))
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Of("42"), cfg.Run.Build)
}

func TestChain_Load_DoesNotMutateProviders(t *testing.T) {
	source := Config{
		Server: ServerConfig{Hostname: Of("  ")},
		Run:    RunConfig{Build: Of("1")},
	}
	p := ProviderFunc(func(ctx context.Context) (*Config, error) {
		return &source, nil
	})

	chain, err := NewChain([]Provider{p, provide("low", Config{Server: ServerConfig{Hostname: Of("h")}})})
	require.NoError(t, err)

	first, err := chain.Load(context.Background())
	require.NoError(t, err)
	first.Run.Build = Of("changed")

	second, err := chain.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Of("  "), source.Server.Hostname, "provider record is not normalized in place")
	assert.Equal(t, Of("1"), second.Run.Build, "assemblies do not share state")
	assert.NotSame(t, first, second)
}

func TestChain_InsertAfter(t *testing.T) {
	env := &countingProvider{name: "env", kind: KindEnvironment}
	file := &countingProvider{name: "file", kind: KindFile}
	file2 := &countingProvider{name: "file2", kind: KindFile}

	names := func(c *Chain) []string {
		var out []string
		for _, p := range c.Providers() {
			out = append(out, p.Name())
		}
		return out
	}

	t.Run("after first match", func(t *testing.T) {
		chain, err := NewChain(providers(env, file, file2))
		require.NoError(t, err)

		chain.InsertAfter(&countingProvider{name: "custom"}, KindFile)
		assert.Equal(t, []string{"env", "file", "custom", "file2"}, names(chain))
	})

	t.Run("after last provider", func(t *testing.T) {
		chain, err := NewChain(providers(env, file))
		require.NoError(t, err)

		chain.InsertAfter(&countingProvider{name: "custom"}, KindFile)
		assert.Equal(t, []string{"env", "file", "custom"}, names(chain))
	})

	t.Run("append when kind is absent", func(t *testing.T) {
		chain, err := NewChain(providers(env, file))
		require.NoError(t, err)

		chain.InsertAfter(&countingProvider{name: "custom"}, KindDotenv)
		assert.Equal(t, []string{"env", "file", "custom"}, names(chain))
	})
}

func TestChain_InsertAfter_NilIsIgnored(t *testing.T) {
	chain, err := NewChain(providers(provide("p1", Config{ProjectKey: Of("P1")})))
	require.NoError(t, err)

	chain.InsertAfter(nil, KindCustom)
	chain.InsertAfter(nil, KindDotenv)
	assert.Len(t, chain.Providers(), 1)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Of("P1"), cfg.ProjectKey)
}

func TestChain_InsertAfter_ChangesPriority(t *testing.T) {
	env := &countingProvider{name: "env", kind: KindEnvironment, cfg: &Config{}}
	file := &countingProvider{name: "file", kind: KindFile, cfg: &Config{ProjectKey: Of("FROM_FILE")}}

	chain, err := NewChain(providers(env, file))
	require.NoError(t, err)

	chain.InsertAfter(Static("override", Config{ProjectKey: Of("FROM_OVERRIDE")}), KindEnvironment)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Of("FROM_OVERRIDE"), cfg.ProjectKey)
}

func TestChain_AsProvider(t *testing.T) {
	inner, err := NewChain(providers(provide("inner", Config{Run: RunConfig{Build: Of("inner-build")}})))
	require.NoError(t, err)

	outer, err := NewChain([]Provider{
		Static("explicit", Config{ProjectKey: Of("OUTER")}),
		inner,
	})
	require.NoError(t, err)

	cfg, err := outer.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Of("OUTER"), cfg.ProjectKey)
	assert.Equal(t, Of("inner-build"), cfg.Run.Build)
	assert.Equal(t, KindChain, inner.Kind())
	assert.Equal(t, "chain", inner.Name())
}

func TestChain_AsProvider_DefaultsDoNotShadowLowerProviders(t *testing.T) {
	inner, err := NewChain(providers(provide("inner", Config{})))
	require.NoError(t, err)
	low := provide("low", Config{ProjectKey: Of("REAL")})

	outer, err := NewChain([]Provider{inner, low})
	require.NoError(t, err)

	cfg, err := outer.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Of("REAL"), cfg.ProjectKey)
	assert.Equal(t, 1, low.calls)

	prov, ok := GetProvenance(cfg)
	require.True(t, ok)
	for _, fp := range prov.Fields {
		if fp.FieldPath == "ProjectKey" {
			assert.Equal(t, "low", fp.SourceName)
		}
	}
}

func TestChain_AsProvider_ValidatesMergedResult(t *testing.T) {
	inner, err := NewChain(providers(provide("inner", Config{ReportingEnabled: Of(true)})))
	require.NoError(t, err)
	low := provide("low", Config{Server: ServerConfig{Hostname: Of("h"), AccessToken: Of("t")}})

	outer, err := NewChain([]Provider{inner, low})
	require.NoError(t, err)

	cfg, err := outer.Load(context.Background())
	require.NoError(t, err, "credentials from a later provider complete the nested chain's values")
	assert.Equal(t, Of(true), cfg.ReportingEnabled)
	assert.Equal(t, Of("h"), cfg.Server.Hostname)

	// Loaded on its own, the inner chain still applies its default and validation
	_, err = inner.Load(context.Background())
	assert.ErrorIs(t, err, ErrMandatoryMissing)
}

func TestChain_Load_Provenance(t *testing.T) {
	chain, err := NewChain([]Provider{
		Static("explicit", Config{Server: ServerConfig{Hostname: Of("h")}}),
		provide("env", Config{
			Server:       ServerConfig{Hostname: Of("ignored"), AccessToken: Of("t")},
			Notification: NotificationConfig{Emails: Of("a@example.com")},
		}),
		provide("file", Config{Notification: NotificationConfig{Emails: Of("b@example.com")}}),
	})
	require.NoError(t, err)

	cfg, err := chain.Load(context.Background())
	require.NoError(t, err)

	prov, ok := GetProvenance(cfg)
	require.True(t, ok)

	sources := make(map[string]FieldProvenance)
	for _, fp := range prov.Fields {
		sources[fp.FieldPath] = fp
	}

	assert.Equal(t, "explicit", sources["Server.Hostname"].SourceName)
	assert.Equal(t, "env", sources["Server.AccessToken"].SourceName)
	assert.True(t, sources["Server.AccessToken"].Secret)
	assert.Equal(t, "server.accessToken", sources["Server.AccessToken"].KeyPath)
	assert.Equal(t, "file", sources["Notification.Emails"].SourceName)
	assert.Equal(t, defaultSourceName, sources["ProjectKey"].SourceName)
	assert.NotContains(t, sources, "Run.Build")
}
