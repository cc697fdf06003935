package agentconf

import (
	"context"
	"fmt"
)

// countingProvider returns a fixed configuration and counts Load calls.
type countingProvider struct {
	name  string
	kind  Kind
	cfg   *Config
	err   error
	calls int
}

func (p *countingProvider) Load(ctx context.Context) (*Config, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if p.cfg == nil {
		return nil, nil
	}
	cfg := *p.cfg
	return &cfg, nil
}

func (p *countingProvider) Name() string {
	return p.name
}

func (p *countingProvider) Kind() Kind {
	if p.kind == "" {
		return KindCustom
	}
	return p.kind
}

func provide(name string, cfg Config) *countingProvider {
	return &countingProvider{name: name, cfg: &cfg}
}

func failing(name string) *countingProvider {
	return &countingProvider{name: name, err: fmt.Errorf("%w: %s is broken", ErrMalformed, name)}
}

// fullConfig returns a configuration with every leaf set.
func fullConfig(tag string) Config {
	return Config{
		ReportingEnabled: Of(true),
		ProjectKey:       Of("project-" + tag),
		Server: ServerConfig{
			Hostname:    Of("host-" + tag),
			AccessToken: Of("token-" + tag),
		},
		Run: RunConfig{
			DisplayName:                Of("name-" + tag),
			Build:                      Of("build-" + tag),
			Environment:                Of("env-" + tag),
			Context:                    Of("context-" + tag),
			RetryKnownIssues:           Of(true),
			SubstituteRemoteWebDrivers: Of(true),
			TreatSkipsAsFailures:       Of(false),
			TestCaseStatus: TestCaseStatus{
				OnPass: Of("pass-" + tag),
				OnFail: Of("fail-" + tag),
				OnSkip: Of("skip-" + tag),
			},
		},
		Notification: NotificationConfig{
			NotifyOnEachFailure: Of(true),
			SlackChannels:       Of("slack-" + tag),
			MsTeamsChannels:     Of("teams-" + tag),
			Emails:              Of("emails-" + tag),
		},
		Milestone: MilestoneConfig{
			ID:   Of(int64(1)),
			Name: Of("milestone-" + tag),
		},
	}
}

func providers(ps ...*countingProvider) []Provider {
	out := make([]Provider, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}
