package providerenv

import (
	"context"
	"fmt"

	"github.com/Azhovan/agentconf"
	"github.com/Azhovan/agentconf/internal/normalize"
	"github.com/caarlos0/env/v11"
)

// DefaultPrefix is prepended to every variable name.
const DefaultPrefix = "REPORTING_"

// Options configures environment variable provider behavior.
type Options struct {
	// Prefix for all variables. Empty = DefaultPrefix.
	Prefix string

	// Environment replaces the process environment when non-nil.
	Environment map[string]string
}

// variables mirrors the REPORTING_* variable layout.
type variables struct {
	Enabled      *string               `env:"ENABLED"`
	ProjectKey   *string               `env:"PROJECT_KEY"`
	Server       serverVariables       `envPrefix:"SERVER_"`
	Run          runVariables          `envPrefix:"RUN_"`
	Notification notificationVariables `envPrefix:"NOTIFICATION_"`
	Milestone    milestoneVariables    `envPrefix:"MILESTONE_"`
}

type serverVariables struct {
	Hostname    *string `env:"HOSTNAME"`
	AccessToken *string `env:"ACCESS_TOKEN"`
}

type runVariables struct {
	DisplayName                *string `env:"DISPLAY_NAME"`
	Build                      *string `env:"BUILD"`
	Environment                *string `env:"ENVIRONMENT"`
	Context                    *string `env:"CONTEXT"`
	RetryKnownIssues           *string `env:"RETRY_KNOWN_ISSUES"`
	SubstituteRemoteWebDrivers *string `env:"SUBSTITUTE_REMOTE_WEB_DRIVERS"`
	TreatSkipsAsFailures       *string `env:"TREAT_SKIPS_AS_FAILURES"`
	TestCaseStatusOnPass       *string `env:"TEST_CASE_STATUS_ON_PASS"`
	TestCaseStatusOnFail       *string `env:"TEST_CASE_STATUS_ON_FAIL"`
	TestCaseStatusOnSkip       *string `env:"TEST_CASE_STATUS_ON_SKIP"`
}

type notificationVariables struct {
	NotifyOnEachFailure *string `env:"NOTIFY_ON_EACH_FAILURE"`
	SlackChannels       *string `env:"SLACK_CHANNELS"`
	MsTeamsChannels     *string `env:"MS_TEAMS_CHANNELS"`
	Emails              *string `env:"EMAILS"`
}

type milestoneVariables struct {
	ID   *string `env:"ID"`
	Name *string `env:"NAME"`
}

type envProvider struct {
	opts Options
}

// New creates an environment variable provider.
func New(opts Options) agentconf.Provider {
	return &envProvider{opts: opts}
}

// Load binds REPORTING_* variables into a configuration.
func (e *envProvider) Load(ctx context.Context) (*agentconf.Config, error) {
	return bind(e.opts.Environment, e.opts.Prefix)
}

// Name returns "env".
func (e *envProvider) Name() string {
	return "env"
}

// Kind returns agentconf.KindEnvironment.
func (e *envProvider) Kind() agentconf.Kind {
	return agentconf.KindEnvironment
}

// bind parses variables from environment (process environment when nil).
func bind(environment map[string]string, prefix string) (*agentconf.Config, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	var vars variables
	if err := env.ParseWithOptions(&vars, env.Options{
		Prefix:      prefix,
		Environment: environment,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", agentconf.ErrMalformed, err)
	}

	return vars.config(prefix)
}

// config converts raw variables, parsing booleans strictly.
func (v *variables) config(prefix string) (*agentconf.Config, error) {
	p := &flagParser{prefix: prefix}

	cfg := &agentconf.Config{
		ReportingEnabled: p.flag("ENABLED", v.Enabled),
		ProjectKey:       text(v.ProjectKey),
		Server: agentconf.ServerConfig{
			Hostname:    text(v.Server.Hostname),
			AccessToken: text(v.Server.AccessToken),
		},
		Run: agentconf.RunConfig{
			DisplayName:                text(v.Run.DisplayName),
			Build:                      text(v.Run.Build),
			Environment:                text(v.Run.Environment),
			Context:                    text(v.Run.Context),
			RetryKnownIssues:           p.flag("RUN_RETRY_KNOWN_ISSUES", v.Run.RetryKnownIssues),
			SubstituteRemoteWebDrivers: p.flag("RUN_SUBSTITUTE_REMOTE_WEB_DRIVERS", v.Run.SubstituteRemoteWebDrivers),
			TreatSkipsAsFailures:       p.flag("RUN_TREAT_SKIPS_AS_FAILURES", v.Run.TreatSkipsAsFailures),
			TestCaseStatus: agentconf.TestCaseStatus{
				OnPass: text(v.Run.TestCaseStatusOnPass),
				OnFail: text(v.Run.TestCaseStatusOnFail),
				OnSkip: text(v.Run.TestCaseStatusOnSkip),
			},
		},
		Notification: agentconf.NotificationConfig{
			NotifyOnEachFailure: p.flag("NOTIFICATION_NOTIFY_ON_EACH_FAILURE", v.Notification.NotifyOnEachFailure),
			SlackChannels:       text(v.Notification.SlackChannels),
			MsTeamsChannels:     text(v.Notification.MsTeamsChannels),
			Emails:              text(v.Notification.Emails),
		},
		Milestone: agentconf.MilestoneConfig{
			Name: text(v.Milestone.Name),
		},
	}
	cfg.Milestone.ID = p.number("MILESTONE_ID", v.Milestone.ID)

	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// flagParser parses boolean and integer variables and keeps the first error.
type flagParser struct {
	prefix string
	err    error
}

func (p *flagParser) flag(name string, raw *string) agentconf.Optional[bool] {
	if raw == nil || p.err != nil {
		return agentconf.Optional[bool]{}
	}
	value, ok, err := normalize.ParseBool(*raw)
	if err != nil {
		p.err = fmt.Errorf("%w: %s%s: %w", agentconf.ErrMalformed, p.prefix, name, err)
		return agentconf.Optional[bool]{}
	}
	if !ok {
		return agentconf.Optional[bool]{}
	}
	return agentconf.Of(value)
}

func (p *flagParser) number(name string, raw *string) agentconf.Optional[int64] {
	if raw == nil || p.err != nil {
		return agentconf.Optional[int64]{}
	}
	value, ok, err := normalize.ParseInt(*raw)
	if err != nil {
		p.err = fmt.Errorf("%w: %s%s: %w", agentconf.ErrMalformed, p.prefix, name, err)
		return agentconf.Optional[int64]{}
	}
	if !ok {
		return agentconf.Optional[int64]{}
	}
	return agentconf.Of(value)
}

func text(raw *string) agentconf.Optional[string] {
	if raw == nil {
		return agentconf.Optional[string]{}
	}
	return agentconf.Of(*raw)
}
