package agentconf

import (
	"context"
	"sync"
)

// Settings is a read-only view over an assembled Config with per-field fallbacks.
type Settings struct {
	cfg Config
}

// NewSettings wraps a copy of cfg.
func NewSettings(cfg *Config) *Settings {
	s := &Settings{}
	if cfg != nil {
		s.cfg = *cfg
	}
	return s
}

// Config returns a copy of the underlying configuration.
func (s *Settings) Config() Config {
	return s.cfg
}

// Enabled reports whether reporting is enabled. Default: false.
func (s *Settings) Enabled() bool {
	return s.cfg.ReportingEnabled.OrDefault(false)
}

// ProjectKey returns the project key. Default: "UNKNOWN".
func (s *Settings) ProjectKey() string {
	return s.cfg.ProjectKey.OrDefault(DefaultProjectKey)
}

// Host returns the reporting server hostname, or "" when unset.
func (s *Settings) Host() string {
	return s.cfg.Server.Hostname.Value
}

// Token returns the reporting server access token, or "" when unset.
func (s *Settings) Token() string {
	return s.cfg.Server.AccessToken.Value
}

// RunDisplayNameOr returns the configured run display name or displayName.
func (s *Settings) RunDisplayNameOr(displayName string) string {
	return s.cfg.Run.DisplayName.OrDefault(displayName)
}

// RunBuild returns the build under test, or "".
func (s *Settings) RunBuild() string {
	return s.cfg.Run.Build.Value
}

// RunEnvironment returns the environment under test, or "".
func (s *Settings) RunEnvironment() string {
	return s.cfg.Run.Environment.Value
}

// RunContext returns the raw run context, or "".
func (s *Settings) RunContext() string {
	return s.cfg.Run.Context.Value
}

// RetryKnownIssues defaults to false.
func (s *Settings) RetryKnownIssues() bool {
	return s.cfg.Run.RetryKnownIssues.OrDefault(false)
}

// SubstituteRemoteWebDrivers defaults to false.
func (s *Settings) SubstituteRemoteWebDrivers() bool {
	return s.cfg.Run.SubstituteRemoteWebDrivers.OrDefault(false)
}

// TreatSkipsAsFailures defaults to true.
func (s *Settings) TreatSkipsAsFailures() bool {
	return s.cfg.Run.TreatSkipsAsFailures.OrDefault(true)
}

// TestCaseStatusOnPass returns the test case status for passed tests, or "".
func (s *Settings) TestCaseStatusOnPass() string {
	return s.cfg.Run.TestCaseStatus.OnPass.Value
}

// TestCaseStatusOnFail returns the test case status for failed tests, or "".
func (s *Settings) TestCaseStatusOnFail() string {
	return s.cfg.Run.TestCaseStatus.OnFail.Value
}

// TestCaseStatusOnSkip returns the test case status for skipped tests, or "".
func (s *Settings) TestCaseStatusOnSkip() string {
	return s.cfg.Run.TestCaseStatus.OnSkip.Value
}

// NotifyOnEachFailure defaults to false.
func (s *Settings) NotifyOnEachFailure() bool {
	return s.cfg.Notification.NotifyOnEachFailure.OrDefault(false)
}

// SlackChannels returns the comma-separated Slack channels, or "".
func (s *Settings) SlackChannels() string {
	return s.cfg.Notification.SlackChannels.Value
}

// MsTeamsChannels returns the comma-separated Microsoft Teams channels, or "".
func (s *Settings) MsTeamsChannels() string {
	return s.cfg.Notification.MsTeamsChannels.Value
}

// Emails returns the comma-separated notification emails, or "".
func (s *Settings) Emails() string {
	return s.cfg.Notification.Emails.Value
}

// MilestoneID returns the milestone id and whether it was configured.
func (s *Settings) MilestoneID() (int64, bool) {
	return s.cfg.Milestone.ID.Get()
}

// MilestoneName returns the milestone name, or "".
func (s *Settings) MilestoneName() string {
	return s.cfg.Milestone.Name.Value
}

// Holder assembles Settings from a Chain once and caches them.
// Safe for concurrent use.
type Holder struct {
	mu       sync.Mutex
	chain    *Chain
	cfg      *Config
	settings *Settings
}

// NewHolder creates a Holder over chain. Nothing is loaded until Settings is called.
func NewHolder(chain *Chain) *Holder {
	return &Holder{chain: chain}
}

// Settings returns the cached settings, assembling them on first use.
// A failed assembly is not cached.
func (h *Holder) Settings(ctx context.Context) (*Settings, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.settings != nil {
		return h.settings, nil
	}
	return h.reload(ctx)
}

// AddProviderAfter inserts p after the first provider of kind after (or appends it)
// and re-assembles the settings.
func (h *Holder) AddProviderAfter(ctx context.Context, p Provider, after Kind) (*Settings, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.chain.InsertAfter(p, after)
	return h.reload(ctx)
}

func (h *Holder) reload(ctx context.Context) (*Settings, error) {
	cfg, err := h.chain.Load(ctx)
	if err != nil {
		return nil, err
	}

	deleteProvenance(h.cfg)
	h.cfg = cfg
	h.settings = NewSettings(cfg)
	return h.settings, nil
}
