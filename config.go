package agentconf

// DefaultProjectKey is assigned when no provider supplies a project key.
const DefaultProjectKey = "UNKNOWN"

// Config is the reporting agent configuration. Every leaf is optional until merged.
type Config struct {
	ReportingEnabled Optional[bool]
	ProjectKey       Optional[string]
	Server           ServerConfig
	Run              RunConfig
	Notification     NotificationConfig
	Milestone        MilestoneConfig
}

// ServerConfig holds reporting server connectivity.
type ServerConfig struct {
	Hostname    Optional[string]
	AccessToken Optional[string]
}

// RunConfig describes the test run being reported.
type RunConfig struct {
	DisplayName                Optional[string]
	Build                      Optional[string]
	Environment                Optional[string]
	Context                    Optional[string]
	RetryKnownIssues           Optional[bool]
	SubstituteRemoteWebDrivers Optional[bool]
	TreatSkipsAsFailures       Optional[bool]
	TestCaseStatus             TestCaseStatus
}

// TestCaseStatus maps test outcomes to test case management statuses.
type TestCaseStatus struct {
	OnPass Optional[string]
	OnFail Optional[string]
	OnSkip Optional[string]
}

// NotificationConfig lists recipients of run notifications.
type NotificationConfig struct {
	NotifyOnEachFailure Optional[bool]
	SlackChannels       Optional[string]
	MsTeamsChannels     Optional[string]
	Emails              Optional[string]
}

// MilestoneConfig links the run to a milestone.
type MilestoneConfig struct {
	ID   Optional[int64]
	Name Optional[string]
}

// field describes one leaf of Config.
type field struct {
	fieldPath string // Go path (e.g., "Server.Hostname")
	keyPath   string // Display path (e.g., "server.hostname")
	secret    bool
	lastWins  bool // Overwritten by any later non-empty value during merge
	value     func(*Config) (any, bool)
}

func leaf[T any](get func(*Config) Optional[T]) func(*Config) (any, bool) {
	return func(c *Config) (any, bool) {
		v, ok := get(c).Get()
		return v, ok
	}
}

// fields enumerates every leaf of Config in declaration order.
var fields = []field{
	{fieldPath: "ReportingEnabled", keyPath: "enabled", value: leaf(func(c *Config) Optional[bool] { return c.ReportingEnabled })},
	{fieldPath: "ProjectKey", keyPath: "projectKey", value: leaf(func(c *Config) Optional[string] { return c.ProjectKey })},
	{fieldPath: "Server.Hostname", keyPath: "server.hostname", value: leaf(func(c *Config) Optional[string] { return c.Server.Hostname })},
	{fieldPath: "Server.AccessToken", keyPath: "server.accessToken", secret: true, value: leaf(func(c *Config) Optional[string] { return c.Server.AccessToken })},
	{fieldPath: "Run.DisplayName", keyPath: "run.displayName", value: leaf(func(c *Config) Optional[string] { return c.Run.DisplayName })},
	{fieldPath: "Run.Build", keyPath: "run.build", value: leaf(func(c *Config) Optional[string] { return c.Run.Build })},
	{fieldPath: "Run.Environment", keyPath: "run.environment", value: leaf(func(c *Config) Optional[string] { return c.Run.Environment })},
	{fieldPath: "Run.Context", keyPath: "run.context", value: leaf(func(c *Config) Optional[string] { return c.Run.Context })},
	{fieldPath: "Run.RetryKnownIssues", keyPath: "run.retryKnownIssues", value: leaf(func(c *Config) Optional[bool] { return c.Run.RetryKnownIssues })},
	{fieldPath: "Run.SubstituteRemoteWebDrivers", keyPath: "run.substituteRemoteWebDrivers", value: leaf(func(c *Config) Optional[bool] { return c.Run.SubstituteRemoteWebDrivers })},
	{fieldPath: "Run.TreatSkipsAsFailures", keyPath: "run.treatSkipsAsFailures", value: leaf(func(c *Config) Optional[bool] { return c.Run.TreatSkipsAsFailures })},
	{fieldPath: "Run.TestCaseStatus.OnPass", keyPath: "run.testCaseStatus.onPass", value: leaf(func(c *Config) Optional[string] { return c.Run.TestCaseStatus.OnPass })},
	{fieldPath: "Run.TestCaseStatus.OnFail", keyPath: "run.testCaseStatus.onFail", value: leaf(func(c *Config) Optional[string] { return c.Run.TestCaseStatus.OnFail })},
	{fieldPath: "Run.TestCaseStatus.OnSkip", keyPath: "run.testCaseStatus.onSkip", value: leaf(func(c *Config) Optional[string] { return c.Run.TestCaseStatus.OnSkip })},
	{fieldPath: "Notification.NotifyOnEachFailure", keyPath: "notification.notifyOnEachFailure", value: leaf(func(c *Config) Optional[bool] { return c.Notification.NotifyOnEachFailure })},
	{fieldPath: "Notification.SlackChannels", keyPath: "notification.slackChannels", lastWins: true, value: leaf(func(c *Config) Optional[string] { return c.Notification.SlackChannels })},
	{fieldPath: "Notification.MsTeamsChannels", keyPath: "notification.msTeamsChannels", lastWins: true, value: leaf(func(c *Config) Optional[string] { return c.Notification.MsTeamsChannels })},
	{fieldPath: "Notification.Emails", keyPath: "notification.emails", lastWins: true, value: leaf(func(c *Config) Optional[string] { return c.Notification.Emails })},
	{fieldPath: "Milestone.ID", keyPath: "milestone.id", value: leaf(func(c *Config) Optional[int64] { return c.Milestone.ID })},
	{fieldPath: "Milestone.Name", keyPath: "milestone.name", value: leaf(func(c *Config) Optional[string] { return c.Milestone.Name })},
}
