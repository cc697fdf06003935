package agentconf

import (
	"github.com/Azhovan/agentconf/internal/normalize"
)

// normalizeConfig returns a copy of cfg where blank strings are unset.
// A nil record normalizes to an empty one.
func normalizeConfig(cfg *Config) Config {
	if cfg == nil {
		return Config{}
	}

	out := *cfg
	out.ProjectKey = text(out.ProjectKey)

	out.Server.Hostname = text(out.Server.Hostname)
	out.Server.AccessToken = text(out.Server.AccessToken)

	out.Run.DisplayName = text(out.Run.DisplayName)
	out.Run.Build = text(out.Run.Build)
	out.Run.Environment = text(out.Run.Environment)
	out.Run.Context = text(out.Run.Context)
	out.Run.TestCaseStatus.OnPass = text(out.Run.TestCaseStatus.OnPass)
	out.Run.TestCaseStatus.OnFail = text(out.Run.TestCaseStatus.OnFail)
	out.Run.TestCaseStatus.OnSkip = text(out.Run.TestCaseStatus.OnSkip)

	out.Notification.SlackChannels = text(out.Notification.SlackChannels)
	out.Notification.MsTeamsChannels = text(out.Notification.MsTeamsChannels)
	out.Notification.Emails = text(out.Notification.Emails)

	out.Milestone.Name = text(out.Milestone.Name)

	return out
}

// text unsets blank strings and drops values not marked as set.
func text(o Optional[string]) Optional[string] {
	if !o.Set || normalize.IsBlank(o.Value) {
		return Optional[string]{}
	}
	return o
}

// merge fills the unset leaves of acc from provided and returns the result.
// Set leaves of acc are kept, except the notification channels, which take
// any set value from provided.
func merge(acc, provided Config) Config {
	return Config{
		ReportingEnabled: acc.ReportingEnabled.Or(provided.ReportingEnabled),
		ProjectKey:       acc.ProjectKey.Or(provided.ProjectKey),
		Server: ServerConfig{
			Hostname:    acc.Server.Hostname.Or(provided.Server.Hostname),
			AccessToken: acc.Server.AccessToken.Or(provided.Server.AccessToken),
		},
		Run: RunConfig{
			DisplayName:                acc.Run.DisplayName.Or(provided.Run.DisplayName),
			Build:                      acc.Run.Build.Or(provided.Run.Build),
			Environment:                acc.Run.Environment.Or(provided.Run.Environment),
			Context:                    acc.Run.Context.Or(provided.Run.Context),
			RetryKnownIssues:           acc.Run.RetryKnownIssues.Or(provided.Run.RetryKnownIssues),
			SubstituteRemoteWebDrivers: acc.Run.SubstituteRemoteWebDrivers.Or(provided.Run.SubstituteRemoteWebDrivers),
			TreatSkipsAsFailures:       acc.Run.TreatSkipsAsFailures.Or(provided.Run.TreatSkipsAsFailures),
			TestCaseStatus: TestCaseStatus{
				OnPass: acc.Run.TestCaseStatus.OnPass.Or(provided.Run.TestCaseStatus.OnPass),
				OnFail: acc.Run.TestCaseStatus.OnFail.Or(provided.Run.TestCaseStatus.OnFail),
				OnSkip: acc.Run.TestCaseStatus.OnSkip.Or(provided.Run.TestCaseStatus.OnSkip),
			},
		},
		Notification: NotificationConfig{
			NotifyOnEachFailure: acc.Notification.NotifyOnEachFailure.Or(provided.Notification.NotifyOnEachFailure),
			SlackChannels:       provided.Notification.SlackChannels.Or(acc.Notification.SlackChannels),
			MsTeamsChannels:     provided.Notification.MsTeamsChannels.Or(acc.Notification.MsTeamsChannels),
			Emails:              provided.Notification.Emails.Or(acc.Notification.Emails),
		},
		Milestone: MilestoneConfig{
			ID:   acc.Milestone.ID.Or(provided.Milestone.ID),
			Name: acc.Milestone.Name.Or(provided.Milestone.Name),
		},
	}
}

// attribute records name as the source of every leaf that provided wins in
// the merge into before.
func attribute(sources map[string]string, before, provided *Config, name string) {
	for _, f := range fields {
		if _, ok := f.value(provided); !ok {
			continue
		}
		if _, wasSet := f.value(before); !wasSet || f.lastWins {
			sources[f.fieldPath] = name
		}
	}
}
