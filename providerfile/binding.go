package providerfile

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Azhovan/agentconf"
	"github.com/Azhovan/agentconf/internal/normalize"
)

// setter stores a raw file value into cfg.
type setter func(cfg *agentconf.Config, value any) error

// bindings maps canonical keys (relative to the root) to setters.
var bindings = map[string]setter{
	"enabled":                          boolField(func(c *agentconf.Config) *agentconf.Optional[bool] { return &c.ReportingEnabled }),
	"projectkey":                       stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.ProjectKey }),
	"server.hostname":                  stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Server.Hostname }),
	"server.accesstoken":               stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Server.AccessToken }),
	"run.displayname":                  stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Run.DisplayName }),
	"run.build":                        stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Run.Build }),
	"run.environment":                  stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Run.Environment }),
	"run.context":                      stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Run.Context }),
	"run.retryknownissues":             boolField(func(c *agentconf.Config) *agentconf.Optional[bool] { return &c.Run.RetryKnownIssues }),
	"run.substituteremotewebdrivers":   boolField(func(c *agentconf.Config) *agentconf.Optional[bool] { return &c.Run.SubstituteRemoteWebDrivers }),
	"run.treatskipsasfailures":         boolField(func(c *agentconf.Config) *agentconf.Optional[bool] { return &c.Run.TreatSkipsAsFailures }),
	"run.testcasestatus.onpass":        stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Run.TestCaseStatus.OnPass }),
	"run.testcasestatus.onfail":        stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Run.TestCaseStatus.OnFail }),
	"run.testcasestatus.onskip":        stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Run.TestCaseStatus.OnSkip }),
	"notification.notifyoneachfailure": boolField(func(c *agentconf.Config) *agentconf.Optional[bool] { return &c.Notification.NotifyOnEachFailure }),
	"notification.slackchannels":       stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Notification.SlackChannels }),
	"notification.msteamschannels":     stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Notification.MsTeamsChannels }),
	"notification.emails":              stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Notification.Emails }),
	"milestone.id":                     intField(func(c *agentconf.Config) *agentconf.Optional[int64] { return &c.Milestone.ID }),
	"milestone.name":                   stringField(func(c *agentconf.Config) *agentconf.Optional[string] { return &c.Milestone.Name }),
}

// bind converts flattened keys under root into a configuration.
func bind(flattened map[string]any, root string, strict bool) (*agentconf.Config, error) {
	prefix := normalize.CanonicalKey(root) + "."

	// Sorted for deterministic error reporting
	keys := make([]string, 0, len(flattened))
	for key := range flattened {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	cfg := &agentconf.Config{}
	var unknown []string
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		relative := strings.TrimPrefix(key, prefix)

		set, ok := bindings[relative]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if err := set(cfg, flattened[key]); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", agentconf.ErrMalformed, key, err)
		}
	}

	if strict && len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown configuration keys: %s", agentconf.ErrMalformed, strings.Join(unknown, ", "))
	}

	return cfg, nil
}

func stringField(target func(*agentconf.Config) *agentconf.Optional[string]) setter {
	return func(cfg *agentconf.Config, value any) error {
		s, ok, err := toString(value)
		if err != nil || !ok {
			return err
		}
		*target(cfg) = agentconf.Of(s)
		return nil
	}
}

func boolField(target func(*agentconf.Config) *agentconf.Optional[bool]) setter {
	return func(cfg *agentconf.Config, value any) error {
		var b, ok bool
		var err error
		switch v := value.(type) {
		case nil:
			return nil
		case bool:
			b, ok = v, true
		case string:
			b, ok, err = normalize.ParseBool(v)
		default:
			err = fmt.Errorf("expected boolean, got %T", value)
		}
		if err != nil || !ok {
			return err
		}
		*target(cfg) = agentconf.Of(b)
		return nil
	}
}

func intField(target func(*agentconf.Config) *agentconf.Optional[int64]) setter {
	return func(cfg *agentconf.Config, value any) error {
		var n int64
		ok := true
		var err error
		switch v := value.(type) {
		case nil:
			return nil
		case int:
			n = int64(v)
		case int64:
			n = v
		case uint64:
			if v > math.MaxInt64 {
				return fmt.Errorf("integer %d out of range", v)
			}
			n = int64(v)
		case float64:
			// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
			if v != math.Trunc(v) || v >= math.MaxInt64 || v < math.MinInt64 {
				return fmt.Errorf("expected integer in int64 range, got %v", v)
			}
			n = int64(v)
		case json.Number:
			n, ok, err = normalize.ParseInt(v.String())
		case string:
			n, ok, err = normalize.ParseInt(v)
		default:
			err = fmt.Errorf("expected integer, got %T", value)
		}
		if err != nil || !ok {
			return err
		}
		*target(cfg) = agentconf.Of(n)
		return nil
	}
}

// toString renders scalars as text and joins lists with commas.
func toString(value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case bool:
		return strconv.FormatBool(v), true, nil
	case int:
		return strconv.Itoa(v), true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case uint64:
		return strconv.FormatUint(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok, err := toString(item)
			if err != nil {
				return "", false, err
			}
			if ok {
				items = append(items, s)
			}
		}
		return strings.Join(items, ","), len(items) > 0, nil
	case fmt.Stringer:
		return v.String(), true, nil
	default:
		return "", false, fmt.Errorf("expected text, got %T", value)
	}
}
