package normalize

import (
	"strings"
)

// ToLowerDotPath normalizes a configuration key to a lowercase dot-separated path.
// Double underscores (__) are treated as level separators and converted to dots.
// Examples:
//   - "REPORTING__SERVER__HOSTNAME" → "reporting.server.hostname"
//   - "Run.Display-Name" → "run.display-name"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// CanonicalKey reduces a dot-separated key to a form where case, hyphens and
// underscores inside a level do not matter.
// Examples:
//   - "server.access-token" → "server.accesstoken"
//   - "Server.ACCESS_TOKEN" → "server.accesstoken"
//   - "server.accessToken" → "server.accesstoken"
func CanonicalKey(key string) string {
	key = ToLowerDotPath(key)
	return strings.NewReplacer("-", "", "_", "").Replace(key)
}

// ApplyPrefix combines a prefix with a key to create a nested configuration path.
// Examples:
//   - ApplyPrefix("reporting", "server") → "reporting.server"
//   - ApplyPrefix("", "server") → "server"
func ApplyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}
