package agentconf

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	redacted = "***redacted***"
	notSet   = "<not set>"
)

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for DumpEffective.
type dumpConfig struct {
	withSources bool   // Include source attribution for each field
	asJSON      bool   // Output as JSON instead of text format
	indent      string // Indentation for JSON output (default: "  ")
}

// WithSources includes source attribution for each field in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs configuration as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// DumpEffective writes a human-readable representation of the configuration.
// The access token is redacted as "***redacted***".
func DumpEffective(w io.Writer, cfg *Config, opts ...DumpOption) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	sources := make(map[string]string)
	if prov, ok := GetProvenance(cfg); ok {
		for _, fp := range prov.Fields {
			sources[fp.FieldPath] = fp.SourceName
		}
	}

	if config.asJSON {
		return dumpAsJSON(w, cfg, sources, config)
	}
	return dumpAsText(w, cfg, sources, config)
}

// dumpAsText outputs configuration in text format (key: value).
func dumpAsText(w io.Writer, cfg *Config, sources map[string]string, config dumpConfig) error {
	for _, f := range fields {
		line := fmt.Sprintf("%s: %s", f.keyPath, formatText(f, cfg))
		if source := sources[f.fieldPath]; config.withSources && source != "" {
			line += fmt.Sprintf(" (source: %s)", source)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// dumpAsJSON outputs configuration as nested JSON objects.
// With sources, each leaf becomes {"value": ..., "source": ...}.
func dumpAsJSON(w io.Writer, cfg *Config, sources map[string]string, config dumpConfig) error {
	result := make(map[string]any)
	for _, f := range fields {
		var value any = formatJSON(f, cfg)
		if config.withSources {
			value = map[string]any{"value": value, "source": sources[f.fieldPath]}
		}
		insertPath(result, strings.Split(f.keyPath, "."), value)
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// insertPath stores value under the nested keys of path.
func insertPath(m map[string]any, path []string, value any) {
	for _, key := range path[:len(path)-1] {
		next, ok := m[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[key] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}

// formatText formats a leaf for text output.
func formatText(f field, cfg *Config) string {
	value, ok := f.value(cfg)
	switch {
	case !ok:
		return notSet
	case f.secret:
		return redacted
	}

	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// formatJSON formats a leaf for JSON output; unset leaves become null.
func formatJSON(f field, cfg *Config) any {
	value, ok := f.value(cfg)
	switch {
	case !ok:
		return nil
	case f.secret:
		return redacted
	}
	return value
}
