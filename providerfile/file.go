package providerfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/agentconf"
	"github.com/Azhovan/agentconf/internal/normalize"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultRoot is the top-level key holding agent settings.
const DefaultRoot = "reporting"

// Options configures file provider behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (empty configuration).
	Required bool

	// Root is the key under which settings live. Empty = DefaultRoot.
	// Keys outside the root are ignored.
	Root string

	// Strict: if true, unknown keys under the root make the file malformed.
	Strict bool
}

type fileProvider struct {
	path string
	opts Options
}

// New creates a file-based configuration provider.
func New(path string, opts Options) agentconf.Provider {
	return &fileProvider{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file and binds keys under the root.
func (f *fileProvider) Load(ctx context.Context) (*agentconf.Config, error) {
	flattened, err := f.read()
	if err != nil {
		return nil, err
	}
	if flattened == nil {
		return &agentconf.Config{}, nil
	}

	root := f.opts.Root
	if root == "" {
		root = DefaultRoot
	}
	return bind(flattened, root, f.opts.Strict)
}

// Name returns "file:<file name>".
func (f *fileProvider) Name() string {
	return "file:" + filepath.Base(f.path)
}

// Kind returns agentconf.KindFile.
func (f *fileProvider) Kind() agentconf.Kind {
	return agentconf.KindFile
}

// read parses the file into flattened, normalized keys.
// Returns nil without error for a missing optional file.
func (f *fileProvider) read() (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if f.opts.Required {
				return nil, fmt.Errorf("required config file not found: %s: %w", f.path, err)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read config file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parse YAML file %s: %w", agentconf.ErrMalformed, f.path, err)
		}
	case "json":
		if err := decodeJSON(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parse JSON file %s: %w", agentconf.ErrMalformed, f.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parse TOML file %s: %w", agentconf.ErrMalformed, f.path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	flattened := make(map[string]any)
	flattenMap("", raw, flattened)
	return flattened, nil
}

// decodeJSON keeps numbers as json.Number so integers beyond 2^53 stay exact.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

// flattenMap recursively flattens nested maps to canonical dot-separated keys.
func flattenMap(prefix string, value any, result map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flattenMap(normalize.ApplyPrefix(prefix, normalize.CanonicalKey(key)), val, result)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flattenMap(normalize.ApplyPrefix(prefix, normalize.CanonicalKey(keyStr)), val, result)
		}
	default:
		if prefix != "" {
			result[prefix] = value
		}
	}
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
