package providerenv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/Azhovan/agentconf"
	"github.com/joho/godotenv"
)

// DotenvOptions configures dotenv file provider behavior.
type DotenvOptions struct {
	// Prefix for all variables. Empty = DefaultPrefix.
	Prefix string

	// Required: if true, a missing file is an error. Default: false (empty configuration).
	Required bool
}

type dotenvProvider struct {
	path string
	opts DotenvOptions
}

// NewDotenv creates a provider reading REPORTING_* variables from a dotenv file.
// The process environment is not consulted.
func NewDotenv(path string, opts DotenvOptions) agentconf.Provider {
	return &dotenvProvider{path: path, opts: opts}
}

// Load parses the dotenv file and binds its variables.
func (d *dotenvProvider) Load(ctx context.Context) (*agentconf.Config, error) {
	environment, err := godotenv.Read(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if d.opts.Required {
				return nil, fmt.Errorf("required dotenv file not found: %s: %w", d.path, err)
			}
			return &agentconf.Config{}, nil
		}
		return nil, fmt.Errorf("%w: parse dotenv file %s: %w", agentconf.ErrMalformed, d.path, err)
	}

	return bind(environment, d.opts.Prefix)
}

// Name returns "dotenv:<file name>".
func (d *dotenvProvider) Name() string {
	return "dotenv:" + filepath.Base(d.path)
}

// Kind returns agentconf.KindDotenv.
func (d *dotenvProvider) Kind() agentconf.Kind {
	return agentconf.KindDotenv
}
