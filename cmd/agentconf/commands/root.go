// Package commands provides the CLI commands for agentconf.
package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Azhovan/agentconf"
	"github.com/Azhovan/agentconf/internal/logging"
	"github.com/Azhovan/agentconf/providerenv"
	"github.com/Azhovan/agentconf/providerfile"
)

// Version information set at build time
var Version = "0.1.0"

// Global flags
var (
	logLevel   string
	prettyLogs bool
	envPrefix  string
	dotenvPath string
	filePath   string
	strictFile bool
)

var rootCmd = &cobra.Command{
	Use:   "agentconf",
	Short: "Inspect the test reporting agent configuration",
	Long: `agentconf assembles the reporting agent configuration the same way the agent
does: environment variables first, then the dotenv file, then the agent file.

Run 'agentconf print' to show the effective configuration, or 'agentconf check'
to verify that it is complete.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty", false, "Human-readable log output")
	rootCmd.PersistentFlags().StringVar(&envPrefix, "env-prefix", providerenv.DefaultPrefix, "Environment variable prefix")
	rootCmd.PersistentFlags().StringVar(&dotenvPath, "dotenv", ".env", "Dotenv file (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "Agent configuration file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().BoolVar(&strictFile, "strict", false, "Reject unknown keys in the agent file")

	rootCmd.SetVersionTemplate(fmt.Sprintf("agentconf %s\n", Version))

	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(checkCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the logger for chain diagnostics, written to the command's stderr.
func newLogger(cmd *cobra.Command) zerolog.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(logLevel)
	cfg.Output = cmd.ErrOrStderr()
	cfg.Pretty = prettyLogs
	return logging.New(cfg)
}

// buildChain assembles providers from the global flags, highest priority first.
func buildChain(logger zerolog.Logger) (*agentconf.Chain, error) {
	providers := []agentconf.Provider{
		providerenv.New(providerenv.Options{Prefix: envPrefix}),
	}
	if dotenvPath != "" {
		providers = append(providers, providerenv.NewDotenv(dotenvPath, providerenv.DotenvOptions{Prefix: envPrefix}))
	}
	if filePath != "" {
		providers = append(providers, providerfile.New(filePath, providerfile.Options{
			Required: true,
			Strict:   strictFile,
		}))
	}

	return agentconf.NewChain(providers, agentconf.WithLogger(logger))
}
