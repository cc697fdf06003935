package commands

import (
	"github.com/spf13/cobra"

	"github.com/Azhovan/agentconf"
)

var (
	printJSON    bool
	printSources bool
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration",
	Long: `Print the effective reporting agent configuration.
The access token is always redacted.`,
	Args: cobra.NoArgs,
	RunE: runPrint,
}

func init() {
	printCmd.Flags().BoolVar(&printJSON, "json", false, "Output as JSON")
	printCmd.Flags().BoolVar(&printSources, "sources", false, "Show which provider set each value")
}

func runPrint(cmd *cobra.Command, args []string) error {
	chain, err := buildChain(newLogger(cmd))
	if err != nil {
		return err
	}

	cfg, err := chain.Load(cmd.Context())
	if err != nil {
		return err
	}

	var opts []agentconf.DumpOption
	if printJSON {
		opts = append(opts, agentconf.AsJSON())
	}
	if printSources {
		opts = append(opts, agentconf.WithSources())
	}
	return agentconf.DumpEffective(cmd.OutOrStdout(), cfg, opts...)
}
