package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Azhovan/agentconf"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the configuration can be assembled",
	Long: `Assemble the configuration and report whether it is usable.
Exits non-zero when reporting is enabled without a server hostname or access token.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	chain, err := buildChain(newLogger(cmd))
	if err != nil {
		return err
	}

	cfg, err := chain.Load(cmd.Context())
	if err != nil {
		return err
	}

	settings := agentconf.NewSettings(cfg)
	out := cmd.OutOrStdout()
	if !settings.Enabled() {
		fmt.Fprintf(out, "configuration ok: reporting disabled (project %s)\n", settings.ProjectKey())
		return nil
	}
	fmt.Fprintf(out, "configuration ok: reporting to %s (project %s)\n", settings.Host(), settings.ProjectKey())
	return nil
}
