// Package cmd holds the mygov command line: the http node plus one-shot commands that run a
// single entry point against the configured store.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mygov_dao/internal/config"
)

// cli carries what the persistent flags resolved, shared by every subcommand.
type cli struct {
	configPath string
	cfg        config.Config
}

// NewRootCmd builds the command tree. Tests build a fresh one per run.
func NewRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "mygov",
		Short: "MyGov DAO node",
		Long: `mygov runs the MyGov governance engine.

  mygov serve                      http api on service.http_addr
  mygov init --from <deployer>     one-off contract initialization
  mygov call <action> [payload]    run one entry point, payloads are pipe separated
  mygov view <name> [payload]      read-only views`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "mygov.yaml", "config file, a missing file means defaults")

	root.AddCommand(
		c.serveCmd(),
		c.initCmd(),
		c.callCmd(),
		c.viewCmd(),
		c.actionsCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
