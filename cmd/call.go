package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mygov_dao/contract"
	"mygov_dao/sdk"
)

func (c *cli) initCmd() *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the contract in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := openNode(c.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer n.Close()
			treasury, err := n.initialize(from)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "treasury %s\n", treasury)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "deployer address (default contract.deployer)")
	return cmd
}

func (c *cli) callCmd() *cobra.Command {
	var (
		from string
		at   int64
	)
	cmd := &cobra.Command{
		Use:   "call <action> [payload]",
		Short: "Run one entry point with a pipe separated payload",
		Example: `  mygov call faucet --from 0x2000000000000000000000000000000000000002
  mygov call vote "3|true" --from 0x2000000000000000000000000000000000000002`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := openNode(c.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer n.Close()
			sender, err := n.sender(from)
			if err != nil {
				return err
			}
			payload := ""
			if len(args) == 2 {
				payload = args[1]
			}
			res, err := n.dao.Call(sdk.NewEnv(sender, timestampOr(at)), args[0], payload)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "caller address (default contract.deployer)")
	cmd.Flags().Int64Var(&at, "at", 0, "block time in unix seconds (default now)")
	return cmd
}

func (c *cli) viewCmd() *cobra.Command {
	var at int64
	cmd := &cobra.Command{
		Use:   "view <name> [payload]",
		Short: "Print a read-only view as json",
		Example: `  mygov view stats
  mygov view balance "tl|0x2000000000000000000000000000000000000002"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := openNode(c.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer n.Close()
			payload := ""
			if len(args) == 2 {
				payload = args[1]
			}
			out, err := n.dao.Query(args[0], payload, timestampOr(at))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("encode view: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().Int64Var(&at, "at", 0, "evaluate time based state at this unix time (default now)")
	return cmd
}

func (c *cli) actionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the entry points call accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(contract.Actions(), "\n"))
			return nil
		},
	}
}

func timestampOr(at int64) int64 {
	if at != 0 {
		return at
	}
	return time.Now().Unix()
}
