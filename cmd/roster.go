package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/cabs/config"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Roster related commands",
}

var rosterLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the configured cabs and customers",
	RunE:  runRosterLs,
}

func init() {
	rosterCmd.AddCommand(rosterLsCmd)
	rootCmd.AddCommand(rosterCmd)
}

func runRosterLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	roster, err := config.LoadRoster(cfg.Fleet)
	if err != nil {
		return fmt.Errorf("roster: %w", err)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, id := range roster.Cabs {
		fmt.Fprintf(tw, "cab\t%s\t\n", id)
	}
	for _, c := range roster.Customers {
		fmt.Fprintf(tw, "customer\t%s\t%d\n", c.ID, c.Balance)
	}
	return tw.Flush()
}
