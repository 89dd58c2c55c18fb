package cmd

import (
	"github.com/sifriya-app/shelfscan/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Match scoring evaluation tools",
		Long: `Evaluation tools for the match scorer that decides how much to trust a
provider record.

Runs are fully offline: they replay labeled detection results and provider
candidates captured from real shelves, so scoring weights and confidence
thresholds can be tuned without burning API quota.`,
	}

	// Add eval subcommands
	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewReportCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())

	return cmd
}
