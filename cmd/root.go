package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "shelfscan",
		Short: "Turn bookshelf photos into catalog entries",
		Long: `Shelfscan reads a photo of a bookshelf, OCRs the spines, asks a
vision-capable model to reconstruct the books, and enriches each one with
bibliographic metadata from Simania, Google Books and Open Library.

It ships an HTTP API for the household catalog app and a CLI for running the
same pipeline against local files.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./shelfscan.yaml, ~/.shelfscan/shelfscan.yaml)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(&cfgFile))
	cmd.AddCommand(newDetectCmd(&cfgFile))
	cmd.AddCommand(newSearchCmd(&cfgFile))
	cmd.AddCommand(newEvalCmd())

	return cmd
}
