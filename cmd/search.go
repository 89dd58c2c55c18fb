package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/sifriya-app/shelfscan/internal/booksearch"
	"github.com/sifriya-app/shelfscan/internal/config"
	"github.com/sifriya-app/shelfscan/internal/models"
	"github.com/spf13/cobra"
)

func newSearchCmd(cfgFile *string) *cobra.Command {
	var source string
	var maxResults int

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search the bibliographic providers directly",
		Long: `Queries the configured metadata providers and prints the raw results as
JSON. Useful for checking what a provider knows about a title before digging
into a low-confidence detection.`,
		Example: `  # Search providers in priority order, first hit wins
  shelfscan search הארי פוטר

  # Query a single provider with a wider result set
  shelfscan search --source google_books --max 10 "The Hobbit"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}

			aggregator := buildAggregator(cfg)
			query := strings.Join(args, " ")

			results := aggregator.Search(cmd.Context(), query, source, maxResults)
			if results == nil {
				results = []models.SearchResult{}
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(results)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", booksearch.SourceAuto, "Provider to query: auto, simania, google_books or open_library")
	cmd.Flags().IntVarP(&maxResults, "max", "m", 0, "Maximum results per provider (default 5)")

	return cmd
}
