package evalcmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/sifriya-app/shelfscan/internal/eval/metrics"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the eval report command.
func NewReportCmd() *cobra.Command {
	var resultsPath string
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report on a saved scoring run",
		Long: `Loads the JSON results of a previous eval run and prints a detailed
report. Mislabeled cases are listed individually so threshold changes can be
traced to the books they help or hurt.`,
		Example: `  # Human-readable report
  shelfscan eval report --results eval_results.json

  # CSV for a spreadsheet
  shelfscan eval report --results eval_results.json --format csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeReport(resultsPath, format)
		},
	}

	cmd.Flags().StringVar(&resultsPath, "results", "eval_results.json", "Path to saved JSON results")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, or csv)")

	return cmd
}

func executeReport(resultsPath, format string) error {
	agg, err := loadResults(resultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	switch format {
	case "text":
		return printTextReport(agg)
	case "json":
		return printJSONReport(agg)
	case "csv":
		return printCSVReport(agg)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func loadResults(path string) (*metrics.AggregateResults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var agg metrics.AggregateResults
	if err := json.Unmarshal(data, &agg); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}

	return &agg, nil
}

func printTextReport(agg *metrics.AggregateResults) error {
	agg.PrintSummary()

	fmt.Println("\nDetailed Results:")
	fmt.Println("========================================")

	for i, result := range agg.Results {
		fmt.Printf("\n[%d] Case: %s\n", i+1, result.ID)

		if result.Error != "" {
			fmt.Printf("  Error: %s\n", result.Error)
			continue
		}

		marker := "ok"
		if !result.IsCorrect() {
			marker = "MISMATCH"
		}
		fmt.Printf("  Score: %d\n", result.Score)
		fmt.Printf("  Tier: %s (labeled %s) %s\n", result.GotTier, result.WantTier, marker)

		if result.WantISBN != "" && result.PickedISBN != result.WantISBN {
			fmt.Printf("  Picked ISBN: %s (labeled %s)\n", result.PickedISBN, result.WantISBN)
		}
	}

	return nil
}

func printJSONReport(agg *metrics.AggregateResults) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(agg)
}

func printCSVReport(agg *metrics.AggregateResults) error {
	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	header := []string{"id", "score", "got_tier", "want_tier", "picked_isbn", "want_isbn", "correct", "error"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range agg.Results {
		row := []string{
			result.ID,
			strconv.Itoa(result.Score),
			result.GotTier,
			result.WantTier,
			result.PickedISBN,
			result.WantISBN,
			strconv.FormatBool(result.IsCorrect()),
			result.Error,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}
