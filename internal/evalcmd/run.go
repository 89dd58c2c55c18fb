// Package evalcmd implements the eval subcommands: offline scoring runs over
// a labeled dataset and reports on saved runs.
package evalcmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/sifriya-app/shelfscan/internal/booksearch"
	"github.com/sifriya-app/shelfscan/internal/enrich"
	"github.com/sifriya-app/shelfscan/internal/eval/dataset"
	"github.com/sifriya-app/shelfscan/internal/eval/metrics"
	"github.com/sifriya-app/shelfscan/internal/eval/results"
	"github.com/spf13/cobra"
)

// NewRunCmd creates the eval run command.
func NewRunCmd() *cobra.Command {
	var datasetPath string
	var outputPath string
	var sampleSize int
	var concurrency int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score labeled match cases against the current thresholds",
		Long: `Runs the match scorer over a labeled dataset of detection results and
provider candidates, entirely offline. Each case records the tier a human
labeler assigned; the run reports how often the scorer agrees.

Use this before changing the scoring weights or tier thresholds.`,
		Example: `  # Score every case in the dataset
  shelfscan eval run --dataset testdata/match_cases.jsonl

  # Quick pass over the first 50 cases
  shelfscan eval run --dataset match_cases.parquet --sample 50`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(datasetPath); os.IsNotExist(err) {
				return fmt.Errorf("dataset file not found: %s", datasetPath)
			}
			return executeRun(datasetPath, outputPath, sampleSize, concurrency)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to labeled match cases (.jsonl or .parquet)")
	cmd.Flags().StringVar(&outputPath, "output", "eval_results.json", "Path to output JSON results file")
	cmd.Flags().IntVar(&sampleSize, "sample", -1, "Number of cases to score (-1 for all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Number of cases scored in parallel")

	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}

func executeRun(datasetPath, outputPath string, sampleSize, concurrency int) error {
	slog.Info("Starting scoring run", "dataset", datasetPath, "sample", sampleSize)

	loader := dataset.NewLoader(datasetPath)
	cases, err := loader.LoadSample(sampleSize)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	slog.Info("Dataset loaded", "cases", len(cases))

	if concurrency < 1 {
		concurrency = 1
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan metrics.CaseResult, len(cases))

	for i, c := range cases {
		wg.Add(1)
		go func(idx int, c dataset.MatchCase) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Debug("Scoring case", "id", c.ID, "progress", fmt.Sprintf("%d/%d", idx+1, len(cases)))

			resultsChan <- processCase(c)
		}(i, c)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	caseResults := make([]metrics.CaseResult, 0, len(cases))
	for result := range resultsChan {
		caseResults = append(caseResults, result)
	}

	// Completion order is nondeterministic; sort so runs stay diffable
	sort.Slice(caseResults, func(i, j int) bool {
		return caseResults[i].ID < caseResults[j].ID
	})

	agg := metrics.AggregateCaseResults(caseResults, datasetPath, enrich.MediumThreshold, enrich.HighThreshold)
	agg.PrintSummary()

	slog.Info("Saving results", "output", outputPath)
	if err := agg.SaveToJSON(outputPath); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	if err := results.SaveToYAML(agg); err != nil {
		return fmt.Errorf("failed to save YAML run record: %w", err)
	}

	fmt.Printf("\nGenerate detailed report with:\n")
	fmt.Printf("  shelfscan eval report --results %s\n", outputPath)

	return nil
}

// processCase scores one labeled case the same way the live pipeline would.
func processCase(c dataset.MatchCase) metrics.CaseResult {
	start := time.Now()

	result := metrics.CaseResult{
		ID:       c.ID,
		WantTier: c.WantTier,
		WantISBN: c.WantISBN,
	}

	if c.DetectedTitle == "" {
		result.Error = "case has no detected title"
		result.ProcessingTime = time.Since(start)
		return result
	}

	book := c.DetectedBook()
	match, score := booksearch.BestMatch(book, c.SearchResults())
	enriched := enrich.Merge(book, match, score)

	result.Score = score
	result.GotTier = string(enriched.Confidence)
	if match != nil {
		result.PickedISBN = match.ISBN
	}
	result.ProcessingTime = time.Since(start)

	return result
}
