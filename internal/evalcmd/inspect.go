package evalcmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sifriya-app/shelfscan/internal/booksearch"
	"github.com/sifriya-app/shelfscan/internal/enrich"
	"github.com/sifriya-app/shelfscan/internal/eval/dataset"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the eval inspect command.
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int
	var interactive bool
	var showScores bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect labeled match cases",
		Long: `Prints cases from a parquet or jsonl match-case dataset.

Useful for checking what the labelers captured and, with --scores, for seeing
how the current weights rate each candidate of a case.`,
		Example: `  # Look at the first 5 cases, one at a time
  shelfscan eval inspect --dataset testdata/match_cases.jsonl --limit 5 --interactive

  # Rate every candidate with the current weights
  shelfscan eval inspect --dataset match_cases.parquet --scores

  # Inspect all cases (no limit)
  shelfscan eval inspect --dataset match_cases.parquet --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Cancel on Ctrl+C so interactive runs exit cleanly
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return executeInspect(ctx, datasetPath, limit, interactive, showScores)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to labeled match cases (.jsonl or .parquet)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of cases to inspect (0 for all)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pause after each case (press Enter to continue)")
	cmd.Flags().BoolVar(&showScores, "scores", false, "Rate each candidate with the current weights")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(ctx context.Context, datasetPath string, limit int, interactive, showScores bool) error {
	loader := dataset.NewLoader(datasetPath)

	var cases []dataset.MatchCase
	var err error
	if limit > 0 {
		cases, err = loader.LoadSample(limit)
	} else {
		cases, err = loader.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Printf("Loaded %d cases from %s\n", len(cases), datasetPath)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for i, c := range cases {
		// Bail out between cases when the run was interrupted
		select {
		case <-ctx.Done():
			fmt.Println("\nInspection interrupted.")
			return nil
		default:
		}

		fmt.Printf("CASE %d/%d  %s\n", i+1, len(cases), c.ID)
		fmt.Println(strings.Repeat("-", 80))

		fmt.Printf("Detected Title:  %s\n", c.DetectedTitle)
		if c.DetectedAuthor != "" {
			fmt.Printf("Detected Author: %s\n", c.DetectedAuthor)
		}
		if c.DetectedSeries != "" {
			fmt.Printf("Detected Series: %s", c.DetectedSeries)
			if c.DetectedSeriesNumber > 0 {
				fmt.Printf(" #%d", c.DetectedSeriesNumber)
			}
			fmt.Println()
		}
		fmt.Printf("Labeled Tier:    %s\n", c.WantTier)
		if c.WantISBN != "" {
			fmt.Printf("Labeled ISBN:    %s\n", c.WantISBN)
		}
		fmt.Println()

		book := c.DetectedBook()
		candidates := c.SearchResults()

		fmt.Printf("CANDIDATES (%d):\n", len(candidates))
		for j, cand := range candidates {
			line := fmt.Sprintf("  %d. [%s] %s", j+1, cand.Source, cand.Title)
			if cand.Author != "" {
				line += " / " + cand.Author
			}
			if cand.ISBN != "" {
				line += "  ISBN " + cand.ISBN
			}
			if showScores {
				line += fmt.Sprintf("  score=%d", booksearch.Score(book, cand))
			}
			fmt.Println(line)
		}

		if showScores {
			match, score := booksearch.BestMatch(book, candidates)
			enriched := enrich.Merge(book, match, score)
			verdict := fmt.Sprintf("score=%d tier=%s", score, enriched.Confidence)
			if string(enriched.Confidence) != c.WantTier {
				verdict += fmt.Sprintf("  (labeled %s)", c.WantTier)
			}
			fmt.Printf("\nVERDICT: %s\n", verdict)
		}

		fmt.Println()

		if interactive {
			fmt.Print("Press Enter for the next case (or Ctrl+C to quit)...")

			// Channel to signal user input
			inputCh := make(chan struct{})
			go func() {
				_, _ = reader.ReadString('\n')
				close(inputCh)
			}()

			// Wait for either Enter or Ctrl+C
			select {
			case <-ctx.Done():
				fmt.Println("\nInspection interrupted.")
				return nil
			case <-inputCh:
				fmt.Println()
			}
		} else {
			fmt.Println()
		}
	}

	return nil
}
