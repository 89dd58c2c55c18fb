// Package metrics aggregates offline scoring runs into per-tier accuracy
// numbers used to judge threshold changes.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Tier names, in reporting order.
var tierOrder = []string{"high", "medium", "low"}

// CaseResult is the outcome of scoring one labeled match case.
type CaseResult struct {
	ID         string
	Score      int
	GotTier    string
	WantTier   string
	PickedISBN string
	WantISBN   string

	ProcessingTime time.Duration
	Error          string // If scoring failed
}

// IsCorrect reports whether the scorer produced the labeled outcome. When the
// label pins a specific ISBN, the scorer must also have picked that record.
func (r *CaseResult) IsCorrect() bool {
	if r.Error != "" {
		return false
	}
	if r.GotTier != r.WantTier {
		return false
	}
	if r.WantISBN != "" && r.PickedISBN != r.WantISBN {
		return false
	}
	return true
}

// TierStats contains statistics for one labeled tier.
type TierStats struct {
	Cases        int
	Correct      int
	AverageScore float64
	Scores       []int
}

// Accuracy is the fraction of this tier's cases the scorer got right.
func (s *TierStats) Accuracy() float64 {
	if s.Cases == 0 {
		return 0.0
	}
	return float64(s.Correct) / float64(s.Cases)
}

// AggregateResults represents aggregated scoring metrics for one run.
type AggregateResults struct {
	TotalCases   int
	SuccessCount int
	FailureCount int

	// Per-tier statistics, keyed by the labeled tier
	Tiers map[string]*TierStats

	// Confusion counts labeled tier -> produced tier
	Confusion map[string]map[string]int

	// Overall
	OverallAccuracy float64

	// Timing
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration

	// Detailed results
	Results []CaseResult

	// Metadata
	EvaluationDate  time.Time
	DatasetPath     string
	SampleSize      int
	MediumThreshold int
	HighThreshold   int
}

// AggregateCaseResults aggregates the results of one scoring run.
func AggregateCaseResults(results []CaseResult, datasetPath string, mediumThreshold, highThreshold int) *AggregateResults {
	agg := &AggregateResults{
		TotalCases:      len(results),
		Results:         results,
		EvaluationDate:  time.Now(),
		DatasetPath:     datasetPath,
		SampleSize:      len(results),
		MediumThreshold: mediumThreshold,
		HighThreshold:   highThreshold,
		Tiers:           make(map[string]*TierStats),
		Confusion:       make(map[string]map[string]int),
	}

	for _, tier := range tierOrder {
		agg.Tiers[tier] = &TierStats{Scores: []int{}}
		agg.Confusion[tier] = make(map[string]int)
	}

	correctTotal := 0
	var totalDuration time.Duration
	var successDuration time.Duration

	for _, result := range results {
		totalDuration += result.ProcessingTime

		if result.Error != "" {
			agg.FailureCount++
			continue
		}

		agg.SuccessCount++
		successDuration += result.ProcessingTime

		stats, ok := agg.Tiers[result.WantTier]
		if !ok {
			// Labeler typo lands in its own bucket rather than vanishing
			stats = &TierStats{Scores: []int{}}
			agg.Tiers[result.WantTier] = stats
			agg.Confusion[result.WantTier] = make(map[string]int)
		}

		stats.Cases++
		stats.Scores = append(stats.Scores, result.Score)
		agg.Confusion[result.WantTier][result.GotTier]++

		if result.IsCorrect() {
			stats.Correct++
			correctTotal++
		}
	}

	for _, stats := range agg.Tiers {
		stats.AverageScore = calculateAverage(stats.Scores)
	}

	if agg.SuccessCount > 0 {
		agg.OverallAccuracy = float64(correctTotal) / float64(agg.SuccessCount)
		agg.AverageProcessingTime = successDuration / time.Duration(agg.SuccessCount)
	}

	agg.TotalProcessingTime = totalDuration

	return agg
}

// calculateAverage calculates the average of a slice of scores
func calculateAverage(scores []int) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	sum := 0
	for _, score := range scores {
		sum += score
	}

	return float64(sum) / float64(len(scores))
}

// PrintSummary prints a human-readable summary of the run.
func (a *AggregateResults) PrintSummary() {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("SHELFSCAN MATCH SCORING SUMMARY")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Evaluation Date: %s\n", a.EvaluationDate.Format("2006-01-02 15:04:05"))
	fmt.Printf("Dataset: %s\n", a.DatasetPath)
	fmt.Printf("Sample Size: %d cases\n", a.SampleSize)
	fmt.Printf("Thresholds: medium >= %d, high >= %d\n", a.MediumThreshold, a.HighThreshold)
	fmt.Println()

	fmt.Println("PROCESSING STATISTICS")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Total Cases: %d\n", a.TotalCases)
	if a.TotalCases > 0 {
		fmt.Printf("Scored: %d (%.1f%%)\n", a.SuccessCount, float64(a.SuccessCount)/float64(a.TotalCases)*100)
		fmt.Printf("Failed: %d (%.1f%%)\n", a.FailureCount, float64(a.FailureCount)/float64(a.TotalCases)*100)
	}
	fmt.Printf("Average Processing Time: %s\n", a.AverageProcessingTime)
	fmt.Printf("Total Processing Time: %s\n", a.TotalProcessingTime)
	fmt.Println()

	fmt.Println("PER-TIER ACCURACY")
	fmt.Println(strings.Repeat("-", 70))
	for _, tier := range tierOrder {
		printTierStats(tier, a.Tiers[tier])
	}
	fmt.Println()

	fmt.Println("CONFUSION (labeled -> produced)")
	fmt.Println(strings.Repeat("-", 70))
	for _, want := range tierOrder {
		row := a.Confusion[want]
		fmt.Printf("  %-7s", want+":")
		for _, got := range tierOrder {
			fmt.Printf("  %s=%-4d", got, row[got])
		}
		fmt.Println()
	}
	fmt.Println()

	fmt.Println("OVERALL")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Overall Accuracy: %.2f%% (%.3f)\n", a.OverallAccuracy*100, a.OverallAccuracy)
	fmt.Println(strings.Repeat("=", 70))
}

// printTierStats prints statistics for a single tier
func printTierStats(tier string, stats *TierStats) {
	if stats == nil {
		return
	}
	fmt.Printf("\n%s:\n", tier)
	fmt.Printf("  Cases: %d\n", stats.Cases)
	fmt.Printf("  Correct: %d\n", stats.Correct)
	fmt.Printf("  Accuracy: %.2f%%\n", stats.Accuracy()*100)
	fmt.Printf("  Average Score: %.1f\n", stats.AverageScore)
}

// SaveToJSON saves the aggregate results to a JSON file
func (a *AggregateResults) SaveToJSON(filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(a); err != nil {
		return fmt.Errorf("failed to encode results to JSON: %w", err)
	}

	return nil
}
