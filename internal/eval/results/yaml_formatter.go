// Package results persists scoring runs as YAML files under evals/ so
// threshold changes can be diffed run over run.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sifriya-app/shelfscan/internal/eval/metrics"
	"gopkg.in/yaml.v3"
)

// EvalConfig represents the configuration section of the eval YAML
type EvalConfig struct {
	DatasetPath     string `yaml:"datasetpath"`
	SampleSize      int    `yaml:"samplesize"`
	MediumThreshold int    `yaml:"mediumthreshold"`
	HighThreshold   int    `yaml:"highthreshold"`
	Timestamp       string `yaml:"timestamp"`
}

// EvalResult represents a single scored case
type EvalResult struct {
	Identifier string `yaml:"identifier"`
	Score      int    `yaml:"score"`
	GotTier    string `yaml:"gottier"`
	WantTier   string `yaml:"wanttier"`
	PickedISBN string `yaml:"pickedisbn,omitempty"`
	WantISBN   string `yaml:"wantisbn,omitempty"`
	Correct    bool   `yaml:"correct"`
}

// EvalSpec represents the complete run record
type EvalSpec struct {
	Config  EvalConfig   `yaml:"config"`
	Results []EvalResult `yaml:"results"`
}

// SaveToYAML saves a scoring run to a YAML file in the evals/ directory.
// Failed cases are skipped; they carry no scoring outcome to record.
func SaveToYAML(agg *metrics.AggregateResults) error {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	spec := EvalSpec{
		Config: EvalConfig{
			DatasetPath:     agg.DatasetPath,
			SampleSize:      agg.SampleSize,
			MediumThreshold: agg.MediumThreshold,
			HighThreshold:   agg.HighThreshold,
			Timestamp:       timestamp,
		},
		Results: make([]EvalResult, 0, len(agg.Results)),
	}

	for _, r := range agg.Results {
		if r.Error != "" {
			continue
		}

		spec.Results = append(spec.Results, EvalResult{
			Identifier: r.ID,
			Score:      r.Score,
			GotTier:    r.GotTier,
			WantTier:   r.WantTier,
			PickedISBN: r.PickedISBN,
			WantISBN:   r.WantISBN,
			Correct:    r.IsCorrect(),
		})
	}

	filename := fmt.Sprintf("evals/match-%s.yaml", timestamp)

	data, err := yaml.Marshal(&spec)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("\nEvaluation results saved to: %s\n", absPath)

	return nil
}
