package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Loader reads match cases from a dataset file.
type Loader struct {
	datasetPath string
}

// NewLoader creates a loader for the given dataset file.
func NewLoader(datasetPath string) *Loader {
	return &Loader{
		datasetPath: datasetPath,
	}
}

// Load reads every case from the dataset (JSONL or Parquet).
func (l *Loader) Load() ([]MatchCase, error) {
	return l.LoadSample(-1)
}

// LoadSample reads at most limit cases, or all of them when limit is
// negative.
func (l *Loader) LoadSample(limit int) ([]MatchCase, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))

	switch ext {
	case ".parquet":
		return l.loadParquet(limit)
	case ".jsonl", ".json":
		return l.loadJSONL(limit)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}
}

// loadJSONL reads cases from a JSONL file, one case per line.
func (l *Loader) loadJSONL(limit int) ([]MatchCase, error) {
	slog.Debug("Opening JSONL dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var cases []MatchCase
	scanner := bufio.NewScanner(file)

	// Cases with long descriptions can exceed the default line buffer
	const maxCapacity = 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		if limit >= 0 && len(cases) >= limit {
			break
		}
		lineNum++
		line := scanner.Bytes()

		if len(line) == 0 {
			continue
		}

		var c MatchCase
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("failed to parse JSON at line %d: %w", lineNum, err)
		}

		cases = append(cases, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}

	slog.Debug("Finished reading JSONL dataset", "total_cases", len(cases), "total_lines", lineNum)

	return cases, nil
}

// loadParquet reads cases from a Parquet file.
func (l *Loader) loadParquet(limit int) ([]MatchCase, error) {
	slog.Debug("Opening Parquet dataset", "path", l.datasetPath)

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet dataset opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[MatchCase](pf)
	defer reader.Close()

	var cases []MatchCase
	rows := make([]MatchCase, 128)

	for limit < 0 || len(cases) < limit {
		n, err := reader.Read(rows)
		if n > 0 {
			if limit >= 0 {
				if remaining := limit - len(cases); n > remaining {
					n = remaining
				}
			}
			cases = append(cases, rows[:n]...)
		}
		if err != nil {
			break
		}
	}

	slog.Debug("Finished reading Parquet dataset", "total_cases", len(cases))

	return cases, nil
}
