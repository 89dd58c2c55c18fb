package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sifriya-app/shelfscan/internal/config"
	"github.com/spf13/cobra"
)

func newDetectCmd(cfgFile *string) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "detect [image]",
		Short: "Detect books in a shelf photo",
		Long: `Runs the full detection pipeline against a local image file: OCR, book
extraction and metadata enrichment. Prints the detected books as JSON.`,
		Example: `  # Detect books in a photo
  shelfscan detect shelf.jpg

  # Save the result for later ingestion
  shelfscan detect shelf.jpg --output books.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgFile)
			if err != nil {
				return err
			}

			detector, err := buildDetector(cfg)
			if err != nil {
				return err
			}

			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			ctx := cmd.Context()
			if cfg.Server.DetectTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Server.DetectTimeout)
				defer cancel()
			}

			result, err := detector.Detect(ctx, image)
			if err != nil {
				return err
			}

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write JSON result to a file instead of stdout")

	return cmd
}
