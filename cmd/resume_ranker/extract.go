package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/kirankm/resume-ranker/internal/observability"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract plain text from PDF/DOCX resumes",
	Long:  "Extract the text of each file the same way uploads are processed and print one JSON record per file.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

var (
	extractOutput      string
	extractConcurrency int
	extractVerbose     bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Output file (default stdout)")
	extractCmd.Flags().IntVar(&extractConcurrency, "concurrency", 4, "Files extracted in parallel")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print a summary of each file to stderr")
	rootCmd.AddCommand(extractCmd)
}

// extractRecord is the JSON form of one extraction.
type extractRecord struct {
	Filename string `json:"filename"`
	Format   string `json:"format,omitempty"`
	Kind     string `json:"kind"`
	Text     string `json:"text"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	var summary io.Writer
	if extractVerbose {
		summary = cmd.ErrOrStderr()
	}
	data, err := extract(cmd.Context(), args, extractConcurrency, summary)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), extractOutput, data)
}

// extract returns the JSON records for paths. A non-nil summary receives a
// human-readable overview.
func extract(ctx context.Context, paths []string, concurrency int, summary io.Writer) ([]byte, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one file is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	files, err := extractFiles(ctx, paths, concurrency)
	if err != nil {
		return nil, err
	}

	records := make([]extractRecord, len(files))
	summaries := make([]observability.ExtractionSummary, len(files))
	for i, f := range files {
		records[i] = extractRecord{
			Filename: f.Name,
			Format:   string(f.Result.Format),
			Kind:     f.Result.Kind.String(),
			Text:     f.Result.Text,
		}
		summaries[i] = observability.ExtractionSummary{Filename: f.Name, Kind: records[i].Kind, Text: f.Result.Text}
	}
	if summary != nil {
		observability.NewPrinter(summary).PrintExtractions(summaries)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction results: %w", err)
	}
	return out, nil
}
