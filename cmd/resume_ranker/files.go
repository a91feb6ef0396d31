package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kirankm/resume-ranker/internal/ingestion"
	"golang.org/x/sync/errgroup"
)

// extractedFile is the extraction result for one input path.
type extractedFile struct {
	Path   string
	Name   string
	Result ingestion.Result
}

// extractFiles reads and extracts paths concurrently, at most limit at a
// time. Results keep input order. The first read or parse failure cancels
// the rest.
func extractFiles(ctx context.Context, paths []string, limit int) ([]extractedFile, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]extractedFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			name := filepath.Base(path)
			result := ingestion.Extract(data, name)
			if result.Kind == ingestion.KindFailed {
				return result.Err
			}
			results[i] = extractedFile{Path: path, Name: name, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(append(data, '\n'))
		return err
	}

	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
