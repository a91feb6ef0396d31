package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kirankm/resume-ranker/internal/ingestion"
	"github.com/kirankm/resume-ranker/internal/observability"
	"github.com/kirankm/resume-ranker/internal/ranking"
	"github.com/kirankm/resume-ranker/internal/schemas"
	"github.com/kirankm/resume-ranker/internal/types"
	schemafiles "github.com/kirankm/resume-ranker/schemas"
	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [resume files...]",
	Short: "Rank resumes against a job description",
	Long: `Rank resume files (PDF/DOCX) or a RankRequest JSON file against a job
description using TF-IDF cosine similarity. Files are labelled by name,
request entries as "Candidate 1".."Candidate n". Output is a RankResult JSON
sorted by descending score, or raw similarities in input order with --raw.`,
	RunE: runRank,
}

var (
	rankJobDescription string
	rankJobFile        string
	rankRequestFile    string
	rankOutput         string
	rankRaw            bool
	rankVerbose        bool
	rankConcurrency    int
)

func init() {
	rankCmd.Flags().StringVarP(&rankJobDescription, "job-description", "j", "", "Job description text")
	rankCmd.Flags().StringVar(&rankJobFile, "job-file", "", "Path to a plain-text job description")
	rankCmd.Flags().StringVarP(&rankRequestFile, "request", "r", "", "Path to a RankRequest JSON file")
	rankCmd.Flags().StringVarP(&rankOutput, "out", "o", "", "Output file (default stdout)")
	rankCmd.Flags().BoolVar(&rankRaw, "raw", false, "Print raw cosine similarities in input order")
	rankCmd.Flags().BoolVarP(&rankVerbose, "verbose", "v", false, "Print a summary of the ranking to stderr")
	rankCmd.Flags().IntVar(&rankConcurrency, "concurrency", 4, "Files extracted in parallel")

	rankCmd.MarkFlagsMutuallyExclusive("job-description", "job-file", "request")
	rootCmd.AddCommand(rankCmd)
}

type rankOptions struct {
	JobDescription string
	JobFile        string
	RequestFile    string
	Files          []string
	Raw            bool
	Verbose        bool
	Concurrency    int
}

// rawScore is one line of --raw output.
type rawScore struct {
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

func runRank(cmd *cobra.Command, args []string) error {
	opts := rankOptions{
		JobDescription: rankJobDescription,
		JobFile:        rankJobFile,
		RequestFile:    rankRequestFile,
		Files:          args,
		Raw:            rankRaw,
		Verbose:        rankVerbose,
		Concurrency:    rankConcurrency,
	}

	output, err := rank(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), rankOutput, output)
}

// rank builds the documents described by opts and returns the JSON output.
// Warnings and the verbose summary go to warn.
func rank(ctx context.Context, opts rankOptions, warn io.Writer) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	jobDescription, docs, err := loadRankInput(ctx, opts, warn)
	if err != nil {
		return nil, err
	}

	if opts.Raw {
		texts := make([]string, len(docs))
		for i, d := range docs {
			texts[i] = d.Text
		}
		scores, err := ranking.Scores(jobDescription, texts)
		if err != nil {
			return nil, err
		}
		raw := make([]rawScore, len(docs))
		for i, d := range docs {
			raw[i] = rawScore{Name: d.Name, Similarity: scores[i]}
		}
		return json.MarshalIndent(raw, "", "  ")
	}

	ranked, err := ranking.RankNamed(jobDescription, docs)
	if err != nil {
		return nil, err
	}
	resp := types.RankResponse{RankedCandidates: make([]types.RankedCandidate, 0, len(ranked))}
	for _, c := range ranked {
		resp.RankedCandidates = append(resp.RankedCandidates, types.RankedCandidate{Name: c.Name, Score: c.Score})
	}
	if opts.Verbose {
		observability.NewPrinter(warn).PrintRanking(jobDescription, resp.RankedCandidates)
	}

	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ranking: %w", err)
	}

	// Output validation is a safety check, not a requirement
	if err := schemas.Validate(schemafiles.RankResult, data); err != nil {
		_, _ = fmt.Fprintf(warn, "Warning: Output validation failed: %v\n", err)
	}
	return data, nil
}

func loadRankInput(ctx context.Context, opts rankOptions, warn io.Writer) (string, []ranking.Document, error) {
	if opts.RequestFile != "" {
		if len(opts.Files) > 0 {
			return "", nil, errors.New("resume files cannot be combined with --request")
		}
		return loadRankRequest(opts.RequestFile)
	}

	jobDescription := opts.JobDescription
	if opts.JobFile != "" {
		data, err := os.ReadFile(opts.JobFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read job description file %s: %w", opts.JobFile, err)
		}
		jobDescription = string(data)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return "", nil, errors.New("a job description is required (--job-description, --job-file or --request)")
	}
	if len(opts.Files) == 0 {
		return "", nil, errors.New("at least one resume file is required")
	}

	files, err := extractFiles(ctx, opts.Files, opts.Concurrency)
	if err != nil {
		return "", nil, err
	}

	docs := make([]ranking.Document, len(files))
	for i, f := range files {
		if f.Result.Kind == ingestion.KindUnsupported {
			_, _ = fmt.Fprintf(warn, "Warning: %s is not a PDF or DOCX file; it scores as %q\n", f.Path, f.Result.Text)
		}
		docs[i] = ranking.Document{Name: f.Name, Text: f.Result.Text}
	}
	return jobDescription, docs, nil
}

// loadRankRequest reads and schema-validates a RankRequest file.
func loadRankRequest(path string) (string, []ranking.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read request file %s: %w", path, err)
	}
	if err := schemas.Validate(schemafiles.RankRequest, data); err != nil {
		return "", nil, fmt.Errorf("invalid request file %s: %w", path, err)
	}

	var req types.RankRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", nil, fmt.Errorf("failed to unmarshal request JSON: %w", err)
	}

	docs := make([]ranking.Document, len(req.Resumes))
	for i, text := range req.Resumes {
		docs[i] = ranking.Document{Name: fmt.Sprintf("Candidate %d", i+1), Text: text}
	}
	return req.JobDescription, docs, nil
}
