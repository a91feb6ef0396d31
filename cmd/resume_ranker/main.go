// Package main provides the resume_ranker CLI: the HTTP API server plus
// offline extraction, ranking and schema validation commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_ranker",
	Short: "Resume Ranker HTTP API server and tools",
	Long:  "Resume Ranker stores uploaded PDF/DOCX resumes, extracts their text and ranks them against a job description by TF-IDF cosine similarity.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
