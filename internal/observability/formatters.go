// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kirankm/resume-ranker/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = clip(line, boxWidth-4)
		pad := boxWidth - 4 - utf8.RuneCountInString(line)
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", pad))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most width runes, marking the cut with "...".
func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// firstLine returns the first non-empty line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// PrintRanking outputs the job description and the top ranked candidates.
func (p *Printer) PrintRanking(jobDescription string, ranked []types.RankedCandidate) {
	if len(ranked) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job: %s\n", firstLine(jobDescription)))
	sb.WriteString(fmt.Sprintf("Candidates ranked: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := ranked[i]
		sb.WriteString(fmt.Sprintf("#%d  %-38s %6.2f%%\n", i+1, clip(c.Name, 38), c.Score))
	}
	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates\n", len(ranked)-maxItemsToShow))
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// ExtractionSummary describes one extracted file.
type ExtractionSummary struct {
	Filename string
	Kind     string
	Text     string
}

// PrintExtractions outputs one line per file with its outcome and the start
// of its text.
func (p *Printer) PrintExtractions(files []ExtractionSummary) {
	if len(files) == 0 {
		return
	}

	var sb strings.Builder
	for i, f := range files {
		sb.WriteString(fmt.Sprintf("%s [%s] %d chars\n", f.Filename, f.Kind, utf8.RuneCountInString(f.Text)))
		if line := firstLine(f.Text); line != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", line))
		}
		if i < len(files)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EXTRACTED RESUMES", strings.TrimSuffix(sb.String(), "\n"))
}
