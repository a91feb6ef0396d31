// Package ranking ranks candidate resumes against a job description by lexical similarity.
package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

var (
	// ErrInvalidInput is the parent of every input error returned by this package.
	ErrInvalidInput = errors.New("invalid ranking input")
	// ErrEmptyJobDescription is returned when the reference text is empty.
	ErrEmptyJobDescription = fmt.Errorf("%w: job description is required", ErrInvalidInput)
	// ErrNoCandidates is returned when no candidate documents are supplied.
	ErrNoCandidates = fmt.Errorf("%w: at least one resume is required", ErrInvalidInput)
)

// RankedCandidate is one entry of a ranking result.
type RankedCandidate struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"` // percentage in [0, 100], two decimals
}

// Document is a candidate text with a caller-supplied label.
type Document struct {
	Name string
	Text string
}

// Rank scores each candidate against the job description and returns them
// sorted by descending score. Candidates are labelled "Candidate 1".."Candidate n"
// in input order; equal scores keep their input order.
func Rank(jobDescription string, candidates []string) ([]RankedCandidate, error) {
	docs := make([]Document, len(candidates))
	for i, text := range candidates {
		docs[i] = Document{Name: fmt.Sprintf("Candidate %d", i+1), Text: text}
	}
	return RankNamed(jobDescription, docs)
}

// RankNamed is Rank with explicit candidate labels.
func RankNamed(jobDescription string, docs []Document) ([]RankedCandidate, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}

	scores, err := Scores(jobDescription, texts)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedCandidate, len(docs))
	for i, d := range docs {
		ranked[i] = RankedCandidate{Name: d.Name, Score: toPercent(scores[i])}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}

// Scores returns the raw cosine similarity of every candidate to the job
// description, in input order. IDF is fitted on the job description plus the
// candidates of this call only, so values are not comparable across calls.
func Scores(jobDescription string, candidates []string) ([]float64, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	corpus := make([]string, 0, len(candidates)+1)
	corpus = append(corpus, jobDescription)
	corpus = append(corpus, candidates...)

	vectors := fitTransform(corpus)
	reference := vectors[0]

	scores := make([]float64, len(candidates))
	for i := range candidates {
		scores[i] = cosine(reference, vectors[i+1])
	}
	return scores, nil
}

// toPercent converts a similarity in [0,1] to a percentage rounded to two decimals.
func toPercent(similarity float64) float64 {
	pct := math.Round(similarity*100*100) / 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
