package ranking

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// tokenize lower-cases text and splits it into word tokens of at least two
// characters. A word character is a letter, a digit or an underscore.
func tokenize(text string) []string {
	text = strings.ToLower(text)

	var tokens []string
	start := -1
	runes := 0
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
				runes = 0
			}
			runes++
			continue
		}
		if start >= 0 && runes >= 2 {
			tokens = append(tokens, text[start:i])
		}
		start = -1
	}
	if start >= 0 && runes >= 2 {
		tokens = append(tokens, text[start:])
	}
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// vocabulary maps each distinct term of a corpus to a column index.
// Columns are assigned in lexical order so results never depend on map iteration.
type vocabulary struct {
	terms []string
	index map[string]int
}

func buildVocabulary(docs [][]string) *vocabulary {
	seen := make(map[string]struct{})
	for _, tokens := range docs {
		for _, tok := range tokens {
			seen[tok] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i
	}
	return &vocabulary{terms: terms, index: index}
}

// fitTransform computes L2-normalised TF-IDF vectors for every document of
// the corpus over the corpus's shared vocabulary, using smoothed IDF:
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// A document without tokens yields the zero vector.
func fitTransform(corpus []string) [][]float64 {
	docs := make([][]string, len(corpus))
	for i, text := range corpus {
		docs[i] = tokenize(text)
	}
	vocab := buildVocabulary(docs)

	counts := make([][]float64, len(docs))
	df := make([]float64, len(vocab.terms))
	for i, tokens := range docs {
		row := make([]float64, len(vocab.terms))
		for _, tok := range tokens {
			row[vocab.index[tok]]++
		}
		for col, c := range row {
			if c > 0 {
				df[col]++
			}
		}
		counts[i] = row
	}

	n := float64(len(docs))
	idf := make([]float64, len(df))
	for col, d := range df {
		idf[col] = math.Log((1+n)/(1+d)) + 1
	}

	for _, row := range counts {
		for col := range row {
			row[col] *= idf[col]
		}
		normalize(row)
	}
	return counts
}

// normalize scales v to unit length in place. Zero vectors are left unchanged.
func normalize(v []float64) {
	norm := l2(v)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

func l2(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// cosine returns the cosine similarity of two equal-length vectors, or 0
// when either has zero norm.
func cosine(a, b []float64) float64 {
	na, nb := l2(a), l2(b)
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (na * nb)
}
