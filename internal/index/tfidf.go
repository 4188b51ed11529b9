// Package index builds the query-independent TF-IDF artifact over the
// corpus. A TermIndex is fitted once at startup and read-only afterward, so
// concurrent queries share it without locking.
package index

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gitarag/internal/domain"
)

// Vector is a sparse term-weight vector keyed by vocabulary column.
type Vector map[int]float64

// TermIndex holds the fitted vocabulary and one L2-normalized weight row per
// verse record, row-aligned with the record list it was built from.
type TermIndex struct {
	vocabulary   map[string]int
	idf          []float64
	rows         []Vector
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// Build fits the vocabulary and IDF values over all record texts and weighs
// every row. The fit is deterministic: vocabulary columns follow sorted term
// order. An empty record sequence is a fatal configuration error.
func Build(records []domain.VerseRecord) (*TermIndex, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: cannot build index", domain.ErrEmptyCorpus)
	}
	idx := &TermIndex{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}

	// Document frequencies over the whole corpus
	df := make(map[string]int)
	for _, rec := range records {
		seen := make(map[string]struct{})
		for _, tok := range idx.tokenize(rec.Text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: no indexable tokens in corpus", domain.ErrEmptyCorpus)
	}

	idx.vocabulary = make(map[string]int, len(terms))
	idx.idf = make([]float64, len(terms))
	n := float64(len(records))
	for i, term := range terms {
		idx.vocabulary[term] = i
		// Smoothed IDF keeps corpus-wide terms finite and positive
		idx.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	idx.rows = make([]Vector, len(records))
	for i, rec := range records {
		idx.rows[i] = idx.vectorize(rec.Text)
	}
	return idx, nil
}

// Project maps a query into the fitted term space. Out-of-vocabulary terms
// contribute nothing; a query of only unknown words projects to the zero
// vector, which is valid input for scoring.
func (x *TermIndex) Project(query string) Vector {
	return x.vectorize(query)
}

// Rows returns the number of weight rows, equal to the record count the
// index was built from.
func (x *TermIndex) Rows() int { return len(x.rows) }

// Dimension returns the fitted vocabulary size.
func (x *TermIndex) Dimension() int { return len(x.idf) }

// Score computes the cosine similarity between a projected query vector and
// row i. All rows are unit-length, so this reduces to a sparse dot product.
func (x *TermIndex) Score(query Vector, i int) float64 {
	row := x.rows[i]
	if len(query) > len(row) {
		query, row = row, query
	}
	sum := 0.0
	for col, w := range query {
		sum += w * row[col]
	}
	return sum
}

// vectorize computes the L2-normalized TF-IDF vector of a text: raw term
// counts scaled by IDF, then unit-normalized so cosine similarity is a dot
// product.
func (x *TermIndex) vectorize(text string) Vector {
	vec := Vector{}
	for _, tok := range x.tokenize(text) {
		if col, ok := x.vocabulary[tok]; ok {
			vec[col]++
		}
	}
	norm := 0.0
	for col := range vec {
		vec[col] *= x.idf[col]
		norm += vec[col] * vec[col]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range vec {
			vec[col] /= norm
		}
	}
	return vec
}

func (x *TermIndex) tokenize(text string) []string {
	raw := x.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := x.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
