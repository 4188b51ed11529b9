// Package summarizer produces the bounded-length synthesis of retrieved
// verse context. The LLM implementation is the primary path; the frequency
// implementation keeps the service usable with no model endpoint.
package summarizer

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Frequency is an extractive summarizer ranking sentences by stopword-
// filtered token frequency, biased toward sentences sharing terms with the
// query. It needs no model and never fails.
type Frequency struct {
	tokenPattern *regexp.Regexp
	sentenceRe   *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewFrequency creates a frequency-based sentence ranker summarizer.
func NewFrequency() *Frequency {
	return &Frequency{
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe:   regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:    defaultStopwords(),
	}
}

// Summarize selects the highest-scoring sentences of the passage, in their
// original order, until the token budget is spent. At least one sentence is
// always returned for a non-empty passage.
func (s *Frequency) Summarize(_ context.Context, query, passage string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 150
	}
	sentences := s.sentenceRe.FindAllString(passage, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(passage)
		if trimmed == "" {
			return "", nil
		}
		sentences = []string{trimmed}
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	// Query terms count double so the summary stays on topic
	queryTokens := map[string]struct{}{}
	for _, tok := range s.tokens(query) {
		queryTokens[tok] = struct{}{}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		score := 0.0
		toks := s.tokens(sent)
		for _, tok := range toks {
			score += freq[tok]
			if _, ok := queryTokens[tok]; ok {
				score += freq[tok]
			}
		}
		if l := float64(len(toks)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	budget := maxTokens
	var selected []int
	for _, p := range scores {
		cost := len(strings.Fields(sentences[p.idx]))
		if len(selected) > 0 && cost > budget {
			continue
		}
		selected = append(selected, p.idx)
		budget -= cost
		if budget <= 0 {
			break
		}
	}
	sort.Ints(selected)

	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (s *Frequency) tokens(text string) []string {
	raw := s.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := s.stopwords[t]; isStop {
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
