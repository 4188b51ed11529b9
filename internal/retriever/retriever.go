// Package retriever ranks corpus verses against a query by cosine
// similarity over the shared term index.
package retriever

import (
	"fmt"
	"sort"
	"strings"

	"gitarag/internal/domain"
	"gitarag/internal/index"
)

// Retriever scores queries against the fitted index. The records slice and
// the index rows stay in lock-step: same length, same order, for the
// lifetime of the process.
type Retriever struct {
	idx     *index.TermIndex
	records []domain.VerseRecord
	maxTopN int
}

// New creates a retriever over a built index and its row-aligned records.
func New(idx *index.TermIndex, records []domain.VerseRecord, maxTopN int) (*Retriever, error) {
	if idx == nil || idx.Rows() != len(records) {
		return nil, fmt.Errorf("index rows and record list out of step")
	}
	if maxTopN <= 0 {
		maxTopN = 20
	}
	return &Retriever{idx: idx, records: records, maxTopN: maxTopN}, nil
}

// Retrieve returns the topN best-matching verses, ranked by similarity
// descending with ties broken by original corpus position. A sourceFilter
// restricts the candidate pool before selection; when fewer candidates
// survive than topN, all survivors are returned. Zero-score verses appear
// only when no candidate matched at all, so a query made entirely of
// out-of-vocabulary terms yields verses with 0.0 scores, not an error.
func (r *Retriever) Retrieve(query string, topN int, sourceFilter []domain.Source) ([]domain.RetrievedVerse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", domain.ErrInvalidQuery)
	}
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", domain.ErrInvalidQuery, topN)
	}
	if topN > r.maxTopN {
		topN = r.maxTopN
	}

	allowed := allowedSet(sourceFilter)
	vec := r.idx.Project(strings.ToLower(query))

	type scored struct {
		pos   int
		score float64
	}
	candidates := make([]scored, 0, len(r.records))
	positive := 0
	for pos := range r.records {
		if allowed != nil {
			if _, ok := allowed[r.records[pos].Source]; !ok {
				continue
			}
		}
		score := clampScore(r.idx.Score(vec, pos))
		if score > 0 {
			positive++
		}
		candidates = append(candidates, scored{pos, score})
	}
	// Zero-score rows are only worth returning when nothing matched at all;
	// a query of purely out-of-vocabulary terms still gets verses back.
	if positive > 0 {
		kept := candidates[:0]
		for _, c := range candidates {
			if c.score > 0 {
				kept = append(kept, c)
			}
		}
		candidates = kept
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})
	if topN > len(candidates) {
		topN = len(candidates)
	}

	results := make([]domain.RetrievedVerse, 0, topN)
	for _, c := range candidates[:topN] {
		results = append(results, domain.RetrievedVerse{
			VerseRecord:     r.records[c.pos],
			SimilarityScore: c.score,
		})
	}
	return results, nil
}

// MaxTopN reports the configured selection ceiling.
func (r *Retriever) MaxTopN() int { return r.maxTopN }

func allowedSet(filter []domain.Source) map[domain.Source]struct{} {
	if len(filter) == 0 {
		return nil
	}
	set := make(map[domain.Source]struct{}, len(filter))
	for _, s := range filter {
		set[s] = struct{}{}
	}
	return set
}

// clampScore guards against floating-point overshoot past the cosine range.
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
