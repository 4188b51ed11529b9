package domain

import "fmt"

// Source identifies which corpus a verse came from.
type Source string

const (
	SourceGita Source = "Gita"
	SourcePYS  Source = "PYS"
)

// ParseSource converts a wire-level source code into a Source.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceGita:
		return SourceGita, nil
	case SourcePYS:
		return SourcePYS, nil
	}
	return "", fmt.Errorf("%w: unknown source %q", ErrInvalidQuery, s)
}

// VerseRecord is one retrievable unit from a corpus. Text is the canonical
// string used for indexing and is never empty for an indexed record; the
// remaining fields are display-only. Chapter and Verse are nil when the
// source row carries no usable reference.
type VerseRecord struct {
	Source      Source   `json:"source"`
	Chapter     *float64 `json:"chapter"`
	Verse       *float64 `json:"verse"`
	Text        string   `json:"text"`
	Sanskrit    string   `json:"sanskrit,omitempty"`
	Translation string   `json:"translation,omitempty"`
	Concept     string   `json:"concept,omitempty"`
	Keyword     string   `json:"keyword,omitempty"`
}

// Reference renders a human-readable verse reference, e.g. "Gita 2.47".
// Records without both numbers render as the bare source name.
func (v VerseRecord) Reference() string {
	if v.Chapter != nil && v.Verse != nil {
		return fmt.Sprintf("%s %g.%g", v.Source, *v.Chapter, *v.Verse)
	}
	return string(v.Source)
}

// RetrievedVerse pairs a VerseRecord with its cosine similarity against a
// query. Scores are clamped to [0, 1].
type RetrievedVerse struct {
	VerseRecord
	SimilarityScore float64 `json:"similarity_score"`
}

// QueryResult is the packaged answer to one query. Summary is nil when the
// caller did not request one, when retrieval returned nothing, or when
// summarization failed and the result degraded to verses only.
type QueryResult struct {
	Query            string           `json:"query"`
	RetrievedVerses  []RetrievedVerse `json:"retrieved_verses"`
	Summary          *string          `json:"summary"`
	TotalResults     int              `json:"total_results"`
	ProcessingTimeMS float64          `json:"processing_time_ms"`
}

// SourceInfo describes one corpus for the sources endpoint.
type SourceInfo struct {
	Name        string `json:"name"`
	Code        Source `json:"code"`
	TotalVerses int    `json:"total_verses"`
	Chapters    int    `json:"chapters"`
	Description string `json:"description"`
}

// SourcesSummary aggregates SourceInfo across all loaded corpora.
type SourcesSummary struct {
	Sources     []SourceInfo `json:"sources"`
	TotalVerses int          `json:"total_verses"`
}
