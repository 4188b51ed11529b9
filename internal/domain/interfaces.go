package domain

import "context"

// Summarizer produces a bounded-length synthesis of retrieved context,
// conditioned on the original query. Implementations are stateless per
// invocation and safe for concurrent use.
type Summarizer interface {
	Summarize(ctx context.Context, query, passage string, maxTokens int) (string, error)
}

// QueryService defines the operations the core exposes to transport layers.
type QueryService interface {
	ProcessQuery(ctx context.Context, req QueryRequest) (*QueryResult, error)
	DescribeSources() SourcesSummary
}

// QueryRequest carries the parameters of one query. Zero TopN means the
// configured default; SourceFilter nil means all sources.
type QueryRequest struct {
	Query          string   `json:"query"`
	TopN           int      `json:"top_n"`
	IncludeSummary bool     `json:"include_summary"`
	SourceFilter   []Source `json:"source_filter,omitempty"`
}
