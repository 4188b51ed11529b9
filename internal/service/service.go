// Package service composes retrieval, context assembly and summarization
// into the request-scoped query operation.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"gitarag/internal/assembler"
	"gitarag/internal/corpus"
	"gitarag/internal/domain"
	"gitarag/internal/retriever"
)

// Options bounds request parameters and the assembled context.
type Options struct {
	DefaultTopN      int
	MaxQueryLength   int
	MaxContextLength int
	MaxOutputTokens  int
}

func (o *Options) applyDefaults() {
	if o.DefaultTopN <= 0 {
		o.DefaultTopN = 5
	}
	if o.MaxQueryLength <= 0 {
		o.MaxQueryLength = 500
	}
	if o.MaxContextLength <= 0 {
		o.MaxContextLength = 512
	}
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = 150
	}
}

// Service is the query orchestrator. The corpus, index and summarizer are
// shared process-wide resources, injected once at startup and read-only
// afterward; the service itself holds no per-request state.
type Service struct {
	corpus     *corpus.Corpus
	retriever  *retriever.Retriever
	summarizer domain.Summarizer
	opts       Options
	logger     *zap.Logger
}

// denylist screens queries for content the service will not answer.
var denylist = []string{
	"abuse", "hate", "violence", "illegal", "harmful",
	"kill", "murder", "suicide", "drugs", "weapon",
}

// New wires the orchestrator. A nil summarizer is allowed; summary requests
// then degrade to verses-only results.
func New(c *corpus.Corpus, r *retriever.Retriever, s domain.Summarizer, opts Options, logger *zap.Logger) (*Service, error) {
	if c == nil || r == nil {
		return nil, fmt.Errorf("%w: corpus and retriever required", domain.ErrServiceUnavailable)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.applyDefaults()
	return &Service{corpus: c, retriever: r, summarizer: s, opts: opts, logger: logger}, nil
}

// ProcessQuery runs one pass of Validate, Retrieve, optional
// Assemble+Summarize, Package. Summarization failure is non-fatal: the
// result degrades to verses only with no summary rather than failing the
// request.
func (s *Service) ProcessQuery(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error) {
	start := time.Now()

	if err := s.validate(&req); err != nil {
		return nil, err
	}

	verses, err := s.retriever.Retrieve(req.Query, req.TopN, req.SourceFilter)
	if err != nil {
		return nil, err
	}

	var summary *string
	if req.IncludeSummary && len(verses) > 0 && s.summarizer != nil {
		passage := assembler.Assemble(verses, s.opts.MaxContextLength)
		text, err := s.summarizer.Summarize(ctx, req.Query, passage, s.opts.MaxOutputTokens)
		switch {
		case err != nil:
			// Degraded result: absence of a summary is explicit, never stale
			// or fabricated text.
			s.logger.Warn("summarization failed, returning verses only",
				zap.String("query", req.Query), zap.Error(err))
		case text != "":
			summary = &text
		}
	}

	result := &domain.QueryResult{
		Query:            req.Query,
		RetrievedVerses:  verses,
		Summary:          summary,
		TotalResults:     len(verses),
		ProcessingTimeMS: float64(time.Since(start).Microseconds()) / 1000.0,
	}
	s.logger.Debug("query processed",
		zap.String("query", req.Query),
		zap.Int("results", result.TotalResults),
		zap.Bool("summarized", summary != nil),
		zap.Float64("ms", result.ProcessingTimeMS))
	return result, nil
}

// DescribeSources reports the per-corpus totals for the sources endpoint.
func (s *Service) DescribeSources() domain.SourcesSummary {
	return s.corpus.Summary()
}

func (s *Service) validate(req *domain.QueryRequest) error {
	trimmed := strings.TrimSpace(req.Query)
	if trimmed == "" {
		return fmt.Errorf("%w: query must not be empty", domain.ErrInvalidQuery)
	}
	if len(req.Query) > s.opts.MaxQueryLength {
		return fmt.Errorf("%w: query exceeds %d characters", domain.ErrInvalidQuery, s.opts.MaxQueryLength)
	}
	lower := strings.ToLower(trimmed)
	for _, word := range denylist {
		if strings.Contains(lower, word) {
			return fmt.Errorf("%w: query contains inappropriate content", domain.ErrInvalidQuery)
		}
	}
	if req.TopN == 0 {
		req.TopN = s.opts.DefaultTopN
	}
	if req.TopN < 0 {
		return fmt.Errorf("%w: top_n must be positive, got %d", domain.ErrInvalidQuery, req.TopN)
	}
	for _, src := range req.SourceFilter {
		if _, err := domain.ParseSource(string(src)); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.QueryService = (*Service)(nil)

// IsInvalid reports whether err rejects a single request.
func IsInvalid(err error) bool { return errors.Is(err, domain.ErrInvalidQuery) }

// IsUnavailable reports whether err means the core has not finished
// initializing and the request may be retried.
func IsUnavailable(err error) bool { return errors.Is(err, domain.ErrServiceUnavailable) }
