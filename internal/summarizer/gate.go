package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"

	"gitarag/internal/domain"
)

// Gate bounds the number of in-flight model invocations. Summarization is
// the dominant cost per query; unbounded concurrent model calls exhaust
// memory under load, so all calls funnel through a fixed worker pool.
type Gate struct {
	inner   domain.Summarizer
	pool    *ants.Pool
	timeout time.Duration
}

// NewGate wraps a summarizer with a pool of maxConcurrent workers. A
// positive timeout caps each invocation, queue wait included; zero means no
// per-call deadline.
func NewGate(inner domain.Summarizer, maxConcurrent int, timeout time.Duration) (*Gate, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}
	pool, err := ants.NewPool(maxConcurrent)
	if err != nil {
		return nil, fmt.Errorf("creating summarizer pool: %w", err)
	}
	return &Gate{inner: inner, pool: pool, timeout: timeout}, nil
}

// Summarize submits the invocation to the pool and waits for it. The
// caller's context still cancels the wait, but an admitted invocation runs
// to completion.
func (g *Gate) Summarize(ctx context.Context, query, passage string, maxTokens int) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	type result struct {
		summary string
		err     error
	}
	done := make(chan result, 1)
	err := g.pool.Submit(func() {
		summary, err := g.inner.Summarize(ctx, query, passage, maxTokens)
		done <- result{summary, err}
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSummarizationUnavailable, err)
	}
	select {
	case res := <-done:
		return res.summary, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", domain.ErrSummarizationUnavailable, ctx.Err())
	}
}

// Close releases the worker pool at process teardown.
func (g *Gate) Close() {
	g.pool.Release()
}
