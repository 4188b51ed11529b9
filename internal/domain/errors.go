package domain

import "errors"

var (
	// ErrInvalidQuery rejects a single request: empty or over-long query,
	// out-of-range top_n, unknown source code.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrServiceUnavailable is returned while the index or model is not yet
	// initialized; the request may be retried after startup completes.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrSummarizationUnavailable marks a failed model invocation. The
	// orchestrator degrades to a verses-only result instead of failing the
	// request.
	ErrSummarizationUnavailable = errors.New("summarization unavailable")

	// ErrCorpusLoad is a startup-time failure reading or parsing a source
	// file. It aborts initialization; the process never serves queries.
	ErrCorpusLoad = errors.New("corpus load failed")

	// ErrEmptyCorpus is a startup-time failure: no usable verses were loaded,
	// so no index can be built and no query can ever be served.
	ErrEmptyCorpus = errors.New("empty corpus")
)
