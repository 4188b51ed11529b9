package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gitarag/internal/config"
	"gitarag/internal/domain"
)

// stubService fakes the orchestrator for transport-level tests.
type stubService struct {
	lastRequest domain.QueryRequest
	result      *domain.QueryResult
	err         error
}

func (s *stubService) ProcessQuery(_ context.Context, req domain.QueryRequest) (*domain.QueryResult, error) {
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) DescribeSources() domain.SourcesSummary {
	return domain.SourcesSummary{
		Sources: []domain.SourceInfo{
			{Name: "Bhagavad Gita", Code: domain.SourceGita, TotalVerses: 700, Chapters: 18},
			{Name: "Patanjali Yoga Sutras", Code: domain.SourcePYS, TotalVerses: 196, Chapters: 4},
		},
		TotalVerses: 896,
	}
}

func newTestServer(svc domain.QueryService) *Server {
	return NewServer(svc, &config.ServerConfig{Host: "127.0.0.1", Port: 0}, zap.NewNop())
}

func postQuery(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	srv.handleQuery(w, req)
	return w
}

func TestHandleQuery(t *testing.T) {
	summary := "a short synthesis"
	stub := &stubService{result: &domain.QueryResult{
		Query:            "peace",
		RetrievedVerses:  []domain.RetrievedVerse{},
		Summary:          &summary,
		TotalResults:     0,
		ProcessingTimeMS: 1.5,
	}}
	srv := newTestServer(stub)

	t.Run("valid request", func(t *testing.T) {
		w := postQuery(t, srv, `{"query":"peace","top_n":3}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var res domain.QueryResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, "peace", res.Query)
		require.NotNil(t, res.Summary)
		assert.Equal(t, summary, *res.Summary)
	})

	t.Run("include_summary defaults to true", func(t *testing.T) {
		postQuery(t, srv, `{"query":"peace"}`)
		assert.True(t, stub.lastRequest.IncludeSummary)
	})

	t.Run("include_summary false is honored", func(t *testing.T) {
		postQuery(t, srv, `{"query":"peace","include_summary":false}`)
		assert.False(t, stub.lastRequest.IncludeSummary)
	})

	t.Run("source filter is parsed", func(t *testing.T) {
		postQuery(t, srv, `{"query":"peace","source_filter":["PYS"]}`)
		assert.Equal(t, []domain.Source{domain.SourcePYS}, stub.lastRequest.SourceFilter)
	})

	t.Run("unknown source code is a bad request", func(t *testing.T) {
		w := postQuery(t, srv, `{"query":"peace","source_filter":["Vedas"]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		w := postQuery(t, srv, `{"query":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid query maps to 400", func(t *testing.T) {
		srv := newTestServer(&stubService{err: domain.ErrInvalidQuery})
		w := postQuery(t, srv, `{"query":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("warming up maps to 503", func(t *testing.T) {
		srv := newTestServer(&stubService{err: domain.ErrServiceUnavailable})
		w := postQuery(t, srv, `{"query":"peace"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("nil service maps to 503", func(t *testing.T) {
		srv := newTestServer(nil)
		w := postQuery(t, srv, `{"query":"peace"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHandleSources(t *testing.T) {
	srv := newTestServer(&stubService{})
	req := httptest.NewRequest(http.MethodGet, "/sources", nil)
	w := httptest.NewRecorder()
	srv.handleSources(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var res domain.SourcesSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 896, res.TotalVerses)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, domain.SourceGita, res.Sources[0].Code)
}

func TestHandleHealth(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(&stubService{})
		w := httptest.NewRecorder()
		srv.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "ok")
	})

	t.Run("initializing", func(t *testing.T) {
		srv := newTestServer(nil)
		w := httptest.NewRecorder()
		srv.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "initializing")
	})
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed origin is stamped", func(t *testing.T) {
		h := corsMiddleware([]string{"http://localhost:3000"})(next)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origins are not stamped", func(t *testing.T) {
		h := corsMiddleware([]string{"http://localhost:3000"})(next)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered", func(t *testing.T) {
		h := corsMiddleware(nil)(next)
		req := httptest.NewRequest(http.MethodOptions, "/query", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
