package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gitarag/internal/domain"
)

// queryRequest is the wire shape of POST /query. IncludeSummary defaults to
// true when omitted, matching the public API contract.
type queryRequest struct {
	Query          string   `json:"query"`
	TopN           int      `json:"top_n"`
	IncludeSummary *bool    `json:"include_summary"`
	SourceFilter   []string `json:"source_filter"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		s.respondError(w, http.StatusServiceUnavailable, "service not initialized")
		return
	}
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	includeSummary := true
	if req.IncludeSummary != nil {
		includeSummary = *req.IncludeSummary
	}
	var filter []domain.Source
	for _, code := range req.SourceFilter {
		src, err := domain.ParseSource(code)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter = append(filter, src)
	}

	s.logger.Debug("query request", zap.String("query", req.Query), zap.Int("top_n", req.TopN))
	result, err := s.service.ProcessQuery(r.Context(), domain.QueryRequest{
		Query:          req.Query,
		TopN:           req.TopN,
		IncludeSummary: includeSummary,
		SourceFilter:   filter,
	})
	if err != nil {
		s.respondQueryError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	if s.service == nil {
		s.respondError(w, http.StatusServiceUnavailable, "service not initialized")
		return
	}
	s.respondJSON(w, http.StatusOK, s.service.DescribeSources())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if s.service == nil {
		status = "initializing"
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) respondQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("query failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{Error: http.StatusText(status), Message: message})
}
