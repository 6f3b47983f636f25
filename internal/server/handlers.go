package server

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/metaboost/internal/models"
)

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var query models.RecommendQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.recommend(w, r, &query)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	query := models.RecommendQuery{ID: pathParam(r, "id")}
	if err := parseLimit(r, &query); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if raw := r.URL.Query().Get("min_similarity"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "min_similarity must be a number")
			return
		}
		query.MinSimilarity = &v
	}
	s.recommend(w, r, &query)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	query := models.RecommendQuery{Category: pathParam(r, "category")}
	if err := parseLimit(r, &query); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.recommend(w, r, &query)
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request, query *models.RecommendQuery) {
	s.logger.Debug("recommend request",
		zap.String("id", query.ID),
		zap.String("text", query.Text),
		zap.String("category", query.Category),
		zap.Int("limit", query.Limit),
	)
	resp, err := s.engine.Recommend(r.Context(), query)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("recommend failed", zap.Error(err))
		}
		s.respondError(w, status, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.LastReport()
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"index": s.engine.Index().Stats(),
	}
	if report, err := s.reports.LastReport(); err == nil {
		resp["report_id"] = report.ID
		resp["report_generated_at"] = report.GeneratedAt
		resp["datasets"] = report.Summary.TotalDatasets
	}
	if s.watch != nil {
		resp["watched_files"] = s.watch.Files()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func parseLimit(r *http.Request, query *models.RecommendQuery) error {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("limit must be an integer")
	}
	query.Limit = n
	return nil
}

func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
