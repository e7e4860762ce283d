package server

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/thinkscotty/cfdash/internal/session"
	"github.com/thinkscotty/cfdash/internal/stats"
)

// apiHandle validates the {handle} URL parameter, writing a 400 on failure.
func apiHandle(w http.ResponseWriter, r *http.Request) (string, bool) {
	handle, err := session.NormalizeHandle(chi.URLParam(r, "handle"))
	if err != nil {
		jsonError(w, "invalid handle", http.StatusBadRequest)
		return "", false
	}
	return handle, true
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	handle, ok := apiHandle(w, r)
	if !ok {
		return
	}
	view, err := s.loader.Dashboard(r.Context(), handle)
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	jsonResponse(w, r, map[string]any{"user": view.User, "stats": view.Summary})
}

func (s *Server) handleAPITags(w http.ResponseWriter, r *http.Request) {
	handle, ok := apiHandle(w, r)
	if !ok {
		return
	}
	view, err := s.loader.Dashboard(r.Context(), handle)
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	jsonResponse(w, r, map[string]any{
		"tags":        view.Tags.Tags,
		"most_solved": view.MostSolved,
		"weakest":     view.Weakest,
	})
}

func (s *Server) handleAPICalendar(w http.ResponseWriter, r *http.Request) {
	handle, ok := apiHandle(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	if msg := s.checkCalendarParams(q.Get("month"), q.Get("day")); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}
	view, err := s.loader.Calendar(r.Context(), handle, q.Get("month"), q.Get("day"))
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	jsonResponse(w, r, view)
}

func (s *Server) handleAPIProblems(w http.ResponseWriter, r *http.Request) {
	handle, ok := apiHandle(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	rating, err := stats.ParseRatingFilter(q.Get("rating"))
	if err != nil {
		jsonError(w, "rating must be a number or \"unrated\"", http.StatusBadRequest)
		return
	}
	query := stats.ProblemQuery{
		Search: q.Get("search"),
		Rating: rating,
		Tag:    q.Get("tag"),
		Status: stats.ParseStatus(q.Get("filter")),
		Sort:   stats.ParseSortOrder(q.Get("sort")),
	}
	view, err := s.loader.Problems(r.Context(), handle, query, pageParam(r))
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	jsonResponse(w, r, view.Page)
}

func (s *Server) handleAPIUpcoming(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader.Upcoming(r.Context())
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	jsonResponse(w, r, view)
}

func (s *Server) apiFailure(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	status, msg := failure(err)
	slog.Error("API: failed to load view", "path", r.URL.Path, "status", status, "error", err)
	jsonError(w, msg, status)
}

// jsonResponse writes data with a content ETag and answers a matching
// If-None-Match with 304.
func jsonResponse(w http.ResponseWriter, r *http.Request, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		slog.Error("API: failed to encode response", "error", err)
		jsonError(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	sum := blake2b.Sum256(buf.Bytes())
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
