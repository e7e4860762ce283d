package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/thinkscotty/cfdash/internal/session"
	"github.com/thinkscotty/cfdash/internal/stats"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.dashboardPage(w, r, handleFrom(r.Context()))
}

// handleDashboardFor shows another user's dashboard without changing the
// active handle.
func (s *Server) handleDashboardFor(w http.ResponseWriter, r *http.Request) {
	handle, err := session.NormalizeHandle(chi.URLParam(r, "handle"))
	if err != nil {
		s.renderStatus(w, http.StatusBadRequest, "error", map[string]any{
			"Title":   "Invalid handle",
			"Message": "Handles are 3 to 24 letters, digits, dots, dashes or underscores.",
		})
		return
	}
	s.dashboardPage(w, r, handle)
}

func (s *Server) dashboardPage(w http.ResponseWriter, r *http.Request, handle string) {
	view, err := s.loader.Dashboard(r.Context(), handle)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, "dashboard", map[string]any{
		"Handle": handle,
		"View":   view,
	})
}

func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rating, err := stats.ParseRatingFilter(q.Get("rating"))
	if err != nil {
		rating = stats.RatingFilter{Any: true}
	}
	query := stats.ProblemQuery{
		Search: q.Get("search"),
		Rating: rating,
		Tag:    q.Get("tag"),
		Status: stats.ParseStatus(q.Get("filter")),
		Sort:   stats.ParseSortOrder(q.Get("sort")),
	}

	view, err := s.loader.Problems(r.Context(), handleFrom(r.Context()), query, pageParam(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, "problems", map[string]any{
		"View":       view,
		"Query":      query,
		"Pagination": paginationFor(r, view.Page),
	})
}

func (s *Server) handleSolved(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader.Solved(r.Context(), handleFrom(r.Context()), pageParam(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, "solved", map[string]any{
		"View":       view,
		"Pagination": paginationFor(r, view.Page),
	})
}

func (s *Server) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	verdict := r.URL.Query().Get("verdict")
	view, err := s.loader.Submissions(r.Context(), handleFrom(r.Context()), verdict, pageParam(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, "submissions", map[string]any{
		"View":       view,
		"Pagination": paginationFor(r, view.Page),
	})
}

func (s *Server) handleContests(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader.Contests(r.Context(), handleFrom(r.Context()), pageParam(r))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, "contests", map[string]any{
		"View":       view,
		"Pagination": paginationFor(r, view.Page),
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if msg := s.checkCalendarParams(q.Get("month"), q.Get("day")); msg != "" {
		s.renderStatus(w, http.StatusBadRequest, "error", map[string]any{
			"Title":   "Invalid date",
			"Message": msg,
		})
		return
	}
	view, err := s.loader.Calendar(r.Context(), handleFrom(r.Context()), q.Get("month"), q.Get("day"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, "calendar", map[string]any{
		"View": view,
	})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	view, err := s.loader.Upcoming(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.render(w, "upcoming", map[string]any{
		"View": view,
	})
}

// checkCalendarParams returns a message describing a malformed month or day.
func (s *Server) checkCalendarParams(month, day string) string {
	if month != "" {
		if _, err := stats.ParseMonth(month); err != nil {
			return "Months are written as YYYY-MM."
		}
	}
	if day != "" {
		if _, err := s.loader.DayCalendar().ParseDay(day); err != nil {
			return "Days are written as YYYY-MM-DD."
		}
	}
	return ""
}
