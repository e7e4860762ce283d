package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/thinkscotty/cfdash/internal/codeforces"
	"github.com/thinkscotty/cfdash/internal/stats"
)

// failure maps a loader error to a status code and a user-facing message.
func failure(err error) (int, string) {
	var apiErr *codeforces.APIError
	switch {
	case codeforces.IsNotFound(err):
		return http.StatusNotFound, "No Codeforces user has that handle."
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, fmt.Sprintf("Codeforces rejected the request (%s).", apiErr.Comment)
	default:
		return http.StatusBadGateway, "Could not load data from Codeforces. Try again in a moment."
	}
}

// renderError logs a loader failure and renders the error page.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) {
		slog.Debug("Request canceled", "path", r.URL.Path)
		return
	}
	status, msg := failure(err)
	slog.Error("Failed to load view", "path", r.URL.Path, "status", status, "error", err,
		"request_id", middleware.GetReqID(r.Context()))

	title := "Data load failed"
	if status == http.StatusNotFound {
		title = "Handle not found"
	}
	s.renderStatus(w, status, "error", map[string]any{"Title": title, "Message": msg})
}

// pageParam reads the 1-based page query parameter, defaulting to 1.
func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// pagination is the navigation state the pagination partial renders.
type pagination struct {
	Page       int
	TotalPages int
	TotalItems int
	PrevURL    string
	NextURL    string
}

func paginationFor[T any](r *http.Request, p stats.Page[T]) pagination {
	link := func(page int) string {
		q := url.Values{}
		for k, v := range r.URL.Query() {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		return r.URL.Path + "?" + q.Encode()
	}
	pg := pagination{Page: p.Page, TotalPages: p.TotalPages, TotalItems: p.TotalItems}
	if p.HasPrev() {
		pg.PrevURL = link(min(p.PrevPage(), max(p.TotalPages, 1)))
	}
	if p.HasNext() {
		pg.NextURL = link(p.NextPage())
	}
	return pg
}
