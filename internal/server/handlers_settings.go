package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/thinkscotty/cfdash/internal/session"
)

const themeKey = "theme_mode"

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	if msg := r.URL.Query().Get("error"); msg != "" {
		data["Error"] = msg
	}
	s.render(w, "home", data)
}

func (s *Server) handleSetHandle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	err := s.session.SetHandle(r.FormValue("handle"))
	switch {
	case errors.Is(err, session.ErrInvalidHandle):
		s.renderStatus(w, http.StatusBadRequest, "home", map[string]any{
			"Error":  "Handles are 3 to 24 letters, digits, dots, dashes or underscores.",
			"Handle": r.FormValue("handle"),
		})
		return
	case err != nil:
		slog.Error("Failed to save handle", "error", err)
		http.Error(w, "Failed to save handle", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleClearHandle(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Clear(); err != nil {
		slog.Error("Failed to clear handle", "error", err)
		http.Error(w, "Failed to clear handle", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleThemeUpdate stores the chosen theme and returns to the referring page.
func (s *Server) handleThemeUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	id := r.FormValue("theme")
	known := false
	for _, t := range s.themes {
		if t.ID == id {
			known = true
			break
		}
	}
	if !known {
		http.Error(w, "Unknown theme", http.StatusBadRequest)
		return
	}
	if err := s.settings.SetSetting(themeKey, id); err != nil {
		slog.Error("Failed to save setting", "key", themeKey, "error", err)
		http.Error(w, "Failed to save theme", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// returnPath is the local path of the referring page, or "/".
func returnPath(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.Ping(); err != nil {
		jsonError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	jsonResponse(w, r, map[string]any{"status": "ok", "version": s.version})
}
