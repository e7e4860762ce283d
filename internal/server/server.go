package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	cfdash "github.com/thinkscotty/cfdash"
	"github.com/thinkscotty/cfdash/internal/config"
	"github.com/thinkscotty/cfdash/internal/dashboard"
	"github.com/thinkscotty/cfdash/internal/session"
)

// Settings is the durable key/value store behind theme selection.
type Settings interface {
	GetAllSettings() (map[string]string, error)
	SetSetting(key, value string) error
	Ping() error
}

type Server struct {
	cfg       config.Config
	settings  Settings
	session   *session.Session
	loader    *dashboard.Loader
	themes    []config.Theme
	version   string
	buildTime string
	pages     map[string]*template.Template
	router    http.Handler
	httpSrv   *http.Server
}

func New(cfg config.Config, settings Settings, sess *session.Session, loader *dashboard.Loader, themes []config.Theme, version, buildTime string) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		settings:  settings,
		session:   sess,
		loader:    loader,
		themes:    themes,
		version:   version,
		buildTime: buildTime,
	}
	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	s.router = s.routes()
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}
	return s, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	slog.Info("Starting server", "addr", s.httpSrv.Addr)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	staticFS, _ := fs.Sub(cfdash.StaticFS, "web/static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Get("/healthz", s.handleHealth)

	r.Get("/", s.handleHome)
	r.Post("/handle", s.handleSetHandle)
	r.Post("/handle/clear", s.handleClearHandle)
	r.Post("/settings/theme", s.handleThemeUpdate)
	r.Get("/upcoming", s.handleUpcoming)
	r.Get("/dashboard/{handle}", s.handleDashboardFor)

	// Handle-scoped pages redirect to the entry form when no handle is set.
	r.Group(func(r chi.Router) {
		r.Use(s.requireHandle)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/problems", s.handleProblems)
		r.Get("/solved", s.handleSolved)
		r.Get("/submissions", s.handleSubmissions)
		r.Get("/contests", s.handleContests)
		r.Get("/calendar", s.handleCalendar)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "If-None-Match", "X-Request-ID"},
			ExposedHeaders: []string{"ETag", "X-Request-ID"},
			MaxAge:         300,
		}))
		r.Get("/contests/upcoming", s.handleAPIUpcoming)
		r.Route("/users/{handle}", func(r chi.Router) {
			r.Get("/stats", s.handleAPIStats)
			r.Get("/tags", s.handleAPITags)
			r.Get("/calendar", s.handleAPICalendar)
			r.Get("/problems", s.handleAPIProblems)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderStatus(w, http.StatusNotFound, "error", map[string]any{
			"Title":   "Page not found",
			"Message": "There is nothing at " + r.URL.Path + ".",
		})
	})
	return r
}

var pageNames = []string{"home", "dashboard", "problems", "solved", "submissions", "contests", "calendar", "upcoming", "error"}

func (s *Server) loadTemplates() error {
	s.pages = make(map[string]*template.Template)
	for _, page := range pageNames {
		t, err := template.New("base.html").Funcs(funcMap).ParseFS(cfdash.TemplateFS,
			"web/templates/layouts/base.html",
			"web/templates/partials/*.html",
			"web/templates/pages/"+page+".html",
		)
		if err != nil {
			return fmt.Errorf("parse template %s: %w", page, err)
		}
		s.pages[page] = t
	}
	return nil
}

// render executes a full page template with status 200.
func (s *Server) render(w http.ResponseWriter, page string, data map[string]any) {
	s.renderStatus(w, http.StatusOK, page, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, page string, data map[string]any) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if _, exists := data["Page"]; !exists {
		data["Page"] = page
	}
	if handle, ok := s.session.Handle(); ok {
		data["ActiveHandle"] = handle
	}
	data["Version"] = s.version
	data["BuildTime"] = s.buildTime
	s.injectThemeData(data)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		slog.Error("Template execution error", "page", page, "error", err)
	}
}

// injectThemeData resolves the selected theme and adds its CSS variables.
func (s *Server) injectThemeData(data map[string]any) {
	settings, err := s.settings.GetAllSettings()
	if err != nil {
		slog.Warn("Failed to read settings", "error", err)
	}
	theme := config.FindTheme(s.themes, settings[themeKey])
	data["ThemeCSS"] = template.CSS(config.ThemeCSS(theme))
	data["Themes"] = s.themes
	data["CurrentTheme"] = theme.ID
}
