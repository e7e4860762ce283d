package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	cfdash "github.com/thinkscotty/cfdash"
	"github.com/thinkscotty/cfdash/internal/cache"
	"github.com/thinkscotty/cfdash/internal/codeforces"
	"github.com/thinkscotty/cfdash/internal/config"
	"github.com/thinkscotty/cfdash/internal/dashboard"
	"github.com/thinkscotty/cfdash/internal/database"
	"github.com/thinkscotty/cfdash/internal/server"
	"github.com/thinkscotty/cfdash/internal/session"
	"github.com/thinkscotty/cfdash/internal/stats"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configPath string
	themesPath string
)

func main() {
	root := &cobra.Command{
		Use:           "cfdash",
		Short:         "Self-hosted Codeforces statistics dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to configuration file")
	root.PersistentFlags().StringVar(&themesPath, "themes", "themes.yaml", "path to themes file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the web dashboard (default)",
			RunE:  runServe,
		},
		newStatsCmd(),
		newSettingsCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Show version and exit",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("cfdash %s (built %s)\n", version, buildTime)
			},
		},
	)

	if err := root.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the process-wide logger.
func setup() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	var logLevel slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
	return cfg, nil
}

// newLoader wires the API client, its optional cache and the view loaders.
func newLoader(cfg config.Config) (*dashboard.Loader, func(), error) {
	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("init cache: %w", err)
	}
	cleanup := func() {}
	if c != nil {
		cleanup = func() { c.Close() }
	}

	client := codeforces.New(cfg.Codeforces, c, cfg.Cache.TTL())
	cal := stats.NewCalendar(cfg.DayOffset())
	return dashboard.New(client, cal, cfg.Pagination.PageSize), cleanup, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	slog.Info("Starting cfdash", "version", version)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()
	slog.Info("Database initialized", "path", cfg.Database.Path)

	sess, err := session.Load(db, func(err error) bool { return errors.Is(err, database.ErrNoSetting) })
	if err != nil {
		return err
	}
	if h, ok := sess.Handle(); ok {
		slog.Info("Restored active handle", "handle", h)
	}

	themes, err := config.LoadThemes(themesPath, cfdash.ThemesYAML)
	if err != nil {
		return fmt.Errorf("load themes: %w", err)
	}
	slog.Info("Loaded themes", "count", len(themes))

	loader, cleanup, err := newLoader(cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	slog.Info("Calendar day boundaries", "offset", stats.FormatOffset(cfg.DayOffset()))

	srv, err := server.New(cfg, db, sess, loader, themes, version, buildTime)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
