package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	cfdash "github.com/thinkscotty/cfdash"
	"github.com/thinkscotty/cfdash/internal/config"
	"github.com/thinkscotty/cfdash/internal/report"
	"github.com/thinkscotty/cfdash/internal/session"
)

func newStatsCmd() *cobra.Command {
	var (
		asJSON bool
		theme  string
	)
	cmd := &cobra.Command{
		Use:   "stats <handle>",
		Short: "Print a user's summary in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := session.NormalizeHandle(args[0])
			if err != nil {
				return err
			}
			cfg, err := setup()
			if err != nil {
				return err
			}
			loader, cleanup, err := newLoader(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			view, err := loader.Dashboard(ctx, handle)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"user": view.User, "stats": view.Summary, "tags": view.Tags.Tags})
			}

			themes, err := config.LoadThemes(themesPath, cfdash.ThemesYAML)
			if err != nil {
				return fmt.Errorf("load themes: %w", err)
			}
			return report.New(config.FindTheme(themes, theme)).Render(cmd.OutOrStdout(), view.User, view.Summary, view.Tags)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	cmd.Flags().StringVar(&theme, "theme", "dark", "color theme for the report")
	return cmd
}
