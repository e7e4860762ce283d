// Package report renders a user's summary for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thinkscotty/cfdash/internal/config"
	"github.com/thinkscotty/cfdash/internal/models"
	"github.com/thinkscotty/cfdash/internal/stats"
)

const (
	barWidth   = 30
	labelWidth = 8
)

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	key     lipgloss.Style
	val     lipgloss.Style
	subtle  lipgloss.Style
	bar     lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	box     lipgloss.Style
}

func newStyles(t config.Theme) styles {
	c := t.Colors
	return styles{
		title:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.Primary)).Bold(true),
		section: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Accent)).Bold(true).MarginTop(1),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Text)).Width(18),
		val:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Text)).Bold(true),
		subtle:  lipgloss.NewStyle().Faint(true),
		bar:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Primary)),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.Success)),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.Danger)),
		box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(c.Accent)).Padding(0, 1),
	}
}

// Renderer writes styled summaries using one theme's palette.
type Renderer struct {
	st styles
}

func New(theme config.Theme) *Renderer {
	return &Renderer{st: newStyles(theme)}
}

// Render writes the profile card, stat lines, rating histogram and tag
// tables for one user.
func (r *Renderer) Render(w io.Writer, user models.User, s stats.Summary, tags stats.TagReport) error {
	st := r.st
	var b strings.Builder

	header := st.title.Render(user.Handle) + "\n" +
		st.subtle.Render(fmt.Sprintf("%s · rating %s (max %s, %s)",
			user.RankOrUnrated(), user.Rating, user.MaxRating, user.MaxRankOrUnrated()))
	b.WriteString(st.box.Render(header))
	b.WriteString("\n")

	line := func(k, v string) {
		b.WriteString(st.key.Render(k) + st.val.Render(v) + "\n")
	}
	b.WriteString(st.section.Render("Summary") + "\n")
	line("Problems solved", fmt.Sprint(s.TotalSolved))
	line("Submissions", fmt.Sprint(s.TotalSubmissions))
	line("Solve rate", s.SolveRateLabel())
	line("Average rating", s.AverageLabel())
	line("Contests", fmt.Sprint(s.TotalContests))
	line("Active days", fmt.Sprint(s.ActiveDays))

	b.WriteString(st.section.Render("Solved by rating") + "\n")
	if len(s.Histogram) == 0 {
		b.WriteString(st.subtle.Render("No solved problems yet") + "\n")
	}
	peak := s.Histogram.Max()
	for _, bucket := range s.Histogram {
		n := 0
		if peak > 0 {
			n = max(1, bucket.Count*barWidth/peak)
		}
		fmt.Fprintf(&b, "%-*s %s %d\n", labelWidth, bucket.Label, st.bar.Render(strings.Repeat("█", n)), bucket.Count)
	}

	if most := tags.MostSolved(stats.DefaultMostSolvedTags); len(most) > 0 {
		b.WriteString(st.section.Render("Strongest tags") + "\n")
		for _, t := range most {
			fmt.Fprintf(&b, "%-24s %s\n", t.Tag, st.good.Render(fmt.Sprintf("%d solved", t.Solved)))
		}
	}
	if weak := tags.Weakest(stats.DefaultWeakestTags); len(weak) > 0 {
		b.WriteString(st.section.Render("Weakest tags") + "\n")
		for _, t := range weak {
			fmt.Fprintf(&b, "%-24s %s\n", t.Tag, st.bad.Render(fmt.Sprintf("%.0f%% failed", t.Rate*100)))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
