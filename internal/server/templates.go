package server

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/thinkscotty/cfdash/internal/models"
	"github.com/thinkscotty/cfdash/internal/stats"
)

var funcMap = template.FuncMap{
	"timeAgo": func(t time.Time) string {
		if t.IsZero() {
			return "Never"
		}
		d := time.Since(t)
		switch {
		case d < 0:
			return "in " + formatDuration(-d)
		case d < time.Minute:
			return "Just now"
		case d < time.Hour:
			return fmt.Sprintf("%dm ago", int(d.Minutes()))
		case d < 24*time.Hour:
			return fmt.Sprintf("%dh ago", int(d.Hours()))
		default:
			return fmt.Sprintf("%dd ago", int(d.Hours()/24))
		}
	},
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"duration": formatDuration,
	"seq": func(n int) []int {
		s := make([]int, n)
		for i := range s {
			s[i] = i
		}
		return s
	},
	"formatBytes": func(b int64) string {
		const unit = 1024
		if b < unit {
			return fmt.Sprintf("%d B", b)
		}
		div, exp := int64(unit), 0
		for n := b / unit; n >= unit; n /= unit {
			div *= unit
			exp++
		}
		return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
	},
	// pct scales n against max for bar widths.
	"pct": func(n, max int) int {
		if max <= 0 {
			return 0
		}
		return n * 100 / max
	},
	"percent": func(f float64) string {
		return fmt.Sprintf("%.0f%%", f*100)
	},
	"signed": func(n int) string {
		if n > 0 {
			return fmt.Sprintf("+%d", n)
		}
		return fmt.Sprint(n)
	},
	"verdictClass": func(v models.Verdict) string {
		switch {
		case v.Accepted():
			return "verdict-ok"
		case v == models.VerdictPending || v == models.VerdictTesting:
			return "verdict-pending"
		default:
			return "verdict-failed"
		}
	},
	"verdictLabel": func(v models.Verdict) string {
		if v == models.VerdictPending {
			return "In queue"
		}
		return strings.ReplaceAll(string(v), "_", " ")
	},
	"problemURL": func(contestID int, index string) string {
		return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", contestID, index)
	},
	"contestURL": func(id int) string {
		return fmt.Sprintf("https://codeforces.com/contest/%d", id)
	},
	"heat": func(count, max int) int {
		if count == 0 || max == 0 {
			return 0
		}
		return min(4, 1+count*4/(max+1))
	},
	"polyline": polyline,
}

// polyline maps a rating progression onto SVG points within w x h.
func polyline(points []stats.RatingPoint, w, h int) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := points[0].Rating, points[0].Rating
	for _, p := range points {
		lo = min(lo, p.Rating)
		hi = max(hi, p.Rating)
	}
	span := max(hi-lo, 1)

	var b strings.Builder
	for i, p := range points {
		x := 0
		if len(points) > 1 {
			x = i * w / (len(points) - 1)
		}
		y := h - (p.Rating-lo)*h/span
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d,%d", x, y)
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	m := (d - h*time.Hour) / time.Minute
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, h)
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
