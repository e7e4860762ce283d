package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/thinkscotty/cfdash/internal/models"
)

// Day offsets observed in the wild. Day boundaries are the same for every
// calendar computation in a process and come from configuration.
const (
	UTCOffset = time.Duration(0)
	ISTOffset = 5*time.Hour + 30*time.Minute
)

// DayLayout is the date format used for activity keys and query parameters.
const DayLayout = "2006-01-02"

// MonthLayout is the format of month query parameters.
const MonthLayout = "2006-01"

// Calendar buckets submissions into calendar days at a fixed UTC offset.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar whose days start at midnight in UTC+offset.
func NewCalendar(offset time.Duration) Calendar {
	if offset == 0 {
		return Calendar{loc: time.UTC}
	}
	return Calendar{loc: time.FixedZone(FormatOffset(offset), int(offset/time.Second))}
}

// Location returns the zone day boundaries are computed in.
func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// DayOf truncates t to the start of its calendar day.
func (c Calendar) DayOf(t time.Time) time.Time {
	lt := t.In(c.Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.Location())
}

// Real-world UTC offsets lie within ±14h.
const maxOffset = 14 * time.Hour

// ParseOffset accepts "UTC", "", "+05:30", "-03:00", "+5" or a Go duration
// such as "5h30m".
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "UTC") || s == "Z" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d > maxOffset || d < -maxOffset {
			return 0, fmt.Errorf("offset out of range: %q", s)
		}
		return d, nil
	}
	sign := time.Duration(1)
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		sign = -1
		s = s[1:]
	}
	var h, m int
	if strings.Contains(s, ":") {
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid offset %q", s)
		}
	} else if _, err := fmt.Sscanf(s, "%d", &h); err != nil {
		return 0, fmt.Errorf("invalid offset %q", s)
	}
	d := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	if h < 0 || m < 0 || m > 59 || d > maxOffset {
		return 0, fmt.Errorf("offset out of range: %q", s)
	}
	return sign * d, nil
}

// FormatOffset renders an offset as "UTC" or "UTC+05:30".
func FormatOffset(d time.Duration) string {
	if d == 0 {
		return "UTC"
	}
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// Month identifies a calendar month.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t in the calendar's zone.
func (c Calendar) MonthOf(t time.Time) Month {
	lt := t.In(c.Location())
	return Month{Year: lt.Year(), Month: lt.Month()}
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label renders the month as "January 2024".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

func (m Month) start(loc *time.Location) time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, loc)
}

func (m Month) Prev() Month {
	t := m.start(time.UTC).AddDate(0, -1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) Next() Month {
	t := m.start(time.UTC).AddDate(0, 1, 0)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) After(o Month) bool {
	if m.Year != o.Year {
		return m.Year > o.Year
	}
	return m.Month > o.Month
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return m.start(time.UTC).AddDate(0, 1, -1).Day()
}

// ClampMonth returns m, or the current month when m lies after it.
func (c Calendar) ClampMonth(m Month, now time.Time) Month {
	current := c.MonthOf(now)
	if m.After(current) {
		return current
	}
	return m
}

// CanAdvance reports whether navigating forward from m stays within the
// current month.
func (c Calendar) CanAdvance(m Month, now time.Time) bool {
	return !m.Next().After(c.MonthOf(now))
}

// DayCount is the number of submissions on one calendar day.
type DayCount struct {
	Date  time.Time `json:"-"`
	Key   string    `json:"date"`
	Day   int       `json:"day"`
	Count int       `json:"count"`
}

// MonthActivity is the per-day submission count for a month.
type MonthActivity struct {
	Month Month      `json:"month"`
	Days  []DayCount `json:"days"`
	Total int        `json:"total"`
	// LeadingBlanks is the weekday of the 1st, Sunday = 0, for grid padding.
	LeadingBlanks int `json:"leading_blanks"`
}

// Month counts submissions for every day of m, zero-count days included.
func (c Calendar) Month(subs []models.Submission, m Month) MonthActivity {
	loc := c.Location()
	first := m.start(loc)
	n := m.Days()

	act := MonthActivity{
		Month:         m,
		Days:          make([]DayCount, n),
		LeadingBlanks: int(first.Weekday()),
	}
	for i := range n {
		d := first.AddDate(0, 0, i)
		act.Days[i] = DayCount{Date: d, Key: d.Format(DayLayout), Day: i + 1}
	}

	for _, sub := range subs {
		day := c.DayOf(sub.CreatedAt)
		if day.Year() != m.Year || day.Month() != m.Month {
			continue
		}
		act.Days[day.Day()-1].Count++
		act.Total++
	}
	return act
}

// Max returns the busiest day's count.
func (a MonthActivity) Max() int {
	m := 0
	for _, d := range a.Days {
		if d.Count > m {
			m = d.Count
		}
	}
	return m
}

// Day returns the submissions made on the calendar day containing date, in
// input order. It uses the same day boundaries as Month.
func (c Calendar) Day(subs []models.Submission, date time.Time) []models.Submission {
	target := c.DayOf(date)
	var out []models.Submission
	for _, sub := range subs {
		if c.DayOf(sub.CreatedAt).Equal(target) {
			out = append(out, sub)
		}
	}
	return out
}

// ParseDay parses a "YYYY-MM-DD" string as a day in the calendar's zone.
func (c Calendar) ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// Activity returns one entry per day with at least one submission, in
// ascending date order.
func (c Calendar) Activity(subs []models.Submission) []DayCount {
	counts := make(map[time.Time]int)
	for _, sub := range subs {
		counts[c.DayOf(sub.CreatedAt)]++
	}
	out := make([]DayCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DayCount{Date: d, Key: d.Format(DayLayout), Day: d.Day(), Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
