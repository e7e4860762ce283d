// Package dashboard loads the data behind each page. Every loader runs a
// fixed fan-out of API calls bound to the request context and hands the
// results to the stats package.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thinkscotty/cfdash/internal/models"
	"github.com/thinkscotty/cfdash/internal/stats"
)

// ErrLoadFailed wraps every error a loader returns. The underlying cause is
// kept in the chain, so errors.As still finds a codeforces.APIError.
var ErrLoadFailed = errors.New("failed to load data")

// Source is the subset of the Codeforces client the loaders use.
type Source interface {
	UserInfo(ctx context.Context, handle string) (models.User, error)
	UserSubmissions(ctx context.Context, handle string) ([]models.Submission, error)
	UserRating(ctx context.Context, handle string) ([]models.PastContest, error)
	Problems(ctx context.Context) ([]models.Problem, error)
	UpcomingContests(ctx context.Context) ([]models.UpcomingContest, error)
}

type Loader struct {
	src      Source
	cal      stats.Calendar
	pageSize int
	now      func() time.Time
}

func New(src Source, cal stats.Calendar, pageSize int) *Loader {
	if pageSize <= 0 {
		pageSize = stats.DefaultPageSize
	}
	return &Loader{src: src, cal: cal, pageSize: pageSize, now: time.Now}
}

// DayCalendar returns the calendar day boundaries are computed with.
func (l *Loader) DayCalendar() stats.Calendar { return l.cal }

func failed(view string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrLoadFailed, view, err)
}

// DashboardView backs the main stats page.
type DashboardView struct {
	User       models.User         `json:"user"`
	Summary    stats.Summary       `json:"summary"`
	Tags       stats.TagReport     `json:"tags"`
	MostSolved []stats.TagStat     `json:"most_solved"`
	Weakest    []stats.WeakTag     `json:"weakest"`
	Recent     []models.Submission `json:"recent"`
}

// recentSubmissions is how many of the newest submissions the dashboard lists.
const recentSubmissions = 10

// Dashboard fetches profile, submissions and rating history concurrently.
func (l *Loader) Dashboard(ctx context.Context, handle string) (*DashboardView, error) {
	var (
		user     models.User
		subs     []models.Submission
		contests []models.PastContest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = l.src.UserInfo(gctx, handle)
		return err
	})
	g.Go(func() (err error) {
		subs, err = l.src.UserSubmissions(gctx, handle)
		return err
	})
	g.Go(func() (err error) {
		contests, err = l.src.UserRating(gctx, handle)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, failed("dashboard", err)
	}

	tags := stats.TagPerformance(subs)
	return &DashboardView{
		User:       user,
		Summary:    stats.Summarize(subs, contests, l.cal),
		Tags:       tags,
		MostSolved: tags.MostSolved(stats.DefaultMostSolvedTags),
		Weakest:    tags.Weakest(stats.DefaultWeakestTags),
		Recent:     newest(subs, recentSubmissions),
	}, nil
}

// ProblemRow is a catalog entry annotated with the user's solve state.
type ProblemRow struct {
	models.Problem
	Solved bool `json:"solved"`
}

// ProblemsView backs the problem browser.
type ProblemsView struct {
	Query   stats.ProblemQuery     `json:"-"`
	Page    stats.Page[ProblemRow] `json:"page"`
	Tags    []string               `json:"tags"`
	Ratings []int                  `json:"ratings"`
}

// Problems fetches the catalog and the user's submissions, applies q and
// returns the requested page.
func (l *Loader) Problems(ctx context.Context, handle string, q stats.ProblemQuery, page int) (*ProblemsView, error) {
	var (
		catalog []models.Problem
		subs    []models.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catalog, err = l.src.Problems(gctx)
		return err
	})
	g.Go(func() (err error) {
		subs, err = l.src.UserSubmissions(gctx, handle)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, failed("problems", err)
	}

	solved := stats.NewSolveSet(subs)
	filtered := stats.FilterProblems(catalog, solved, q)
	rows := make([]ProblemRow, 0, len(filtered))
	for _, p := range filtered {
		rows = append(rows, ProblemRow{Problem: p, Solved: solved.Has(p.ID())})
	}
	return &ProblemsView{
		Query:   q,
		Page:    stats.NewPage(rows, page, l.pageSize),
		Tags:    stats.CatalogTags(catalog),
		Ratings: stats.CatalogRatings(catalog),
	}, nil
}

// SolvedView lists each solved problem once, by its first accepted submission.
type SolvedView struct {
	Page      stats.Page[models.Submission] `json:"page"`
	Histogram stats.Histogram               `json:"histogram"`
}

func (l *Loader) Solved(ctx context.Context, handle string, page int) (*SolvedView, error) {
	subs, err := l.src.UserSubmissions(ctx, handle)
	if err != nil {
		return nil, failed("solved", err)
	}
	ss := stats.NewSolveSet(subs)
	return &SolvedView{
		Page:      stats.NewPage(ss.Solved(), page, l.pageSize),
		Histogram: stats.RatingHistogram(ss),
	}, nil
}

// SubmissionsView backs the submission log with its verdict filter.
type SubmissionsView struct {
	Verdict  string                        `json:"verdict"`
	Verdicts []models.Verdict              `json:"verdicts"`
	Page     stats.Page[models.Submission] `json:"page"`
}

func (l *Loader) Submissions(ctx context.Context, handle, verdict string, page int) (*SubmissionsView, error) {
	subs, err := l.src.UserSubmissions(ctx, handle)
	if err != nil {
		return nil, failed("submissions", err)
	}
	return &SubmissionsView{
		Verdict:  verdict,
		Verdicts: stats.Verdicts(subs),
		Page:     stats.NewPage(stats.FilterSubmissions(subs, verdict), page, l.pageSize),
	}, nil
}

// ContestsView backs the rating history table, newest contest first.
type ContestsView struct {
	Page        stats.Page[models.PastContest] `json:"page"`
	Progression []stats.RatingPoint            `json:"progression"`
	Best        *models.PastContest            `json:"best,omitempty"`
}

func (l *Loader) Contests(ctx context.Context, handle string, page int) (*ContestsView, error) {
	history, err := l.src.UserRating(ctx, handle)
	if err != nil {
		return nil, failed("contests", err)
	}

	progression := make([]stats.RatingPoint, 0, len(history))
	var best *models.PastContest
	for i, c := range history {
		progression = append(progression, stats.RatingPoint{Contest: c.Name, Rating: c.NewRating})
		if best == nil || c.Rank < best.Rank {
			best = &history[i]
		}
	}

	newestFirst := slices.Clone(history)
	slices.Reverse(newestFirst)
	return &ContestsView{
		Page:        stats.NewPage(newestFirst, page, l.pageSize),
		Progression: progression,
		Best:        best,
	}, nil
}

// CalendarView is one month of activity plus an optional day drill-down.
type CalendarView struct {
	Activity   stats.MonthActivity `json:"activity"`
	Prev       stats.Month         `json:"prev"`
	Next       stats.Month         `json:"next"`
	CanAdvance bool                `json:"can_advance"`
	Offset     string              `json:"offset"`
	Day        *DayView            `json:"day,omitempty"`
}

type DayView struct {
	Key         string              `json:"date"`
	Submissions []models.Submission `json:"submissions"`
}

// Calendar loads the month named by month ("YYYY-MM", empty for the current
// month). A month after the current one is clamped back to it. When day is
// set ("YYYY-MM-DD") its submissions are attached and, if month is empty,
// the month containing day is shown.
func (l *Loader) Calendar(ctx context.Context, handle, month, day string) (*CalendarView, error) {
	now := l.now()
	m := l.cal.MonthOf(now)

	var date time.Time
	if day != "" {
		d, err := l.cal.ParseDay(day)
		if err != nil {
			return nil, failed("calendar", err)
		}
		date = d
		m = l.cal.MonthOf(d)
	}
	if month != "" {
		parsed, err := stats.ParseMonth(month)
		if err != nil {
			return nil, failed("calendar", err)
		}
		m = parsed
	}
	m = l.cal.ClampMonth(m, now)

	subs, err := l.src.UserSubmissions(ctx, handle)
	if err != nil {
		return nil, failed("calendar", err)
	}

	v := &CalendarView{
		Activity:   l.cal.Month(subs, m),
		Prev:       m.Prev(),
		Next:       m.Next(),
		CanAdvance: l.cal.CanAdvance(m, now),
		Offset:     stats.FormatOffset(offsetOf(l.cal, now)),
	}
	if !date.IsZero() {
		daySubs := l.cal.Day(subs, date)
		if daySubs == nil {
			daySubs = []models.Submission{}
		}
		v.Day = &DayView{Key: date.Format(stats.DayLayout), Submissions: daySubs}
	}
	return v, nil
}

// UpcomingView lists contests that have not started.
type UpcomingView struct {
	Contests []models.UpcomingContest `json:"contests"`
}

func (l *Loader) Upcoming(ctx context.Context) (*UpcomingView, error) {
	contests, err := l.src.UpcomingContests(ctx)
	if err != nil {
		return nil, failed("upcoming", err)
	}
	return &UpcomingView{Contests: contests}, nil
}

// newest returns up to n submissions with the latest CreatedAt first.
func newest(subs []models.Submission, n int) []models.Submission {
	out := append([]models.Submission{}, subs...)
	slices.SortStableFunc(out, func(a, b models.Submission) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func offsetOf(cal stats.Calendar, now time.Time) time.Duration {
	_, sec := now.In(cal.Location()).Zone()
	return time.Duration(sec) * time.Second
}
