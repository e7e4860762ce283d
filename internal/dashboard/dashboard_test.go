package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thinkscotty/cfdash/internal/models"
	"github.com/thinkscotty/cfdash/internal/stats"
)

type fakeSource struct {
	user     models.User
	subs     []models.Submission
	history  []models.PastContest
	catalog  []models.Problem
	upcoming []models.UpcomingContest

	subsErr error
	// block makes UserRating wait for cancellation.
	block bool
}

func (f *fakeSource) UserInfo(ctx context.Context, handle string) (models.User, error) {
	return f.user, nil
}

func (f *fakeSource) UserSubmissions(ctx context.Context, handle string) ([]models.Submission, error) {
	return f.subs, f.subsErr
}

func (f *fakeSource) UserRating(ctx context.Context, handle string) ([]models.PastContest, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.history, nil
}

func (f *fakeSource) Problems(ctx context.Context) ([]models.Problem, error) {
	return f.catalog, nil
}

func (f *fakeSource) UpcomingContests(ctx context.Context) ([]models.UpcomingContest, error) {
	return f.upcoming, nil
}

func prob(contest int, index string, rating int, tags ...string) models.Problem {
	p := models.Problem{ContestID: contest, Index: index, Name: "P" + index, Tags: tags}
	if rating > 0 {
		p.Rating = models.RatingOf(rating)
	}
	return p
}

func newFixture() *fakeSource {
	a := prob(1, "A", 800, "math")
	b := prob(1, "B", 1200, "dp", "math")
	c := prob(2, "C", 0, "greedy")
	day := func(d, h int) time.Time { return time.Date(2024, 5, d, h, 0, 0, 0, time.UTC) }
	return &fakeSource{
		user: models.User{Handle: "alice", Rating: models.RatingOf(1500)},
		subs: []models.Submission{
			{ID: 4, Problem: b, Verdict: models.VerdictOK, CreatedAt: day(3, 10)},
			{ID: 3, Problem: b, Verdict: models.VerdictWrongAnswer, CreatedAt: day(3, 9)},
			{ID: 2, Problem: a, Verdict: models.VerdictOK, CreatedAt: day(1, 12)},
			{ID: 1, Problem: a, Verdict: models.VerdictOK, CreatedAt: day(1, 11)},
		},
		history: []models.PastContest{
			{ID: 10, Name: "Round 10", Rank: 300, OldRating: 1400, NewRating: 1450},
			{ID: 11, Name: "Round 11", Rank: 120, OldRating: 1450, NewRating: 1500},
		},
		catalog: []models.Problem{a, b, c},
		upcoming: []models.UpcomingContest{
			{ID: 20, Name: "Round 20", StartTime: day(20, 14)},
		},
	}
}

func TestDashboard(t *testing.T) {
	l := New(newFixture(), stats.NewCalendar(stats.UTCOffset), 0)
	v, err := l.Dashboard(context.Background(), "alice")
	if err != nil {
		t.Fatal(err)
	}
	if v.User.Handle != "alice" {
		t.Errorf("User = %+v", v.User)
	}
	s := v.Summary
	if s.TotalSolved != 2 || s.TotalSubmissions != 4 || s.TotalContests != 2 || s.ActiveDays != 2 {
		t.Errorf("Summary = %+v", s)
	}
	if s.AverageLabel() != "1000" || s.SolveRateLabel() != "50.0%" {
		t.Errorf("labels = %s, %s", s.AverageLabel(), s.SolveRateLabel())
	}
	if len(v.MostSolved) == 0 || v.MostSolved[0].Tag != "math" || v.MostSolved[0].Solved != 3 {
		t.Errorf("MostSolved = %+v", v.MostSolved)
	}
	if len(v.Recent) != 4 || v.Recent[0].ID != 4 {
		t.Errorf("Recent = %+v", v.Recent)
	}
}

func TestLoadFailureWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	src := newFixture()
	src.subsErr = cause
	src.block = true

	l := New(src, stats.NewCalendar(stats.UTCOffset), 0)
	_, err := l.Dashboard(context.Background(), "alice")
	if !errors.Is(err, ErrLoadFailed) {
		t.Errorf("error = %v, want ErrLoadFailed", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want cause in chain", err)
	}
}

func TestProblems(t *testing.T) {
	l := New(newFixture(), stats.NewCalendar(stats.UTCOffset), 2)
	q := stats.ProblemQuery{Rating: stats.RatingFilter{Any: true}}

	v, err := l.Problems(context.Background(), "alice", q, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v.Page.TotalItems != 3 || v.Page.TotalPages != 2 || len(v.Page.Items) != 2 {
		t.Fatalf("Page = %+v", v.Page)
	}
	if !v.Page.Items[0].Solved || !v.Page.Items[1].Solved {
		t.Errorf("solved flags = %+v", v.Page.Items)
	}

	q.Status = stats.StatusUnsolved
	v, err = l.Problems(context.Background(), "alice", q, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Page.Items) != 1 || v.Page.Items[0].Index != "C" || v.Page.Items[0].Solved {
		t.Errorf("unsolved = %+v", v.Page.Items)
	}
	if len(v.Tags) != 3 || len(v.Ratings) != 2 {
		t.Errorf("facets = %v, %v", v.Tags, v.Ratings)
	}
}

func TestSolvedAndSubmissions(t *testing.T) {
	l := New(newFixture(), stats.NewCalendar(stats.UTCOffset), 0)

	solved, err := l.Solved(context.Background(), "alice", 1)
	if err != nil {
		t.Fatal(err)
	}
	if solved.Page.TotalItems != 2 || solved.Page.Items[0].ID != 4 || solved.Page.Items[1].ID != 2 {
		t.Errorf("Solved = %+v", solved.Page.Items)
	}

	subs, err := l.Submissions(context.Background(), "alice", string(models.VerdictWrongAnswer), 1)
	if err != nil {
		t.Fatal(err)
	}
	if subs.Page.TotalItems != 1 || len(subs.Verdicts) != 2 {
		t.Errorf("Submissions = %+v", subs)
	}

	empty, err := l.Submissions(context.Background(), "alice", "", 5)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Page.Items == nil || len(empty.Page.Items) != 0 {
		t.Errorf("page past the end = %v, want empty", empty.Page.Items)
	}
}

func TestContests(t *testing.T) {
	l := New(newFixture(), stats.NewCalendar(stats.UTCOffset), 0)
	v, err := l.Contests(context.Background(), "alice", 1)
	if err != nil {
		t.Fatal(err)
	}
	if v.Page.Items[0].ID != 11 {
		t.Errorf("first row = %d, want newest contest", v.Page.Items[0].ID)
	}
	if v.Progression[0].Rating != 1450 || v.Progression[1].Rating != 1500 {
		t.Errorf("Progression = %+v", v.Progression)
	}
	if v.Best == nil || v.Best.ID != 11 {
		t.Errorf("Best = %+v", v.Best)
	}
}

func TestCalendar(t *testing.T) {
	l := New(newFixture(), stats.NewCalendar(stats.UTCOffset), 0)
	l.now = func() time.Time { return time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name      string
		month     string
		day       string
		wantMonth string
		wantTotal int
		wantDay   int
		advance   bool
	}{
		{"current month by default", "", "", "2024-05", 4, -1, false},
		{"earlier month", "2024-04", "", "2024-04", 0, -1, true},
		{"future clamped", "2025-01", "", "2024-05", 4, -1, false},
		{"day drill-down", "", "2024-05-03", "2024-05", 4, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := l.Calendar(context.Background(), "alice", tt.month, tt.day)
			if err != nil {
				t.Fatal(err)
			}
			if got := v.Activity.Month.String(); got != tt.wantMonth {
				t.Errorf("month = %s, want %s", got, tt.wantMonth)
			}
			if v.Activity.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", v.Activity.Total, tt.wantTotal)
			}
			if v.CanAdvance != tt.advance {
				t.Errorf("CanAdvance = %v", v.CanAdvance)
			}
			switch {
			case tt.wantDay < 0 && v.Day != nil:
				t.Errorf("Day = %+v, want none", v.Day)
			case tt.wantDay >= 0 && (v.Day == nil || len(v.Day.Submissions) != tt.wantDay):
				t.Errorf("Day = %+v, want %d submissions", v.Day, tt.wantDay)
			}
		})
	}

	if _, err := l.Calendar(context.Background(), "alice", "May", ""); !errors.Is(err, ErrLoadFailed) {
		t.Errorf("bad month error = %v", err)
	}
	v, _ := l.Calendar(context.Background(), "alice", "", "")
	if v.Offset != "UTC" {
		t.Errorf("Offset = %q", v.Offset)
	}
}

func TestUpcoming(t *testing.T) {
	l := New(newFixture(), stats.NewCalendar(stats.UTCOffset), 0)
	v, err := l.Upcoming(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Contests) != 1 || v.Contests[0].ID != 20 {
		t.Errorf("Upcoming = %+v", v.Contests)
	}
}
