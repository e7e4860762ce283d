package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/thinkscotty/cfdash/internal/models"
)

func sub(id int64, contest int, index string, rating int, verdict models.Verdict, tags ...string) models.Submission {
	p := models.Problem{ContestID: contest, Index: index, Name: "P" + index, Tags: tags}
	if rating > 0 {
		p.Rating = models.RatingOf(rating)
	}
	return models.Submission{ID: id, ContestID: contest, Problem: p, Verdict: verdict}
}

func TestSolveSetScenario(t *testing.T) {
	subs := []models.Submission{
		sub(0, 1, "A", 800, models.VerdictOK),
		sub(0, 1, "A", 800, models.VerdictOK),
		sub(0, 2, "B", 1200, models.VerdictWrongAnswer),
	}
	ss := NewSolveSet(subs)
	if ss.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ss.Len())
	}
	hist := RatingHistogram(ss)
	if got, want := hist.ByLabel(), map[string]int{"800": 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("ByLabel() = %v, want %v", got, want)
	}
	avg, ok := AverageRating(ss)
	if !ok || avg != 800 {
		t.Errorf("AverageRating() = %d, %v, want 800, true", avg, ok)
	}
}

func TestSolveSetEmpty(t *testing.T) {
	ss := NewSolveSet(nil)
	if ss.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ss.Len())
	}
	if got := RatingHistogram(ss).ByLabel(); len(got) != 0 {
		t.Errorf("ByLabel() = %v, want empty", got)
	}
	avg, ok := AverageRating(ss)
	if ok {
		t.Errorf("AverageRating() ok = true, want false")
	}
	if got := FormatAverage(avg, ok); got != "N/A" {
		t.Errorf("FormatAverage() = %q, want N/A", got)
	}
}

func TestSolveSetOrderAndDuplicationInvariant(t *testing.T) {
	base := []models.Submission{
		sub(1, 1, "A", 800, models.VerdictOK),
		sub(2, 1, "B", 0, models.VerdictWrongAnswer),
		sub(3, 1, "B", 0, models.VerdictOK),
		sub(4, 2, "C", 1500, models.VerdictTimeLimitExceeded),
		sub(5, 3, "A", 1900, models.VerdictOK),
	}
	want := NewSolveSet(base).Len()

	reversed := make([]models.Submission, len(base))
	for i, s := range base {
		reversed[len(base)-1-i] = s
	}
	duplicated := append(append([]models.Submission{}, base...), base[0], base[2], base[4], base[4])

	for name, subs := range map[string][]models.Submission{"reversed": reversed, "duplicated": duplicated} {
		t.Run(name, func(t *testing.T) {
			if got := NewSolveSet(subs).Len(); got != want {
				t.Errorf("Len() = %d, want %d", got, want)
			}
		})
	}
}

func TestSolveSetFirstWriteWins(t *testing.T) {
	first := sub(1, 5, "D", 1600, models.VerdictOK)
	second := sub(2, 5, "D", 2000, models.VerdictOK)
	ss := NewSolveSet([]models.Submission{first, second})

	r, ok := ss.Rating(models.ProblemID{ContestID: 5, Index: "D"})
	if !ok || r != 1600 {
		t.Errorf("Rating() = %d, %v, want 1600, true", r, ok)
	}
	solved := ss.Solved()
	if len(solved) != 1 || solved[0].ID != 1 {
		t.Errorf("Solved() = %+v, want first submission only", solved)
	}
}

func TestSolveSetCompositeIdentity(t *testing.T) {
	// "1" + "1A" and "11" + "A" render alike but are different problems.
	subs := []models.Submission{
		sub(1, 1, "1A", 0, models.VerdictOK),
		sub(2, 11, "A", 0, models.VerdictOK),
	}
	if got := NewSolveSet(subs).Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestRatingHistogramOrdering(t *testing.T) {
	subs := []models.Submission{
		sub(1, 1, "A", 2100, models.VerdictOK),
		sub(2, 1, "B", 0, models.VerdictOK),
		sub(3, 1, "C", 900, models.VerdictOK),
		sub(4, 1, "D", 800, models.VerdictOK),
		sub(5, 1, "E", 900, models.VerdictOK),
		sub(6, 1, "F", 0, models.VerdictOK),
	}
	hist := RatingHistogram(NewSolveSet(subs))

	var labels []string
	var counts []int
	for _, b := range hist {
		labels = append(labels, b.Label)
		counts = append(counts, b.Count)
	}
	if want := []string{"800", "900", "2100", "Unrated"}; !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
	if want := []int{1, 2, 1, 2}; !reflect.DeepEqual(counts, want) {
		t.Errorf("counts = %v, want %v", counts, want)
	}
	if got := len(hist.Rated()); got != 3 {
		t.Errorf("len(Rated()) = %d, want 3", got)
	}
	if got := hist.Max(); got != 2 {
		t.Errorf("Max() = %d, want 2", got)
	}
}

func TestAverageRatingRounds(t *testing.T) {
	subs := []models.Submission{
		sub(1, 1, "A", 800, models.VerdictOK),
		sub(2, 1, "B", 900, models.VerdictOK),
		sub(3, 1, "C", 0, models.VerdictOK),
		sub(4, 1, "D", 3000, models.VerdictWrongAnswer),
	}
	avg, ok := AverageRating(NewSolveSet(subs))
	if !ok || avg != 850 {
		t.Errorf("AverageRating() = %d, %v, want 850, true", avg, ok)
	}
}

func TestAverageRatingNoAccepted(t *testing.T) {
	subs := []models.Submission{
		sub(1, 1, "A", 800, models.VerdictWrongAnswer),
		sub(2, 1, "B", 900, models.VerdictCompilationError),
	}
	if _, ok := AverageRating(NewSolveSet(subs)); ok {
		t.Error("AverageRating() ok = true, want false")
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, NewCalendar(UTCOffset))
	if s.TotalSolved != 0 || s.TotalSubmissions != 0 || s.TotalContests != 0 {
		t.Errorf("totals = %d/%d/%d, want zeros", s.TotalSolved, s.TotalSubmissions, s.TotalContests)
	}
	if len(s.ProblemsByRating) != 0 {
		t.Errorf("ProblemsByRating = %v, want empty", s.ProblemsByRating)
	}
	if got := s.AverageLabel(); got != "N/A" {
		t.Errorf("AverageLabel() = %q, want N/A", got)
	}
	if got := s.SolveRateLabel(); got != "N/A" {
		t.Errorf("SolveRateLabel() = %q, want N/A", got)
	}
	if s.ActiveDays != 0 {
		t.Errorf("ActiveDays = %d, want 0", s.ActiveDays)
	}
}

func TestSummarize(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC)

	subs := []models.Submission{
		sub(1, 1, "A", 800, models.VerdictOK),
		sub(2, 1, "B", 1200, models.VerdictWrongAnswer),
		sub(3, 1, "B", 1200, models.VerdictOK),
		sub(4, 2, "A", 0, models.VerdictRuntimeError),
	}
	subs[0].CreatedAt = day1
	subs[1].CreatedAt = day1.Add(time.Hour)
	subs[2].CreatedAt = day2
	subs[3].CreatedAt = day2

	contests := []models.PastContest{
		{ID: 1, Name: "Round 1", OldRating: 0, NewRating: 400},
		{ID: 2, Name: "Round 2", OldRating: 400, NewRating: 650},
	}

	s := Summarize(subs, contests, NewCalendar(UTCOffset))
	if s.TotalSolved != 2 {
		t.Errorf("TotalSolved = %d, want 2", s.TotalSolved)
	}
	if s.TotalSubmissions != 4 {
		t.Errorf("TotalSubmissions = %d, want 4", s.TotalSubmissions)
	}
	if s.TotalContests != 2 {
		t.Errorf("TotalContests = %d, want 2", s.TotalContests)
	}
	if got := s.SolveRateLabel(); got != "50.0%" {
		t.Errorf("SolveRateLabel() = %q, want 50.0%%", got)
	}
	if got := s.AverageLabel(); got != "1000" {
		t.Errorf("AverageLabel() = %q, want 1000", got)
	}
	if s.ActiveDays != 2 {
		t.Errorf("ActiveDays = %d, want 2", s.ActiveDays)
	}
	if len(s.Activity) != 2 || s.Activity[0].Key != "2024-03-01" || s.Activity[0].Count != 2 {
		t.Errorf("Activity = %+v", s.Activity)
	}
	want := []RatingPoint{{Contest: "Round 1", Rating: 400}, {Contest: "Round 2", Rating: 650}}
	if !reflect.DeepEqual(s.RatingProgression, want) {
		t.Errorf("RatingProgression = %+v, want %+v", s.RatingProgression, want)
	}
}
