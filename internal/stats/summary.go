package stats

import (
	"fmt"

	"github.com/thinkscotty/cfdash/internal/models"
)

// RatingPoint is the user's rating after one contest.
type RatingPoint struct {
	Contest string `json:"contest"`
	Rating  int    `json:"rating"`
}

// Summary is the aggregate view over a user's full history.
type Summary struct {
	TotalSolved       int            `json:"total_solved"`
	TotalSubmissions  int            `json:"total_submissions"`
	TotalContests     int            `json:"total_contests"`
	ProblemsByRating  map[string]int `json:"problems_by_rating"`
	Histogram         Histogram      `json:"histogram"`
	AverageRating     int            `json:"average_rating"`
	HasAverage        bool           `json:"has_average_rating"`
	SolveRate         float64        `json:"solve_rate"`
	HasSolveRate      bool           `json:"has_solve_rate"`
	ActiveDays        int            `json:"active_days"`
	Activity          []DayCount     `json:"activity"`
	RatingProgression []RatingPoint  `json:"rating_progression"`
}

// Summarize derives the dashboard summary. Empty inputs yield zero counts,
// empty collections and undefined averages, never an error.
func Summarize(subs []models.Submission, contests []models.PastContest, cal Calendar) Summary {
	ss := NewSolveSet(subs)
	hist := RatingHistogram(ss)
	activity := cal.Activity(subs)

	s := Summary{
		TotalSolved:       ss.Len(),
		TotalSubmissions:  len(subs),
		TotalContests:     len(contests),
		ProblemsByRating:  hist.ByLabel(),
		Histogram:         hist,
		ActiveDays:        len(activity),
		Activity:          activity,
		RatingProgression: make([]RatingPoint, 0, len(contests)),
	}
	s.AverageRating, s.HasAverage = AverageRating(ss)
	if s.TotalSubmissions > 0 {
		s.SolveRate = float64(s.TotalSolved) / float64(s.TotalSubmissions)
		s.HasSolveRate = true
	}
	for _, c := range contests {
		s.RatingProgression = append(s.RatingProgression, RatingPoint{Contest: c.Name, Rating: c.NewRating})
	}
	return s
}

// AverageLabel renders the average rating or "N/A".
func (s Summary) AverageLabel() string {
	return FormatAverage(s.AverageRating, s.HasAverage)
}

// SolveRateLabel renders the solve rate as a percentage or "N/A".
func (s Summary) SolveRateLabel() string {
	if !s.HasSolveRate {
		return NotApplicable
	}
	return fmt.Sprintf("%.1f%%", s.SolveRate*100)
}
