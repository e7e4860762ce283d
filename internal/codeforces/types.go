package codeforces

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/thinkscotty/cfdash/internal/models"
)

// Wire types mirror the Codeforces API objects; only consumed fields are kept.

type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type apiUser struct {
	Handle                  string        `json:"handle"`
	Rating                  models.Rating `json:"rating"`
	MaxRating               models.Rating `json:"maxRating"`
	Rank                    string        `json:"rank"`
	MaxRank                 string        `json:"maxRank"`
	Avatar                  string        `json:"titlePhoto"`
	Country                 string        `json:"country"`
	Organization            string        `json:"organization"`
	Contribution            int           `json:"contribution"`
	RegistrationTimeSeconds int64         `json:"registrationTimeSeconds"`
}

type apiProblem struct {
	ContestID int           `json:"contestId"`
	Index     string        `json:"index"`
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	Points    float64       `json:"points"`
	Rating    models.Rating `json:"rating"`
	Tags      []string      `json:"tags"`
}

type apiProblemStatistics struct {
	ContestID   int    `json:"contestId"`
	Index       string `json:"index"`
	SolvedCount int    `json:"solvedCount"`
}

type apiProblemset struct {
	Problems   []apiProblem           `json:"problems"`
	Statistics []apiProblemStatistics `json:"problemStatistics"`
}

type apiSubmission struct {
	ID                  int64      `json:"id"`
	ContestID           int        `json:"contestId"`
	CreationTimeSeconds int64      `json:"creationTimeSeconds"`
	Problem             apiProblem `json:"problem"`
	ProgrammingLanguage string     `json:"programmingLanguage"`
	Verdict             string     `json:"verdict"`
	PassedTestCount     int        `json:"passedTestCount"`
	TimeConsumedMillis  int        `json:"timeConsumedMillis"`
	MemoryConsumedBytes int64      `json:"memoryConsumedBytes"`
}

type apiRatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	Handle                  string `json:"handle"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

type apiContest struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Type             string `json:"type"`
	Phase            string `json:"phase"`
	DurationSeconds  int64  `json:"durationSeconds"`
	StartTimeSeconds int64  `json:"startTimeSeconds"`
}

// phaseBefore marks contests that have not started.
const phaseBefore = "BEFORE"

func unixUTC(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func (u apiUser) toModel() models.User {
	return models.User{
		Handle:       u.Handle,
		Rating:       u.Rating,
		MaxRating:    u.MaxRating,
		Rank:         u.Rank,
		MaxRank:      u.MaxRank,
		Avatar:       u.Avatar,
		Country:      u.Country,
		Organization: u.Organization,
		Contribution: u.Contribution,
		RegisteredAt: unixUTC(u.RegistrationTimeSeconds),
	}
}

func (p apiProblem) toModel() models.Problem {
	return models.Problem{
		ContestID: p.ContestID,
		Index:     p.Index,
		Name:      p.Name,
		Type:      p.Type,
		Points:    p.Points,
		Rating:    p.Rating,
		Tags:      p.Tags,
	}
}

func (s apiSubmission) toModel() models.Submission {
	return models.Submission{
		ID:          s.ID,
		ContestID:   s.ContestID,
		Problem:     s.Problem.toModel(),
		Verdict:     models.Verdict(s.Verdict),
		Language:    s.ProgrammingLanguage,
		PassedTests: s.PassedTestCount,
		TimeMillis:  s.TimeConsumedMillis,
		MemoryBytes: s.MemoryConsumedBytes,
		CreatedAt:   unixUTC(s.CreationTimeSeconds),
	}
}

func (r apiRatingChange) toModel() models.PastContest {
	return models.PastContest{
		ID:        r.ContestID,
		Name:      r.ContestName,
		Rank:      r.Rank,
		OldRating: r.OldRating,
		NewRating: r.NewRating,
		UpdatedAt: unixUTC(r.RatingUpdateTimeSeconds),
	}
}

func (ps apiProblemset) toModel() []models.Problem {
	solved := make(map[models.ProblemID]int, len(ps.Statistics))
	for _, st := range ps.Statistics {
		solved[models.ProblemID{ContestID: st.ContestID, Index: st.Index}] = st.SolvedCount
	}
	out := make([]models.Problem, 0, len(ps.Problems))
	for _, p := range ps.Problems {
		m := p.toModel()
		m.SolvedCount = solved[m.ID()]
		out = append(out, m)
	}
	return out
}

// upcoming keeps contests that have not started, earliest first.
func upcoming(contests []apiContest) []models.UpcomingContest {
	out := make([]models.UpcomingContest, 0)
	for _, c := range contests {
		if c.Phase != phaseBefore {
			continue
		}
		out = append(out, models.UpcomingContest{
			ID:        c.ID,
			Name:      c.Name,
			Type:      c.Type,
			StartTime: unixUTC(c.StartTimeSeconds),
			Duration:  time.Duration(c.DurationSeconds) * time.Second,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}
