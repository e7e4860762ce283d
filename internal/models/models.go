package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// ProblemID is the canonical identity of a problem: the contest it belongs to
// plus its index within that contest.
type ProblemID struct {
	ContestID int    `json:"contest_id"`
	Index     string `json:"index"`
}

func (id ProblemID) String() string {
	return strconv.Itoa(id.ContestID) + id.Index
}

// Rating is an optional numeric rating. The zero value is unrated.
type Rating struct {
	value int
	set   bool
}

// RatingOf returns a defined rating.
func RatingOf(v int) Rating {
	return Rating{value: v, set: true}
}

// Get returns the rating and whether it is defined.
func (r Rating) Get() (int, bool) {
	return r.value, r.set
}

// OrZero returns the rating, or 0 when unrated.
func (r Rating) OrZero() int {
	if !r.set {
		return 0
	}
	return r.value
}

func (r Rating) Defined() bool { return r.set }

// String returns the numeric rating or "Unrated".
func (r Rating) String() string {
	if !r.set {
		return UnratedLabel
	}
	return strconv.Itoa(r.value)
}

// UnratedLabel names the bucket for problems and users without a rating.
const UnratedLabel = "Unrated"

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(r.value)), nil
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rating{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = RatingOf(v)
	return nil
}

// Verdict is the judge outcome of a submission. The set of values is open;
// only VerdictOK counts as accepted. The empty verdict means still pending.
type Verdict string

const (
	VerdictOK                    Verdict = "OK"
	VerdictWrongAnswer           Verdict = "WRONG_ANSWER"
	VerdictTimeLimitExceeded     Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimitExceeded   Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError          Verdict = "RUNTIME_ERROR"
	VerdictCompilationError      Verdict = "COMPILATION_ERROR"
	VerdictIdlenessLimitExceeded Verdict = "IDLENESS_LIMIT_EXCEEDED"
	VerdictFailed                Verdict = "FAILED"
	VerdictPartial               Verdict = "PARTIAL"
	VerdictChallenged            Verdict = "CHALLENGED"
	VerdictSkipped               Verdict = "SKIPPED"
	VerdictTesting               Verdict = "TESTING"
	VerdictRejected              Verdict = "REJECTED"
	VerdictPending               Verdict = ""
)

func (v Verdict) Accepted() bool { return v == VerdictOK }

type Problem struct {
	ContestID   int      `json:"contest_id"`
	Index       string   `json:"index"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Points      float64  `json:"points,omitempty"`
	Rating      Rating   `json:"rating"`
	Tags        []string `json:"tags"`
	SolvedCount int      `json:"solved_count,omitempty"`
}

func (p Problem) ID() ProblemID {
	return ProblemID{ContestID: p.ContestID, Index: p.Index}
}

func (p Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Submission struct {
	ID          int64     `json:"id"`
	ContestID   int       `json:"contest_id"`
	Problem     Problem   `json:"problem"`
	Verdict     Verdict   `json:"verdict"`
	Language    string    `json:"language,omitempty"`
	PassedTests int       `json:"passed_tests"`
	TimeMillis  int       `json:"time_millis"`
	MemoryBytes int64     `json:"memory_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	Handle       string    `json:"handle"`
	Rating       Rating    `json:"rating"`
	MaxRating    Rating    `json:"max_rating"`
	Rank         string    `json:"rank,omitempty"`
	MaxRank      string    `json:"max_rank,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	Country      string    `json:"country,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Contribution int       `json:"contribution"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RankOrUnrated returns the rank title, or "Unrated" for users without one.
func (u User) RankOrUnrated() string {
	if u.Rank == "" {
		return UnratedLabel
	}
	return u.Rank
}

func (u User) MaxRankOrUnrated() string {
	if u.MaxRank == "" {
		return UnratedLabel
	}
	return u.MaxRank
}

// ContestEntry is either a PastContest or an UpcomingContest.
type ContestEntry interface {
	ContestID() int
	ContestName() string
	contestEntry()
}

// PastContest is one rated participation from a user's rating history.
type PastContest struct {
	ID        int       `json:"contest_id"`
	Name      string    `json:"contest_name"`
	Rank      int       `json:"rank"`
	OldRating int       `json:"old_rating"`
	NewRating int       `json:"new_rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c PastContest) ContestID() int      { return c.ID }
func (c PastContest) ContestName() string { return c.Name }
func (PastContest) contestEntry()         {}

// Delta is the rating change caused by the contest.
func (c PastContest) Delta() int {
	return c.NewRating - c.OldRating
}

// UpcomingContest is a contest announcement that has not started yet.
type UpcomingContest struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

func (c UpcomingContest) ContestID() int      { return c.ID }
func (c UpcomingContest) ContestName() string { return c.Name }
func (UpcomingContest) contestEntry()         {}

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
