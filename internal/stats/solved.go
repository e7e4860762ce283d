// Package stats derives aggregate views from raw Codeforces submissions,
// contests and problems. Every function here is pure.
package stats

import "github.com/thinkscotty/cfdash/internal/models"

// SolveSet is the set of distinct problems a user has solved.
type SolveSet struct {
	order   []models.ProblemID
	first   map[models.ProblemID]models.Submission
	ratings map[models.ProblemID]int
}

// NewSolveSet reduces submissions to the distinct accepted problems. The
// first accepted submission seen for a problem defines its rating; later
// ones never overwrite it.
func NewSolveSet(subs []models.Submission) *SolveSet {
	ss := &SolveSet{
		first:   make(map[models.ProblemID]models.Submission),
		ratings: make(map[models.ProblemID]int),
	}
	for _, sub := range subs {
		if !sub.Verdict.Accepted() {
			continue
		}
		id := sub.Problem.ID()
		if _, seen := ss.first[id]; seen {
			continue
		}
		ss.order = append(ss.order, id)
		ss.first[id] = sub
		if r, ok := sub.Problem.Rating.Get(); ok {
			ss.ratings[id] = r
		}
	}
	return ss
}

func (ss *SolveSet) Len() int { return len(ss.order) }

func (ss *SolveSet) Has(id models.ProblemID) bool {
	_, ok := ss.first[id]
	return ok
}

// Rating returns the recorded rating of a solved problem.
func (ss *SolveSet) Rating(id models.ProblemID) (int, bool) {
	r, ok := ss.ratings[id]
	return r, ok
}

// Ratings returns a copy of the problem→rating mapping for rated solves.
func (ss *SolveSet) Ratings() map[models.ProblemID]int {
	out := make(map[models.ProblemID]int, len(ss.ratings))
	for id, r := range ss.ratings {
		out[id] = r
	}
	return out
}

// RatedLen is the number of solved problems that carry a rating.
func (ss *SolveSet) RatedLen() int { return len(ss.ratings) }

// Solved returns the first accepted submission for each solved problem, in
// the order the problems were first solved in the input.
func (ss *SolveSet) Solved() []models.Submission {
	out := make([]models.Submission, 0, len(ss.order))
	for _, id := range ss.order {
		out = append(out, ss.first[id])
	}
	return out
}
