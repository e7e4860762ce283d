package stats

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/thinkscotty/cfdash/internal/models"
)

// Status filters problems against the user's solve set.
type Status string

const (
	StatusAll      Status = "all"
	StatusSolved   Status = "solved"
	StatusUnsolved Status = "unsolved"
)

// SortOrder orders the filtered problem list.
type SortOrder string

const (
	SortDefault    SortOrder = "default"
	SortRatingUp   SortOrder = "rating-up"
	SortRatingDown SortOrder = "rating-down"
)

// UnratedFilter is the rating filter value matching only unrated problems.
const UnratedFilter = "unrated"

// RatingFilter selects problems by exact rating.
type RatingFilter struct {
	Any     bool
	Unrated bool
	Value   int
}

// ParseRatingFilter accepts "", "unrated" or a number.
func ParseRatingFilter(s string) (RatingFilter, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return RatingFilter{Any: true}, nil
	case strings.EqualFold(s, UnratedFilter):
		return RatingFilter{Unrated: true}, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return RatingFilter{}, fmt.Errorf("invalid rating filter %q", s)
	}
	return RatingFilter{Value: v}, nil
}

func (f RatingFilter) String() string {
	switch {
	case f.Any:
		return ""
	case f.Unrated:
		return UnratedFilter
	}
	return strconv.Itoa(f.Value)
}

func (f RatingFilter) matches(r models.Rating) bool {
	if f.Any {
		return true
	}
	v, ok := r.Get()
	if f.Unrated {
		return !ok
	}
	return ok && v == f.Value
}

// ProblemQuery holds the optional, conjunctive problem list parameters.
type ProblemQuery struct {
	Search string
	Rating RatingFilter
	Tag    string
	Status Status
	Sort   SortOrder
}

// ParseStatus maps a query value to a Status, defaulting to StatusAll.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusSolved, StatusUnsolved:
		return Status(s)
	}
	return StatusAll
}

// ParseSortOrder maps a query value to a SortOrder, defaulting to catalog order.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortRatingUp, SortRatingDown:
		return SortOrder(s)
	}
	return SortDefault
}

// FilterProblems applies q to the catalog. The result is a new slice; the
// catalog is left untouched. In rating sorts an unrated problem counts as 0.
func FilterProblems(catalog []models.Problem, solved *SolveSet, q ProblemQuery) []models.Problem {
	search := strings.ToLower(q.Search)
	out := make([]models.Problem, 0, len(catalog))
	for _, p := range catalog {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if !q.Rating.matches(p.Rating) {
			continue
		}
		if q.Tag != "" && !p.HasTag(q.Tag) {
			continue
		}
		switch q.Status {
		case StatusSolved:
			if solved == nil || !solved.Has(p.ID()) {
				continue
			}
		case StatusUnsolved:
			if solved != nil && solved.Has(p.ID()) {
				continue
			}
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortRatingUp:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating.OrZero() < out[j].Rating.OrZero() })
	case SortRatingDown:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating.OrZero() > out[j].Rating.OrZero() })
	}
	return out
}

// CatalogTags returns every tag in the catalog, sorted.
func CatalogTags(catalog []models.Problem) []string {
	set := make(map[string]struct{})
	for _, p := range catalog {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// CatalogRatings returns every defined rating in the catalog, ascending.
func CatalogRatings(catalog []models.Problem) []int {
	set := make(map[int]struct{})
	for _, p := range catalog {
		if r, ok := p.Rating.Get(); ok {
			set[r] = struct{}{}
		}
	}
	out := make([]int, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// FilterSubmissions keeps submissions with the given verdict. An empty
// verdict or "all" keeps everything.
func FilterSubmissions(subs []models.Submission, verdict string) []models.Submission {
	if verdict == "" || verdict == string(StatusAll) {
		return subs
	}
	out := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		if string(s.Verdict) == verdict {
			out = append(out, s)
		}
	}
	return out
}

// Verdicts lists the distinct verdicts present in subs, sorted.
func Verdicts(subs []models.Submission) []models.Verdict {
	set := make(map[models.Verdict]struct{})
	for _, s := range subs {
		set[s.Verdict] = struct{}{}
	}
	out := make([]models.Verdict, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
