package stats

import (
	"math"
	"sort"
	"strconv"

	"github.com/thinkscotty/cfdash/internal/models"
)

// Bucket is one bar of the rating histogram.
type Bucket struct {
	Label  string `json:"label"`
	Rating int    `json:"rating,omitempty"`
	Rated  bool   `json:"rated"`
	Count  int    `json:"count"`
}

// Histogram counts distinct solved problems per rating.
type Histogram []Bucket

// RatingHistogram buckets the solve set by rating. Rated buckets come first in
// ascending numeric order; unrated solves collapse into a trailing "Unrated"
// bucket, present only when non-empty.
func RatingHistogram(ss *SolveSet) Histogram {
	counts := make(map[int]int)
	for _, r := range ss.ratings {
		counts[r]++
	}

	h := make(Histogram, 0, len(counts)+1)
	for r, n := range counts {
		h = append(h, Bucket{Label: strconv.Itoa(r), Rating: r, Rated: true, Count: n})
	}
	sort.Slice(h, func(i, j int) bool { return h[i].Rating < h[j].Rating })

	if unrated := ss.Len() - ss.RatedLen(); unrated > 0 {
		h = append(h, Bucket{Label: models.UnratedLabel, Count: unrated})
	}
	return h
}

// ByLabel returns the histogram as a label→count map.
func (h Histogram) ByLabel() map[string]int {
	out := make(map[string]int, len(h))
	for _, b := range h {
		out[b.Label] = b.Count
	}
	return out
}

// Rated returns only the buckets with a defined rating.
func (h Histogram) Rated() Histogram {
	out := make(Histogram, 0, len(h))
	for _, b := range h {
		if b.Rated {
			out = append(out, b)
		}
	}
	return out
}

// Max returns the largest bucket count, or 0 for an empty histogram.
func (h Histogram) Max() int {
	m := 0
	for _, b := range h {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}

// AverageRating is the rounded mean rating of rated solves. ok is false when
// no solved problem has a rating.
func AverageRating(ss *SolveSet) (avg int, ok bool) {
	if len(ss.ratings) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range ss.ratings {
		total += r
	}
	return int(math.Round(float64(total) / float64(len(ss.ratings)))), true
}

// NotApplicable is shown in place of undefined averages and rates.
const NotApplicable = "N/A"

// FormatAverage renders an average rating or "N/A".
func FormatAverage(avg int, ok bool) string {
	if !ok {
		return NotApplicable
	}
	return strconv.Itoa(avg)
}
