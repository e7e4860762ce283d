package stats

import (
	"sort"

	"github.com/gosimple/slug"

	"github.com/thinkscotty/cfdash/internal/models"
)

const (
	DefaultMostSolvedTags = 6
	DefaultWeakestTags    = 5
)

// TagStat is the accepted/failed tally for one tag.
type TagStat struct {
	Tag    string `json:"tag"`
	Slug   string `json:"slug"`
	Solved int    `json:"solved"`
	Failed int    `json:"failed"`
}

func (t TagStat) Total() int { return t.Solved + t.Failed }

// FailRate is Failed/(Failed+Solved). ok is false for a tag with no
// occurrences.
func (t TagStat) FailRate() (rate float64, ok bool) {
	total := t.Total()
	if total == 0 {
		return 0, false
	}
	return float64(t.Failed) / float64(total), true
}

// TagReport holds per-tag tallies in first-encountered order.
type TagReport struct {
	Tags []TagStat `json:"tags"`
}

// WeakTag pairs a tag with its defined fail rate.
type WeakTag struct {
	TagStat
	Rate float64 `json:"fail_rate"`
}

// TagPerformance tallies every tag of every distinct submission. A problem
// with several tags increments each of them. Accepted submissions count as
// solved, everything else (including pending) as failed.
func TagPerformance(subs []models.Submission) TagReport {
	index := make(map[string]int)
	seen := make(map[int64]struct{}, len(subs))
	var report TagReport

	for _, sub := range subs {
		// Submissions without an id cannot be told apart and always count.
		if sub.ID != 0 {
			if _, dup := seen[sub.ID]; dup {
				continue
			}
			seen[sub.ID] = struct{}{}
		}

		for _, tag := range sub.Problem.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(report.Tags)
				index[tag] = i
				report.Tags = append(report.Tags, TagStat{Tag: tag, Slug: slug.Make(tag)})
			}
			if sub.Verdict.Accepted() {
				report.Tags[i].Solved++
			} else {
				report.Tags[i].Failed++
			}
		}
	}
	return report
}

// Lookup returns the tally for a tag.
func (r TagReport) Lookup(tag string) (TagStat, bool) {
	for _, t := range r.Tags {
		if t.Tag == tag {
			return t, true
		}
	}
	return TagStat{}, false
}

// MostSolved returns up to n tags with at least one solve, by solved count
// descending. Ties keep first-encountered order.
func (r TagReport) MostSolved(n int) []TagStat {
	out := make([]TagStat, 0, len(r.Tags))
	for _, t := range r.Tags {
		if t.Solved > 0 {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Solved > out[j].Solved })
	return head(out, n)
}

// Weakest returns up to n tags by fail rate descending. Tags without a
// defined fail rate are dropped before ranking; a zero rate is kept. Ties
// keep first-encountered order.
func (r TagReport) Weakest(n int) []WeakTag {
	out := make([]WeakTag, 0, len(r.Tags))
	for _, t := range r.Tags {
		rate, ok := t.FailRate()
		if !ok {
			continue
		}
		out = append(out, WeakTag{TagStat: t, Rate: rate})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return head(out, n)
}

func head[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
