// Package stats computes corpus aggregates for charts.
package stats

import (
	"sort"

	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// DefaultTopTags is the tag chart size.
const DefaultTopTags = 10

// TagCount is a tag with its occurrence count.
type TagCount struct {
	Tag   string
	Count int
}

// ProgramCount is a program with its subject count.
type ProgramCount struct {
	Program program.Program
	Count   int
}

// TagFrequency counts every tag occurrence, skips excluded tags and returns
// the k most frequent. Ties keep first-seen order. k <= 0 returns all.
func TagFrequency(subjects []subject.Subject, excluded []string, k int) []TagCount {
	skip := make(map[string]struct{}, len(excluded))
	for _, t := range excluded {
		skip[t] = struct{}{}
	}

	pos := make(map[string]int)
	var counts []TagCount
	for i := range subjects {
		for _, t := range subjects[i].Tags() {
			if _, ok := skip[t]; ok {
				continue
			}
			if p, ok := pos[t]; ok {
				counts[p].Count++
				continue
			}
			pos[t] = len(counts)
			counts = append(counts, TagCount{Tag: t, Count: 1})
		}
	}

	sort.SliceStable(counts, func(a, b int) bool { return counts[a].Count > counts[b].Count })
	if k > 0 && len(counts) > k {
		counts = counts[:k]
	}
	return counts
}

// ProgramDistribution counts subjects per known program, in canonical order.
func ProgramDistribution(subjects []subject.Subject) []ProgramCount {
	all := program.All()
	idx := make(map[program.Program]int, len(all))
	out := make([]ProgramCount, len(all))
	for i, p := range all {
		idx[p] = i
		out[i] = ProgramCount{Program: p}
	}
	for i := range subjects {
		if k, ok := idx[subjects[i].Program()]; ok {
			out[k].Count++
		}
	}
	return out
}

// Total sums program counts.
func Total(counts []ProgramCount) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
