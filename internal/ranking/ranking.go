// Package ranking assigns dense competition ranks to the results of one exam:
// higher marks rank first, faster completion breaks score ties, and results
// with identical (marks, time) pairs share a rank with no gaps inserted.
package ranking

import "sort"

// Entry pairs a result with its scoring key. Rank is filled in by Assign.
type Entry struct {
	ResultID      uint
	ObtainedMarks int
	TimeTaken     int
	Rank          int
}

// Assign returns the entries ordered best-first with dense competition ranks
// applied. An entry whose (ObtainedMarks, TimeTaken) pair equals its
// predecessor's inherits the predecessor's rank; the next distinct entry takes
// its 1-indexed position. The input slice is not modified, and recomputing
// over an unchanged result set yields identical ranks.
//
// This is a full O(n log n) recompute, fine for classroom-sized cohorts. A
// larger deployment would want an incremental order-statistics structure, but
// must keep this exact tie policy.
func Assign(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ObtainedMarks != ranked[j].ObtainedMarks {
			return ranked[i].ObtainedMarks > ranked[j].ObtainedMarks
		}
		return ranked[i].TimeTaken < ranked[j].TimeTaken
	})

	for i := range ranked {
		rank := i + 1
		if i > 0 &&
			ranked[i].ObtainedMarks == ranked[i-1].ObtainedMarks &&
			ranked[i].TimeTaken == ranked[i-1].TimeTaken {
			rank = ranked[i-1].Rank
		}
		ranked[i].Rank = rank
	}

	return ranked
}
