package ranking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ranksOf(entries []Entry) map[uint]int {
	ranks := make(map[uint]int, len(entries))
	for _, entry := range entries {
		ranks[entry.ResultID] = entry.Rank
	}
	return ranks
}

func TestAssignOrdersByMarksThenTime(t *testing.T) {
	entries := []Entry{
		{ResultID: 1, ObtainedMarks: 70, TimeTaken: 10},
		{ResultID: 2, ObtainedMarks: 90, TimeTaken: 100},
		{ResultID: 3, ObtainedMarks: 80, TimeTaken: 50},
		{ResultID: 4, ObtainedMarks: 80, TimeTaken: 60},
	}

	ranked := Assign(entries)

	require.Equal(t, uint(2), ranked[0].ResultID)
	require.Equal(t, uint(3), ranked[1].ResultID)
	require.Equal(t, uint(4), ranked[2].ResultID)
	require.Equal(t, uint(1), ranked[3].ResultID)
	require.Equal(t, map[uint]int{2: 1, 3: 2, 4: 3, 1: 4}, ranksOf(ranked))
}

func TestAssignSharesRankOnExactTies(t *testing.T) {
	entries := []Entry{
		{ResultID: 1, ObtainedMarks: 90, TimeTaken: 100},
		{ResultID: 2, ObtainedMarks: 80, TimeTaken: 50},
		{ResultID: 3, ObtainedMarks: 80, TimeTaken: 50},
		{ResultID: 4, ObtainedMarks: 70, TimeTaken: 10},
	}

	ranks := ranksOf(Assign(entries))

	require.Equal(t, 1, ranks[1])
	require.Equal(t, 2, ranks[2])
	require.Equal(t, 2, ranks[3])
	// Next distinct entry takes its positional rank, not the next integer.
	require.Equal(t, 4, ranks[4])
}

func TestAssignEqualMarksDifferentTimesDoNotTie(t *testing.T) {
	entries := []Entry{
		{ResultID: 1, ObtainedMarks: 80, TimeTaken: 50},
		{ResultID: 2, ObtainedMarks: 80, TimeTaken: 60},
	}

	ranks := ranksOf(Assign(entries))
	require.Equal(t, 1, ranks[1])
	require.Equal(t, 2, ranks[2])
}

func TestAssignIsIdempotent(t *testing.T) {
	entries := []Entry{
		{ResultID: 1, ObtainedMarks: 50, TimeTaken: 30},
		{ResultID: 2, ObtainedMarks: 50, TimeTaken: 30},
		{ResultID: 3, ObtainedMarks: 40, TimeTaken: 5},
	}

	first := Assign(entries)
	second := Assign(first)
	require.Equal(t, ranksOf(first), ranksOf(second))
}

func TestAssignDoesNotModifyInput(t *testing.T) {
	entries := []Entry{
		{ResultID: 1, ObtainedMarks: 10, TimeTaken: 5},
		{ResultID: 2, ObtainedMarks: 20, TimeTaken: 5},
	}

	_ = Assign(entries)
	require.Zero(t, entries[0].Rank)
	require.Zero(t, entries[1].Rank)
	require.Equal(t, uint(1), entries[0].ResultID)
}

func TestAssignEmpty(t *testing.T) {
	require.Empty(t, Assign(nil))
	require.Empty(t, Assign([]Entry{}))
}
