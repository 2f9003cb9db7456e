package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/examhall/examhall-api/internal/models"
)

func windowExam(start, end time.Time, active bool) models.Exam {
	return models.Exam{
		IsActive:  active,
		StartTime: start,
		EndTime:   end,
	}
}

func TestStateOf(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		exam models.Exam
		want State
	}{
		{"inactive wins over time", windowExam(now.Add(-time.Hour), now.Add(time.Hour), false), StateInactive},
		{"before window", windowExam(now.Add(time.Hour), now.Add(2*time.Hour), true), StateUpcoming},
		{"inside window", windowExam(now.Add(-time.Hour), now.Add(time.Hour), true), StateActive},
		{"after window", windowExam(now.Add(-2*time.Hour), now.Add(-time.Hour), true), StateEnded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, StateOf(tc.exam, now))
		})
	}
}

func TestCanJoin(t *testing.T) {
	now := time.Now()
	open := windowExam(now.Add(-time.Hour), now.Add(time.Hour), true)

	require.NoError(t, CanJoin(open, false, now))
	require.ErrorIs(t, CanJoin(open, true, now), ErrAlreadySubmitted)

	upcoming := windowExam(now.Add(time.Hour), now.Add(2*time.Hour), true)
	require.ErrorIs(t, CanJoin(upcoming, false, now), ErrExamNotStarted)

	ended := windowExam(now.Add(-2*time.Hour), now.Add(-time.Hour), true)
	require.ErrorIs(t, CanJoin(ended, false, now), ErrExamEnded)

	disabled := windowExam(now.Add(-time.Hour), now.Add(time.Hour), false)
	require.ErrorIs(t, CanJoin(disabled, false, now), ErrExamNotActive)
}

func TestCanFetchQuestionsIgnoresActiveFlag(t *testing.T) {
	now := time.Now()
	disabled := windowExam(now.Add(-time.Hour), now.Add(time.Hour), false)

	require.NoError(t, CanFetchQuestions(disabled, false, now))
	require.ErrorIs(t, CanFetchQuestions(disabled, true, now), ErrAlreadySubmitted)

	upcoming := windowExam(now.Add(time.Hour), now.Add(2*time.Hour), true)
	require.ErrorIs(t, CanFetchQuestions(upcoming, false, now), ErrExamNotStarted)

	ended := windowExam(now.Add(-2*time.Hour), now.Add(-time.Hour), true)
	require.ErrorIs(t, CanFetchQuestions(ended, false, now), ErrExamEnded)
}

func TestCanSubmitGracePeriod(t *testing.T) {
	now := time.Now()

	inGrace := windowExam(now.Add(-time.Hour), now.Add(-10*time.Second), true)
	require.NoError(t, CanSubmit(inGrace, now))

	atBoundary := windowExam(now.Add(-time.Hour), now.Add(-SubmitGracePeriod), true)
	require.NoError(t, CanSubmit(atBoundary, now))

	pastGrace := windowExam(now.Add(-time.Hour), now.Add(-20*time.Second), true)
	require.ErrorIs(t, CanSubmit(pastGrace, now), ErrExamEnded)

	disabled := windowExam(now.Add(-time.Hour), now.Add(time.Hour), false)
	require.ErrorIs(t, CanSubmit(disabled, now), ErrExamNotActive)
}

func TestCanMutate(t *testing.T) {
	require.NoError(t, CanMutate(0))
	require.ErrorIs(t, CanMutate(1), ErrHasSubmissions)
	require.ErrorIs(t, CanMutate(42), ErrHasSubmissions)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "upcoming", StateUpcoming.String())
	require.Equal(t, "active", StateActive.String())
	require.Equal(t, "ended", StateEnded.String())
	require.Equal(t, "inactive", StateInactive.String())
}
