// Package lifecycle decides whether an exam accepts a given operation at a
// given instant. State is never stored; it is derived from wall-clock time and
// the exam's active flag on every check.
package lifecycle

import (
	"errors"
	"time"

	"github.com/examhall/examhall-api/internal/models"
)

// SubmitGracePeriod is the extra window past an exam's end time during which
// submissions are still accepted, compensating for network latency when
// clients auto-submit at expiry.
const SubmitGracePeriod = 15 * time.Second

// State is the derived lifecycle state of an exam.
type State int

const (
	// StateUpcoming means the exam window has not opened yet.
	StateUpcoming State = iota
	// StateActive means the window is open and the exam is enabled.
	StateActive
	// StateEnded means the exam window has closed.
	StateEnded
	// StateInactive means the teacher disabled the exam, regardless of time.
	StateInactive
)

func (s State) String() string {
	switch s {
	case StateUpcoming:
		return "upcoming"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	case StateInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

var (
	// ErrExamNotActive indicates the teacher has disabled the exam.
	ErrExamNotActive = errors.New("exam is not active")
	// ErrExamNotStarted indicates the exam window has not opened yet.
	ErrExamNotStarted = errors.New("exam has not started yet")
	// ErrExamEnded indicates the exam window has closed.
	ErrExamEnded = errors.New("exam has ended")
	// ErrAlreadySubmitted indicates the student already holds a result.
	ErrAlreadySubmitted = errors.New("exam already submitted")
	// ErrHasSubmissions indicates the exam is locked because results exist.
	ErrHasSubmissions = errors.New("exam has submissions")
)

// StateOf derives the lifecycle state of an exam at the given instant.
func StateOf(exam models.Exam, now time.Time) State {
	if !exam.IsActive {
		return StateInactive
	}
	if now.Before(exam.StartTime) {
		return StateUpcoming
	}
	if now.After(exam.EndTime) {
		return StateEnded
	}
	return StateActive
}

// CanJoin reports whether a student may join the exam: the exam must be
// active within its window and the student must not hold a prior result.
func CanJoin(exam models.Exam, hasResult bool, now time.Time) error {
	switch StateOf(exam, now) {
	case StateInactive:
		return ErrExamNotActive
	case StateUpcoming:
		return ErrExamNotStarted
	case StateEnded:
		return ErrExamEnded
	}
	if hasResult {
		return ErrAlreadySubmitted
	}
	return nil
}

// CanFetchQuestions reports whether the sanitized paper may be fetched. The
// active flag is deliberately not consulted here: once the window opens the
// paper stays fetchable even if the exam was toggled inactive, matching the
// behaviour existing clients depend on.
func CanFetchQuestions(exam models.Exam, hasResult bool, now time.Time) error {
	if now.Before(exam.StartTime) {
		return ErrExamNotStarted
	}
	if now.After(exam.EndTime) {
		return ErrExamEnded
	}
	if hasResult {
		return ErrAlreadySubmitted
	}
	return nil
}

// CanSubmit reports whether an answer set may still be submitted. More
// permissive than CanJoin: a student already in progress gets a grace period
// past the end time so a few seconds of clock skew cannot lock them out.
func CanSubmit(exam models.Exam, now time.Time) error {
	if !exam.IsActive {
		return ErrExamNotActive
	}
	if now.After(exam.EndTime.Add(SubmitGracePeriod)) {
		return ErrExamEnded
	}
	return nil
}

// CanMutate reports whether the exam may still be updated or deleted. The
// moment any student has submitted, both operations lock permanently so
// grading can never be changed retroactively.
func CanMutate(resultCount int64) error {
	if resultCount > 0 {
		return ErrHasSubmissions
	}
	return nil
}
