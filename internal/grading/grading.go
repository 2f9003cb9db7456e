// Package grading scores a submitted answer set against an exam's question
// set. Grading is a pure function of its inputs: no hidden state, so any
// result can be replayed for audit.
package grading

import (
	"errors"

	"github.com/examhall/examhall-api/internal/models"
)

// ErrInvalidSubmission indicates the answer payload was structurally invalid.
var ErrInvalidSubmission = errors.New("invalid submission payload")

// SubmittedAnswer is one answer as sent by the client. SelectedOption is nil
// when the question was left unanswered.
type SubmittedAnswer struct {
	QuestionID     uint
	SelectedOption *int
}

// GradedAnswer is the grading outcome for one submitted answer.
type GradedAnswer struct {
	QuestionID     uint
	SelectedOption *int
	IsCorrect      bool
	Marks          int
}

// Grade scores the submitted answers against the exam's questions and returns
// the graded answers plus total obtained marks.
//
// Answers referencing unknown question ids are skipped, not rejected: clients
// holding a stale copy of the paper must not lose the rest of their work.
// An answer is correct only when its selected option resolves to the option
// flagged correct; nil or out-of-range selections score zero.
func Grade(questions []models.Question, answers []SubmittedAnswer) ([]GradedAnswer, int, error) {
	if answers == nil {
		return nil, 0, ErrInvalidSubmission
	}

	byID := make(map[uint]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	graded := make([]GradedAnswer, 0, len(answers))
	obtained := 0

	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			continue
		}

		correct := false
		if answer.SelectedOption != nil {
			if option, found := optionAt(question.Options, *answer.SelectedOption); found {
				correct = option.IsCorrect
			}
		}

		marks := 0
		if correct {
			marks = question.Marks
		}
		obtained += marks

		graded = append(graded, GradedAnswer{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      correct,
			Marks:          marks,
		})
	}

	return graded, obtained, nil
}

// optionAt resolves a submitted option index by stored position, so grading
// does not depend on the load order of the options slice.
func optionAt(options []models.Option, position int) (models.Option, bool) {
	for _, option := range options {
		if option.Position == position {
			return option, true
		}
	}
	return models.Option{}, false
}
