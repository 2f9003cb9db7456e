package models

import (
	"math"
	"time"
)

// Result is the single graded outcome of one student taking one exam. The
// composite unique index on (student_id, exam_id) is the storage-level
// guarantee that a student can never hold two results for the same exam.
type Result struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StudentID     uint      `gorm:"not null;uniqueIndex:idx_results_student_exam" json:"student_id"`
	ExamID        uint      `gorm:"not null;uniqueIndex:idx_results_student_exam;index:idx_results_exam_marks" json:"exam_id"`
	Student       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Exam          Exam      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"exam"`
	Answers       []Answer  `gorm:"constraint:OnDelete:CASCADE" json:"answers"`
	TotalMarks    int       `gorm:"not null;default:0" json:"total_marks"`
	ObtainedMarks int       `gorm:"not null;default:0;index:idx_results_exam_marks,sort:desc" json:"obtained_marks"`
	Percentage    int       `gorm:"not null;default:0" json:"percentage"`
	Rank          *int      `json:"rank"`
	TimeTaken     int       `gorm:"not null" json:"time_taken"`
	SubmittedAt   time.Time `gorm:"not null" json:"submitted_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Answer records the grading outcome for a single question of a result.
// SelectedOption is nil when the student left the question unanswered.
type Answer struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ResultID       uint `gorm:"not null;index" json:"result_id"`
	QuestionID     uint `gorm:"not null" json:"question_id"`
	SelectedOption *int `json:"selected_option"`
	IsCorrect      bool `gorm:"not null;default:false" json:"is_correct"`
	Marks          int  `gorm:"not null;default:0" json:"marks"`
}

// RecalculatePercentage derives the percentage from the marks snapshot.
// TotalMarks is copied from the exam at submission time, so later exam edits
// (already blocked once results exist) can never skew it.
func (r *Result) RecalculatePercentage() {
	if r.TotalMarks <= 0 {
		r.Percentage = 0
		return
	}
	r.Percentage = int(math.Round(float64(r.ObtainedMarks) / float64(r.TotalMarks) * 100))
}
