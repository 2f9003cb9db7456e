package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// Exam is a timed multiple-choice exam owned by a single teacher.
type Exam struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Subject     string     `gorm:"size:255;not null" json:"subject"`
	Description string     `gorm:"type:text" json:"description"`
	TeacherID   uint       `gorm:"not null;index" json:"teacher_id"`
	Teacher     User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
	Questions   []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
	Duration    int        `gorm:"not null;default:60" json:"duration"`
	TotalMarks  int        `gorm:"not null;default:0" json:"total_marks"`
	ExamKey     string     `gorm:"size:12;uniqueIndex;not null" json:"exam_key"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	StartTime   time.Time  `gorm:"not null" json:"start_time"`
	EndTime     time.Time  `gorm:"not null" json:"end_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Question belongs to exactly one exam and carries exactly four options.
type Question struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	ExamID   uint     `gorm:"not null;index" json:"exam_id"`
	Text     string   `gorm:"type:text;not null" json:"text"`
	Marks    int      `gorm:"not null;default:1" json:"marks"`
	Position int      `gorm:"not null" json:"position"`
	Options  []Option `gorm:"constraint:OnDelete:CASCADE" json:"options"`
}

// Option is one of the four answer choices of a question. Position mirrors the
// index a client submits as its selected option.
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"is_correct"`
	Position   int    `gorm:"not null" json:"position"`
}

// RecalculateTotalMarks keeps TotalMarks equal to the sum of question marks.
// Called on every persist so the stored value is never hand-edited.
func (e *Exam) RecalculateTotalMarks() {
	total := 0
	for _, question := range e.Questions {
		total += question.Marks
	}
	e.TotalMarks = total
}

// NewExamKey returns a 12 character uppercase hex key shared with students
// out-of-band. Hard to guess, but lookups are still rate limited.
func NewExamKey() (string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(raw)), nil
}
