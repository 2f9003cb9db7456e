package dto

import (
	"time"

	"github.com/examhall/examhall-api/internal/models"
)

// OptionInput is one answer choice in an authoring request.
type OptionInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionInput is one question in an authoring request. The exactly-one-
// correct-option rule is checked by the exam service, not a validator tag.
type QuestionInput struct {
	Text    string        `json:"text" validate:"required"`
	Marks   int           `json:"marks" validate:"omitempty,gte=1"`
	Options []OptionInput `json:"options" validate:"required,len=4,dive"`
}

// ExamCreateRequest is the teacher payload for authoring an exam.
type ExamCreateRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Subject     string          `json:"subject" validate:"required,max=255"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions" validate:"required,min=1,dive"`
	Duration    int             `json:"duration" validate:"omitempty,gte=1"`
	StartTime   time.Time       `json:"start_time" validate:"required"`
	EndTime     time.Time       `json:"end_time" validate:"required"`
}

// ExamUpdateRequest replaces an exam definition wholesale. Rejected once any
// result references the exam.
type ExamUpdateRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Subject     string          `json:"subject" validate:"required,max=255"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions" validate:"required,min=1,dive"`
	Duration    int             `json:"duration" validate:"omitempty,gte=1"`
	StartTime   time.Time       `json:"start_time" validate:"required"`
	EndTime     time.Time       `json:"end_time" validate:"required"`
	IsActive    *bool           `json:"is_active"`
}

// JoinRequest carries the shared key a student uses to enter an exam.
type JoinRequest struct {
	ExamKey string `json:"exam_key" validate:"required,len=12"`
}

// JoinResponse tells the student which exam their key resolved to.
type JoinResponse struct {
	ExamID uint `json:"exam_id"`
}

// TeacherLite summarizes the owning teacher in exam views.
type TeacherLite struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
}

// OptionResponse is the owner's view of an option, answer key included.
type OptionResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Position  int    `json:"position"`
}

// QuestionResponse is the owner's view of a question.
type QuestionResponse struct {
	ID      uint             `json:"id"`
	Text    string           `json:"text"`
	Marks   int              `json:"marks"`
	Options []OptionResponse `json:"options"`
}

// ExamResponse is the owning teacher's full view of an exam.
type ExamResponse struct {
	ID          uint               `json:"id"`
	Title       string             `json:"title"`
	Subject     string             `json:"subject"`
	Description string             `json:"description"`
	Teacher     TeacherLite        `json:"teacher"`
	Questions   []QuestionResponse `json:"questions"`
	Duration    int                `json:"duration"`
	TotalMarks  int                `json:"total_marks"`
	ExamKey     string             `json:"exam_key"`
	IsActive    bool               `json:"is_active"`
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ExamSummaryResponse is one row of the teacher's exam list, with
// participation stats.
type ExamSummaryResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Subject          string    `json:"subject"`
	ExamKey          string    `json:"exam_key"`
	TotalMarks       int       `json:"total_marks"`
	Duration         int       `json:"duration"`
	QuestionCount    int       `json:"question_count"`
	IsActive         bool      `json:"is_active"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	ParticipantCount int       `json:"participant_count"`
	AverageScore     float64   `json:"average_score"`
	CreatedAt        time.Time `json:"created_at"`
}

// SanitizedOption is the student view of an option. It structurally has no
// correctness field, so an answer key can never leak through serialization.
type SanitizedOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// SanitizedQuestion is the student view of a question.
type SanitizedQuestion struct {
	ID      uint              `json:"id"`
	Text    string            `json:"text"`
	Marks   int               `json:"marks"`
	Options []SanitizedOption `json:"options"`
}

// StudentExamResponse is the paper a student receives when the window opens.
type StudentExamResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Teacher     TeacherLite         `json:"teacher"`
	Questions   []SanitizedQuestion `json:"questions"`
	Duration    int                 `json:"duration"`
	TotalMarks  int                 `json:"total_marks"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     time.Time           `json:"end_time"`
}

// AvailableExamResponse is one row of the student's joinable-exam list.
type AvailableExamResponse struct {
	ID         uint        `json:"id"`
	Title      string      `json:"title"`
	Subject    string      `json:"subject"`
	Teacher    TeacherLite `json:"teacher"`
	Duration   int         `json:"duration"`
	TotalMarks int         `json:"total_marks"`
	StartTime  time.Time   `json:"start_time"`
	EndTime    time.Time   `json:"end_time"`
}

// NewTeacherLite converts the owning teacher into its summary view.
func NewTeacherLite(model models.User) TeacherLite {
	return TeacherLite{
		ID:         model.ID,
		Name:       model.Name,
		Department: model.Department,
	}
}

// NewExamResponse converts an Exam model into the owner's full DTO.
func NewExamResponse(model models.Exam) ExamResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		options := make([]OptionResponse, 0, len(question.Options))
		for _, option := range question.Options {
			options = append(options, OptionResponse{
				ID:        option.ID,
				Text:      option.Text,
				IsCorrect: option.IsCorrect,
				Position:  option.Position,
			})
		}
		questions = append(questions, QuestionResponse{
			ID:      question.ID,
			Text:    question.Text,
			Marks:   question.Marks,
			Options: options,
		})
	}

	return ExamResponse{
		ID:          model.ID,
		Title:       model.Title,
		Subject:     model.Subject,
		Description: model.Description,
		Teacher:     NewTeacherLite(model.Teacher),
		Questions:   questions,
		Duration:    model.Duration,
		TotalMarks:  model.TotalMarks,
		ExamKey:     model.ExamKey,
		IsActive:    model.IsActive,
		StartTime:   model.StartTime,
		EndTime:     model.EndTime,
		CreatedAt:   model.CreatedAt,
	}
}

// NewStudentExamResponse converts an Exam model into the sanitized student
// view: no exam key, no correctness flags.
func NewStudentExamResponse(model models.Exam) StudentExamResponse {
	questions := make([]SanitizedQuestion, 0, len(model.Questions))
	for _, question := range model.Questions {
		options := make([]SanitizedOption, 0, len(question.Options))
		for _, option := range question.Options {
			options = append(options, SanitizedOption{
				ID:   option.ID,
				Text: option.Text,
			})
		}
		questions = append(questions, SanitizedQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Marks:   question.Marks,
			Options: options,
		})
	}

	return StudentExamResponse{
		ID:          model.ID,
		Title:       model.Title,
		Subject:     model.Subject,
		Description: model.Description,
		Teacher:     NewTeacherLite(model.Teacher),
		Questions:   questions,
		Duration:    model.Duration,
		TotalMarks:  model.TotalMarks,
		StartTime:   model.StartTime,
		EndTime:     model.EndTime,
	}
}

// NewAvailableExamResponse converts an Exam into the student list row.
func NewAvailableExamResponse(model models.Exam) AvailableExamResponse {
	return AvailableExamResponse{
		ID:         model.ID,
		Title:      model.Title,
		Subject:    model.Subject,
		Teacher:    NewTeacherLite(model.Teacher),
		Duration:   model.Duration,
		TotalMarks: model.TotalMarks,
		StartTime:  model.StartTime,
		EndTime:    model.EndTime,
	}
}
