package dto

import (
	"time"

	"github.com/examhall/examhall-api/internal/models"
)

// AnswerInput is one answer of a submission. SelectedOption is nil for an
// unanswered question.
type AnswerInput struct {
	QuestionID     uint `json:"question_id" validate:"required,gt=0"`
	SelectedOption *int `json:"selected_option"`
}

// SubmitRequest is the student payload for handing in an exam.
type SubmitRequest struct {
	ExamID    uint          `json:"exam_id" validate:"required,gt=0"`
	Answers   []AnswerInput `json:"answers"`
	TimeTaken int           `json:"time_taken" validate:"gte=0"`
}

// ExamLite summarizes an exam inside result views.
type ExamLite struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Subject    string `json:"subject"`
	TotalMarks int    `json:"total_marks"`
}

// StudentLite summarizes a student inside result views.
type StudentLite struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number,omitempty"`
	Class      string `json:"class,omitempty"`
}

// ResultResponse is the outcome view returned after submission and in result
// listings.
type ResultResponse struct {
	ID            uint        `json:"id"`
	Student       StudentLite `json:"student"`
	Exam          ExamLite    `json:"exam"`
	ObtainedMarks int         `json:"obtained_marks"`
	TotalMarks    int         `json:"total_marks"`
	Percentage    int         `json:"percentage"`
	Rank          *int        `json:"rank"`
	TimeTaken     int         `json:"time_taken"`
	SubmittedAt   time.Time   `json:"submitted_at"`
}

// LeaderboardEntry is one row of the teacher's ranking view.
type LeaderboardEntry struct {
	Rank          int         `json:"rank"`
	Student       StudentLite `json:"student"`
	ObtainedMarks int         `json:"obtained_marks"`
	TotalMarks    int         `json:"total_marks"`
	Percentage    int         `json:"percentage"`
	TimeTaken     int         `json:"time_taken"`
	SubmittedAt   time.Time   `json:"submitted_at"`
}

// RankingResponse is the teacher's leaderboard for one exam.
type RankingResponse struct {
	Exam          ExamLite           `json:"exam"`
	Ranking       []LeaderboardEntry `json:"ranking"`
	TotalStudents int                `json:"total_students"`
}

// ExamResultsResponse is the teacher's full result listing for one exam.
type ExamResultsResponse struct {
	Exam    ExamLite         `json:"exam"`
	Results []ResultResponse `json:"results"`
}

// ReviewOption mirrors an option in the detailed result review. Correctness
// is visible here: detailed views are restricted to the result's own student
// after submission, or the owning teacher.
type ReviewOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// AnswerDetail pairs one graded answer with its question for review.
type AnswerDetail struct {
	Question       string         `json:"question"`
	Options        []ReviewOption `json:"options"`
	SelectedOption *int           `json:"selected_option"`
	IsCorrect      bool           `json:"is_correct"`
	Marks          int            `json:"marks"`
	MaxMarks       int            `json:"max_marks"`
}

// DetailedResultResponse is the per-answer breakdown of one result.
type DetailedResultResponse struct {
	ID            uint           `json:"id"`
	Student       StudentLite    `json:"student"`
	Exam          ExamLite       `json:"exam"`
	ObtainedMarks int            `json:"obtained_marks"`
	TotalMarks    int            `json:"total_marks"`
	Percentage    int            `json:"percentage"`
	Rank          *int           `json:"rank"`
	TimeTaken     int            `json:"time_taken"`
	SubmittedAt   time.Time      `json:"submitted_at"`
	Answers       []AnswerDetail `json:"answers"`
}

// StudentSummaryResponse aggregates a student's exam history.
type StudentSummaryResponse struct {
	TotalExamsTaken int `json:"total_exams_taken"`
	AverageScore    int `json:"average_score"`
}

// NewExamLite converts an exam into its result-view summary.
func NewExamLite(model models.Exam) ExamLite {
	return ExamLite{
		ID:         model.ID,
		Title:      model.Title,
		Subject:    model.Subject,
		TotalMarks: model.TotalMarks,
	}
}

// NewStudentLite converts a student into its result-view summary.
func NewStudentLite(model models.User) StudentLite {
	return StudentLite{
		ID:         model.ID,
		Name:       model.Name,
		RollNumber: model.RollNumber,
		Class:      model.Class,
	}
}

// NewResultResponse converts a Result model into a DTO.
func NewResultResponse(model models.Result) ResultResponse {
	return ResultResponse{
		ID:            model.ID,
		Student:       NewStudentLite(model.Student),
		Exam:          NewExamLite(model.Exam),
		ObtainedMarks: model.ObtainedMarks,
		TotalMarks:    model.TotalMarks,
		Percentage:    model.Percentage,
		Rank:          model.Rank,
		TimeTaken:     model.TimeTaken,
		SubmittedAt:   model.SubmittedAt,
	}
}

// NewResultResponseSlice converts result models into DTOs.
func NewResultResponseSlice(results []models.Result) []ResultResponse {
	responses := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewResultResponse(result))
	}

	return responses
}

// NewDetailedResultResponse joins a result's answers back to the exam's
// questions for the review view.
func NewDetailedResultResponse(model models.Result) DetailedResultResponse {
	questionsByID := make(map[uint]models.Question, len(model.Exam.Questions))
	for _, question := range model.Exam.Questions {
		questionsByID[question.ID] = question
	}

	answers := make([]AnswerDetail, 0, len(model.Answers))
	for _, answer := range model.Answers {
		detail := AnswerDetail{
			Question:       "Question not found",
			SelectedOption: answer.SelectedOption,
			IsCorrect:      answer.IsCorrect,
			Marks:          answer.Marks,
		}
		if question, ok := questionsByID[answer.QuestionID]; ok {
			detail.Question = question.Text
			detail.MaxMarks = question.Marks
			options := make([]ReviewOption, 0, len(question.Options))
			for _, option := range question.Options {
				options = append(options, ReviewOption{
					Text:      option.Text,
					IsCorrect: option.IsCorrect,
				})
			}
			detail.Options = options
		}
		answers = append(answers, detail)
	}

	return DetailedResultResponse{
		ID:            model.ID,
		Student:       NewStudentLite(model.Student),
		Exam:          NewExamLite(model.Exam),
		ObtainedMarks: model.ObtainedMarks,
		TotalMarks:    model.TotalMarks,
		Percentage:    model.Percentage,
		Rank:          model.Rank,
		TimeTaken:     model.TimeTaken,
		SubmittedAt:   model.SubmittedAt,
		Answers:       answers,
	}
}
