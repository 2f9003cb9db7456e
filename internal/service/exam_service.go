package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examhall/examhall-api/internal/dto"
	"github.com/examhall/examhall-api/internal/lifecycle"
	"github.com/examhall/examhall-api/internal/models"
	"github.com/examhall/examhall-api/internal/policy"
	"github.com/examhall/examhall-api/internal/repository"
)

// ExamService orchestrates exam authoring and the student-facing join/fetch
// flow.
type ExamService interface {
	Create(ctx context.Context, teacherID uint, payload dto.ExamCreateRequest) (dto.ExamResponse, error)
	Update(ctx context.Context, principal policy.Principal, examID uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error)
	Delete(ctx context.Context, principal policy.Principal, examID uint) error
	GetForOwner(ctx context.Context, principal policy.Principal, examID uint) (dto.ExamResponse, error)
	ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ExamSummaryResponse, error)
	ListAvailable(ctx context.Context, studentID uint) ([]dto.AvailableExamResponse, error)
	JoinByKey(ctx context.Context, studentID uint, payload dto.JoinRequest) (dto.JoinResponse, error)
	QuestionsForStudent(ctx context.Context, studentID, examID uint) (dto.StudentExamResponse, error)
}

type examService struct {
	exams     repository.ExamRepository
	results   repository.ResultRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewExamService constructs an ExamService instance.
func NewExamService(exams repository.ExamRepository, results repository.ResultRepository, validate *validator.Validate, logger zerolog.Logger) ExamService {
	return &examService{
		exams:     exams,
		results:   results,
		validator: validate,
		logger:    logger.With().Str("component", "exam_service").Logger(),
		now:       time.Now,
	}
}

func (s *examService) Create(ctx context.Context, teacherID uint, payload dto.ExamCreateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}
	if err := validateAuthoring(payload.Questions, payload.StartTime, payload.EndTime); err != nil {
		return dto.ExamResponse{}, err
	}

	key, err := models.NewExamKey()
	if err != nil {
		return dto.ExamResponse{}, err
	}

	duration := payload.Duration
	if duration <= 0 {
		duration = 60
	}

	exam := models.Exam{
		Title:       strings.TrimSpace(payload.Title),
		Subject:     strings.TrimSpace(payload.Subject),
		Description: strings.TrimSpace(payload.Description),
		TeacherID:   teacherID,
		Questions:   buildQuestions(payload.Questions),
		Duration:    duration,
		ExamKey:     key,
		IsActive:    true,
		StartTime:   payload.StartTime,
		EndTime:     payload.EndTime,
	}
	exam.RecalculateTotalMarks()

	if err := s.exams.Create(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	created, err := s.exams.GetByID(ctx, exam.ID)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", created.ID).Str("exam_key", created.ExamKey).Msg("exam created")

	return dto.NewExamResponse(created), nil
}

func (s *examService) Update(ctx context.Context, principal policy.Principal, examID uint, payload dto.ExamUpdateRequest) (dto.ExamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamResponse{}, err
	}
	if err := validateAuthoring(payload.Questions, payload.StartTime, payload.EndTime); err != nil {
		return dto.ExamResponse{}, err
	}

	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	if err := policy.RequireExamOwner(exam, principal); err != nil {
		return dto.ExamResponse{}, err
	}

	count, err := s.results.CountByExam(ctx, examID)
	if err != nil {
		return dto.ExamResponse{}, err
	}
	if err := lifecycle.CanMutate(count); err != nil {
		return dto.ExamResponse{}, err
	}

	exam.Title = strings.TrimSpace(payload.Title)
	exam.Subject = strings.TrimSpace(payload.Subject)
	exam.Description = strings.TrimSpace(payload.Description)
	exam.Questions = buildQuestions(payload.Questions)
	if payload.Duration > 0 {
		exam.Duration = payload.Duration
	}
	exam.StartTime = payload.StartTime
	exam.EndTime = payload.EndTime
	if payload.IsActive != nil {
		exam.IsActive = *payload.IsActive
	}
	exam.RecalculateTotalMarks()

	if err := s.exams.Update(ctx, &exam); err != nil {
		return dto.ExamResponse{}, err
	}

	updated, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	s.logger.Info().Uint("exam_id", examID).Msg("exam updated")

	return dto.NewExamResponse(updated), nil
}

func (s *examService) Delete(ctx context.Context, principal policy.Principal, examID uint) error {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return err
	}

	if err := policy.RequireExamOwner(exam, principal); err != nil {
		return err
	}

	count, err := s.results.CountByExam(ctx, examID)
	if err != nil {
		return err
	}
	if err := lifecycle.CanMutate(count); err != nil {
		return err
	}

	if err := s.exams.Delete(ctx, examID); err != nil {
		return err
	}

	s.logger.Info().Uint("exam_id", examID).Msg("exam deleted")

	return nil
}

func (s *examService) GetForOwner(ctx context.Context, principal policy.Principal, examID uint) (dto.ExamResponse, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return dto.ExamResponse{}, err
	}

	if err := policy.RequireExamOwner(exam, principal); err != nil {
		return dto.ExamResponse{}, err
	}

	return dto.NewExamResponse(exam), nil
}

func (s *examService) ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ExamSummaryResponse, error) {
	exams, err := s.exams.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ExamSummaryResponse, 0, len(exams))
	for _, exam := range exams {
		results, err := s.results.ListByExamRanked(ctx, exam.ID)
		if err != nil {
			return nil, err
		}

		averageScore := 0.0
		if len(results) > 0 && exam.TotalMarks > 0 {
			total := 0
			for _, result := range results {
				total += result.ObtainedMarks
			}
			averageScore = float64(total) / float64(len(results)) / float64(exam.TotalMarks) * 100
		}

		summaries = append(summaries, dto.ExamSummaryResponse{
			ID:               exam.ID,
			Title:            exam.Title,
			Subject:          exam.Subject,
			ExamKey:          exam.ExamKey,
			TotalMarks:       exam.TotalMarks,
			Duration:         exam.Duration,
			QuestionCount:    len(exam.Questions),
			IsActive:         exam.IsActive,
			StartTime:        exam.StartTime,
			EndTime:          exam.EndTime,
			ParticipantCount: len(results),
			AverageScore:     averageScore,
			CreatedAt:        exam.CreatedAt,
		})
	}

	return summaries, nil
}

func (s *examService) ListAvailable(ctx context.Context, studentID uint) ([]dto.AvailableExamResponse, error) {
	exams, err := s.exams.ListOpenWindow(ctx, s.now())
	if err != nil {
		return nil, err
	}

	available := make([]dto.AvailableExamResponse, 0, len(exams))
	for _, exam := range exams {
		taken, err := s.results.ExistsForStudentAndExam(ctx, studentID, exam.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}
		available = append(available, dto.NewAvailableExamResponse(exam))
	}

	return available, nil
}

func (s *examService) JoinByKey(ctx context.Context, studentID uint, payload dto.JoinRequest) (dto.JoinResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JoinResponse{}, err
	}

	exam, err := s.exams.GetByKey(ctx, strings.ToUpper(strings.TrimSpace(payload.ExamKey)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JoinResponse{}, ErrInvalidExamKey
		}
		return dto.JoinResponse{}, err
	}

	taken, err := s.results.ExistsForStudentAndExam(ctx, studentID, exam.ID)
	if err != nil {
		return dto.JoinResponse{}, err
	}

	if err := lifecycle.CanJoin(exam, taken, s.now()); err != nil {
		return dto.JoinResponse{}, err
	}

	return dto.JoinResponse{ExamID: exam.ID}, nil
}

func (s *examService) QuestionsForStudent(ctx context.Context, studentID, examID uint) (dto.StudentExamResponse, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return dto.StudentExamResponse{}, err
	}

	taken, err := s.results.ExistsForStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return dto.StudentExamResponse{}, err
	}

	if err := lifecycle.CanFetchQuestions(exam, taken, s.now()); err != nil {
		return dto.StudentExamResponse{}, err
	}

	return dto.NewStudentExamResponse(exam), nil
}

func (s *examService) getExam(ctx context.Context, examID uint) (models.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Exam{}, ErrExamNotFound
		}
		return models.Exam{}, err
	}

	return exam, nil
}

// validateAuthoring enforces the exam-shape rules that struct tags cannot:
// each question carries exactly four options with exactly one correct, and
// the window must be ordered.
func validateAuthoring(questions []dto.QuestionInput, startTime, endTime time.Time) error {
	if !startTime.Before(endTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrValidationFailed)
	}

	for i, question := range questions {
		if len(question.Options) != 4 {
			return fmt.Errorf("%w: question %d must have exactly 4 options", ErrValidationFailed, i+1)
		}

		correct := 0
		for _, option := range question.Options {
			if option.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: question %d must have exactly one correct answer", ErrValidationFailed, i+1)
		}
	}

	return nil
}

func buildQuestions(inputs []dto.QuestionInput) []models.Question {
	questions := make([]models.Question, 0, len(inputs))
	for i, input := range inputs {
		marks := input.Marks
		if marks <= 0 {
			marks = 1
		}

		options := make([]models.Option, 0, len(input.Options))
		for j, option := range input.Options {
			options = append(options, models.Option{
				Text:      strings.TrimSpace(option.Text),
				IsCorrect: option.IsCorrect,
				Position:  j,
			})
		}

		questions = append(questions, models.Question{
			Text:     strings.TrimSpace(input.Text),
			Marks:    marks,
			Position: i,
			Options:  options,
		})
	}

	return questions
}
