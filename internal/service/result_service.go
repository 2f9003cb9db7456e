package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examhall/examhall-api/internal/dto"
	"github.com/examhall/examhall-api/internal/grading"
	"github.com/examhall/examhall-api/internal/lifecycle"
	"github.com/examhall/examhall-api/internal/models"
	"github.com/examhall/examhall-api/internal/observability"
	"github.com/examhall/examhall-api/internal/policy"
	"github.com/examhall/examhall-api/internal/ranking"
	"github.com/examhall/examhall-api/internal/repository"
)

// ResultService orchestrates the submission pipeline and all result views.
type ResultService interface {
	Submit(ctx context.Context, studentID uint, payload dto.SubmitRequest) (dto.ResultResponse, error)
	MyResults(ctx context.Context, studentID uint) ([]dto.ResultResponse, error)
	MyResultForExam(ctx context.Context, studentID, examID uint) (dto.ResultResponse, error)
	ExamResults(ctx context.Context, principal policy.Principal, examID uint) (dto.ExamResultsResponse, error)
	Ranking(ctx context.Context, principal policy.Principal, examID uint) (dto.RankingResponse, error)
	Detailed(ctx context.Context, principal policy.Principal, resultID uint) (dto.DetailedResultResponse, error)
}

// leaderboardLimit caps the teacher ranking view.
const leaderboardLimit = 50

type resultService struct {
	results   repository.ResultRepository
	exams     repository.ExamRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time

	// rankMu serializes rank recomputation per exam. The recompute itself is
	// idempotent over a fixed result set; the lock only prevents two
	// concurrent recomputes from interleaving their writes.
	rankMu    sync.Mutex
	examLocks map[uint]*sync.Mutex
}

// NewResultService constructs a ResultService instance.
func NewResultService(results repository.ResultRepository, exams repository.ExamRepository, validate *validator.Validate, logger zerolog.Logger) ResultService {
	return &resultService{
		results:   results,
		exams:     exams,
		validator: validate,
		logger:    logger.With().Str("component", "result_service").Logger(),
		now:       time.Now,
		examLocks: make(map[uint]*sync.Mutex),
	}
}

func (s *resultService) Submit(ctx context.Context, studentID uint, payload dto.SubmitRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	exam, err := s.getExam(ctx, payload.ExamID)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	if err := lifecycle.CanSubmit(exam, s.now()); err != nil {
		return dto.ResultResponse{}, err
	}

	// Friendly pre-check only. The unique (student, exam) index is what
	// actually prevents a double submission under concurrency.
	taken, err := s.results.ExistsForStudentAndExam(ctx, studentID, exam.ID)
	if err != nil {
		return dto.ResultResponse{}, err
	}
	if taken {
		return dto.ResultResponse{}, lifecycle.ErrAlreadySubmitted
	}

	var submitted []grading.SubmittedAnswer
	if payload.Answers != nil {
		submitted = make([]grading.SubmittedAnswer, 0, len(payload.Answers))
		for _, answer := range payload.Answers {
			submitted = append(submitted, grading.SubmittedAnswer{
				QuestionID:     answer.QuestionID,
				SelectedOption: answer.SelectedOption,
			})
		}
	}

	graded, obtained, err := grading.Grade(exam.Questions, submitted)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	answers := make([]models.Answer, 0, len(graded))
	for _, answer := range graded {
		answers = append(answers, models.Answer{
			QuestionID:     answer.QuestionID,
			SelectedOption: answer.SelectedOption,
			IsCorrect:      answer.IsCorrect,
			Marks:          answer.Marks,
		})
	}

	result := models.Result{
		StudentID:     studentID,
		ExamID:        exam.ID,
		Answers:       answers,
		TotalMarks:    exam.TotalMarks,
		ObtainedMarks: obtained,
		TimeTaken:     payload.TimeTaken,
		SubmittedAt:   s.now(),
	}
	result.RecalculatePercentage()

	if err := s.results.Create(ctx, &result); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ResultResponse{}, lifecycle.ErrAlreadySubmitted
		}
		return dto.ResultResponse{}, err
	}

	if err := s.recomputeRanks(ctx, exam.ID); err != nil {
		s.logger.Error().Err(err).Uint("exam_id", exam.ID).Msg("failed to recompute ranks")
	}

	observability.ExamSubmissions().WithLabelValues(exam.Subject).Inc()

	created, err := s.results.GetByID(ctx, result.ID)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	s.logger.Info().
		Uint("result_id", created.ID).
		Uint("exam_id", exam.ID).
		Int("obtained_marks", created.ObtainedMarks).
		Msg("exam submitted")

	return dto.NewResultResponse(created), nil
}

func (s *resultService) MyResults(ctx context.Context, studentID uint) ([]dto.ResultResponse, error) {
	results, err := s.results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewResultResponseSlice(results), nil
}

func (s *resultService) MyResultForExam(ctx context.Context, studentID, examID uint) (dto.ResultResponse, error) {
	result, err := s.results.GetByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrResultNotFound
		}
		return dto.ResultResponse{}, err
	}

	return dto.NewResultResponse(result), nil
}

func (s *resultService) ExamResults(ctx context.Context, principal policy.Principal, examID uint) (dto.ExamResultsResponse, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return dto.ExamResultsResponse{}, err
	}

	if err := policy.RequireExamOwner(exam, principal); err != nil {
		return dto.ExamResultsResponse{}, err
	}

	// Ranks may be stale if a previous recompute failed; refresh before the
	// teacher sees them.
	if err := s.recomputeRanks(ctx, examID); err != nil {
		return dto.ExamResultsResponse{}, err
	}

	results, err := s.results.ListByExamRanked(ctx, examID)
	if err != nil {
		return dto.ExamResultsResponse{}, err
	}

	return dto.ExamResultsResponse{
		Exam:    dto.NewExamLite(exam),
		Results: dto.NewResultResponseSlice(results),
	}, nil
}

func (s *resultService) Ranking(ctx context.Context, principal policy.Principal, examID uint) (dto.RankingResponse, error) {
	exam, err := s.getExam(ctx, examID)
	if err != nil {
		return dto.RankingResponse{}, err
	}

	if err := policy.RequireExamOwner(exam, principal); err != nil {
		return dto.RankingResponse{}, err
	}

	if err := s.recomputeRanks(ctx, examID); err != nil {
		return dto.RankingResponse{}, err
	}

	results, err := s.results.ListByExamRanked(ctx, examID)
	if err != nil {
		return dto.RankingResponse{}, err
	}
	if len(results) > leaderboardLimit {
		results = results[:leaderboardLimit]
	}

	entries := make([]dto.LeaderboardEntry, 0, len(results))
	for _, result := range results {
		rank := 0
		if result.Rank != nil {
			rank = *result.Rank
		}
		entries = append(entries, dto.LeaderboardEntry{
			Rank:          rank,
			Student:       dto.NewStudentLite(result.Student),
			ObtainedMarks: result.ObtainedMarks,
			TotalMarks:    result.TotalMarks,
			Percentage:    result.Percentage,
			TimeTaken:     result.TimeTaken,
			SubmittedAt:   result.SubmittedAt,
		})
	}

	return dto.RankingResponse{
		Exam:          dto.NewExamLite(exam),
		Ranking:       entries,
		TotalStudents: len(entries),
	}, nil
}

func (s *resultService) Detailed(ctx context.Context, principal policy.Principal, resultID uint) (dto.DetailedResultResponse, error) {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DetailedResultResponse{}, ErrResultNotFound
		}
		return dto.DetailedResultResponse{}, err
	}

	if err := policy.RequireResultAccess(result, result.Exam, principal); err != nil {
		return dto.DetailedResultResponse{}, err
	}

	return dto.NewDetailedResultResponse(result), nil
}

// recomputeRanks reassigns ranks for every result of the exam. Full recompute
// on each call keeps the ranks consistent with the tie policy regardless of
// submission order; the per-exam lock keeps concurrent recomputes from
// interleaving.
func (s *resultService) recomputeRanks(ctx context.Context, examID uint) error {
	lock := s.lockFor(examID)
	lock.Lock()
	defer lock.Unlock()

	results, err := s.results.ListByExamRanked(ctx, examID)
	if err != nil {
		return err
	}

	entries := make([]ranking.Entry, 0, len(results))
	for _, result := range results {
		entries = append(entries, ranking.Entry{
			ResultID:      result.ID,
			ObtainedMarks: result.ObtainedMarks,
			TimeTaken:     result.TimeTaken,
		})
	}

	ranks := make(map[uint]int, len(entries))
	for _, entry := range ranking.Assign(entries) {
		ranks[entry.ResultID] = entry.Rank
	}

	return s.results.UpdateRanks(ctx, ranks)
}

func (s *resultService) lockFor(examID uint) *sync.Mutex {
	s.rankMu.Lock()
	defer s.rankMu.Unlock()

	lock, ok := s.examLocks[examID]
	if !ok {
		lock = &sync.Mutex{}
		s.examLocks[examID] = lock
	}
	return lock
}

func (s *resultService) getExam(ctx context.Context, examID uint) (models.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Exam{}, ErrExamNotFound
		}
		return models.Exam{}, err
	}

	return exam, nil
}
