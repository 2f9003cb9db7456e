package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/examhall/examhall-api/internal/models"
)

// ResultRepository defines data operations for graded results.
//
// Create relies on the unique (student_id, exam_id) index and surfaces
// gorm.ErrDuplicatedKey on violation; callers treat that as "already
// submitted". The index, not any application-level read, is what closes the
// race between two near-simultaneous submissions from the same student.
type ResultRepository interface {
	Create(ctx context.Context, result *models.Result) error
	GetByID(ctx context.Context, id uint) (models.Result, error)
	GetByStudentAndExam(ctx context.Context, studentID, examID uint) (models.Result, error)
	ExistsForStudentAndExam(ctx context.Context, studentID, examID uint) (bool, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Result, error)
	ListByExamRanked(ctx context.Context, examID uint) ([]models.Result, error)
	CountByExam(ctx context.Context, examID uint) (int64, error)
	UpdateRanks(ctx context.Context, ranks map[uint]int) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Result{}).
		Preload("Student").
		Preload("Exam").
		Preload("Answers")
}

func (r *resultRepository) Create(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *resultRepository) GetByID(ctx context.Context, id uint) (models.Result, error) {
	var result models.Result
	if err := r.baseQuery(ctx).
		Preload("Exam.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Exam.Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position ASC")
		}).
		First(&result, id).Error; err != nil {
		return models.Result{}, err
	}

	return result, nil
}

func (r *resultRepository) GetByStudentAndExam(ctx context.Context, studentID, examID uint) (models.Result, error) {
	var result models.Result
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Where("exam_id = ?", examID).
		First(&result).Error; err != nil {
		return models.Result{}, err
	}

	return result, nil
}

func (r *resultRepository) ExistsForStudentAndExam(ctx context.Context, studentID, examID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Result{}).
		Where("student_id = ?", studentID).
		Where("exam_id = ?", examID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *resultRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Result, error) {
	var results []models.Result
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

// ListByExamRanked returns the exam's results in leaderboard order:
// obtained marks descending, time taken ascending.
func (r *resultRepository) ListByExamRanked(ctx context.Context, examID uint) ([]models.Result, error) {
	var results []models.Result
	if err := r.baseQuery(ctx).
		Where("exam_id = ?", examID).
		Order("obtained_marks DESC").
		Order("time_taken ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Result{}).
		Where("exam_id = ?", examID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// UpdateRanks persists a freshly computed rank set in a single transaction so
// a reader never observes a half-applied recompute.
func (r *resultRepository) UpdateRanks(ctx context.Context, ranks map[uint]int) error {
	if len(ranks) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for resultID, rank := range ranks {
			if err := tx.Model(&models.Result{}).
				Where("id = ?", resultID).
				Update("rank", rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
