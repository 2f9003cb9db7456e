package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/examhall/examhall-api/internal/models"
)

// ExamRepository defines data operations for exams and their questions.
type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id uint) (models.Exam, error)
	GetByKey(ctx context.Context, key string) (models.Exam, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Exam, error)
	ListOpenWindow(ctx context.Context, now time.Time) ([]models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id uint) error
}

type examRepository struct {
	db *gorm.DB
}

// NewExamRepository instantiates the repository.
func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Exam{}).
		Preload("Teacher").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.position ASC")
		})
}

func (r *examRepository) Create(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepository) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.baseQuery(ctx).First(&exam, id).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) GetByKey(ctx context.Context, key string) (models.Exam, error) {
	var exam models.Exam
	if err := r.baseQuery(ctx).Where("exam_key = ?", key).First(&exam).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *examRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.baseQuery(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) ListOpenWindow(ctx context.Context, now time.Time) ([]models.Exam, error) {
	var exams []models.Exam
	if err := r.db.WithContext(ctx).Model(&models.Exam{}).
		Preload("Teacher").
		Where("start_time <= ? AND end_time >= ?", now, now).
		Order("end_time ASC").
		Find(&exams).Error; err != nil {
		return nil, err
	}

	return exams, nil
}

// Update replaces the exam row and its full question set in one transaction.
// Callers must have verified the exam has no submissions first.
func (r *examRepository) Update(ctx context.Context, exam *models.Exam) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staleQuestions []models.Question
		if err := tx.Where("exam_id = ?", exam.ID).Find(&staleQuestions).Error; err != nil {
			return err
		}
		for _, question := range staleQuestions {
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("exam_id = ?", exam.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(exam).Error
	})
}

// Delete removes the exam, its questions/options, and cascades over any
// results referencing it.
func (r *examRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var resultIDs []uint
		if err := tx.Model(&models.Result{}).Where("exam_id = ?", id).Pluck("id", &resultIDs).Error; err != nil {
			return err
		}
		if len(resultIDs) > 0 {
			if err := tx.Where("result_id IN ?", resultIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("exam_id = ?", id).Delete(&models.Result{}).Error; err != nil {
				return err
			}
		}

		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("exam_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("exam_id = ?", id).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&models.Exam{}, id).Error
	})
}
