package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/examhall/examhall-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// memoryExamRepo is an in-memory ExamRepository. Create assigns ids to the
// exam and its nested questions and options, mirroring what the database does.
type memoryExamRepo struct {
	exams       map[uint]models.Exam
	nextID      uint
	nextChildID uint
}

func newMemoryExamRepo() *memoryExamRepo {
	return &memoryExamRepo{
		exams:       make(map[uint]models.Exam),
		nextID:      1,
		nextChildID: 1,
	}
}

func (m *memoryExamRepo) assignChildIDs(exam *models.Exam) {
	for i := range exam.Questions {
		if exam.Questions[i].ID == 0 {
			exam.Questions[i].ID = m.nextChildID
			m.nextChildID++
		}
		exam.Questions[i].ExamID = exam.ID
		for j := range exam.Questions[i].Options {
			if exam.Questions[i].Options[j].ID == 0 {
				exam.Questions[i].Options[j].ID = m.nextChildID
				m.nextChildID++
			}
			exam.Questions[i].Options[j].QuestionID = exam.Questions[i].ID
		}
	}
}

func (m *memoryExamRepo) Create(ctx context.Context, exam *models.Exam) error {
	exam.ID = m.nextID
	m.nextID++
	exam.CreatedAt = time.Now()
	exam.UpdatedAt = time.Now()
	m.assignChildIDs(exam)
	m.exams[exam.ID] = *exam
	return nil
}

func (m *memoryExamRepo) GetByID(ctx context.Context, id uint) (models.Exam, error) {
	exam, ok := m.exams[id]
	if !ok {
		return models.Exam{}, gorm.ErrRecordNotFound
	}
	return exam, nil
}

func (m *memoryExamRepo) GetByKey(ctx context.Context, key string) (models.Exam, error) {
	for _, exam := range m.exams {
		if strings.EqualFold(exam.ExamKey, key) {
			return exam, nil
		}
	}
	return models.Exam{}, gorm.ErrRecordNotFound
}

func (m *memoryExamRepo) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Exam, error) {
	exams := make([]models.Exam, 0)
	for _, exam := range m.exams {
		if exam.TeacherID == teacherID {
			exams = append(exams, exam)
		}
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].ID < exams[j].ID })
	return exams, nil
}

func (m *memoryExamRepo) ListOpenWindow(ctx context.Context, now time.Time) ([]models.Exam, error) {
	exams := make([]models.Exam, 0)
	for _, exam := range m.exams {
		if !exam.StartTime.After(now) && !exam.EndTime.Before(now) {
			exams = append(exams, exam)
		}
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].ID < exams[j].ID })
	return exams, nil
}

func (m *memoryExamRepo) Update(ctx context.Context, exam *models.Exam) error {
	if _, ok := m.exams[exam.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	exam.UpdatedAt = time.Now()
	m.assignChildIDs(exam)
	m.exams[exam.ID] = *exam
	return nil
}

func (m *memoryExamRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.exams[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.exams, id)
	return nil
}

// memoryResultRepo is an in-memory ResultRepository enforcing the same unique
// (student, exam) constraint the real schema carries. When exams is set, read
// methods hydrate the Exam association the way preloading does.
type memoryResultRepo struct {
	results map[uint]models.Result
	nextID  uint
	exams   *memoryExamRepo
}

func newMemoryResultRepo(exams *memoryExamRepo) *memoryResultRepo {
	return &memoryResultRepo{
		results: make(map[uint]models.Result),
		nextID:  1,
		exams:   exams,
	}
}

func (m *memoryResultRepo) hydrate(result models.Result) models.Result {
	if m.exams != nil {
		if exam, ok := m.exams.exams[result.ExamID]; ok {
			result.Exam = exam
		}
	}
	return result
}

func (m *memoryResultRepo) Create(ctx context.Context, result *models.Result) error {
	for _, existing := range m.results {
		if existing.StudentID == result.StudentID && existing.ExamID == result.ExamID {
			return gorm.ErrDuplicatedKey
		}
	}
	result.ID = m.nextID
	m.nextID++
	for i := range result.Answers {
		result.Answers[i].ResultID = result.ID
	}
	m.results[result.ID] = *result
	return nil
}

func (m *memoryResultRepo) GetByID(ctx context.Context, id uint) (models.Result, error) {
	result, ok := m.results[id]
	if !ok {
		return models.Result{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(result), nil
}

func (m *memoryResultRepo) GetByStudentAndExam(ctx context.Context, studentID, examID uint) (models.Result, error) {
	for _, result := range m.results {
		if result.StudentID == studentID && result.ExamID == examID {
			return m.hydrate(result), nil
		}
	}
	return models.Result{}, gorm.ErrRecordNotFound
}

func (m *memoryResultRepo) ExistsForStudentAndExam(ctx context.Context, studentID, examID uint) (bool, error) {
	_, err := m.GetByStudentAndExam(ctx, studentID, examID)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (m *memoryResultRepo) ListByStudent(ctx context.Context, studentID uint) ([]models.Result, error) {
	results := make([]models.Result, 0)
	for _, result := range m.results {
		if result.StudentID == studentID {
			results = append(results, m.hydrate(result))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].SubmittedAt.After(results[j].SubmittedAt)
	})
	return results, nil
}

func (m *memoryResultRepo) ListByExamRanked(ctx context.Context, examID uint) ([]models.Result, error) {
	results := make([]models.Result, 0)
	for _, result := range m.results {
		if result.ExamID == examID {
			results = append(results, m.hydrate(result))
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].ObtainedMarks != results[j].ObtainedMarks {
			return results[i].ObtainedMarks > results[j].ObtainedMarks
		}
		return results[i].TimeTaken < results[j].TimeTaken
	})
	return results, nil
}

func (m *memoryResultRepo) CountByExam(ctx context.Context, examID uint) (int64, error) {
	var count int64
	for _, result := range m.results {
		if result.ExamID == examID {
			count++
		}
	}
	return count, nil
}

func (m *memoryResultRepo) UpdateRanks(ctx context.Context, ranks map[uint]int) error {
	for resultID, rank := range ranks {
		if result, ok := m.results[resultID]; ok {
			assigned := rank
			result.Rank = &assigned
			m.results[resultID] = result
		}
	}
	return nil
}

// memoryUserRepo is an in-memory UserRepository with a unique email index.
type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

func (m *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}
