package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"school-organizer/internal/model"
)

// ExamRepository 考试日数据访问接口
type ExamRepository interface {
	GetOrCreate(ctx context.Context, ownerID string, date time.Time, subjectID string) (exam *model.Exam, created bool, err error)
	DeleteByDateSubject(ctx context.Context, ownerID string, date time.Time, subjectID string) (int64, error)
	ListByDate(ctx context.Context, ownerID string, date time.Time) ([]model.Exam, error)
	ListDates(ctx context.Context, ownerID string, from, to time.Time) ([]time.Time, error)
}

type examRepo struct {
	db *gorm.DB
}

// NewExamRepo 创建 ExamRepository 实例
func NewExamRepo(db *gorm.DB) ExamRepository {
	return &examRepo{db: db}
}

func (r *examRepo) GetOrCreate(ctx context.Context, ownerID string, date time.Time, subjectID string) (*model.Exam, bool, error) {
	exam := model.Exam{Date: date, SubjectID: subjectID, CreatedBy: ownerID}
	result := r.db.WithContext(ctx).
		Where("created_by = ? AND date = ? AND subject_id = ?", ownerID, dateKey(date), subjectID).
		FirstOrCreate(&exam)
	if result.Error != nil {
		return nil, false, result.Error
	}
	return &exam, result.RowsAffected > 0, nil
}

func (r *examRepo) DeleteByDateSubject(ctx context.Context, ownerID string, date time.Time, subjectID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_by = ? AND date = ? AND subject_id = ?", ownerID, dateKey(date), subjectID).
		Delete(&model.Exam{})
	return result.RowsAffected, result.Error
}

func (r *examRepo) ListByDate(ctx context.Context, ownerID string, date time.Time) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("created_by = ? AND date = ?", ownerID, dateKey(date)).
		Order("created_at ASC").
		Find(&exams).Error
	return exams, err
}

func (r *examRepo) ListDates(ctx context.Context, ownerID string, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&model.Exam{}).
		Where("created_by = ? AND date BETWEEN ? AND ?", ownerID, dateKey(from), dateKey(to)).
		Distinct("date").
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}
