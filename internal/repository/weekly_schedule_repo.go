package repository

import (
	"context"

	"gorm.io/gorm"

	"school-organizer/internal/model"
)

// WeeklyScheduleRepository 周课表数据访问接口
type WeeklyScheduleRepository interface {
	// ListActive 当前生效的全部行（含占位行），按星期、位置排序
	ListActive(ctx context.Context, ownerID string) ([]model.WeeklySchedule, error)
	// ListActiveByDay 某一天生效且已指定科目的行，按位置排序
	ListActiveByDay(ctx context.Context, ownerID string, dayOfWeek int) ([]model.WeeklySchedule, error)
	// DeactivateAll 停用当前生效的全部行，返回受影响行数
	DeactivateAll(ctx context.Context, ownerID string) (int64, error)
	BatchCreate(ctx context.Context, rows []model.WeeklySchedule) error
}

type weeklyScheduleRepo struct {
	db *gorm.DB
}

// NewWeeklyScheduleRepo 创建 WeeklyScheduleRepository 实例
func NewWeeklyScheduleRepo(db *gorm.DB) WeeklyScheduleRepository {
	return &weeklyScheduleRepo{db: db}
}

func (r *weeklyScheduleRepo) ListActive(ctx context.Context, ownerID string) ([]model.WeeklySchedule, error) {
	var rows []model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("created_by = ? AND is_active = ?", ownerID, true).
		Order("day_of_week ASC, position ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *weeklyScheduleRepo) ListActiveByDay(ctx context.Context, ownerID string, dayOfWeek int) ([]model.WeeklySchedule, error) {
	var rows []model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("created_by = ? AND is_active = ? AND day_of_week = ? AND subject_id IS NOT NULL",
			ownerID, true, dayOfWeek).
		Order("position ASC, created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *weeklyScheduleRepo) DeactivateAll(ctx context.Context, ownerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.WeeklySchedule{}).
		Where("created_by = ? AND is_active = ?", ownerID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": gorm.Expr("NOW()"),
		})
	return result.RowsAffected, result.Error
}

func (r *weeklyScheduleRepo) BatchCreate(ctx context.Context, rows []model.WeeklySchedule) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
