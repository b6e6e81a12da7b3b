package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Subject        SubjectRepository
	Book           BookRepository
	WeeklySchedule WeeklyScheduleRepository
	DailyEntry     DailyEntryRepository
	Exam           ExamRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		Subject:        NewSubjectRepo(db),
		Book:           NewBookRepo(db),
		WeeklySchedule: NewWeeklyScheduleRepo(db),
		DailyEntry:     NewDailyEntryRepo(db),
		Exam:           NewExamRepo(db),
	}
}

// Transaction 在同一个数据库事务中执行 fn
// fn 收到绑定到事务的 Repository，任意错误都会回滚
// 未绑定数据库（单元测试中手工组装的 Repository）时直接在当前 Repository 上执行
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// dateKey 统一以 YYYY-MM-DD 字符串比较 DATE 列，避免时区换算
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// isUUID 主键均为 UUID，格式非法的 ID 直接视为不存在，避免数据库类型转换报错
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
