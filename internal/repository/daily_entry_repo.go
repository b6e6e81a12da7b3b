package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"school-organizer/internal/model"
)

// DailyEntryRepository 每日记录数据访问接口
// 附加阅读与作业只通过 Replace* 整体替换
type DailyEntryRepository interface {
	GetByDateSubject(ctx context.Context, ownerID string, date time.Time, subjectID string) (*model.DailyEntry, error)
	// ListByDate 某天全部记录（含科目、书目、附加阅读、作业），按创建顺序
	ListByDate(ctx context.Context, ownerID string, date time.Time) ([]model.DailyEntry, error)
	// ListByRange 闭区间 [from, to] 的全部记录，按日期、创建顺序
	ListByRange(ctx context.Context, ownerID string, from, to time.Time) ([]model.DailyEntry, error)
	// CountDistinctDays 每个用户有记录的天数
	CountDistinctDays(ctx context.Context, ownerIDs []string) (map[string]int64, error)
	Create(ctx context.Context, entry *model.DailyEntry) error
	Update(ctx context.Context, entry *model.DailyEntry) error
	// Delete 删除记录，附加阅读与作业一并删除
	Delete(ctx context.Context, id string) error
	ReplaceExtras(ctx context.Context, entryID string, extras []model.DailyExtra) error
	ReplaceHomework(ctx context.Context, entryID string, homework []model.HomeworkEntry) error
}

type dailyEntryRepo struct {
	db *gorm.DB
}

// NewDailyEntryRepo 创建 DailyEntryRepository 实例
func NewDailyEntryRepo(db *gorm.DB) DailyEntryRepository {
	return &dailyEntryRepo{db: db}
}

// withContent 预加载展示与导出所需的全部关联
func withContent(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Subject").
		Preload("Book").
		Preload("Extras", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, daily_extra_id ASC")
		}).
		Preload("Extras.Book").
		Preload("Homework", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, homework_entry_id ASC")
		}).
		Preload("Homework.Book")
}

func (r *dailyEntryRepo) GetByDateSubject(ctx context.Context, ownerID string, date time.Time, subjectID string) (*model.DailyEntry, error) {
	var entry model.DailyEntry
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND date = ? AND subject_id = ?", ownerID, dateKey(date), subjectID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *dailyEntryRepo) ListByDate(ctx context.Context, ownerID string, date time.Time) ([]model.DailyEntry, error) {
	var entries []model.DailyEntry
	err := withContent(r.db.WithContext(ctx)).
		Where("created_by = ? AND date = ?", ownerID, dateKey(date)).
		Order("created_at ASC, daily_entry_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *dailyEntryRepo) ListByRange(ctx context.Context, ownerID string, from, to time.Time) ([]model.DailyEntry, error) {
	var entries []model.DailyEntry
	err := withContent(r.db.WithContext(ctx)).
		Where("created_by = ? AND date BETWEEN ? AND ?", ownerID, dateKey(from), dateKey(to)).
		Order("date ASC, created_at ASC, daily_entry_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *dailyEntryRepo) CountDistinctDays(ctx context.Context, ownerIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		CreatedBy string
		Days      int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.DailyEntry{}).
		Select("created_by, COUNT(DISTINCT date) AS days").
		Where("created_by IN ?", ownerIDs).
		Group("created_by").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CreatedBy] = row.Days
	}
	return out, nil
}

func (r *dailyEntryRepo) Create(ctx context.Context, entry *model.DailyEntry) error {
	return r.db.WithContext(ctx).Omit("Subject", "Book", "Extras", "Homework").Create(entry).Error
}

func (r *dailyEntryRepo) Update(ctx context.Context, entry *model.DailyEntry) error {
	return r.db.WithContext(ctx).
		Model(&model.DailyEntry{}).
		Where("daily_entry_id = ?", entry.DailyEntryID).
		Updates(map[string]interface{}{
			"subject_id":           entry.SubjectID,
			"scheduled_subject_id": entry.ScheduledSubjectID,
			"book_id":              entry.BookID,
			"pages":                entry.Pages,
			"notes":                entry.Notes,
			"important_notes":      entry.ImportantNotes,
			"updated_at":           gorm.Expr("NOW()"),
		}).Error
}

func (r *dailyEntryRepo) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("daily_entry_id = ?", id).Delete(&model.DailyExtra{}).Error; err != nil {
		return err
	}
	if err := db.Where("daily_entry_id = ?", id).Delete(&model.HomeworkEntry{}).Error; err != nil {
		return err
	}
	return db.Where("daily_entry_id = ?", id).Delete(&model.DailyEntry{}).Error
}

func (r *dailyEntryRepo) ReplaceExtras(ctx context.Context, entryID string, extras []model.DailyExtra) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("daily_entry_id = ?", entryID).Delete(&model.DailyExtra{}).Error; err != nil {
		return err
	}
	if len(extras) == 0 {
		return nil
	}
	for i := range extras {
		extras[i].DailyEntryID = entryID
	}
	return db.Omit("Book").Create(&extras).Error
}

func (r *dailyEntryRepo) ReplaceHomework(ctx context.Context, entryID string, homework []model.HomeworkEntry) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("daily_entry_id = ?", entryID).Delete(&model.HomeworkEntry{}).Error; err != nil {
		return err
	}
	if len(homework) == 0 {
		return nil
	}
	for i := range homework {
		homework[i].DailyEntryID = entryID
	}
	return db.Omit("Book").Create(&homework).Error
}
