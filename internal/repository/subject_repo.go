package repository

import (
	"context"

	"gorm.io/gorm"

	"school-organizer/internal/model"
)

// SubjectRepository 科目数据访问接口，所有方法均按归属用户隔离
type SubjectRepository interface {
	// GetOrCreate 按 (owner, name) 查找，不存在时创建；created 表示是否新建
	GetOrCreate(ctx context.Context, ownerID, name string) (subject *model.Subject, created bool, err error)
	GetOwned(ctx context.Context, ownerID, id string) (*model.Subject, error)
	GetByName(ctx context.Context, ownerID, name string) (*model.Subject, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Subject, error)
	// ListWithBooks 同时预加载书目（按标题排序）
	ListWithBooks(ctx context.Context, ownerID string) ([]model.Subject, error)
	Delete(ctx context.Context, id string) error
}

type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) GetOrCreate(ctx context.Context, ownerID, name string) (*model.Subject, bool, error) {
	subject := model.Subject{Name: name}
	subject.CreatedBy = ownerID

	result := r.db.WithContext(ctx).
		Where("created_by = ? AND name = ?", ownerID, name).
		FirstOrCreate(&subject)
	if result.Error != nil {
		return nil, false, result.Error
	}
	return &subject, result.RowsAffected > 0, nil
}

func (r *subjectRepo) GetOwned(ctx context.Context, ownerID, id string) (*model.Subject, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND created_by = ?", id, ownerID).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) GetByName(ctx context.Context, ownerID, name string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND name = ?", ownerID, name).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) ListWithBooks(ctx context.Context, ownerID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("title ASC")
		}).
		Where("created_by = ?", ownerID).
		Order("name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (r *subjectRepo) Delete(ctx context.Context, id string) error {
	// 书目、课表行、每日记录与考试由外键级联删除
	return r.db.WithContext(ctx).
		Where("subject_id = ?", id).
		Delete(&model.Subject{}).Error
}
