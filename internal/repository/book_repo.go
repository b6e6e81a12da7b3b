package repository

import (
	"context"

	"gorm.io/gorm"

	"school-organizer/internal/model"
)

// BookRepository 书目数据访问接口
type BookRepository interface {
	GetOrCreate(ctx context.Context, ownerID, subjectID, title string) (book *model.Book, created bool, err error)
	GetOwned(ctx context.Context, ownerID, id string) (*model.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error)
	Delete(ctx context.Context, id string) error
}

type bookRepo struct {
	db *gorm.DB
}

// NewBookRepo 创建 BookRepository 实例
func NewBookRepo(db *gorm.DB) BookRepository {
	return &bookRepo{db: db}
}

func (r *bookRepo) GetOrCreate(ctx context.Context, ownerID, subjectID, title string) (*model.Book, bool, error) {
	book := model.Book{SubjectID: subjectID, Title: title}
	book.CreatedBy = ownerID

	result := r.db.WithContext(ctx).
		Where("subject_id = ? AND title = ?", subjectID, title).
		FirstOrCreate(&book)
	if result.Error != nil {
		return nil, false, result.Error
	}
	return &book, result.RowsAffected > 0, nil
}

func (r *bookRepo) GetOwned(ctx context.Context, ownerID, id string) (*model.Book, error) {
	if !isUUID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var book model.Book
	err := r.db.WithContext(ctx).
		Where("book_id = ? AND created_by = ?", id, ownerID).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Book, error) {
	var books []model.Book
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

func (r *bookRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("book_id = ?", id).
		Delete(&model.Book{}).Error
}
