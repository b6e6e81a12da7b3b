package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-organizer/internal/dto"
	"school-organizer/internal/model"
	"school-organizer/internal/repository"
)

// ── 科目模块业务错误 ──

var (
	ErrSubjectNotFound = errors.New("科目不存在")
	ErrBookNotFound    = errors.New("书目不存在")
	ErrEmptyName       = errors.New("名称不能为空")
)

// SubjectService 科目与书目业务接口
type SubjectService interface {
	// List 科目及其书目，按名称排序
	List(ctx context.Context, scope Scope) ([]dto.SubjectResponse, error)
	// Create 同名科目已存在时直接返回，created 为 false
	Create(ctx context.Context, scope Scope, req *dto.CreateSubjectRequest) (resp *dto.SubjectResponse, created bool, err error)
	// Delete 删除科目，书目、课表行、每日记录与考试一并删除
	Delete(ctx context.Context, scope Scope, subjectID string) error
	CreateBook(ctx context.Context, scope Scope, subjectID string, req *dto.CreateBookRequest) (resp *dto.BookResponse, created bool, err error)
	DeleteBook(ctx context.Context, scope Scope, bookID string) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *subjectService) List(ctx context.Context, scope Scope) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.ListWithBooks(ctx, scope.OwnerID)
	if err != nil {
		s.logger.Error("查询科目列表失败", zap.String("owner_id", scope.OwnerID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *subjectService) Create(ctx context.Context, scope Scope, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, bool, error) {
	if err := scope.requireEdit(); err != nil {
		return nil, false, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	subject, created, err := s.repo.Subject.GetOrCreate(ctx, scope.OwnerID, name)
	if err != nil {
		s.logger.Error("创建科目失败", zap.String("name", name), zap.Error(err))
		return nil, false, err
	}

	resp := toSubjectResponse(subject)
	return &resp, created, nil
}

// ────────────────────── Delete ──────────────────────

func (s *subjectService) Delete(ctx context.Context, scope Scope, subjectID string) error {
	if err := scope.requireEdit(); err != nil {
		return err
	}

	if _, err := s.getOwnedSubject(ctx, scope.OwnerID, subjectID); err != nil {
		return err
	}

	if err := s.repo.Subject.Delete(ctx, subjectID); err != nil {
		s.logger.Error("删除科目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return err
	}

	s.logger.Info("科目已删除",
		zap.String("subject_id", subjectID),
		zap.String("owner_id", scope.OwnerID),
		zap.String("actor_id", scope.Actor.UserID),
	)
	return nil
}

// ────────────────────── Books ──────────────────────

func (s *subjectService) CreateBook(ctx context.Context, scope Scope, subjectID string, req *dto.CreateBookRequest) (*dto.BookResponse, bool, error) {
	if err := scope.requireEdit(); err != nil {
		return nil, false, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, false, ErrEmptyName
	}

	if _, err := s.getOwnedSubject(ctx, scope.OwnerID, subjectID); err != nil {
		return nil, false, err
	}

	book, created, err := s.repo.Book.GetOrCreate(ctx, scope.OwnerID, subjectID, title)
	if err != nil {
		s.logger.Error("创建书目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return nil, false, err
	}

	resp := toBookResponse(book)
	return &resp, created, nil
}

func (s *subjectService) DeleteBook(ctx context.Context, scope Scope, bookID string) error {
	if err := scope.requireEdit(); err != nil {
		return err
	}

	if _, err := s.repo.Book.GetOwned(ctx, scope.OwnerID, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		s.logger.Error("查询书目失败", zap.String("book_id", bookID), zap.Error(err))
		return err
	}

	if err := s.repo.Book.Delete(ctx, bookID); err != nil {
		s.logger.Error("删除书目失败", zap.String("book_id", bookID), zap.Error(err))
		return err
	}
	return nil
}

// ── 辅助函数 ──

func (s *subjectService) getOwnedSubject(ctx context.Context, ownerID, subjectID string) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetOwned(ctx, ownerID, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("subject_id", subjectID), zap.Error(err))
		return nil, err
	}
	return subject, nil
}

func toSubjectResponse(subject *model.Subject) dto.SubjectResponse {
	books := make([]dto.BookResponse, 0, len(subject.Books))
	for i := range subject.Books {
		books = append(books, toBookResponse(&subject.Books[i]))
	}
	return dto.SubjectResponse{ID: subject.SubjectID, Name: subject.Name, Books: books}
}

func toBookResponse(book *model.Book) dto.BookResponse {
	return dto.BookResponse{ID: book.BookID, SubjectID: book.SubjectID, Title: book.Title}
}
