package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"school-organizer/internal/dto"
	"school-organizer/internal/repository"
	"school-organizer/pkg/calendar"
)

var (
	ErrExamNotFound = errors.New("考试记录不存在")
)

// ExamService 考试日业务接口
type ExamService interface {
	// Add 同一天同一科目重复添加时返回已有记录
	Add(ctx context.Context, scope Scope, req *dto.ExamRequest) (*dto.ExamResponse, error)
	Delete(ctx context.Context, scope Scope, req *dto.ExamRequest) error
}

type examService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExamService 创建 ExamService 实例
func NewExamService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExamService {
	if loc == nil {
		loc = time.UTC
	}
	return &examService{repo: repo, loc: loc, logger: logger}
}

func (s *examService) Add(ctx context.Context, scope Scope, req *dto.ExamRequest) (*dto.ExamResponse, error) {
	if err := scope.requireEdit(); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject.GetOwned(ctx, scope.OwnerID, req.SubjectID)
	if err != nil {
		return nil, mapNotFound(err, ErrSubjectNotFound)
	}

	date := calendar.ParseDay(req.Date, calendar.Today(s.loc))
	exam, _, err := s.repo.Exam.GetOrCreate(ctx, scope.OwnerID, date, subject.SubjectID)
	if err != nil {
		s.logger.Error("添加考试失败", zap.String("subject_id", subject.SubjectID), zap.Error(err))
		return nil, err
	}

	exam.Subject = subject
	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) Delete(ctx context.Context, scope Scope, req *dto.ExamRequest) error {
	if err := scope.requireEdit(); err != nil {
		return err
	}

	date := calendar.ParseDay(req.Date, calendar.Today(s.loc))
	n, err := s.repo.Exam.DeleteByDateSubject(ctx, scope.OwnerID, date, req.SubjectID)
	if err != nil {
		s.logger.Error("删除考试失败", zap.String("subject_id", req.SubjectID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrExamNotFound
	}
	return nil
}
