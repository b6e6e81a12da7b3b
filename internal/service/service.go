package service

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-organizer/config"
	"school-organizer/internal/model"
	"school-organizer/internal/render"
	"school-organizer/internal/repository"
	"school-organizer/pkg/jwt"
	"school-organizer/pkg/redis"
)

// ── 通用业务错误 ──

var (
	ErrNoPermission = errors.New("无权限执行该操作")
)

// mapNotFound 将 gorm.ErrRecordNotFound 转换为业务错误，其余错误原样返回
func mapNotFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// Actor 当前登录用户，由 Handler 从 JWT 声明中构造
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin 是否管理员
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// Scope 一次请求的数据归属：操作谁的数据、能否写
// 由 UserService.ResolveScope 根据 Actor 与目标用户计算
type Scope struct {
	Actor   Actor
	OwnerID string
	CanEdit bool
}

// requireEdit 写操作前置检查
func (s Scope) requireEdit() error {
	if !s.CanEdit {
		return ErrNoPermission
	}
	return nil
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Subject  SubjectService
	Schedule ScheduleService
	Daily    DailyService
	History  HistoryService
	Exam     ExamService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	renderers []render.Renderer,
	logger *zap.Logger,
) *Service {
	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}
	daily := NewDailyService(repo, logger)
	return &Service{
		Auth:     NewAuthService(repo, jwtMgr, blacklist, logger),
		User:     NewUserService(repo, logger),
		Subject:  NewSubjectService(repo, logger),
		Schedule: NewScheduleService(repo, logger),
		Daily:    daily,
		History:  NewHistoryService(repo, daily, cfg.App.Location(), logger),
		Exam:     NewExamService(repo, cfg.App.Location(), logger),
		Export:   NewExportService(daily, repo, renderers, cfg.Export.RenderTimeout, logger),
	}
}
