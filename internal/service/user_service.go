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

// UserService 用户业务接口
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	UpdateAlias(ctx context.Context, id string, req *dto.UpdateAliasRequest) (*dto.UserResponse, error)
	// List 用户列表（仅管理员），附带每个用户有记录的天数
	List(ctx context.Context, actor Actor, req *dto.UserListRequest) ([]dto.UserSummaryResponse, int64, error)
	// ResolveScope 计算本次请求操作的数据归属
	//   - 未指定目标或目标为自己：操作自己的数据，viewer 只读
	//   - 管理员指定他人：可读写
	//   - 非管理员指定他人：只读
	// write 为 true 且结果不可写时返回 ErrNoPermission
	ResolveScope(ctx context.Context, actor Actor, targetUserID string, write bool) (Scope, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateAlias(ctx context.Context, id string, req *dto.UpdateAliasRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	var alias *string
	if a := strings.TrimSpace(req.Alias); a != "" {
		alias = &a
	}

	if err := s.repo.User.UpdateAlias(ctx, id, alias); err != nil {
		s.logger.Error("更新别名失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	user.Alias = alias
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, actor Actor, req *dto.UserListRequest) ([]dto.UserSummaryResponse, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, ErrNoPermission
	}

	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]string, 0, len(users))
	for i := range users {
		ids = append(ids, users[i].UserID)
	}
	days, err := s.repo.DailyEntry.CountDistinctDays(ctx, ids)
	if err != nil {
		s.logger.Error("统计记录天数失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserSummaryResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.UserSummaryResponse{
			UserResponse: *toUserResponse(&users[i]),
			UniqueDays:   days[users[i].UserID],
		})
	}
	return result, total, nil
}

func (s *userService) ResolveScope(ctx context.Context, actor Actor, targetUserID string, write bool) (Scope, error) {
	scope := Scope{Actor: actor, OwnerID: actor.UserID, CanEdit: model.CanEditRole(actor.Role)}

	if targetUserID != "" && targetUserID != actor.UserID {
		if _, err := s.getUser(ctx, targetUserID); err != nil {
			return Scope{}, err
		}
		scope.OwnerID = targetUserID
		scope.CanEdit = actor.IsAdmin()
	}

	if write && !scope.CanEdit {
		return Scope{}, ErrNoPermission
	}
	return scope, nil
}

// ── 辅助函数 ──

func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          user.UserID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		Alias:       user.Alias,
		DisplayName: user.DisplayName(),
		CanEdit:     user.CanEdit(),
	}
}
