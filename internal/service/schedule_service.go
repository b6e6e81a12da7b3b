package service

import (
	"context"

	"go.uber.org/zap"

	"school-organizer/internal/dto"
	"school-organizer/internal/model"
	"school-organizer/internal/repository"
)

// DaysPerWeek 课表覆盖周一到周日
const DaysPerWeek = 7

// ScheduleService 周课表业务接口
//
// 每个用户同一时间只有一套生效课表。替换、新建、停用都会把旧行标记为
// is_active=false 而不是删除，历史每日记录不受课表变更影响。
type ScheduleService interface {
	Get(ctx context.Context, scope Scope) (*dto.ScheduleResponse, error)
	// Replace 用请求中的格子整体替换当前课表，同一天内按数组顺序编号
	Replace(ctx context.Context, scope Scope, req *dto.ReplaceScheduleRequest) (*dto.ScheduleResponse, error)
	// CreateEmpty 停用当前课表并为每天创建一个未指定科目的占位行
	CreateEmpty(ctx context.Context, scope Scope) (*dto.ScheduleResponse, error)
	// Disable 停用当前课表，返回停用的行数
	Disable(ctx context.Context, scope Scope) (int64, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

// ────────────────────── Get ──────────────────────

func (s *scheduleService) Get(ctx context.Context, scope Scope) (*dto.ScheduleResponse, error) {
	rows, err := s.repo.WeeklySchedule.ListActive(ctx, scope.OwnerID)
	if err != nil {
		s.logger.Error("查询周课表失败", zap.String("owner_id", scope.OwnerID), zap.Error(err))
		return nil, err
	}
	return toScheduleResponse(rows), nil
}

// ────────────────────── Replace ──────────────────────

func (s *scheduleService) Replace(ctx context.Context, scope Scope, req *dto.ReplaceScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := scope.requireEdit(); err != nil {
		return nil, err
	}

	// 科目必须属于课表所有者
	checked := make(map[string]bool)
	for _, item := range req.Items {
		if item.SubjectID == nil || checked[*item.SubjectID] {
			continue
		}
		if _, err := s.repo.Subject.GetOwned(ctx, scope.OwnerID, *item.SubjectID); err != nil {
			return nil, mapNotFound(err, ErrSubjectNotFound)
		}
		checked[*item.SubjectID] = true
	}

	positions := make(map[int]int, DaysPerWeek)
	rows := make([]model.WeeklySchedule, 0, len(req.Items))
	for _, item := range req.Items {
		row := model.WeeklySchedule{
			DayOfWeek: item.DayOfWeek,
			SubjectID: item.SubjectID,
			Position:  positions[item.DayOfWeek],
			IsActive:  true,
		}
		row.CreatedBy = scope.OwnerID
		rows = append(rows, row)
		positions[item.DayOfWeek]++
	}

	if err := s.replaceActive(ctx, scope.OwnerID, rows); err != nil {
		return nil, err
	}

	s.logger.Info("周课表已替换",
		zap.String("owner_id", scope.OwnerID),
		zap.String("actor_id", scope.Actor.UserID),
		zap.Int("rows", len(rows)),
	)
	return s.Get(ctx, scope)
}

// ────────────────────── CreateEmpty ──────────────────────

func (s *scheduleService) CreateEmpty(ctx context.Context, scope Scope) (*dto.ScheduleResponse, error) {
	if err := scope.requireEdit(); err != nil {
		return nil, err
	}

	rows := make([]model.WeeklySchedule, 0, DaysPerWeek)
	for day := 1; day <= DaysPerWeek; day++ {
		row := model.WeeklySchedule{DayOfWeek: day, IsActive: true}
		row.CreatedBy = scope.OwnerID
		rows = append(rows, row)
	}

	if err := s.replaceActive(ctx, scope.OwnerID, rows); err != nil {
		return nil, err
	}
	return s.Get(ctx, scope)
}

// ────────────────────── Disable ──────────────────────

func (s *scheduleService) Disable(ctx context.Context, scope Scope) (int64, error) {
	if err := scope.requireEdit(); err != nil {
		return 0, err
	}

	n, err := s.repo.WeeklySchedule.DeactivateAll(ctx, scope.OwnerID)
	if err != nil {
		s.logger.Error("停用周课表失败", zap.String("owner_id", scope.OwnerID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// ── 辅助函数 ──

// replaceActive 在同一事务中停用旧课表并写入新行
func (s *scheduleService) replaceActive(ctx context.Context, ownerID string, rows []model.WeeklySchedule) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.WeeklySchedule.DeactivateAll(ctx, ownerID); err != nil {
			return err
		}
		return tx.WeeklySchedule.BatchCreate(ctx, rows)
	})
	if err != nil {
		s.logger.Error("写入周课表失败", zap.String("owner_id", ownerID), zap.Error(err))
	}
	return err
}

func toScheduleResponse(rows []model.WeeklySchedule) *dto.ScheduleResponse {
	days := make([]dto.ScheduleDayResponse, DaysPerWeek)
	for i := range days {
		days[i] = dto.ScheduleDayResponse{DayOfWeek: i + 1, Rows: []dto.ScheduleRowResponse{}}
	}

	for i := range rows {
		row := &rows[i]
		if row.DayOfWeek < 1 || row.DayOfWeek > DaysPerWeek {
			continue
		}
		item := dto.ScheduleRowResponse{
			ID:        row.WeeklyScheduleID,
			DayOfWeek: row.DayOfWeek,
			Position:  row.Position,
			SubjectID: row.SubjectID,
		}
		if row.Subject != nil {
			item.SubjectName = row.Subject.Name
		}
		days[row.DayOfWeek-1].Rows = append(days[row.DayOfWeek-1].Rows, item)
	}

	return &dto.ScheduleResponse{Days: days}
}
