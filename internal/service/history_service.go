package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"school-organizer/internal/dto"
	"school-organizer/internal/model"
	"school-organizer/internal/repository"
	"school-organizer/pkg/calendar"
)

// HistoryService 历史日历业务接口
type HistoryService interface {
	// Get 月历（标出有内容的日期与考试日）及所选日期的记录
	// 年月缺省时取所选日期所在月份，所选日期非法时回退到今天
	Get(ctx context.Context, scope Scope, req *dto.HistoryRequest) (*dto.HistoryResponse, error)
}

type historyService struct {
	repo   *repository.Repository
	daily  DailyService
	loc    *time.Location
	logger *zap.Logger
}

// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(repo *repository.Repository, daily DailyService, loc *time.Location, logger *zap.Logger) HistoryService {
	if loc == nil {
		loc = time.UTC
	}
	return &historyService{repo: repo, daily: daily, loc: loc, logger: logger}
}

func (s *historyService) Get(ctx context.Context, scope Scope, req *dto.HistoryRequest) (*dto.HistoryResponse, error) {
	today := calendar.Today(s.loc)
	selected := calendar.ParseDay(req.Date, today)

	year, month := selected.Year(), selected.Month()
	if req.Year > 0 && req.Month > 0 {
		year, month = req.Year, time.Month(req.Month)
	}

	grid := calendar.MonthGrid(year, month)
	from, to := grid[0][0], grid[calendar.GridWeeks-1][6]

	// 有内容的日期
	entries, err := s.repo.DailyEntry.ListByRange(ctx, scope.OwnerID, from, to)
	if err != nil {
		s.logger.Error("查询月度记录失败", zap.String("owner_id", scope.OwnerID), zap.Error(err))
		return nil, err
	}
	contentDays := make(map[string]bool)
	for i := range entries {
		rec := BuildRecord(entrySubject(&entries[i]), &entries[i])
		if rec.HasContent() {
			contentDays[calendar.FormatParam(entries[i].Date)] = true
		}
	}

	examDates, err := s.repo.Exam.ListDates(ctx, scope.OwnerID, from, to)
	if err != nil {
		s.logger.Error("查询考试日失败", zap.String("owner_id", scope.OwnerID), zap.Error(err))
		return nil, err
	}
	examDays := make(map[string]bool, len(examDates))
	for _, d := range examDates {
		examDays[calendar.FormatParam(d)] = true
	}

	py, pm := calendar.PrevMonth(year, month)
	ny, nm := calendar.NextMonth(year, month)
	resp := &dto.HistoryResponse{
		Year:         year,
		Month:        int(month),
		Prev:         dto.MonthRef{Year: py, Month: int(pm)},
		Next:         dto.MonthRef{Year: ny, Month: int(nm)},
		Weeks:        make([][]dto.CalendarDay, 0, calendar.GridWeeks),
		SelectedDate: calendar.FormatParam(selected),
		CanEdit:      scope.CanEdit,
	}

	for _, week := range grid {
		row := make([]dto.CalendarDay, 0, 7)
		for _, d := range week {
			key := calendar.FormatParam(d)
			row = append(row, dto.CalendarDay{
				Date:     key,
				Day:      d.Day(),
				InMonth:  d.Month() == month,
				HasEntry: contentDays[key],
				HasExam:  examDays[key],
				Selected: d.Equal(selected),
				Today:    d.Equal(today),
			})
		}
		resp.Weeks = append(resp.Weeks, row)
	}

	// 所选日期的记录与考试
	records, err := s.daily.Records(ctx, scope.OwnerID, selected)
	if err != nil {
		return nil, err
	}
	resp.Records = make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		resp.Records = append(resp.Records, toRecordResponse(&records[i]))
	}

	exams, err := s.repo.Exam.ListByDate(ctx, scope.OwnerID, selected)
	if err != nil {
		s.logger.Error("查询考试失败", zap.String("owner_id", scope.OwnerID), zap.Error(err))
		return nil, err
	}
	resp.Exams = make([]dto.ExamResponse, 0, len(exams))
	for i := range exams {
		resp.Exams = append(resp.Exams, toExamResponse(&exams[i]))
	}

	return resp, nil
}

func toExamResponse(exam *model.Exam) dto.ExamResponse {
	resp := dto.ExamResponse{
		ID:        exam.ExamID,
		Date:      calendar.FormatParam(exam.Date),
		SubjectID: exam.SubjectID,
	}
	if exam.Subject != nil {
		resp.SubjectName = exam.Subject.Name
	}
	return resp
}
