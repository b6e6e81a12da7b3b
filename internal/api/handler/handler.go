package handler

import (
	"time"

	"school-organizer/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Subject  *SubjectHandler
	Schedule *ScheduleHandler
	Day      *DayHandler
	History  *HistoryHandler
	Export   *ExportHandler
}

// NewHandler 创建 Handler 聚合
// loc 为业务时区，日期参数非法时回退到该时区的今天
func NewHandler(svc *service.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth, svc.User),
		User:     NewUserHandler(svc.User),
		Subject:  NewSubjectHandler(svc.Subject, svc.User),
		Schedule: NewScheduleHandler(svc.Schedule, svc.User),
		Day:      NewDayHandler(svc.Daily, svc.User, loc),
		History:  NewHistoryHandler(svc.History, svc.Exam, svc.User),
		Export:   NewExportHandler(svc.Export, svc.User, loc),
	}
}
