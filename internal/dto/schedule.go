package dto

// ── 周课表 ──

// ScheduleItemRequest 课表中的一格
type ScheduleItemRequest struct {
	DayOfWeek int     `json:"day_of_week" binding:"required,min=1,max=7"`
	SubjectID *string `json:"subject_id"  binding:"omitempty,uuid"`
}

// ReplaceScheduleRequest 整体替换课表，同一天内按数组顺序确定位置
type ReplaceScheduleRequest struct {
	Items []ScheduleItemRequest `json:"items" binding:"dive"`
}

// ScheduleRowResponse 课表行
type ScheduleRowResponse struct {
	ID          string  `json:"id"`
	DayOfWeek   int     `json:"day_of_week"`
	Position    int     `json:"position"`
	SubjectID   *string `json:"subject_id,omitempty"`
	SubjectName string  `json:"subject_name,omitempty"`
}

// ScheduleDayResponse 一天的课表
type ScheduleDayResponse struct {
	DayOfWeek int                   `json:"day_of_week"`
	Rows      []ScheduleRowResponse `json:"rows"`
}

// ScheduleResponse 当前生效的周课表，按周一到周日
type ScheduleResponse struct {
	Days []ScheduleDayResponse `json:"days"`
}

// DisableScheduleResponse 停用结果
type DisableScheduleResponse struct {
	Disabled int64 `json:"disabled"`
}
