package model

// WeeklySchedule 周课表行 — 对应 weekly_schedules
// SubjectID 为空的行是"新建空课表"产生的占位行
type WeeklySchedule struct {
	WeeklyScheduleID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"weekly_schedule_id"`
	DayOfWeek        int     `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1-7，周一为 1
	SubjectID        *string `gorm:"type:uuid"                                      json:"subject_id,omitempty"`
	Position         int     `gorm:"not null;default:0"                             json:"position"`
	IsActive         bool    `gorm:"not null;default:true"                          json:"is_active"`
	OwnedModel

	// 关联
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (WeeklySchedule) TableName() string { return "weekly_schedules" }
