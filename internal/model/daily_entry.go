package model

import "time"

// DailyEntry 每日记录 — 对应 daily_entries
// (date, subject_id, created_by) 唯一
type DailyEntry struct {
	DailyEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"daily_entry_id"`
	Date         time.Time `gorm:"type:date;not null"                             json:"date"`
	SubjectID    string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	// ScheduledSubjectID 被替换的课表科目；为空表示未替换
	ScheduledSubjectID *string `gorm:"type:uuid"                  json:"scheduled_subject_id,omitempty"`
	BookID             *string `gorm:"type:uuid"                  json:"book_id,omitempty"`
	Pages              string  `gorm:"type:varchar(100);not null" json:"pages"`
	Notes              string  `gorm:"type:text;not null"         json:"notes"`
	ImportantNotes     *string `gorm:"type:text"                  json:"important_notes,omitempty"`
	OwnedModel

	// 关联
	Subject  *Subject        `gorm:"foreignKey:SubjectID;references:SubjectID"       json:"subject,omitempty"`
	Book     *Book           `gorm:"foreignKey:BookID;references:BookID"             json:"book,omitempty"`
	Extras   []DailyExtra    `gorm:"foreignKey:DailyEntryID;references:DailyEntryID" json:"extras,omitempty"`
	Homework []HomeworkEntry `gorm:"foreignKey:DailyEntryID;references:DailyEntryID" json:"homework,omitempty"`
}

// TableName 指定表名
func (DailyEntry) TableName() string { return "daily_entries" }

// DailyExtra 附加阅读 — 对应 daily_extras，每次保存整体替换
type DailyExtra struct {
	DailyExtraID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"daily_extra_id"`
	DailyEntryID string    `gorm:"type:uuid;not null"                             json:"daily_entry_id"`
	BookID       *string   `gorm:"type:uuid"                                      json:"book_id,omitempty"`
	Pages        string    `gorm:"type:varchar(100);not null"                     json:"pages"`
	Notes        string    `gorm:"type:text;not null"                             json:"notes"`
	CreatedBy    string    `gorm:"type:uuid;not null"                             json:"created_by"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Book *Book `gorm:"foreignKey:BookID;references:BookID" json:"book,omitempty"`
}

// TableName 指定表名
func (DailyExtra) TableName() string { return "daily_extras" }

// HomeworkEntry 作业 — 对应 homework_entries
type HomeworkEntry struct {
	HomeworkEntryID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"homework_entry_id"`
	DailyEntryID    string    `gorm:"type:uuid;not null"                             json:"daily_entry_id"`
	BookID          *string   `gorm:"type:uuid"                                      json:"book_id,omitempty"`
	Pages           string    `gorm:"type:varchar(100);not null"                     json:"pages"`
	CreatedBy       string    `gorm:"type:uuid;not null"                             json:"created_by"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Book *Book `gorm:"foreignKey:BookID;references:BookID" json:"book,omitempty"`
}

// TableName 指定表名
func (HomeworkEntry) TableName() string { return "homework_entries" }
