package model

import "time"

// Exam 考试日 — 对应 exams
type Exam struct {
	ExamID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"exam_id"`
	Date      time.Time `gorm:"type:date;not null"                             json:"date"`
	SubjectID string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	CreatedBy string    `gorm:"type:uuid;not null"                             json:"created_by"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
}

// TableName 指定表名
func (Exam) TableName() string { return "exams" }
