package model

import "time"

// BaseModel 通用审计字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// OwnedModel 归属于某个用户的数据，所有查询都按 created_by 过滤
type OwnedModel struct {
	CreatedBy string `gorm:"type:uuid;not null;index" json:"created_by"`
	BaseModel
}
