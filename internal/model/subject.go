package model

// Subject 科目表 — 对应 subjects
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	OwnedModel

	// 关联
	Books []Book `gorm:"foreignKey:SubjectID;references:SubjectID" json:"books,omitempty"`
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// Book 书目表 — 对应 books
type Book struct {
	BookID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"book_id"`
	SubjectID string `gorm:"type:uuid;not null"                             json:"subject_id"`
	Title     string `gorm:"type:varchar(200);not null"                     json:"title"`
	OwnedModel
}

// TableName 指定表名
func (Book) TableName() string { return "books" }
