package dto

// ── 科目与书目 ──

// CreateSubjectRequest 创建科目（同名已存在时直接返回）
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateBookRequest 在科目下创建书目
type CreateBookRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

// BookResponse 书目
type BookResponse struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	Title     string `json:"title"`
}

// SubjectResponse 科目及其书目
type SubjectResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Books []BookResponse `json:"books"`
}
