package dto

// HistoryRequest 历史日历查询
type HistoryRequest struct {
	TargetQuery
	Year  int    `form:"year"  binding:"omitempty,min=1900,max=9999"`
	Month int    `form:"month" binding:"omitempty,min=1,max=12"`
	Date  string `form:"date"` // dd-mm-yy，非法时回退到今天
}

// CalendarDay 日历中的一格
type CalendarDay struct {
	Date     string `json:"date"` // dd-mm-yy
	Day      int    `json:"day"`
	InMonth  bool   `json:"in_month"`
	HasEntry bool   `json:"has_entry"`
	HasExam  bool   `json:"has_exam"`
	Selected bool   `json:"selected"`
	Today    bool   `json:"today"`
}

// MonthRef 年月
type MonthRef struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ExamResponse 考试日
type ExamResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
}

// HistoryResponse 历史视图
type HistoryResponse struct {
	Year         int              `json:"year"`
	Month        int              `json:"month"`
	Prev         MonthRef         `json:"prev"`
	Next         MonthRef         `json:"next"`
	Weeks        [][]CalendarDay  `json:"weeks"`
	SelectedDate string           `json:"selected_date"`
	Records      []RecordResponse `json:"records"`
	Exams        []ExamResponse   `json:"exams"`
	CanEdit      bool             `json:"can_edit"`
}

// ExamRequest 添加 / 删除考试日
type ExamRequest struct {
	Date      string `json:"date"       binding:"required"`
	SubjectID string `json:"subject_id" binding:"required,uuid"`
}

// MonthExportRequest 月度导出
type MonthExportRequest struct {
	TargetQuery
	Year  int `form:"year"  binding:"omitempty,min=1900,max=9999"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}
