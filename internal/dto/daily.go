package dto

// ── 每日记录 ──

// ExtraItem 附加阅读
type ExtraItem struct {
	BookID string `json:"book_id"`
	Pages  string `json:"pages"   binding:"max=100"`
	Notes  string `json:"notes"   binding:"max=5000"`
}

// HomeworkItem 作业
type HomeworkItem struct {
	BookID string `json:"book_id"`
	Pages  string `json:"pages"   binding:"max=100"`
}

// SaveEntryRequest 保存某一科目格子的全部内容
// SubjectID 为格子原本的科目；ReplacementSubjectID 非空且不同则表示换科
// 书目与替换科目是可选引用，不存在或格式非法时忽略
type SaveEntryRequest struct {
	SubjectID            string         `json:"subject_id"             binding:"required,uuid"`
	ReplacementSubjectID string         `json:"replacement_subject_id"`
	BookID               string         `json:"book_id"`
	Pages                string         `json:"pages"                  binding:"max=100"`
	Notes                string         `json:"notes"                  binding:"max=5000"`
	ImportantNotes       string         `json:"important_notes"        binding:"max=5000"`
	Extras               []ExtraItem    `json:"extras"                 binding:"dive"`
	Homework             []HomeworkItem `json:"homework"               binding:"dive"`
}

// SaveEntryResponse 保存结果；Deleted 为 true 表示空提交删除了原记录
type SaveEntryResponse struct {
	Deleted bool            `json:"deleted"`
	Record  *RecordResponse `json:"record,omitempty"`
}

// ExtraResponse 附加阅读展示
type ExtraResponse struct {
	BookID    *string `json:"book_id,omitempty"`
	BookTitle string  `json:"book_title"`
	Pages     string  `json:"pages"`
	Notes     string  `json:"notes"`
}

// HomeworkResponse 作业展示
type HomeworkResponse struct {
	BookID    *string `json:"book_id,omitempty"`
	BookTitle string  `json:"book_title"`
	Pages     string  `json:"pages"`
}

// RecordResponse 某科目在某天的聚合记录
type RecordResponse struct {
	SubjectID      string             `json:"subject_id"`
	SubjectName    string             `json:"subject_name"`
	BookID         *string            `json:"book_id,omitempty"`
	BookTitle      string             `json:"book_title"`
	Pages          string             `json:"pages"`
	Notes          string             `json:"notes"`
	ImportantNotes string             `json:"important_notes"`
	Extras         []ExtraResponse    `json:"extras"`
	Homework       []HomeworkResponse `json:"homework"`
	HasContent     bool               `json:"has_content"`
}

// SlotResponse 当天的一个科目格子
type SlotResponse struct {
	Kind               string         `json:"kind"` // weekly | adhoc
	Position           int            `json:"position"`
	WeeklyScheduleID   string         `json:"weekly_schedule_id,omitempty"`
	ScheduledSubjectID string         `json:"scheduled_subject_id,omitempty"`
	Record             RecordResponse `json:"record"`
}

// DayResponse 可编辑的单日视图
type DayResponse struct {
	Date      string            `json:"date"` // dd-mm-yy
	DayOfWeek int               `json:"day_of_week"`
	CanEdit   bool              `json:"can_edit"`
	Slots     []SlotResponse    `json:"slots"`
	Subjects  []SubjectResponse `json:"subjects"`
}
