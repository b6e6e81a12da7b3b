package document

// UnknownBook 书目已被删除或未指定时的占位标题
const UnknownBook = "Unknown book"

// Record 某科目在某天的聚合记录：主记录、附加阅读与作业
type Record struct {
	SubjectID      string
	SubjectName    string
	BookID         *string
	BookTitle      string // 无书目时为空
	Pages          string
	Notes          string
	ImportantNotes string
	Extras         []ExtraRecord
	Homework       []HomeworkRecord
}

// ExtraRecord 附加阅读
type ExtraRecord struct {
	BookID    *string
	BookTitle string
	Pages     string
	Notes     string
}

// HomeworkRecord 作业
type HomeworkRecord struct {
	BookID    *string
	BookTitle string
	Pages     string
}

// HasContent 书目、页码、笔记、重点、附加阅读、作业任一非空即视为有内容
// 无内容的记录只出现在可编辑视图中
func (r *Record) HasContent() bool {
	return r.BookID != nil ||
		r.BookTitle != "" ||
		r.Pages != "" ||
		r.Notes != "" ||
		r.ImportantNotes != "" ||
		len(r.Extras) > 0 ||
		len(r.Homework) > 0
}

// FilterContent 保留有内容的记录，顺序不变
func FilterContent(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for i := range records {
		if records[i].HasContent() {
			out = append(out, records[i])
		}
	}
	return out
}
