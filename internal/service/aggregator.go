package service

import (
	"school-organizer/internal/document"
	"school-organizer/internal/dto"
	"school-organizer/internal/model"
)

// BuildRecord 将格子的科目与当天记录聚合为展示 / 导出用的记录
// entry 为 nil 时得到一条无内容记录
func BuildRecord(subject model.Subject, entry *model.DailyEntry) document.Record {
	rec := document.Record{
		SubjectID:   subject.SubjectID,
		SubjectName: subject.Name,
	}
	if entry == nil {
		return rec
	}

	rec.BookID = entry.BookID
	if entry.Book != nil {
		rec.BookTitle = entry.Book.Title
	} else if entry.BookID != nil {
		rec.BookTitle = document.UnknownBook
	}
	rec.Pages = entry.Pages
	rec.Notes = entry.Notes
	if entry.ImportantNotes != nil {
		rec.ImportantNotes = *entry.ImportantNotes
	}

	for i := range entry.Extras {
		x := &entry.Extras[i]
		rec.Extras = append(rec.Extras, document.ExtraRecord{
			BookID:    x.BookID,
			BookTitle: bookTitle(x.Book),
			Pages:     x.Pages,
			Notes:     x.Notes,
		})
	}
	for i := range entry.Homework {
		h := &entry.Homework[i]
		rec.Homework = append(rec.Homework, document.HomeworkRecord{
			BookID:    h.BookID,
			BookTitle: bookTitle(h.Book),
			Pages:     h.Pages,
		})
	}
	return rec
}

func bookTitle(b *model.Book) string {
	if b == nil {
		return document.UnknownBook
	}
	return b.Title
}

func toRecordResponse(rec *document.Record) dto.RecordResponse {
	resp := dto.RecordResponse{
		SubjectID:      rec.SubjectID,
		SubjectName:    rec.SubjectName,
		BookID:         rec.BookID,
		BookTitle:      rec.BookTitle,
		Pages:          rec.Pages,
		Notes:          rec.Notes,
		ImportantNotes: rec.ImportantNotes,
		Extras:         make([]dto.ExtraResponse, 0, len(rec.Extras)),
		Homework:       make([]dto.HomeworkResponse, 0, len(rec.Homework)),
		HasContent:     rec.HasContent(),
	}
	for _, x := range rec.Extras {
		resp.Extras = append(resp.Extras, dto.ExtraResponse{
			BookID: x.BookID, BookTitle: x.BookTitle, Pages: x.Pages, Notes: x.Notes,
		})
	}
	for _, h := range rec.Homework {
		resp.Homework = append(resp.Homework, dto.HomeworkResponse{
			BookID: h.BookID, BookTitle: h.BookTitle, Pages: h.Pages,
		})
	}
	return resp
}
