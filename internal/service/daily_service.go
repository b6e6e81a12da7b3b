package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"school-organizer/internal/document"
	"school-organizer/internal/dto"
	"school-organizer/internal/model"
	"school-organizer/internal/repository"
	"school-organizer/pkg/calendar"
	"school-organizer/pkg/metrics"
)

// DailyService 每日记录业务接口
type DailyService interface {
	// GetDay 可编辑的单日视图：全部格子（含无内容格子）及可选科目、书目
	GetDay(ctx context.Context, scope Scope, date time.Time) (*dto.DayResponse, error)
	// SaveEntry 保存一个科目格子；全部字段为空时删除该格子的记录
	SaveEntry(ctx context.Context, scope Scope, date time.Time, req *dto.SaveEntryRequest) (*dto.SaveEntryResponse, error)
	// Records 某天有内容的记录，课表顺序在前、临时科目在后
	Records(ctx context.Context, ownerID string, date time.Time) ([]document.Record, error)
}

type dailyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDailyService 创建 DailyService 实例
func NewDailyService(repo *repository.Repository, logger *zap.Logger) DailyService {
	return &dailyService{repo: repo, logger: logger}
}

// ────────────────────── GetDay ──────────────────────

func (s *dailyService) GetDay(ctx context.Context, scope Scope, date time.Time) (*dto.DayResponse, error) {
	slots, err := s.resolve(ctx, scope.OwnerID, date)
	if err != nil {
		return nil, err
	}

	subjects, err := s.repo.Subject.ListWithBooks(ctx, scope.OwnerID)
	if err != nil {
		s.logger.Error("查询科目列表失败", zap.String("owner_id", scope.OwnerID), zap.Error(err))
		return nil, err
	}

	resp := &dto.DayResponse{
		Date:      calendar.FormatParam(date),
		DayOfWeek: calendar.ISOWeekday(date),
		CanEdit:   scope.CanEdit,
		Slots:     make([]dto.SlotResponse, 0, len(slots)),
		Subjects:  make([]dto.SubjectResponse, 0, len(subjects)),
	}

	for _, rs := range slots {
		rec := BuildRecord(rs.Subject, rs.Entry)
		item := dto.SlotResponse{
			Position: rs.Slot.Position(),
			Record:   toRecordResponse(&rec),
		}
		switch slot := rs.Slot.(type) {
		case WeeklyScheduleSlot:
			item.Kind = "weekly"
			item.WeeklyScheduleID = slot.Row.WeeklyScheduleID
			if slot.Row.SubjectID != nil {
				item.ScheduledSubjectID = *slot.Row.SubjectID
			}
		case AdHocSlot:
			item.Kind = "adhoc"
			if rs.Entry != nil && rs.Entry.ScheduledSubjectID != nil {
				item.ScheduledSubjectID = *rs.Entry.ScheduledSubjectID
			} else {
				item.ScheduledSubjectID = slot.Subject.SubjectID
			}
		}
		resp.Slots = append(resp.Slots, item)
	}

	for i := range subjects {
		resp.Subjects = append(resp.Subjects, toSubjectResponse(&subjects[i]))
	}
	return resp, nil
}

// ────────────────────── Records ──────────────────────

func (s *dailyService) Records(ctx context.Context, ownerID string, date time.Time) ([]document.Record, error) {
	slots, err := s.resolve(ctx, ownerID, date)
	if err != nil {
		return nil, err
	}

	records := make([]document.Record, 0, len(slots))
	for _, rs := range slots {
		if rs.Entry == nil {
			continue
		}
		records = append(records, BuildRecord(rs.Subject, rs.Entry))
	}
	return document.FilterContent(records), nil
}

// resolve 取当天课表与记录并合并
func (s *dailyService) resolve(ctx context.Context, ownerID string, date time.Time) ([]ResolvedSlot, error) {
	rows, err := s.repo.WeeklySchedule.ListActiveByDay(ctx, ownerID, calendar.ISOWeekday(date))
	if err != nil {
		s.logger.Error("查询当天课表失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	entries, err := s.repo.DailyEntry.ListByDate(ctx, ownerID, date)
	if err != nil {
		s.logger.Error("查询当天记录失败", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, err
	}

	return ResolveSlots(rows, entries), nil
}

// ────────────────────── SaveEntry ──────────────────────

// entryInput 规范化后的提交内容
type entryInput struct {
	book           *model.Book
	pages          string
	notes          string
	importantNotes string
	extras         []model.DailyExtra
	homework       []model.HomeworkEntry
}

func (in *entryInput) hasContent() bool {
	return in.book != nil || in.pages != "" || in.notes != "" || in.importantNotes != "" ||
		len(in.extras) > 0 || len(in.homework) > 0
}

func (s *dailyService) SaveEntry(ctx context.Context, scope Scope, date time.Time, req *dto.SaveEntryRequest) (*dto.SaveEntryResponse, error) {
	if err := scope.requireEdit(); err != nil {
		return nil, err
	}
	owner := scope.OwnerID

	// 1. 格子科目必须存在；换科目标不存在时退回格子科目
	slotSubject, err := s.repo.Subject.GetOwned(ctx, owner, req.SubjectID)
	if err != nil {
		return nil, s.notFound(err, ErrSubjectNotFound, "查询科目失败")
	}
	dailySubject := slotSubject
	if req.ReplacementSubjectID != "" && req.ReplacementSubjectID != req.SubjectID {
		replacement, err := s.repo.Subject.GetOwned(ctx, owner, req.ReplacementSubjectID)
		switch {
		case err == nil:
			dailySubject = replacement
		case !errors.Is(err, gorm.ErrRecordNotFound):
			s.logger.Error("查询替换科目失败", zap.Error(err))
			return nil, err
		}
	}
	swapped := dailySubject.SubjectID != slotSubject.SubjectID

	// 2. 规范化输入，无效书目视为未选择
	in, err := s.normalize(ctx, owner, req)
	if err != nil {
		return nil, err
	}

	// 3. 事务内写入
	resp := &dto.SaveEntryResponse{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if !in.hasContent() {
			deleted, err := s.deleteBlank(ctx, tx, owner, date, slotSubject.SubjectID)
			resp.Deleted = deleted
			return err
		}

		if swapped {
			if err := s.deleteEntry(ctx, tx, owner, date, slotSubject.SubjectID); err != nil {
				return err
			}
		}
		// 格子里此前的换科记录（再次换科或换回原科目）不再占用该格子
		if _, err := s.deleteSubstitutes(ctx, tx, owner, date, slotSubject.SubjectID, dailySubject.SubjectID); err != nil {
			return err
		}

		entry, err := s.upsertEntry(ctx, tx, owner, date, dailySubject.SubjectID, swapped, slotSubject.SubjectID, in)
		if err != nil {
			return err
		}

		extras := in.extras
		for i := range extras {
			extras[i].CreatedBy = owner
		}
		if err := tx.DailyEntry.ReplaceExtras(ctx, entry.DailyEntryID, extras); err != nil {
			return err
		}
		// 作业只在本次提交包含作业时替换
		if len(in.homework) > 0 {
			homework := in.homework
			for i := range homework {
				homework[i].CreatedBy = owner
			}
			if err := tx.DailyEntry.ReplaceHomework(ctx, entry.DailyEntryID, homework); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		metrics.EntrySaves.WithLabelValues("error").Inc()
		s.logger.Error("保存每日记录失败",
			zap.String("owner_id", owner),
			zap.String("date", calendar.FormatParam(date)),
			zap.String("subject_id", req.SubjectID),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.Deleted {
		metrics.EntrySaves.WithLabelValues("deleted").Inc()
		return resp, nil
	}
	metrics.EntrySaves.WithLabelValues("saved").Inc()

	// 4. 重新加载，返回聚合后的记录
	entries, err := s.repo.DailyEntry.ListByDate(ctx, owner, date)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].SubjectID == dailySubject.SubjectID {
			rec := BuildRecord(entrySubject(&entries[i]), &entries[i])
			r := toRecordResponse(&rec)
			resp.Record = &r
			break
		}
	}
	return resp, nil
}

func (s *dailyService) normalize(ctx context.Context, owner string, req *dto.SaveEntryRequest) (*entryInput, error) {
	in := &entryInput{
		pages:          strings.TrimSpace(req.Pages),
		notes:          strings.TrimSpace(req.Notes),
		importantNotes: strings.TrimSpace(req.ImportantNotes),
	}

	books := make(map[string]*model.Book)
	lookup := func(id string) (*model.Book, error) {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, nil
		}
		if b, ok := books[id]; ok {
			return b, nil
		}
		b, err := s.repo.Book.GetOwned(ctx, owner, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				books[id] = nil
				return nil, nil
			}
			s.logger.Error("查询书目失败", zap.String("book_id", id), zap.Error(err))
			return nil, err
		}
		books[id] = b
		return b, nil
	}

	var err error
	if in.book, err = lookup(req.BookID); err != nil {
		return nil, err
	}

	for _, x := range req.Extras {
		book, err := lookup(x.BookID)
		if err != nil {
			return nil, err
		}
		pages, notes := strings.TrimSpace(x.Pages), strings.TrimSpace(x.Notes)
		if book == nil && pages == "" && notes == "" {
			continue
		}
		in.extras = append(in.extras, model.DailyExtra{BookID: bookIDOf(book), Pages: pages, Notes: notes})
	}

	for _, h := range req.Homework {
		book, err := lookup(h.BookID)
		if err != nil {
			return nil, err
		}
		pages := strings.TrimSpace(h.Pages)
		if book == nil && pages == "" {
			continue
		}
		in.homework = append(in.homework, model.HomeworkEntry{BookID: bookIDOf(book), Pages: pages})
	}

	return in, nil
}

func (s *dailyService) upsertEntry(
	ctx context.Context,
	tx *repository.Repository,
	owner string,
	date time.Time,
	subjectID string,
	swapped bool,
	slotSubjectID string,
	in *entryInput,
) (*model.DailyEntry, error) {
	existing, err := tx.DailyEntry.GetByDateSubject(ctx, owner, date, subjectID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entry := existing
	if entry == nil {
		entry = &model.DailyEntry{Date: date, SubjectID: subjectID}
		entry.CreatedBy = owner
	}

	entry.ScheduledSubjectID = nil
	if swapped {
		entry.ScheduledSubjectID = &slotSubjectID
	}
	entry.BookID = bookIDOf(in.book)
	entry.Pages = in.pages
	entry.Notes = in.notes
	entry.ImportantNotes = nil
	if in.importantNotes != "" {
		v := in.importantNotes
		entry.ImportantNotes = &v
	}

	if existing == nil {
		err = tx.DailyEntry.Create(ctx, entry)
	} else {
		err = tx.DailyEntry.Update(ctx, entry)
	}
	return entry, err
}

// deleteBlank 空提交：删除格子科目的记录及记在该格子下的换科记录
func (s *dailyService) deleteBlank(ctx context.Context, tx *repository.Repository, owner string, date time.Time, slotSubjectID string) (bool, error) {
	deleted := false

	entry, err := tx.DailyEntry.GetByDateSubject(ctx, owner, date, slotSubjectID)
	switch {
	case err == nil:
		if err := tx.DailyEntry.Delete(ctx, entry.DailyEntryID); err != nil {
			return false, err
		}
		deleted = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	n, err := s.deleteSubstitutes(ctx, tx, owner, date, slotSubjectID, "")
	if err != nil {
		return false, err
	}
	return deleted || n > 0, nil
}

// deleteSubstitutes 删除当天记在 slotSubjectID 格子下、科目不是 keepSubjectID 的换科记录
func (s *dailyService) deleteSubstitutes(ctx context.Context, tx *repository.Repository, owner string, date time.Time, slotSubjectID, keepSubjectID string) (int, error) {
	entries, err := tx.DailyEntry.ListByDate(ctx, owner, date)
	if err != nil {
		return 0, err
	}

	n := 0
	for i := range entries {
		e := &entries[i]
		if e.ScheduledSubjectID == nil || *e.ScheduledSubjectID != slotSubjectID || e.SubjectID == keepSubjectID {
			continue
		}
		if err := tx.DailyEntry.Delete(ctx, e.DailyEntryID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *dailyService) deleteEntry(ctx context.Context, tx *repository.Repository, owner string, date time.Time, subjectID string) error {
	entry, err := tx.DailyEntry.GetByDateSubject(ctx, owner, date, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return tx.DailyEntry.Delete(ctx, entry.DailyEntryID)
}

func (s *dailyService) notFound(err, target error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

func bookIDOf(b *model.Book) *string {
	if b == nil {
		return nil
	}
	id := b.BookID
	return &id
}
