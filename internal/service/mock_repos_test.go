package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"school-organizer/internal/model"
	"school-organizer/internal/repository"
)

// ── 内存数据集 ──
// 各 Mock Repository 共享同一份数据，模拟外键级联与关联预加载

type mockStore struct {
	seq       int
	users     map[string]*model.User
	subjects  map[string]*model.Subject
	books     map[string]*model.Book
	schedules []*model.WeeklySchedule
	entries   []*model.DailyEntry
	exams     []*model.Exam
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[string]*model.User),
		subjects: make(map[string]*model.Subject),
		books:    make(map[string]*model.Book),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

func (s *mockStore) tick() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// newTestRepo 组装未绑定数据库的 Repository，Transaction 直接在其上执行
func newTestRepo() (*repository.Repository, *mockStore) {
	st := newMockStore()
	return &repository.Repository{
		User:           &mockUserRepo{st: st},
		Subject:        &mockSubjectRepo{st: st},
		Book:           &mockBookRepo{st: st},
		WeeklySchedule: &mockWeeklyScheduleRepo{st: st},
		DailyEntry:     &mockDailyEntryRepo{st: st},
		Exam:           &mockExamRepo{st: st},
	}, st
}

// ── 测试数据辅助 ──

func (s *mockStore) addUser(username, role string) *model.User {
	u := &model.User{
		UserID:   s.nextID("user"),
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	}
	s.users[u.UserID] = u
	return u
}

func (s *mockStore) addSubject(owner, name string) *model.Subject {
	sub := &model.Subject{SubjectID: s.nextID("subject"), Name: name}
	sub.CreatedBy = owner
	s.subjects[sub.SubjectID] = sub
	return sub
}

func (s *mockStore) addBook(owner, subjectID, title string) *model.Book {
	b := &model.Book{BookID: s.nextID("book"), SubjectID: subjectID, Title: title}
	b.CreatedBy = owner
	s.books[b.BookID] = b
	return b
}

func (s *mockStore) addScheduleRow(owner string, day int, subjectID *string, position int) *model.WeeklySchedule {
	row := &model.WeeklySchedule{
		WeeklyScheduleID: s.nextID("ws"),
		DayOfWeek:        day,
		SubjectID:        subjectID,
		Position:         position,
		IsActive:         true,
	}
	row.CreatedBy = owner
	row.CreatedAt = s.tick()
	s.schedules = append(s.schedules, row)
	return row
}

func (s *mockStore) addEntry(owner string, date time.Time, subjectID string) *model.DailyEntry {
	e := &model.DailyEntry{DailyEntryID: s.nextID("entry"), Date: date, SubjectID: subjectID}
	e.CreatedBy = owner
	e.CreatedAt = s.tick()
	s.entries = append(s.entries, e)
	return e
}

func (s *mockStore) activeRows(owner string) []*model.WeeklySchedule {
	var rows []*model.WeeklySchedule
	for _, r := range s.schedules {
		if r.CreatedBy == owner && r.IsActive {
			rows = append(rows, r)
		}
	}
	return rows
}

func (s *mockStore) entriesOn(owner string, date time.Time) []*model.DailyEntry {
	var out []*model.DailyEntry
	for _, e := range s.entries {
		if e.CreatedBy == owner && sameDay(e.Date, date) {
			out = append(out, e)
		}
	}
	return out
}

// hydrate 返回带关联的副本，对应 GORM Preload
func (s *mockStore) hydrate(e *model.DailyEntry) model.DailyEntry {
	out := *e
	out.Subject = s.subjects[e.SubjectID]
	out.Book = nil
	if e.BookID != nil {
		out.Book = s.books[*e.BookID]
	}
	out.Extras = make([]model.DailyExtra, len(e.Extras))
	for i, x := range e.Extras {
		if x.BookID != nil {
			x.Book = s.books[*x.BookID]
		}
		out.Extras[i] = x
	}
	out.Homework = make([]model.HomeworkEntry, len(e.Homework))
	for i, h := range e.Homework {
		if h.BookID != nil {
			h.Book = s.books[*h.BookID]
		}
		out.Homework[i] = h
	}
	return out
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	st *mockStore
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = m.st.nextID("user")
	}
	m.st.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.st.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.st.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, u := range m.st.users {
		if strings.EqualFold(u.Username, username) || strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) UpdateAlias(_ context.Context, id string, alias *string) error {
	u, ok := m.st.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Alias = alias
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.st.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })

	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	st *mockStore
}

func (m *mockSubjectRepo) GetOrCreate(_ context.Context, ownerID, name string) (*model.Subject, bool, error) {
	for _, s := range m.st.subjects {
		if s.CreatedBy == ownerID && s.Name == name {
			return s, false, nil
		}
	}
	return m.st.addSubject(ownerID, name), true, nil
}

func (m *mockSubjectRepo) GetOwned(_ context.Context, ownerID, id string) (*model.Subject, error) {
	if s, ok := m.st.subjects[id]; ok && s.CreatedBy == ownerID {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) GetByName(_ context.Context, ownerID, name string) (*model.Subject, error) {
	for _, s := range m.st.subjects {
		if s.CreatedBy == ownerID && s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Subject, error) {
	var out []model.Subject
	for _, s := range m.st.subjects {
		if s.CreatedBy == ownerID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockSubjectRepo) ListWithBooks(ctx context.Context, ownerID string) ([]model.Subject, error) {
	subjects, _ := m.ListByOwner(ctx, ownerID)
	for i := range subjects {
		subjects[i].Books = nil
		for _, b := range m.st.books {
			if b.SubjectID == subjects[i].SubjectID {
				subjects[i].Books = append(subjects[i].Books, *b)
			}
		}
		sort.Slice(subjects[i].Books, func(a, b int) bool {
			return subjects[i].Books[a].Title < subjects[i].Books[b].Title
		})
	}
	return subjects, nil
}

// Delete 模拟外键级联：书目、课表行、记录与考试
func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	delete(m.st.subjects, id)
	for bid, b := range m.st.books {
		if b.SubjectID == id {
			delete(m.st.books, bid)
		}
	}

	rows := m.st.schedules[:0]
	for _, r := range m.st.schedules {
		if r.SubjectID == nil || *r.SubjectID != id {
			rows = append(rows, r)
		}
	}
	m.st.schedules = rows

	entries := m.st.entries[:0]
	for _, e := range m.st.entries {
		if e.SubjectID == id {
			continue
		}
		if e.ScheduledSubjectID != nil && *e.ScheduledSubjectID == id {
			e.ScheduledSubjectID = nil
		}
		entries = append(entries, e)
	}
	m.st.entries = entries

	exams := m.st.exams[:0]
	for _, x := range m.st.exams {
		if x.SubjectID != id {
			exams = append(exams, x)
		}
	}
	m.st.exams = exams
	return nil
}

// ── Mock BookRepository ──

type mockBookRepo struct {
	st *mockStore
}

func (m *mockBookRepo) GetOrCreate(_ context.Context, ownerID, subjectID, title string) (*model.Book, bool, error) {
	for _, b := range m.st.books {
		if b.SubjectID == subjectID && b.Title == title {
			return b, false, nil
		}
	}
	return m.st.addBook(ownerID, subjectID, title), true, nil
}

func (m *mockBookRepo) GetOwned(_ context.Context, ownerID, id string) (*model.Book, error) {
	if b, ok := m.st.books[id]; ok && b.CreatedBy == ownerID {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Book, error) {
	var out []model.Book
	for _, b := range m.st.books {
		if b.CreatedBy == ownerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// Delete 模拟 ON DELETE SET NULL
func (m *mockBookRepo) Delete(_ context.Context, id string) error {
	delete(m.st.books, id)
	for _, e := range m.st.entries {
		if e.BookID != nil && *e.BookID == id {
			e.BookID = nil
		}
		for i := range e.Extras {
			if e.Extras[i].BookID != nil && *e.Extras[i].BookID == id {
				e.Extras[i].BookID = nil
			}
		}
		for i := range e.Homework {
			if e.Homework[i].BookID != nil && *e.Homework[i].BookID == id {
				e.Homework[i].BookID = nil
			}
		}
	}
	return nil
}

// ── Mock WeeklyScheduleRepository ──

type mockWeeklyScheduleRepo struct {
	st *mockStore
}

func (m *mockWeeklyScheduleRepo) withSubject(r *model.WeeklySchedule) model.WeeklySchedule {
	out := *r
	out.Subject = nil
	if r.SubjectID != nil {
		out.Subject = m.st.subjects[*r.SubjectID]
	}
	return out
}

func (m *mockWeeklyScheduleRepo) ListActive(_ context.Context, ownerID string) ([]model.WeeklySchedule, error) {
	var out []model.WeeklySchedule
	for _, r := range m.st.activeRows(ownerID) {
		out = append(out, m.withSubject(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (m *mockWeeklyScheduleRepo) ListActiveByDay(_ context.Context, ownerID string, dayOfWeek int) ([]model.WeeklySchedule, error) {
	var out []model.WeeklySchedule
	for _, r := range m.st.activeRows(ownerID) {
		if r.DayOfWeek == dayOfWeek && r.SubjectID != nil {
			out = append(out, m.withSubject(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *mockWeeklyScheduleRepo) DeactivateAll(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, r := range m.st.activeRows(ownerID) {
		r.IsActive = false
		n++
	}
	return n, nil
}

func (m *mockWeeklyScheduleRepo) BatchCreate(_ context.Context, rows []model.WeeklySchedule) error {
	for i := range rows {
		row := rows[i]
		row.WeeklyScheduleID = m.st.nextID("ws")
		row.CreatedAt = m.st.tick()
		m.st.schedules = append(m.st.schedules, &row)
	}
	return nil
}

// ── Mock DailyEntryRepository ──

type mockDailyEntryRepo struct {
	st *mockStore
}

func (m *mockDailyEntryRepo) GetByDateSubject(_ context.Context, ownerID string, date time.Time, subjectID string) (*model.DailyEntry, error) {
	for _, e := range m.st.entriesOn(ownerID, date) {
		if e.SubjectID == subjectID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDailyEntryRepo) ListByDate(_ context.Context, ownerID string, date time.Time) ([]model.DailyEntry, error) {
	var out []model.DailyEntry
	for _, e := range m.st.entriesOn(ownerID, date) {
		out = append(out, m.st.hydrate(e))
	}
	return out, nil
}

func (m *mockDailyEntryRepo) ListByRange(_ context.Context, ownerID string, from, to time.Time) ([]model.DailyEntry, error) {
	lo, hi := from.Format("2006-01-02"), to.Format("2006-01-02")
	var out []model.DailyEntry
	for _, e := range m.st.entries {
		key := e.Date.Format("2006-01-02")
		if e.CreatedBy == ownerID && key >= lo && key <= hi {
			out = append(out, m.st.hydrate(e))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockDailyEntryRepo) CountDistinctDays(_ context.Context, ownerIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ownerIDs))
	for _, id := range ownerIDs {
		days := make(map[string]bool)
		for _, e := range m.st.entries {
			if e.CreatedBy == id {
				days[e.Date.Format("2006-01-02")] = true
			}
		}
		if len(days) > 0 {
			out[id] = int64(len(days))
		}
	}
	return out, nil
}

func (m *mockDailyEntryRepo) Create(_ context.Context, entry *model.DailyEntry) error {
	for _, e := range m.st.entriesOn(entry.CreatedBy, entry.Date) {
		if e.SubjectID == entry.SubjectID {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	entry.DailyEntryID = m.st.nextID("entry")
	entry.CreatedAt = m.st.tick()
	cp := *entry
	cp.Extras, cp.Homework = nil, nil
	m.st.entries = append(m.st.entries, &cp)
	return nil
}

func (m *mockDailyEntryRepo) find(id string) *model.DailyEntry {
	for _, e := range m.st.entries {
		if e.DailyEntryID == id {
			return e
		}
	}
	return nil
}

func (m *mockDailyEntryRepo) Update(_ context.Context, entry *model.DailyEntry) error {
	e := m.find(entry.DailyEntryID)
	if e == nil {
		return gorm.ErrRecordNotFound
	}
	e.SubjectID = entry.SubjectID
	e.ScheduledSubjectID = entry.ScheduledSubjectID
	e.BookID = entry.BookID
	e.Pages = entry.Pages
	e.Notes = entry.Notes
	e.ImportantNotes = entry.ImportantNotes
	return nil
}

func (m *mockDailyEntryRepo) Delete(_ context.Context, id string) error {
	out := m.st.entries[:0]
	for _, e := range m.st.entries {
		if e.DailyEntryID != id {
			out = append(out, e)
		}
	}
	m.st.entries = out
	return nil
}

func (m *mockDailyEntryRepo) ReplaceExtras(_ context.Context, entryID string, extras []model.DailyExtra) error {
	e := m.find(entryID)
	if e == nil {
		return gorm.ErrRecordNotFound
	}
	e.Extras = nil
	for _, x := range extras {
		x.DailyEntryID = entryID
		x.DailyExtraID = m.st.nextID("extra")
		e.Extras = append(e.Extras, x)
	}
	return nil
}

func (m *mockDailyEntryRepo) ReplaceHomework(_ context.Context, entryID string, homework []model.HomeworkEntry) error {
	e := m.find(entryID)
	if e == nil {
		return gorm.ErrRecordNotFound
	}
	e.Homework = nil
	for _, h := range homework {
		h.DailyEntryID = entryID
		h.HomeworkEntryID = m.st.nextID("hw")
		e.Homework = append(e.Homework, h)
	}
	return nil
}

// ── Mock ExamRepository ──

type mockExamRepo struct {
	st *mockStore
}

func (m *mockExamRepo) GetOrCreate(_ context.Context, ownerID string, date time.Time, subjectID string) (*model.Exam, bool, error) {
	for _, x := range m.st.exams {
		if x.CreatedBy == ownerID && sameDay(x.Date, date) && x.SubjectID == subjectID {
			return x, false, nil
		}
	}
	exam := &model.Exam{
		ExamID:    m.st.nextID("exam"),
		Date:      date,
		SubjectID: subjectID,
		CreatedBy: ownerID,
		CreatedAt: m.st.tick(),
	}
	m.st.exams = append(m.st.exams, exam)
	return exam, true, nil
}

func (m *mockExamRepo) DeleteByDateSubject(_ context.Context, ownerID string, date time.Time, subjectID string) (int64, error) {
	var n int64
	out := m.st.exams[:0]
	for _, x := range m.st.exams {
		if x.CreatedBy == ownerID && sameDay(x.Date, date) && x.SubjectID == subjectID {
			n++
			continue
		}
		out = append(out, x)
	}
	m.st.exams = out
	return n, nil
}

func (m *mockExamRepo) ListByDate(_ context.Context, ownerID string, date time.Time) ([]model.Exam, error) {
	var out []model.Exam
	for _, x := range m.st.exams {
		if x.CreatedBy == ownerID && sameDay(x.Date, date) {
			cp := *x
			cp.Subject = m.st.subjects[x.SubjectID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *mockExamRepo) ListDates(_ context.Context, ownerID string, from, to time.Time) ([]time.Time, error) {
	lo, hi := from.Format("2006-01-02"), to.Format("2006-01-02")
	seen := make(map[string]bool)
	var out []time.Time
	for _, x := range m.st.exams {
		key := x.Date.Format("2006-01-02")
		if x.CreatedBy == ownerID && key >= lo && key <= hi && !seen[key] {
			seen[key] = true
			out = append(out, x.Date)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}
