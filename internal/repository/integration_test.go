//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school-organizer/internal/model"
	"school-organizer/internal/repository"
	"school-organizer/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════
//
// 设置 TEST_DATABASE_DSN 时直接使用该数据库，否则通过 testcontainers 启动 PostgreSQL。

var testDB *gorm.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	var container *tcpostgres.PostgresContainer
	if dsn == "" {
		var err error
		container, err = tcpostgres.RunContainer(ctx,
			testcontainers.WithImage("postgres:16-alpine"),
			tcpostgres.WithDatabase("school_organizer_test"),
			tcpostgres.WithUsername("organizer"),
			tcpostgres.WithPassword("organizer"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "启动 PostgreSQL 容器失败: %v\n", err)
			os.Exit(1)
		}
		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取连接串失败: %v\n", err)
			os.Exit(1)
		}
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	sqlDB.Close()
	if container != nil {
		_ = container.Terminate(ctx)
	}
	os.Exit(code)
}

// ── 测试数据 ──

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

// createUser 创建测试用户，测试结束时删除（其全部数据随外键级联删除）
func createUser(t *testing.T, repo *repository.Repository) *model.User {
	t.Helper()
	n := time.Now().UnixNano()
	user := &model.User{
		Username:     fmt.Sprintf("user_%d", n),
		Email:        fmt.Sprintf("user_%d@example.com", n),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleTeacher,
	}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("user_id = ?", user.UserID).Delete(&model.User{})
	})
	return user
}

func createSubject(t *testing.T, repo *repository.Repository, ownerID, name string) *model.Subject {
	t.Helper()
	subject, _, err := repo.Subject.GetOrCreate(context.Background(), ownerID, name)
	if err != nil {
		t.Fatalf("创建科目失败: %v", err)
	}
	return subject
}

// ═══════════════════════════════════════════════════════════
// User
// ═══════════════════════════════════════════════════════════

func TestUserRepo_CaseInsensitiveLookup(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)

	got, err := repo.User.GetByUsername(ctx, "USER_"+user.Username[len("user_"):])
	if err != nil {
		t.Fatalf("按用户名查询失败: %v", err)
	}
	if got.UserID != user.UserID {
		t.Errorf("期望用户 %s，实际: %s", user.UserID, got.UserID)
	}

	exists, err := repo.User.ExistsByUsernameOrEmail(ctx, "nobody", user.Email)
	if err != nil || !exists {
		t.Errorf("期望邮箱已存在，实际: %v, %v", exists, err)
	}

	_, err = repo.User.GetByUsername(ctx, "definitely-missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，实际: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Subject / Book
// ═══════════════════════════════════════════════════════════

func TestSubjectRepo_GetOrCreateIsIdempotent(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)

	first, created, err := repo.Subject.GetOrCreate(ctx, user.UserID, "Math")
	if err != nil || !created {
		t.Fatalf("期望新建科目，实际: created=%v err=%v", created, err)
	}
	second, created, err := repo.Subject.GetOrCreate(ctx, user.UserID, "Math")
	if err != nil {
		t.Fatalf("再次创建失败: %v", err)
	}
	if created || second.SubjectID != first.SubjectID {
		t.Errorf("期望返回已有科目 %s，实际: %s (created=%v)", first.SubjectID, second.SubjectID, created)
	}

	other := createUser(t, repo)
	if _, err := repo.Subject.GetOwned(ctx, other.UserID, first.SubjectID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望其他用户查不到该科目，实际: %v", err)
	}
}

func TestBookRepo_DeleteKeepsEntry(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)
	subject := createSubject(t, repo, user.UserID, "Reading")

	book, _, err := repo.Book.GetOrCreate(ctx, user.UserID, subject.SubjectID, "Atlas")
	if err != nil {
		t.Fatalf("创建书目失败: %v", err)
	}

	entry := &model.DailyEntry{
		Date:       day(2024, 3, 4),
		SubjectID:  subject.SubjectID,
		BookID:     strPtr(book.BookID),
		Pages:      "10-12",
		OwnedModel: model.OwnedModel{CreatedBy: user.UserID},
	}
	if err := repo.DailyEntry.Create(ctx, entry); err != nil {
		t.Fatalf("创建记录失败: %v", err)
	}

	if err := repo.Book.Delete(ctx, book.BookID); err != nil {
		t.Fatalf("删除书目失败: %v", err)
	}

	got, err := repo.DailyEntry.GetByDateSubject(ctx, user.UserID, day(2024, 3, 4), subject.SubjectID)
	if err != nil {
		t.Fatalf("期望记录保留，实际: %v", err)
	}
	if got.BookID != nil {
		t.Errorf("期望书目引用置空，实际: %v", *got.BookID)
	}
	if got.Pages != "10-12" {
		t.Errorf("期望页码保留，实际: %q", got.Pages)
	}
}

func TestSubjectRepo_DeleteCascades(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)
	subject := createSubject(t, repo, user.UserID, "History")

	if err := repo.WeeklySchedule.BatchCreate(ctx, []model.WeeklySchedule{
		{DayOfWeek: 1, SubjectID: strPtr(subject.SubjectID), IsActive: true, OwnedModel: model.OwnedModel{CreatedBy: user.UserID}},
	}); err != nil {
		t.Fatalf("创建课表失败: %v", err)
	}
	entry := &model.DailyEntry{
		Date:       day(2024, 3, 4),
		SubjectID:  subject.SubjectID,
		Notes:      "Romans",
		OwnedModel: model.OwnedModel{CreatedBy: user.UserID},
	}
	if err := repo.DailyEntry.Create(ctx, entry); err != nil {
		t.Fatalf("创建记录失败: %v", err)
	}
	if _, _, err := repo.Exam.GetOrCreate(ctx, user.UserID, day(2024, 3, 8), subject.SubjectID); err != nil {
		t.Fatalf("创建考试失败: %v", err)
	}

	if err := repo.Subject.Delete(ctx, subject.SubjectID); err != nil {
		t.Fatalf("删除科目失败: %v", err)
	}

	rows, _ := repo.WeeklySchedule.ListActive(ctx, user.UserID)
	entries, _ := repo.DailyEntry.ListByDate(ctx, user.UserID, day(2024, 3, 4))
	exams, _ := repo.Exam.ListByDate(ctx, user.UserID, day(2024, 3, 8))
	if len(rows) != 0 || len(entries) != 0 || len(exams) != 0 {
		t.Errorf("期望级联删除，实际: 课表 %d 记录 %d 考试 %d", len(rows), len(entries), len(exams))
	}
}

// ═══════════════════════════════════════════════════════════
// WeeklySchedule
// ═══════════════════════════════════════════════════════════

func TestWeeklyScheduleRepo_PlaceholdersAndDeactivate(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)
	math := createSubject(t, repo, user.UserID, "Math")

	owned := model.OwnedModel{CreatedBy: user.UserID}
	if err := repo.WeeklySchedule.BatchCreate(ctx, []model.WeeklySchedule{
		{DayOfWeek: 1, Position: 1, SubjectID: strPtr(math.SubjectID), IsActive: true, OwnedModel: owned},
		{DayOfWeek: 1, Position: 0, SubjectID: nil, IsActive: true, OwnedModel: owned},
		{DayOfWeek: 2, Position: 0, SubjectID: nil, IsActive: true, OwnedModel: owned},
	}); err != nil {
		t.Fatalf("创建课表失败: %v", err)
	}

	all, err := repo.WeeklySchedule.ListActive(ctx, user.UserID)
	if err != nil {
		t.Fatalf("查询课表失败: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("期望 3 行（含占位行），实际: %d", len(all))
	}
	if all[0].DayOfWeek != 1 || all[0].Position != 0 {
		t.Errorf("期望按星期、位置排序，实际首行: day=%d pos=%d", all[0].DayOfWeek, all[0].Position)
	}

	monday, err := repo.WeeklySchedule.ListActiveByDay(ctx, user.UserID, 1)
	if err != nil {
		t.Fatalf("查询周一课表失败: %v", err)
	}
	if len(monday) != 1 || monday[0].Subject == nil || monday[0].Subject.Name != "Math" {
		t.Errorf("期望周一仅 Math 一行，实际: %+v", monday)
	}

	n, err := repo.WeeklySchedule.DeactivateAll(ctx, user.UserID)
	if err != nil || n != 3 {
		t.Errorf("期望停用 3 行，实际: %d, %v", n, err)
	}
	if rows, _ := repo.WeeklySchedule.ListActive(ctx, user.UserID); len(rows) != 0 {
		t.Errorf("期望无生效行，实际: %d", len(rows))
	}
}

// ═══════════════════════════════════════════════════════════
// DailyEntry
// ═══════════════════════════════════════════════════════════

func TestDailyEntryRepo_ContentLifecycle(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)
	subject := createSubject(t, repo, user.UserID, "Biology")
	book, _, _ := repo.Book.GetOrCreate(ctx, user.UserID, subject.SubjectID, "Cells")

	entry := &model.DailyEntry{
		Date:       day(2024, 3, 4),
		SubjectID:  subject.SubjectID,
		Notes:      "mitosis",
		OwnedModel: model.OwnedModel{CreatedBy: user.UserID},
	}
	if err := repo.DailyEntry.Create(ctx, entry); err != nil {
		t.Fatalf("创建记录失败: %v", err)
	}
	if err := repo.DailyEntry.ReplaceExtras(ctx, entry.DailyEntryID, []model.DailyExtra{
		{BookID: strPtr(book.BookID), Pages: "3", CreatedBy: user.UserID},
		{Notes: "video", CreatedBy: user.UserID},
	}); err != nil {
		t.Fatalf("写入附加阅读失败: %v", err)
	}
	if err := repo.DailyEntry.ReplaceHomework(ctx, entry.DailyEntryID, []model.HomeworkEntry{
		{BookID: strPtr(book.BookID), Pages: "5-6", CreatedBy: user.UserID},
	}); err != nil {
		t.Fatalf("写入作业失败: %v", err)
	}

	entries, err := repo.DailyEntry.ListByDate(ctx, user.UserID, day(2024, 3, 4))
	if err != nil || len(entries) != 1 {
		t.Fatalf("期望 1 条记录，实际: %d, %v", len(entries), err)
	}
	got := entries[0]
	if got.Subject == nil || got.Subject.Name != "Biology" {
		t.Error("期望预加载科目")
	}
	if len(got.Extras) != 2 || got.Extras[0].Book == nil || got.Extras[0].Book.Title != "Cells" {
		t.Errorf("附加阅读预加载不符: %+v", got.Extras)
	}
	if len(got.Homework) != 1 || got.Homework[0].Pages != "5-6" {
		t.Errorf("作业预加载不符: %+v", got.Homework)
	}

	// 整体替换
	if err := repo.DailyEntry.ReplaceExtras(ctx, entry.DailyEntryID, nil); err != nil {
		t.Fatalf("清空附加阅读失败: %v", err)
	}
	entries, _ = repo.DailyEntry.ListByDate(ctx, user.UserID, day(2024, 3, 4))
	if len(entries[0].Extras) != 0 {
		t.Errorf("期望附加阅读已清空，实际: %d", len(entries[0].Extras))
	}

	if err := repo.DailyEntry.Delete(ctx, entry.DailyEntryID); err != nil {
		t.Fatalf("删除记录失败: %v", err)
	}
	var left int64
	testDB.Model(&model.HomeworkEntry{}).Where("daily_entry_id = ?", entry.DailyEntryID).Count(&left)
	if left != 0 {
		t.Errorf("期望作业随记录删除，实际剩余: %d", left)
	}
}

func TestDailyEntryRepo_RangeAndDistinctDays(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)
	math := createSubject(t, repo, user.UserID, "Math")
	art := createSubject(t, repo, user.UserID, "Art")

	for _, e := range []struct {
		date    time.Time
		subject string
	}{
		{day(2024, 2, 29), math.SubjectID},
		{day(2024, 3, 1), math.SubjectID},
		{day(2024, 3, 1), art.SubjectID},
		{day(2024, 3, 31), art.SubjectID},
		{day(2024, 4, 1), art.SubjectID},
	} {
		if err := repo.DailyEntry.Create(ctx, &model.DailyEntry{
			Date:       e.date,
			SubjectID:  e.subject,
			Pages:      "1",
			OwnedModel: model.OwnedModel{CreatedBy: user.UserID},
		}); err != nil {
			t.Fatalf("创建记录失败: %v", err)
		}
	}

	march, err := repo.DailyEntry.ListByRange(ctx, user.UserID, day(2024, 3, 1), day(2024, 3, 31))
	if err != nil {
		t.Fatalf("按范围查询失败: %v", err)
	}
	if len(march) != 3 {
		t.Errorf("期望三月 3 条记录，实际: %d", len(march))
	}

	counts, err := repo.DailyEntry.CountDistinctDays(ctx, []string{user.UserID})
	if err != nil {
		t.Fatalf("统计天数失败: %v", err)
	}
	if counts[user.UserID] != 4 {
		t.Errorf("期望 4 个不同日期，实际: %d", counts[user.UserID])
	}
}

// ═══════════════════════════════════════════════════════════
// Exam
// ═══════════════════════════════════════════════════════════

func TestExamRepo_GetOrCreateAndDates(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)
	math := createSubject(t, repo, user.UserID, "Math")
	art := createSubject(t, repo, user.UserID, "Art")

	first, created, err := repo.Exam.GetOrCreate(ctx, user.UserID, day(2024, 3, 8), math.SubjectID)
	if err != nil || !created {
		t.Fatalf("期望新建考试，实际: %v, %v", created, err)
	}
	again, created, _ := repo.Exam.GetOrCreate(ctx, user.UserID, day(2024, 3, 8), math.SubjectID)
	if created || again.ExamID != first.ExamID {
		t.Error("期望同日同科目返回已有考试")
	}
	repo.Exam.GetOrCreate(ctx, user.UserID, day(2024, 3, 8), art.SubjectID)
	repo.Exam.GetOrCreate(ctx, user.UserID, day(2024, 3, 20), art.SubjectID)

	dates, err := repo.Exam.ListDates(ctx, user.UserID, day(2024, 3, 1), day(2024, 3, 31))
	if err != nil {
		t.Fatalf("查询考试日期失败: %v", err)
	}
	if len(dates) != 2 {
		t.Errorf("期望 2 个考试日期，实际: %d", len(dates))
	}

	n, err := repo.Exam.DeleteByDateSubject(ctx, user.UserID, day(2024, 3, 8), math.SubjectID)
	if err != nil || n != 1 {
		t.Errorf("期望删除 1 条，实际: %d, %v", n, err)
	}
	n, _ = repo.Exam.DeleteByDateSubject(ctx, user.UserID, day(2024, 3, 8), math.SubjectID)
	if n != 0 {
		t.Errorf("期望重复删除影响 0 行，实际: %d", n)
	}
}

// ═══════════════════════════════════════════════════════════
// Transaction
// ═══════════════════════════════════════════════════════════

func TestRepository_TransactionRollback(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	user := createUser(t, repo)
	errBoom := errors.New("boom")

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, _, err := tx.Subject.GetOrCreate(ctx, user.UserID, "Rolled back"); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("期望返回 fn 的错误，实际: %v", err)
	}

	if _, err := repo.Subject.GetByName(ctx, user.UserID, "Rolled back"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望事务回滚后科目不存在，实际: %v", err)
	}
}
