package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/credential"
	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
)

type reportFixture struct {
	report  ReportService
	routine RoutineService
	m       *testRepos
	squat   string // 每次出现计 1
	twice   string // 含两次 Squat
	cardio  string
}

func setupTestReportService(t *testing.T, defaultLimit int) *reportFixture {
	t.Helper()
	repo, m := newTestRepository()
	logger := zap.NewNop()
	cfg := &config.Config{Report: config.ReportConfig{DefaultTopLimit: defaultLimit}}
	catalog := NewCatalogService(repo, logger)

	pw := credential.HashSha256("x")
	m.addStudent("S1", "alice@icesi.edu.co", "alice", pw, true)
	m.addStudent("S2", "bob@icesi.edu.co", "bob", pw, true)
	m.addStudent("S3", "carl@icesi.edu.co", "carl", pw, true)
	m.addStudent("S4", "gone@icesi.edu.co", "gone", pw, false)
	m.addEmployee("E1", "coach@icesi.edu.co", "coach", model.RoleEmployee, pw, true)

	squat := mustCreateExercise(t, catalog, "Squat", model.ExerciseStrength)
	run := mustCreateExercise(t, catalog, "Run", model.ExerciseCardio)
	bench := mustCreateExercise(t, catalog, "Bench", model.ExerciseStrength)

	ctx := context.Background()
	once, _ := catalog.CreateRoutine(ctx, &dto.CreateRoutineRequest{Name: "Once", ExerciseIDs: []string{squat.ID, run.ID}}, "coach")
	twice, _ := catalog.CreateRoutine(ctx, &dto.CreateRoutineRequest{Name: "Twice", ExerciseIDs: []string{squat.ID, squat.ID, bench.ID}}, "coach")
	cardio, _ := catalog.CreateRoutine(ctx, &dto.CreateRoutineRequest{Name: "Cardio", ExerciseIDs: []string{run.ID}}, "coach")

	return &reportFixture{
		report:  NewReportService(cfg, repo, logger),
		routine: NewRoutineService(repo, logger),
		m:       m,
		squat:   once.ID,
		twice:   twice.ID,
		cardio:  cardio.ID,
	}
}

func (f *reportFixture) assign(t *testing.T, username, routineID, date string) {
	t.Helper()
	if _, err := f.routine.AssignRoutine(context.Background(), &dto.AssignRoutineRequest{
		Username: username, RoutineID: routineID, StartDate: date,
	}, "coach"); err != nil {
		t.Fatalf("分配失败: %v", err)
	}
}

func TestReportService_TopExercises_CountsEveryOccurrence(t *testing.T) {
	f := setupTestReportService(t, 0)
	// 两份各含一次 Squat，一份含两次 Squat
	f.assign(t, "alice", f.squat, "2025-03-01")
	f.assign(t, "bob", f.squat, "2025-03-02")
	f.assign(t, "carl", f.twice, "2025-03-03")

	rows, err := f.report.TopExercises(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 || rows[0].Name != "Squat" || rows[0].Count != 4 {
		t.Fatalf("期望 Squat=4 位列第一，实际 %+v", rows)
	}
	if rows[0].Rank != 1 {
		t.Errorf("排名应从 1 开始，实际 %d", rows[0].Rank)
	}
	// Run=2, Bench=1
	if rows[1].Name != "Run" || rows[1].Count != 2 || rows[2].Name != "Bench" || rows[2].Count != 1 {
		t.Errorf("排序不匹配: %+v", rows)
	}
}

func TestReportService_TopExercises_TypeFilterAndTies(t *testing.T) {
	f := setupTestReportService(t, 0)
	f.assign(t, "alice", f.twice, "2025-03-01")
	f.assign(t, "bob", f.cardio, "2025-03-02")
	f.assign(t, "bob", f.cardio, "2025-03-03")

	rows, _ := f.report.TopExercises(context.Background(), "CARDIO", 0)
	if len(rows) != 1 || rows[0].Name != "Run" || rows[0].Count != 2 {
		t.Errorf("类型过滤应不区分大小写: %+v", rows)
	}

	// Squat=2, Run=2 并列时按名称升序
	all, _ := f.report.TopExercises(context.Background(), "", 2)
	if len(all) != 2 || all[0].Name != "Run" || all[1].Name != "Squat" {
		t.Errorf("并列时应按名称升序且截断到 limit: %+v", all)
	}
}

func TestReportService_TopExercises_DefaultLimit(t *testing.T) {
	f := setupTestReportService(t, 1)
	f.assign(t, "alice", f.twice, "2025-03-01")

	rows, _ := f.report.TopExercises(context.Background(), "", 0)
	if len(rows) != 1 {
		t.Errorf("应使用配置的默认 limit=1，实际 %d 行", len(rows))
	}
}

func TestReportService_TopExercises_LimitCappedAt100(t *testing.T) {
	f := setupTestReportService(t, 0)
	f.assign(t, "alice", f.squat, "2025-03-01")

	if _, err := f.report.TopExercises(context.Background(), "", 500); err != nil {
		t.Fatal(err)
	}
	if f.m.userRoutines.topLimit != 100 {
		t.Errorf("limit 超过上限应截断为 100，实际 %d", f.m.userRoutines.topLimit)
	}

	_, _ = f.report.TopExercises(context.Background(), "", 0)
	if f.m.userRoutines.topLimit != 20 {
		t.Errorf("未配置默认值时应使用 20，实际 %d", f.m.userRoutines.topLimit)
	}
}

func TestReportService_UserAssignmentSummary_DropsInactiveUsers(t *testing.T) {
	f := setupTestReportService(t, 0)
	f.assign(t, "alice", f.squat, "2025-03-01")
	f.assign(t, "alice", f.twice, "2025-03-05")
	f.assign(t, "alice", f.squat, "2025-03-09")
	f.assign(t, "bob", f.cardio, "2025-03-02")

	// 停用用户的分配不出现在报表中
	f.m.userRoutines.assignments = append(f.m.userRoutines.assignments, &model.RoutineAssignment{
		TargetUserID: "gone", IsActive: true,
	})

	rows, err := f.report.UserAssignmentSummary(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望 2 行，实际 %+v", rows)
	}
	alice := rows[0]
	if alice.Username != "alice" || alice.Total != 3 || alice.Active != 3 || alice.Inactive != 0 {
		t.Errorf("alice 统计不匹配: %+v", alice)
	}
	if alice.FirstStart != "2025-03-01" || alice.LastStart != "2025-03-09" || alice.DistinctRoutines != 2 {
		t.Errorf("alice 日期或计划数不匹配: %+v", alice)
	}
}

func TestReportService_UsersWithoutRoutines(t *testing.T) {
	f := setupTestReportService(t, 0)
	f.assign(t, "alice", f.squat, "2025-03-01")

	rows, err := f.report.UsersWithoutRoutines(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.Username)
	}
	want := []string{"bob", "carl", "coach"}
	if len(got) != len(want) {
		t.Fatalf("期望 %v，实际 %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("期望 %v，实际 %v", want, got)
			break
		}
	}
}

func TestReportTables(t *testing.T) {
	tbl := TopExercisesTable([]dto.TopExerciseRow{{Rank: 1, Name: "Squat", Type: "fuerza", Count: 4}})
	if len(tbl.Headers) != 4 || len(tbl.Rows) != 1 {
		t.Fatalf("表格结构不匹配: %+v", tbl)
	}
	if tbl.Rows[0][3] != "4" {
		t.Errorf("count 列应为 4，实际 %s", tbl.Rows[0][3])
	}

	summary := UserSummaryTable([]dto.UserSummaryRow{{Username: "alice", Total: 3}})
	if len(summary.Rows[0]) != len(summary.Headers) {
		t.Error("每行列数应与表头一致")
	}
	if len(UnassignedUsersTable(nil).Rows) != 0 {
		t.Error("空报表不应有数据行")
	}
}
