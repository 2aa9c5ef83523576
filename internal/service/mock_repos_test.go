package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/ju4n3s0/GymIcesi-System/internal/credential"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
)

// ── Mock StudentRepository / EmployeeRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student // key: id
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) GetByEmail(_ context.Context, email string) (*model.Student, error) {
	ids := make([]string, 0, len(m.students))
	for id := range m.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if m.students[id].Email == email {
			return m.students[id], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	ids := make([]string, 0, len(m.employees))
	for id := range m.employees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if m.employees[id].Email == email {
			return m.employees[id], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock InstitutionalUserRepository ──

type mockInstUserRepo struct {
	users map[string]*model.InstitutionalUser // key: username
}

func newMockInstUserRepo() *mockInstUserRepo {
	return &mockInstUserRepo{users: make(map[string]*model.InstitutionalUser)}
}

func (m *mockInstUserRepo) GetByLink(_ context.Context, link model.PersonLink) (*model.InstitutionalUser, error) {
	for _, u := range m.users {
		if link.StudentID != nil && u.StudentID != nil && *u.StudentID == *link.StudentID {
			return u, nil
		}
		if link.EmployeeID != nil && u.EmployeeID != nil && *u.EmployeeID == *link.EmployeeID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstUserRepo) GetByUsername(_ context.Context, username string) (*model.InstitutionalUser, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstUserRepo) ListActive(_ context.Context, role string) ([]model.InstitutionalUser, error) {
	var result []model.InstitutionalUser
	for _, u := range m.users {
		if !u.IsActive || (role != "" && u.Role != role) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

// ── Mock AuthUserRepository ──

type mockAuthUserRepo struct {
	users   map[string]*model.AuthUser
	nextID  uint
	creates int
	updates int
}

func newMockAuthUserRepo() *mockAuthUserRepo {
	return &mockAuthUserRepo{users: make(map[string]*model.AuthUser)}
}

func (m *mockAuthUserRepo) GetByUsernameForUpdate(ctx context.Context, username string) (*model.AuthUser, error) {
	return m.GetByUsername(ctx, username)
}

func (m *mockAuthUserRepo) GetByUsername(_ context.Context, username string) (*model.AuthUser, error) {
	if u, ok := m.users[username]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAuthUserRepo) Create(_ context.Context, user *model.AuthUser) error {
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users[user.Username] = &cp
	m.creates++
	return nil
}

func (m *mockAuthUserRepo) Update(_ context.Context, user *model.AuthUser) error {
	cp := *user
	m.users[user.Username] = &cp
	m.updates++
	return nil
}

// ── Mock TrainerAssignmentStore ──

// mockTrainerStore 模拟部分唯一索引：同一 userId 至多一条 active
type mockTrainerStore struct {
	docs []*model.TrainerAssignment
}

func newMockTrainerStore() *mockTrainerStore {
	return &mockTrainerStore{}
}

func (m *mockTrainerStore) EnsureIndexes(_ context.Context) error { return nil }

func (m *mockTrainerStore) EndActive(_ context.Context, userID string, until, now time.Time) (int64, error) {
	var n int64
	for _, d := range m.docs {
		if d.UserID == userID && d.Status == model.AssignmentActive {
			u := until
			d.Status = model.AssignmentEnded
			d.Until = &u
			d.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (m *mockTrainerStore) InsertActive(_ context.Context, doc *model.TrainerAssignment) error {
	for _, d := range m.docs {
		if d.UserID == doc.UserID && d.Status == model.AssignmentActive {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
		}
	}
	doc.ID = primitive.NewObjectID()
	cp := *doc
	m.docs = append(m.docs, &cp)
	return nil
}

func (m *mockTrainerStore) FindActive(_ context.Context, userID string) (*model.TrainerAssignment, error) {
	for _, d := range m.docs {
		if d.UserID == userID && d.Status == model.AssignmentActive {
			cp := *d
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTrainerStore) FindActiveByUsers(_ context.Context, userIDs []string) ([]model.TrainerAssignment, error) {
	want := make(map[string]bool, len(userIDs))
	for _, u := range userIDs {
		want[u] = true
	}
	var result []model.TrainerAssignment
	for _, d := range m.docs {
		if want[d.UserID] && d.Status == model.AssignmentActive {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockTrainerStore) List(_ context.Context, f repository.AssignmentFilter, limit int64) ([]model.TrainerAssignment, error) {
	var result []model.TrainerAssignment
	for _, d := range m.docs {
		if (f.UserID != "" && d.UserID != f.UserID) ||
			(f.TrainerID != "" && d.TrainerID != f.TrainerID) ||
			(f.Status != "" && d.Status != f.Status) {
			continue
		}
		result = append(result, *d)
	}
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockTrainerStore) Inactivate(_ context.Context, id primitive.ObjectID, now time.Time) (int64, error) {
	for _, d := range m.docs {
		if d.ID == id {
			d.Status = model.AssignmentInactive
			d.UpdatedAt = now
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockTrainerStore) countActive(userID string) int {
	n := 0
	for _, d := range m.docs {
		if d.UserID == userID && d.Status == model.AssignmentActive {
			n++
		}
	}
	return n
}

// ── Mock ExerciseStore / RoutineStore ──

type mockExerciseStore struct {
	exercises map[primitive.ObjectID]*model.Exercise
}

func newMockExerciseStore() *mockExerciseStore {
	return &mockExerciseStore{exercises: make(map[primitive.ObjectID]*model.Exercise)}
}

func (m *mockExerciseStore) Create(_ context.Context, e *model.Exercise) error {
	e.ID = primitive.NewObjectID()
	cp := *e
	m.exercises[e.ID] = &cp
	return nil
}

func (m *mockExerciseStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Exercise, error) {
	if e, ok := m.exercises[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockExerciseStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Exercise, error) {
	var result []model.Exercise
	for _, id := range ids {
		if e, ok := m.exercises[id]; ok {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockExerciseStore) List(_ context.Context, typ string) ([]model.Exercise, error) {
	var result []model.Exercise
	for _, e := range m.exercises {
		if typ == "" || e.Type == typ {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type mockRoutineStore struct {
	routines map[primitive.ObjectID]*model.Routine
}

func newMockRoutineStore() *mockRoutineStore {
	return &mockRoutineStore{routines: make(map[primitive.ObjectID]*model.Routine)}
}

func (m *mockRoutineStore) Create(_ context.Context, r *model.Routine) error {
	r.ID = primitive.NewObjectID()
	cp := *r
	m.routines[r.ID] = &cp
	return nil
}

func (m *mockRoutineStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Routine, error) {
	if r, ok := m.routines[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockRoutineStore) List(_ context.Context) ([]model.Routine, error) {
	var result []model.Routine
	for _, r := range m.routines {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock UserRoutineStore ──

// mockUserRoutineStore 以内存遍历复现聚合管道的语义
type mockUserRoutineStore struct {
	routines    *mockRoutineStore
	assignments []*model.RoutineAssignment
	topLimit    int64 // 最近一次 TopExercises 收到的 limit
}

func newMockUserRoutineStore(routines *mockRoutineStore) *mockUserRoutineStore {
	return &mockUserRoutineStore{routines: routines}
}

func (m *mockUserRoutineStore) EnsureIndexes(_ context.Context) error { return nil }

func (m *mockUserRoutineStore) Create(_ context.Context, a *model.RoutineAssignment) error {
	a.ID = primitive.NewObjectID()
	cp := *a
	m.assignments = append(m.assignments, &cp)
	return nil
}

func (m *mockUserRoutineStore) History(_ context.Context, username string) ([]repository.RoutineHistoryRow, error) {
	var rows []repository.RoutineHistoryRow
	for _, a := range m.assignments {
		if a.TargetUserID != username {
			continue
		}
		row := repository.RoutineHistoryRow{RoutineAssignment: *a}
		if r, ok := m.routines.routines[a.RoutineID]; ok {
			row.RoutineName = r.Name
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].StartDate.After(rows[j].StartDate) })
	return rows, nil
}

func (m *mockUserRoutineStore) SummaryByUser(_ context.Context) ([]repository.UserAssignmentAgg, error) {
	byUser := make(map[string]*repository.UserAssignmentAgg)
	distinct := make(map[string]map[primitive.ObjectID]bool)
	for _, a := range m.assignments {
		agg, ok := byUser[a.TargetUserID]
		if !ok {
			agg = &repository.UserAssignmentAgg{UserID: a.TargetUserID, FirstStart: a.StartDate, LastStart: a.StartDate}
			byUser[a.TargetUserID] = agg
			distinct[a.TargetUserID] = make(map[primitive.ObjectID]bool)
		}
		agg.Total++
		if a.IsActive {
			agg.Active++
		} else {
			agg.Inactive++
		}
		if a.StartDate.Before(agg.FirstStart) {
			agg.FirstStart = a.StartDate
		}
		if a.StartDate.After(agg.LastStart) {
			agg.LastStart = a.StartDate
		}
		distinct[a.TargetUserID][a.RoutineID] = true
	}
	result := make([]repository.UserAssignmentAgg, 0, len(byUser))
	for u, agg := range byUser {
		agg.DistinctRoutines = int64(len(distinct[u]))
		result = append(result, *agg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRoutineStore) DistinctTargetUsers(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var users []string
	for _, a := range m.assignments {
		if !seen[a.TargetUserID] {
			seen[a.TargetUserID] = true
			users = append(users, a.TargetUserID)
		}
	}
	return users, nil
}

func (m *mockUserRoutineStore) TopExercises(_ context.Context, typ string, limit int64) ([]repository.ExerciseCount, error) {
	m.topLimit = limit
	counts := make(map[string]*repository.ExerciseCount)
	for _, a := range m.assignments {
		r, ok := m.routines.routines[a.RoutineID]
		if !ok {
			continue
		}
		for _, it := range r.Items {
			if typ != "" && !strings.EqualFold(it.Type, typ) {
				continue
			}
			c, ok := counts[it.Name]
			if !ok {
				c = &repository.ExerciseCount{Name: it.Name, Type: it.Type}
				counts[it.Name] = c
			}
			c.Count++
		}
	}
	result := make([]repository.ExerciseCount, 0, len(counts))
	for _, c := range counts {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── Mock ProgressStore ──

type mockProgressStore struct {
	logs []*model.ProgressLog
}

func newMockProgressStore() *mockProgressStore {
	return &mockProgressStore{}
}

func (m *mockProgressStore) EnsureIndexes(_ context.Context) error { return nil }

func (m *mockProgressStore) Create(_ context.Context, l *model.ProgressLog) error {
	l.ID = primitive.NewObjectID()
	cp := *l
	m.logs = append(m.logs, &cp)
	return nil
}

func (m *mockProgressStore) ListByUser(_ context.Context, userID string, limit int64) ([]model.ProgressLog, error) {
	var result []model.ProgressLog
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, *l)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	if int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── 测试夹具 ──

type testRepos struct {
	students     *mockStudentRepo
	employees    *mockEmployeeRepo
	users        *mockInstUserRepo
	authUsers    *mockAuthUserRepo
	trainers     *mockTrainerStore
	exercises    *mockExerciseStore
	routines     *mockRoutineStore
	userRoutines *mockUserRoutineStore
	progress     *mockProgressStore
}

func newTestRepository() (*repository.Repository, *testRepos) {
	routines := newMockRoutineStore()
	m := &testRepos{
		students:     newMockStudentRepo(),
		employees:    newMockEmployeeRepo(),
		users:        newMockInstUserRepo(),
		authUsers:    newMockAuthUserRepo(),
		trainers:     newMockTrainerStore(),
		exercises:    newMockExerciseStore(),
		routines:     routines,
		userRoutines: newMockUserRoutineStore(routines),
		progress:     newMockProgressStore(),
	}
	repo := &repository.Repository{
		Student:           m.students,
		Employee:          m.employees,
		User:              m.users,
		AuthUser:          m.authUsers,
		TrainerAssignment: m.trainers,
		Exercise:          m.exercises,
		Routine:           m.routines,
		UserRoutine:       m.userRoutines,
		Progress:          m.progress,
	}
	return repo, m
}

// addStudent 录入学生及其机构账号，stored 为密码的存储编码
func (m *testRepos) addStudent(id, email, username, stored string, active bool) *model.InstitutionalUser {
	st := &model.Student{ID: id, FirstName: "Est", LastName: id, Email: email}
	m.students.students[id] = st
	sid := id
	u := &model.InstitutionalUser{
		Username:     username,
		PasswordHash: credential.NewStored(stored),
		Role:         model.RoleStudent,
		StudentID:    &sid,
		IsActive:     active,
		Student:      st,
	}
	m.users.users[username] = u
	return u
}

// addEmployee 录入员工及其机构账号
func (m *testRepos) addEmployee(id, email, username, role, stored string, active bool) *model.InstitutionalUser {
	emp := &model.Employee{ID: id, FirstName: "Emp", LastName: id, Email: email}
	m.employees.employees[id] = emp
	eid := id
	u := &model.InstitutionalUser{
		Username:     username,
		PasswordHash: credential.NewStored(stored),
		Role:         role,
		EmployeeID:   &eid,
		IsActive:     active,
		Employee:     emp,
	}
	m.users.users[username] = u
	return u
}
