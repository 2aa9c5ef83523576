package service

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
)

const (
	fallbackTopLimit = 20
	maxTopLimit      = 100
)

// ReportService 计划分配报表（只读）
//
// 文档库先按 targetUserId 聚合，再与活动机构账号在内存中关联：
//   - 找不到活动账号的分组直接丢弃（停用或删除的用户不出现在报表中）
//   - 未分配报表是活动账号与出现过的 targetUserId 的差集
type ReportService interface {
	UserAssignmentSummary(ctx context.Context) ([]dto.UserSummaryRow, error)
	UsersWithoutRoutines(ctx context.Context) ([]dto.UnassignedUserRow, error)
	// TopExercises typ 为空不过滤，limit<=0 时使用配置的默认值
	TopExercises(ctx context.Context, typ string, limit int) ([]dto.TopExerciseRow, error)
}

type reportService struct {
	repo         *repository.Repository
	defaultLimit int
	logger       *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ReportService {
	limit := cfg.Report.DefaultTopLimit
	if limit <= 0 {
		limit = fallbackTopLimit
	}
	return &reportService{repo: repo, defaultLimit: limit, logger: logger}
}

func (s *reportService) UserAssignmentSummary(ctx context.Context) ([]dto.UserSummaryRow, error) {
	aggs, err := s.repo.UserRoutine.SummaryByUser(ctx)
	if err != nil {
		s.logger.Error("聚合计划分配失败", zap.Error(err))
		return nil, err
	}
	users, err := s.activeUsers(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.UserSummaryRow, 0, len(aggs))
	for _, a := range aggs {
		u, ok := users[a.UserID]
		if !ok {
			continue
		}
		rows = append(rows, dto.UserSummaryRow{
			Username:         u.Username,
			Name:             u.DisplayName(),
			Role:             u.Role,
			Total:            a.Total,
			Active:           a.Active,
			Inactive:         a.Inactive,
			FirstStart:       formatDate(a.FirstStart),
			LastStart:        formatDate(a.LastStart),
			DistinctRoutines: a.DistinctRoutines,
		})
	}
	return rows, nil
}

func (s *reportService) UsersWithoutRoutines(ctx context.Context) ([]dto.UnassignedUserRow, error) {
	assigned, err := s.repo.UserRoutine.DistinctTargetUsers(ctx)
	if err != nil {
		s.logger.Error("查询已分配用户失败", zap.Error(err))
		return nil, err
	}
	seen := make(map[string]struct{}, len(assigned))
	for _, u := range assigned {
		seen[u] = struct{}{}
	}

	users, err := s.repo.User.ListActive(ctx, "")
	if err != nil {
		s.logger.Error("查询活动用户失败", zap.Error(err))
		return nil, err
	}

	rows := make([]dto.UnassignedUserRow, 0)
	for i := range users {
		u := &users[i]
		if _, ok := seen[u.Username]; ok {
			continue
		}
		rows = append(rows, dto.UnassignedUserRow{
			Username: u.Username,
			Name:     u.DisplayName(),
			Email:    u.Email(),
			Role:     u.Role,
		})
	}
	return rows, nil
}

func (s *reportService) TopExercises(ctx context.Context, typ string, limit int) ([]dto.TopExerciseRow, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	// 超过上限截断而非报错，与 HTTP 层 binding max=100 一致
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	counts, err := s.repo.UserRoutine.TopExercises(ctx, strings.TrimSpace(typ), int64(limit))
	if err != nil {
		s.logger.Error("统计热门动作失败", zap.String("type", typ), zap.Error(err))
		return nil, err
	}

	rows := make([]dto.TopExerciseRow, 0, len(counts))
	for i, c := range counts {
		rows = append(rows, dto.TopExerciseRow{
			Rank:  i + 1,
			Name:  c.Name,
			Type:  c.Type,
			Count: c.Count,
		})
	}
	return rows, nil
}

func (s *reportService) activeUsers(ctx context.Context) (map[string]*model.InstitutionalUser, error) {
	users, err := s.repo.User.ListActive(ctx, "")
	if err != nil {
		s.logger.Error("查询活动用户失败", zap.Error(err))
		return nil, err
	}
	m := make(map[string]*model.InstitutionalUser, len(users))
	for i := range users {
		m[users[i].Username] = &users[i]
	}
	return m, nil
}

// ── 导出表格 ──

// UserSummaryTable 用户汇总报表的导出表格
func UserSummaryTable(rows []dto.UserSummaryRow) *Table {
	t := &Table{
		Name:    "resumen_usuarios",
		Title:   "Resumen de rutinas por usuario",
		Headers: []string{"Usuario", "Nombre", "Rol", "Total", "Activas", "Inactivas", "Primera", "Última", "Rutinas distintas"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Username, r.Name, r.Role,
			strconv.FormatInt(r.Total, 10),
			strconv.FormatInt(r.Active, 10),
			strconv.FormatInt(r.Inactive, 10),
			r.FirstStart, r.LastStart,
			strconv.FormatInt(r.DistinctRoutines, 10),
		})
	}
	return t
}

// UnassignedUsersTable 未分配用户报表的导出表格
func UnassignedUsersTable(rows []dto.UnassignedUserRow) *Table {
	t := &Table{
		Name:    "usuarios_sin_rutina",
		Title:   "Usuarios sin rutinas asignadas",
		Headers: []string{"Usuario", "Nombre", "Email", "Rol"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{r.Username, r.Name, r.Email, r.Role})
	}
	return t
}

// TopExercisesTable 热门动作报表的导出表格
func TopExercisesTable(rows []dto.TopExerciseRow) *Table {
	t := &Table{
		Name:    "top_ejercicios",
		Title:   "Ejercicios más asignados",
		Headers: []string{"#", "Ejercicio", "Tipo", "Veces"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.Rank), r.Name, r.Type, strconv.FormatInt(r.Count, 10),
		})
	}
	return t
}
