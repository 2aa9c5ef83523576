package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
)

// ── 计划分配模块业务错误 ──

var (
	ErrTargetUserNotFound = fmt.Errorf("%w: 目标用户不存在或已停用", pkgerrors.ErrNotFound)
	ErrCalendarGenerate   = errors.New("生成日历文件失败")
)

const calendarProductID = "-//GymIcesi//Rutinas//ES"

// RoutineService 训练计划分配
//
// 与教练分配不同，同一用户可同时持有多份计划分配，不存在唯一约束。
type RoutineService interface {
	AssignRoutine(ctx context.Context, req *dto.AssignRoutineRequest, assignedBy string) (*dto.RoutineAssignmentResponse, error)
	// ListRoutineUsers 所有活动机构用户及其计划分配数量
	ListRoutineUsers(ctx context.Context) ([]dto.RoutineUserResponse, error)
	// UserRoutineHistory 按开始日期倒序，学生只能查看自己
	UserRoutineHistory(ctx context.Context, viewer, viewerRole, username string) ([]dto.RoutineAssignmentResponse, error)
	// Calendar 导出为 iCalendar，每条分配一个全天事件
	Calendar(ctx context.Context, viewer, viewerRole, username string) (*bytes.Buffer, string, error)
}

type routineService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewRoutineService 创建 RoutineService 实例
func NewRoutineService(repo *repository.Repository, logger *zap.Logger) RoutineService {
	return &routineService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── AssignRoutine ──────────────────────

func (s *routineService) AssignRoutine(ctx context.Context, req *dto.AssignRoutineRequest, assignedBy string) (*dto.RoutineAssignmentResponse, error) {
	target, err := s.activeUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	routineID, err := parseObjectID(req.RoutineID)
	if err != nil {
		return nil, err
	}
	routine, err := s.repo.Routine.GetByID(ctx, routineID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRoutineNotFound
		}
		s.logger.Error("查询训练计划失败", zap.String("routine_id", req.RoutineID), zap.Error(err))
		return nil, err
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	assignment := &model.RoutineAssignment{
		RoutineID:    routine.ID,
		TargetUserID: target.Username,
		StartDate:    startDate,
		Notes:        strings.TrimSpace(req.Notes),
		IsActive:     true,
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
		AssignedBy:   assignedBy,
	}
	if err := s.repo.UserRoutine.Create(ctx, assignment); err != nil {
		s.logger.Error("保存计划分配失败", zap.String("username", target.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("训练计划已分配",
		zap.String("username", target.Username),
		zap.String("routine", routine.Name),
		zap.String("assigned_by", assignedBy),
	)
	resp := toRoutineAssignmentResponse(assignment, routine.Name)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *routineService) ListRoutineUsers(ctx context.Context) ([]dto.RoutineUserResponse, error) {
	users, err := s.repo.User.ListActive(ctx, "")
	if err != nil {
		s.logger.Error("查询活动用户失败", zap.Error(err))
		return nil, err
	}
	aggs, err := s.repo.UserRoutine.SummaryByUser(ctx)
	if err != nil {
		s.logger.Error("统计计划分配失败", zap.Error(err))
		return nil, err
	}
	byUser := make(map[string]repository.UserAssignmentAgg, len(aggs))
	for _, a := range aggs {
		byUser[a.UserID] = a
	}

	result := make([]dto.RoutineUserResponse, 0, len(users))
	for i := range users {
		u := &users[i]
		agg := byUser[u.Username]
		result = append(result, dto.RoutineUserResponse{
			Username:          u.Username,
			Name:              u.DisplayName(),
			Role:              u.Role,
			Assignments:       agg.Total,
			ActiveAssignments: agg.Active,
		})
	}
	return result, nil
}

func (s *routineService) UserRoutineHistory(ctx context.Context, viewer, viewerRole, username string) ([]dto.RoutineAssignmentResponse, error) {
	rows, _, err := s.history(ctx, viewer, viewerRole, username)
	if err != nil {
		return nil, err
	}
	result := make([]dto.RoutineAssignmentResponse, 0, len(rows))
	for i := range rows {
		result = append(result, toRoutineAssignmentResponse(&rows[i].RoutineAssignment, rows[i].RoutineName))
	}
	return result, nil
}

// ────────────────────── Calendar ──────────────────────

func (s *routineService) Calendar(ctx context.Context, viewer, viewerRole, username string) (*bytes.Buffer, string, error) {
	rows, target, err := s.history(ctx, viewer, viewerRole, username)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetXWRCalName(fmt.Sprintf("Rutinas de %s", target.DisplayName()))

	stamp := s.now().UTC()
	for i := range rows {
		a := &rows[i]
		evt := cal.AddEvent(a.ID.Hex() + "@gym-icesi")
		evt.SetDtStampTime(stamp)
		evt.SetAllDayStartAt(a.StartDate)
		evt.SetAllDayEndAt(a.StartDate.AddDate(0, 0, 1))

		summary := a.RoutineName
		if summary == "" {
			summary = "Rutina"
		}
		evt.SetSummary(summary)
		if a.Notes != "" {
			evt.SetDescription(a.Notes)
		}
		if !a.IsActive {
			evt.SetStatus(ics.ObjectStatusCancelled)
		}
	}

	buf := new(bytes.Buffer)
	if err := cal.SerializeTo(buf); err != nil {
		s.logger.Error("序列化日历失败", zap.String("username", target.Username), zap.Error(err))
		return nil, "", ErrCalendarGenerate
	}

	filename := fmt.Sprintf("rutinas_%s.ics", target.Username)
	return buf, filename, nil
}

// ── 内部辅助方法 ──

func (s *routineService) history(ctx context.Context, viewer, viewerRole, username string) ([]repository.RoutineHistoryRow, *model.InstitutionalUser, error) {
	name, err := resolveTarget(viewer, viewerRole, username)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.activeUser(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.UserRoutine.History(ctx, target.Username)
	if err != nil {
		s.logger.Error("查询计划分配历史失败", zap.String("username", target.Username), zap.Error(err))
		return nil, nil, err
	}
	return rows, target, nil
}

func (s *routineService) activeUser(ctx context.Context, username string) (*model.InstitutionalUser, error) {
	u, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetUserNotFound
		}
		s.logger.Error("查询机构账号失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrTargetUserNotFound
	}
	return u, nil
}

func toRoutineAssignmentResponse(a *model.RoutineAssignment, routineName string) dto.RoutineAssignmentResponse {
	return dto.RoutineAssignmentResponse{
		ID:           a.ID.Hex(),
		RoutineID:    a.RoutineID.Hex(),
		RoutineName:  routineName,
		TargetUserID: a.TargetUserID,
		StartDate:    formatDate(a.StartDate),
		Notes:        a.Notes,
		IsActive:     a.IsActive,
		AssignedBy:   a.AssignedBy,
		CreatedAt:    formatTime(a.CreatedAt),
	}
}
