package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
)

// ── 训练分配模块业务错误 ──

var (
	ErrActiveAssignmentExists = fmt.Errorf("%w: 该学员已存在活动的教练分配", pkgerrors.ErrConflict)
	ErrAssignmentNotFound     = fmt.Errorf("%w: 分配记录不存在", pkgerrors.ErrNotFound)
	ErrStudentNotFound        = fmt.Errorf("%w: 学员账号不存在或已停用", pkgerrors.ErrNotFound)
	ErrTrainerNotFound        = fmt.Errorf("%w: 教练账号不存在或已停用", pkgerrors.ErrNotFound)
	ErrNotAStudent            = fmt.Errorf("%w: 只能为 STUDENT 账号分配教练", pkgerrors.ErrValidation)
	ErrNotATrainer            = fmt.Errorf("%w: 教练必须是关联员工记录的 EMPLOYEE 账号", pkgerrors.ErrValidation)
	ErrInvalidStatus          = fmt.Errorf("%w: 状态取值无效", pkgerrors.ErrValidation)
)

const maxAssignmentList = 200

// AssignmentService 训练分配业务接口
//
// 每名学员至多一条 status=active 的分配，由文档库部分唯一索引保证：
//   - Assign 先将旧分配置为 ended，再插入新的 active 文档
//   - 两步之间的并发竞争由唯一索引裁决，失败方得到 ErrActiveAssignmentExists
type AssignmentService interface {
	Assign(ctx context.Context, req *dto.QuickAssignRequest) (*dto.IDResponse, error)
	// GetActive 无活动分配时返回 nil, nil
	GetActive(ctx context.Context, userID string) (*dto.AssignmentResponse, error)
	// GetActiveMap 仅包含存在活动分配的用户
	GetActiveMap(ctx context.Context, userIDs []string) (map[string]*dto.AssignmentResponse, error)
	List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error)
	Inactivate(ctx context.Context, id string) error
	ListStudentsWithTrainer(ctx context.Context) ([]dto.StudentTrainerResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Assign ──────────────────────

func (s *assignmentService) Assign(ctx context.Context, req *dto.QuickAssignRequest) (*dto.IDResponse, error) {
	student, err := s.activeUser(ctx, req.UserID, ErrStudentNotFound)
	if err != nil {
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotAStudent
	}

	trainer, err := s.activeUser(ctx, req.TrainerID, ErrTrainerNotFound)
	if err != nil {
		return nil, err
	}
	if trainer.Role != model.RoleEmployee || trainer.EmployeeID == nil {
		return nil, ErrNotATrainer
	}

	since, err := parseOptionalDate(req.Since)
	if err != nil {
		return nil, err
	}
	until, err := parseOptionalDate(req.Until)
	if err != nil {
		return nil, err
	}

	id, err := s.assign(ctx, student.Username, trainer.Username, since, until)
	if err != nil {
		return nil, err
	}
	return &dto.IDResponse{ID: id}, nil
}

// assign 结束旧的活动分配后插入新的活动分配
// until 只作用于被结束的旧分配，新分配的 until 恒为 null
func (s *assignmentService) assign(ctx context.Context, userID, trainerID string, since, until *time.Time) (string, error) {
	now := s.now().UTC().Truncate(time.Millisecond)

	endAt := now
	if until != nil {
		endAt = *until
	}
	startAt := now
	if since != nil {
		startAt = *since
	}

	ended, err := s.repo.TrainerAssignment.EndActive(ctx, userID, endAt, now)
	if err != nil {
		s.logger.Error("结束旧分配失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	doc := &model.TrainerAssignment{
		UserID:    userID,
		TrainerID: trainerID,
		Status:    model.AssignmentActive,
		Since:     startAt,
		Until:     nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.TrainerAssignment.InsertActive(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.logger.Warn("并发分配冲突", zap.String("user_id", userID), zap.String("trainer_id", trainerID))
			return "", ErrActiveAssignmentExists
		}
		s.logger.Error("插入分配失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}

	s.logger.Info("教练分配完成",
		zap.String("user_id", userID),
		zap.String("trainer_id", trainerID),
		zap.Int64("ended", ended),
	)
	return doc.ID.Hex(), nil
}

func (s *assignmentService) activeUser(ctx context.Context, username string, notFound error) (*model.InstitutionalUser, error) {
	u, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		s.logger.Error("查询机构账号失败", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if !u.IsActive {
		return nil, notFound
	}
	return u, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *assignmentService) GetActive(ctx context.Context, userID string) (*dto.AssignmentResponse, error) {
	doc, err := s.repo.TrainerAssignment.FindActive(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		s.logger.Error("查询活动分配失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toAssignmentResponse(doc)
	return &resp, nil
}

func (s *assignmentService) GetActiveMap(ctx context.Context, userIDs []string) (map[string]*dto.AssignmentResponse, error) {
	result := make(map[string]*dto.AssignmentResponse)
	if len(userIDs) == 0 {
		return result, nil
	}

	docs, err := s.repo.TrainerAssignment.FindActiveByUsers(ctx, userIDs)
	if err != nil {
		s.logger.Error("批量查询活动分配失败", zap.Error(err))
		return nil, err
	}
	for i := range docs {
		resp := toAssignmentResponse(&docs[i])
		result[docs[i].UserID] = &resp
	}
	return result, nil
}

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, error) {
	if req.Status != "" && !model.IsValidAssignmentStatus(req.Status) {
		return nil, ErrInvalidStatus
	}
	limit := req.Limit
	if limit <= 0 || limit > maxAssignmentList {
		limit = maxAssignmentList
	}

	docs, err := s.repo.TrainerAssignment.List(ctx, repository.AssignmentFilter{
		UserID:    req.UserID,
		TrainerID: req.TrainerID,
		Status:    req.Status,
	}, int64(limit))
	if err != nil {
		s.logger.Error("查询分配列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AssignmentResponse, 0, len(docs))
	for i := range docs {
		result = append(result, toAssignmentResponse(&docs[i]))
	}
	return result, nil
}

// ────────────────────── Inactivate ──────────────────────

func (s *assignmentService) Inactivate(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	matched, err := s.repo.TrainerAssignment.Inactivate(ctx, oid, s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		s.logger.Error("停用分配失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if matched == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

// ────────────────────── 学员概览 ──────────────────────

func (s *assignmentService) ListStudentsWithTrainer(ctx context.Context) ([]dto.StudentTrainerResponse, error) {
	students, err := s.repo.User.ListActive(ctx, model.RoleStudent)
	if err != nil {
		s.logger.Error("查询活动学员失败", zap.Error(err))
		return nil, err
	}

	usernames := make([]string, 0, len(students))
	for _, u := range students {
		usernames = append(usernames, u.Username)
	}
	active, err := s.GetActiveMap(ctx, usernames)
	if err != nil {
		return nil, err
	}

	result := make([]dto.StudentTrainerResponse, 0, len(students))
	for i := range students {
		u := &students[i]
		result = append(result, dto.StudentTrainerResponse{
			Username: u.Username,
			Name:     u.DisplayName(),
			Email:    u.Email(),
			Active:   active[u.Username],
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func toAssignmentResponse(doc *model.TrainerAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:        doc.ID.Hex(),
		UserID:    doc.UserID,
		TrainerID: doc.TrainerID,
		Status:    doc.Status,
		Since:     formatTime(doc.Since),
		CreatedAt: formatTime(doc.CreatedAt),
		UpdatedAt: formatTime(doc.UpdatedAt),
	}
	if doc.Until != nil {
		until := formatTime(*doc.Until)
		resp.Until = &until
	}
	return resp
}
