package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
)

const (
	defaultProgressLimit = 100
	maxProgressLimit     = 500
)

// ProgressService 训练进度记录
type ProgressService interface {
	// CreateProgress 学生总是记录到自己名下，员工 / 管理员可通过 req.Username 代记
	CreateProgress(ctx context.Context, viewer, viewerRole string, req *dto.CreateProgressRequest) (*dto.ProgressLogResponse, error)
	ListProgress(ctx context.Context, viewer, viewerRole string, req *dto.ProgressListRequest) ([]dto.ProgressLogResponse, error)
}

type progressService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(repo *repository.Repository, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, logger: logger}
}

func (s *progressService) CreateProgress(ctx context.Context, viewer, viewerRole string, req *dto.CreateProgressRequest) (*dto.ProgressLogResponse, error) {
	target, err := resolveTarget(viewer, viewerRole, req.Username)
	if err != nil {
		return nil, err
	}
	if target != viewer {
		if err := s.ensureActiveUser(ctx, target); err != nil {
			return nil, err
		}
	}

	exerciseID, err := parseObjectID(req.ExerciseID)
	if err != nil {
		return nil, err
	}
	exercise, err := s.repo.Exercise.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExerciseNotFound
		}
		s.logger.Error("查询动作失败", zap.String("exercise_id", req.ExerciseID), zap.Error(err))
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	log := &model.ProgressLog{
		UserID: target,
		Date:   date,
		Entries: []model.ProgressEntry{{
			ExerciseID:   exercise.ID,
			ExerciseName: exercise.Name,
			Sets:         []model.ProgressSet{{Reps: req.Reps, Weight: req.Weight}},
		}},
	}
	if err := s.repo.Progress.Create(ctx, log); err != nil {
		s.logger.Error("保存进度记录失败", zap.String("user_id", target), zap.Error(err))
		return nil, err
	}

	s.logger.Info("进度已记录",
		zap.String("user_id", target),
		zap.String("exercise", exercise.Name),
		zap.String("recorded_by", viewer),
	)
	resp := toProgressLogResponse(log)
	return &resp, nil
}

func (s *progressService) ListProgress(ctx context.Context, viewer, viewerRole string, req *dto.ProgressListRequest) ([]dto.ProgressLogResponse, error) {
	target, err := resolveTarget(viewer, viewerRole, req.Username)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultProgressLimit
	}
	if limit > maxProgressLimit {
		limit = maxProgressLimit
	}

	logs, err := s.repo.Progress.ListByUser(ctx, target, int64(limit))
	if err != nil {
		s.logger.Error("查询进度记录失败", zap.String("user_id", target), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProgressLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, toProgressLogResponse(&logs[i]))
	}
	return result, nil
}

func (s *progressService) ensureActiveUser(ctx context.Context, username string) error {
	u, err := s.repo.User.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetUserNotFound
		}
		s.logger.Error("查询机构账号失败", zap.String("username", username), zap.Error(err))
		return err
	}
	if !u.IsActive {
		return ErrTargetUserNotFound
	}
	return nil
}

func toProgressLogResponse(l *model.ProgressLog) dto.ProgressLogResponse {
	entries := make([]dto.ProgressEntryResponse, 0, len(l.Entries))
	for _, e := range l.Entries {
		sets := make([]dto.ProgressSetResponse, 0, len(e.Sets))
		for _, st := range e.Sets {
			sets = append(sets, dto.ProgressSetResponse{Reps: st.Reps, Weight: st.Weight})
		}
		entries = append(entries, dto.ProgressEntryResponse{
			ExerciseID:   e.ExerciseID.Hex(),
			ExerciseName: e.ExerciseName,
			Sets:         sets,
		})
	}
	return dto.ProgressLogResponse{
		ID:      l.ID.Hex(),
		UserID:  l.UserID,
		Date:    formatDate(l.Date),
		Entries: entries,
	}
}
