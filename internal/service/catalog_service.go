package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/model"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
)

// ── 目录模块业务错误 ──

var (
	ErrExerciseNotFound  = fmt.Errorf("%w: 动作不存在", pkgerrors.ErrNotFound)
	ErrRoutineNotFound   = fmt.Errorf("%w: 训练计划不存在", pkgerrors.ErrNotFound)
	ErrInvalidExercise   = fmt.Errorf("%w: 动作类型、难度或时长无效", pkgerrors.ErrValidation)
	ErrEmptyName         = fmt.Errorf("%w: 名称不能为空", pkgerrors.ErrValidation)
	ErrEmptyRoutineItems  = fmt.Errorf("%w: 训练计划至少包含一个动作", pkgerrors.ErrValidation)
)

// CatalogService 动作与训练计划目录
type CatalogService interface {
	CreateExercise(ctx context.Context, req *dto.CreateExerciseRequest, createdBy string) (*dto.ExerciseResponse, error)
	ListExercises(ctx context.Context, typ string) ([]dto.ExerciseResponse, error)
	GetExercise(ctx context.Context, id string) (*dto.ExerciseResponse, error)

	// CreateRoutine 按提交顺序保存动作快照，任一动作不存在返回 ErrExerciseNotFound
	CreateRoutine(ctx context.Context, req *dto.CreateRoutineRequest, createdBy string) (*dto.RoutineResponse, error)
	ListRoutines(ctx context.Context) ([]dto.RoutineResponse, error)
	GetRoutine(ctx context.Context, id string) (*dto.RoutineResponse, error)
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── 动作 ──────────────────────

func (s *catalogService) CreateExercise(ctx context.Context, req *dto.CreateExerciseRequest, createdBy string) (*dto.ExerciseResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	typ := strings.ToLower(strings.TrimSpace(req.Type))
	difficulty := strings.ToLower(strings.TrimSpace(req.Difficulty))
	if !model.IsValidExerciseType(typ) || !model.IsValidDifficulty(difficulty) || req.Duration < 1 {
		return nil, ErrInvalidExercise
	}

	exercise := &model.Exercise{
		Name:        name,
		Type:        typ,
		Description: strings.TrimSpace(req.Description),
		Duration:    req.Duration,
		Difficulty:  difficulty,
		VideoURL:    strings.TrimSpace(req.VideoURL),
		CreatedBy:   createdBy,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Exercise.Create(ctx, exercise); err != nil {
		s.logger.Error("创建动作失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("动作已创建", zap.String("id", exercise.ID.Hex()), zap.String("name", name))
	resp := toExerciseResponse(exercise)
	return &resp, nil
}

func (s *catalogService) ListExercises(ctx context.Context, typ string) ([]dto.ExerciseResponse, error) {
	exercises, err := s.repo.Exercise.List(ctx, strings.ToLower(strings.TrimSpace(typ)))
	if err != nil {
		s.logger.Error("查询动作列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ExerciseResponse, 0, len(exercises))
	for i := range exercises {
		result = append(result, toExerciseResponse(&exercises[i]))
	}
	return result, nil
}

func (s *catalogService) GetExercise(ctx context.Context, id string) (*dto.ExerciseResponse, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	exercise, err := s.repo.Exercise.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExerciseNotFound
		}
		s.logger.Error("查询动作失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toExerciseResponse(exercise)
	return &resp, nil
}

// ────────────────────── 训练计划 ──────────────────────

func (s *catalogService) CreateRoutine(ctx context.Context, req *dto.CreateRoutineRequest, createdBy string) (*dto.RoutineResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(req.ExerciseIDs) == 0 {
		return nil, ErrEmptyRoutineItems
	}

	ids := make([]primitive.ObjectID, 0, len(req.ExerciseIDs))
	for _, raw := range req.ExerciseIDs {
		oid, err := parseObjectID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, oid)
	}

	exercises, err := s.repo.Exercise.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询动作失败", zap.Error(err))
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*model.Exercise, len(exercises))
	for i := range exercises {
		byID[exercises[i].ID] = &exercises[i]
	}

	// 同一动作可在计划中出现多次，每次各占一个顺序位
	items := make([]model.RoutineItem, 0, len(ids))
	for i, oid := range ids {
		ex, ok := byID[oid]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrExerciseNotFound, oid.Hex())
		}
		items = append(items, model.RoutineItem{
			ExerciseID: ex.ID,
			Name:       ex.Name,
			Type:       ex.Type,
			Order:      i + 1,
		})
	}

	routine := &model.Routine{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Items:       items,
		CreatedBy:   createdBy,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Routine.Create(ctx, routine); err != nil {
		s.logger.Error("创建训练计划失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.logger.Info("训练计划已创建",
		zap.String("id", routine.ID.Hex()),
		zap.String("name", name),
		zap.Int("items", len(items)),
	)
	resp := toRoutineResponse(routine)
	return &resp, nil
}

func (s *catalogService) ListRoutines(ctx context.Context) ([]dto.RoutineResponse, error) {
	routines, err := s.repo.Routine.List(ctx)
	if err != nil {
		s.logger.Error("查询训练计划列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RoutineResponse, 0, len(routines))
	for i := range routines {
		result = append(result, toRoutineResponse(&routines[i]))
	}
	return result, nil
}

func (s *catalogService) GetRoutine(ctx context.Context, id string) (*dto.RoutineResponse, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	routine, err := s.repo.Routine.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRoutineNotFound
		}
		s.logger.Error("查询训练计划失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toRoutineResponse(routine)
	return &resp, nil
}

// ── 转换 ──

func toExerciseResponse(e *model.Exercise) dto.ExerciseResponse {
	return dto.ExerciseResponse{
		ID:          e.ID.Hex(),
		Name:        e.Name,
		Type:        e.Type,
		Description: e.Description,
		Duration:    e.Duration,
		Difficulty:  e.Difficulty,
		VideoURL:    e.VideoURL,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   formatTime(e.CreatedAt),
	}
}

func toRoutineResponse(r *model.Routine) dto.RoutineResponse {
	items := make([]dto.RoutineItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.RoutineItemResponse{
			ExerciseID: it.ExerciseID.Hex(),
			Name:       it.Name,
			Type:       it.Type,
			Order:      it.Order,
		})
	}
	return dto.RoutineResponse{
		ID:          r.ID.Hex(),
		Name:        r.Name,
		Description: r.Description,
		Items:       items,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}
