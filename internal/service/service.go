package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/repository"
	"github.com/ju4n3s0/GymIcesi-System/pkg/jwt"
	"github.com/ju4n3s0/GymIcesi-System/pkg/redis"
)

// TokenBlacklist 注销时吊销 Token；Redis 不可用时为 nil
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Identity   IdentityService
	Auth       AuthService
	Assignment AssignmentService
	Catalog    CatalogService
	Routine    RoutineService
	Progress   ProgressService
	Report     ReportService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var blacklist TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	identity := NewIdentityService(repo, logger)
	return &Service{
		Identity:   identity,
		Auth:       NewAuthService(cfg, repo, identity, jwtMgr, blacklist, logger),
		Assignment: NewAssignmentService(repo, logger),
		Catalog:    NewCatalogService(repo, logger),
		Routine:    NewRoutineService(repo, logger),
		Progress:   NewProgressService(repo, logger),
		Report:     NewReportService(cfg, repo, logger),
		Export:     NewExportService(logger),
	}
}
