package handler

import (
	"github.com/ju4n3s0/GymIcesi-System/config"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Catalog    *CatalogHandler
	Routine    *RoutineHandler
	Assignment *AssignmentHandler
	Progress   *ProgressHandler
	Report     *ReportHandler
	Health     *HealthHandler
}

// NewHandler 创建 Handler 聚合，checks 为 /health 探测的依赖
func NewHandler(cfg *config.Config, svc *service.Service, checks ...HealthCheck) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, cfg),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Routine:    NewRoutineHandler(svc.Routine),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Progress:   NewProgressHandler(svc.Progress),
		Report:     NewReportHandler(svc.Report, svc.Export),
		Health:     NewHealthHandler(checks...),
	}
}
