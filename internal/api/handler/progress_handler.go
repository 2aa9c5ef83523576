package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

// ProgressHandler 训练进度 HTTP 处理器
type ProgressHandler struct {
	progressSvc service.ProgressService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(progressSvc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// List 进度记录，默认当前用户
// GET /api/v1/progress?username=&limit=
func (h *ProgressHandler) List(c *gin.Context) {
	viewer, role, ok := mustGetViewer(c)
	if !ok {
		return
	}

	var req dto.ProgressListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.progressSvc.ListProgress(c.Request.Context(), viewer, role, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// Create 记录一次训练
// POST /api/v1/progress
func (h *ProgressHandler) Create(c *gin.Context) {
	viewer, role, ok := mustGetViewer(c)
	if !ok {
		return
	}

	var req dto.CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	log, err := h.progressSvc.CreateProgress(c.Request.Context(), viewer, role, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, log)
}
