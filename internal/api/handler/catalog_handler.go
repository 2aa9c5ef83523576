package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

// CatalogHandler 动作与训练计划目录 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListExercises 动作列表
// GET /api/v1/exercises?type=fuerza
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	var req dto.ExerciseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.catalogSvc.ListExercises(c.Request.Context(), req.Type)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// CreateExercise 创建动作
// POST /api/v1/exercises
func (h *CatalogHandler) CreateExercise(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var req dto.CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	exercise, err := h.catalogSvc.CreateExercise(c.Request.Context(), &req, username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, exercise)
}

// GetExercise 动作详情
// GET /api/v1/exercises/:id
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	exercise, err := h.catalogSvc.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, exercise)
}

// ListRoutines 训练计划列表
// GET /api/v1/routines
func (h *CatalogHandler) ListRoutines(c *gin.Context) {
	list, err := h.catalogSvc.ListRoutines(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// CreateRoutine 创建训练计划
// POST /api/v1/routines
func (h *CatalogHandler) CreateRoutine(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var req dto.CreateRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	routine, err := h.catalogSvc.CreateRoutine(c.Request.Context(), &req, username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, routine)
}

// GetRoutine 训练计划详情
// GET /api/v1/routines/:id
func (h *CatalogHandler) GetRoutine(c *gin.Context) {
	routine, err := h.catalogSvc.GetRoutine(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, routine)
}
