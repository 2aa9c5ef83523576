package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

const calendarContentType = "text/calendar; charset=utf-8"

// RoutineHandler 训练计划分配 HTTP 处理器
type RoutineHandler struct {
	routineSvc service.RoutineService
}

// NewRoutineHandler 创建 RoutineHandler
func NewRoutineHandler(routineSvc service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineSvc: routineSvc}
}

// AssignRoutine 给用户分配训练计划
// POST /api/v1/routines/assign
func (h *RoutineHandler) AssignRoutine(c *gin.Context) {
	username, ok := MustGetUsername(c)
	if !ok {
		return
	}

	var req dto.AssignRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	assignment, err := h.routineSvc.AssignRoutine(c.Request.Context(), &req, username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Created(c, assignment)
}

// ListRoutineUsers 活动用户及其分配数量
// GET /api/v1/routines/users
func (h *RoutineHandler) ListRoutineUsers(c *gin.Context) {
	list, err := h.routineSvc.ListRoutineUsers(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// GetUserRoutines 某用户的计划分配历史，学生只能查看自己
// GET /api/v1/routines/users/:username
func (h *RoutineHandler) GetUserRoutines(c *gin.Context) {
	viewer, role, ok := mustGetViewer(c)
	if !ok {
		return
	}

	list, err := h.routineSvc.UserRoutineHistory(c.Request.Context(), viewer, role, c.Param("username"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// DownloadCalendar 导出计划分配日历（iCalendar）
// GET /api/v1/routines/users/:username/calendar
func (h *RoutineHandler) DownloadCalendar(c *gin.Context) {
	viewer, role, ok := mustGetViewer(c)
	if !ok {
		return
	}

	buf, filename, err := h.routineSvc.Calendar(c.Request.Context(), viewer, role, c.Param("username"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Attachment(c, filename, calendarContentType, buf.Bytes())
}
