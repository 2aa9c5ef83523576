package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

// AssignmentHandler 教练分配 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// List 分配记录列表
// GET /api/v1/assignments?user_id=&trainer_id=&status=&limit=
func (h *AssignmentHandler) List(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}

// QuickAssign 为学员指定教练，结束其当前分配
// POST /api/v1/assignments/quick-assign
func (h *AssignmentHandler) QuickAssign(c *gin.Context) {
	var req dto.QuickAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.assignmentSvc.Assign(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrActiveAssignmentExists) {
			response.Conflict(c, 14001, "该学员已有活动分配，请重试")
			return
		}
		handleServiceError(c, err)
		return
	}
	response.Created(c, result)
}

// GetActive 学员当前的活动分配，没有时 active 为 null
// GET /api/v1/assignments/active/:username
func (h *AssignmentHandler) GetActive(c *gin.Context) {
	active, err := h.assignmentSvc.GetActive(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, gin.H{"active": active})
}

// Inactivate 停用一条分配记录
// POST /api/v1/assignments/:id/inactivate
func (h *AssignmentHandler) Inactivate(c *gin.Context) {
	if err := h.assignmentSvc.Inactivate(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListStudents 活动学员及其当前教练
// GET /api/v1/assignments/students
func (h *AssignmentHandler) ListStudents(c *gin.Context) {
	list, err := h.assignmentSvc.ListStudentsWithTrainer(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.OK(c, list)
}
