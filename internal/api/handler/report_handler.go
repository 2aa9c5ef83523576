package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ju4n3s0/GymIcesi-System/internal/dto"
	"github.com/ju4n3s0/GymIcesi-System/internal/service"
	"github.com/ju4n3s0/GymIcesi-System/pkg/response"
)

// ReportHandler 报表模块 HTTP 处理器
// ?export=csv|xlsx|pdf 时以附件形式下载，否则返回 JSON
type ReportHandler struct {
	reportSvc service.ReportService
	exportSvc service.ExportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, exportSvc service.ExportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, exportSvc: exportSvc}
}

// UserSummary 按用户汇总计划分配
// GET /api/v1/reports/users
func (h *ReportHandler) UserSummary(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	rows, err := h.reportSvc.UserAssignmentSummary(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Export != "" {
		h.export(c, req.Export, service.UserSummaryTable(rows))
		return
	}
	response.OK(c, rows)
}

// UsersWithout 没有任何计划分配的活动用户
// GET /api/v1/reports/users/without
func (h *ReportHandler) UsersWithout(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	rows, err := h.reportSvc.UsersWithoutRoutines(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Export != "" {
		h.export(c, req.Export, service.UnassignedUsersTable(rows))
		return
	}
	response.OK(c, rows)
}

// TopExercises 被分配最多的动作
// GET /api/v1/reports/exercises/top?type=&limit=
func (h *ReportHandler) TopExercises(c *gin.Context) {
	var req dto.TopExercisesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	rows, err := h.reportSvc.TopExercises(c.Request.Context(), req.Type, req.Limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if req.Export != "" {
		h.export(c, req.Export, service.TopExercisesTable(rows))
		return
	}
	response.OK(c, rows)
}

func (h *ReportHandler) export(c *gin.Context, format string, table *service.Table) {
	buf, filename, err := h.exportSvc.Export(c.Request.Context(), format, table)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Attachment(c, filename, service.ContentType(format), buf.Bytes())
}
