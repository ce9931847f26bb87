package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/service"
	"cabin-lottery/backend/pkg/response"
)

// PeriodHandler 期间模块 HTTP 处理器
type PeriodHandler struct {
	periodSvc service.PeriodService
}

// NewPeriodHandler 创建 PeriodHandler
func NewPeriodHandler(periodSvc service.PeriodService) *PeriodHandler {
	return &PeriodHandler{periodSvc: periodSvc}
}

// ListPeriods 抽签下的期间列表（按排序值升序）
// GET /api/v1/drawings/:id/periods
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	periods, err := h.periodSvc.ListByDrawing(c.Request.Context(), drawingID)
	if err != nil {
		h.handlePeriodError(c, err)
		return
	}

	response.OK(c, gin.H{"list": periods})
}

// CreatePeriod 创建期间（管理员，仅 draft 状态）
// POST /api/v1/drawings/:id/periods
func (h *PeriodHandler) CreatePeriod(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	period, err := h.periodSvc.Create(c.Request.Context(), drawingID, &req, callerID)
	if err != nil {
		h.handlePeriodError(c, err)
		return
	}

	response.Created(c, period)
}

// BulkGeneratePeriods 从首个起始日期批量生成连续期间（管理员，仅 draft 状态）
// POST /api/v1/drawings/:id/periods/bulk
func (h *PeriodHandler) BulkGeneratePeriods(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	var req dto.BulkGeneratePeriodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	periods, err := h.periodSvc.BulkGenerate(c.Request.Context(), drawingID, &req, callerID)
	if err != nil {
		h.handlePeriodError(c, err)
		return
	}

	response.Created(c, gin.H{"list": periods})
}

// UpdatePeriod 更新期间（管理员，仅 draft 状态）
// PUT /api/v1/periods/:id
func (h *PeriodHandler) UpdatePeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "期间ID不能为空")
		return
	}

	var req dto.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	period, err := h.periodSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handlePeriodError(c, err)
		return
	}

	response.OK(c, period)
}

// DeletePeriod 删除期间（管理员，仅 draft 状态）
// DELETE /api/v1/periods/:id
func (h *PeriodHandler) DeletePeriod(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "期间ID不能为空")
		return
	}

	if err := h.periodSvc.Delete(c.Request.Context(), id); err != nil {
		h.handlePeriodError(c, err)
		return
	}

	response.OK(c, nil)
}

// handlePeriodError 统一处理期间模块业务错误
func (h *PeriodHandler) handlePeriodError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 15001, "期间不存在")
	case errors.Is(err, service.ErrPeriodDateInvalid):
		response.BadRequest(c, 15002, "期间日期无效：结束日期须晚于开始日期")
	case errors.Is(err, service.ErrPeriodBadDate):
		response.BadRequest(c, 15003, "日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrDrawingNotFound):
		response.NotFound(c, 14001, "抽签不存在")
	case errors.Is(err, service.ErrDrawingNotDraft):
		response.BadRequest(c, 14002, "抽签不在草稿状态")
	default:
		response.InternalError(c)
	}
}
