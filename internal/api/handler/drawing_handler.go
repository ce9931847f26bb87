package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/service"
	"cabin-lottery/backend/pkg/response"
)

// DrawingHandler 抽签生命周期 HTTP 处理器
type DrawingHandler struct {
	drawingSvc service.DrawingService
}

// NewDrawingHandler 创建 DrawingHandler
func NewDrawingHandler(drawingSvc service.DrawingService) *DrawingHandler {
	return &DrawingHandler{drawingSvc: drawingSvc}
}

// ListDrawings 抽签列表
// GET /api/v1/drawings?page=1&page_size=20&status=open
func (h *DrawingHandler) ListDrawings(c *gin.Context) {
	var query dto.ListDrawingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	drawings, total, err := h.drawingSvc.List(c.Request.Context(), &query)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, drawings, total, query.Page, query.PageSize)
}

// GetDrawing 获取抽签详情（含期间列表）
// GET /api/v1/drawings/:id
func (h *DrawingHandler) GetDrawing(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	drawing, err := h.drawingSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDrawingError(c, err)
		return
	}

	response.OK(c, drawing)
}

// CreateDrawing 创建抽签（管理员）
// POST /api/v1/drawings
func (h *DrawingHandler) CreateDrawing(c *gin.Context) {
	var req dto.CreateDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	drawing, err := h.drawingSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDrawingError(c, err)
		return
	}

	response.Created(c, drawing)
}

// UpdateDrawing 更新抽签（仅 draft 状态，管理员）
// PUT /api/v1/drawings/:id
func (h *DrawingHandler) UpdateDrawing(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	var req dto.UpdateDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	drawing, err := h.drawingSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDrawingError(c, err)
		return
	}

	response.OK(c, drawing)
}

// DeleteDrawing 删除抽签（仅 draft 状态，管理员）
// DELETE /api/v1/drawings/:id
func (h *DrawingHandler) DeleteDrawing(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	if err := h.drawingSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleDrawingError(c, err)
		return
	}

	response.OK(c, nil)
}

// OpenDrawing 开放愿望提交 draft → open
// PUT /api/v1/drawings/:id/open
func (h *DrawingHandler) OpenDrawing(c *gin.Context) {
	h.transition(c, h.drawingSvc.Open)
}

// LockDrawing 锁定愿望提交 open → locked
// PUT /api/v1/drawings/:id/lock
func (h *DrawingHandler) LockDrawing(c *gin.Context) {
	h.transition(c, h.drawingSvc.Lock)
}

// PublishDrawing 发布结果并生成预订 drawn → published
// PUT /api/v1/drawings/:id/publish
func (h *DrawingHandler) PublishDrawing(c *gin.Context) {
	h.transition(c, h.drawingSvc.Publish)
}

// RevertDrawing 回退到 draft 并丢弃抽签结果
// PUT /api/v1/drawings/:id/revert
func (h *DrawingHandler) RevertDrawing(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	// 回退原因可选，允许空请求体
	var req dto.TransitionDrawingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	drawing, err := h.drawingSvc.RevertToDraft(c.Request.Context(), id, req.Reason, callerID)
	if err != nil {
		h.handleDrawingError(c, err)
		return
	}

	response.OK(c, drawing)
}

// ListChangeLogs 抽签状态变更日志
// GET /api/v1/drawings/:id/change-logs
func (h *DrawingHandler) ListChangeLogs(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	logs, err := h.drawingSvc.ListChangeLogs(c.Request.Context(), id)
	if err != nil {
		h.handleDrawingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": logs})
}

// transition 共用的状态流转处理
func (h *DrawingHandler) transition(c *gin.Context, fn func(ctx context.Context, id, callerID string) (*dto.DrawingResponse, error)) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	drawing, err := fn(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleDrawingError(c, err)
		return
	}

	response.OK(c, drawing)
}

// handleDrawingError 统一处理抽签模块业务错误
func (h *DrawingHandler) handleDrawingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDrawingNotFound):
		response.NotFound(c, 14001, "抽签不存在")
	case errors.Is(err, service.ErrDrawingNotDraft):
		response.BadRequest(c, 14002, "抽签不在草稿状态")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 14003, "无效的状态流转")
	case errors.Is(err, service.ErrDrawingNoResult):
		response.BadRequest(c, 14004, "抽签尚无结果，不能发布")
	default:
		response.InternalError(c)
	}
}
