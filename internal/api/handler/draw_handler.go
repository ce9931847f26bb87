package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/service"
	"cabin-lottery/backend/pkg/response"
)

// DrawHandler 抽签执行与验证 HTTP 处理器
type DrawHandler struct {
	drawSvc service.DrawService
}

// NewDrawHandler 创建 DrawHandler
func NewDrawHandler(drawSvc service.DrawService) *DrawHandler {
	return &DrawHandler{drawSvc: drawSvc}
}

// ValidateDraw 抽签前输入校验（管理员）
// GET /api/v1/drawings/:id/draw/validate
func (h *DrawHandler) ValidateDraw(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	issues, err := h.drawSvc.Validate(c.Request.Context(), drawingID)
	if err != nil {
		h.handleDrawError(c, err)
		return
	}

	response.OK(c, gin.H{"issues": issues})
}

// RunDraw 执行抽签/重抽（管理员，抽签须为 locked 或 drawn 状态）
// POST /api/v1/drawings/:id/draw
func (h *DrawHandler) RunDraw(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	// 种子可选，允许空请求体
	var req dto.RunDrawRequest
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

	result, err := h.drawSvc.RunDraw(c.Request.Context(), drawingID, &req, callerID)
	if err != nil {
		h.handleDrawError(c, err)
		return
	}

	response.OK(c, result)
}

// GetDrawResult 最新抽签结果（管理员）
// GET /api/v1/drawings/:id/draw/result
func (h *DrawHandler) GetDrawResult(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	result, err := h.drawSvc.GetResult(c.Request.Context(), drawingID)
	if err != nil {
		h.handleDrawError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMyDrawResult 当前用户的分配结果
// GET /api/v1/drawings/:id/draw/result/mine
func (h *DrawHandler) GetMyDrawResult(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	allocations, err := h.drawSvc.GetMyResult(c.Request.Context(), drawingID, userID)
	if err != nil {
		h.handleDrawError(c, err)
		return
	}

	response.OK(c, gin.H{"list": allocations})
}

// VerifyDraw 用种子回放抽签并与持久化结果比对（管理员）
// POST /api/v1/drawings/:id/draw/verify
func (h *DrawHandler) VerifyDraw(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	var req dto.VerifyDrawRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	result, err := h.drawSvc.VerifyDraw(c.Request.Context(), drawingID, &req)
	if err != nil {
		h.handleDrawError(c, err)
		return
	}

	response.OK(c, result)
}

// handleDrawError 统一处理抽签执行模块业务错误
func (h *DrawHandler) handleDrawError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDrawingNotFound):
		response.NotFound(c, 14001, "抽签不存在")
	case errors.Is(err, service.ErrDrawingNotDrawable):
		response.BadRequest(c, 17001, "抽签不在可执行状态（需先锁定）")
	case errors.Is(err, service.ErrDrawInputEmpty):
		response.BadRequest(c, 17002, "抽签输入为空：无期间或无可用公寓")
	case errors.Is(err, service.ErrDrawBlocked):
		response.BadRequest(c, 17003, "存在阻断性校验问题，请先处理")
	case errors.Is(err, service.ErrDrawSeedInvalid):
		response.BadRequest(c, 17004, "随机种子无效")
	case errors.Is(err, service.ErrDrawingNoResult):
		response.NotFound(c, 17005, "抽签尚无结果")
	default:
		response.InternalError(c)
	}
}
