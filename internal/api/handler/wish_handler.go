package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/service"
	"cabin-lottery/backend/pkg/response"
)

// WishHandler 愿望模块 HTTP 处理器
type WishHandler struct {
	wishSvc service.WishService
}

// NewWishHandler 创建 WishHandler
func NewWishHandler(wishSvc service.WishService) *WishHandler {
	return &WishHandler{wishSvc: wishSvc}
}

// CreateWish 提交愿望（抽签须为 open 状态）
// POST /api/v1/drawings/:id/wishes
func (h *WishHandler) CreateWish(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	var req dto.CreateWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	wish, err := h.wishSvc.Create(c.Request.Context(), drawingID, userID, &req)
	if err != nil {
		h.handleWishError(c, err)
		return
	}

	response.Created(c, wish)
}

// ListMyWishes 当前用户在某次抽签下的愿望（按优先级升序）
// GET /api/v1/drawings/:id/wishes/mine
func (h *WishHandler) ListMyWishes(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	wishes, err := h.wishSvc.ListMine(c.Request.Context(), drawingID, userID)
	if err != nil {
		h.handleWishError(c, err)
		return
	}

	response.OK(c, gin.H{"list": wishes})
}

// ListWishes 某次抽签下的全部愿望（管理员）
// GET /api/v1/drawings/:id/wishes
func (h *WishHandler) ListWishes(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	wishes, err := h.wishSvc.ListByDrawing(c.Request.Context(), drawingID)
	if err != nil {
		h.handleWishError(c, err)
		return
	}

	response.OK(c, gin.H{"list": wishes})
}

// UpdateWish 修改愿望（仅本人，抽签须为 open 状态）
// PUT /api/v1/wishes/:id
func (h *WishHandler) UpdateWish(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "愿望ID不能为空")
		return
	}

	var req dto.UpdateWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	wish, err := h.wishSvc.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.handleWishError(c, err)
		return
	}

	response.OK(c, wish)
}

// DeleteWish 删除愿望（本人或管理员，抽签须为 open 状态）
// DELETE /api/v1/wishes/:id
func (h *WishHandler) DeleteWish(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "愿望ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.wishSvc.Delete(c.Request.Context(), id, userID, role); err != nil {
		h.handleWishError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleWishError 统一处理愿望模块业务错误
func (h *WishHandler) handleWishError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWishNotFound):
		response.NotFound(c, 16001, "愿望不存在")
	case errors.Is(err, service.ErrDrawingNotOpen):
		response.BadRequest(c, 16002, "抽签未在开放状态，不能提交或修改愿望")
	case errors.Is(err, service.ErrPeriodNotInDrawing):
		response.BadRequest(c, 16003, "期间不属于该抽签")
	case errors.Is(err, service.ErrWishApartmentInvalid):
		response.BadRequest(c, 16004, "愿望包含不存在或未启用的公寓")
	case errors.Is(err, service.ErrWishNotOwner):
		response.Forbidden(c, 16005, "只能操作自己的愿望")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 15001, "期间不存在")
	case errors.Is(err, service.ErrDrawingNotFound):
		response.NotFound(c, 14001, "抽签不存在")
	default:
		response.InternalError(c)
	}
}
