package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/service"
	"cabin-lottery/backend/pkg/response"
)

// ApartmentHandler 公寓模块 HTTP 处理器
type ApartmentHandler struct {
	apartmentSvc service.ApartmentService
}

// NewApartmentHandler 创建 ApartmentHandler
func NewApartmentHandler(apartmentSvc service.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{apartmentSvc: apartmentSvc}
}

// ListApartments 公寓列表
// GET /api/v1/apartments?active_only=true
func (h *ApartmentHandler) ListApartments(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	apartments, err := h.apartmentSvc.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": apartments})
}

// GetApartment 获取公寓详情
// GET /api/v1/apartments/:id
func (h *ApartmentHandler) GetApartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "公寓ID不能为空")
		return
	}

	apartment, err := h.apartmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleApartmentError(c, err)
		return
	}

	response.OK(c, apartment)
}

// CreateApartment 创建公寓（管理员）
// POST /api/v1/apartments
func (h *ApartmentHandler) CreateApartment(c *gin.Context) {
	var req dto.CreateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	apartment, err := h.apartmentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleApartmentError(c, err)
		return
	}

	response.Created(c, apartment)
}

// UpdateApartment 更新公寓（管理员）
// PUT /api/v1/apartments/:id
func (h *ApartmentHandler) UpdateApartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "公寓ID不能为空")
		return
	}

	var req dto.UpdateApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	apartment, err := h.apartmentSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleApartmentError(c, err)
		return
	}

	response.OK(c, apartment)
}

// DeleteApartment 删除公寓（管理员）
// DELETE /api/v1/apartments/:id
func (h *ApartmentHandler) DeleteApartment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "公寓ID不能为空")
		return
	}

	if err := h.apartmentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleApartmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleApartmentError 统一处理公寓模块业务错误
func (h *ApartmentHandler) handleApartmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrApartmentNotFound):
		response.NotFound(c, 13001, "公寓不存在")
	case errors.Is(err, service.ErrApartmentInUse):
		response.BadRequest(c, 13002, "公寓已出现在抽签结果中，不能删除")
	default:
		response.InternalError(c)
	}
}
