package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/internal/service"
	"cabin-lottery/backend/pkg/response"
)

// BookingHandler 预订模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// ListMyBookings 当前用户的预订列表
// GET /api/v1/bookings/mine
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": bookings})
}

// ListDrawingBookings 某次抽签下的全部预订（管理员）
// GET /api/v1/drawings/:id/bookings
func (h *BookingHandler) ListDrawingBookings(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	bookings, err := h.bookingSvc.ListByDrawing(c.Request.Context(), drawingID)
	if err != nil {
		if errors.Is(err, service.ErrDrawingNotFound) {
			response.NotFound(c, 14001, "抽签不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": bookings})
}
