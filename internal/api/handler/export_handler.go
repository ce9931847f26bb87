package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"cabin-lottery/backend/internal/service"
	"cabin-lottery/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportDrawResult 导出抽签结果为 Excel（管理员）
// GET /api/v1/drawings/:id/export
func (h *ExportHandler) ExportDrawResult(c *gin.Context) {
	drawingID := c.Param("id")
	if drawingID == "" {
		response.BadRequest(c, 10001, "抽签ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportDrawResult(c.Request.Context(), drawingID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDrawingNotFound):
		response.NotFound(c, 14001, "抽签不存在")
	case errors.Is(err, service.ErrExportNoResult):
		response.NotFound(c, 19001, "该抽签暂无结果可导出")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
