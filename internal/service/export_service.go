package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabin-lottery/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoResult     = errors.New("该抽签暂无抽签结果可导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 抽签结果导出为 Excel (.xlsx)，「分配结果」与「未满足愿望」各一个 Sheet
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportDrawResult 导出最新抽签结果为 Excel
	ExportDrawResult(ctx context.Context, drawingID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 未满足原因的导出文案
var unmetReasonText = map[string]string{
	"no_capacity":        "公寓已分完",
	"user_limit_reached": "已达个人分配上限",
	"invalid_wish":       "愿望数据无效",
	"duplicate_wish":     "同期间重复愿望",
}

func (s *exportService) ExportDrawResult(ctx context.Context, drawingID string) (*bytes.Buffer, string, error) {
	// 1. 查询抽签与最新结果
	drawing, err := s.repo.Drawing.GetByID(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrDrawingNotFound
		}
		s.logger.Error("查询抽签失败", zap.Error(err))
		return nil, "", err
	}

	record, err := s.repo.Allocation.GetLatestRecord(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportNoResult
		}
		s.logger.Error("查询抽签记录失败", zap.Error(err))
		return nil, "", err
	}

	allocations, err := s.repo.Allocation.ListAllocations(ctx, record.DrawRecordID)
	if err != nil {
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, "", err
	}
	unmet, err := s.repo.Allocation.ListUnmet(ctx, record.DrawRecordID)
	if err != nil {
		s.logger.Error("查询未满足愿望失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	allocSheet := "分配结果"
	idx, _ := f.NewSheet(allocSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(allocSheet, "A", "A", 16)
	f.SetColWidth(allocSheet, "B", "B", 28)
	f.SetColWidth(allocSheet, "C", "D", 14)
	f.SetColWidth(allocSheet, "E", "E", 22)
	f.SetColWidth(allocSheet, "F", "F", 10)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行（含种子，便于离线复核）
	f.SetCellValue(allocSheet, "A1", fmt.Sprintf("%s — 抽签结果（种子 %d）", drawing.Season, record.Seed))
	f.MergeCell(allocSheet, "A1", "F1")
	f.SetCellStyle(allocSheet, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"姓名", "邮箱", "开始日期", "结束日期", "公寓", "志愿序"}
	for i, h := range headers {
		f.SetCellValue(allocSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(allocSheet, "A2", "F2", headerStyle)

	// 数据行
	row := 3
	for _, a := range allocations {
		if a.User != nil {
			f.SetCellValue(allocSheet, cell("A", row), a.User.Name)
			f.SetCellValue(allocSheet, cell("B", row), a.User.Email)
		}
		if a.Period != nil {
			f.SetCellValue(allocSheet, cell("C", row), a.Period.StartDate.Format("2006-01-02"))
			f.SetCellValue(allocSheet, cell("D", row), a.Period.EndDate.Format("2006-01-02"))
		}
		if a.Apartment != nil {
			f.SetCellValue(allocSheet, cell("E", row), a.Apartment.Name)
		}
		f.SetCellValue(allocSheet, cell("F", row), a.ApartmentRank+1)
		row++
	}

	// 未满足愿望 Sheet
	unmetSheet := "未满足愿望"
	f.NewSheet(unmetSheet)
	f.SetColWidth(unmetSheet, "A", "A", 40)
	f.SetColWidth(unmetSheet, "B", "B", 24)
	f.SetCellValue(unmetSheet, "A1", "愿望ID")
	f.SetCellValue(unmetSheet, "B1", "原因")
	f.SetCellStyle(unmetSheet, "A1", "B1", headerStyle)
	row = 2
	for _, u := range unmet {
		f.SetCellValue(unmetSheet, cell("A", row), u.WishID)
		text := unmetReasonText[u.Reason]
		if text == "" {
			text = u.Reason
		}
		f.SetCellValue(unmetSheet, cell("B", row), text)
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("抽签结果_%s.xlsx", drawing.Season)
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
