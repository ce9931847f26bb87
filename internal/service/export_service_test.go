package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

func setupTestExportService() (ExportService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())
	return svc, repo
}

func TestExportService_NoResult(t *testing.T) {
	svc, repo := setupTestExportService()
	ctx := context.Background()

	drawing := &model.Drawing{Season: "2026夏季", Status: model.DrawingStatusLocked}
	if err := repo.Drawing.Create(ctx, drawing); err != nil {
		t.Fatalf("准备抽签失败: %v", err)
	}

	_, _, err := svc.ExportDrawResult(ctx, drawing.DrawingID)
	if !errors.Is(err, ErrExportNoResult) {
		t.Errorf("期望 ErrExportNoResult，实际: %v", err)
	}
}

func TestExportService_DrawingNotFound(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportDrawResult(context.Background(), "不存在")
	if !errors.Is(err, ErrDrawingNotFound) {
		t.Errorf("期望 ErrDrawingNotFound，实际: %v", err)
	}
}

func TestExportService_ExportDrawResult(t *testing.T) {
	svc, repo := setupTestExportService()
	ctx := context.Background()

	drawing := &model.Drawing{Season: "2026夏季", Status: model.DrawingStatusDrawn}
	if err := repo.Drawing.Create(ctx, drawing); err != nil {
		t.Fatalf("准备抽签失败: %v", err)
	}

	start := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	record := &model.DrawRecord{DrawingID: drawing.DrawingID, Seed: 42, PeriodCount: 1, WishCount: 2, AllocatedCount: 1, UnmetCount: 1}
	allocations := []model.Allocation{{
		DrawingID:     drawing.DrawingID,
		UserID:        "user-1",
		PeriodID:      "period-1",
		ApartmentID:   "apt-1",
		WishID:        "wish-1",
		ApartmentRank: 1,
		User:          &model.User{Name: "Ola Nordmann", Email: "ola@example.com"},
		Period:        &model.Period{StartDate: start, EndDate: start.AddDate(0, 0, 7)},
		Apartment:     &model.Apartment{Name: "山顶小屋"},
	}}
	unmet := []model.UnmetWish{{DrawingID: drawing.DrawingID, WishID: "wish-2", Reason: "no_capacity"}}
	if err := repo.Allocation.ReplaceDrawResult(ctx, record, allocations, unmet); err != nil {
		t.Fatalf("准备抽签结果失败: %v", err)
	}

	buf, filename, err := svc.ExportDrawResult(ctx, drawing.DrawingID)
	if err != nil {
		t.Fatalf("导出应成功: %v", err)
	}
	if filename != "抽签结果_2026夏季.xlsx" {
		t.Errorf("文件名错误: %s", filename)
	}

	// 重新打开生成的文件校验内容
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()

	title, err := f.GetCellValue("分配结果", "A1")
	if err != nil {
		t.Fatalf("读取标题失败: %v", err)
	}
	if !strings.Contains(title, "2026夏季") || !strings.Contains(title, "42") {
		t.Errorf("标题应包含季度与种子: %s", title)
	}

	name, _ := f.GetCellValue("分配结果", "A3")
	if name != "Ola Nordmann" {
		t.Errorf("数据行姓名错误: %s", name)
	}
	rank, _ := f.GetCellValue("分配结果", "F3")
	if rank != "2" {
		t.Errorf("志愿序应为1基显示，期望2，实际=%s", rank)
	}
	startDate, _ := f.GetCellValue("分配结果", "C3")
	if startDate != "2026-07-04" {
		t.Errorf("开始日期错误: %s", startDate)
	}

	reason, _ := f.GetCellValue("未满足愿望", "B2")
	if reason != "公寓已分完" {
		t.Errorf("未满足原因应译为中文文案: %s", reason)
	}
}
