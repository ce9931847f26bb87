package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestDrawService() (DrawService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewDrawService(repo, zap.NewNop())
	return svc, repo
}

// seedDrawScenario 准备一个 locked 抽签：2个期间、2套公寓、3条愿望
func seedDrawScenario(t *testing.T, repo *repository.Repository) *model.Drawing {
	t.Helper()
	ctx := context.Background()

	drawing := &model.Drawing{Season: "2026夏季", Status: model.DrawingStatusLocked}
	if err := repo.Drawing.Create(ctx, drawing); err != nil {
		t.Fatalf("准备抽签失败: %v", err)
	}

	for i := 1; i <= 2; i++ {
		start := time.Date(2026, 7, i*7, 0, 0, 0, 0, time.UTC)
		period := &model.Period{
			DrawingID: drawing.DrawingID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 7),
			SortOrder: i,
		}
		if err := repo.Period.Create(ctx, period); err != nil {
			t.Fatalf("准备期间失败: %v", err)
		}
	}
	for i := 1; i <= 2; i++ {
		apartment := &model.Apartment{Name: "公寓", IsActive: true}
		if err := repo.Apartment.Create(ctx, apartment); err != nil {
			t.Fatalf("准备公寓失败: %v", err)
		}
	}

	wishes := []*model.Wish{
		{DrawingID: drawing.DrawingID, UserID: "user-1", PeriodID: "period-1", Priority: 1, ApartmentIDs: model.UUIDArray{"apt-1", "apt-2"}},
		{DrawingID: drawing.DrawingID, UserID: "user-2", PeriodID: "period-1", Priority: 1, ApartmentIDs: model.UUIDArray{"apt-1"}},
		{DrawingID: drawing.DrawingID, UserID: "user-1", PeriodID: "period-2", Priority: 1, ApartmentIDs: model.UUIDArray{"apt-1"}},
	}
	for _, w := range wishes {
		if err := repo.Wish.Create(ctx, w); err != nil {
			t.Fatalf("准备愿望失败: %v", err)
		}
	}
	return drawing
}

func int64Ptr(v int64) *int64 { return &v }

// ── RunDraw 测试 ──

func TestDrawService_RunDraw_Success(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	result, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(42)}, "admin-001")
	if err != nil {
		t.Fatalf("RunDraw 应成功: %v", err)
	}
	if result.Seed != 42 {
		t.Errorf("期望种子=42，实际=%d", result.Seed)
	}
	if result.PeriodCount != 2 || result.WishCount != 3 {
		t.Errorf("汇总计数错误: %+v", result)
	}
	if result.AllocatedCount+result.UnmetCount != 3 {
		t.Errorf("每条愿望应恰好出现一次: allocated=%d unmet=%d", result.AllocatedCount, result.UnmetCount)
	}

	// 抽签后状态应流转为 drawn
	got, _ := repo.Drawing.GetByID(ctx, drawing.DrawingID)
	if got.Status != model.DrawingStatusDrawn {
		t.Errorf("期望状态 drawn，实际=%s", got.Status)
	}
}

func TestDrawService_RunDraw_Deterministic(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	first, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(42)}, "admin-001")
	if err != nil {
		t.Fatalf("第一次 RunDraw 应成功: %v", err)
	}
	// 重抽（相同种子）
	second, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(42)}, "admin-001")
	if err != nil {
		t.Fatalf("重抽应成功: %v", err)
	}

	if len(first.Allocations) != len(second.Allocations) {
		t.Fatalf("相同种子分配数应一致: %d != %d", len(first.Allocations), len(second.Allocations))
	}
	for i := range first.Allocations {
		a, b := first.Allocations[i], second.Allocations[i]
		if a.UserID != b.UserID || a.PeriodID != b.PeriodID || a.ApartmentID != b.ApartmentID {
			t.Errorf("相同种子第 %d 条分配不一致: %+v != %+v", i, a, b)
		}
	}
}

func TestDrawService_RunDraw_RedrawReplaces(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	if _, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(1)}, "admin-001"); err != nil {
		t.Fatalf("第一次 RunDraw 应成功: %v", err)
	}
	result, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(2)}, "admin-001")
	if err != nil {
		t.Fatalf("重抽应成功: %v", err)
	}
	if result.Seed != 2 {
		t.Errorf("重抽后应保留最新种子 2，实际=%d", result.Seed)
	}

	record, err := repo.Allocation.GetLatestRecord(ctx, drawing.DrawingID)
	if err != nil {
		t.Fatalf("查询抽签记录失败: %v", err)
	}
	if record.Seed != 2 {
		t.Errorf("持久化记录应整体替换为新种子: %d", record.Seed)
	}
}

func TestDrawService_RunDraw_FreshSeedWhenOmitted(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)

	result, err := svc.RunDraw(context.Background(), drawing.DrawingID, &dto.RunDrawRequest{}, "admin-001")
	if err != nil {
		t.Fatalf("RunDraw 应成功: %v", err)
	}
	if result.Seed < 0 {
		t.Errorf("自动生成的种子不应为负: %d", result.Seed)
	}
}

func TestDrawService_RunDraw_WrongStatus(t *testing.T) {
	svc, repo := setupTestDrawService()
	ctx := context.Background()

	drawing := &model.Drawing{Season: "2026夏季", Status: model.DrawingStatusOpen}
	if err := repo.Drawing.Create(ctx, drawing); err != nil {
		t.Fatalf("准备抽签失败: %v", err)
	}

	_, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{}, "admin-001")
	if !errors.Is(err, ErrDrawingNotDrawable) {
		t.Errorf("期望 ErrDrawingNotDrawable，实际: %v", err)
	}
}

func TestDrawService_RunDraw_EmptyInput(t *testing.T) {
	svc, repo := setupTestDrawService()
	ctx := context.Background()

	// 没有期间和公寓
	drawing := &model.Drawing{Season: "空抽签", Status: model.DrawingStatusLocked}
	if err := repo.Drawing.Create(ctx, drawing); err != nil {
		t.Fatalf("准备抽签失败: %v", err)
	}

	_, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{}, "admin-001")
	if !errors.Is(err, ErrDrawInputEmpty) {
		t.Errorf("期望 ErrDrawInputEmpty，实际: %v", err)
	}
}

func TestDrawService_RunDraw_StrictValidationBlocks(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	// 插入一条引用不存在期间的愿望，并开启严格校验
	bad := &model.Wish{DrawingID: drawing.DrawingID, UserID: "user-3", PeriodID: "ghost", Priority: 1, ApartmentIDs: model.UUIDArray{"apt-1"}}
	if err := repo.Wish.Create(ctx, bad); err != nil {
		t.Fatalf("准备愿望失败: %v", err)
	}
	cfg, _ := repo.SystemConfig.Get(ctx)
	cfg.StrictValidation = true
	if err := repo.SystemConfig.Update(ctx, cfg); err != nil {
		t.Fatalf("更新配置失败: %v", err)
	}

	_, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{}, "admin-001")
	if !errors.Is(err, ErrDrawBlocked) {
		t.Errorf("期望 ErrDrawBlocked，实际: %v", err)
	}
}

func TestDrawService_RunDraw_NegativeSeed(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)

	_, err := svc.RunDraw(context.Background(), drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(-5)}, "admin-001")
	if !errors.Is(err, ErrDrawSeedInvalid) {
		t.Errorf("期望 ErrDrawSeedInvalid，实际: %v", err)
	}
}

// ── Validate 测试 ──

func TestDrawService_Validate_ReportsIssues(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	bad := &model.Wish{DrawingID: drawing.DrawingID, UserID: "user-9", PeriodID: "ghost", Priority: 1, ApartmentIDs: model.UUIDArray{"apt-1"}}
	if err := repo.Wish.Create(ctx, bad); err != nil {
		t.Fatalf("准备愿望失败: %v", err)
	}

	issues, err := svc.Validate(ctx, drawing.DrawingID)
	if err != nil {
		t.Fatalf("Validate 应成功: %v", err)
	}
	found := false
	for _, is := range issues {
		if is.WishID == bad.WishID && is.Code == "unknown_period" {
			found = true
		}
	}
	if !found {
		t.Errorf("应上报 unknown_period 问题: %+v", issues)
	}
}

// ── GetResult / VerifyDraw 测试 ──

func TestDrawService_GetResult_NoResult(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)

	_, err := svc.GetResult(context.Background(), drawing.DrawingID)
	if !errors.Is(err, ErrDrawingNoResult) {
		t.Errorf("期望 ErrDrawingNoResult，实际: %v", err)
	}
}

func TestDrawService_VerifyDraw_Match(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	if _, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(42)}, "admin-001"); err != nil {
		t.Fatalf("RunDraw 应成功: %v", err)
	}

	verify, err := svc.VerifyDraw(ctx, drawing.DrawingID, &dto.VerifyDrawRequest{})
	if err != nil {
		t.Fatalf("VerifyDraw 应成功: %v", err)
	}
	if !verify.Match {
		t.Error("持久化种子回放应与存储结果一致")
	}
	if verify.Seed != 42 {
		t.Errorf("期望回放种子=42，实际=%d", verify.Seed)
	}
}

func TestDrawService_VerifyDraw_MismatchOnDifferentSeed(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	if _, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(42)}, "admin-001"); err != nil {
		t.Fatalf("RunDraw 应成功: %v", err)
	}

	// 用不同种子回放，种子本身已不一致
	verify, err := svc.VerifyDraw(ctx, drawing.DrawingID, &dto.VerifyDrawRequest{Seed: int64Ptr(43)})
	if err != nil {
		t.Fatalf("VerifyDraw 应成功: %v", err)
	}
	if verify.Match {
		t.Error("不同种子的回放不应与存储结果一致")
	}
}

func TestDrawService_GetMyResult(t *testing.T) {
	svc, repo := setupTestDrawService()
	drawing := seedDrawScenario(t, repo)
	ctx := context.Background()

	if _, err := svc.RunDraw(ctx, drawing.DrawingID, &dto.RunDrawRequest{Seed: int64Ptr(42)}, "admin-001"); err != nil {
		t.Fatalf("RunDraw 应成功: %v", err)
	}

	// user-1 对两个期间都有愿望且无竞争失败的期间2，至少应有一条分配
	mine, err := svc.GetMyResult(ctx, drawing.DrawingID, "user-1")
	if err != nil {
		t.Fatalf("GetMyResult 应成功: %v", err)
	}
	for _, a := range mine {
		if a.UserID != "user-1" {
			t.Errorf("只应返回本人的分配: %+v", a)
		}
	}
}
