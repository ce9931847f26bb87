package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

func setupTestApartmentService() (ApartmentService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewApartmentService(repo, zap.NewNop())
	return svc, repo
}

func TestApartmentService_CreateAndGet(t *testing.T) {
	svc, _ := setupTestApartmentService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateApartmentRequest{
		Name:     "山顶小屋",
		Location: "Hemsedal",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建公寓应成功: %v", err)
	}
	if !created.IsActive {
		t.Error("新建公寓应默认启用")
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询公寓应成功: %v", err)
	}
	if got.Name != "山顶小屋" || got.Location != "Hemsedal" {
		t.Errorf("公寓信息错误: %+v", got)
	}
}

func TestApartmentService_List_ActiveOnly(t *testing.T) {
	svc, _ := setupTestApartmentService()
	ctx := context.Background()

	active, err := svc.Create(ctx, &dto.CreateApartmentRequest{Name: "启用的公寓"}, "admin-001")
	if err != nil {
		t.Fatalf("创建公寓应成功: %v", err)
	}
	retired, err := svc.Create(ctx, &dto.CreateApartmentRequest{Name: "待停用公寓"}, "admin-001")
	if err != nil {
		t.Fatalf("创建公寓应成功: %v", err)
	}
	inactive := false
	if _, err := svc.Update(ctx, retired.ID, &dto.UpdateApartmentRequest{IsActive: &inactive}, "admin-001"); err != nil {
		t.Fatalf("停用公寓应成功: %v", err)
	}

	all, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("全量列表应含2套公寓，实际=%d", len(all))
	}

	onlyActive, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("List(activeOnly) 应成功: %v", err)
	}
	if len(onlyActive) != 1 || onlyActive[0].ID != active.ID {
		t.Errorf("activeOnly 应只返回启用的公寓: %+v", onlyActive)
	}
}

func TestApartmentService_Update_PartialFields(t *testing.T) {
	svc, _ := setupTestApartmentService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateApartmentRequest{Name: "山顶小屋", Location: "Hemsedal"}, "admin-001")
	if err != nil {
		t.Fatalf("创建公寓应成功: %v", err)
	}

	desc := "带桑拿"
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateApartmentRequest{Description: &desc}, "admin-001")
	if err != nil {
		t.Fatalf("更新应成功: %v", err)
	}
	if updated.Description != desc {
		t.Errorf("描述未更新: %+v", updated)
	}
	if updated.Name != "山顶小屋" {
		t.Errorf("未提供的字段不应被改动: %+v", updated)
	}
}

func TestApartmentService_NotFound(t *testing.T) {
	svc, _ := setupTestApartmentService()
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "不存在"); !errors.Is(err, ErrApartmentNotFound) {
		t.Errorf("期望 ErrApartmentNotFound，实际: %v", err)
	}
	if err := svc.Delete(ctx, "不存在"); !errors.Is(err, ErrApartmentNotFound) {
		t.Errorf("期望 ErrApartmentNotFound，实际: %v", err)
	}
}

func TestApartmentService_Delete_BlockedWhenAllocated(t *testing.T) {
	svc, repo := setupTestApartmentService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateApartmentRequest{Name: "山顶小屋"}, "admin-001")
	if err != nil {
		t.Fatalf("创建公寓应成功: %v", err)
	}

	// 公寓出现在抽签结果中后不可删除
	record := &model.DrawRecord{DrawingID: "drawing-1", Seed: 7}
	allocations := []model.Allocation{{
		DrawingID:   "drawing-1",
		UserID:      "user-1",
		PeriodID:    "period-1",
		ApartmentID: created.ID,
	}}
	if err := repo.Allocation.ReplaceDrawResult(ctx, record, allocations, nil); err != nil {
		t.Fatalf("写入抽签结果应成功: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrApartmentInUse) {
		t.Errorf("期望 ErrApartmentInUse，实际: %v", err)
	}
}
