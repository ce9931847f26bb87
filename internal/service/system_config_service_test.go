package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
)

func TestSystemConfigService_GetDefaults(t *testing.T) {
	svc := NewSystemConfigService(newMockRepository(), zap.NewNop())

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if cfg.MaxAllocationsPerUser != 2 {
		t.Errorf("默认每人限额应为2，实际=%d", cfg.MaxAllocationsPerUser)
	}
	if cfg.DuplicateWishPolicy != model.DuplicatePolicyLowestOnly {
		t.Errorf("默认重复愿望策略错误: %s", cfg.DuplicateWishPolicy)
	}
	if cfg.StrictValidation {
		t.Error("严格校验默认应关闭")
	}
}

func TestSystemConfigService_Update_PartialFields(t *testing.T) {
	svc := NewSystemConfigService(newMockRepository(), zap.NewNop())
	ctx := context.Background()

	limit := 3
	updated, err := svc.Update(ctx, &dto.UpdateSystemConfigRequest{MaxAllocationsPerUser: &limit}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.MaxAllocationsPerUser != 3 {
		t.Errorf("限额未更新: %d", updated.MaxAllocationsPerUser)
	}
	// 未提供的字段保持原值
	if updated.DuplicateWishPolicy != model.DuplicatePolicyLowestOnly {
		t.Errorf("未提供的字段不应被改动: %s", updated.DuplicateWishPolicy)
	}

	policy := model.DuplicatePolicyAllEligible
	strict := true
	updated, err = svc.Update(ctx, &dto.UpdateSystemConfigRequest{
		DuplicateWishPolicy: &policy,
		StrictValidation:    &strict,
	}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if updated.DuplicateWishPolicy != model.DuplicatePolicyAllEligible || !updated.StrictValidation {
		t.Errorf("策略未更新: %+v", updated)
	}
	if updated.MaxAllocationsPerUser != 3 {
		t.Errorf("此前更新的限额应保留: %d", updated.MaxAllocationsPerUser)
	}
}
