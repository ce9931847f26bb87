package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

// ── 系统配置模块业务错误 ──

var ErrSystemConfigNotFound = errors.New("抽签策略配置未初始化")

// SystemConfigService 抽签策略配置业务接口
type SystemConfigService interface {
	Get(ctx context.Context) (*dto.SystemConfigResponse, error)
	Update(ctx context.Context, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error)
}

type systemConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSystemConfigService 创建 SystemConfigService 实例
func NewSystemConfigService(repo *repository.Repository, logger *zap.Logger) SystemConfigService {
	return &systemConfigService{repo: repo, logger: logger}
}

func (s *systemConfigService) Get(ctx context.Context) (*dto.SystemConfigResponse, error) {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemConfigNotFound
		}
		s.logger.Error("查询抽签策略配置失败", zap.Error(err))
		return nil, err
	}
	return systemConfigToResponse(cfg), nil
}

func (s *systemConfigService) Update(ctx context.Context, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error) {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSystemConfigNotFound
		}
		s.logger.Error("查询抽签策略配置失败", zap.Error(err))
		return nil, err
	}

	if req.MaxAllocationsPerUser != nil {
		cfg.MaxAllocationsPerUser = *req.MaxAllocationsPerUser
	}
	if req.DuplicateWishPolicy != nil {
		cfg.DuplicateWishPolicy = *req.DuplicateWishPolicy
	}
	if req.StrictValidation != nil {
		cfg.StrictValidation = *req.StrictValidation
	}
	cfg.UpdatedBy = &callerID

	if err := s.repo.SystemConfig.Update(ctx, cfg); err != nil {
		s.logger.Error("更新抽签策略配置失败", zap.Error(err))
		return nil, err
	}
	return systemConfigToResponse(cfg), nil
}

func systemConfigToResponse(cfg *model.SystemConfig) *dto.SystemConfigResponse {
	return &dto.SystemConfigResponse{
		MaxAllocationsPerUser: cfg.MaxAllocationsPerUser,
		DuplicateWishPolicy:   cfg.DuplicateWishPolicy,
		StrictValidation:      cfg.StrictValidation,
		UpdatedAt:             cfg.UpdatedAt.Format(time.RFC3339),
	}
}
