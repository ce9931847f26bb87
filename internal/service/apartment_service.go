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

// ── 公寓模块业务错误 ──

var (
	ErrApartmentNotFound = errors.New("公寓不存在")
	ErrApartmentInUse    = errors.New("公寓已出现在抽签结果中，不能删除")
)

// ApartmentService 公寓业务接口
type ApartmentService interface {
	Create(ctx context.Context, req *dto.CreateApartmentRequest, callerID string) (*dto.ApartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ApartmentResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.ApartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateApartmentRequest, callerID string) (*dto.ApartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type apartmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewApartmentService 创建 ApartmentService 实例
func NewApartmentService(repo *repository.Repository, logger *zap.Logger) ApartmentService {
	return &apartmentService{repo: repo, logger: logger}
}

func (s *apartmentService) Create(ctx context.Context, req *dto.CreateApartmentRequest, callerID string) (*dto.ApartmentResponse, error) {
	apartment := &model.Apartment{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		IsActive:    true,
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedBy: &callerID},
		},
	}
	if err := s.repo.Apartment.Create(ctx, apartment); err != nil {
		s.logger.Error("创建公寓失败", zap.Error(err))
		return nil, err
	}
	resp := apartmentToResponse(apartment)
	return &resp, nil
}

func (s *apartmentService) GetByID(ctx context.Context, id string) (*dto.ApartmentResponse, error) {
	apartment, err := s.repo.Apartment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		s.logger.Error("查询公寓失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := apartmentToResponse(apartment)
	return &resp, nil
}

func (s *apartmentService) List(ctx context.Context, activeOnly bool) ([]dto.ApartmentResponse, error) {
	apartments, err := s.repo.Apartment.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("列出公寓失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ApartmentResponse, 0, len(apartments))
	for i := range apartments {
		result = append(result, apartmentToResponse(&apartments[i]))
	}
	return result, nil
}

func (s *apartmentService) Update(ctx context.Context, id string, req *dto.UpdateApartmentRequest, callerID string) (*dto.ApartmentResponse, error) {
	apartment, err := s.repo.Apartment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		s.logger.Error("查询公寓失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		apartment.Name = *req.Name
	}
	if req.Location != nil {
		apartment.Location = *req.Location
	}
	if req.Description != nil {
		apartment.Description = *req.Description
	}
	if req.IsActive != nil {
		apartment.IsActive = *req.IsActive
	}
	apartment.UpdatedBy = &callerID

	if err := s.repo.Apartment.Update(ctx, apartment); err != nil {
		s.logger.Error("更新公寓失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := apartmentToResponse(apartment)
	return &resp, nil
}

func (s *apartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Apartment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApartmentNotFound
		}
		s.logger.Error("查询公寓失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 历史分配结果引用的公寓不可删除，只能停用
	count, err := s.repo.Allocation.CountByApartment(ctx, id)
	if err != nil {
		s.logger.Error("统计公寓分配记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrApartmentInUse
	}
	return s.repo.Apartment.Delete(ctx, id)
}

// apartmentToResponse 模型转响应
func apartmentToResponse(a *model.Apartment) dto.ApartmentResponse {
	return dto.ApartmentResponse{
		ID:          a.ApartmentID,
		Name:        a.Name,
		Location:    a.Location,
		Description: a.Description,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}
