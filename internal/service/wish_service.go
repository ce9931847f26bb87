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

// ── 愿望模块业务错误 ──

var (
	ErrWishNotFound         = errors.New("愿望不存在")
	ErrDrawingNotOpen       = errors.New("抽签未在开放状态，不能提交或修改愿望")
	ErrPeriodNotInDrawing   = errors.New("期间不属于该抽签")
	ErrWishApartmentInvalid = errors.New("愿望包含不存在或未启用的公寓")
	ErrWishNotOwner         = errors.New("只能操作自己的愿望")
)

// duplicateWishWarning 同期间重复愿望的提示文案（仅提示，不拦截）
const duplicateWishWarning = "您已对该期间提交过愿望，抽签时将按策略处理重复愿望"

// WishService 愿望业务接口
type WishService interface {
	Create(ctx context.Context, drawingID, userID string, req *dto.CreateWishRequest) (*dto.WishResponse, error)
	Update(ctx context.Context, id, userID string, req *dto.UpdateWishRequest) (*dto.WishResponse, error)
	Delete(ctx context.Context, id, userID, userRole string) error
	ListMine(ctx context.Context, drawingID, userID string) ([]dto.WishResponse, error)
	ListByDrawing(ctx context.Context, drawingID string) ([]dto.WishResponse, error)
}

type wishService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWishService 创建 WishService 实例
func NewWishService(repo *repository.Repository, logger *zap.Logger) WishService {
	return &wishService{repo: repo, logger: logger}
}

func (s *wishService) Create(ctx context.Context, drawingID, userID string, req *dto.CreateWishRequest) (*dto.WishResponse, error) {
	drawing, err := s.requireOpenDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	period, err := s.repo.Period.GetByID(ctx, req.PeriodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, err
	}
	if period.DrawingID != drawing.DrawingID {
		return nil, ErrPeriodNotInDrawing
	}

	if err := s.validateApartments(ctx, req.ApartmentIDs); err != nil {
		return nil, err
	}

	wish := &model.Wish{
		DrawingID:    drawing.DrawingID,
		UserID:       userID,
		PeriodID:     req.PeriodID,
		Priority:     req.Priority,
		ApartmentIDs: model.UUIDArray(req.ApartmentIDs),
		Comment:      req.Comment,
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedBy: &userID},
		},
	}

	// 同期间重复愿望仅提示，是否排除由抽签策略决定
	var warnings []string
	existing, err := s.repo.Wish.ListByUserAndPeriod(ctx, userID, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		warnings = append(warnings, duplicateWishWarning)
	}

	if err := s.repo.Wish.Create(ctx, wish); err != nil {
		s.logger.Error("创建愿望失败", zap.Error(err))
		return nil, err
	}

	resp := wishToResponse(wish)
	resp.Warnings = warnings
	return &resp, nil
}

func (s *wishService) Update(ctx context.Context, id, userID string, req *dto.UpdateWishRequest) (*dto.WishResponse, error) {
	wish, err := s.getWish(ctx, id)
	if err != nil {
		return nil, err
	}
	if wish.UserID != userID {
		return nil, ErrWishNotOwner
	}
	drawing, err := s.requireOpenDrawing(ctx, wish.DrawingID)
	if err != nil {
		return nil, err
	}

	if req.PeriodID != nil {
		period, err := s.repo.Period.GetByID(ctx, *req.PeriodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPeriodNotFound
			}
			return nil, err
		}
		if period.DrawingID != drawing.DrawingID {
			return nil, ErrPeriodNotInDrawing
		}
		wish.PeriodID = *req.PeriodID
	}
	if req.Priority != nil {
		wish.Priority = *req.Priority
	}
	if len(req.ApartmentIDs) > 0 {
		if err := s.validateApartments(ctx, req.ApartmentIDs); err != nil {
			return nil, err
		}
		wish.ApartmentIDs = model.UUIDArray(req.ApartmentIDs)
	}
	if req.Comment != nil {
		wish.Comment = *req.Comment
	}
	wish.UpdatedBy = &userID

	if err := s.repo.Wish.Update(ctx, wish); err != nil {
		s.logger.Error("更新愿望失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := wishToResponse(wish)
	return &resp, nil
}

func (s *wishService) Delete(ctx context.Context, id, userID, userRole string) error {
	wish, err := s.getWish(ctx, id)
	if err != nil {
		return err
	}
	if wish.UserID != userID && userRole != "admin" {
		return ErrWishNotOwner
	}
	if _, err := s.requireOpenDrawing(ctx, wish.DrawingID); err != nil {
		return err
	}
	return s.repo.Wish.Delete(ctx, id)
}

func (s *wishService) ListMine(ctx context.Context, drawingID, userID string) ([]dto.WishResponse, error) {
	wishes, err := s.repo.Wish.ListByUserAndDrawing(ctx, userID, drawingID)
	if err != nil {
		s.logger.Error("列出愿望失败", zap.Error(err))
		return nil, err
	}
	return wishesToResponses(wishes), nil
}

func (s *wishService) ListByDrawing(ctx context.Context, drawingID string) ([]dto.WishResponse, error) {
	if _, err := s.repo.Drawing.GetByID(ctx, drawingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, err
	}
	wishes, err := s.repo.Wish.ListByDrawing(ctx, drawingID)
	if err != nil {
		s.logger.Error("列出愿望失败", zap.Error(err))
		return nil, err
	}
	return wishesToResponses(wishes), nil
}

// ── 内部辅助 ──

func (s *wishService) getWish(ctx context.Context, id string) (*model.Wish, error) {
	wish, err := s.repo.Wish.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWishNotFound
		}
		s.logger.Error("查询愿望失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return wish, nil
}

func (s *wishService) requireOpenDrawing(ctx context.Context, drawingID string) (*model.Drawing, error) {
	drawing, err := s.repo.Drawing.GetByID(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		s.logger.Error("查询抽签失败", zap.String("id", drawingID), zap.Error(err))
		return nil, err
	}
	if drawing.Status != model.DrawingStatusOpen {
		return nil, ErrDrawingNotOpen
	}
	return drawing, nil
}

// validateApartments 校验公寓全部存在且启用
func (s *wishService) validateApartments(ctx context.Context, ids []string) error {
	for _, id := range ids {
		apartment, err := s.repo.Apartment.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWishApartmentInvalid
			}
			return err
		}
		if !apartment.IsActive {
			return ErrWishApartmentInvalid
		}
	}
	return nil
}

// wishToResponse 模型转响应
func wishToResponse(w *model.Wish) dto.WishResponse {
	return dto.WishResponse{
		ID:           w.WishID,
		DrawingID:    w.DrawingID,
		UserID:       w.UserID,
		PeriodID:     w.PeriodID,
		Priority:     w.Priority,
		ApartmentIDs: []string(w.ApartmentIDs),
		Comment:      w.Comment,
		CreatedAt:    w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    w.UpdatedAt.Format(time.RFC3339),
	}
}

func wishesToResponses(wishes []model.Wish) []dto.WishResponse {
	result := make([]dto.WishResponse, 0, len(wishes))
	for i := range wishes {
		result = append(result, wishToResponse(&wishes[i]))
	}
	return result
}
