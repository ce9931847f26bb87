package repository

import (
	"context"

	"gorm.io/gorm"

	"cabin-lottery/backend/internal/model"
	pkgerrors "cabin-lottery/backend/pkg/errors"
)

// WishRepository 愿望数据访问接口
type WishRepository interface {
	Create(ctx context.Context, wish *model.Wish) error
	GetByID(ctx context.Context, id string) (*model.Wish, error)
	ListByDrawing(ctx context.Context, drawingID string) ([]model.Wish, error)
	ListByUserAndDrawing(ctx context.Context, userID, drawingID string) ([]model.Wish, error)
	ListByUserAndPeriod(ctx context.Context, userID, periodID string) ([]model.Wish, error)
	Update(ctx context.Context, wish *model.Wish) error
	Delete(ctx context.Context, id string) error
	CountByDrawing(ctx context.Context, drawingID string) (int64, error)
}

type wishRepo struct {
	db *gorm.DB
}

// NewWishRepo 创建 WishRepository 实例
func NewWishRepo(db *gorm.DB) WishRepository {
	return &wishRepo{db: db}
}

func (r *wishRepo) Create(ctx context.Context, wish *model.Wish) error {
	return r.db.WithContext(ctx).Create(wish).Error
}

func (r *wishRepo) GetByID(ctx context.Context, id string) (*model.Wish, error) {
	var wish model.Wish
	err := r.db.WithContext(ctx).
		Where("wish_id = ?", id).
		First(&wish).Error
	if err != nil {
		return nil, err
	}
	return &wish, nil
}

func (r *wishRepo) ListByDrawing(ctx context.Context, drawingID string) ([]model.Wish, error) {
	var wishes []model.Wish
	err := r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Order("created_at ASC").
		Find(&wishes).Error
	return wishes, err
}

func (r *wishRepo) ListByUserAndDrawing(ctx context.Context, userID, drawingID string) ([]model.Wish, error) {
	var wishes []model.Wish
	err := r.db.WithContext(ctx).
		Preload("Period").
		Where("user_id = ? AND drawing_id = ?", userID, drawingID).
		Order("priority ASC").
		Find(&wishes).Error
	return wishes, err
}

func (r *wishRepo) ListByUserAndPeriod(ctx context.Context, userID, periodID string) ([]model.Wish, error) {
	var wishes []model.Wish
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND period_id = ?", userID, periodID).
		Order("priority ASC").
		Find(&wishes).Error
	return wishes, err
}

// Update 带乐观锁的整体更新
func (r *wishRepo) Update(ctx context.Context, wish *model.Wish) error {
	oldVersion := wish.Version
	result := r.db.WithContext(ctx).
		Model(wish).
		Where("wish_id = ? AND version = ?", wish.WishID, oldVersion).
		Updates(map[string]interface{}{
			"period_id":     wish.PeriodID,
			"priority":      wish.Priority,
			"apartment_ids": wish.ApartmentIDs,
			"comment":       wish.Comment,
			"updated_by":    wish.UpdatedBy,
			"version":       oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	wish.Version = oldVersion + 1
	return nil
}

func (r *wishRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("wish_id = ?", id).
		Delete(&model.Wish{}).Error
}

func (r *wishRepo) CountByDrawing(ctx context.Context, drawingID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Wish{}).
		Where("drawing_id = ?", drawingID).
		Count(&count).Error
	return count, err
}
