package repository

import (
	"context"

	"gorm.io/gorm"

	"cabin-lottery/backend/internal/model"
	pkgerrors "cabin-lottery/backend/pkg/errors"
)

// PeriodRepository 期间数据访问接口
type PeriodRepository interface {
	Create(ctx context.Context, period *model.Period) error
	BatchCreate(ctx context.Context, periods []model.Period) error
	GetByID(ctx context.Context, id string) (*model.Period, error)
	ListByDrawing(ctx context.Context, drawingID string) ([]model.Period, error)
	Update(ctx context.Context, period *model.Period) error
	Delete(ctx context.Context, id string) error
	CountByDrawing(ctx context.Context, drawingID string) (int64, error)
}

type periodRepo struct {
	db *gorm.DB
}

// NewPeriodRepo 创建 PeriodRepository 实例
func NewPeriodRepo(db *gorm.DB) PeriodRepository {
	return &periodRepo{db: db}
}

func (r *periodRepo) Create(ctx context.Context, period *model.Period) error {
	return r.db.WithContext(ctx).Create(period).Error
}

// BatchCreate 批量创建期间（按周生成用），单事务
func (r *periodRepo) BatchCreate(ctx context.Context, periods []model.Period) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range periods {
			if err := tx.Create(&periods[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *periodRepo) GetByID(ctx context.Context, id string) (*model.Period, error) {
	var period model.Period
	err := r.db.WithContext(ctx).
		Where("period_id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepo) ListByDrawing(ctx context.Context, drawingID string) ([]model.Period, error) {
	var periods []model.Period
	err := r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Order("sort_order ASC").
		Find(&periods).Error
	return periods, err
}

// Update 带乐观锁的整体更新
func (r *periodRepo) Update(ctx context.Context, period *model.Period) error {
	oldVersion := period.Version
	result := r.db.WithContext(ctx).
		Model(period).
		Where("period_id = ? AND version = ?", period.PeriodID, oldVersion).
		Updates(map[string]interface{}{
			"start_date":  period.StartDate,
			"end_date":    period.EndDate,
			"description": period.Description,
			"sort_order":  period.SortOrder,
			"comment":     period.Comment,
			"updated_by":  period.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	period.Version = oldVersion + 1
	return nil
}

func (r *periodRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("period_id = ?", id).
		Delete(&model.Period{}).Error
}

func (r *periodRepo) CountByDrawing(ctx context.Context, drawingID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Period{}).
		Where("drawing_id = ?", drawingID).
		Count(&count).Error
	return count, err
}
