package repository

import (
	"context"

	"gorm.io/gorm"

	"cabin-lottery/backend/internal/model"
	pkgerrors "cabin-lottery/backend/pkg/errors"
)

// DrawingRepository 抽签数据访问接口
type DrawingRepository interface {
	Create(ctx context.Context, drawing *model.Drawing) error
	GetByID(ctx context.Context, id string) (*model.Drawing, error)
	List(ctx context.Context, offset, limit int, status string) ([]model.Drawing, int64, error)
	Update(ctx context.Context, drawing *model.Drawing) error
	Delete(ctx context.Context, id string) error
	CreateChangeLog(ctx context.Context, log *model.DrawingChangeLog) error
	ListChangeLogs(ctx context.Context, drawingID string) ([]model.DrawingChangeLog, error)
}

type drawingRepo struct {
	db *gorm.DB
}

// NewDrawingRepo 创建 DrawingRepository 实例
func NewDrawingRepo(db *gorm.DB) DrawingRepository {
	return &drawingRepo{db: db}
}

func (r *drawingRepo) Create(ctx context.Context, drawing *model.Drawing) error {
	return r.db.WithContext(ctx).Create(drawing).Error
}

func (r *drawingRepo) GetByID(ctx context.Context, id string) (*model.Drawing, error) {
	var drawing model.Drawing
	err := r.db.WithContext(ctx).
		Preload("Periods", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("drawing_id = ?", id).
		First(&drawing).Error
	if err != nil {
		return nil, err
	}
	return &drawing, nil
}

func (r *drawingRepo) List(ctx context.Context, offset, limit int, status string) ([]model.Drawing, int64, error) {
	var drawings []model.Drawing
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Drawing{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&drawings).Error; err != nil {
		return nil, 0, err
	}

	return drawings, total, nil
}

// Update 带乐观锁的整体更新
// 状态机流转全部经由此方法，version 冲突意味着并发操作同一抽签。
func (r *drawingRepo) Update(ctx context.Context, drawing *model.Drawing) error {
	oldVersion := drawing.Version
	result := r.db.WithContext(ctx).
		Model(drawing).
		Where("drawing_id = ? AND version = ?", drawing.DrawingID, oldVersion).
		Updates(map[string]interface{}{
			"season":     drawing.Season,
			"status":     drawing.Status,
			"updated_by": drawing.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	drawing.Version = oldVersion + 1
	return nil
}

func (r *drawingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("drawing_id = ?", id).
		Delete(&model.Drawing{}).Error
}

func (r *drawingRepo) CreateChangeLog(ctx context.Context, log *model.DrawingChangeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *drawingRepo) ListChangeLogs(ctx context.Context, drawingID string) ([]model.DrawingChangeLog, error) {
	var logs []model.DrawingChangeLog
	err := r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
