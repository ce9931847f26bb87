package repository

import (
	"context"

	"gorm.io/gorm"

	"cabin-lottery/backend/internal/model"
)

// AllocationRepository 抽签结果数据访问接口
// 一次抽签的结果（记录 + 分配 + 未满足愿望）作为整体写入与删除。
type AllocationRepository interface {
	ReplaceDrawResult(ctx context.Context, record *model.DrawRecord, allocations []model.Allocation, unmet []model.UnmetWish) error
	GetLatestRecord(ctx context.Context, drawingID string) (*model.DrawRecord, error)
	ListRecords(ctx context.Context, drawingID string) ([]model.DrawRecord, error)
	ListAllocations(ctx context.Context, drawRecordID string) ([]model.Allocation, error)
	ListUnmet(ctx context.Context, drawRecordID string) ([]model.UnmetWish, error)
	ListAllocationsByUser(ctx context.Context, drawRecordID, userID string) ([]model.Allocation, error)
	CountByApartment(ctx context.Context, apartmentID string) (int64, error)
	DeleteByDrawing(ctx context.Context, drawingID string) error
}

type allocationRepo struct {
	db *gorm.DB
}

// NewAllocationRepo 创建 AllocationRepository 实例
func NewAllocationRepo(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

// ReplaceDrawResult 原子替换抽签结果
// 先清掉该抽签此前的全部结果再写入新结果，重抽不做增量修补。
func (r *allocationRepo) ReplaceDrawResult(ctx context.Context, record *model.DrawRecord, allocations []model.Allocation, unmet []model.UnmetWish) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDrawResults(tx, record.DrawingID); err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		for i := range allocations {
			allocations[i].DrawRecordID = record.DrawRecordID
			if err := tx.Create(&allocations[i]).Error; err != nil {
				return err
			}
		}
		for i := range unmet {
			unmet[i].DrawRecordID = record.DrawRecordID
			if err := tx.Create(&unmet[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteDrawResults(tx *gorm.DB, drawingID string) error {
	if err := tx.Where("drawing_id = ?", drawingID).
		Delete(&model.Allocation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("drawing_id = ?", drawingID).
		Delete(&model.UnmetWish{}).Error; err != nil {
		return err
	}
	return tx.Where("drawing_id = ?", drawingID).
		Delete(&model.DrawRecord{}).Error
}

func (r *allocationRepo) GetLatestRecord(ctx context.Context, drawingID string) (*model.DrawRecord, error) {
	var record model.DrawRecord
	err := r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *allocationRepo) ListRecords(ctx context.Context, drawingID string) ([]model.DrawRecord, error) {
	var records []model.DrawRecord
	err := r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *allocationRepo) ListAllocations(ctx context.Context, drawRecordID string) ([]model.Allocation, error) {
	var allocations []model.Allocation
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Period").
		Preload("Apartment").
		Where("draw_record_id = ?", drawRecordID).
		Order("created_at ASC").
		Find(&allocations).Error
	return allocations, err
}

func (r *allocationRepo) ListUnmet(ctx context.Context, drawRecordID string) ([]model.UnmetWish, error) {
	var unmet []model.UnmetWish
	err := r.db.WithContext(ctx).
		Preload("Wish").
		Where("draw_record_id = ?", drawRecordID).
		Find(&unmet).Error
	return unmet, err
}

func (r *allocationRepo) ListAllocationsByUser(ctx context.Context, drawRecordID, userID string) ([]model.Allocation, error) {
	var allocations []model.Allocation
	err := r.db.WithContext(ctx).
		Preload("Period").
		Preload("Apartment").
		Where("draw_record_id = ? AND user_id = ?", drawRecordID, userID).
		Find(&allocations).Error
	return allocations, err
}

// CountByApartment 统计某公寓出现在历史分配中的次数
func (r *allocationRepo) CountByApartment(ctx context.Context, apartmentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("apartment_id = ?", apartmentID).
		Count(&count).Error
	return count, err
}

// DeleteByDrawing 删除该抽签的全部结果（回退到 draft 时调用）
func (r *allocationRepo) DeleteByDrawing(ctx context.Context, drawingID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteDrawResults(tx, drawingID)
	})
}
