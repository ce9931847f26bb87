package repository

import (
	"context"

	"gorm.io/gorm"

	"cabin-lottery/backend/internal/model"
	pkgerrors "cabin-lottery/backend/pkg/errors"
)

// ApartmentRepository 公寓数据访问接口
type ApartmentRepository interface {
	Create(ctx context.Context, apartment *model.Apartment) error
	GetByID(ctx context.Context, id string) (*model.Apartment, error)
	List(ctx context.Context, activeOnly bool) ([]model.Apartment, error)
	Update(ctx context.Context, apartment *model.Apartment) error
	Delete(ctx context.Context, id string) error
}

type apartmentRepo struct {
	db *gorm.DB
}

// NewApartmentRepo 创建 ApartmentRepository 实例
func NewApartmentRepo(db *gorm.DB) ApartmentRepository {
	return &apartmentRepo{db: db}
}

func (r *apartmentRepo) Create(ctx context.Context, apartment *model.Apartment) error {
	return r.db.WithContext(ctx).Create(apartment).Error
}

func (r *apartmentRepo) GetByID(ctx context.Context, id string) (*model.Apartment, error) {
	var apartment model.Apartment
	err := r.db.WithContext(ctx).
		Where("apartment_id = ?", id).
		First(&apartment).Error
	if err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (r *apartmentRepo) List(ctx context.Context, activeOnly bool) ([]model.Apartment, error) {
	var apartments []model.Apartment
	db := r.db.WithContext(ctx)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("name ASC").Find(&apartments).Error
	return apartments, err
}

// Update 带乐观锁的整体更新
func (r *apartmentRepo) Update(ctx context.Context, apartment *model.Apartment) error {
	oldVersion := apartment.Version
	result := r.db.WithContext(ctx).
		Model(apartment).
		Where("apartment_id = ? AND version = ?", apartment.ApartmentID, oldVersion).
		Updates(map[string]interface{}{
			"name":        apartment.Name,
			"location":    apartment.Location,
			"description": apartment.Description,
			"is_active":   apartment.IsActive,
			"updated_by":  apartment.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	apartment.Version = oldVersion + 1
	return nil
}

func (r *apartmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("apartment_id = ?", id).
		Delete(&model.Apartment{}).Error
}
