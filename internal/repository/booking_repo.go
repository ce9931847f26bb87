package repository

import (
	"context"

	"gorm.io/gorm"

	"cabin-lottery/backend/internal/model"
)

// BookingRepository 预订数据访问接口
// 预订由发布抽签时从分配结果物化而来，用户侧只读。
type BookingRepository interface {
	ReplaceForDrawing(ctx context.Context, drawingID string, bookings []model.Booking) error
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	ListByDrawing(ctx context.Context, drawingID string) ([]model.Booking, error)
	DeleteByDrawing(ctx context.Context, drawingID string) error
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

// ReplaceForDrawing 原子替换该抽签的全部预订
func (r *bookingRepo) ReplaceForDrawing(ctx context.Context, drawingID string, bookings []model.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("drawing_id = ?", drawingID).
			Delete(&model.Booking{}).Error; err != nil {
			return err
		}
		for i := range bookings {
			if err := tx.Create(&bookings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *bookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Apartment").
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListByDrawing(ctx context.Context, drawingID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Preload("Apartment").
		Where("drawing_id = ?", drawingID).
		Order("start_date ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) DeleteByDrawing(ctx context.Context, drawingID string) error {
	return r.db.WithContext(ctx).
		Where("drawing_id = ?", drawingID).
		Delete(&model.Booking{}).Error
}
