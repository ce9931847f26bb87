package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Apartment    ApartmentRepository
	Drawing      DrawingRepository
	Period       PeriodRepository
	Wish         WishRepository
	Allocation   AllocationRepository
	Booking      BookingRepository
	SystemConfig SystemConfigRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Apartment:    NewApartmentRepo(db),
		Drawing:      NewDrawingRepo(db),
		Period:       NewPeriodRepo(db),
		Wish:         NewWishRepo(db),
		Allocation:   NewAllocationRepo(db),
		Booking:      NewBookingRepo(db),
		SystemConfig: NewSystemConfigRepo(db),
	}
}
