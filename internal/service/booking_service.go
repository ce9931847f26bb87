package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

// BookingService 预订查询业务接口
// 预订由发布抽签时物化，本服务只提供查询。
type BookingService interface {
	ListMine(ctx context.Context, userID string) ([]dto.BookingResponse, error)
	ListByDrawing(ctx context.Context, drawingID string) ([]dto.BookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBookingService 创建 BookingService 实例
func NewBookingService(repo *repository.Repository, logger *zap.Logger) BookingService {
	return &bookingService{repo: repo, logger: logger}
}

func (s *bookingService) ListMine(ctx context.Context, userID string) ([]dto.BookingResponse, error) {
	bookings, err := s.repo.Booking.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询预订失败", zap.Error(err))
		return nil, err
	}
	return bookingsToResponses(bookings), nil
}

func (s *bookingService) ListByDrawing(ctx context.Context, drawingID string) ([]dto.BookingResponse, error) {
	if _, err := s.repo.Drawing.GetByID(ctx, drawingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, err
	}
	bookings, err := s.repo.Booking.ListByDrawing(ctx, drawingID)
	if err != nil {
		s.logger.Error("查询预订失败", zap.Error(err))
		return nil, err
	}
	return bookingsToResponses(bookings), nil
}

func bookingsToResponses(bookings []model.Booking) []dto.BookingResponse {
	result := make([]dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp := dto.BookingResponse{
			ID:          b.BookingID,
			DrawingID:   b.DrawingID,
			UserID:      b.UserID,
			ApartmentID: b.ApartmentID,
			PeriodID:    b.PeriodID,
			StartDate:   b.StartDate.Format("2006-01-02"),
			EndDate:     b.EndDate.Format("2006-01-02"),
		}
		if b.Apartment != nil {
			resp.ApartmentName = b.Apartment.Name
		}
		result = append(result, resp)
	}
	return result
}
