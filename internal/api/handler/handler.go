package handler

import "cabin-lottery/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Apartment    *ApartmentHandler
	Drawing      *DrawingHandler
	Period       *PeriodHandler
	Wish         *WishHandler
	Draw         *DrawHandler
	Booking      *BookingHandler
	Export       *ExportHandler
	SystemConfig *SystemConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Apartment:    NewApartmentHandler(svc.Apartment),
		Drawing:      NewDrawingHandler(svc.Drawing),
		Period:       NewPeriodHandler(svc.Period),
		Wish:         NewWishHandler(svc.Wish),
		Draw:         NewDrawHandler(svc.Draw),
		Booking:      NewBookingHandler(svc.Booking),
		Export:       NewExportHandler(svc.Export),
		SystemConfig: NewSystemConfigHandler(svc.SystemConfig),
	}
}
