package service

import (
	"go.uber.org/zap"

	"cabin-lottery/backend/config"
	"cabin-lottery/backend/internal/repository"
	"cabin-lottery/backend/pkg/jwt"
	"cabin-lottery/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Apartment    ApartmentService
	Drawing      DrawingService
	Period       PeriodService
	Wish         WishService
	Draw         DrawService
	Booking      BookingService
	Export       ExportService
	SystemConfig SystemConfigService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, redisClient, logger),
		User:         NewUserService(repo, logger),
		Apartment:    NewApartmentService(repo, logger),
		Drawing:      NewDrawingService(repo, logger),
		Period:       NewPeriodService(repo, logger),
		Wish:         NewWishService(repo, logger),
		Draw:         NewDrawService(repo, logger),
		Booking:      NewBookingService(repo, logger),
		Export:       NewExportService(repo, logger),
		SystemConfig: NewSystemConfigService(repo, logger),
	}
}
