package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cabin-lottery/backend/config"
	"cabin-lottery/backend/internal/api/handler"
	"cabin-lottery/backend/internal/api/middleware"
	"cabin-lottery/backend/pkg/jwt"
	"cabin-lottery/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(8 << 20)) // 8MB，覆盖 Excel 导入

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 20, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.POST("", middleware.RoleAuth("admin"), h.User.CreateUser)
				users.GET("/:id", middleware.RoleAuth("admin"), h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser) // admin 或本人（Service 层鉴权）
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
				users.POST("/:id/reset-password", middleware.RoleAuth("admin"), h.User.ResetPassword)
				users.POST("/import", middleware.RoleAuth("admin"), h.User.ImportUsers)
			}

			// 公寓模块
			apartments := authorized.Group("/apartments")
			{
				apartments.GET("", h.Apartment.ListApartments)
				apartments.GET("/:id", h.Apartment.GetApartment)
				apartments.POST("", middleware.RoleAuth("admin"), h.Apartment.CreateApartment)
				apartments.PUT("/:id", middleware.RoleAuth("admin"), h.Apartment.UpdateApartment)
				apartments.DELETE("/:id", middleware.RoleAuth("admin"), h.Apartment.DeleteApartment)
			}

			// 抽签生命周期模块
			drawings := authorized.Group("/drawings")
			{
				drawings.GET("", h.Drawing.ListDrawings)
				drawings.GET("/:id", h.Drawing.GetDrawing)
				drawings.POST("", middleware.RoleAuth("admin"), h.Drawing.CreateDrawing)
				drawings.PUT("/:id", middleware.RoleAuth("admin"), h.Drawing.UpdateDrawing)
				drawings.DELETE("/:id", middleware.RoleAuth("admin"), h.Drawing.DeleteDrawing)
				drawings.PUT("/:id/open", middleware.RoleAuth("admin"), h.Drawing.OpenDrawing)
				drawings.PUT("/:id/lock", middleware.RoleAuth("admin"), h.Drawing.LockDrawing)
				drawings.PUT("/:id/publish", middleware.RoleAuth("admin"), h.Drawing.PublishDrawing)
				drawings.PUT("/:id/revert", middleware.RoleAuth("admin"), h.Drawing.RevertDrawing)
				drawings.GET("/:id/change-logs", middleware.RoleAuth("admin"), h.Drawing.ListChangeLogs)

				// 期间子资源
				drawings.GET("/:id/periods", h.Period.ListPeriods)
				drawings.POST("/:id/periods", middleware.RoleAuth("admin"), h.Period.CreatePeriod)
				drawings.POST("/:id/periods/bulk", middleware.RoleAuth("admin"), h.Period.BulkGeneratePeriods)

				// 愿望子资源
				drawings.GET("/:id/wishes", middleware.RoleAuth("admin"), h.Wish.ListWishes)
				drawings.GET("/:id/wishes/mine", h.Wish.ListMyWishes)
				drawings.POST("/:id/wishes", h.Wish.CreateWish)

				// 抽签执行与验证
				drawings.GET("/:id/draw/validate", middleware.RoleAuth("admin"), h.Draw.ValidateDraw)
				drawings.POST("/:id/draw", middleware.RoleAuth("admin"), h.Draw.RunDraw)
				drawings.GET("/:id/draw/result", middleware.RoleAuth("admin"), h.Draw.GetDrawResult)
				drawings.GET("/:id/draw/result/mine", h.Draw.GetMyDrawResult)
				drawings.POST("/:id/draw/verify", middleware.RoleAuth("admin"), h.Draw.VerifyDraw)

				// 预订与导出
				drawings.GET("/:id/bookings", middleware.RoleAuth("admin"), h.Booking.ListDrawingBookings)
				drawings.GET("/:id/export", middleware.RoleAuth("admin"), h.Export.ExportDrawResult)
			}

			// 期间模块（独立资源路由）
			periods := authorized.Group("/periods")
			{
				periods.PUT("/:id", middleware.RoleAuth("admin"), h.Period.UpdatePeriod)
				periods.DELETE("/:id", middleware.RoleAuth("admin"), h.Period.DeletePeriod)
			}

			// 愿望模块（独立资源路由）
			wishes := authorized.Group("/wishes")
			{
				wishes.PUT("/:id", h.Wish.UpdateWish)
				wishes.DELETE("/:id", h.Wish.DeleteWish)
			}

			// 预订模块
			bookings := authorized.Group("/bookings")
			{
				bookings.GET("/mine", h.Booking.ListMyBookings)
			}

			// 抽签策略配置模块
			systemConfig := authorized.Group("/system-config")
			{
				systemConfig.GET("", h.SystemConfig.GetConfig)
				systemConfig.PUT("", middleware.RoleAuth("admin"), h.SystemConfig.UpdateConfig)
			}
		}
	}

	return r
}
