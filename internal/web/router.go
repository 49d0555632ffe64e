package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zh1gn/FoundItBot/internal/config"
	"github.com/zh1gn/FoundItBot/internal/lifecycle"
	"github.com/zh1gn/FoundItBot/internal/ratelimit"
	"github.com/zh1gn/FoundItBot/internal/settings"
	"github.com/zh1gn/FoundItBot/internal/store"
)

// publicRateLimitTTL bounds how long an edited PUBLIC_RATE_LIMIT row takes
// to reach the middleware.
const publicRateLimitTTL = 30 * time.Second

// RegisterRoutes mounts all HTTP endpoints on the router. The public lookup
// group is throttled per client; admin and health endpoints are not.
func RegisterRoutes(r *gin.Engine, conn *gorm.DB, st *store.Store, engine *lifecycle.Engine, cfg config.Config) {
	if r == nil || conn == nil {
		return
	}

	healthHandler := NewHealthHandler(conn)
	r.GET("/healthz", healthHandler.Healthz)

	settingsService := settings.NewService(conn)

	publicHandler := NewPublicHandler(st, cfg, settingsService)
	public := r.Group("")
	public.Use(rateLimitMiddleware(ratelimit.NewMemoryLimiter(), newLimitSource(settingsService, publicRateLimitTTL)))
	public.GET("/found/:code", publicHandler.Found)
	public.GET("/api/item/:code", publicHandler.Item)
	public.GET("/api/stats", publicHandler.Stats)
	public.GET("/qr/:code", publicHandler.Redirect)
	public.GET("/qr/:code/image.png", publicHandler.Image)

	adminHandler := NewAdminHandler(engine)
	adminGroup := r.Group("/v0/admin")
	adminGroup.Use(adminAuthMiddleware(cfg.JWT))
	adminGroup.GET("/pending", adminHandler.Pending)
	adminGroup.POST("/activate", adminHandler.Activate)
}
