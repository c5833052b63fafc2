package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"recipe-plaza/internal/api/handlers/health"
	recipeHandler "recipe-plaza/internal/api/handlers/recipe"
	"recipe-plaza/internal/api/middleware"
	"recipe-plaza/internal/core/quota"
	"recipe-plaza/internal/core/service"
	"recipe-plaza/internal/core/session"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	SearchService *service.SearchService
	Sessions      *session.Manager
	Quota         quota.Limiter
	Breaker       health.BreakerState
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.SearchService == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("search service and session manager are required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 設置請求超時
	timeout := cfg.Server.RequestTimeout
	if timeout > 0 {
		router.Use(func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, deps.Sessions, deps.Quota, deps.Breaker)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由組
	h := recipeHandler.NewHandler(deps.SearchService)
	api := router.Group("/api/v1")
	{
		api.GET("/recipes/search", h.HandleSearch)
		api.GET("/calories/stats", h.HandleCalorieStats)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", h.HandleCreateSession)
			sessions.GET("/:id", h.HandleGetSession)
			sessions.POST("/:id/actions", middleware.Deduplication(cfg.Server.DedupWindow), h.HandleDispatch)
			sessions.DELETE("/:id", h.HandleDeleteSession)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    common.ErrNotFound.Code,
			Message: common.ErrNotFound.Message,
		})
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
