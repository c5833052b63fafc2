package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-plaza/internal/api"
	"recipe-plaza/internal/core/quota"
	"recipe-plaza/internal/core/service"
	"recipe-plaza/internal/core/session"
	"recipe-plaza/internal/core/spoonacular"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogOptions{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		common.MaskedKeyField("spoonacular", cfg.Spoonacular.APIKey),
		zap.String("spoonacular_base_url", cfg.Spoonacular.BaseURL),
		zap.Int("daily_quota", cfg.Spoonacular.DailyQuota),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)
	if cfg.Spoonacular.APIKey == "" {
		common.LogWarn("SPOONACULAR_API_KEY is empty, upstream searches will be rejected")
	}

	// 初始化每日額度
	initCtx, cancelInit := context.WithTimeout(context.Background(), 5*time.Second)
	limiter, err := quota.New(initCtx, cfg)
	cancelInit()
	if err != nil {
		common.LogFatal("Failed to initialize quota limiter", zap.Error(err))
	}
	defer limiter.Close()

	// 初始化工作階段
	sessions := session.NewManager(cfg.Session)
	defer sessions.Close()

	// 搜尋 API 客戶端，外層包裝斷路器
	client := spoonacular.NewClient(cfg.Spoonacular, limiter)
	searcher := spoonacular.NewBreakerSearcher(client, cfg.Breaker)
	searchService := service.NewSearchService(searcher, sessions)

	// 設置路由
	router, err := api.SetupRouter(cfg, api.Dependencies{
		SearchService: searchService,
		Sessions:      sessions,
		Quota:         limiter,
		Breaker:       searcher,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
