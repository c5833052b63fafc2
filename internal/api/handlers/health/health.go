package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-plaza/internal/core/quota"
	"recipe-plaza/internal/core/session"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BreakerState 可回報斷路器狀態的元件
type BreakerState interface {
	State() string
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Sessions  session.Stats          `json:"sessions"`
	Quota     *QuotaStatus           `json:"quota,omitempty"`
	Breaker   string                 `json:"breaker,omitempty"`
}

// QuotaStatus 每日搜尋額度
type QuotaStatus struct {
	DailyLimit int    `json:"daily_limit"`
	Remaining  int    `json:"remaining"`
	Error      string `json:"error,omitempty"`
}

// Handler 健康檢查處理程序
type Handler struct {
	config   *config.Config
	sessions *session.Manager
	quota    quota.Limiter
	breaker  BreakerState
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, sessions *session.Manager, limiter quota.Limiter, breaker BreakerState) *Handler {
	return &Handler{
		config:   cfg,
		sessions: sessions,
		quota:    limiter,
		breaker:  breaker,
	}
}

func (h *Handler) quotaStatus(ctx context.Context) *QuotaStatus {
	if h.quota == nil {
		return nil
	}
	status := &QuotaStatus{DailyLimit: h.config.Spoonacular.DailyQuota}
	remaining, err := h.quota.Remaining(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Remaining = remaining
	return status
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Sessions: h.sessions.Stats(),
		Quota:    h.quotaStatus(c.Request.Context()),
	}
	if h.breaker != nil {
		response.Breaker = h.breaker.State()
		if response.Breaker == "open" {
			response.Status = "degraded"
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器：額度後端無法讀取時回報未就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.quota != nil {
		if _, err := h.quota.Remaining(c.Request.Context()); err != nil {
			common.LogWarn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"reason": "quota backend unavailable",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
