package spoonacular

import (
	"context"
	"errors"

	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"
	"recipe-plaza/internal/pkg/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerSearcher 以斷路器包裝 Searcher，上游持續失敗時快速拒絕
type BreakerSearcher struct {
	next Searcher
	cb   *gobreaker.CircuitBreaker[*SearchResult]
	name string
}

// NewBreakerSearcher 創建帶斷路器的 Searcher
func NewBreakerSearcher(next Searcher, cfg config.BreakerConfig) *BreakerSearcher {
	name := "spoonacular"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*SearchResult](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				common.LogWarn("[CIRCUIT BREAKER] Opening circuit",
					zap.Uint32("failures", counts.TotalFailures),
					zap.Float64("failure_rate", ratio),
				)
				return true
			}
			return false
		},
		// 額度用完與呼叫端取消不算上游故障
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, common.ErrQuotaExceeded) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			common.LogInfo("[CIRCUIT BREAKER] State transition",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &BreakerSearcher{next: next, cb: cb, name: name}
}

// Search 實現 Searcher
func (b *BreakerSearcher) Search(ctx context.Context, q Query) (*SearchResult, error) {
	result, err := b.cb.Execute(func() (*SearchResult, error) {
		return b.next.Search(ctx, q)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamRequestsTotal.WithLabelValues("rejected").Inc()
		return nil, common.ErrServiceUnavailable.WithError(err)
	}
	return result, err
}

// State 目前斷路器狀態
func (b *BreakerSearcher) State() string {
	return b.cb.State().String()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
