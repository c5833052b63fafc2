package spoonacular

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"recipe-plaza/internal/core/quota"
	"recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"
	"recipe-plaza/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	searchPath   = "/recipes/complexSearch"
	apiKeyHeader = "x-api-key"
)

// Query 搜尋條件
type Query struct {
	Text        string
	MinCalories int
	MaxCalories int
}

func (q Query) key() string {
	return fmt.Sprintf("%s|%d|%d", q.Text, q.MinCalories, q.MaxCalories)
}

// SearchResult complexSearch 回應
type SearchResult struct {
	Results      []recipe.Recipe `json:"results"`
	Offset       int             `json:"offset"`
	Number       int             `json:"number"`
	TotalResults int             `json:"totalResults"`
}

// Searcher 食譜搜尋介面
type Searcher interface {
	Search(ctx context.Context, q Query) (*SearchResult, error)
}

// Client Spoonacular API 客戶端
type Client struct {
	config config.SpoonacularConfig
	client *resty.Client
	quota  quota.Limiter
	group  singleflight.Group
}

// NewClient 創建 Spoonacular 客戶端
func NewClient(cfg config.SpoonacularConfig, limiter quota.Limiter) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader(apiKeyHeader, cfg.APIKey)

	return &Client{
		config: cfg,
		client: client,
		quota:  limiter,
	}
}

// Search 搜尋食譜；相同條件的並行請求只會送出一次
func (c *Client) Search(ctx context.Context, q Query) (*SearchResult, error) {
	// 共用的請求不跟隨單一呼叫端取消，由 resty timeout 限制
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(q.key(), func() (interface{}, error) {
		return c.search(shared, q)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*SearchResult), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// buildParams 組合查詢參數；熱量條件只有兩端皆非零時才送出
func (c *Client) buildParams(q Query) map[string]string {
	params := map[string]string{
		"query":  q.Text,
		"maxFat": strconv.Itoa(c.config.MaxFat),
		"number": strconv.Itoa(c.config.Number),
	}
	if q.MinCalories != 0 && q.MaxCalories != 0 {
		params["minCalories"] = strconv.Itoa(q.MinCalories)
		params["maxCalories"] = strconv.Itoa(q.MaxCalories)
	}
	return params
}

func (c *Client) search(ctx context.Context, q Query) (*SearchResult, error) {
	if c.quota != nil {
		ok, err := c.quota.Allow(ctx)
		if err != nil {
			// 額度服務異常時不阻擋搜尋
			common.LogWarn("Quota check failed", zap.Error(err))
		} else if !ok {
			metrics.QuotaRejectionsTotal.Inc()
			metrics.UpstreamRequestsTotal.WithLabelValues("quota_exceeded").Inc()
			return nil, common.ErrQuotaExceeded
		}
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(c.buildParams(q)).
		Get(searchPath)
	duration := time.Since(start)
	metrics.UpstreamRequestDuration.Observe(duration.Seconds())

	if err != nil {
		err = stripURL(err)
		metrics.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		common.LogUpstreamCall(q.Text, duration, err)
		return nil, common.ErrServiceUnavailable.WithError(fmt.Errorf("failed to send request to Spoonacular: %w", err))
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusPaymentRequired:
		// Spoonacular 以 402 表示每日點數用完
		metrics.UpstreamRequestsTotal.WithLabelValues("quota_exceeded").Inc()
		common.LogWarn("Spoonacular daily points exhausted", zap.Int("status", resp.StatusCode()))
		return nil, common.ErrQuotaExceeded
	default:
		metrics.UpstreamRequestsTotal.WithLabelValues("status_error").Inc()
		err := fmt.Errorf("spoonacular returned status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
		common.LogUpstreamCall(q.Text, duration, err)
		return nil, common.ErrUpstream.WithError(err)
	}

	var result SearchResult
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("decode_error").Inc()
		common.LogUpstreamCall(q.Text, duration, err)
		return nil, common.ErrUpstream.WithError(fmt.Errorf("failed to parse Spoonacular response: %w", err))
	}
	if result.Results == nil {
		result.Results = []recipe.Recipe{}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()
	common.LogUpstreamCall(q.Text, duration, nil)
	common.LogDebug("Spoonacular search completed",
		zap.String("query", q.Text),
		zap.Int("results", len(result.Results)),
		zap.Int("total_results", result.TotalResults),
	)

	return &result, nil
}

// stripURL 移除 *url.Error 中的請求網址，只保留底層錯誤
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s %s: %w", ue.Op, searchPath, ue.Err)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
