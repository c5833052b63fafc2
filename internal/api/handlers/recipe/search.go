package recipe

import (
	"net/http"

	recipeCore "recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/core/service"
	"recipe-plaza/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 食譜搜尋處理程序
type Handler struct {
	searchService *service.SearchService
}

// NewHandler 創建新的食譜處理程序
func NewHandler(searchService *service.SearchService) *Handler {
	return &Handler{searchService: searchService}
}

// SearchQuery 搜尋查詢參數
type SearchQuery struct {
	Query       string `form:"query"`
	Diet        string `form:"diet"`
	MinCalories *int   `form:"minCalories" binding:"omitempty,min=0,max=5000"`
	MaxCalories *int   `form:"maxCalories" binding:"omitempty,min=0,max=5000"`
}

// StatsQuery 熱量統計查詢參數
type StatsQuery struct {
	Min *int `form:"min" binding:"omitempty,min=0,max=5000"`
	Max *int `form:"max" binding:"omitempty,min=0,max=5000"`
}

// CalorieStatsResponse 熱量統計響應
type CalorieStatsResponse struct {
	MinCalories int                     `json:"min_calories"`
	MaxCalories int                     `json:"max_calories"`
	Stats       recipeCore.CalorieStats `json:"stats"`
}

// HandleSearch 搜尋食譜並套用飲食與熱量篩選
func (h *Handler) HandleSearch(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, common.ErrInvalidRequest.WithError(err))
		return
	}

	minCalories, maxCalories, err := calorieWindow(q.MinCalories, q.MaxCalories,
		recipeCore.DefaultMinCalories, recipeCore.DefaultMaxCalories)
	if err != nil {
		writeError(c, err)
		return
	}

	params := service.SearchParams{
		Query:       q.Query,
		DietTag:     q.Diet,
		MinCalories: minCalories,
		MaxCalories: maxCalories,
	}

	common.LogDebug("開始處理食譜搜尋請求",
		zap.String("request_id", requestid.Get(c)),
		zap.String("query", params.Query),
		zap.String("diet", params.DietTag),
		zap.Int("min_calories", params.MinCalories),
		zap.Int("max_calories", params.MaxCalories),
	)

	resp, err := h.searchService.Search(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleCalorieStats 計算熱量範圍的平均數、中位數與眾數
func (h *Handler) HandleCalorieStats(c *gin.Context) {
	var q StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, common.ErrInvalidRequest.WithError(err))
		return
	}

	minCalories, maxCalories, err := calorieWindow(q.Min, q.Max,
		recipeCore.DefaultMinCalories, recipeCore.DefaultMaxCalories)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CalorieStatsResponse{
		MinCalories: minCalories,
		MaxCalories: maxCalories,
		Stats:       recipeCore.CalorieStatistics(minCalories, maxCalories),
	})
}
