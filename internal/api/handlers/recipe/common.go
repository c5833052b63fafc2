package recipe

import (
	"context"
	"errors"

	"recipe-plaza/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError 將錯誤轉為統一的 JSON 響應
func writeError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = common.ErrGatewayTimeout.WithError(err)
	}
	ce := common.AsCustomError(err)

	resp := common.ErrorResponse{
		Code:    ce.Code,
		Message: ce.Message,
	}
	if gin.Mode() == gin.DebugMode && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}

	common.LogWarn("Request failed",
		zap.String("request_id", requestid.Get(c)),
		zap.String("code", ce.Code),
		zap.Error(err),
	)
	_ = c.Error(err)
	c.AbortWithStatusJSON(ce.Status, resp)
}

// calorieWindow 以預設值補齊未提供的範圍，min 不可大於 max
func calorieWindow(minCalories, maxCalories *int, defMin, defMax int) (int, int, error) {
	lo, hi := defMin, defMax
	if minCalories != nil {
		lo = *minCalories
	}
	if maxCalories != nil {
		hi = *maxCalories
	}
	if lo > hi {
		return 0, 0, common.ErrInvalidCalorieWindow
	}
	return lo, hi, nil
}
