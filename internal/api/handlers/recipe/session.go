package recipe

import (
	"fmt"
	"net/http"

	recipeCore "recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/core/recipe/state"
	"recipe-plaza/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActionRequest 工作階段 action 請求
type ActionRequest struct {
	Type  string  `json:"type"`
	Query *string `json:"query,omitempty"`
	Tag   *string `json:"tag,omitempty"`
	Value *int    `json:"value,omitempty"`
}

// SessionResponse 工作階段狀態響應
type SessionResponse struct {
	SessionID string              `json:"session_id"`
	State     state.State         `json:"state"`
	Tiles     []recipeCore.Recipe `json:"tiles"`
}

func newSessionResponse(id string, st state.State) SessionResponse {
	return SessionResponse{
		SessionID: id,
		State:     st,
		Tiles:     st.Tiles(),
	}
}

// toAction 將請求轉為 reducer action；搜尋結果類 action 只能由伺服器產生
func (r ActionRequest) toAction() (state.Action, error) {
	switch r.Type {
	case "query_changed":
		if r.Query == nil {
			return nil, common.NewValidationError("query is required")
		}
		return state.QueryChanged{Query: *r.Query}, nil
	case "diet_tag_changed":
		if r.Tag == nil {
			return nil, common.NewValidationError("tag is required")
		}
		return state.DietTagChanged{Tag: *r.Tag}, nil
	case "min_calories_changed", "max_calories_changed":
		if r.Value == nil {
			return nil, common.NewValidationError("value is required")
		}
		if *r.Value < 0 || *r.Value > recipeCore.MaxCalorieBound {
			return nil, common.NewValidationError(fmt.Sprintf("value must be between 0 and %d", recipeCore.MaxCalorieBound))
		}
		if r.Type == "min_calories_changed" {
			return state.MinCaloriesChanged{Value: *r.Value}, nil
		}
		return state.MaxCaloriesChanged{Value: *r.Value}, nil
	case "submitted":
		return state.Submitted{}, nil
	case "":
		return nil, common.NewValidationError("type is required")
	}
	return nil, common.ErrUnknownAction.WithError(fmt.Errorf("unsupported action type %q", r.Type))
}

// HandleCreateSession 建立新的搜尋工作階段
func (h *Handler) HandleCreateSession(c *gin.Context) {
	id, st := h.searchService.CreateSession()

	common.LogDebug("工作階段已建立",
		zap.String("request_id", requestid.Get(c)),
		zap.String("session_id", id),
	)

	c.JSON(http.StatusCreated, newSessionResponse(id, st))
}

// HandleGetSession 取得工作階段狀態
func (h *Handler) HandleGetSession(c *gin.Context) {
	id := c.Param("id")
	st, err := h.searchService.GetSession(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(id, st))
}

// HandleDispatch 套用 action 並回傳新的狀態
func (h *Handler) HandleDispatch(c *gin.Context) {
	id := c.Param("id")

	var req ActionRequest
	if err := common.DecodeJSON(c.Request.Body, &req); err != nil {
		writeError(c, common.ErrInvalidRequest.WithError(err))
		return
	}

	action, err := req.toAction()
	if err != nil {
		writeError(c, err)
		return
	}

	st, err := h.searchService.Dispatch(c.Request.Context(), id, action)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(id, st))
}

// HandleDeleteSession 刪除工作階段
func (h *Handler) HandleDeleteSession(c *gin.Context) {
	if err := h.searchService.DeleteSession(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
