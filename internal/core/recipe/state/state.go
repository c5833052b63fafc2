// Package state 以不可變快照與純函數 reducer 描述搜尋頁面的狀態轉換。
// 網路請求以 Effect 回傳給呼叫端執行，reducer 本身不做任何 I/O。
package state

import (
	"recipe-plaza/internal/core/recipe"
)

// State 搜尋頁面的狀態快照
// Results 為搜尋 API 原始結果，Filtered 與統計值皆由明確參數重新計算
type State struct {
	Query        string              `json:"query"`
	DietTag      string              `json:"diet_tag"`
	MinCalories  int                 `json:"min_calories"`
	MaxCalories  int                 `json:"max_calories"`
	Results      []recipe.Recipe     `json:"results"`
	TotalResults int                 `json:"total_results"`
	Filtered     []recipe.Recipe     `json:"filtered"`
	AverageLikes float64             `json:"average_likes"`
	CalorieStats recipe.CalorieStats `json:"calorie_stats"`
	Loading      bool                `json:"loading"`
	Error        string              `json:"error,omitempty"`
	// Generation 每次發出搜尋時遞增，用於丟棄過期的回應
	Generation uint64 `json:"generation"`
}

// Initial 初始狀態：滑桿預設範圍與其統計值
func Initial() State {
	return State{
		MinCalories:  recipe.DefaultMinCalories,
		MaxCalories:  recipe.DefaultMaxCalories,
		Results:      []recipe.Recipe{},
		Filtered:     []recipe.Recipe{},
		CalorieStats: recipe.CalorieStatistics(recipe.DefaultMinCalories, recipe.DefaultMaxCalories),
	}
}

// Params 目前的篩選條件
func (s State) Params() recipe.FilterParameters {
	return recipe.FilterParameters{
		DietTag:     s.DietTag,
		MinCalories: s.MinCalories,
		MaxCalories: s.MaxCalories,
	}
}

// Tiles 可顯示的篩選結果
func (s State) Tiles() []recipe.Recipe {
	return recipe.Displayable(s.Filtered)
}

// Action 使用者或系統觸發的事件
type Action interface {
	actionType() string
}

// QueryChanged 搜尋字串變更
type QueryChanged struct {
	Query string
}

// DietTagChanged 飲食標籤變更
type DietTagChanged struct {
	Tag string
}

// MinCaloriesChanged 最低熱量滑桿變更
type MinCaloriesChanged struct {
	Value int
}

// MaxCaloriesChanged 最高熱量滑桿變更
type MaxCaloriesChanged struct {
	Value int
}

// Submitted 表單送出，以目前條件重新篩選
type Submitted struct{}

// SearchSucceeded 搜尋成功
type SearchSucceeded struct {
	Generation   uint64
	Results      []recipe.Recipe
	TotalResults int
}

// SearchFailed 搜尋失敗
type SearchFailed struct {
	Generation uint64
	Err        error
}

func (QueryChanged) actionType() string       { return "query_changed" }
func (DietTagChanged) actionType() string     { return "diet_tag_changed" }
func (MinCaloriesChanged) actionType() string { return "min_calories_changed" }
func (MaxCaloriesChanged) actionType() string { return "max_calories_changed" }
func (Submitted) actionType() string          { return "submitted" }
func (SearchSucceeded) actionType() string    { return "search_succeeded" }
func (SearchFailed) actionType() string       { return "search_failed" }

// TypeOf 取得 action 的類型名稱（用於日誌與指標）
func TypeOf(a Action) string {
	if a == nil {
		return "nil"
	}
	return a.actionType()
}

// Effect reducer 要求呼叫端執行的副作用
type Effect interface {
	effect()
}

// FetchEffect 以指定條件呼叫搜尋 API
type FetchEffect struct {
	Generation  uint64
	Query       string
	MinCalories int
	MaxCalories int
}

func (FetchEffect) effect() {}
