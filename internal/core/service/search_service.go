package service

import (
	"context"
	"sync"

	"recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/core/recipe/state"
	"recipe-plaza/internal/core/session"
	"recipe-plaza/internal/core/spoonacular"
	"recipe-plaza/internal/pkg/common"
	"recipe-plaza/internal/pkg/metrics"

	"go.uber.org/zap"
)

// SearchParams 一次性搜尋的條件
type SearchParams struct {
	Query       string `json:"query"`
	DietTag     string `json:"diet"`
	MinCalories int    `json:"min_calories"`
	MaxCalories int    `json:"max_calories"`
}

// SearchResponse 一次性搜尋的結果
type SearchResponse struct {
	Query        string              `json:"query"`
	Results      []recipe.Recipe     `json:"results"`
	Tiles        []recipe.Recipe     `json:"tiles"`
	TotalResults int                 `json:"total_results"`
	AverageLikes float64             `json:"average_likes"`
	CalorieStats recipe.CalorieStats `json:"calorie_stats"`
}

// SearchService 串接搜尋 API、篩選引擎與工作階段
type SearchService struct {
	searcher spoonacular.Searcher
	sessions *session.Manager
	// 同一工作階段的 action 依序處理
	locks sync.Map
}

// NewSearchService 創建搜尋服務
func NewSearchService(searcher spoonacular.Searcher, sessions *session.Manager) *SearchService {
	return &SearchService{
		searcher: searcher,
		sessions: sessions,
	}
}

// Search 搜尋並在本地套用飲食與熱量篩選
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	result, err := s.searcher.Search(ctx, spoonacular.Query{
		Text:        params.Query,
		MinCalories: params.MinCalories,
		MaxCalories: params.MaxCalories,
	})
	if err != nil {
		return nil, err
	}

	filter := recipe.FilterParameters{
		DietTag:     params.DietTag,
		MinCalories: params.MinCalories,
		MaxCalories: params.MaxCalories,
	}
	filtered := recipe.FilterRecipes(result.Results, filter)

	return &SearchResponse{
		Query:        params.Query,
		Results:      filtered,
		Tiles:        recipe.Displayable(filtered),
		TotalResults: result.TotalResults,
		AverageLikes: recipe.AverageLikes(result.Results),
		CalorieStats: recipe.CalorieStatistics(params.MinCalories, params.MaxCalories),
	}, nil
}

// CreateSession 建立新的工作階段
func (s *SearchService) CreateSession() (string, state.State) {
	initial := state.Initial()
	id := s.sessions.Create(initial)
	return id, initial
}

// GetSession 取得工作階段狀態
func (s *SearchService) GetSession(id string) (state.State, error) {
	st, ok := s.sessions.Get(id)
	if !ok {
		return state.State{}, common.ErrSessionNotFound
	}
	return st, nil
}

// DeleteSession 刪除工作階段
func (s *SearchService) DeleteSession(id string) error {
	if !s.sessions.Delete(id) {
		return common.ErrSessionNotFound
	}
	s.locks.Delete(id)
	return nil
}

// Dispatch 將 action 套用到工作階段並執行產生的搜尋
func (s *SearchService) Dispatch(ctx context.Context, id string, action state.Action) (state.State, error) {
	if action == nil {
		return state.State{}, common.ErrUnknownAction
	}

	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	current, ok := s.sessions.Get(id)
	if !ok {
		s.locks.Delete(id)
		return state.State{}, common.ErrSessionNotFound
	}

	actionType := state.TypeOf(action)
	metrics.ActionsTotal.WithLabelValues(actionType).Inc()
	common.LogDebug("Dispatching action",
		zap.String("session_id", id),
		zap.String("action", actionType),
	)

	next := s.run(ctx, current, action)
	if err := s.sessions.Put(id, next); err != nil {
		return state.State{}, err
	}
	return next, nil
}

func (s *SearchService) lockFor(id string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// run 反覆套用 reducer，直到不再產生副作用
func (s *SearchService) run(ctx context.Context, st state.State, action state.Action) state.State {
	queue := []state.Action{action}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []state.Effect
		st, effects = state.Reduce(st, next)
		for _, effect := range effects {
			if followUp := s.execute(ctx, effect); followUp != nil {
				queue = append(queue, followUp)
			}
		}
	}
	return st
}

// execute 執行副作用並回傳結果 action
func (s *SearchService) execute(ctx context.Context, effect state.Effect) state.Action {
	switch e := effect.(type) {
	case state.FetchEffect:
		result, err := s.searcher.Search(ctx, spoonacular.Query{
			Text:        e.Query,
			MinCalories: e.MinCalories,
			MaxCalories: e.MaxCalories,
		})
		if err != nil {
			common.LogWarn("Search failed",
				zap.String("query", e.Query),
				zap.Uint64("generation", e.Generation),
				zap.Error(err),
			)
			metrics.ActionsTotal.WithLabelValues("search_failed").Inc()
			return state.SearchFailed{Generation: e.Generation, Err: err}
		}
		metrics.ActionsTotal.WithLabelValues("search_succeeded").Inc()
		return state.SearchSucceeded{
			Generation:   e.Generation,
			Results:      result.Results,
			TotalResults: result.TotalResults,
		}
	}
	return nil
}
