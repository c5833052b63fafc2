package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/core/recipe/state"
	"recipe-plaza/internal/core/session"
	"recipe-plaza/internal/core/spoonacular"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher 記錄查詢並回傳固定結果
type fakeSearcher struct {
	mu      sync.Mutex
	queries []spoonacular.Query
	results []recipe.Recipe
	total   int
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, q spoonacular.Query) (*spoonacular.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return &spoonacular.SearchResult{Results: f.results, TotalResults: f.total}, nil
}

func fixtures() []recipe.Recipe {
	return []recipe.Recipe{
		{ID: 1, Title: "Veg Bowl", Image: "a.jpg", Diet: []string{"vegetarian"}, Calories: recipe.Float(300), Likes: recipe.Float(10)},
		{ID: 2, Title: "Steak", Image: "b.png", Diet: []string{"paleo"}, Calories: recipe.Float(700), Likes: recipe.Float(30)},
		{ID: 3, Title: "Veg Soup", Image: "c.svg", Diet: []string{"vegetarian"}, Calories: recipe.Float(150)},
		{ID: 4, Title: "Mystery", Image: "d.jpg", Diet: []string{"vegetarian"}},
	}
}

func newTestService(t *testing.T, searcher spoonacular.Searcher) *SearchService {
	t.Helper()
	sessions := session.NewManager(config.SessionConfig{
		MaxSize:         10,
		TTL:             time.Minute,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(func() { _ = sessions.Close() })
	return NewSearchService(searcher, sessions)
}

func TestSearch_FiltersLocally(t *testing.T) {
	searcher := &fakeSearcher{results: fixtures(), total: 99}
	svc := newTestService(t, searcher)

	resp, err := svc.Search(context.Background(), SearchParams{
		Query:       "bowl",
		DietTag:     "vegetarian",
		MinCalories: 100,
		MaxCalories: 400,
	})
	require.NoError(t, err)

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, spoonacular.Query{Text: "bowl", MinCalories: 100, MaxCalories: 400}, searcher.queries[0])

	require.Len(t, resp.Results, 2)
	assert.Equal(t, int64(1), resp.Results[0].ID)
	assert.Equal(t, int64(3), resp.Results[1].ID)
	require.Len(t, resp.Tiles, 1)
	assert.Equal(t, int64(1), resp.Tiles[0].ID)
	assert.Equal(t, 99, resp.TotalResults)
	assert.InDelta(t, 20.0, resp.AverageLikes, 1e-9)
	assert.Equal(t, recipe.CalorieStatistics(100, 400), resp.CalorieStats)
}

func TestSearch_PropagatesError(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{err: common.ErrUpstream})

	_, err := svc.Search(context.Background(), SearchParams{Query: "x"})
	assert.True(t, errors.Is(err, common.ErrUpstream))
}

func TestSessionLifecycle(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})

	id, initial := svc.CreateSession()
	assert.NotEmpty(t, id)
	assert.Equal(t, state.Initial(), initial)

	got, err := svc.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, initial, got)

	require.NoError(t, svc.DeleteSession(id))
	_, err = svc.GetSession(id)
	assert.True(t, errors.Is(err, common.ErrSessionNotFound))
	assert.True(t, errors.Is(svc.DeleteSession(id), common.ErrSessionNotFound))
}

func TestDispatch_QueryChangedFetchesAndFilters(t *testing.T) {
	searcher := &fakeSearcher{results: fixtures(), total: 4}
	svc := newTestService(t, searcher)
	id, _ := svc.CreateSession()
	ctx := context.Background()

	st, err := svc.Dispatch(ctx, id, state.QueryChanged{Query: "veg"})
	require.NoError(t, err)

	require.Len(t, searcher.queries, 1)
	assert.Equal(t, spoonacular.Query{Text: "veg", MinCalories: 50, MaxCalories: 800}, searcher.queries[0])
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Len(t, st.Results, 4)
	assert.Len(t, st.Filtered, 3)
	assert.Equal(t, 4, st.TotalResults)
	assert.InDelta(t, 20.0, st.AverageLikes, 1e-9)

	st, err = svc.Dispatch(ctx, id, state.DietTagChanged{Tag: "vegetarian"})
	require.NoError(t, err)
	assert.Len(t, searcher.queries, 1)
	require.Len(t, st.Filtered, 2)
	assert.Equal(t, int64(1), st.Filtered[0].ID)
	assert.Equal(t, int64(3), st.Filtered[1].ID)

	stored, err := svc.GetSession(id)
	require.NoError(t, err)
	assert.Equal(t, st, stored)
}

func TestDispatch_SearchFailureKeepsResults(t *testing.T) {
	searcher := &fakeSearcher{results: fixtures(), total: 4}
	svc := newTestService(t, searcher)
	id, _ := svc.CreateSession()
	ctx := context.Background()

	_, err := svc.Dispatch(ctx, id, state.QueryChanged{Query: "veg"})
	require.NoError(t, err)

	searcher.err = common.ErrServiceUnavailable
	st, err := svc.Dispatch(ctx, id, state.MaxCaloriesChanged{Value: 400})
	require.NoError(t, err)

	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.Error)
	assert.Len(t, st.Results, 4)
	assert.Equal(t, recipe.CalorieStatistics(50, 400), st.CalorieStats)
	require.Len(t, st.Filtered, 2)
}

func TestDispatch_Errors(t *testing.T) {
	svc := newTestService(t, &fakeSearcher{})

	_, err := svc.Dispatch(context.Background(), "missing", state.Submitted{})
	assert.True(t, errors.Is(err, common.ErrSessionNotFound))

	id, _ := svc.CreateSession()
	_, err = svc.Dispatch(context.Background(), id, nil)
	assert.True(t, errors.Is(err, common.ErrUnknownAction))
}
