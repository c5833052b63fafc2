package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"recipe-plaza/internal/core/recipe"
	"recipe-plaza/internal/core/service"
	"recipe-plaza/internal/core/spoonacular"
	"recipe-plaza/internal/infrastructure/config"
	"recipe-plaza/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	query spoonacular.Query
	err   error
}

func (f *fakeSearcher) Search(_ context.Context, q spoonacular.Query) (*spoonacular.SearchResult, error) {
	f.query = q
	if f.err != nil {
		return nil, f.err
	}
	return &spoonacular.SearchResult{
		Results: []recipe.Recipe{
			{ID: 1, Title: "Veg Bowl", Image: "a.jpg", Diet: []string{"vegetarian"}, Calories: recipe.Float(300), Likes: recipe.Float(10)},
			{ID: 2, Title: "Steak", Image: "b.png", Diet: []string{"paleo"}, Calories: recipe.Float(700), Likes: recipe.Float(30)},
		},
		TotalResults: 2,
	}, nil
}

func run(t *testing.T, searcher *fakeSearcher, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	released := false
	cmd := newRootCommand(&options{
		out:        &out,
		loadConfig: func() (*config.Config, error) { return &config.Config{}, nil },
		newSearch: func(context.Context, *config.Config) (spoonacular.Searcher, func(), error) {
			return searcher, func() { released = true }, nil
		},
	})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil && len(args) > 0 && args[0] == "search" {
		assert.True(t, released)
	}
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	out, err := run(t, nil, "stats", "--min", "1", "--max", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Calories 1-3")
	assert.Contains(t, out, "Mean: 2.00  Median: 2.00  Mode: 1")
}

func TestStatsCommand_JSON(t *testing.T) {
	out, err := run(t, nil, "stats", "--min", "1", "--max", "4", "-o", "json")
	require.NoError(t, err)

	var got statsOutput
	require.NoError(t, common.ParseJSON(out, &got))
	assert.Equal(t, 1, got.MinCalories)
	assert.Equal(t, 4, got.MaxCalories)
	assert.Equal(t, recipe.CalorieStatistics(1, 4), got.Stats)
}

func TestStatsCommand_InvertedWindow(t *testing.T) {
	_, err := run(t, nil, "stats", "--min", "10", "--max", "1")
	assert.True(t, errors.Is(err, common.ErrInvalidCalorieWindow))
}

func TestStatsCommand_OutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "huge max", args: []string{"stats", "--min", "0", "--max", "2000000000"}},
		{name: "max int", args: []string{"stats", "--min", "0", "--max", "9223372036854775807"}},
		{name: "negative min", args: []string{"stats", "--min", "-1", "--max", "10"}},
		{name: "search huge max", args: []string{"search", "--min", "0", "--max", "5001"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{}
			_, err := run(t, searcher, tt.args...)
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err), "got %v", err)
			assert.Equal(t, spoonacular.Query{}, searcher.query)
		})
	}
}

func TestStatsCommand_UpperBound(t *testing.T) {
	out, err := run(t, nil, "stats", "--min", "0", "--max", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "Calories 0-5000")
}

func TestSearchCommand(t *testing.T) {
	searcher := &fakeSearcher{}
	out, err := run(t, searcher, "search", "-q", "bowl", "-d", "vegetarian", "--min", "100", "--max", "500")
	require.NoError(t, err)

	assert.Equal(t, spoonacular.Query{Text: "bowl", MinCalories: 100, MaxCalories: 500}, searcher.query)
	assert.Contains(t, out, "Veg Bowl")
	assert.NotContains(t, out, "Steak")
	assert.Contains(t, out, "Showing 1 of 2 results (1 with images)")
	assert.Contains(t, out, "Average likes: 20.00")
}

func TestSearchCommand_JSON(t *testing.T) {
	out, err := run(t, &fakeSearcher{}, "search", "-q", "x", "-o", "json")
	require.NoError(t, err)

	var got service.SearchResponse
	require.NoError(t, common.ParseJSON(out, &got))
	assert.Len(t, got.Results, 2)
	assert.Equal(t, recipe.CalorieStatistics(recipe.DefaultMinCalories, recipe.DefaultMaxCalories), got.CalorieStats)
}

func TestSearchCommand_Errors(t *testing.T) {
	_, err := run(t, &fakeSearcher{err: common.ErrUpstream}, "search", "-q", "x")
	assert.True(t, errors.Is(err, common.ErrUpstream))

	_, err = run(t, &fakeSearcher{}, "search", "--min", "900", "--max", "100")
	assert.True(t, errors.Is(err, common.ErrInvalidCalorieWindow))

	_, err = run(t, &fakeSearcher{}, "search", "-o", "yaml")
	assert.Error(t, err)
}
