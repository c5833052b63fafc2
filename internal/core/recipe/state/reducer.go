package state

import (
	"recipe-plaza/internal/core/recipe"
)

// Reduce 純函數：由目前狀態與 action 產生新狀態與待執行的副作用
func Reduce(s State, a Action) (State, []Effect) {
	switch a := a.(type) {
	case QueryChanged:
		s.Query = a.Query
		return requestFetch(s)

	case DietTagChanged:
		s.DietTag = a.Tag
		return refilter(s), nil

	case MinCaloriesChanged:
		s.MinCalories = a.Value
		return requestFetch(recalculate(s))

	case MaxCaloriesChanged:
		s.MaxCalories = a.Value
		return requestFetch(recalculate(s))

	case Submitted:
		return refilter(s), nil

	case SearchSucceeded:
		if a.Generation != s.Generation {
			return s, nil
		}
		results := a.Results
		if results == nil {
			results = []recipe.Recipe{}
		}
		s.Results = results
		s.TotalResults = a.TotalResults
		s.AverageLikes = recipe.AverageLikes(results)
		s.Loading = false
		s.Error = ""
		return refilter(s), nil

	case SearchFailed:
		if a.Generation != s.Generation {
			return s, nil
		}
		// 保留上一次的結果
		s.Loading = false
		if a.Err != nil {
			s.Error = a.Err.Error()
		} else {
			s.Error = "search failed"
		}
		return s, nil
	}

	return s, nil
}

// requestFetch 遞增世代並要求重新搜尋
func requestFetch(s State) (State, []Effect) {
	s.Generation++
	s.Loading = true
	return s, []Effect{FetchEffect{
		Generation:  s.Generation,
		Query:       s.Query,
		MinCalories: s.MinCalories,
		MaxCalories: s.MaxCalories,
	}}
}

// recalculate 熱量範圍變更後同步更新統計與篩選結果
func recalculate(s State) State {
	s.CalorieStats = recipe.CalorieStatistics(s.MinCalories, s.MaxCalories)
	return refilter(s)
}

func refilter(s State) State {
	s.Filtered = recipe.FilterRecipes(s.Results, s.Params())
	return s
}
