package recipe

// FilterRecipes 依飲食標籤與熱量範圍篩選食譜，保留原始順序
func FilterRecipes(recipes []Recipe, params FilterParameters) []Recipe {
	filtered := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if params.DietTag != "" && !r.HasDiet(params.DietTag) {
			continue
		}
		if !r.WithinCalories(params.MinCalories, params.MaxCalories) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// AverageLikes 計算有提供 likes 的食譜平均值，沒有任何 likes 時回傳 0
func AverageLikes(recipes []Recipe) float64 {
	var (
		total float64
		count int
	)
	for _, r := range recipes {
		if r.Likes == nil {
			continue
		}
		total += *r.Likes
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Displayable 只保留圖片可直接顯示的食譜
func Displayable(recipes []Recipe) []Recipe {
	tiles := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.HasDisplayableImage() {
			tiles = append(tiles, r)
		}
	}
	return tiles
}
