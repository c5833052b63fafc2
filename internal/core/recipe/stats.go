package recipe

import (
	"slices"
)

// CalorieStatistics 計算 [min, max] 整數序列本身的平均數、中位數與眾數。
// 統計的是篩選範圍，而非搜尋結果的實際熱量。
// minCalories > maxCalories 時序列為空，回傳零值。
func CalorieStatistics(minCalories, maxCalories int) CalorieStats {
	if minCalories > maxCalories {
		return CalorieStats{}
	}

	values := make([]int, 0, maxCalories-minCalories+1)
	for v := minCalories; v <= maxCalories; v++ {
		values = append(values, v)
	}

	return CalorieStats{
		Mean:   mean(values),
		Median: median(values),
		Mode:   mode(values),
	}
}

func mean(values []int) float64 {
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

// median 依位置取中位數，偶數長度取中間兩數平均
func median(values []int) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}

// mode 只有出現次數嚴格大於目前最大值時才替換，平手時保留最先出現者
func mode(values []int) int {
	counts := make(map[int]int, len(values))
	maxCount := 0
	result := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > maxCount {
			maxCount = counts[v]
			result = v
		}
	}
	return result
}
