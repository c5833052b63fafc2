package recipe

import (
	"bytes"
	"regexp"

	json "github.com/goccy/go-json"
)

// Recipe 搜尋 API 回傳的食譜
// calories 與 likes 為指標：nil 代表欄位缺少或不是數值
type Recipe struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Image     string   `json:"image"`
	SourceURL string   `json:"sourceUrl,omitempty"`
	Diet      []string `json:"diet"`
	Calories  *float64 `json:"calories,omitempty"`
	Likes     *float64 `json:"likes,omitempty"`
}

// rawRecipe 解碼用的寬鬆結構
type rawRecipe struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	SourceURL string          `json:"sourceUrl"`
	Diet      json.RawMessage `json:"diet"`
	Diets     json.RawMessage `json:"diets"`
	Calories  json.RawMessage `json:"calories"`
	Likes     json.RawMessage `json:"likes"`
}

var nullLiteral = []byte("null")

// UnmarshalJSON 寬鬆解析：非數值的 calories/likes 與非陣列的 diet 視為缺少
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var raw rawRecipe
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = raw.ID
	r.Title = raw.Title
	r.Image = raw.Image
	r.SourceURL = raw.SourceURL
	r.Calories = numeric(raw.Calories)
	r.Likes = numeric(raw.Likes)

	r.Diet = stringList(raw.Diet)
	if r.Diet == nil {
		r.Diet = stringList(raw.Diets)
	}
	return nil
}

// numeric 僅接受 JSON 數字
func numeric(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullLiteral) {
		return nil
	}
	// 字串形式的數字（例如 "600"）不算數值
	if raw[0] == '"' {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func stringList(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, nullLiteral) {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// HasDiet 是否包含指定飲食標籤（區分大小寫、完全相符）
func (r Recipe) HasDiet(tag string) bool {
	for _, d := range r.Diet {
		if d == tag {
			return true
		}
	}
	return false
}

// WithinCalories 熱量為數值且落在 [minCalories, maxCalories] 內
func (r Recipe) WithinCalories(minCalories, maxCalories int) bool {
	if r.Calories == nil {
		return false
	}
	c := *r.Calories
	return c >= float64(minCalories) && c <= float64(maxCalories)
}

var displayableImage = regexp.MustCompile(`\.(jpeg|jpg|gif|png)$`)

// HasDisplayableImage 圖片網址是否為可直接顯示的格式
func (r Recipe) HasDisplayableImage() bool {
	return displayableImage.MatchString(r.Image)
}

// FilterParameters 篩選條件
type FilterParameters struct {
	DietTag     string `json:"diet_tag"`
	MinCalories int    `json:"min_calories"`
	MaxCalories int    `json:"max_calories"`
}

// CalorieStats 熱量範圍統計
type CalorieStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   int     `json:"mode"`
}

// 滑桿的預設範圍與可接受的熱量上限
const (
	DefaultMinCalories = 50
	DefaultMaxCalories = 800
	MaxCalorieBound    = 5000
)

// Float 取得數值指標，方便建立測試資料與請求
func Float(v float64) *float64 {
	return &v
}
