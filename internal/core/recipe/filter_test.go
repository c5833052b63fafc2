package recipe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"recipe-plaza/internal/pkg/common"
)

func sampleRecipes() []Recipe {
	return []Recipe{
		{ID: 1, Title: "Vegan Curry", Diet: []string{"vegan", "gluten free"}, Calories: Float(600), Likes: Float(12)},
		{ID: 2, Title: "Plain Rice", Diet: []string{}, Calories: Float(100)},
		{ID: 3, Title: "Veggie Pasta", Diet: []string{"vegetarian"}, Calories: Float(450), Likes: Float(0)},
		{ID: 4, Title: "Mystery Stew", Diet: nil, Calories: nil, Likes: Float(3)},
		{ID: 5, Title: "Big Burger", Diet: []string{"Vegan"}, Calories: Float(900)},
	}
}

func ids(recipes []Recipe) []int64 {
	out := make([]int64, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterRecipes(t *testing.T) {
	tests := []struct {
		name   string
		params FilterParameters
		want   []int64
	}{
		{
			name:   "no diet filter keeps calorie window",
			params: FilterParameters{MinCalories: 50, MaxCalories: 800},
			want:   []int64{1, 2, 3},
		},
		{
			name:   "diet tag is exact and case sensitive",
			params: FilterParameters{DietTag: "vegan", MinCalories: 50, MaxCalories: 1000},
			want:   []int64{1},
		},
		{
			name:   "bounds are inclusive",
			params: FilterParameters{MinCalories: 100, MaxCalories: 450},
			want:   []int64{2, 3},
		},
		{
			name:   "no partial tag match",
			params: FilterParameters{DietTag: "veg", MinCalories: 0, MaxCalories: 1000},
			want:   []int64{},
		},
		{
			name:   "missing calories always excluded",
			params: FilterParameters{MinCalories: math.MinInt, MaxCalories: math.MaxInt},
			want:   []int64{1, 2, 3, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRecipes(sampleRecipes(), tt.params)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterRecipes_MissingDietWithActiveTag(t *testing.T) {
	recipes := []Recipe{
		{ID: 1, Title: "Untagged Salad", Diet: nil, Calories: Float(300)},
		{ID: 2, Title: "Tofu Bowl", Diet: []string{"vegan"}, Calories: Float(300)},
	}

	got := FilterRecipes(recipes, FilterParameters{DietTag: "vegan", MinCalories: 50, MaxCalories: 800})
	assert.Equal(t, []int64{2}, ids(got))

	// 未指定飲食條件時同一筆資料仍會保留
	got = FilterRecipes(recipes, FilterParameters{MinCalories: 50, MaxCalories: 800})
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestFilterRecipes_Scenario(t *testing.T) {
	recipes := []Recipe{
		{ID: 1, Calories: Float(600), Diet: []string{"vegan"}},
		{ID: 2, Calories: Float(100), Diet: []string{}},
	}
	got := FilterRecipes(recipes, FilterParameters{DietTag: "vegan", MinCalories: 50, MaxCalories: 800})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFilterRecipes_Empty(t *testing.T) {
	assert.Empty(t, FilterRecipes(nil, FilterParameters{MinCalories: 50, MaxCalories: 800}))
	assert.Empty(t, FilterRecipes([]Recipe{}, FilterParameters{DietTag: "vegan"}))
}

func TestFilterRecipes_UnboundedIsIdentity(t *testing.T) {
	recipes := []Recipe{
		{ID: 9, Calories: Float(-5)},
		{ID: 7, Calories: Float(10000), Diet: []string{"paleo"}},
		{ID: 8, Calories: Float(0)},
	}
	got := FilterRecipes(recipes, FilterParameters{MinCalories: math.MinInt, MaxCalories: math.MaxInt})
	assert.Equal(t, recipes, got)
}

func TestFilterRecipes_NaNCaloriesExcluded(t *testing.T) {
	recipes := []Recipe{{ID: 1, Calories: Float(math.NaN())}}
	assert.Empty(t, FilterRecipes(recipes, FilterParameters{MinCalories: math.MinInt, MaxCalories: math.MaxInt}))
}

func TestFilterRecipes_Idempotent(t *testing.T) {
	params := FilterParameters{DietTag: "vegetarian", MinCalories: 50, MaxCalories: 800}
	once := FilterRecipes(sampleRecipes(), params)
	twice := FilterRecipes(once, params)
	assert.Equal(t, once, twice)
}

func TestFilterRecipes_SubsequenceAndInputUntouched(t *testing.T) {
	in := sampleRecipes()
	snapshot := sampleRecipes()
	got := FilterRecipes(in, FilterParameters{MinCalories: 50, MaxCalories: 800})

	// 結果必須是輸入的子序列
	j := 0
	for _, r := range in {
		if j < len(got) && got[j].ID == r.ID {
			j++
		}
	}
	assert.Equal(t, len(got), j)
	assert.Equal(t, snapshot, in)
}

func TestAverageLikes(t *testing.T) {
	tests := []struct {
		name    string
		recipes []Recipe
		want    float64
	}{
		{name: "empty", recipes: nil, want: 0},
		{name: "no likes present", recipes: []Recipe{{ID: 1}, {ID: 2}}, want: 0},
		{name: "missing likes skipped", recipes: []Recipe{{Likes: Float(5)}, {}, {Likes: Float(3)}}, want: 4},
		{name: "zero counts as present", recipes: []Recipe{{Likes: Float(0)}, {Likes: Float(3)}}, want: 1.5},
		{name: "no rounding", recipes: []Recipe{{Likes: Float(1)}, {Likes: Float(1)}, {Likes: Float(2)}}, want: 4.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AverageLikes(tt.recipes))
		})
	}
}

func TestDisplayable(t *testing.T) {
	recipes := []Recipe{
		{ID: 1, Image: "https://img.spoonacular.com/recipes/1-312x231.jpg"},
		{ID: 2, Image: "https://img.spoonacular.com/recipes/2-312x231.webp"},
		{ID: 3, Image: ""},
		{ID: 4, Image: "https://cdn.example.com/a.png"},
		{ID: 5, Image: "https://cdn.example.com/a.JPG"},
	}
	assert.Equal(t, []int64{1, 4}, ids(Displayable(recipes)))
}

func TestRecipeUnmarshal_Lenient(t *testing.T) {
	payload := `[
		{"id": 1, "title": "a", "image": "a.jpg", "diet": ["vegan"], "calories": 600, "likes": 0},
		{"id": 2, "title": "b", "calories": "600", "likes": "many"},
		{"id": 3, "title": "c", "diet": "vegan", "calories": null},
		{"id": 4, "title": "d", "diets": ["paleo"], "calories": 12.5, "sourceUrl": "https://x"}
	]`

	var recipes []Recipe
	require.NoError(t, common.ParseJSON(payload, &recipes))
	require.Len(t, recipes, 4)

	require.NotNil(t, recipes[0].Calories)
	assert.Equal(t, 600.0, *recipes[0].Calories)
	require.NotNil(t, recipes[0].Likes)
	assert.Equal(t, 0.0, *recipes[0].Likes)
	assert.Equal(t, []string{"vegan"}, recipes[0].Diet)

	assert.Nil(t, recipes[1].Calories)
	assert.Nil(t, recipes[1].Likes)

	assert.Nil(t, recipes[2].Diet)
	assert.Nil(t, recipes[2].Calories)

	assert.Equal(t, []string{"paleo"}, recipes[3].Diet)
	assert.Equal(t, "https://x", recipes[3].SourceURL)

	got := FilterRecipes(recipes, FilterParameters{DietTag: "vegan", MinCalories: 0, MaxCalories: 1000})
	assert.Equal(t, []int64{1}, ids(got))
}
