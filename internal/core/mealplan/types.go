package mealplan

// Ingredient 食譜中的一項食材，Quantity 為單份用量
type Ingredient struct {
	Name     string  `json:"nombre" yaml:"nombre"`
	Quantity float64 `json:"cantidad" yaml:"cantidad"`
	Unit     string  `json:"unidad" yaml:"unidad"`
}

// Recipe 不可變的目錄條目
type Recipe struct {
	ID             string       `json:"id" yaml:"id"`
	Name           string       `json:"nombre" yaml:"nombre"`
	Category       string       `json:"categoria" yaml:"categoria"`
	Ingredients    []Ingredient `json:"ingredientes" yaml:"ingredientes"`
	PortionWeightG float64      `json:"peso_porcion_g" yaml:"peso_porcion_g"`
}

// ScaledIngredient 乘以份數後的食材
type ScaledIngredient struct {
	Name          string  `json:"nombre"`
	Quantity      float64 `json:"cantidad"`
	Unit          string  `json:"unidad"`
	TotalQuantity float64 `json:"cantidad_total"`
}

// RecipeAssignment 計畫中某天的一筆食譜指派
type RecipeAssignment struct {
	RecipeID string  `json:"recetaId"`
	Name     string  `json:"nombre"`
	Portions float64 `json:"porciones"`
}

// ConsolidatedIngredient 同一食材合併後的總量
type ConsolidatedIngredient struct {
	Name          string  `json:"nombre"`
	Unit          string  `json:"unidad"`
	TotalQuantity float64 `json:"cantidad_total"`
}

// Key 合併用的識別鍵
func (c ConsolidatedIngredient) Key() string {
	return IngredientKey(c.Name, c.Unit)
}

// RecipeLookup 從唯讀目錄依 id 查詢食譜
type RecipeLookup interface {
	Lookup(id string) (Recipe, bool)
}

// RecipeIndex 以 id 索引的 RecipeLookup
type RecipeIndex map[string]Recipe

// Lookup 實作 RecipeLookup
func (idx RecipeIndex) Lookup(id string) (Recipe, bool) {
	r, ok := idx[id]
	return r, ok
}

// IndexRecipes 建立 RecipeIndex，重複 id 保留第一筆
func IndexRecipes(recipes []Recipe) RecipeIndex {
	idx := make(RecipeIndex, len(recipes))
	for _, r := range recipes {
		if _, exists := idx[r.ID]; exists {
			continue
		}
		idx[r.ID] = r
	}
	return idx
}
