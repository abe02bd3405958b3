package mealplan

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Consolidated 以食材識別鍵彙整數量，並保留首次插入順序
type Consolidated struct {
	order []string
	items map[string]*ConsolidatedIngredient
}

// NewConsolidated 創建空的彙整表
func NewConsolidated() *Consolidated {
	return &Consolidated{items: make(map[string]*ConsolidatedIngredient)}
}

// Add 將數量併入 (name, unit) 對應的條目
func (c *Consolidated) Add(name, unit string, total float64) {
	c.add(ConsolidatedIngredient{Name: name, Unit: unit, TotalQuantity: total})
}

func (c *Consolidated) add(ing ConsolidatedIngredient) {
	key := ing.Key()
	if existing, ok := c.items[key]; ok {
		existing.TotalQuantity += ing.TotalQuantity
		return
	}
	c.items[key] = &ing
	c.order = append(c.order, key)
}

// Merge 將 other 的所有條目併入 c
func (c *Consolidated) Merge(other *Consolidated) {
	if other == nil {
		return
	}
	for _, key := range other.order {
		c.add(*other.items[key])
	}
}

// Get 取得 key 對應的條目
func (c *Consolidated) Get(key string) (ConsolidatedIngredient, bool) {
	ing, ok := c.items[key]
	if !ok {
		return ConsolidatedIngredient{}, false
	}
	return *ing, true
}

// Len 不重複食材數量
func (c *Consolidated) Len() int {
	return len(c.order)
}

// Items 依首次插入順序回傳條目
func (c *Consolidated) Items() []ConsolidatedIngredient {
	out := make([]ConsolidatedIngredient, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, *c.items[key])
	}
	return out
}

// ConsolidateDay 縮放一天的每筆指派並彙整，目錄中不存在的食譜會被略過
func ConsolidateDay(assignments []RecipeAssignment, catalog RecipeLookup) *Consolidated {
	out := NewConsolidated()
	if catalog == nil {
		return out
	}
	for _, a := range assignments {
		recipe, ok := catalog.Lookup(a.RecipeID)
		if !ok {
			continue
		}
		for _, ing := range ScaleIngredients(recipe.Ingredients, a.Portions) {
			out.Add(ing.Name, ing.Unit, ing.TotalQuantity)
		}
	}
	return out
}

// ConsolidateWeek 將七天彙整為一份採購清單，依西班牙文排序規則按名稱排序
func ConsolidateWeek(plan WeeklyPlan, catalog RecipeLookup) []ConsolidatedIngredient {
	week := NewConsolidated()
	for _, d := range Days {
		week.Merge(ConsolidateDay(plan[d], catalog))
	}

	items := week.Items()
	SortByName(items)
	return items
}

// SortByName 依西班牙文排序規則按名稱排序，同名條目保持原順序
func SortByName(items []ConsolidatedIngredient) {
	// collate.Collator 帶有內部緩衝區，不可共用
	col := collate.New(language.Spanish)
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})
}
