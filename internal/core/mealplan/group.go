package mealplan

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Criterion 採購清單的分組條件
type Criterion int

const (
	ByFirstLetter Criterion = iota
	ByUnit
	Ungrouped
	ByWeek
	ByDay
	ByRecipe
)

const (
	LabelNoUnit   = "Sin unidad"
	LabelAll      = "Todos"
	LabelFullWeek = "Semana Completa"
)

var criterionTags = [...]string{
	ByFirstLetter: "nombre",
	ByUnit:        "unidad",
	Ungrouped:     "ninguno",
	ByWeek:        "semana",
	ByDay:         "dia",
	ByRecipe:      "receta",
}

// String 回傳分組條件的傳輸標籤
func (c Criterion) String() string {
	if c < 0 || int(c) >= len(criterionTags) {
		return fmt.Sprintf("Criterion(%d)", int(c))
	}
	return criterionTags[c]
}

// ParseCriterion 解析傳輸標籤，空字串視為 ByFirstLetter
func ParseCriterion(tag string) (Criterion, error) {
	if tag == "" {
		return ByFirstLetter, nil
	}
	for c, t := range criterionTags {
		if t == tag {
			return Criterion(c), nil
		}
	}
	return 0, fmt.Errorf("unknown grouping criterion %q", tag)
}

// MarshalText 實作 encoding.TextMarshaler
func (c Criterion) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText 實作 encoding.TextUnmarshaler
func (c *Criterion) UnmarshalText(b []byte) error {
	parsed, err := ParseCriterion(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Group 帶標籤的一組食材
type Group struct {
	Label string                   `json:"grupo"`
	Items []ConsolidatedIngredient `json:"ingredientes"`
}

// Groups 依建立順序保存各組
type Groups []Group

// Get 取得標籤對應的食材
func (g Groups) Get(label string) ([]ConsolidatedIngredient, bool) {
	for _, grp := range g {
		if grp.Label == label {
			return grp.Items, true
		}
	}
	return nil, false
}

// Labels 依序回傳各組標籤
func (g Groups) Labels() []string {
	labels := make([]string, len(g))
	for i, grp := range g {
		labels[i] = grp.Label
	}
	return labels
}

// GroupIngredients 依 criterion 分組 items
// ByDay 與 ByRecipe 忽略 items，改由 plan 與 catalog 重新計算
func GroupIngredients(criterion Criterion, items []ConsolidatedIngredient, plan WeeklyPlan, catalog RecipeLookup) Groups {
	switch criterion {
	case ByDay:
		return groupByDay(plan, catalog)
	case ByRecipe:
		return groupByRecipe(plan, catalog)
	case ByWeek:
		return Groups{{Label: LabelFullWeek, Items: nonNil(items)}}
	case Ungrouped:
		return Groups{{Label: LabelAll, Items: nonNil(items)}}
	case ByUnit:
		return bucket(items, func(ing ConsolidatedIngredient) string {
			if ing.Unit == "" {
				return LabelNoUnit
			}
			return ing.Unit
		})
	default:
		return bucket(items, func(ing ConsolidatedIngredient) string {
			return firstLetter(ing.Name)
		})
	}
}

func bucket(items []ConsolidatedIngredient, label func(ConsolidatedIngredient) string) Groups {
	groups := Groups{}
	index := make(map[string]int)
	for _, ing := range items {
		l := label(ing)
		i, ok := index[l]
		if !ok {
			i = len(groups)
			index[l] = i
			groups = append(groups, Group{Label: l})
		}
		groups[i].Items = append(groups[i].Items, ing)
	}
	return groups
}

func groupByDay(plan WeeklyPlan, catalog RecipeLookup) Groups {
	groups := Groups{}
	for _, d := range Days {
		day := ConsolidateDay(plan[d], catalog)
		if day.Len() == 0 {
			continue
		}
		groups = append(groups, Group{Label: d.DisplayName(), Items: day.Items()})
	}
	return groups
}

func groupByRecipe(plan WeeklyPlan, catalog RecipeLookup) Groups {
	var names []string
	perRecipe := make(map[string]*Consolidated)
	if catalog == nil {
		return Groups{}
	}
	for _, d := range Days {
		for _, a := range plan[d] {
			recipe, ok := catalog.Lookup(a.RecipeID)
			if !ok {
				continue
			}
			c, seen := perRecipe[a.Name]
			if !seen {
				c = NewConsolidated()
				perRecipe[a.Name] = c
				names = append(names, a.Name)
			}
			for _, ing := range ScaleIngredients(recipe.Ingredients, a.Portions) {
				c.Add(ing.Name, ing.Unit, ing.TotalQuantity)
			}
		}
	}

	groups := make(Groups, 0, len(names))
	for _, name := range names {
		groups = append(groups, Group{Label: name, Items: perRecipe[name].Items()})
	}
	return groups
}

func firstLetter(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return ""
	}
	return strings.ToUpper(string(r))
}

func nonNil(items []ConsolidatedIngredient) []ConsolidatedIngredient {
	if items == nil {
		return []ConsolidatedIngredient{}
	}
	return items
}
