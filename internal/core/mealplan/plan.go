package mealplan

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Day WeeklyPlan 的七個固定鍵之一
type Day string

const (
	Monday    Day = "lunes"
	Tuesday   Day = "martes"
	Wednesday Day = "miercoles"
	Thursday  Day = "jueves"
	Friday    Day = "viernes"
	Saturday  Day = "sabado"
	Sunday    Day = "domingo"
)

// Days 依彙整順序列出一週
var Days = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayDisplayNames = map[Day]string{
	Monday:    "Lunes",
	Tuesday:   "Martes",
	Wednesday: "Miércoles",
	Thursday:  "Jueves",
	Friday:    "Viernes",
	Saturday:  "Sábado",
	Sunday:    "Domingo",
}

var (
	ErrUnknownDay      = errors.New("unknown day")
	ErrInvalidPortions = errors.New("portions must be a finite number greater than zero")
	ErrAssignmentIndex = errors.New("assignment index out of range")
	ErrMissingRecipeID = errors.New("recipe id is required")
)

// DisplayName 首字母大寫的西班牙文星期名稱
func (d Day) DisplayName() string {
	if name, ok := dayDisplayNames[d]; ok {
		return name
	}
	return string(d)
}

// Valid 是否為七個計畫鍵之一
func (d Day) Valid() bool {
	_, ok := dayDisplayNames[d]
	return ok
}

// ParseDay 驗證原始的星期鍵
func ParseDay(s string) (Day, error) {
	d := Day(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDay, s)
	}
	return d, nil
}

// WeeklyPlan 每天對應依插入順序排列的食譜指派
// 不支援並發修改，由呼叫端序列化
type WeeklyPlan map[Day][]RecipeAssignment

// NewWeeklyPlan 創建七天皆為空的計畫
func NewWeeklyPlan() WeeklyPlan {
	p := make(WeeklyPlan, len(Days))
	for _, d := range Days {
		p[d] = []RecipeAssignment{}
	}
	return p
}

// Normalize 補齊缺少的天數並移除非計畫的鍵
func (p WeeklyPlan) Normalize() WeeklyPlan {
	out := NewWeeklyPlan()
	for _, d := range Days {
		if items := p[d]; len(items) > 0 {
			out[d] = append(out[d], items...)
		}
	}
	return out
}

// Clone 深拷貝
func (p WeeklyPlan) Clone() WeeklyPlan {
	return p.Normalize()
}

// Add 在 day 末尾新增指派
func (p WeeklyPlan) Add(day Day, a RecipeAssignment) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	if a.RecipeID == "" {
		return ErrMissingRecipeID
	}
	if !IsValidPortions(a.Portions) {
		return fmt.Errorf("%w: %v", ErrInvalidPortions, a.Portions)
	}
	p[day] = append(p[day], a)
	return nil
}

// Remove 刪除 day 中第 index 筆指派
func (p WeeklyPlan) Remove(day Day, index int) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	items := p[day]
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d", ErrAssignmentIndex, index)
	}
	rest := make([]RecipeAssignment, 0, len(items)-1)
	rest = append(rest, items[:index]...)
	p[day] = append(rest, items[index+1:]...)
	return nil
}

// ClearDay 清空一天
func (p WeeklyPlan) ClearDay(day Day) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	p[day] = []RecipeAssignment{}
	return nil
}

// TotalRecipes 一週的指派總數
func (p WeeklyPlan) TotalRecipes() int {
	total := 0
	for _, d := range Days {
		total += len(p[d])
	}
	return total
}

// MarshalJSON 固定輸出七天，空的一天寫成 []
func (p WeeklyPlan) MarshalJSON() ([]byte, error) {
	out := make(map[string][]RecipeAssignment, len(Days))
	for _, d := range Days {
		items := p[d]
		if items == nil {
			items = []RecipeAssignment{}
		}
		out[string(d)] = items
	}
	return json.Marshal(out)
}

// UnmarshalJSON 接受部分物件並補齊缺少的天數
func (p *WeeklyPlan) UnmarshalJSON(data []byte) error {
	var raw map[Day][]RecipeAssignment
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = WeeklyPlan(raw).Normalize()
	return nil
}
