package mealplan

import (
	"math"
	"strconv"
	"strings"
)

// IsValidQuantity 使用者輸入是否為大於零的有限數字
func IsValidQuantity(raw string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return false
	}
	return IsValidPortions(v)
}

// IsValidPortions 數值版的 IsValidQuantity
func IsValidPortions(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
