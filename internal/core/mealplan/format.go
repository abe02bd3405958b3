package mealplan

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber 顯示數量，最多兩位小數且去除尾端的零，0 與 NaN 顯示為 "0"
// 回傳的字串僅供顯示，不可再用於計算總量
func FormatNumber(v float64) string {
	switch {
	case v == 0 || math.IsNaN(v):
		return "0"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == math.Trunc(v):
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatOptional 可能缺值時的 FormatNumber
func FormatOptional(v *float64) string {
	if v == nil {
		return "0"
	}
	return FormatNumber(*v)
}
