package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ParsePortions 解析並驗證份數字串
func ParsePortions(raw string) (float64, error) {
	if !mealplan.IsValidQuantity(raw) {
		return 0, fmt.Errorf("%w: %q", mealplan.ErrInvalidPortions, raw)
	}
	v, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if !mealplan.IsValidPortions(v) {
		return 0, fmt.Errorf("%w: %q", mealplan.ErrInvalidPortions, raw)
	}
	return v, nil
}

// ParseIndex 解析路徑中的索引
func ParseIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(fmt.Sprintf("invalid index %q", raw))
	}
	return i, nil
}

// Criterion 讀取 agrupar 參數，未提供時依名稱首字母分組
func Criterion(c *gin.Context) (mealplan.Criterion, error) {
	criterion, err := mealplan.ParseCriterion(c.Query("agrupar"))
	if err != nil {
		return 0, common.ErrInvalidCriterion.Wrap(err)
	}
	return criterion, nil
}

// Day 讀取路徑中的 day 參數
func Day(c *gin.Context) (mealplan.Day, error) {
	return mealplan.ParseDay(c.Param("day"))
}
