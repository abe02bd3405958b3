package export

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"recetario-pae/internal/core/mealplan"

	"github.com/xuri/excelize/v2"
)

const (
	SheetShoppingList = "Lista de Compras"
	SheetWeeklyPlan   = "Planificación"
	SheetDailyDetail  = "Ingredientes por Día"
	SheetRecipe       = "Receta"

	defaultSheet = "Sheet1"
	noRecipes    = "Sin recetas programadas"
)

// DateLabel 以 d/m/yyyy 格式顯示日期
func DateLabel(t time.Time) string {
	return t.Format("2/1/2006")
}

// ShoppingListFilename 採購清單活頁簿的下載檔名
func ShoppingListFilename(t time.Time) string {
	return "lista-compras-" + t.Format("2006-01-02") + ".xlsx"
}

// WeeklyPlanFilename 每週計畫活頁簿的下載檔名
func WeeklyPlanFilename(t time.Time) string {
	return "planificador-semanal-" + t.Format("2006-01-02") + ".xlsx"
}

var whitespace = regexp.MustCompile(`\s+`)

// RecipeFilename 縮放食譜活頁簿的下載檔名
func RecipeFilename(name string, t time.Time) string {
	safe := strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(name), "-"))
	return safe + "-" + t.Format("2006-01-02") + ".xlsx"
}

// ShoppingListWorkbook 建立只含彙整清單的單頁活頁簿
func ShoppingListWorkbook(items []mealplan.ConsolidatedIngredient, date time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, SheetShoppingList); err != nil {
		return nil, err
	}
	if err := writeShoppingList(f, SheetShoppingList, items, date); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WeeklyPlanWorkbook 建立計畫摘要、每日食材與每週採購清單三個工作表
func WeeklyPlanWorkbook(plan mealplan.WeeklyPlan, catalog mealplan.RecipeLookup, date time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := buildWeeklyPlan(f, plan, catalog, date); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func buildWeeklyPlan(f *excelize.File, plan mealplan.WeeklyPlan, catalog mealplan.RecipeLookup, date time.Time) error {
	if err := f.SetSheetName(defaultSheet, SheetWeeklyPlan); err != nil {
		return err
	}

	summary := &sheetWriter{f: f, sheet: SheetWeeklyPlan}
	summary.add("PLANIFICADOR SEMANAL - RECETARIO PAE")
	summary.add("Fecha:", DateLabel(date))
	summary.add()
	for _, day := range mealplan.Days {
		summary.add(day.DisplayName())
		if len(plan[day]) == 0 {
			summary.add(noRecipes)
		}
		for _, a := range plan[day] {
			summary.add("  - "+a.Name, PortionsLabel(a.Portions))
		}
		summary.add()
	}
	summary.widths(40, 20)
	if summary.err != nil {
		return summary.err
	}

	if _, err := f.NewSheet(SheetDailyDetail); err != nil {
		return err
	}
	detail := &sheetWriter{f: f, sheet: SheetDailyDetail}
	detail.add("INGREDIENTES POR DÍA")
	for _, day := range mealplan.Days {
		detail.add()
		detail.add(day.DisplayName() + " - INGREDIENTES")
		detail.add("Ingrediente", "Cantidad", "Unidad")
		for _, ing := range mealplan.ConsolidateDay(plan[day], catalog).Items() {
			detail.add(ing.Name, mealplan.FormatNumber(ing.TotalQuantity), ing.Unit)
		}
	}
	detail.widths(35, 15, 12)
	if detail.err != nil {
		return detail.err
	}

	if _, err := f.NewSheet(SheetShoppingList); err != nil {
		return err
	}
	return writeShoppingList(f, SheetShoppingList, mealplan.ConsolidateWeek(plan, catalog), date)
}

// RecipeWorkbook 建立單一食譜的每份與總量
func RecipeWorkbook(recipe mealplan.Recipe, portions float64, date time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, SheetRecipe); err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: SheetRecipe}
	w.add("CÁLCULO DE INGREDIENTES")
	w.add("Receta:", recipe.Name)
	w.add("Porciones:", portions)
	w.add("Fecha:", DateLabel(date))
	w.add()
	w.add("Ingrediente", "Cantidad por Porción", "Unidad", "Cantidad Total")
	for _, ing := range mealplan.ScaleIngredients(recipe.Ingredients, portions) {
		w.add(ing.Name, mealplan.FormatNumber(ing.Quantity), ing.Unit, mealplan.FormatNumber(ing.TotalQuantity))
	}
	w.widths(35, 20, 12, 15)
	if w.err != nil {
		_ = f.Close()
		return nil, w.err
	}
	return f, nil
}

// PortionsLabel 顯示 "N porciones"
func PortionsLabel(portions float64) string {
	return strconv.FormatFloat(portions, 'f', -1, 64) + " porciones"
}

// writeShoppingList 以串流方式寫入清單，清單可能有數百行
func writeShoppingList(f *excelize.File, sheet string, items []mealplan.ConsolidatedIngredient, date time.Time) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	for col, width := range []float64{35, 15, 12} {
		if err := sw.SetColWidth(col+1, col+1, width); err != nil {
			return err
		}
	}

	rows := [][]interface{}{
		{"LISTA DE COMPRAS - RECETARIO PAE"},
		{"Fecha:", DateLabel(date)},
		nil,
		{"Ingrediente", "Cantidad", "Unidad"},
	}
	for _, ing := range items {
		rows = append(rows, []interface{}{ing.Name, mealplan.FormatNumber(ing.TotalQuantity), ing.Unit})
	}

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// sheetWriter 由上而下寫入列並保留第一個錯誤
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) add(values ...interface{}) {
	w.row++
	if w.err != nil || len(values) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("sheet %s row %d: %w", w.sheet, w.row, err)
	}
}

func (w *sheetWriter) widths(widths ...float64) {
	for i, width := range widths {
		if w.err != nil {
			return
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return
		}
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}
