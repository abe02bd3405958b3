package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"recetario-pae/internal/core/mealplan"

	"github.com/xuri/excelize/v2"
)

var testDate = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)

var testCatalog = mealplan.IndexRecipes([]mealplan.Recipe{
	{ID: "A", Name: "Arroz con pollo", Ingredients: []mealplan.Ingredient{
		{Name: "Arroz", Quantity: 0.1, Unit: "kg"},
		{Name: "Pollo", Quantity: 0.15, Unit: "kg"},
	}},
	{ID: "B", Name: "Ensalada", Ingredients: []mealplan.Ingredient{
		{Name: "Tomate", Quantity: 0.05, Unit: "kg"},
		{Name: "Sal", Quantity: 1, Unit: ""},
	}},
})

func testPlan() mealplan.WeeklyPlan {
	p := mealplan.NewWeeklyPlan()
	p[mealplan.Monday] = []mealplan.RecipeAssignment{{RecipeID: "A", Name: "Arroz con pollo", Portions: 100}}
	p[mealplan.Wednesday] = []mealplan.RecipeAssignment{{RecipeID: "B", Name: "Ensalada", Portions: 40}}
	return p
}

// reopen serializes the workbook and reads it back.
func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	out, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("Failed to reopen workbook: %v", err)
	}
	t.Cleanup(func() { out.Close() })
	return out
}

func cell(t *testing.T, f *excelize.File, sheet, axis string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, axis)
	if err != nil {
		t.Fatalf("GetCellValue(%s, %s) failed: %v", sheet, axis, err)
	}
	return v
}

func TestShoppingListWorkbook(t *testing.T) {
	items := mealplan.ConsolidateWeek(testPlan(), testCatalog)
	f, err := ShoppingListWorkbook(items, testDate)
	if err != nil {
		t.Fatalf("ShoppingListWorkbook failed: %v", err)
	}
	f = reopen(t, f)

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetShoppingList {
		t.Fatalf("Unexpected sheets %v", sheets)
	}

	tests := map[string]string{
		"A1": "LISTA DE COMPRAS - RECETARIO PAE",
		"A2": "Fecha:",
		"B2": "5/3/2024",
		"A4": "Ingrediente",
		"B4": "Cantidad",
		"C4": "Unidad",
		"A5": "Arroz",
		"B5": "10",
		"C5": "kg",
		"A7": "Sal",
		"B7": "40",
		"C7": "",
	}
	for axis, want := range tests {
		if got := cell(t, f, SheetShoppingList, axis); got != want {
			t.Errorf("Cell %s: expected %q, got %q", axis, want, got)
		}
	}

	width, err := f.GetColWidth(SheetShoppingList, "A")
	if err != nil || width != 35 {
		t.Errorf("Expected column A width 35, got %v (%v)", width, err)
	}
}

func TestWeeklyPlanWorkbook(t *testing.T) {
	f, err := WeeklyPlanWorkbook(testPlan(), testCatalog, testDate)
	if err != nil {
		t.Fatalf("WeeklyPlanWorkbook failed: %v", err)
	}
	f = reopen(t, f)

	want := []string{SheetWeeklyPlan, SheetDailyDetail, SheetShoppingList}
	sheets := f.GetSheetList()
	if len(sheets) != len(want) {
		t.Fatalf("Expected sheets %v, got %v", want, sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Errorf("Sheet %d: expected %q, got %q", i, want[i], sheets[i])
		}
	}

	t.Run("Summary", func(t *testing.T) {
		if got := cell(t, f, SheetWeeklyPlan, "A4"); got != "Lunes" {
			t.Errorf("Expected Lunes, got %q", got)
		}
		if got := cell(t, f, SheetWeeklyPlan, "A5"); got != "  - Arroz con pollo" {
			t.Errorf("Unexpected recipe row %q", got)
		}
		if got := cell(t, f, SheetWeeklyPlan, "B5"); got != "100 porciones" {
			t.Errorf("Unexpected portions %q", got)
		}
		if got := cell(t, f, SheetWeeklyPlan, "A8"); got != noRecipes {
			t.Errorf("Expected empty Tuesday marker, got %q", got)
		}
	})

	t.Run("DailyDetail", func(t *testing.T) {
		rows, err := f.GetRows(SheetDailyDetail)
		if err != nil {
			t.Fatalf("GetRows failed: %v", err)
		}
		var found bool
		for _, row := range rows {
			if len(row) == 3 && row[0] == "Tomate" && row[1] == "2" && row[2] == "kg" {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected Tomate 2 kg in daily detail, got %v", rows)
		}
		if got := cell(t, f, SheetDailyDetail, "A3"); got != "Lunes - INGREDIENTES" {
			t.Errorf("Unexpected day header %q", got)
		}
	})

	t.Run("ShoppingList", func(t *testing.T) {
		if got := cell(t, f, SheetShoppingList, "A8"); got != "Tomate" {
			t.Errorf("Expected Tomate last, got %q", got)
		}
	})
}

func TestRecipeWorkbook(t *testing.T) {
	r, _ := testCatalog.Lookup("A")
	f, err := RecipeWorkbook(r, 250, testDate)
	if err != nil {
		t.Fatalf("RecipeWorkbook failed: %v", err)
	}
	f = reopen(t, f)

	tests := map[string]string{
		"A1": "CÁLCULO DE INGREDIENTES",
		"B2": "Arroz con pollo",
		"B3": "250",
		"A6": "Ingrediente",
		"D6": "Cantidad Total",
		"A7": "Arroz",
		"B7": "0.1",
		"D7": "25",
		"D8": "37.5",
	}
	for axis, want := range tests {
		if got := cell(t, f, SheetRecipe, axis); got != want {
			t.Errorf("Cell %s: expected %q, got %q", axis, want, got)
		}
	}
}

func TestFilenames(t *testing.T) {
	if got := ShoppingListFilename(testDate); got != "lista-compras-2024-03-05.xlsx" {
		t.Errorf("Unexpected filename %q", got)
	}
	if got := WeeklyPlanFilename(testDate); got != "planificador-semanal-2024-03-05.xlsx" {
		t.Errorf("Unexpected filename %q", got)
	}
	if got := RecipeFilename("Arroz  con Pollo", testDate); got != "arroz-con-pollo-2024-03-05.xlsx" {
		t.Errorf("Unexpected filename %q", got)
	}
}

func TestWeeklyPlanHTML(t *testing.T) {
	plan := testPlan()
	plan[mealplan.Friday] = []mealplan.RecipeAssignment{{RecipeID: "X", Name: "<b>Sopa</b>", Portions: 1.5}}

	html, err := WeeklyPlanHTML(plan, testCatalog, testDate)
	if err != nil {
		t.Fatalf("WeeklyPlanHTML failed: %v", err)
	}

	for _, want := range []string{
		"Planificación Semanal",
		"Arroz con pollo",
		"(100 porciones)",
		"(1.5 porciones)",
		"Sin recetas programadas",
		"Lista de Compras - Semana Completa",
		"&lt;b&gt;Sopa&lt;/b&gt;",
		"5/3/2024",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}
	if strings.Contains(html, "<b>Sopa</b>") {
		t.Error("Expected recipe names to be escaped")
	}
}

func TestShoppingListHTML(t *testing.T) {
	plan := testPlan()
	items := mealplan.ConsolidateWeek(plan, testCatalog)
	groups := mealplan.GroupIngredients(mealplan.ByUnit, items, plan, testCatalog)

	html, err := ShoppingListHTML(groups, mealplan.ByUnit, true, testDate)
	if err != nil {
		t.Fatalf("ShoppingListHTML failed: %v", err)
	}
	for _, want := range []string{
		"Agrupado por: <strong>Unidad</strong>",
		">kg</h3>",
		">Sin unidad</h3>",
		"Excel con 3 hojas",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}

	html, err = ShoppingListHTML(mealplan.Groups{}, mealplan.Ungrouped, false, testDate)
	if err != nil {
		t.Fatalf("ShoppingListHTML failed: %v", err)
	}
	if strings.Contains(html, "Excel con 3 hojas") {
		t.Error("Expected no attachment note")
	}
}
