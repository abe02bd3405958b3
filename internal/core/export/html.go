package export

import (
	"bytes"
	"html/template"
	"strconv"
	"time"

	"recetario-pae/internal/core/mealplan"
)

var criterionLabels = map[mealplan.Criterion]string{
	mealplan.ByFirstLetter: "Nombre",
	mealplan.ByUnit:        "Unidad",
	mealplan.Ungrouped:     "Sin agrupar",
	mealplan.ByWeek:        "Semana completa",
	mealplan.ByDay:         "Día",
	mealplan.ByRecipe:      "Receta",
}

// CriterionLabel 分組條件的顯示名稱
func CriterionLabel(c mealplan.Criterion) string {
	if l, ok := criterionLabels[c]; ok {
		return l
	}
	return c.String()
}

var funcs = template.FuncMap{
	"num": mealplan.FormatNumber,
	"plain": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"stripe": func(i int) string {
		if i%2 == 0 {
			return "#f5f6fa"
		}
		return "#ffffff"
	},
}

const ingredientTable = `{{define "table"}}
<table style="width: 100%; border-collapse: collapse; font-size: 11px;">
<tr style="background-color: #667eea; color: white;">
<td style="padding: 8px; font-weight: 600;">Ingrediente</td>
<td style="padding: 8px; text-align: center; font-weight: 600;">{{.Header}}</td>
<td style="padding: 8px; font-weight: 600;">Unidad</td>
</tr>
{{- range $i, $ing := .Items}}
<tr style="background-color: {{stripe $i}}; border-bottom: 1px solid #e8eaed;">
<td style="padding: 8px; color: #2c3e50;">{{$ing.Name}}</td>
<td style="padding: 8px; text-align: center; color: #667eea; font-weight: 500;">{{num $ing.TotalQuantity}}</td>
<td style="padding: 8px; color: #7f8c8d;">{{$ing.Unit}}</td>
</tr>
{{- end}}
</table>
{{- end}}`

var weeklyPlanTemplate = template.Must(template.New("weekly").Funcs(funcs).Parse(ingredientTable + `
<div style="font-family: 'Segoe UI', 'Helvetica Neue', sans-serif; max-width: 700px; color: #2c3e50;">
<div style="background: #667eea; padding: 30px 20px; text-align: center; border-radius: 10px 10px 0 0;">
<h1 style="font-family: Georgia, serif; color: white; font-size: 32px; margin: 0; font-weight: normal;">Planificación Semanal</h1>
<p style="color: white; font-size: 14px; margin: 8px 0 0 0; font-style: italic;">Recetario PAE</p>
</div>
<p style="color: #7f8c8d; font-size: 12px; text-align: center;">{{.Date}}</p>
<div style="margin: 30px 20px 0 20px;">
<h2 style="color: #667eea; font-size: 22px; border-bottom: 2px solid #667eea;">Recetas por Día</h2>
{{- range .Days}}
<div style="margin: 18px 0; padding: 15px; border-left: 4px solid #667eea;">
<p style="margin: 0 0 10px 0; font-weight: 600; color: #667eea;">{{.Name}}</p>
{{- if .Recipes}}{{range .Recipes}}
<p style="margin: 4px 0; font-size: 13px;"><strong>{{.Name}}</strong> <span style="color: #7f8c8d; font-size: 12px;">({{plain .Portions}} porciones)</span></p>
{{- end}}{{else}}
<p style="margin: 0; color: #999; font-size: 13px;">Sin recetas programadas</p>
{{- end}}
</div>
{{- end}}
</div>
<div style="margin: 30px 20px 0 20px;">
<h2 style="color: #667eea; font-size: 22px; border-bottom: 2px solid #667eea;">Ingredientes por Día</h2>
{{- range .Days}}
<div style="margin: 16px 0; padding: 12px; background: #f8f9fa; border-left: 4px solid #667eea;">
<p style="margin: 0 0 10px 0; font-weight: 600; color: #667eea;">{{.Name}}</p>
{{- if .Ingredients.Items}}{{template "table" .Ingredients}}{{else}}
<p style="margin: 0; color: #999; font-size: 12px;">Sin ingredientes</p>
{{- end}}
</div>
{{- end}}
</div>
<div style="margin: 30px 20px 0 20px;">
<h2 style="color: #667eea; font-size: 22px; border-bottom: 2px solid #667eea;">Lista de Compras - Semana Completa</h2>
{{- if .Week.Items}}{{template "table" .Week}}{{else}}
<p style="color: #999;">Sin ingredientes</p>
{{- end}}
</div>
<div style="margin: 30px 20px 0 20px;">
<hr style="border: none; border-top: 1px solid #ecf0f1;">
<p style="font-size: 12px; color: #95a5a6; text-align: center;">Generado con Recetario PAE • {{.Date}}</p>
</div>
</div>`))

var shoppingListTemplate = template.Must(template.New("shopping").Funcs(funcs).Parse(ingredientTable + `
<div style="font-family: Arial, sans-serif; max-width: 600px;">
<h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">Lista de Compras - Recetario PAE</h2>
<p style="color: #666;">Agrupado por: <strong>{{.Criterion}}</strong></p>
{{- if .Attachments}}
<div style="background-color: #fff3cd; border: 1px solid #ffc107; border-radius: 5px; padding: 12px;">
<p style="margin: 0; color: #856404;">Excel con 3 hojas (planificación, ingredientes por día, lista de compras) disponible en la aplicación</p>
</div>
{{- end}}
{{- range .Groups}}
<h3 style="color: #0056b3; margin-top: 20px;">{{.Label}}</h3>
{{template "table" .Table}}
{{- end}}
<hr style="border: none; border-top: 1px solid #ddd; margin: 20px 0;">
<p style="font-size: 12px; color: #999;">Generado con Recetario PAE • {{.Date}}</p>
</div>`))

type tableView struct {
	Header string
	Items  []mealplan.ConsolidatedIngredient
}

type dayView struct {
	Name        string
	Recipes     []mealplan.RecipeAssignment
	Ingredients tableView
}

type groupView struct {
	Label string
	Table tableView
}

// WeeklyPlanHTML 渲染完整計畫，含每日食譜、每日食材與每週彙整清單
func WeeklyPlanHTML(plan mealplan.WeeklyPlan, catalog mealplan.RecipeLookup, date time.Time) (string, error) {
	days := make([]dayView, 0, len(mealplan.Days))
	for _, d := range mealplan.Days {
		days = append(days, dayView{
			Name:        d.DisplayName(),
			Recipes:     plan[d],
			Ingredients: tableView{Header: "Cantidad", Items: mealplan.ConsolidateDay(plan[d], catalog).Items()},
		})
	}

	var buf bytes.Buffer
	err := weeklyPlanTemplate.Execute(&buf, struct {
		Date string
		Days []dayView
		Week tableView
	}{
		Date: DateLabel(date),
		Days: days,
		Week: tableView{Header: "Cantidad Total", Items: mealplan.ConsolidateWeek(plan, catalog)},
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ShoppingListHTML 渲染分組後的食材，attachments 為 true 時附上活頁簿下載提示
func ShoppingListHTML(groups mealplan.Groups, criterion mealplan.Criterion, attachments bool, date time.Time) (string, error) {
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, groupView{Label: g.Label, Table: tableView{Header: "Cantidad", Items: g.Items}})
	}

	var buf bytes.Buffer
	err := shoppingListTemplate.Execute(&buf, struct {
		Criterion   string
		Attachments bool
		Groups      []groupView
		Date        string
	}{
		Criterion:   CriterionLabel(criterion),
		Attachments: attachments,
		Groups:      views,
		Date:        DateLabel(date),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
