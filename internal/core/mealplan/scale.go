package mealplan

// ScaleIngredients 將每項食材乘以份數，不修改輸入也不做捨入
func ScaleIngredients(ingredients []Ingredient, portions float64) []ScaledIngredient {
	if ingredients == nil || !(portions > 0) {
		return []ScaledIngredient{}
	}

	scaled := make([]ScaledIngredient, len(ingredients))
	for i, ing := range ingredients {
		scaled[i] = ScaledIngredient{
			Name:          ing.Name,
			Quantity:      ing.Quantity,
			Unit:          ing.Unit,
			TotalQuantity: ing.Quantity * portions,
		}
	}
	return scaled
}

// IngredientKey 食材的合併識別鍵，區分大小寫與空白
func IngredientKey(name, unit string) string {
	return name + "|" + unit
}
