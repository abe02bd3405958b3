package mealplan

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestWeeklyPlanEditing(t *testing.T) {
	plan := NewWeeklyPlan()
	if len(plan) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(plan))
	}

	t.Run("AddPreservesOrder", func(t *testing.T) {
		for _, id := range []string{"A", "B", "C"} {
			if err := plan.Add(Monday, RecipeAssignment{RecipeID: id, Name: id, Portions: 1}); err != nil {
				t.Fatalf("Add failed: %v", err)
			}
		}
		got := plan[Monday]
		if len(got) != 3 || got[0].RecipeID != "A" || got[2].RecipeID != "C" {
			t.Errorf("Unexpected Monday: %+v", got)
		}
		if plan.TotalRecipes() != 3 {
			t.Errorf("Expected 3 recipes, got %d", plan.TotalRecipes())
		}
	})

	t.Run("AddRejectsInvalidInput", func(t *testing.T) {
		err := plan.Add(Day("lunes2"), RecipeAssignment{RecipeID: "A", Portions: 1})
		if !errors.Is(err, ErrUnknownDay) {
			t.Errorf("Expected ErrUnknownDay, got %v", err)
		}
		err = plan.Add(Tuesday, RecipeAssignment{RecipeID: "A", Portions: 0})
		if !errors.Is(err, ErrInvalidPortions) {
			t.Errorf("Expected ErrInvalidPortions, got %v", err)
		}
		err = plan.Add(Tuesday, RecipeAssignment{Portions: 1})
		if !errors.Is(err, ErrMissingRecipeID) {
			t.Errorf("Expected ErrMissingRecipeID, got %v", err)
		}
		if len(plan[Tuesday]) != 0 {
			t.Errorf("Expected Tuesday untouched, got %+v", plan[Tuesday])
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := plan.Remove(Monday, 1); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		got := plan[Monday]
		if len(got) != 2 || got[0].RecipeID != "A" || got[1].RecipeID != "C" {
			t.Errorf("Unexpected Monday after remove: %+v", got)
		}
		if err := plan.Remove(Monday, 5); !errors.Is(err, ErrAssignmentIndex) {
			t.Errorf("Expected ErrAssignmentIndex, got %v", err)
		}
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		clone := plan.Clone()
		clone[Monday][0].Portions = 99
		if plan[Monday][0].Portions == 99 {
			t.Error("Clone shares storage with the original plan")
		}
	})

	t.Run("ClearDay", func(t *testing.T) {
		if err := plan.ClearDay(Monday); err != nil {
			t.Fatalf("ClearDay failed: %v", err)
		}
		if plan[Monday] == nil || len(plan[Monday]) != 0 {
			t.Errorf("Expected empty Monday, got %#v", plan[Monday])
		}
	})
}

func TestWeeklyPlanJSON(t *testing.T) {
	t.Run("MarshalWritesAllDays", func(t *testing.T) {
		plan := WeeklyPlan{Friday: {{RecipeID: "A", Name: "Arroz", Portions: 2}}}
		data, err := json.Marshal(plan)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if len(raw) != 7 {
			t.Errorf("Expected 7 keys, got %d: %s", len(raw), data)
		}
		if string(raw["lunes"]) != "[]" {
			t.Errorf("Expected empty array for lunes, got %s", raw["lunes"])
		}
	})

	t.Run("UnmarshalFillsMissingDays", func(t *testing.T) {
		var plan WeeklyPlan
		err := json.Unmarshal([]byte(`{"martes":[{"recetaId":"A","nombre":"Arroz","porciones":3}],"feriado":[]}`), &plan)
		if err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if len(plan) != 7 {
			t.Errorf("Expected 7 days, got %d", len(plan))
		}
		if got := plan[Tuesday]; len(got) != 1 || got[0].Portions != 3 {
			t.Errorf("Unexpected martes: %+v", got)
		}
	})
}

func TestParseDay(t *testing.T) {
	for _, d := range Days {
		got, err := ParseDay(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDay(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseDay("Lunes"); !errors.Is(err, ErrUnknownDay) {
		t.Errorf("Expected ErrUnknownDay for display name, got %v", err)
	}
	if Wednesday.DisplayName() != "Miércoles" || Saturday.DisplayName() != "Sábado" {
		t.Errorf("Unexpected display names: %s, %s", Wednesday.DisplayName(), Saturday.DisplayName())
	}
}
