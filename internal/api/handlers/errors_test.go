package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"recetario-pae/internal/core/catalog"
	"recetario-pae/internal/core/email"
	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/core/planner"
	"recetario-pae/internal/pkg/common"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"Portions", fmt.Errorf("%w: 0", mealplan.ErrInvalidPortions), common.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"Day", fmt.Errorf("%w: %q", mealplan.ErrUnknownDay, "x"), "INVALID_DAY", http.StatusBadRequest},
		{"Recipe", fmt.Errorf("%w: z", catalog.ErrRecipeNotFound), "RECIPE_NOT_FOUND", http.StatusNotFound},
		{"Storage", fmt.Errorf("%w: %w", planner.ErrStorage, errors.New("dial tcp")), "STORAGE_ERROR", http.StatusServiceUnavailable},
		{"QueueFull", email.ErrQueueFull, "EMAIL_BUSY", http.StatusServiceUnavailable},
		{"Deadline", context.DeadlineExceeded, common.ErrCodeGatewayTimeout, http.StatusGatewayTimeout},
		{"Validation", common.NewValidationError("bad"), common.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"Custom", common.ErrInvalidCriterion.Wrap(errors.New("x")), "INVALID_CRITERION", http.StatusBadRequest},
		{"Unknown", errors.New("boom"), common.ErrCodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			if got.Code != tt.code || got.Status != tt.status {
				t.Errorf("Expected %s/%d, got %s/%d", tt.code, tt.status, got.Code, got.Status)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("Expected the original error to stay reachable")
			}
		})
	}
}

func TestParsePortions(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"100", 100, true},
		{" 2.5 ", 2.5, true},
		{"0", 0, false},
		{"-1", 0, false},
		{"1e3x", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, err := ParsePortions(tt.raw)
		if tt.valid && (err != nil || got != tt.want) {
			t.Errorf("ParsePortions(%q) = %v, %v; expected %v", tt.raw, got, err, tt.want)
		}
		if !tt.valid && !errors.Is(err, mealplan.ErrInvalidPortions) {
			t.Errorf("ParsePortions(%q) expected ErrInvalidPortions, got %v", tt.raw, err)
		}
	}
}
