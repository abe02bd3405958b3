package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCustomError(t *testing.T) {
	cause := errors.New("redis down")
	err := ErrStorageError.Wrap(cause)

	if !errors.Is(err, cause) {
		t.Error("Expected Wrap to keep the cause reachable")
	}
	if ErrStorageError.Err != nil {
		t.Error("Expected Wrap to leave the predefined error untouched")
	}

	if resp := err.Response(false); resp.Details != "" || resp.Code != "STORAGE_ERROR" {
		t.Errorf("Unexpected release response %+v", resp)
	}
	if resp := err.Response(true); resp.Details != "redis down" {
		t.Errorf("Expected details in debug mode, got %+v", resp)
	}
}

func TestWriteError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("CustomError", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteError(c, ErrRecipeNotFound, false)
		if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "RECIPE_NOT_FOUND") {
			t.Errorf("Unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("PlainError", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteError(c, errors.New("boom"), true)
		if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), "boom") {
			t.Errorf("Unexpected response %d %s", w.Code, w.Body.String())
		}
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("bad index")
	if !IsValidationError(err) || IsValidationError(errors.New("x")) {
		t.Error("IsValidationError mismatch")
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Name string `json:"nombre"`
	}
	if err := ParseJSON(`{"nombre":"Arroz"}`, &v); err != nil || v.Name != "Arroz" {
		t.Errorf("Unexpected result %+v, %v", v, err)
	}
	if err := ParseJSON(`{"nombre":"Arroz"} {}`, &v); err == nil {
		t.Error("Expected trailing data to be rejected")
	}

	s, err := ToJSON(map[string]int{"a": 1})
	if err != nil || s != `{"a":1}` {
		t.Errorf("Unexpected ToJSON %q, %v", s, err)
	}
}

func TestLogFiltersSensitiveFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogWarn("Email failed",
		zap.String("to_email", "cocina@escuela.edu.ar"),
		zap.String("private_key", "secret"),
		zap.String("kind", "plan"),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if _, ok := fields["to_email"]; ok {
		t.Error("Expected to_email to be filtered")
	}
	if _, ok := fields["private_key"]; ok {
		t.Error("Expected private_key to be filtered")
	}
	if fields["kind"] != "plan" {
		t.Errorf("Expected kind field, got %v", fields)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zapcore.DebugLevel || ParseLevel("nope") != zapcore.InfoLevel {
		t.Error("Unexpected level mapping")
	}
}
