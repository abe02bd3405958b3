package handlers

import (
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

func TestSendWorkbookFilename(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		filename string
	}{
		{"ASCII", "lista-de-compras-2024-05-06.xlsx"},
		{"Quoted", `noquis-"caseros"-2024-05-06.xlsx`},
		{"Accented", `ñoquis-"caseros"-2024-05-06.xlsx`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			SendWorkbook(c, excelize.NewFile(), tt.filename)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
				t.Errorf("Expected xlsx content type, got %q", ct)
			}

			disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
			if err != nil {
				t.Fatalf("Expected a parseable Content-Disposition, got %q: %v", w.Header().Get("Content-Disposition"), err)
			}
			if disposition != "attachment" {
				t.Errorf("Expected attachment, got %q", disposition)
			}
			if params["filename"] != tt.filename {
				t.Errorf("Expected filename %q, got %q", tt.filename, params["filename"])
			}
		})
	}
}
