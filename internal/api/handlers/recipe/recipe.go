package recipe

import (
	"net/http"
	"time"

	"recetario-pae/internal/api/handlers"
	"recetario-pae/internal/core/catalog"
	"recetario-pae/internal/core/export"
	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/core/planner"
	"recetario-pae/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListResponse 食譜列表
type ListResponse struct {
	Recipes []mealplan.Recipe `json:"recetas"`
	Total   int               `json:"total"`
}

// Handler 食譜目錄處理器
type Handler struct {
	planner *planner.Service
	debug   bool
	now     func() time.Time
}

// NewHandler 創建食譜處理器
func NewHandler(p *planner.Service, debug bool) *Handler {
	return &Handler{planner: p, debug: debug, now: time.Now}
}

// List 依名稱與分類篩選食譜
func (h *Handler) List(c *gin.Context) {
	recipes := h.planner.Catalog().Filter(c.Query("q"), c.DefaultQuery("categoria", catalog.AllCategories))
	c.JSON(http.StatusOK, ListResponse{Recipes: recipes, Total: len(recipes)})
}

// Categories 列出分類，第一個為「Todas」
func (h *Handler) Categories(c *gin.Context) {
	categories := append([]string{catalog.AllCategories}, h.planner.Catalog().Categories()...)
	c.JSON(http.StatusOK, gin.H{"categorias": categories})
}

// Get 取得單一食譜
func (h *Handler) Get(c *gin.Context) {
	r, err := h.planner.Catalog().Get(c.Param("id"))
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Scale 依份數計算食材總量
func (h *Handler) Scale(c *gin.Context) {
	portions, err := handlers.ParsePortions(c.Query("porciones"))
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	scaled, err := h.planner.ScaleRecipe(c.Param("id"), portions)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, scaled)
}

// Export 下載單一食譜的計算結果
func (h *Handler) Export(c *gin.Context) {
	portions, err := handlers.ParsePortions(c.Query("porciones"))
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	r, err := h.planner.Catalog().Get(c.Param("id"))
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	now := h.now()
	f, err := export.RecipeWorkbook(r, portions, now)
	if err != nil {
		common.LogError("Failed to build recipe workbook", zap.String("id", r.ID), zap.Error(err))
		handlers.Fail(c, common.ErrExportFailed.Wrap(err), h.debug)
		return
	}
	handlers.SendWorkbook(c, f, export.RecipeFilename(r.Name, now))
}
