package plan

import (
	"context"
	"net/http"
	"time"

	"recetario-pae/internal/api/handlers"
	"recetario-pae/internal/core/email"
	"recetario-pae/internal/core/export"
	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/core/planner"
	"recetario-pae/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Mailer 郵件發送介面
type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

// Response 週計畫響應
type Response struct {
	Plan         mealplan.WeeklyPlan `json:"planificacion"`
	TotalRecipes int                 `json:"total_recetas"`
}

// AddRecipeRequest 新增食譜到某一天
type AddRecipeRequest struct {
	RecipeID string  `json:"recetaId" binding:"required"`
	Portions float64 `json:"porciones"`
}

// SaveSnapshotRequest 儲存目前計畫
type SaveSnapshotRequest struct {
	Name string `json:"nombre"`
}

// EmailRequest 寄送計畫
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// Handler 週計畫處理器
type Handler struct {
	planner *planner.Service
	mailer  Mailer
	debug   bool
	now     func() time.Time
}

// NewHandler 創建週計畫處理器
func NewHandler(p *planner.Service, mailer Mailer, debug bool) *Handler {
	return &Handler{planner: p, mailer: mailer, debug: debug, now: time.Now}
}

func (h *Handler) respond(c *gin.Context, status int, plan mealplan.WeeklyPlan, err error) {
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.JSON(status, Response{Plan: plan, TotalRecipes: plan.TotalRecipes()})
}

// Get 取得目前的週計畫
func (h *Handler) Get(c *gin.Context) {
	plan, err := h.planner.Plan(c.Request.Context())
	h.respond(c, http.StatusOK, plan, err)
}

// Replace 以請求內容取代整份計畫
func (h *Handler) Replace(c *gin.Context) {
	var body mealplan.WeeklyPlan
	if err := c.ShouldBindJSON(&body); err != nil {
		handlers.Fail(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	plan, err := h.planner.ReplacePlan(c.Request.Context(), body)
	h.respond(c, http.StatusOK, plan, err)
}

// Clear 清空整週
func (h *Handler) Clear(c *gin.Context) {
	plan, err := h.planner.Clear(c.Request.Context())
	h.respond(c, http.StatusOK, plan, err)
}

// AddRecipe 將食譜排入某一天
func (h *Handler) AddRecipe(c *gin.Context) {
	day, err := handlers.Day(c)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	var req AddRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.Fail(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	plan, err := h.planner.AddRecipe(c.Request.Context(), day, req.RecipeID, req.Portions)
	h.respond(c, http.StatusCreated, plan, err)
}

// RemoveRecipe 移除某一天的第 index 道食譜
func (h *Handler) RemoveRecipe(c *gin.Context) {
	day, err := handlers.Day(c)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	index, err := handlers.ParseIndex(c.Param("index"))
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	plan, err := h.planner.RemoveRecipe(c.Request.Context(), day, index)
	h.respond(c, http.StatusOK, plan, err)
}

// ClearDay 清空某一天
func (h *Handler) ClearDay(c *gin.Context) {
	day, err := handlers.Day(c)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	plan, err := h.planner.ClearDay(c.Request.Context(), day)
	h.respond(c, http.StatusOK, plan, err)
}

// Export 下載週計畫活頁簿
func (h *Handler) Export(c *gin.Context) {
	plan, err := h.planner.Plan(c.Request.Context())
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	now := h.now()
	f, err := export.WeeklyPlanWorkbook(plan, h.planner.Catalog(), now)
	if err != nil {
		common.LogError("Failed to build weekly plan workbook", zap.Error(err))
		handlers.Fail(c, common.ErrExportFailed.Wrap(err), h.debug)
		return
	}
	handlers.SendWorkbook(c, f, export.WeeklyPlanFilename(now))
}

// Email 寄送完整週計畫
func (h *Handler) Email(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.Fail(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}
	if err := email.ValidateRecipient(req.Email); err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	plan, err := h.planner.Plan(c.Request.Context())
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	html, err := export.WeeklyPlanHTML(plan, h.planner.Catalog(), h.now())
	if err != nil {
		handlers.Fail(c, common.ErrExportFailed.Wrap(err), h.debug)
		return
	}

	if h.mailer == nil {
		handlers.Fail(c, email.ErrEmailDisabled, h.debug)
		return
	}
	err = h.mailer.Send(c.Request.Context(), email.Message{
		To:        req.Email,
		HTML:      html,
		Kind:      "weekly_plan",
		RequestID: requestid.Get(c),
	})
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email enviado exitosamente"})
}
