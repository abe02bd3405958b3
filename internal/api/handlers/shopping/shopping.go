package shopping

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

// EmailRequest 寄送購物清單
type EmailRequest struct {
	Email     string `json:"email" binding:"required"`
	Criterion string `json:"agrupar"`
}

// Handler 購物清單處理器
type Handler struct {
	planner *planner.Service
	mailer  Mailer
	debug   bool
	now     func() time.Time
}

// NewHandler 創建購物清單處理器
func NewHandler(p *planner.Service, mailer Mailer, debug bool) *Handler {
	return &Handler{planner: p, mailer: mailer, debug: debug, now: time.Now}
}

// Get 依 agrupar 參數回傳分組清單
func (h *Handler) Get(c *gin.Context) {
	criterion, err := handlers.Criterion(c)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	list, err := h.planner.GroupedShoppingList(c.Request.Context(), criterion)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Export 下載購物清單活頁簿
func (h *Handler) Export(c *gin.Context) {
	items, err := h.planner.ShoppingList(c.Request.Context())
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	now := h.now()
	f, err := export.ShoppingListWorkbook(items, now)
	if err != nil {
		common.LogError("Failed to build shopping list workbook", zap.Error(err))
		handlers.Fail(c, common.ErrExportFailed.Wrap(err), h.debug)
		return
	}
	handlers.SendWorkbook(c, f, export.ShoppingListFilename(now))
}

// Print 回傳可列印的 HTML 清單
func (h *Handler) Print(c *gin.Context) {
	criterion, err := handlers.Criterion(c)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	html, err := h.render(c.Request.Context(), criterion, false)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Email 寄送分組後的購物清單
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
	criterion, err := mealplan.ParseCriterion(req.Criterion)
	if err != nil {
		handlers.Fail(c, common.ErrInvalidCriterion.Wrap(err), h.debug)
		return
	}

	html, err := h.render(c.Request.Context(), criterion, true)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	if h.mailer == nil {
		handlers.Fail(c, email.ErrEmailDisabled, h.debug)
		return
	}
	err = h.mailer.Send(c.Request.Context(), email.Message{
		To:        req.Email,
		HTML:      html,
		Kind:      "shopping_list",
		RequestID: requestid.Get(c),
	})
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email enviado. El archivo Excel está disponible en la aplicación",
	})
}

func (h *Handler) render(ctx context.Context, criterion mealplan.Criterion, attachments bool) (string, error) {
	list, err := h.planner.GroupedShoppingList(ctx, criterion)
	if err != nil {
		return "", err
	}
	html, err := export.ShoppingListHTML(list.Groups, criterion, attachments, h.now())
	if err != nil {
		return "", common.ErrExportFailed.Wrap(err)
	}
	return html, nil
}
