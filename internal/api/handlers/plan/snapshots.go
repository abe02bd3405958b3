package plan

import (
	"net/http"

	"recetario-pae/internal/api/handlers"
	"recetario-pae/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ListSnapshots 列出已儲存的計畫
func (h *Handler) ListSnapshots(c *gin.Context) {
	list, err := h.planner.ListSnapshots(c.Request.Context())
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"planes": list, "total": len(list)})
}

// SaveSnapshot 以名稱儲存目前計畫
func (h *Handler) SaveSnapshot(c *gin.Context) {
	var req SaveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.Fail(c, common.ErrInvalidRequest.Wrap(err), h.debug)
		return
	}

	snap, err := h.planner.SaveSnapshot(c.Request.Context(), req.Name)
	if err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// LoadSnapshot 將已儲存的計畫設為目前計畫
func (h *Handler) LoadSnapshot(c *gin.Context) {
	plan, err := h.planner.LoadSnapshot(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, plan, err)
}

// DeleteSnapshot 刪除已儲存的計畫
func (h *Handler) DeleteSnapshot(c *gin.Context) {
	if err := h.planner.DeleteSnapshot(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Fail(c, err, h.debug)
		return
	}
	c.Status(http.StatusNoContent)
}
