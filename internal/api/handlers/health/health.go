package health

import (
	"net/http"
	"runtime"
	"time"

	"recetario-pae/internal/core/cache"
	"recetario-pae/internal/core/email"
	"recetario-pae/internal/core/planner"
	"recetario-pae/internal/infrastructure/config"
	"recetario-pae/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Recipes   int                    `json:"recetas"`
	Storage   string                 `json:"storage"`
	Email     bool                   `json:"email_enabled"`
	Queue     *email.Status          `json:"queue,omitempty"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := c.MustGet("config").(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}
	svc, ok := c.MustGet("planner").(*planner.Service)
	if !ok {
		common.LogError("Planner not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response(false))
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Recipes: svc.Catalog().Len(),
		Storage: cfg.Storage.Driver,
		Email:   cfg.Email.Enabled,
	}

	// 郵件隊列狀態
	if v, exists := c.Get("email_dispatcher"); exists {
		if d, ok := v.(*email.Dispatcher); ok && d != nil {
			status := d.Status()
			response.Queue = &status
		}
	}

	// 快取統計
	if v, exists := c.Get("cache"); exists {
		if cm, ok := v.(*cache.Manager); ok && cm != nil {
			stats := cm.Stats()
			response.Cache = &stats
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，確認計畫儲存可讀取
func ReadinessCheck(c *gin.Context) {
	svc, ok := c.MustGet("planner").(*planner.Service)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
		return
	}
	if _, err := svc.Plan(c.Request.Context()); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
