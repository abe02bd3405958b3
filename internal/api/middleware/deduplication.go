package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"

	"recetario-pae/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplicator 在時間窗口內拒絕相同的 POST 請求
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	now      func() time.Time
}

// NewDeduplicator 創建去重器，window 預設 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		now:      time.Now,
	}
}

// seen 記錄指紋並回傳是否為窗口內的重複請求，以及記錄時間
func (d *Deduplicator) seen(fingerprint string) (bool, time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()

	// 順便清理過期指紋
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
		}
	}

	if last, exists := d.requests[fingerprint]; exists && now.Sub(last) <= d.window {
		return true, last
	}
	d.requests[fingerprint] = now
	return false, now
}

// forget 移除失敗請求的指紋，讓客戶端可以立即重試
func (d *Deduplicator) forget(fingerprint string, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, exists := d.requests[fingerprint]; exists && last.Equal(at) {
		delete(d.requests, fingerprint)
	}
}

// Handler 請求去重中間件
func (d *Deduplicator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" {
			c.Next()
			return
		}

		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			bodyHash = common.HashString(string(body))

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		duplicated, at := d.seen(fingerprint)
		if duplicated {
			common.LogWarn("Duplicated request rejected", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status, common.ErrTooManyRequests.Response(false))
			return
		}

		c.Next()

		// 只有成功的請求佔用窗口
		if c.Writer.Status() >= http.StatusBadRequest {
			d.forget(fingerprint, at)
		}
	}
}
