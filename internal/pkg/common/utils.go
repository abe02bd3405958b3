package common

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// HashString 計算字符串的 SHA-256 哈希值
func HashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}

// WriteError 將錯誤寫成 JSON 響應；非 CustomError 一律視為 500
func WriteError(c *gin.Context, err error, debug bool) {
	var custom *CustomError
	if !errors.As(err, &custom) {
		custom = ErrInternalError.Wrap(err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(custom.Status, custom.Response(debug))
}
