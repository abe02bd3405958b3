package handlers

import (
	"mime"
	"net/http"

	"recetario-pae/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SendWorkbook 將活頁簿寫入響應作為下載附件
func SendWorkbook(c *gin.Context, f *excelize.File, filename string) {
	defer func() {
		if err := f.Close(); err != nil {
			common.LogWarn("Failed to close workbook", zap.Error(err))
		}
	}()

	buf, err := f.WriteToBuffer()
	if err != nil {
		common.WriteError(c, common.ErrExportFailed.Wrap(err), false)
		return
	}

	// 非 ASCII 檔名以 RFC 2231 的 filename* 編碼
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
