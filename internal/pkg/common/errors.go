package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is / errors.As 可以看到原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Wrap 以相同代碼與狀態包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// Response 轉為 API 錯誤響應，debug 時附上原始錯誤
func (e *CustomError) Response(debug bool) ErrorResponse {
	resp := ErrorResponse{Code: e.Code, Message: e.Message}
	if debug && e.Err != nil {
		resp.Details = e.Err.Error()
	}
	return resp
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "Solicitud inválida", http.StatusBadRequest, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "Recurso no encontrado", http.StatusNotFound, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "Método no permitido", http.StatusMethodNotAllowed, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "Demasiadas solicitudes", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "Error interno del servidor", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "Servicio no disponible", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "Tiempo de espera del gateway agotado", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrInvalidPortions    = NewError(ErrCodeInvalidRequest, "La cantidad de porciones debe ser un número mayor a cero", http.StatusBadRequest, nil)
	ErrInvalidDay         = NewError("INVALID_DAY", "Día inválido", http.StatusBadRequest, nil)
	ErrInvalidCriterion   = NewError("INVALID_CRITERION", "Criterio de agrupación inválido", http.StatusBadRequest, nil)
	ErrInvalidPlanName    = NewError("INVALID_PLAN_NAME", "El nombre del plan es obligatorio", http.StatusBadRequest, nil)
	ErrRecipeNotFound     = NewError("RECIPE_NOT_FOUND", "Receta no encontrada", http.StatusNotFound, nil)
	ErrAssignmentNotFound = NewError("ASSIGNMENT_NOT_FOUND", "La receta no está programada en ese día", http.StatusNotFound, nil)
	ErrSnapshotNotFound   = NewError("PLAN_NOT_FOUND", "Plan guardado no encontrado", http.StatusNotFound, nil)
	ErrInvalidEmail       = NewError("INVALID_EMAIL", "Email inválido", http.StatusBadRequest, nil)
	ErrEmailDisabled      = NewError("EMAIL_DISABLED", "El envío de emails no está configurado", http.StatusServiceUnavailable, nil)
	ErrEmailFailed        = NewError("EMAIL_FAILED", "Error al enviar el email", http.StatusBadGateway, nil)
	ErrEmailBusy          = NewError("EMAIL_BUSY", "La cola de envío está llena, intente más tarde", http.StatusServiceUnavailable, nil)
	ErrStorageError       = NewError("STORAGE_ERROR", "Error de almacenamiento", http.StatusServiceUnavailable, nil)
	ErrExportFailed       = NewError("EXPORT_FAILED", "Error al generar el archivo", http.StatusInternalServerError, nil)
)
