package handlers

import (
	"context"
	"errors"

	"recetario-pae/internal/core/catalog"
	"recetario-pae/internal/core/email"
	"recetario-pae/internal/core/mealplan"
	"recetario-pae/internal/core/planner"
	"recetario-pae/internal/core/planstore"
	"recetario-pae/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// errorMapping 領域錯誤對應的 API 錯誤，依序比對
var errorMapping = []struct {
	target error
	api    *common.CustomError
}{
	{mealplan.ErrInvalidPortions, common.ErrInvalidPortions},
	{mealplan.ErrUnknownDay, common.ErrInvalidDay},
	{mealplan.ErrAssignmentIndex, common.ErrAssignmentNotFound},
	{mealplan.ErrMissingRecipeID, common.ErrInvalidRequest},
	{catalog.ErrRecipeNotFound, common.ErrRecipeNotFound},
	{planstore.ErrSnapshotNotFound, common.ErrSnapshotNotFound},
	{planstore.ErrEmptyName, common.ErrInvalidPlanName},
	{planner.ErrStorage, common.ErrStorageError},
	{email.ErrInvalidRecipient, common.ErrInvalidEmail},
	{email.ErrEmailDisabled, common.ErrEmailDisabled},
	{email.ErrSendFailed, common.ErrEmailFailed},
	{email.ErrQueueFull, common.ErrEmailBusy},
	{email.ErrDispatcherClosed, common.ErrServiceUnavailable},
	{context.DeadlineExceeded, common.ErrGatewayTimeout},
}

// Translate 將錯誤轉為 API 錯誤
func Translate(err error) *common.CustomError {
	var custom *common.CustomError
	if errors.As(err, &custom) {
		return custom
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.api.Wrap(err)
		}
	}
	if common.IsValidationError(err) {
		return common.ErrInvalidRequest.Wrap(err)
	}
	return common.ErrInternalError.Wrap(err)
}

// Fail 寫出錯誤響應，debug 模式附上原始錯誤
func Fail(c *gin.Context, err error, debug bool) {
	common.WriteError(c, Translate(err), debug)
}
