package handlers

import (
	"errors"
	"net/http"

	"flavor_ai/models"
	"flavor_ai/repository"
	"flavor_ai/services"
	"flavor_ai/utils"
)

// handleServiceError 将服务层错误转换为业务码，fallbackCode 用于未识别的错误
func handleServiceError(w http.ResponseWriter, err error, fallbackCode int) {
	var (
		verr     *utils.ValidationError
		perr     *repository.PersistenceError
		extErr   *services.ExternalServiceError
		emptyMap = map[string]interface{}{}
	)

	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		utils.WriteErrorResponse(w, models.CodeUserNotFound, emptyMap)
	case errors.Is(err, repository.ErrProfileExists):
		utils.WriteErrorResponse(w, models.CodeProfileExists, emptyMap)
	case errors.Is(err, services.ErrEmptyUserID):
		utils.WriteErrorResponse(w, models.CodeMissingParams, map[string]interface{}{"param": "user_id"})
	case errors.As(err, &verr):
		utils.WriteValidationError(w, verr)
	case errors.As(err, &perr):
		utils.WriteCustomErrorResponse(w, models.CodeDatabaseError, perr.Error(), emptyMap)
	case errors.As(err, &extErr):
		utils.WriteCustomErrorResponse(w, models.CodeThirdPartyAPIError, extErr.Error(), emptyMap)
	default:
		utils.WriteCustomErrorResponse(w, fallbackCode, err.Error(), emptyMap)
	}
}
