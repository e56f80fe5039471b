package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"virem-service/internal/app/config"
	"virem-service/internal/app/contracts"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type AuthController struct {
	Log            *zap.Logger
	AuthUsecase    contracts.AuthUsecase
	InternalConfig *config.InternalConfig
}

var (
	authControllerInstance *AuthController
	onceAuthController     sync.Once
)

func NewAuthController(logger *zap.Logger, authUsecase contracts.AuthUsecase, internalConfig *config.InternalConfig) *AuthController {
	onceAuthController.Do(func() {
		authControllerInstance = &AuthController{
			Log:            logger,
			AuthUsecase:    authUsecase,
			InternalConfig: internalConfig,
		}
	})
	return authControllerInstance
}

func (ctrl *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "AuthController.Login")
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.Login)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeLoginRequest(request)

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AuthUsecase.Login(ctx, deviceIDFrom(r), request)
	if err != nil {
		ctrl.Log.Info("AuthController.Login rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, string(exceptions.KindOf(err))),
		)
		writeUsecaseError(ctrl.Log, w, err, nil)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccess, result)
}

func (ctrl *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestIDFrom(ctrl.Log, w, r, "AuthController.Logout"); !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.AuthUsecase.Logout(ctx, deviceIDFrom(r)); err != nil {
		writeUsecaseError(ctrl.Log, w, err, nil)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LogoutSuccess, nil)
}

func (ctrl *AuthController) GetSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestIDFrom(ctrl.Log, w, r, "AuthController.GetSession"); !ok {
		return
	}

	result := ctrl.AuthUsecase.GetSession(r.Context(), deviceIDFrom(r))
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SessionGetSuccess, result)
}

func (ctrl *AuthController) RequestRecoveryCode(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "AuthController.RequestRecoveryCode")
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.RecoveryRequestCode)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeRecoveryRequestCodeRequest(request)

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AuthUsecase.RequestRecoveryCode(ctx, request)
	if err != nil {
		ctrl.Log.Info("AuthController.RequestRecoveryCode rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, string(exceptions.KindOf(err))),
		)
		writeUsecaseError(ctrl.Log, w, err, result)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RecoveryCodeSentSuccess, result)
}

func (ctrl *AuthController) GetRecoveryState(w http.ResponseWriter, r *http.Request) {
	recoveryID, ok := ctrl.recoveryID(w, r, "AuthController.GetRecoveryState")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AuthUsecase.GetRecoveryState(ctx, recoveryID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err, nil)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RecoveryGetSuccess, result)
}

func (ctrl *AuthController) VerifyRecoveryCode(w http.ResponseWriter, r *http.Request) {
	recoveryID, ok := ctrl.recoveryID(w, r, "AuthController.VerifyRecoveryCode")
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.RecoveryVerifyCode)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeRecoveryVerifyCodeRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AuthUsecase.VerifyRecoveryCode(ctx, recoveryID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err, result)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RecoveryCodeVerifiedSuccess, result)
}

func (ctrl *AuthController) SetNewPassword(w http.ResponseWriter, r *http.Request) {
	recoveryID, ok := ctrl.recoveryID(w, r, "AuthController.SetNewPassword")
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.RecoverySetPassword)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.AuthUsecase.SetNewPassword(ctx, recoveryID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err, result)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RecoveryPasswordSuccess, result)
}

func (ctrl *AuthController) recoveryID(w http.ResponseWriter, r *http.Request, caller string) (string, bool) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, caller)
	if !ok {
		return "", false
	}

	recoveryID := chi.URLParam(r, constvars.URLParamRecoveryID)
	if !utils.IsValidUUID(recoveryID) {
		err := fmt.Errorf("invalid recovery id %q", recoveryID)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, constvars.URLParamRecoveryID))
		return "", false
	}

	ctrl.Log.Info(caller+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRecoveryIDKey, recoveryID),
	)
	return recoveryID, true
}
