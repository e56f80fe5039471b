package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
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

// multipartOverhead leaves room for the boundaries and the other form parts.
const multipartOverhead = 1 << 20

type RegistrationController struct {
	Log                 *zap.Logger
	RegistrationUsecase contracts.RegistrationUsecase
	InternalConfig      *config.InternalConfig
}

var (
	registrationControllerInstance *RegistrationController
	onceRegistrationController     sync.Once
)

func NewRegistrationController(logger *zap.Logger, registrationUsecase contracts.RegistrationUsecase, internalConfig *config.InternalConfig) *RegistrationController {
	onceRegistrationController.Do(func() {
		registrationControllerInstance = &RegistrationController{
			Log:                 logger,
			RegistrationUsecase: registrationUsecase,
			InternalConfig:      internalConfig,
		}
	})
	return registrationControllerInstance
}

func (ctrl *RegistrationController) Start(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "RegistrationController.Start")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.RegistrationUsecase.Start(ctx)
	if err != nil {
		ctrl.Log.Error("RegistrationController.Start error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err, nil)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RegistrationStartSuccess, result)
}

func (ctrl *RegistrationController) GetState(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := ctrl.registrationID(w, r, "RegistrationController.GetState")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.RegistrationUsecase.GetState(ctx, registrationID)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err, nil)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RegistrationGetSuccess, result)
}

func (ctrl *RegistrationController) SelectProfile(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := ctrl.registrationID(w, r, "RegistrationController.SelectProfile")
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.SelectProfile)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeSelectProfileRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.RegistrationUsecase.SelectProfile(ctx, registrationID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err, result)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RegistrationProfileSuccess, result)
}

func (ctrl *RegistrationController) SubmitPersonalData(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := ctrl.registrationID(w, r, "RegistrationController.SubmitPersonalData")
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.RegistrationPersonalData)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeRegistrationPersonalDataRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.RegistrationUsecase.SubmitPersonalData(ctx, registrationID, request)
	if err != nil {
		ctrl.Log.Info("RegistrationController.SubmitPersonalData gate failed",
			zap.String(constvars.LoggingRegistrationIDKey, registrationID),
			zap.String(constvars.LoggingErrorTypeKey, string(exceptions.KindOf(err))),
		)
		writeUsecaseError(ctrl.Log, w, err, result)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RegistrationPersonalDataSuccess, result)
}

func (ctrl *RegistrationController) UploadDoctorPhoto(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := ctrl.registrationID(w, r, "RegistrationController.UploadDoctorPhoto")
	if !ok {
		return
	}

	maxPhoto := ctrl.InternalConfig.Registration.PhotoMaxUploadSizeInBytes
	if err := r.ParseMultipartForm(maxPhoto + multipartOverhead); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrImageTooLarge(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(constvars.FormFieldPhoto)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	// one byte past the limit is enough for the usecase to reject it
	photo, err := io.ReadAll(io.LimitReader(file, maxPhoto+1))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	request := &requests.DoctorPhoto{
		Photo:     photo,
		PhotoName: header.Filename,
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.RegistrationUsecase.UploadDoctorPhoto(ctx, registrationID, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err, result)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RegistrationPhotoSuccess, result)
}

func (ctrl *RegistrationController) SubmitCredentials(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := ctrl.registrationID(w, r, "RegistrationController.SubmitCredentials")
	if !ok {
		return
	}

	// Bind body to request
	request := new(requests.RegistrationCredentials)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	utils.SanitizeRegistrationCredentialsRequest(request)

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	result, err := ctrl.RegistrationUsecase.SubmitCredentials(ctx, registrationID, request)
	if err != nil {
		ctrl.Log.Info("RegistrationController.SubmitCredentials not completed",
			zap.String(constvars.LoggingRegistrationIDKey, registrationID),
			zap.String(constvars.LoggingErrorTypeKey, string(exceptions.KindOf(err))),
		)
		writeUsecaseError(ctrl.Log, w, err, result)
		return
	}

	ctrl.Log.Info("RegistrationController.SubmitCredentials succeeded",
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
		zap.String(constvars.LoggingWorkflowStepKey, result.Step),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RegistrationCompletedSuccess, result)
}

func (ctrl *RegistrationController) Abandon(w http.ResponseWriter, r *http.Request) {
	registrationID, ok := ctrl.registrationID(w, r, "RegistrationController.Abandon")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout(ctrl.InternalConfig))
	defer cancel()

	if err := ctrl.RegistrationUsecase.Abandon(ctx, registrationID); err != nil {
		writeUsecaseError(ctrl.Log, w, err, nil)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RegistrationAbandonSuccess, nil)
}

func (ctrl *RegistrationController) registrationID(w http.ResponseWriter, r *http.Request, caller string) (string, bool) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, caller)
	if !ok {
		return "", false
	}

	registrationID := chi.URLParam(r, constvars.URLParamRegistrationID)
	if !utils.IsValidUUID(registrationID) {
		err := fmt.Errorf("invalid registration id %q", registrationID)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, constvars.URLParamRegistrationID))
		return "", false
	}

	ctrl.Log.Info(caller+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
	)
	return registrationID, true
}
