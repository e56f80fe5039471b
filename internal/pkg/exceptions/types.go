package exceptions

import (
	"fmt"
	"virem-service/internal/pkg/constvars"
)

// Validation
var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed)
	}
	ErrFieldValidation = func(field, clientMessage string) *CustomError {
		return BuildKindError(KindValidation, nil, constvars.StatusUnprocessableEntity, clientMessage, fmt.Sprintf(constvars.ErrDevFieldGateFailed, field)).WithField(field)
	}
	ErrPasswordDoNotMatch = func(field string) *CustomError {
		return BuildKindError(KindValidation, nil, constvars.StatusUnprocessableEntity, constvars.ErrClientPasswordsDoNotMatch, constvars.ErrDevPasswordsDoNotMatch).WithField(field)
	}
	ErrMalformedPersonalData = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusBadRequest, constvars.ErrClientMalformedPersonalData, constvars.ErrDevMalformedPersonalData)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidation, paramName))
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}
	ErrImageValidation = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusBadRequest, constvars.ErrClientInvalidImageFormat, constvars.ErrDevImageValidationFailed).WithField(constvars.FormFieldPhoto)
	}
	ErrImageTooLarge = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusRequestEntityTooBig, constvars.ErrClientImageTooLarge, constvars.ErrDevImageTooLarge).WithField(constvars.FormFieldPhoto)
	}
	ErrRequestBodyTooLarge = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusRequestEntityTooBig, constvars.ErrClientRequestTooLarge, constvars.ErrDevRequestBodyTooLarge)
	}
	ErrDeviceIDRequired = func(err error) *CustomError {
		return BuildKindError(KindValidation, err, constvars.StatusBadRequest, constvars.ErrClientDeviceIDRequired, constvars.ErrDevDeviceIDMissing)
	}
)

// Policy
var (
	ErrPolicyViolation = func(field, clientMessage, devMessage string) *CustomError {
		return BuildKindError(KindPolicy, nil, constvars.StatusUnprocessableEntity, clientMessage, devMessage).WithField(field)
	}
	ErrWeakPassword = func(field string) *CustomError {
		return BuildKindError(KindPolicy, nil, constvars.StatusUnprocessableEntity, constvars.ErrClientWeakPassword, constvars.ErrDevWeakPassword).WithField(field)
	}
)

// Remote
var (
	ErrRemoteRejected = func(statusCode int, clientMessage string) *CustomError {
		return BuildKindError(KindRemoteRejection, nil, statusCode, clientMessage, constvars.ErrDevBackendRejected)
	}
	ErrConnectivity = func(err error, clientMessage string) *CustomError {
		return BuildKindError(KindConnectivity, err, constvars.StatusBadGateway, clientMessage, constvars.ErrDevBackendUnreachable)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCreateHTTPRequest)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildKindError(KindConnectivity, err, constvars.StatusBadGateway, constvars.ErrClientNoConnection, constvars.ErrDevSendHTTPRequest)
	}
	ErrDecodeResponse = func(err error) *CustomError {
		return BuildKindError(KindConnectivity, err, constvars.StatusBadGateway, constvars.ErrClientNoConnection, constvars.ErrDevDecodeResponse)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildKindError(KindConnectivity, err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
)

// Workflow
var (
	ErrWorkflowNotFound = func(err error) *CustomError {
		return BuildKindError(KindWorkflow, err, constvars.StatusNotFound, constvars.ErrClientWorkflowNotFound, constvars.ErrDevWorkflowNotFound)
	}
	ErrWorkflowStepMismatch = func(step, action string) *CustomError {
		return BuildKindError(KindWorkflow, nil, constvars.StatusConflict, constvars.ErrClientWorkflowStepMismatch, fmt.Sprintf(constvars.ErrDevWorkflowStepMismatch, step, action))
	}
	ErrSubmissionInFlight = func(err error) *CustomError {
		return BuildKindError(KindWorkflow, err, constvars.StatusConflict, constvars.ErrClientSubmissionInFlight, constvars.ErrDevSubmissionInFlight)
	}
	ErrPersonalDataUnavailable = func(err error) *CustomError {
		return BuildKindError(KindWorkflow, err, constvars.StatusConflict, constvars.ErrClientPersonalDataUnavailable, constvars.ErrDevWorkflowStateCorrupted)
	}
	ErrWorkflowStateCorrupted = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevWorkflowStateCorrupted)
	}
	ErrTooManyRequests = func(err error) *CustomError {
		return BuildKindError(KindPolicy, err, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, constvars.ErrDevTooManyRequests)
	}
)

// Internal
var (
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrPanicRecovered = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevPanicRecovered)
	}
)

// Storage
var (
	ErrRedisSet = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf("%s %s", constvars.ErrDevRedisSet, key))
	}
	ErrRedisGet = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf("%s %s", constvars.ErrDevRedisGet, key))
	}
	ErrRedisDelete = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf("%s %s", constvars.ErrDevRedisDelete, key))
	}
	ErrLockAcquire = func(err error, key string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf("%s %s", constvars.ErrDevLockAcquire, key))
	}
	ErrKVStoreWrite = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevKVStoreWrite)
	}
	ErrKVStoreRead = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevKVStoreRead)
	}
	ErrKVStoreDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevKVStoreDelete)
	}
	ErrEncryptEntry = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevEncryptEntry)
	}
	ErrDecryptEntry = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDecryptEntry)
	}
	ErrStorageUploadFile = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf("%s %s", constvars.ErrDevStorageUploadFile, bucketName))
	}
	ErrStorageGetURL = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf("%s %s", constvars.ErrDevStorageGetURL, bucketName))
	}
)
