package utils

import (
	"errors"
	"net/http"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/responses"
	"virem-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	BuildErrorResponseWithData(log, w, err, nil)
}

// BuildErrorResponseWithData is BuildErrorResponse carrying the workflow state
// next to the error, so a failed gate can render its field messages and draft.
func BuildErrorResponseWithData(log *zap.Logger, w http.ResponseWriter, err error, data interface{}) {
	code := constvars.StatusInternalServerError
	clientMessage := constvars.ErrClientSomethingWrongWithApplication
	kind := exceptions.KindInternal
	field := ""

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		code = customErr.StatusCode
		clientMessage = customErr.ClientMessage
		kind = customErr.Kind
		field = customErr.Field
		for _, location := range customErr.Locations {
			log.Error(customErr.DevMessage,
				zap.String(constvars.LoggingErrorTypeKey, string(customErr.Kind)),
				zap.Any("location", location),
			)
		}
	} else {
		log.Error(err.Error())
	}

	response := responses.ErrorResponseDTO{
		CustomError: exceptions.CustomError{
			StatusCode:    code,
			Success:       false,
			ClientMessage: clientMessage,
			Kind:          kind,
			Field:         field,
		},
		Data: data,
	}

	appEnvironment := GetEnvString("APP_ENV", constvars.AppEnvDevelopment)
	if customErr != nil && appEnvironment != constvars.AppEnvProduction {
		response.DevMessage = customErr.DevMessage
		response.Locations = customErr.Locations
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}
