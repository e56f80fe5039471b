package controllers

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"time"
	"virem-service/internal/app/config"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const minimumHandlerTimeout = 10 * time.Second

// handlerTimeout covers the slowest chain a handler can trigger: a doctor's
// phone check, license check and register call run one after another.
func handlerTimeout(internalConfig *config.InternalConfig) time.Duration {
	timeout := 3 * internalConfig.Backend.RequestTimeout
	if timeout < minimumHandlerTimeout {
		return minimumHandlerTimeout
	}
	return timeout
}

func requestIDFrom(log *zap.Logger, w http.ResponseWriter, r *http.Request, caller string) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error(caller + " requestID not found in context")
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func deviceIDFrom(r *http.Request) string {
	deviceID, _ := r.Context().Value(constvars.CONTEXT_DEVICE_ID_KEY).(string)
	return deviceID
}

// writeUsecaseError answers with the error and, when the usecase handed one
// back, the workflow state the screen should re-render.
func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, err error, state interface{}) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	if isNil(state) {
		utils.BuildErrorResponse(log, w, err)
		return
	}
	utils.BuildErrorResponseWithData(log, w, err, state)
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
