package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// Logging writes one line when a request arrives and one when it is answered.
// Paths carry workflow ids, so only the matched route pattern is logged.
func (m *Middlewares) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		isClientRequestID, _ := r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)

		m.Log.Info("API request started",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Bool(constvars.LoggingClientRequestKey, isClientRequestID),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.Bool(constvars.LoggingHasDeviceKey, r.Header.Get(constvars.HeaderXDeviceID) != ""),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
		)

		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil && routeCtx.RoutePattern() != "" {
			route = routeCtx.RoutePattern()
		}

		fields := []zap.Field{
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingEndpointKey, route),
			zap.Int(constvars.LoggingStatusCodeKey, rec.statusCode),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
		}
		switch {
		case rec.statusCode >= 500:
			m.Log.Error("API request failed", fields...)
		case rec.statusCode >= 400:
			m.Log.Warn("API request rejected", fields...)
		default:
			m.Log.Info("API request completed", fields...)
		}
	})
}

func (m *Middlewares) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constvars.HeaderXRequestID)
		isClientRequestID := true

		// client ids are logged verbatim; only short printable ones are kept
		if !isHeaderToken(requestID) {
			requestID = utils.GenerateRequestID()
			isClientRequestID = false
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_REQUEST_ID_KEY, requestID)
		ctx = context.WithValue(ctx, constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY, isClientRequestID)

		w.Header().Set(constvars.HeaderXRequestID, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireDeviceID puts the X-Device-ID header into the context. Sessions are
// scoped per device, so routes touching the session store cannot run without it.
func (m *Middlewares) RequireDeviceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := strings.TrimSpace(r.Header.Get(constvars.HeaderXDeviceID))
		if !isHeaderToken(deviceID) {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrDeviceIDRequired(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_DEVICE_ID_KEY, deviceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const maxHeaderTokenLength = 64

// isHeaderToken accepts non-empty printable ASCII without spaces, up to 64 bytes.
func isHeaderToken(value string) bool {
	if value == "" || len(value) > maxHeaderTokenLength {
		return false
	}
	for _, c := range value {
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
