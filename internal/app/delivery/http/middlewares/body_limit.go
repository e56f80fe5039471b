package middlewares

import (
	"net/http"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"
)

const megabyte = 1 << 20

// BodyLimit rejects requests whose declared length is over the configured cap and
// bounds the reader for the ones that lie about it.
func (m *Middlewares) BodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := int64(m.InternalConfig.App.RequestBodyLimitInMegabyte) * megabyte
		if limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > limit {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrRequestBodyTooLarge(nil))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
