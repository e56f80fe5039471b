package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DeviceRateLimiter throttles the routes that fan out to paid verification
// calls. Clients are keyed by X-Device-ID, falling back to the remote IP.
type DeviceRateLimiter struct {
	log       *zap.Logger
	limiters  map[string]*rate.Limiter
	blocked   map[string]time.Time
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	blockTime time.Duration
	now       func() time.Time
}

func NewDeviceRateLimiter(logger *zap.Logger, requestsPerSecond, burst int, blockTime time.Duration) *DeviceRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DeviceRateLimiter{
		log:       logger,
		limiters:  make(map[string]*rate.Limiter),
		blocked:   make(map[string]time.Time),
		limit:     rate.Limit(requestsPerSecond),
		burst:     burst,
		blockTime: blockTime,
		now:       time.Now,
	}
}

// DeviceRateLimiter builds the limiter from the App settings.
func (m *Middlewares) DeviceRateLimiter() *DeviceRateLimiter {
	app := m.InternalConfig.App
	return NewDeviceRateLimiter(m.Log, app.DeviceRequestsPerSecond, app.DeviceRequestsBurst, time.Duration(app.DeviceBlockTimeInSeconds)*time.Second)
}

func (d *DeviceRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		now := d.now()

		d.mu.Lock()

		if blockedUntil, found := d.blocked[key]; found {
			if now.Before(blockedUntil) {
				d.mu.Unlock()
				d.reject(w, r, key, blockedUntil.Sub(now))
				return
			}
			delete(d.blocked, key)
		}

		limiter, exists := d.limiters[key]
		if !exists {
			limiter = rate.NewLimiter(d.limit, d.burst)
			d.limiters[key] = limiter
		}

		if !limiter.AllowN(now, 1) {
			d.blocked[key] = now.Add(d.blockTime)
			d.mu.Unlock()
			d.reject(w, r, key, d.blockTime)
			return
		}

		d.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (d *DeviceRateLimiter) reject(w http.ResponseWriter, r *http.Request, key string, retryAfter time.Duration) {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	d.log.Warn("DeviceRateLimiter.Limit blocked client",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDeviceIDKey, key),
		zap.String(constvars.LoggingEndpointKey, r.URL.Path),
	)

	w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(seconds))
	utils.BuildErrorResponse(d.log, w, exceptions.ErrTooManyRequests(nil))
}

func clientKey(r *http.Request) string {
	if deviceID, ok := r.Context().Value(constvars.CONTEXT_DEVICE_ID_KEY).(string); ok && deviceID != "" {
		return "device:" + deviceID
	}
	if deviceID := r.Header.Get(constvars.HeaderXDeviceID); deviceID != "" {
		return "device:" + deviceID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
