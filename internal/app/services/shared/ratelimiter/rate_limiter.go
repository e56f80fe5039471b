package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"virem-service/internal/app/contracts"
	"virem-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

// ResourceLimiter is a fixed-window counter stored in Redis with a TTL equal to the window.
// Registration uses it to cap phone checks per workflow, recovery to cap codes sent per email.
type ResourceLimiter struct {
	redis contracts.RedisRepository
	log   *zap.Logger
	now   func() time.Time
}

func NewResourceLimiter(redis contracts.RedisRepository, log *zap.Logger) *ResourceLimiter {
	return &ResourceLimiter{redis: redis, log: log, now: time.Now}
}

type ApplyResourceLimiterInput struct {
	ResourceName      string
	LimiterGroupName  string
	WindowDurationSec int
	MaxQuota          int
	// NowUTC is optional; zero means the limiter clock.
	NowUTC time.Time
}

type ApplyResourceLimiterOutput struct {
	Allowed        bool
	RetryAfterSecs int
}

// ApplyResourceLimiter enforces a fixed-window limit keyed by group + resource.
// Over quota it returns Allowed=false with the seconds left until the next window.
func (l *ResourceLimiter) ApplyResourceLimiter(ctx context.Context, in *ApplyResourceLimiterInput) (*ApplyResourceLimiterOutput, error) {
	if in == nil {
		return &ApplyResourceLimiterOutput{Allowed: false}, errors.New("nil input")
	}

	resource := strings.ToLower(strings.TrimSpace(in.ResourceName))
	group := strings.ToUpper(strings.TrimSpace(in.LimiterGroupName))
	windowSec := in.WindowDurationSec
	if windowSec <= 0 {
		windowSec = 60
	}
	if in.MaxQuota <= 0 {
		return &ApplyResourceLimiterOutput{Allowed: true}, nil
	}
	if resource == "" || group == "" {
		return &ApplyResourceLimiterOutput{Allowed: false, RetryAfterSecs: windowSec}, nil
	}

	now := in.NowUTC
	if now.IsZero() {
		now = l.now().UTC()
	}

	windowID := now.Unix() / int64(windowSec)
	key := fmt.Sprintf("%s:%s:%d", group, resource, windowID)

	ttl := time.Duration(windowSec)*time.Second + time.Second
	newCount, err := l.redis.IncrementWithTTL(ctx, key, ttl)
	if err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		l.log.Error("ResourceLimiter.ApplyResourceLimiter increment failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("key", key),
			zap.Error(err),
		)
		return &ApplyResourceLimiterOutput{Allowed: false}, err
	}

	if newCount > in.MaxQuota {
		nextWindowStart := (windowID + 1) * int64(windowSec)
		return &ApplyResourceLimiterOutput{Allowed: false, RetryAfterSecs: int(nextWindowStart-now.Unix()) + 1}, nil
	}
	return &ApplyResourceLimiterOutput{Allowed: true}, nil
}

// Allow adapts ApplyResourceLimiter to contracts.QuotaLimiter.
func (l *ResourceLimiter) Allow(ctx context.Context, group, resource string, quota int, window time.Duration) (bool, time.Duration, error) {
	output, err := l.ApplyResourceLimiter(ctx, &ApplyResourceLimiterInput{
		ResourceName:      resource,
		LimiterGroupName:  group,
		WindowDurationSec: int(window / time.Second),
		MaxQuota:          quota,
	})
	if err != nil {
		return false, 0, err
	}
	return output.Allowed, time.Duration(output.RetryAfterSecs) * time.Second, nil
}
