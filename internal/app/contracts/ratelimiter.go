package contracts

import (
	"context"
	"time"
)

type QuotaLimiter interface {
	// Allow counts one attempt against group+resource and reports whether it fits the quota.
	Allow(ctx context.Context, group, resource string, quota int, window time.Duration) (allowed bool, retryAfter time.Duration, err error)
}
