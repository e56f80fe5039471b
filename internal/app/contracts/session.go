package contracts

import (
	"context"
	"virem-service/internal/app/models"
)

type SessionStore interface {
	// Save never fails the caller; storage problems are logged.
	Save(ctx context.Context, deviceID, token string, profile models.UserProfile)
	// Clear removes both session keys and reports the first storage error,
	// callers treat the session as gone regardless.
	Clear(ctx context.Context, deviceID string) error
	Load(ctx context.Context, deviceID string) (*models.Session, bool)
}
