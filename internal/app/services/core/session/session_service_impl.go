package session

import (
	"context"
	"sync"
	"time"
	"virem-service/internal/app/contracts"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type sessionStore struct {
	Store      contracts.KeyValueStore
	DefaultTTL time.Duration
	Log        *zap.Logger
	now        func() time.Time
}

var (
	sessionStoreInstance contracts.SessionStore
	onceSessionStore     sync.Once
)

func NewSessionStore(store contracts.KeyValueStore, defaultTTL time.Duration, logger *zap.Logger) contracts.SessionStore {
	onceSessionStore.Do(func() {
		sessionStoreInstance = newSessionStore(store, defaultTTL, logger, time.Now)
	})
	return sessionStoreInstance
}

func newSessionStore(store contracts.KeyValueStore, defaultTTL time.Duration, logger *zap.Logger, now func() time.Time) *sessionStore {
	return &sessionStore{
		Store:      store,
		DefaultTTL: defaultTTL,
		Log:        logger,
		now:        now,
	}
}

// Save writes the token first and then the profile. A failed write is logged and
// swallowed so a storage outage never turns a successful login into an error.
func (s *sessionStore) Save(ctx context.Context, deviceID, token string, profile models.UserProfile) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("sessionStore.Save called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDeviceIDKey, deviceID),
	)

	ttl, live := s.tokenTTL(token)
	if !live {
		s.Log.Warn("sessionStore.Save token already expired, session not stored",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeviceIDKey, deviceID),
		)
		// an older session for this device must not outlive the new login
		_ = s.Store.Delete(ctx,
			sessionKey(deviceID, constvars.SessionKeyAuthToken),
			sessionKey(deviceID, constvars.SessionKeyUserProfile),
		)
		return
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		s.Log.Error("sessionStore.Save error marshaling user profile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}

	if err := s.Store.Put(ctx, sessionKey(deviceID, constvars.SessionKeyAuthToken), token, ttl); err != nil {
		s.Log.Error("sessionStore.Save error storing auth token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeviceIDKey, deviceID),
			zap.Error(err),
		)
		return
	}

	if err := s.Store.Put(ctx, sessionKey(deviceID, constvars.SessionKeyUserProfile), string(profileJSON), ttl); err != nil {
		s.Log.Error("sessionStore.Save error storing user profile",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeviceIDKey, deviceID),
			zap.Error(err),
		)
		return
	}

	s.Log.Info("sessionStore.Save succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Duration("ttl", ttl),
	)
}

func (s *sessionStore) Clear(ctx context.Context, deviceID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("sessionStore.Clear called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDeviceIDKey, deviceID),
	)

	err := s.Store.Delete(ctx,
		sessionKey(deviceID, constvars.SessionKeyAuthToken),
		sessionKey(deviceID, constvars.SessionKeyUserProfile),
	)
	if err != nil {
		s.Log.Warn("sessionStore.Clear error deleting session keys",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeviceIDKey, deviceID),
			zap.Error(err),
		)
		return err
	}

	s.Log.Info("sessionStore.Clear succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}

// Load needs both keys. A token without a readable profile counts as no session.
func (s *sessionStore) Load(ctx context.Context, deviceID string) (*models.Session, bool) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	token, found, err := s.Store.Get(ctx, sessionKey(deviceID, constvars.SessionKeyAuthToken))
	if err != nil || !found || token == "" {
		if err != nil {
			s.Log.Warn("sessionStore.Load error reading auth token",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
		return nil, false
	}

	profileJSON, found, err := s.Store.Get(ctx, sessionKey(deviceID, constvars.SessionKeyUserProfile))
	if err != nil || !found {
		if err != nil {
			s.Log.Warn("sessionStore.Load error reading user profile",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
		return nil, false
	}

	profile := models.UserProfile{}
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		s.Log.Warn("sessionStore.Load stored user profile is corrupt",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDeviceIDKey, deviceID),
			zap.Error(err),
		)
		return nil, false
	}

	session := &models.Session{Token: token, Profile: profile}
	if exp, ok := tokenExpiry(token); ok {
		if !exp.After(s.now()) {
			return nil, false
		}
		session.ExpiresAt = exp
	}
	return session, true
}

// tokenTTL follows the exp claim of the backend token when present. The signature is
// not checked here; the backend remains the authority on the token. live is false
// once exp has passed.
func (s *sessionStore) tokenTTL(token string) (ttl time.Duration, live bool) {
	exp, ok := tokenExpiry(token)
	if !ok {
		return s.DefaultTTL, true
	}
	ttl = exp.Sub(s.now())
	if ttl <= 0 {
		return 0, false
	}
	return ttl, true
}

func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}

func sessionKey(deviceID, name string) string {
	return deviceID + ":" + name
}
