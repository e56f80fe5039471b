package auth

import (
	"context"
	"sync"
	"time"
	"virem-service/internal/app/config"
	"virem-service/internal/app/contracts"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/dto/responses"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type authUsecase struct {
	AccountClient   contracts.AccountClient
	SessionStore    contracts.SessionStore
	RedisRepository contracts.RedisRepository
	LockService     contracts.LockerService
	QuotaLimiter    contracts.QuotaLimiter
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
	now             func() time.Time
}

var (
	authUsecaseInstance contracts.AuthUsecase
	onceAuthUsecase     sync.Once
)

func NewAuthUsecase(
	accountClient contracts.AccountClient,
	sessionStore contracts.SessionStore,
	redisRepository contracts.RedisRepository,
	lockService contracts.LockerService,
	quotaLimiter contracts.QuotaLimiter,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AuthUsecase {
	onceAuthUsecase.Do(func() {
		authUsecaseInstance = newAuthUsecase(accountClient, sessionStore, redisRepository, lockService, quotaLimiter, internalConfig, logger, time.Now)
	})
	return authUsecaseInstance
}

func newAuthUsecase(
	accountClient contracts.AccountClient,
	sessionStore contracts.SessionStore,
	redisRepository contracts.RedisRepository,
	lockService contracts.LockerService,
	quotaLimiter contracts.QuotaLimiter,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
	now func() time.Time,
) *authUsecase {
	return &authUsecase{
		AccountClient:   accountClient,
		SessionStore:    sessionStore,
		RedisRepository: redisRepository,
		LockService:     lockService,
		QuotaLimiter:    quotaLimiter,
		InternalConfig:  internalConfig,
		Log:             logger,
		now:             now,
	}
}

func (uc *authUsecase) Login(ctx context.Context, deviceID string, request *requests.Login) (*responses.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Login called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDeviceIDKey, deviceID),
	)

	email := utils.NormalizeEmail(request.Email)
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	if request.Password == "" {
		return nil, exceptions.ErrFieldValidation(constvars.FieldPassword, constvars.ErrClientPasswordRequired)
	}

	outcome := uc.AccountClient.Login(ctx, email, request.Password)
	if !outcome.OK {
		uc.Log.Info("authUsecase.Login rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFailureKindKey, string(outcome.Failure)),
			zap.Int(constvars.LoggingStatusCodeKey, outcome.StatusCode),
		)
		return nil, remoteFailure(outcome.RemoteOutcome, constvars.StatusUnauthorized)
	}

	uc.SessionStore.Save(ctx, deviceID, outcome.Token, outcome.User)

	session := uc.GetSession(ctx, deviceID)
	if !session.Authenticated {
		// the store lost the write; the login itself still succeeded
		session = sessionResponse(&models.Session{Profile: outcome.User})
	}

	uc.Log.Info("authUsecase.Login succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDeviceIDKey, deviceID),
	)
	return session, nil
}

// Logout never fails: a session that cannot be cleared is treated as gone.
func (uc *authUsecase) Logout(ctx context.Context, deviceID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.Logout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDeviceIDKey, deviceID),
	)

	if err := uc.SessionStore.Clear(ctx, deviceID); err != nil {
		uc.Log.Warn("authUsecase.Logout session store not cleared",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("authUsecase.Logout succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}

func (uc *authUsecase) GetSession(ctx context.Context, deviceID string) *responses.Session {
	session, found := uc.SessionStore.Load(ctx, deviceID)
	if !found {
		return &responses.Session{
			Authenticated: false,
			DisplayName:   constvars.DefaultDisplayName,
		}
	}
	return sessionResponse(session)
}

func sessionResponse(session *models.Session) *responses.Session {
	profile := session.Profile
	response := &responses.Session{
		Authenticated: true,
		DisplayName:   profile.DisplayName(),
		Profile: &responses.UserProfile{
			ID:         profile.ID,
			GivenNames: profile.GivenNames,
			Surnames:   profile.Surnames,
			Email:      profile.Email,
			Role:       profile.Role,
		},
	}
	if !session.ExpiresAt.IsZero() {
		expiresAt := session.ExpiresAt
		response.ExpiresAt = &expiresAt
	}
	return response
}

func checkEmail(email string) error {
	if email == "" {
		return exceptions.ErrFieldValidation(constvars.FieldEmail, constvars.ErrClientEmailRequired)
	}
	if !utils.IsValidEmail(email) {
		return exceptions.ErrFieldValidation(constvars.FieldEmail, constvars.ErrClientInvalidEmail)
	}
	return nil
}

// remoteFailure keeps the backend message verbatim. fallbackStatus is used when
// the backend answered 2xx without the data the call needed.
func remoteFailure(outcome models.RemoteOutcome, fallbackStatus int) *exceptions.CustomError {
	if outcome.Failure == models.FailureConnectivity {
		return exceptions.ErrConnectivity(nil, outcome.Message)
	}
	statusCode := outcome.StatusCode
	if statusCode < 400 {
		statusCode = fallbackStatus
	}
	return exceptions.ErrRemoteRejected(statusCode, outcome.Message)
}
