package auth

import (
	"context"
	"errors"
	"testing"
	"time"
	"virem-service/internal/app/config"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockAccountClient struct {
	mock.Mock
}

func (m *MockAccountClient) Login(ctx context.Context, email, password string) models.LoginOutcome {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.LoginOutcome)
}

func (m *MockAccountClient) Register(ctx context.Context, payload models.RegisterPayload) models.RemoteOutcome {
	args := m.Called(ctx, payload)
	return args.Get(0).(models.RemoteOutcome)
}

func (m *MockAccountClient) SendRecoveryCode(ctx context.Context, email string) models.RemoteOutcome {
	args := m.Called(ctx, email)
	return args.Get(0).(models.RemoteOutcome)
}

func (m *MockAccountClient) VerifyRecoveryCode(ctx context.Context, email, code string) models.RemoteOutcome {
	args := m.Called(ctx, email, code)
	return args.Get(0).(models.RemoteOutcome)
}

func (m *MockAccountClient) UpdatePassword(ctx context.Context, email, newPassword string) models.RemoteOutcome {
	args := m.Called(ctx, email, newPassword)
	return args.Get(0).(models.RemoteOutcome)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, deviceID, token string, profile models.UserProfile) {
	m.Called(ctx, deviceID, token, profile)
}

func (m *MockSessionStore) Clear(ctx context.Context, deviceID string) error {
	args := m.Called(ctx, deviceID)
	return args.Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context, deviceID string) (*models.Session, bool) {
	args := m.Called(ctx, deviceID)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Bool(1)
}

type MockRedisRepository struct {
	mock.Mock
}

func (m *MockRedisRepository) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockRedisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) SetRaw(ctx context.Context, key, value string, exp time.Duration) error {
	args := m.Called(ctx, key, value, exp)
	return args.Error(0)
}

func (m *MockRedisRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) GetRaw(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockRedisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	args := m.Called(ctx, key, ttl)
	return args.Int(0), args.Error(1)
}

func (m *MockRedisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, exp)
	return args.Bool(0), args.Error(1)
}

type MockLockerService struct {
	mock.Mock
}

func (m *MockLockerService) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	args := m.Called(ctx, key, expiration)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *MockLockerService) Unlock(ctx context.Context, key, lockValue string) error {
	args := m.Called(ctx, key, lockValue)
	return args.Error(0)
}

func (m *MockLockerService) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	args := m.Called(ctx, key, lockValue, expiration)
	return args.Error(0)
}

type MockQuotaLimiter struct {
	mock.Mock
}

func (m *MockQuotaLimiter) Allow(ctx context.Context, group, resource string, quota int, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, group, resource, quota, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type authFixture struct {
	usecase *authUsecase
	account *MockAccountClient
	session *MockSessionStore
	repo    *MockRedisRepository
	locker  *MockLockerService
	limiter *MockQuotaLimiter
}

func newAuthFixture() *authFixture {
	fixture := &authFixture{
		account: new(MockAccountClient),
		session: new(MockSessionStore),
		repo:    new(MockRedisRepository),
		locker:  new(MockLockerService),
		limiter: new(MockQuotaLimiter),
	}
	internalConfig := &config.InternalConfig{
		Backend: config.AppBackend{RequestTimeout: 15 * time.Second},
		Recovery: config.Recovery{
			WorkflowTTL:    15 * time.Minute,
			SendCodeQuota:  3,
			SendCodeWindow: time.Hour,
		},
	}
	fixture.usecase = newAuthUsecase(fixture.account, fixture.session, fixture.repo, fixture.locker, fixture.limiter, internalConfig, zap.NewNop(), func() time.Time { return testNow })
	return fixture
}

func (f *authFixture) expectLock(ctx context.Context, recoveryID string) {
	key := constvars.LockKeyPrefixRecovery + recoveryID
	f.locker.On("TryLock", ctx, key, 30*time.Second).Return(true, "lock-1", nil)
	f.locker.On("Unlock", mock.Anything, key, "lock-1").Return(nil)
}

func (f *authFixture) storeRecovery(t *testing.T, ctx context.Context, state *models.RecoveryWorkflowState) {
	t.Helper()
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	f.repo.On("Get", ctx, constvars.RedisKeyPrefixRecovery+state.ID).Return(string(raw), nil)
}

func TestAuthUsecase_Login(t *testing.T) {
	ctx := context.Background()
	profile := models.UserProfile{ID: "42", GivenNames: "Ana", Surnames: "Pérez", Email: "ana@example.com"}

	t.Run("Session Is Stored On Success", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.account.On("Login", ctx, "ana@example.com", "Toribio123!").Return(models.LoginOutcome{
			RemoteOutcome: models.RemoteOutcome{OK: true, StatusCode: 200},
			Token:         "token-1",
			User:          profile,
		})
		fixture.session.On("Save", ctx, "device-1", "token-1", profile).Return()
		fixture.session.On("Load", ctx, "device-1").Return(&models.Session{Token: "token-1", Profile: profile}, true)

		session, err := fixture.usecase.Login(ctx, "device-1", &requests.Login{Email: " Ana@Example.com", Password: "Toribio123!"})

		require.NoError(t, err)
		assert.True(t, session.Authenticated)
		assert.Equal(t, "Ana Pérez", session.DisplayName)
		fixture.session.AssertExpectations(t)
	})

	t.Run("Lost Session Write Still Logs In", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.account.On("Login", ctx, mock.Anything, mock.Anything).Return(models.LoginOutcome{
			RemoteOutcome: models.RemoteOutcome{OK: true},
			Token:         "token-1",
			User:          profile,
		})
		fixture.session.On("Save", ctx, mock.Anything, mock.Anything, mock.Anything).Return()
		fixture.session.On("Load", ctx, "device-1").Return(nil, false)

		session, err := fixture.usecase.Login(ctx, "device-1", &requests.Login{Email: "ana@example.com", Password: "x"})

		require.NoError(t, err)
		assert.True(t, session.Authenticated)
		assert.Nil(t, session.ExpiresAt)
	})

	t.Run("Invalid Email Never Reaches The Backend", func(t *testing.T) {
		fixture := newAuthFixture()

		_, err := fixture.usecase.Login(ctx, "device-1", &requests.Login{Email: "user@@example", Password: "x"})

		assert.Equal(t, constvars.ErrClientInvalidEmail, err.(*exceptions.CustomError).ClientMessage)
		fixture.account.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty Password", func(t *testing.T) {
		fixture := newAuthFixture()

		_, err := fixture.usecase.Login(ctx, "device-1", &requests.Login{Email: "ana@example.com"})

		assert.Equal(t, constvars.FieldPassword, err.(*exceptions.CustomError).Field)
	})

	t.Run("Wrong Credentials Keep Backend Message", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.account.On("Login", ctx, mock.Anything, mock.Anything).Return(models.LoginOutcome{
			RemoteOutcome: models.RemoteOutcome{StatusCode: 401, Message: "Credenciales inválidas", Failure: models.FailureRejected},
		})

		_, err := fixture.usecase.Login(ctx, "device-1", &requests.Login{Email: "ana@example.com", Password: "nope"})

		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, exceptions.KindRemoteRejection, customErr.Kind)
		assert.Equal(t, "Credenciales inválidas", customErr.ClientMessage)
		assert.Equal(t, 401, customErr.StatusCode)
		fixture.session.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("No Connection", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.account.On("Login", ctx, mock.Anything, mock.Anything).Return(models.LoginOutcome{
			RemoteOutcome: models.RemoteOutcome{Message: constvars.ErrClientNoConnection, Failure: models.FailureConnectivity},
		})

		_, err := fixture.usecase.Login(ctx, "device-1", &requests.Login{Email: "ana@example.com", Password: "x"})

		assert.Equal(t, exceptions.KindConnectivity, exceptions.KindOf(err))
	})
}

func TestAuthUsecase_Session(t *testing.T) {
	ctx := context.Background()

	t.Run("Logout Ignores Storage Failure", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.session.On("Clear", ctx, "device-1").Return(errors.New("disk full"))

		assert.NoError(t, fixture.usecase.Logout(ctx, "device-1"))
	})

	t.Run("Missing Session Uses Fallback Name", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.session.On("Load", ctx, "device-1").Return(nil, false)

		session := fixture.usecase.GetSession(ctx, "device-1")

		assert.False(t, session.Authenticated)
		assert.Equal(t, constvars.DefaultDisplayName, session.DisplayName)
	})

	t.Run("Profile Without Names Uses Fallback Name", func(t *testing.T) {
		fixture := newAuthFixture()
		expiresAt := testNow.Add(time.Hour)
		fixture.session.On("Load", ctx, "device-1").Return(&models.Session{Token: "t", ExpiresAt: expiresAt}, true)

		session := fixture.usecase.GetSession(ctx, "device-1")

		assert.True(t, session.Authenticated)
		assert.Equal(t, constvars.DefaultDisplayName, session.DisplayName)
		require.NotNil(t, session.ExpiresAt)
		assert.Equal(t, expiresAt, *session.ExpiresAt)
	})
}

func TestAuthUsecase_RequestRecoveryCode(t *testing.T) {
	ctx := context.Background()

	t.Run("Flow Opens On Verify Code", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.limiter.On("Allow", ctx, constvars.RateLimitGroupRecoveryEmail, "ana@example.com", 3, time.Hour).Return(true, time.Duration(0), nil)
		fixture.account.On("SendRecoveryCode", ctx, "ana@example.com").Return(models.RemoteOutcome{OK: true, StatusCode: 200})
		fixture.repo.On("Set", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("*models.RecoveryWorkflowState"), 15*time.Minute).Return(nil)

		state, err := fixture.usecase.RequestRecoveryCode(ctx, &requests.RecoveryRequestCode{Email: "ANA@example.com "})

		require.NoError(t, err)
		assert.Equal(t, string(models.RecoveryStepVerifyCode), state.Step)
		assert.Equal(t, "ana@example.com", state.Email)
		assert.NotEmpty(t, state.ID)
	})

	t.Run("Unregistered Email", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.limiter.On("Allow", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, time.Duration(0), nil)
		fixture.account.On("SendRecoveryCode", ctx, "nadie@example.com").Return(models.RemoteOutcome{
			StatusCode: 404,
			Message:    constvars.ErrClientEmailNotRegistered,
			Failure:    models.FailureRejected,
		})

		_, err := fixture.usecase.RequestRecoveryCode(ctx, &requests.RecoveryRequestCode{Email: "nadie@example.com"})

		customErr := err.(*exceptions.CustomError)
		assert.Equal(t, constvars.ErrClientEmailNotRegistered, customErr.ClientMessage)
		assert.Equal(t, constvars.FieldEmail, customErr.Field)
		fixture.repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Quota Exhausted", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.limiter.On("Allow", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, time.Minute, nil)

		_, err := fixture.usecase.RequestRecoveryCode(ctx, &requests.RecoveryRequestCode{Email: "ana@example.com"})

		assert.Equal(t, constvars.StatusTooManyRequests, err.(*exceptions.CustomError).StatusCode)
		fixture.account.AssertNotCalled(t, "SendRecoveryCode", mock.Anything, mock.Anything)
	})

	t.Run("Empty Email", func(t *testing.T) {
		fixture := newAuthFixture()

		_, err := fixture.usecase.RequestRecoveryCode(ctx, &requests.RecoveryRequestCode{Email: "  "})

		assert.Equal(t, constvars.ErrClientEmailRequired, err.(*exceptions.CustomError).ClientMessage)
	})
}

func TestAuthUsecase_VerifyRecoveryCode(t *testing.T) {
	ctx := context.Background()
	waiting := &models.RecoveryWorkflowState{ID: "r1", Step: models.RecoveryStepVerifyCode, Email: "ana@example.com"}

	t.Run("Incomplete Code Stays On Screen", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, waiting)
		fixture.repo.On("Set", ctx, constvars.RedisKeyPrefixRecovery+"r1", mock.Anything, 15*time.Minute).Return(nil)

		state, err := fixture.usecase.VerifyRecoveryCode(ctx, "r1", &requests.RecoveryVerifyCode{Code: []string{"1", "2", "3", "", "5", "6"}})

		assert.Equal(t, constvars.ErrClientIncompleteOTP, err.(*exceptions.CustomError).ClientMessage)
		assert.Equal(t, string(models.RecoveryStepVerifyCode), state.Step)
		fixture.account.AssertNotCalled(t, "VerifyRecoveryCode", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Wrong Code Stays On Screen", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, waiting)
		fixture.repo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		fixture.account.On("VerifyRecoveryCode", ctx, "ana@example.com", "123456").Return(models.RemoteOutcome{
			StatusCode: 400,
			Message:    constvars.ErrClientCodeIncorrectOrExpired,
			Failure:    models.FailureRejected,
		})

		state, err := fixture.usecase.VerifyRecoveryCode(ctx, "r1", &requests.RecoveryVerifyCode{Code: []string{"1", "2", "3", "4", "5", "6"}})

		assert.Equal(t, exceptions.KindRemoteRejection, exceptions.KindOf(err))
		assert.Equal(t, string(models.RecoveryStepVerifyCode), state.Step)
		assert.Equal(t, constvars.ErrClientCodeIncorrectOrExpired, state.FieldErrors[constvars.FieldOTPCode])
	})

	t.Run("Each Box Keeps Its Last Digit", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, waiting)
		fixture.repo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		fixture.account.On("VerifyRecoveryCode", ctx, "ana@example.com", "923456").Return(models.RemoteOutcome{OK: true, StatusCode: 200})

		state, err := fixture.usecase.VerifyRecoveryCode(ctx, "r1", &requests.RecoveryVerifyCode{Code: []string{"19", "2", "3", "4", "5", "6"}})

		require.NoError(t, err)
		assert.Equal(t, string(models.RecoveryStepSetNewPassword), state.Step)
		fixture.account.AssertExpectations(t)
	})

	t.Run("Correct Code Moves To New Password", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, waiting)
		fixture.account.On("VerifyRecoveryCode", ctx, "ana@example.com", "123456").Return(models.RemoteOutcome{OK: true, StatusCode: 200})
		fixture.repo.On("Set", ctx, constvars.RedisKeyPrefixRecovery+"r1", mock.MatchedBy(func(state *models.RecoveryWorkflowState) bool {
			return state.Step == models.RecoveryStepSetNewPassword && state.VerifiedEmail == "ana@example.com"
		}), 15*time.Minute).Return(nil)

		state, err := fixture.usecase.VerifyRecoveryCode(ctx, "r1", &requests.RecoveryVerifyCode{Code: []string{"1", "2", "3", "4", "5", "6"}})

		require.NoError(t, err)
		assert.Equal(t, string(models.RecoveryStepSetNewPassword), state.Step)
		fixture.repo.AssertExpectations(t)
	})

	t.Run("Another Request In Flight", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.locker.On("TryLock", ctx, mock.Anything, mock.Anything).Return(false, "", nil)

		_, err := fixture.usecase.VerifyRecoveryCode(ctx, "r1", &requests.RecoveryVerifyCode{Code: []string{"1", "2", "3", "4", "5", "6"}})

		assert.Equal(t, constvars.ErrClientSubmissionInFlight, err.(*exceptions.CustomError).ClientMessage)
	})
}

func TestAuthUsecase_SetNewPassword(t *testing.T) {
	ctx := context.Background()
	verified := &models.RecoveryWorkflowState{
		ID:            "r1",
		Step:          models.RecoveryStepSetNewPassword,
		Email:         "ana@example.com",
		VerifiedEmail: "ana@example.com",
	}

	t.Run("Weak Password Shows Checklist", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, verified)
		fixture.repo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		state, err := fixture.usecase.SetNewPassword(ctx, "r1", &requests.RecoverySetPassword{NewPassword: "Toribio", ConfirmPassword: "Toribio"})

		assert.Equal(t, exceptions.KindPolicy, exceptions.KindOf(err))
		require.NotNil(t, state.PasswordChecks)
		assert.True(t, state.PasswordChecks.HasUppercase)
		assert.False(t, state.PasswordChecks.HasNumber)
		fixture.account.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Mismatch", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, verified)
		fixture.repo.On("Set", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := fixture.usecase.SetNewPassword(ctx, "r1", &requests.RecoverySetPassword{NewPassword: "Toribio123!", ConfirmPassword: "Toribio123?"})

		assert.Equal(t, constvars.FieldConfirmPassword, err.(*exceptions.CustomError).Field)
	})

	t.Run("Completed Flow Is Cleared", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, verified)
		fixture.account.On("UpdatePassword", ctx, "ana@example.com", "Toribio123!").Return(models.RemoteOutcome{OK: true, StatusCode: 200})
		fixture.repo.On("Delete", mock.Anything, []string{constvars.RedisKeyPrefixRecovery + "r1"}).Return(nil)

		state, err := fixture.usecase.SetNewPassword(ctx, "r1", &requests.RecoverySetPassword{NewPassword: "Toribio123!", ConfirmPassword: "Toribio123!"})

		require.NoError(t, err)
		assert.Equal(t, string(models.RecoveryStepCompleted), state.Step)
		fixture.repo.AssertExpectations(t)
	})

	t.Run("Code Not Verified Yet", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, &models.RecoveryWorkflowState{ID: "r1", Step: models.RecoveryStepVerifyCode, Email: "ana@example.com"})

		_, err := fixture.usecase.SetNewPassword(ctx, "r1", &requests.RecoverySetPassword{NewPassword: "Toribio123!", ConfirmPassword: "Toribio123!"})

		assert.Equal(t, exceptions.KindWorkflow, exceptions.KindOf(err))
	})

	t.Run("Backend Refusal Keeps The Flow", func(t *testing.T) {
		fixture := newAuthFixture()
		fixture.expectLock(ctx, "r1")
		fixture.storeRecovery(t, ctx, verified)
		fixture.account.On("UpdatePassword", ctx, mock.Anything, mock.Anything).Return(models.RemoteOutcome{
			StatusCode: 500,
			Message:    constvars.ErrClientPasswordUpdateFailed,
			Failure:    models.FailureRejected,
		})
		fixture.repo.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		state, err := fixture.usecase.SetNewPassword(ctx, "r1", &requests.RecoverySetPassword{NewPassword: "Toribio123!", ConfirmPassword: "Toribio123!"})

		assert.Equal(t, exceptions.KindRemoteRejection, exceptions.KindOf(err))
		assert.Equal(t, string(models.RecoveryStepSetNewPassword), state.Step)
		assert.Equal(t, constvars.ErrClientPasswordUpdateFailed, state.FailureMessage)
		fixture.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
