package auth

import (
	"context"
	"time"
	"virem-service/internal/app/models"
	"virem-service/internal/pkg/constvars"
	"virem-service/internal/pkg/dto/requests"
	"virem-service/internal/pkg/dto/responses"
	"virem-service/internal/pkg/exceptions"
	"virem-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const recoveryLockFallbackTTL = 30 * time.Second

// RequestRecoveryCode asks the backend to mail a code and opens a recovery flow
// waiting for it. No flow is created when the backend refuses the address.
func (uc *authUsecase) RequestRecoveryCode(ctx context.Context, request *requests.RecoveryRequestCode) (*responses.RecoveryState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.RequestRecoveryCode called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	email := utils.NormalizeEmail(request.Email)
	if err := checkEmail(email); err != nil {
		return nil, err
	}
	if err := uc.checkSendCodeQuota(ctx, email); err != nil {
		return nil, err
	}

	outcome := uc.AccountClient.SendRecoveryCode(ctx, email)
	if !outcome.OK {
		uc.Log.Info("authUsecase.RequestRecoveryCode rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFailureKindKey, string(outcome.Failure)),
			zap.Int(constvars.LoggingStatusCodeKey, outcome.StatusCode),
		)
		return nil, remoteFailure(outcome, constvars.StatusBadGateway).WithField(constvars.FieldEmail)
	}

	now := uc.now()
	state := &models.RecoveryWorkflowState{
		ID:        utils.GenerateWorkflowID(),
		Step:      models.RecoveryStepVerifyCode,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.saveRecovery(ctx, state); err != nil {
		uc.Log.Error("authUsecase.RequestRecoveryCode error saving recovery state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("authUsecase.RequestRecoveryCode succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRecoveryIDKey, state.ID),
	)
	return recoveryResponse(state), nil
}

func (uc *authUsecase) GetRecoveryState(ctx context.Context, recoveryID string) (*responses.RecoveryState, error) {
	state, err := uc.loadRecovery(ctx, recoveryID)
	if err != nil {
		return nil, err
	}
	return recoveryResponse(state), nil
}

// VerifyRecoveryCode stays on the code screen when the backend refuses the code.
func (uc *authUsecase) VerifyRecoveryCode(ctx context.Context, recoveryID string, request *requests.RecoveryVerifyCode) (*responses.RecoveryState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.VerifyRecoveryCode called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRecoveryIDKey, recoveryID),
	)

	release, err := uc.lockRecovery(ctx, recoveryID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := uc.loadRecovery(ctx, recoveryID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.RecoveryStepVerifyCode {
		return nil, exceptions.ErrWorkflowStepMismatch(string(state.Step), "verify_code")
	}

	state.ClearFeedback()
	state.UpdatedAt = uc.now()

	code := models.NewOtpCodeFromSlots(request.Code)
	if !code.IsComplete() {
		state.SetFieldError(constvars.FieldOTPCode, constvars.ErrClientIncompleteOTP)
		if err := uc.saveRecovery(ctx, state); err != nil {
			return nil, err
		}
		return recoveryResponse(state), exceptions.ErrFieldValidation(constvars.FieldOTPCode, constvars.ErrClientIncompleteOTP)
	}

	outcome := uc.AccountClient.VerifyRecoveryCode(ctx, state.Email, code.String())
	if !outcome.OK {
		state.SetFieldError(constvars.FieldOTPCode, outcome.Message)
		state.FailureMessage = outcome.Message
		state.FailureKind = string(outcome.Failure)
		if err := uc.saveRecovery(ctx, state); err != nil {
			return nil, err
		}
		uc.Log.Info("authUsecase.VerifyRecoveryCode rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFailureKindKey, state.FailureKind),
		)
		return recoveryResponse(state), remoteFailure(outcome, constvars.StatusUnprocessableEntity).WithField(constvars.FieldOTPCode)
	}

	state.Step = models.RecoveryStepSetNewPassword
	state.VerifiedEmail = state.Email
	if err := uc.saveRecovery(ctx, state); err != nil {
		return nil, err
	}

	uc.Log.Info("authUsecase.VerifyRecoveryCode succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRecoveryIDKey, recoveryID),
	)
	return recoveryResponse(state), nil
}

// SetNewPassword finishes the flow; the state is dropped once the backend accepts
// the password and the caller goes back to login.
func (uc *authUsecase) SetNewPassword(ctx context.Context, recoveryID string, request *requests.RecoverySetPassword) (*responses.RecoveryState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("authUsecase.SetNewPassword called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRecoveryIDKey, recoveryID),
	)

	release, err := uc.lockRecovery(ctx, recoveryID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := uc.loadRecovery(ctx, recoveryID)
	if err != nil {
		return nil, err
	}
	if state.Step != models.RecoveryStepSetNewPassword {
		return nil, exceptions.ErrWorkflowStepMismatch(string(state.Step), "set_new_password")
	}
	if state.VerifiedEmail == "" {
		return nil, exceptions.ErrPolicyViolation(constvars.FieldEmail, constvars.ErrClientRecoveryEmailNotFound, constvars.ErrDevWorkflowStateCorrupted)
	}

	state.ClearFeedback()
	state.UpdatedAt = uc.now()

	checks := utils.CheckPassword(request.NewPassword)
	state.PasswordChecks = &checks
	if !checks.All() {
		state.SetFieldError(constvars.FieldNewPassword, constvars.ErrClientWeakPassword)
		if err := uc.saveRecovery(ctx, state); err != nil {
			return nil, err
		}
		return recoveryResponse(state), exceptions.ErrWeakPassword(constvars.FieldNewPassword)
	}
	if request.NewPassword != request.ConfirmPassword {
		state.SetFieldError(constvars.FieldConfirmPassword, constvars.ErrClientPasswordsDoNotMatch)
		if err := uc.saveRecovery(ctx, state); err != nil {
			return nil, err
		}
		return recoveryResponse(state), exceptions.ErrPasswordDoNotMatch(constvars.FieldConfirmPassword)
	}

	outcome := uc.AccountClient.UpdatePassword(ctx, state.VerifiedEmail, request.NewPassword)
	if !outcome.OK {
		state.FailureMessage = outcome.Message
		state.FailureKind = string(outcome.Failure)
		if err := uc.saveRecovery(context.WithoutCancel(ctx), state); err != nil {
			return nil, err
		}
		uc.Log.Info("authUsecase.SetNewPassword rejected",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingFailureKindKey, state.FailureKind),
			zap.Int(constvars.LoggingStatusCodeKey, outcome.StatusCode),
		)
		return recoveryResponse(state), remoteFailure(outcome, constvars.StatusBadGateway)
	}

	state.Step = models.RecoveryStepCompleted
	if err := uc.RedisRepository.Delete(context.WithoutCancel(ctx), recoveryKey(recoveryID)); err != nil {
		uc.Log.Warn("authUsecase.SetNewPassword error clearing recovery state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("authUsecase.SetNewPassword succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRecoveryIDKey, recoveryID),
	)
	return recoveryResponse(state), nil
}

// checkSendCodeQuota bounds how many codes one address can be sent. A limiter
// outage lets the request through.
func (uc *authUsecase) checkSendCodeQuota(ctx context.Context, email string) error {
	quota := uc.InternalConfig.Recovery.SendCodeQuota
	if uc.QuotaLimiter == nil || quota <= 0 {
		return nil
	}
	allowed, _, err := uc.QuotaLimiter.Allow(ctx, constvars.RateLimitGroupRecoveryEmail, email, quota, uc.InternalConfig.Recovery.SendCodeWindow)
	if err != nil {
		requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		uc.Log.Warn("authUsecase.checkSendCodeQuota limiter unavailable",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil
	}
	if !allowed {
		return exceptions.ErrTooManyRequests(nil).WithField(constvars.FieldEmail)
	}
	return nil
}

// lockRecovery keeps one backend call per recovery flow in flight across replicas.
func (uc *authUsecase) lockRecovery(ctx context.Context, recoveryID string) (func(), error) {
	lockKey := constvars.LockKeyPrefixRecovery + recoveryID
	ttl := uc.InternalConfig.Backend.RequestTimeout * 2
	if ttl <= 0 {
		ttl = recoveryLockFallbackTTL
	}
	acquired, lockValue, err := uc.LockService.TryLock(ctx, lockKey, ttl)
	if err != nil {
		return nil, exceptions.ErrLockAcquire(err, lockKey)
	}
	if !acquired {
		return nil, exceptions.ErrSubmissionInFlight(nil)
	}
	return func() {
		if err := uc.LockService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			uc.Log.Warn("authUsecase.lockRecovery error releasing lock",
				zap.String(constvars.LoggingRecoveryIDKey, recoveryID),
				zap.Error(err),
			)
		}
	}, nil
}

func (uc *authUsecase) loadRecovery(ctx context.Context, recoveryID string) (*models.RecoveryWorkflowState, error) {
	raw, err := uc.RedisRepository.Get(ctx, recoveryKey(recoveryID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, exceptions.ErrWorkflowNotFound(nil)
	}

	state := new(models.RecoveryWorkflowState)
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, exceptions.ErrWorkflowStateCorrupted(err)
	}
	return state, nil
}

func (uc *authUsecase) saveRecovery(ctx context.Context, state *models.RecoveryWorkflowState) error {
	return uc.RedisRepository.Set(ctx, recoveryKey(state.ID), state, uc.InternalConfig.Recovery.WorkflowTTL)
}

func recoveryKey(recoveryID string) string {
	return constvars.RedisKeyPrefixRecovery + recoveryID
}

func recoveryResponse(state *models.RecoveryWorkflowState) *responses.RecoveryState {
	response := &responses.RecoveryState{
		ID:             state.ID,
		Step:           string(state.Step),
		Email:          state.Email,
		FieldErrors:    state.FieldErrors,
		FailureMessage: state.FailureMessage,
		FailureKind:    state.FailureKind,
	}
	if state.PasswordChecks != nil {
		response.PasswordChecks = &responses.PasswordChecks{
			MinLength:    state.PasswordChecks.MinLength,
			HasUppercase: state.PasswordChecks.HasUppercase,
			HasNumber:    state.PasswordChecks.HasNumber,
			HasSpecial:   state.PasswordChecks.HasSpecial,
		}
	}
	return response
}
