package registration

import (
	"bytes"
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

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type registrationUsecase struct {
	Engine          *Engine
	RedisRepository contracts.RedisRepository
	LockService     contracts.LockerService
	AccountClient   contracts.AccountClient
	Storage         contracts.Storage
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
	inFlight        sync.Map
}

var (
	registrationUsecaseInstance contracts.RegistrationUsecase
	onceRegistrationUsecase     sync.Once
)

func NewRegistrationUsecase(
	engine *Engine,
	redisRepository contracts.RedisRepository,
	lockService contracts.LockerService,
	accountClient contracts.AccountClient,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.RegistrationUsecase {
	onceRegistrationUsecase.Do(func() {
		registrationUsecaseInstance = newRegistrationUsecase(engine, redisRepository, lockService, accountClient, storage, internalConfig, logger)
	})
	return registrationUsecaseInstance
}

func newRegistrationUsecase(
	engine *Engine,
	redisRepository contracts.RedisRepository,
	lockService contracts.LockerService,
	accountClient contracts.AccountClient,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *registrationUsecase {
	return &registrationUsecase{
		Engine:          engine,
		RedisRepository: redisRepository,
		LockService:     lockService,
		AccountClient:   accountClient,
		Storage:         storage,
		InternalConfig:  internalConfig,
		Log:             logger,
	}
}

func (uc *registrationUsecase) Start(ctx context.Context) (*responses.RegistrationState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("registrationUsecase.Start called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	state := uc.Engine.NewState(utils.GenerateWorkflowID())
	if err := uc.saveState(ctx, state); err != nil {
		uc.Log.Error("registrationUsecase.Start error saving workflow state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("registrationUsecase.Start succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, state.ID),
	)
	return uc.toResponse(ctx, state), nil
}

func (uc *registrationUsecase) GetState(ctx context.Context, registrationID string) (*responses.RegistrationState, error) {
	state, err := uc.loadState(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, state), nil
}

func (uc *registrationUsecase) SelectProfile(ctx context.Context, registrationID string, request *requests.SelectProfile) (*responses.RegistrationState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("registrationUsecase.SelectProfile called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
		zap.String(constvars.LoggingProfileTypeKey, request.ProfileType),
	)

	state, err := uc.loadState(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	if err := uc.Engine.SelectProfile(state, models.ProfileKind(request.ProfileType)); err != nil {
		return uc.toResponse(ctx, state), err
	}

	if err := uc.saveState(ctx, state); err != nil {
		return nil, err
	}

	uc.Log.Info("registrationUsecase.SelectProfile succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
	)
	return uc.toResponse(ctx, state), nil
}

// SubmitPersonalData saves the state whatever the gates decided, so the draft
// and the field errors survive a failed attempt.
func (uc *registrationUsecase) SubmitPersonalData(ctx context.Context, registrationID string, request *requests.RegistrationPersonalData) (*responses.RegistrationState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("registrationUsecase.SubmitPersonalData called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
	)

	release, err := uc.acquireInProcess(registrationID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := uc.loadState(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if state.InFlight {
		return nil, exceptions.ErrSubmissionInFlight(nil)
	}

	gateErr := uc.Engine.SubmitPersonalData(ctx, state, request)
	if err := uc.saveState(context.WithoutCancel(ctx), state); err != nil {
		return nil, err
	}
	if gateErr != nil {
		uc.Log.Info("registrationUsecase.SubmitPersonalData gate failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRegistrationIDKey, registrationID),
			zap.String(constvars.LoggingFailureKindKey, string(exceptions.KindOf(gateErr))),
		)
		return uc.toResponse(ctx, state), gateErr
	}

	uc.Log.Info("registrationUsecase.SubmitPersonalData succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
	)
	return uc.toResponse(ctx, state), nil
}

func (uc *registrationUsecase) UploadDoctorPhoto(ctx context.Context, registrationID string, request *requests.DoctorPhoto) (*responses.RegistrationState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("registrationUsecase.UploadDoctorPhoto called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
		zap.Int("photo_size", len(request.Photo)),
	)

	state, err := uc.loadState(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if state.Profile != models.ProfileKindDoctor {
		return nil, exceptions.ErrPolicyViolation(constvars.FormFieldPhoto, constvars.ErrClientPhotoOnlyForDoctors, constvars.ErrDevImageValidationFailed)
	}
	switch state.Step {
	case models.RegistrationStepPersonalData, models.RegistrationStepCredentialEntry, models.RegistrationStepFailed:
	default:
		return nil, exceptions.ErrWorkflowStepMismatch(string(state.Step), "upload_photo")
	}

	maxSize := uc.InternalConfig.Registration.PhotoMaxUploadSizeInBytes
	if maxSize > 0 && int64(len(request.Photo)) > maxSize {
		return nil, exceptions.ErrImageTooLarge(nil)
	}
	contentType, extension, ok := utils.DetectPhotoType(request.Photo)
	if !ok {
		uc.Log.Info("registrationUsecase.UploadDoctorPhoto rejected content type",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("content_type", contentType),
		)
		return nil, exceptions.ErrImageValidation(nil)
	}

	objectName := utils.GeneratePhotoObjectName(registrationID, extension)
	objectKey, err := uc.Storage.UploadFile(ctx, bytes.NewReader(request.Photo), int64(len(request.Photo)), contentType, uc.InternalConfig.Minio.BucketName, objectName)
	if err != nil {
		uc.Log.Error("registrationUsecase.UploadDoctorPhoto error uploading photo",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectKey, objectName),
			zap.Error(err),
		)
		return nil, err
	}

	attachPhoto(state, objectKey)
	state.UpdatedAt = uc.Engine.now()
	if err := uc.saveState(ctx, state); err != nil {
		return nil, err
	}

	uc.Log.Info("registrationUsecase.UploadDoctorPhoto succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingObjectKey, objectKey),
	)
	return uc.toResponse(ctx, state), nil
}

// SubmitCredentials issues at most one account request per workflow. Re-entry is
// refused in-process and, across gateway replicas, through the redis lock.
func (uc *registrationUsecase) SubmitCredentials(ctx context.Context, registrationID string, request *requests.RegistrationCredentials) (*responses.RegistrationState, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("registrationUsecase.SubmitCredentials called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
	)

	release, err := uc.acquireInProcess(registrationID)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := uc.loadState(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if state.InFlight {
		if err := uc.resolveStaleSubmission(ctx, state); err != nil {
			return nil, err
		}
	}

	payload, gateErr := uc.Engine.SubmitCredentials(state, request)
	if gateErr != nil {
		if exceptions.KindOf(gateErr) != exceptions.KindWorkflow {
			if err := uc.saveState(ctx, state); err != nil {
				return nil, err
			}
		}
		return uc.toResponse(ctx, state), gateErr
	}

	lockKey := constvars.LockKeyPrefixRegistration + registrationID
	acquired, lockValue, err := uc.LockService.TryLock(ctx, lockKey, uc.InternalConfig.Registration.SubmitLockTTL)
	if err != nil {
		return nil, exceptions.ErrLockAcquire(err, lockKey)
	}
	if !acquired {
		return nil, exceptions.ErrSubmissionInFlight(nil)
	}
	defer func() {
		if err := uc.LockService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			uc.Log.Warn("registrationUsecase.SubmitCredentials error releasing submit lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}()

	uc.Engine.BeginSubmission(state)
	if err := uc.saveState(ctx, state); err != nil {
		return nil, err
	}

	stopRefresh := uc.refreshSubmitLock(ctx, registrationID, lockValue)
	outcome := uc.AccountClient.Register(ctx, *payload)
	stopRefresh()
	submitErr := uc.Engine.FinishSubmission(state, outcome)

	// The request is resolved either way; record it even if the caller went away.
	persistCtx := context.WithoutCancel(ctx)
	if submitErr != nil {
		if err := uc.saveState(persistCtx, state); err != nil {
			return nil, err
		}
		uc.Log.Info("registrationUsecase.SubmitCredentials account request failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRegistrationIDKey, registrationID),
			zap.String(constvars.LoggingFailureKindKey, state.FailureKind),
			zap.Int(constvars.LoggingStatusCodeKey, outcome.StatusCode),
		)
		return uc.toResponse(ctx, state), submitErr
	}

	if err := uc.RedisRepository.Delete(persistCtx, workflowKey(registrationID)); err != nil {
		uc.Log.Warn("registrationUsecase.SubmitCredentials error clearing workflow state",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	uc.Log.Info("registrationUsecase.SubmitCredentials succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
		zap.String(constvars.LoggingProfileTypeKey, string(state.Profile)),
	)
	return uc.toResponse(ctx, state), nil
}

func (uc *registrationUsecase) Abandon(ctx context.Context, registrationID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("registrationUsecase.Abandon called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, registrationID),
	)

	state, err := uc.loadState(ctx, registrationID)
	if err != nil {
		return err
	}
	if state.InFlight {
		if err := uc.resolveStaleSubmission(ctx, state); err != nil {
			return err
		}
	}

	if err := uc.RedisRepository.Delete(ctx, workflowKey(registrationID)); err != nil {
		return err
	}

	uc.Log.Info("registrationUsecase.Abandon succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}

// resolveStaleSubmission handles a workflow still marked in flight. While the
// submit lock is held the submission is live and the caller is refused. A free
// lock means its owner died or lost the final write, so the workflow is moved
// to failed and saved.
func (uc *registrationUsecase) resolveStaleSubmission(ctx context.Context, state *models.RegistrationWorkflowState) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	lockKey := constvars.LockKeyPrefixRegistration + state.ID
	acquired, lockValue, err := uc.LockService.TryLock(ctx, lockKey, uc.InternalConfig.Registration.SubmitLockTTL)
	if err != nil {
		return exceptions.ErrLockAcquire(err, lockKey)
	}
	if !acquired {
		return exceptions.ErrSubmissionInFlight(nil)
	}
	defer func() {
		if err := uc.LockService.Unlock(context.WithoutCancel(ctx), lockKey, lockValue); err != nil {
			uc.Log.Warn("registrationUsecase.resolveStaleSubmission error releasing submit lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}()

	uc.Log.Warn("registrationUsecase.resolveStaleSubmission submission abandoned without outcome",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRegistrationIDKey, state.ID),
	)
	uc.Engine.ResolveStaleSubmission(state)
	return uc.saveState(ctx, state)
}

// refreshSubmitLock extends the submit lock at half its TTL until the returned
// stop func is called, so a slow account request keeps its lock.
func (uc *registrationUsecase) refreshSubmitLock(ctx context.Context, registrationID, lockValue string) func() {
	lockKey := constvars.LockKeyPrefixRegistration + registrationID
	ttl := uc.InternalConfig.Registration.SubmitLockTTL
	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	if ttl <= 0 {
		return cancelRefresh
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		tick := time.NewTicker(ttl / 2)
		defer tick.Stop()
		for {
			select {
			case <-refreshCtx.Done():
				return
			case <-tick.C:
				if err := uc.LockService.Refresh(refreshCtx, lockKey, lockValue, ttl); err != nil {
					uc.Log.Warn("registrationUsecase.refreshSubmitLock error refreshing submit lock",
						zap.String(constvars.LoggingRegistrationIDKey, registrationID),
						zap.Error(err),
					)
				}
			}
		}
	}()

	return func() {
		cancelRefresh()
		<-done
	}
}

func (uc *registrationUsecase) acquireInProcess(registrationID string) (func(), error) {
	if _, loaded := uc.inFlight.LoadOrStore(registrationID, struct{}{}); loaded {
		return nil, exceptions.ErrSubmissionInFlight(nil)
	}
	return func() { uc.inFlight.Delete(registrationID) }, nil
}

func (uc *registrationUsecase) loadState(ctx context.Context, registrationID string) (*models.RegistrationWorkflowState, error) {
	raw, err := uc.RedisRepository.Get(ctx, workflowKey(registrationID))
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, exceptions.ErrWorkflowNotFound(nil)
	}

	state := new(models.RegistrationWorkflowState)
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, exceptions.ErrWorkflowStateCorrupted(err)
	}
	return state, nil
}

// saveState refreshes the workflow TTL on every write.
func (uc *registrationUsecase) saveState(ctx context.Context, state *models.RegistrationWorkflowState) error {
	return uc.RedisRepository.Set(ctx, workflowKey(state.ID), state, uc.InternalConfig.Registration.WorkflowTTL)
}

func workflowKey(registrationID string) string {
	return constvars.RedisKeyPrefixRegistration + registrationID
}

func attachPhoto(state *models.RegistrationWorkflowState, objectKey string) {
	if state.Draft == nil || state.Draft.Doctor == nil {
		draft := models.NewDoctorPersonalData(models.DoctorData{
			Phone: models.Phone{CountryCode: state.Country.Code, CountryName: state.Country.Name},
		})
		state.Draft = &draft
	}
	state.Draft.Doctor.PhotoObjectKey = objectKey
	if state.PersonalData != nil && state.PersonalData.Doctor != nil {
		state.PersonalData.Doctor.PhotoObjectKey = objectKey
	}
	state.Progress = utils.ProgressPercent(completedFields(*state.Draft), constvars.RegistrationFormFields)
}
